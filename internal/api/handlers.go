package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/progress"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/quiz"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/session"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

// Tutor is the engine surface the handlers drive.
type Tutor interface {
	ListStories(ctx context.Context) ([]catalog.Story, error)
	GetStory(ctx context.Context, storyID string) (*catalog.Story, error)
	StartSession(ctx context.Context, userID, storyID string) (*session.Session, error)
	GetSession(ctx context.Context, userID, sessionID string) (*session.Session, error)
	ListSessions(ctx context.Context, userID string) ([]session.Session, error)
	CompleteScene(ctx context.Context, userID, sessionID string, sceneIndex, readingSeconds int) (*tutor.SceneProgress, error)
	SubmitQuiz(ctx context.Context, userID, sessionID string, answers quiz.Answers, quizSeconds int) (*tutor.QuizOutcome, error)
	GetQuizResults(ctx context.Context, userID, sessionID string) (*tutor.QuizResults, error)
	GetProgress(ctx context.Context, userID string) (*progress.UserProgress, error)
}

var _ Tutor = (*tutor.Service)(nil)

// storySummary is a catalog entry without scene text.
type storySummary struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Difficulty  catalog.Difficulty `json:"difficulty"`
	Category    string             `json:"category"`
}

// questionView hides the answer key.
type questionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type storyView struct {
	storySummary
	Scenes []string       `json:"scenes"`
	Quiz   []questionView `json:"quiz"`
}

func summarize(s catalog.Story) storySummary {
	return storySummary{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Difficulty:  s.Difficulty,
		Category:    s.Category,
	}
}

type authResponse struct {
	Token    string `json:"access_token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func registerHandler(a *auth.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		u, tok, err := a.Register(r.Context(), req.Username, req.Password)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, authResponse{Token: tok, UserID: u.ID, Username: u.Username})
	}
}

func loginHandler(a *auth.Service, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		u, tok, err := a.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, authResponse{Token: tok, UserID: u.ID, Username: u.Username})
	}
}

func listStoriesHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stories, err := t.ListStories(r.Context())
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		out := make([]storySummary, 0, len(stories))
		for _, s := range stories {
			out = append(out, summarize(s))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getStoryHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := t.GetStory(r.Context(), chi.URLParam(r, "storyID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		v := storyView{storySummary: summarize(*s), Scenes: s.Scenes, Quiz: make([]questionView, 0, len(s.Quiz))}
		for _, q := range s.Quiz {
			v.Quiz = append(v.Quiz, questionView{Question: q.Text, Options: q.Options})
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func startSessionHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			StoryID string `json:"story_id"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		id, _ := auth.IdentityFromContext(r.Context())
		sess, err := t.StartSession(r.Context(), id.UserID, req.StoryID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusCreated, tutor.View(sess))
	}
}

func listSessionsHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		sessions, err := t.ListSessions(r.Context(), id.UserID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		out := make([]tutor.SessionView, 0, len(sessions))
		for i := range sessions {
			out = append(out, tutor.View(&sessions[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getSessionHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		sess, err := t.GetSession(r.Context(), id.UserID, chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, tutor.View(sess))
	}
}

func completeSceneHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SceneIndex     *int `json:"scene_index"`
			ReadingSeconds int  `json:"reading_time_seconds"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		if req.SceneIndex == nil {
			writeError(w, r, log, missingField("scene_index"))
			return
		}
		id, _ := auth.IdentityFromContext(r.Context())
		p, err := t.CompleteScene(r.Context(), id.UserID, chi.URLParam(r, "sessionID"), *req.SceneIndex, req.ReadingSeconds)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func submitQuizHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers     map[string]int `json:"answers"`
			QuizSeconds int            `json:"total_quiz_time_seconds"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		answers, err := quiz.ParseAnswers(req.Answers)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		id, _ := auth.IdentityFromContext(r.Context())
		out, err := t.SubmitQuiz(r.Context(), id.UserID, chi.URLParam(r, "sessionID"), answers, req.QuizSeconds)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func quizResultsHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		res, err := t.GetQuizResults(r.Context(), id.UserID, chi.URLParam(r, "sessionID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func progressHandler(t Tutor, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		p, err := t.GetProgress(r.Context(), id.UserID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
