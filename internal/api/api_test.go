package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/store"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/tutor"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type client struct {
	t     *testing.T
	srv   *httptest.Server
	token string
}

func newTestServer(t *testing.T) *client {
	t.Helper()
	ctx := context.Background()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	st, err := store.Open(ctx, store.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.StoryRepo().SeedStories(ctx, []catalog.Story{{
		ID:          "bridge",
		Title:       "The Rope Bridge",
		Description: "Two goats learn to share",
		Difficulty:  catalog.Beginner,
		Category:    "cooperation",
		Scenes:      []string{"meeting", "standoff", "crossing"},
		Quiz: []catalog.Question{
			{Text: "Where did the goats meet?", Options: []string{"On a bridge", "In a barn"}, Correct: 0},
			{Text: "How did they cross?", Options: []string{"They fought", "One let the other pass"}, Correct: 1},
		},
		Active: true,
	}}))

	svc := tutor.New(st, st.StoryRepo(), tutor.Options{Logger: discardLogger()})
	authSvc := auth.NewService(st.UserRepo(), "0123456789abcdef-test", time.Hour)
	srv := httptest.NewServer(NewRouter(svc, authSvc, Options{
		CORSOrigins: []string{"http://localhost:3000"},
		Logger:      discardLogger(),
		Chat:        chat.New(nil, svc, chat.Options{Logger: discardLogger()}),
	}))
	t.Cleanup(srv.Close)
	return &client{t: t, srv: srv}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var rdr *bytes.Reader
	switch b := body.(type) {
	case nil:
		rdr = bytes.NewReader(nil)
	case string:
		rdr = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.srv.URL+path, rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *client) register(username string) {
	c.t.Helper()
	var resp authResponse
	code := c.do(http.MethodPost, "/auth/register", credentials{Username: username, Password: "open-sesame"}, &resp)
	require.Equal(c.t, http.StatusCreated, code)
	require.NotEmpty(c.t, resp.Token)
	c.token = resp.Token
}

func TestHealthz(t *testing.T) {
	c := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAuthFlow(t *testing.T) {
	c := newTestServer(t)

	var e errorBody
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/api/progress", nil, &e))
	assert.Equal(t, "unauthorized", e.Code)

	c.register("juno")

	var login authResponse
	code := c.do(http.MethodPost, "/auth/login", credentials{Username: "juno", Password: "open-sesame"}, &login)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "juno", login.Username)

	code = c.do(http.MethodPost, "/auth/login", credentials{Username: "juno", Password: "nope-nope"}, &e)
	assert.Equal(t, http.StatusUnauthorized, code)

	code = c.do(http.MethodPost, "/auth/register", credentials{Username: "juno", Password: "open-sesame"}, &e)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", e.Code)
}

func TestStoriesHideAnswerKey(t *testing.T) {
	c := newTestServer(t)
	c.register("juno")

	var list []storySummary
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/stories", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "bridge", list[0].ID)

	var raw map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/stories/bridge", nil, &raw))
	quiz := raw["quiz"].([]any)
	require.Len(t, quiz, 2)
	_, leaked := quiz[0].(map[string]any)["correct"]
	assert.False(t, leaked, "answer key must not be served")
	assert.Len(t, raw["scenes"], 3)

	var e errorBody
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/stories/missing", nil, &e))
	assert.Equal(t, "not_found", e.Code)
	assert.False(t, e.Retryable)
}

func TestReadingFlow(t *testing.T) {
	c := newTestServer(t)
	c.register("juno")

	var sess tutor.SessionView
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/sessions", map[string]string{"story_id": "bridge"}, &sess))
	require.NotEmpty(t, sess.ID)
	base := "/api/sessions/" + sess.ID

	// Out of order.
	var e errorBody
	code := c.do(http.MethodPost, base+"/scenes", map[string]int{"scene_index": 2, "reading_time_seconds": 10}, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "sequence", e.Code)
	assert.True(t, e.Retryable)

	// Results before the quiz.
	code = c.do(http.MethodGet, base+"/quiz", nil, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "invalid_state", e.Code)

	for i := 0; i < catalog.SceneCount; i++ {
		var p tutor.SceneProgress
		code := c.do(http.MethodPost, base+"/scenes", map[string]int{"scene_index": i, "reading_time_seconds": 40}, &p)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, i+1, p.ScenesCompleted)
	}

	var out tutor.QuizOutcome
	code = c.do(http.MethodPost, base+"/quiz", `{"answers":{"0":0,"1":1},"total_quiz_time_seconds":30}`, &out)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 100.0, out.Score)
	assert.Equal(t, "perfect_score", string(out.AchievementUnlocked))
	assert.NotEmpty(t, out.Feedback)

	code = c.do(http.MethodPost, base+"/quiz", `{"answers":{"0":0},"total_quiz_time_seconds":30}`, &e)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "invalid_state", e.Code)
	assert.False(t, e.Retryable)

	var res tutor.QuizResults
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base+"/quiz", nil, &res))
	assert.Equal(t, 150, res.ReadingTime)
	assert.Len(t, res.Answers, 2)

	var view tutor.SessionView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, base, nil, &view))
	assert.True(t, view.QuizCompleted)

	var sessions []tutor.SessionView
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/sessions", nil, &sessions))
	assert.Len(t, sessions, 1)

	var prog map[string]any
	require.Equal(t, http.StatusOK, c.do(http.MethodGet, "/api/progress", nil, &prog))
	assert.EqualValues(t, 1, prog["total_stories_completed"])
	assert.EqualValues(t, 100, prog["total_points"])
}

func TestSessionsAreScopedToCaller(t *testing.T) {
	c := newTestServer(t)
	c.register("juno")
	var sess tutor.SessionView
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/sessions", map[string]string{"story_id": "bridge"}, &sess))

	c.register("pax")
	var e errorBody
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/api/sessions/"+sess.ID, nil, &e))
}

func TestBadRequests(t *testing.T) {
	c := newTestServer(t)
	c.register("juno")
	var sess tutor.SessionView
	require.Equal(t, http.StatusCreated, c.do(http.MethodPost, "/api/sessions", map[string]string{"story_id": "bridge"}, &sess))
	base := "/api/sessions/" + sess.ID

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", base + "/scenes", `{"scene_index":`},
		{"unknown field", base + "/scenes", `{"scene_index":0,"bogus":1}`},
		{"missing scene index", base + "/scenes", `{"reading_time_seconds":5}`},
		{"negative reading time", base + "/scenes", `{"scene_index":0,"reading_time_seconds":-1}`},
		{"non-integer answer key", base + "/quiz", `{"answers":{"first":0}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e errorBody
			code := c.do(http.MethodPost, tt.path, tt.body, &e)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "validation", e.Code)
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&errs.NotFoundError{Kind: "story"}, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", &errs.SequenceError{Expected: 1}), http.StatusConflict},
		{&errs.InvalidStateError{}, http.StatusConflict},
		{&errs.ValidationError{}, http.StatusBadRequest},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	writeError(rec, req, discardLogger(), errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, strings.Contains(rec.Body.String(), "password"))
}
