package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/auth"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/errs"
)

// Chat is the tutor chat surface.
type Chat interface {
	Reply(ctx context.Context, userID, message, storyID string) (*chat.Reply, error)
	Clear(userID string) bool
	Suggestions() []string
	ContextFor(ctx context.Context, userID, storyID string) (*chat.Context, error)
	Status() chat.Status
}

var _ Chat = (*chat.Service)(nil)

const (
	socketReadLimit = 8 << 10
	socketIdle      = 5 * time.Minute
	socketWriteWait = 10 * time.Second
)

type chatRequest struct {
	Message string `json:"message"`
	StoryID string `json:"story_id,omitempty"`
}

func chatHandler(c Chat, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, log, err)
			return
		}
		id, _ := auth.IdentityFromContext(r.Context())
		reply, err := c.Reply(r.Context(), id.UserID, req.Message, req.StoryID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, reply)
	}
}

func clearChatHandler(c Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": c.Clear(id.UserID)})
	}
}

func chatSuggestionsHandler(c Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, struct {
			Suggestions []string  `json:"suggestions"`
			Mode        chat.Mode `json:"chat_mode"`
		}{c.Suggestions(), c.Status().Mode})
	}
}

func chatContextHandler(c Chat, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := auth.IdentityFromContext(r.Context())
		cc, err := c.ContextFor(r.Context(), id.UserID, chi.URLParam(r, "storyID"))
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, http.StatusOK, cc)
	}
}

func chatStatusHandler(c Chat) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, c.Status())
	}
}

// chatSocketHandler serves one JSON reply per JSON question until the
// client hangs up or stays idle for socketIdle. Errors are sent as frames
// and keep the connection open.
func chatSocketHandler(c Chat, a *auth.Service, origins []string, log *slog.Logger) http.HandlerFunc {
	up := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowOrigin(origins),
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := a.Identify(r, true)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already answered with an HTTP error.
			log.WarnContext(r.Context(), "chat socket upgrade failed", "user", id.UserID, "err", err)
			return
		}
		defer conn.Close()
		conn.SetReadLimit(socketReadLimit)

		ctx := r.Context()
		for {
			_ = conn.SetReadDeadline(time.Now().Add(socketIdle))
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.WarnContext(ctx, "chat socket closed", "user", id.UserID, "err", err)
				}
				return
			}

			var out any
			var req chatRequest
			if err := json.Unmarshal(data, &req); err != nil {
				_, out = bodyFor(&errs.ValidationError{Field: "body", Reason: err.Error()})
			} else if reply, err := c.Reply(ctx, id.UserID, req.Message, req.StoryID); err != nil {
				status, body := bodyFor(err)
				if status == http.StatusInternalServerError {
					log.ErrorContext(ctx, "chat reply failed", "user", id.UserID, "err", err)
				}
				out = body
			} else {
				out = reply
			}

			_ = conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
			if err := conn.WriteJSON(out); err != nil {
				log.WarnContext(ctx, "chat socket write failed", "user", id.UserID, "err", err)
				return
			}
		}
	}
}

// allowOrigin accepts same-host handshakes, clients that send no Origin,
// and the configured CORS origins.
func allowOrigin(origins []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		o := r.Header.Get("Origin")
		if o == "" {
			return true
		}
		if u, err := url.Parse(o); err == nil && strings.EqualFold(u.Host, r.Host) {
			return true
		}
		return slices.Contains(origins, o) || slices.Contains(origins, "*")
	}
}
