package ask

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/chat"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen/screentest"
)

func typeText(s *AskScreen, text string) {
	for _, r := range text {
		s.Update(screentest.Key(string(r)))
	}
}

// submit presses Enter and feeds the reply back into s.
func submit(s *AskScreen) []tea.Msg {
	_, cmd := s.Update(screentest.Key("enter"))
	msgs := screentest.Drain(cmd)
	for _, msg := range msgs {
		s.Update(msg)
	}
	return msgs
}

func TestAsk_ShowsTutorReply(t *testing.T) {
	fx := screentest.New(t)
	s := New(fx.Env, fx.Story)
	s.Init()
	assert.Equal(t, "Ask the tutor", s.Title())
	assert.Contains(t, s.View(100, 30), "Ask anything about the story.")

	typeText(s, "hello")
	msgs := submit(s)
	require.Len(t, msgs, 1)

	view := s.View(100, 30)
	assert.Contains(t, view, "You: ")
	assert.Contains(t, view, "hello")
	assert.Contains(t, view, "Tutor: Hello!")
	assert.Contains(t, view, "Try: What is your favourite part of The Night Owl?")
	assert.Empty(t, s.input.Value())
}

func TestAsk_IgnoresBlankInput(t *testing.T) {
	fx := screentest.New(t)
	s := New(fx.Env, fx.Story)
	s.Init()

	typeText(s, "   ")
	assert.Empty(t, submit(s))
	assert.False(t, s.waiting)
}

type failingChat struct{}

func (failingChat) Reply(context.Context, string, string, string) (*chat.Reply, error) {
	return nil, errors.New("tutor is away")
}

func TestAsk_ShowsErrors(t *testing.T) {
	fx := screentest.New(t)
	env := fx.Env
	env.Chat = failingChat{}
	s := New(env, fx.Story)
	s.Init()

	typeText(s, "why?")
	submit(s)
	assert.Contains(t, s.View(100, 30), "tutor is away")
	assert.Empty(t, s.log)
}
