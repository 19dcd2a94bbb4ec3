package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/catalog"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/router"
	"github.com/Smruthi-2727/interactive-storytelling-tutor/internal/screen/screentest"
)

func loaded(t *testing.T, fx *screentest.Fixture) *LibraryScreen {
	t.Helper()
	s := New(fx.Env)
	for _, msg := range screentest.Drain(s.Init()) {
		s.Update(msg)
	}
	require.True(t, s.loaded)
	return s
}

func TestLibrary_LoadsStories(t *testing.T) {
	fx := screentest.New(t)
	s := loaded(t, fx)

	st, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "owl", st.ID)
	assert.Contains(t, s.View(100, 30), "The Night Owl")
}

func TestLibrary_FilterNarrowsList(t *testing.T) {
	fx := screentest.New(t)
	s := loaded(t, fx)

	s.Update(screentest.Key("/"))
	require.True(t, s.CapturesEsc())
	for _, k := range []string{"z", "z", "z"} {
		s.Update(screentest.Key(k))
	}
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.Contains(t, s.View(100, 30), "No stories match.")

	s.Update(screentest.Key("esc"))
	assert.False(t, s.CapturesEsc())
	_, ok = s.Selected()
	assert.True(t, ok, "clearing the filter restores the list")

	s.Update(screentest.Key("/"))
	for _, k := range []string{"f", "r", "i"} {
		s.Update(screentest.Key(k))
	}
	s.Update(screentest.Key("enter"))
	assert.False(t, s.CapturesEsc())
	st, ok := s.Selected()
	require.True(t, ok, "category matches")
	assert.Equal(t, "owl", st.ID)
}

func TestLibrary_EnterStartsSession(t *testing.T) {
	fx := screentest.New(t)
	s := loaded(t, fx)

	_, cmd := s.Update(screentest.Key("enter"))
	msgs := screentest.Drain(cmd)
	require.Len(t, msgs, 1)

	_, cmd = s.Update(msgs[0])
	msgs = screentest.Drain(cmd)
	require.Len(t, msgs, 1)
	push, ok := msgs[0].(router.PushScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "The Night Owl", push.Screen.Title())

	sessions, err := fx.Tutor.ListSessions(context.Background(), fx.Env.UserID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestLibrary_EmptyShelf(t *testing.T) {
	fx := screentest.New(t)
	s := New(fx.Env)
	s.Update(storiesLoadedMsg{Stories: []catalog.Story{}})
	assert.Contains(t, s.View(100, 30), "The bookshelf is empty.")
	_, cmd := s.Update(screentest.Key("enter"))
	assert.Nil(t, cmd)
}
