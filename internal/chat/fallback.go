package chat

import (
	"fmt"
	"strings"
	"unicode"
)

var generalSuggestions = []string{
	"Can you help me understand this story?",
	"What is the main lesson of the story?",
	"Why did the character make that choice?",
	"How should I get ready for the quiz?",
	"What does this word mean?",
	"Can you give me a short summary?",
}

// Suggestions are conversation starters not tied to a story.
func (s *Service) Suggestions() []string {
	return append([]string(nil), generalSuggestions...)
}

func storySuggestions(title string) []string {
	if title == "" {
		title = "the story"
	}
	return []string{
		fmt.Sprintf("What is your favourite part of %s?", title),
		"How do the characters change?",
		"Which lesson would you use in real life?",
	}
}

type topic int

const (
	topicOther topic = iota
	topicGreeting
	topicFriendship
	topicCharacter
	topicLesson
)

// classify picks the first topic any word of message belongs to, checking
// greetings first.
func classify(message string) topic {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	best := topicOther
	for _, w := range words {
		var t topic
		switch {
		case w == "hello" || w == "hi" || w == "hey":
			return topicGreeting
		case strings.HasPrefix(w, "friend"):
			t = topicFriendship
		case strings.HasPrefix(w, "character"):
			t = topicCharacter
		case strings.HasPrefix(w, "lesson"), strings.HasPrefix(w, "moral"), strings.HasPrefix(w, "learn"):
			t = topicLesson
		default:
			continue
		}
		if best == topicOther || t < best {
			best = t
		}
	}
	return best
}

func templateReply(message, title string) string {
	if title == "" {
		title = "this story"
	} else {
		title = fmt.Sprintf("%q", title)
	}
	switch classify(message) {
	case topicGreeting:
		return fmt.Sprintf("Hello! I'm your reading tutor and I'd love to explore %s with you. What would you like to find out?", title)
	case topicFriendship:
		return fmt.Sprintf("Friendship matters a lot in %s. Good friends help each other when things get hard. Which moment showed that best for you?", title)
	case topicCharacter:
		return fmt.Sprintf("Great question about the characters! Everyone in %s changes a little by the end. Which character would you like to talk about?", title)
	case topicLesson:
		return fmt.Sprintf("Every story teaches something. %s has a lesson about how we treat each other. What do you think it is?", capitalize(title))
	default:
		return fmt.Sprintf("That's a thoughtful question about %s! Can you tell me a bit more about what you're wondering?", title)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
