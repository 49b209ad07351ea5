package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubModel struct {
	reply string
	err   error
	calls int
}

func (m *stubModel) Complete(ctx context.Context, system, user string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func TestSuggestNoModelUsesHeuristic(t *testing.T) {
	s := NewSuggester(nil)

	got := s.Suggest(context.Background(), "Buy milk and eggs tomorrow morning")
	assert.Equal(t, "Buy milk and eggs tomorrow morning", got.Title)
	assert.Equal(t, "Buy milk and eggs tomorrow morning", got.Description)
}

func TestSuggestHeuristicSplitsFirstSentence(t *testing.T) {
	s := NewSuggester(nil)

	got := s.Suggest(context.Background(), "Call the dentist. Ask about the Thursday slot, and mention the insurance change.")
	assert.Equal(t, "Call the dentist", got.Title)
	assert.True(t, strings.HasPrefix(got.Description, "Call the dentist. Ask about"))
}

func TestSuggestHeuristicTruncates(t *testing.T) {
	s := NewSuggester(nil)

	long := strings.Repeat("a", 500)
	got := s.Suggest(context.Background(), long)
	assert.Len(t, got.Title, SuggestTitleMaxLen)
	assert.Len(t, got.Description, SuggestDescriptionMaxLen)
}

func TestSuggestHeuristicEmptyTranscript(t *testing.T) {
	s := NewSuggester(nil)

	got := s.Suggest(context.Background(), "   ")
	assert.Equal(t, fallbackTitle, got.Title)
	assert.Equal(t, fallbackDescription, got.Description)
}

func TestSuggestModelHappyPath(t *testing.T) {
	m := &stubModel{reply: "```json\n{\"title\":\"Book flights\",\"description\":\"Rome, second week of July\"}\n```"}
	s := NewSuggester(m)

	got := s.Suggest(context.Background(), "so I need to book the flights for Rome, second week of July I think")
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, "Book flights", got.Title)
	assert.Equal(t, "Rome, second week of July", got.Description)
}

func TestSuggestModelGarbageFallsBack(t *testing.T) {
	m := &stubModel{reply: "I'd be happy to help! Here is a task for you."}
	s := NewSuggester(m)

	got := s.Suggest(context.Background(), "Water the plants")
	assert.Equal(t, "Water the plants", got.Title)
}

func TestSuggestModelErrorFallsBack(t *testing.T) {
	m := &stubModel{err: errors.New("boom")}
	s := NewSuggester(m)

	got := s.Suggest(context.Background(), "Water the plants")
	assert.Equal(t, "Water the plants", got.Title)
}

func TestSuggestModelOutputIsBounded(t *testing.T) {
	m := &stubModel{reply: `{"title":"` + strings.Repeat("t", 120) + `","description":"` + strings.Repeat("d", 600) + `"}`}
	s := NewSuggester(m)

	got := s.Suggest(context.Background(), "anything")
	assert.Len(t, got.Title, SuggestTitleMaxLen)
	assert.Len(t, got.Description, SuggestDescriptionMaxLen)
}
