package ai

import (
	"context"
	"encoding/json"
	"log"
	"strings"
)

// Completer is the single-call surface the suggester needs from a model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	// Storage enforces the same bounds; these are contracts, not styling.
	SuggestTitleMaxLen       = 80
	SuggestDescriptionMaxLen = 400
)

const (
	fallbackTitle       = "New task"
	fallbackDescription = "Added from a voice note."
)

const suggestSystemPrompt = `You are an assistant that turns a voice transcript into a single actionable task.
Respond ONLY with a valid JSON object with exactly these keys:
{"title": string, "description": string}
The title must be short and action-oriented (max 80 characters).
The description may keep useful detail from the transcript (max 400 characters).
Do not add any text outside the JSON.`

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Suggester turns free-text transcripts into task drafts. With no model
// configured it degrades to a local heuristic; it never returns an error.
type Suggester struct {
	model Completer
}

// NewSuggester accepts a nil model: that is the supported degraded mode.
func NewSuggester(model Completer) *Suggester {
	return &Suggester{model: model}
}

func (s *Suggester) Suggest(ctx context.Context, transcript string) Suggestion {
	if s.model == nil {
		return heuristicSuggestion(transcript)
	}

	content, err := s.model.Complete(ctx, suggestSystemPrompt, "Transcript: "+transcript)
	if err != nil {
		log.Printf("[WARN] suggest: model call failed: %v", err)
		return heuristicSuggestion(transcript)
	}

	var parsed Suggestion
	if err := json.Unmarshal([]byte(ExtractJSON(content)), &parsed); err != nil {
		log.Printf("[WARN] suggest: model returned unparseable JSON: %v", err)
		return heuristicSuggestion(transcript)
	}
	if strings.TrimSpace(parsed.Title) == "" {
		return heuristicSuggestion(transcript)
	}

	return Suggestion{
		Title:       truncateRunes(strings.TrimSpace(parsed.Title), SuggestTitleMaxLen),
		Description: truncateRunes(strings.TrimSpace(parsed.Description), SuggestDescriptionMaxLen),
	}
}

// heuristicSuggestion is the model-free path: first sentence as title, whole
// transcript as description, bounded to the storage limits.
func heuristicSuggestion(transcript string) Suggestion {
	text := strings.TrimSpace(transcript)

	title := text
	if idx := strings.IndexAny(text, ".!?\n"); idx != -1 {
		title = strings.TrimSpace(text[:idx])
	}
	title = truncateRunes(title, SuggestTitleMaxLen)
	if title == "" {
		title = fallbackTitle
	}

	description := truncateRunes(text, SuggestDescriptionMaxLen)
	if description == "" {
		description = fallbackDescription
	}

	return Suggestion{Title: title, Description: description}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
