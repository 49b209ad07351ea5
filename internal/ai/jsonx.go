package ai

import "strings"

// ExtractJSON normalizes model output that is supposed to be bare JSON but
// often arrives wrapped in a fenced code block (```json ... ```). It strips
// one leading fence, with or without a "json" language tag, and everything
// from the matching closing fence on. Anything else passes through trimmed;
// it is the caller's job to actually parse the result.
func ExtractJSON(content string) string {
	clean := strings.TrimSpace(content)
	if !strings.HasPrefix(clean, "```") {
		return clean
	}

	clean = strings.TrimPrefix(clean, "```")
	if strings.HasPrefix(strings.ToLower(clean), "json") {
		clean = clean[len("json"):]
	}

	if idx := strings.LastIndex(clean, "```"); idx != -1 {
		clean = clean[:idx]
	}

	return strings.TrimSpace(clean)
}
