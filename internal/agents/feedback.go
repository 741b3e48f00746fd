package agents

import (
	"regexp"
	"strconv"
	"strings"

	"agent_academy/internal/models"
)

// Feedback parsing: best-effort structured extraction from the model's
// free-text reply. The model is asked for a SCORE/STRENGTHS/IMPROVEMENTS/
// REWRITTEN layout but nothing guarantees it complies, so every section falls
// back to a default rather than failing the request.

var (
	scoreRe        = regexp.MustCompile(`SCORE:\s*(\d+)`)
	strengthsRe    = regexp.MustCompile(`STRENGTHS:\s*((?:- .+\n?)+)`)
	improvementsRe = regexp.MustCompile(`IMPROVEMENTS:\s*((?:- .+\n?)+)`)
	rewrittenRe    = regexp.MustCompile(`(?s)REWRITTEN:\s*(.+?)(?:\n\n|$)`)
)

const (
	defaultScore   = 50
	defaultRewrite = "Keep refining your approach."
)

// ParseFeedback extracts structured feedback from content, filling defaults
// for any section the model omitted or mangled.
func ParseFeedback(content string) models.PromptFeedback {
	fb := models.PromptFeedback{
		Score:             defaultScore,
		Strengths:         []string{"Analysis completed"},
		Improvements:      []string{"Continue practicing"},
		RewriteSuggestion: defaultRewrite,
	}

	if m := scoreRe.FindStringSubmatch(content); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil {
			fb.Score = score
		}
	}
	if m := strengthsRe.FindStringSubmatch(content); m != nil {
		if items := parseBullets(m[1]); len(items) > 0 {
			fb.Strengths = items
		}
	}
	if m := improvementsRe.FindStringSubmatch(content); m != nil {
		if items := parseBullets(m[1]); len(items) > 0 {
			fb.Improvements = items
		}
	}
	if m := rewrittenRe.FindStringSubmatch(content); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			fb.RewriteSuggestion = s
		}
	}

	return fb
}

func parseBullets(block string) []string {
	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, strings.TrimSpace(strings.TrimPrefix(line, "- ")))
	}
	return items
}
