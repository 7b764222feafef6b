package ai

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adala/case-intake/internal/models"
	"github.com/adala/case-intake/internal/utils"
)

// MockClassifier answers deterministically from a hash of the input. It is
// used when no real backend is configured and in demos.
type MockClassifier struct {
	Delay time.Duration
}

func (m MockClassifier) Classify(ctx context.Context, in Input) (models.AnalysisResult, error) {
	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return models.AnalysisResult{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	var seed, text string
	switch v := in.(type) {
	case TextInput:
		seed, text = v.Text, v.Text
	case DocumentInput:
		seed = string(v.Data)
	}
	// the last court is "unclassified" and is never picked by the mock
	court := models.CourtTypes[utils.Bucket(seed, "court", len(models.CourtTypes)-1)]
	priority := models.Priorities[utils.Bucket(seed, "priority", len(models.Priorities))]

	analysis := models.AnalysisResult{
		CourtType:    court,
		Priority:     priority,
		Summary:      firstWords(text, 20),
		Reasoning:    "تصنيف تجريبي آلي",
		Keywords:     keywords(text, 3),
		LegalGrounds: LegalGroundsNotMentioned,
		RequirementsCheck: models.RequirementsCheck{
			HasClearFacts:   true,
			HasClearRequest: true,
			MissingElements: []string{},
		},
	}
	if _, ok := in.(DocumentInput); ok {
		analysis.Summary = "مستند مرفوع"
		analysis.ExtractedInfo = &models.ExtractedInfo{Subject: "مستخرج من الملف"}
	}
	return analysis, nil
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

func keywords(s string, n int) []string {
	out := []string{}
	seen := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		w = strings.Trim(w, ":.,،")
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
		if len(out) == n {
			break
		}
	}
	return out
}
