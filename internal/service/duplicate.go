package service

import (
	"strings"

	"github.com/adala/case-intake/internal/models"
)

const duplicatePrefixRunes = 20

// FindDuplicate returns the first case, in repository order, filed by the
// same plaintiff whose description contains the leading 20 characters of
// subject or whose facts contain the leading 20 characters of facts.
// Pending cases are ignored. The result is advisory only.
func FindDuplicate(plaintiffName, subject, facts string, cases []models.CaseRecord) *models.CaseRecord {
	subjectPrefix := runePrefix(subject, duplicatePrefixRunes)
	factsPrefix := runePrefix(facts, duplicatePrefixRunes)

	for i := range cases {
		c := cases[i]
		if c.PlaintiffName != plaintiffName || c.Status == models.StatusPending {
			continue
		}
		// an empty prefix would match every record
		if subjectPrefix != "" && strings.Contains(c.Description, subjectPrefix) {
			return &c
		}
		if factsPrefix != "" && c.Facts != "" && strings.Contains(c.Facts, factsPrefix) {
			return &c
		}
	}
	return nil
}

// runePrefix returns the first n characters of s after trimming.
func runePrefix(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
