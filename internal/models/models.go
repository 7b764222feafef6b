package models

import (
	"fmt"
	"time"
)

// Status is the lifecycle position of a case. Only StatusAnalyzed is produced
// by the intake workflow; pending and routed are reserved.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnalyzed Status = "analyzed"
	StatusRouted   Status = "routed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAnalyzed, StatusRouted:
		return true
	}
	return false
}

type CaseRecord struct {
	ID            string          `json:"id"`
	PlaintiffName string          `json:"plaintiffName"`
	PlaintiffID   string          `json:"plaintiffId,omitempty"`
	DefendantName string          `json:"defendantName"`
	Description   string          `json:"description"`
	Facts         string          `json:"facts,omitempty"`
	Requests      string          `json:"requests,omitempty"`
	LegalBasis    string          `json:"legalBasis,omitempty"`
	Date          time.Time       `json:"date"`
	Status        Status          `json:"status"`
	Analysis      *AnalysisResult `json:"analysis,omitempty"`
}

type ExtractedInfo struct {
	PlaintiffName string `json:"plaintiffName,omitempty"`
	PlaintiffID   string `json:"plaintiffId,omitempty"`
	DefendantName string `json:"defendantName,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Facts         string `json:"facts,omitempty"`
	Requests      string `json:"requests,omitempty"`
	LegalBasis    string `json:"legalBasis,omitempty"`
}

type RequirementsCheck struct {
	HasClearFacts   bool     `json:"hasClearFacts"`
	HasClearRequest bool     `json:"hasClearRequest"`
	MissingElements []string `json:"missingElements"`
}

// Complete reports whether the filing satisfies the admission requirements.
func (r RequirementsCheck) Complete() bool {
	return r.HasClearFacts && r.HasClearRequest && len(r.MissingElements) == 0
}

// Consistent reports whether MissingElements is empty exactly when both
// flags are set.
func (r RequirementsCheck) Consistent() bool {
	return (len(r.MissingElements) == 0) == (r.HasClearFacts && r.HasClearRequest)
}

type AnalysisResult struct {
	CourtType         CourtType         `json:"courtType"`
	Priority          Priority          `json:"priority"`
	Summary           string            `json:"summary"`
	Reasoning         string            `json:"reasoning"`
	Keywords          []string          `json:"keywords"`
	IsLikelyMalicious bool              `json:"isLikelyMalicious"`
	MaliciousReason   string            `json:"maliciousReason,omitempty"`
	LegalGrounds      string            `json:"legalGrounds"`
	RequirementsCheck RequirementsCheck `json:"requirementsCheck"`
	ExtractedInfo     *ExtractedInfo    `json:"extractedInfo,omitempty"`
}

type DashboardStats struct {
	TotalCases   int `json:"totalCases"`
	UrgentCases  int `json:"urgentCases"`
	RoutedCases  int `json:"routedCases"`
	FlaggedCases int `json:"flaggedCases"`
}

// Validate checks the closed enumerations of a classification verdict.
func (a AnalysisResult) Validate() error {
	if _, err := ParseCourtType(string(a.CourtType)); err != nil {
		return fmt.Errorf("courtType: %w", err)
	}
	if _, err := ParsePriority(string(a.Priority)); err != nil {
		return fmt.Errorf("priority: %w", err)
	}
	return nil
}
