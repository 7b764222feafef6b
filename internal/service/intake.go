package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adala/case-intake/internal/ai"
	"github.com/adala/case-intake/internal/models"
)

// ErrSubmissionInFlight is returned when a submission arrives while another
// one is still waiting for its classification.
var ErrSubmissionInFlight = errors.New("a submission is already being classified")

const (
	noticeAttachments = "تنبيه: لم يتم تأكيد إرفاق المستندات"
	noticeFees        = "تنبيه: لم يتم تأكيد سداد الرسوم"
	noticeUnclear     = "غير واضح: "
)

type Mode string

const (
	ModeManual   Mode = "manual"
	ModeDocument Mode = "document"
)

type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

type Document struct {
	Data     []byte
	MIMEType string
	Filename string
}

// Submission is one filing as entered by the operator. In document mode the
// typed fields are optional and act as fallbacks for extracted values.
type Submission struct {
	Mode                 Mode      `json:"mode" validate:"required,oneof=manual document"`
	Subject              string    `json:"subject" validate:"required_if=Mode manual"`
	PlaintiffName        string    `json:"plaintiffName"`
	PlaintiffID          string    `json:"plaintiffId"`
	DefendantName        string    `json:"defendantName"`
	Facts                string    `json:"facts" validate:"required_if=Mode manual"`
	Requests             string    `json:"requests" validate:"required_if=Mode manual"`
	LegalBasis           string    `json:"legalBasis"`
	Document             *Document `json:"-"`
	AttachmentsConfirmed bool      `json:"attachmentsConfirmed"`
	FeesConfirmed        bool      `json:"feesConfirmed"`
}

func (s Submission) trimmed() Submission {
	for _, f := range []*string{&s.Subject, &s.PlaintiffName, &s.PlaintiffID, &s.DefendantName, &s.Facts, &s.Requests, &s.LegalBasis} {
		*f = strings.TrimSpace(*f)
	}
	return s
}

// ValidationError lists the submission fields that were missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Fields, ", ")
}

type Outcome struct {
	Case      models.CaseRecord  `json:"case"`
	Duplicate *models.CaseRecord `json:"potentialDuplicate,omitempty"`
	Notices   []string           `json:"notices"`
	LatencyMs int64              `json:"latencyMs"`
}

type StateSnapshot struct {
	State      State     `json:"state"`
	LastCaseID string    `json:"lastCaseId,omitempty"`
	LastError  string    `json:"lastError,omitempty"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CaseStore interface {
	List() []models.CaseRecord
	Prepend(models.CaseRecord) error
	Contains(id string) bool
}

type IntakeService struct {
	Store      CaseStore
	Classifier ai.Classifier
	Logger     zerolog.Logger
	Validator  *validator.Validate
	// Timeout bounds one classification call; zero leaves it to ctx.
	Timeout time.Duration
	Now     func() time.Time
	NewID   func() string

	mu    sync.Mutex
	state StateSnapshot
}

func (s *IntakeService) State() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.State == "" {
		return StateSnapshot{State: StateIdle, UpdatedAt: s.state.UpdatedAt}
	}
	return s.state
}

// Reset returns a finished workflow to idle. It has no effect while a
// submission is outstanding.
func (s *IntakeService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.State == StateSubmitting {
		return
	}
	s.state = StateSnapshot{State: StateIdle, UpdatedAt: s.now()}
}

func (s *IntakeService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.State == StateSubmitting {
		return false
	}
	s.state = StateSnapshot{State: StateSubmitting, UpdatedAt: s.now()}
	return true
}

func (s *IntakeService) finish(out Outcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateSnapshot{State: StateFailed, LastError: err.Error(), UpdatedAt: s.now()}
		return
	}
	s.state = StateSnapshot{State: StateSucceeded, LastCaseID: out.Case.ID, UpdatedAt: s.now()}
}

// Validate reports every problem with sub without calling the classifier.
func (s *IntakeService) Validate(sub Submission) error {
	sub = sub.trimmed()
	var fields []string

	v := s.Validator
	if v == nil {
		v = validator.New()
	}
	if err := v.Struct(sub); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, jsonName(fe.Field()))
		}
	}

	if sub.Mode == ModeDocument {
		switch {
		case sub.Document == nil || len(sub.Document.Data) == 0:
			fields = append(fields, "document")
		case !ai.SupportedMediaType(sub.Document.MIMEType):
			fields = append(fields, "document.mimeType")
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Submit classifies one filing and, on success, records it as an analyzed
// case at the front of the repository. Nothing is recorded when
// classification fails or ctx is cancelled before the verdict arrives.
func (s *IntakeService) Submit(ctx context.Context, sub Submission) (Outcome, error) {
	if err := s.Validate(sub); err != nil {
		return Outcome{}, err
	}
	if !s.begin() {
		return Outcome{}, ErrSubmissionInFlight
	}
	out, err := s.submit(ctx, sub.trimmed())
	s.finish(out, err)
	return out, err
}

func (s *IntakeService) submit(ctx context.Context, sub Submission) (Outcome, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	var input ai.Input
	if sub.Mode == ModeDocument {
		input = ai.DocumentInput{
			Data:        sub.Document.Data,
			MIMEType:    sub.Document.MIMEType,
			Instruction: ai.ExtractionInstruction,
		}
	} else {
		input = ai.TextInput{Text: narrative(sub)}
	}

	start := time.Now()
	analysis, err := s.Classifier.Classify(ctx, input)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		s.Logger.Error().Err(err).Str("mode", string(sub.Mode)).Int64("latency_ms", latency).Msg("classification failed")
		return Outcome{}, fmt.Errorf("classify: %w", err)
	}
	if err := ctx.Err(); err != nil {
		s.Logger.Warn().Err(err).Msg("submission abandoned after classification")
		return Outcome{}, err
	}
	if !analysis.RequirementsCheck.Consistent() {
		s.Logger.Warn().
			Bool("has_clear_facts", analysis.RequirementsCheck.HasClearFacts).
			Bool("has_clear_request", analysis.RequirementsCheck.HasClearRequest).
			Strs("missing_elements", analysis.RequirementsCheck.MissingElements).
			Msg("requirements check is inconsistent")
	}

	if sub.Mode == ModeDocument {
		sub = withExtracted(sub, analysis.ExtractedInfo)
	}

	dup := FindDuplicate(sub.PlaintiffName, sub.Subject, sub.Facts, s.Store.List())

	id, err := s.caseID()
	if err != nil {
		return Outcome{}, err
	}
	record := models.CaseRecord{
		ID:            id,
		PlaintiffName: sub.PlaintiffName,
		PlaintiffID:   sub.PlaintiffID,
		DefendantName: sub.DefendantName,
		Description:   sub.Subject,
		Facts:         sub.Facts,
		Requests:      sub.Requests,
		LegalBasis:    sub.LegalBasis,
		Date:          s.now().UTC(),
		Status:        models.StatusAnalyzed,
		Analysis:      &analysis,
	}
	if err := s.Store.Prepend(record); err != nil {
		return Outcome{}, err
	}

	ev := s.Logger.Info().
		Str("case_id", record.ID).
		Str("court", string(analysis.CourtType)).
		Str("priority", string(analysis.Priority)).
		Int64("latency_ms", latency)
	if dup != nil {
		ev = ev.Str("potential_duplicate", dup.ID)
	}
	ev.Msg("case analyzed")

	return Outcome{
		Case:      record,
		Duplicate: dup,
		Notices:   Notices(analysis.RequirementsCheck, sub.AttachmentsConfirmed, sub.FeesConfirmed),
		LatencyMs: latency,
	}, nil
}

// Notices lists the advisories shown with an incomplete filing. A complete
// filing has none.
func Notices(rc models.RequirementsCheck, attachmentsConfirmed, feesConfirmed bool) []string {
	out := []string{}
	if len(rc.MissingElements) == 0 {
		return out
	}
	for _, el := range rc.MissingElements {
		out = append(out, noticeUnclear+el)
	}
	if !attachmentsConfirmed {
		out = append(out, noticeAttachments)
	}
	if !feesConfirmed {
		out = append(out, noticeFees)
	}
	return out
}

func narrative(sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "موضوع الدعوى: %s\n", sub.Subject)
	fmt.Fprintf(&b, "الوقائع: %s\n", sub.Facts)
	fmt.Fprintf(&b, "الطلبات: %s\n", sub.Requests)
	fmt.Fprintf(&b, "الأسانيد: %s\n", sub.LegalBasis)
	fmt.Fprintf(&b, "المدعي: %s\n", sub.PlaintiffName)
	fmt.Fprintf(&b, "المدعى عليه: %s\n", sub.DefendantName)
	return b.String()
}

// withExtracted overlays the values the classifier read from the document.
// Extracted values are kept verbatim; a typed value is used only where the
// extracted one is blank.
func withExtracted(sub Submission, info *models.ExtractedInfo) Submission {
	if info == nil {
		return sub
	}
	pick := func(extracted, typed string) string {
		if strings.TrimSpace(extracted) != "" {
			return extracted
		}
		return typed
	}
	sub.PlaintiffName = pick(info.PlaintiffName, sub.PlaintiffName)
	sub.PlaintiffID = pick(info.PlaintiffID, sub.PlaintiffID)
	sub.DefendantName = pick(info.DefendantName, sub.DefendantName)
	sub.Subject = pick(info.Subject, sub.Subject)
	sub.Facts = pick(info.Facts, sub.Facts)
	sub.Requests = pick(info.Requests, sub.Requests)
	sub.LegalBasis = pick(info.LegalBasis, sub.LegalBasis)
	return sub
}

const maxIDAttempts = 5

func (s *IntakeService) caseID() (string, error) {
	gen := s.NewID
	if gen == nil {
		gen = shortID
	}
	for i := 0; i < maxIDAttempts; i++ {
		id := gen()
		if id != "" && !s.Store.Contains(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique case id after %d attempts", maxIDAttempts)
}

// shortID is a 9 character token taken from a random UUID.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
}

func (s *IntakeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
