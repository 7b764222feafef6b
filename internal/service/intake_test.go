package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adala/case-intake/internal/ai"
	"github.com/adala/case-intake/internal/models"
	"github.com/adala/case-intake/internal/store"
)

type classifierFunc func(ctx context.Context, in ai.Input) (models.AnalysisResult, error)

func (f classifierFunc) Classify(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
	return f(ctx, in)
}

func verdict(court models.CourtType, priority models.Priority, missing ...string) models.AnalysisResult {
	if missing == nil {
		missing = []string{}
	}
	return models.AnalysisResult{
		CourtType:    court,
		Priority:     priority,
		Summary:      "ملخص",
		Reasoning:    "سبب",
		Keywords:     []string{},
		LegalGrounds: ai.LegalGroundsNotMentioned,
		RequirementsCheck: models.RequirementsCheck{
			HasClearFacts:   len(missing) == 0,
			HasClearRequest: len(missing) == 0,
			MissingElements: missing,
		},
	}
}

func newIntake(c ai.Classifier) (*IntakeService, *store.Store) {
	st := store.New()
	var n int64
	return &IntakeService{
		Store:      st,
		Classifier: c,
		Logger:     zerolog.Nop(),
		Now:        func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("AST", 3*3600)) },
		NewID:      func() string { return fmt.Sprintf("case-%d", atomic.AddInt64(&n, 1)) },
	}, st
}

func scenarioA() Submission {
	return Submission{
		Mode:          ModeManual,
		Subject:       "مطالبة مالية",
		Facts:         "تم توريد بضاعة ولم يتم السداد",
		Requests:      "سداد المبلغ",
		PlaintiffName: "أحمد",
	}
}

func TestSubmitManualPrependsAnalyzedCase(t *testing.T) {
	var got ai.Input
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		got = in
		return verdict(models.CourtCommercial, models.PriorityMedium), nil
	}))
	require.NoError(t, store.Seed(st))
	before := st.Len()

	out, err := svc.Submit(context.Background(), scenarioA())
	require.NoError(t, err)

	assert.Equal(t, before+1, st.Len())
	head := st.List()[0]
	assert.Equal(t, out.Case.ID, head.ID)
	assert.Equal(t, models.StatusAnalyzed, head.Status)
	require.NotNil(t, head.Analysis)
	assert.Equal(t, models.CourtCommercial, head.Analysis.CourtType)
	assert.Equal(t, models.PriorityMedium, head.Analysis.Priority)
	assert.Equal(t, "مطالبة مالية", head.Description)
	assert.Equal(t, "أحمد", head.PlaintiffName)
	assert.Equal(t, time.UTC, head.Date.Location())
	assert.Nil(t, out.Duplicate)
	assert.Empty(t, out.Notices)

	text, ok := got.(ai.TextInput)
	require.True(t, ok)
	assert.Contains(t, text.Text, "موضوع الدعوى: مطالبة مالية")
	assert.Contains(t, text.Text, "الوقائع: تم توريد بضاعة ولم يتم السداد")
	assert.Contains(t, text.Text, "الطلبات: سداد المبلغ")
	assert.Contains(t, text.Text, "المدعي: أحمد")

	assert.Equal(t, StateSucceeded, svc.State().State)
	assert.Equal(t, out.Case.ID, svc.State().LastCaseID)
}

func TestSubmitMissingFactsNeverCallsClassifier(t *testing.T) {
	var calls int32
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		atomic.AddInt32(&calls, 1)
		return verdict(models.CourtGeneral, models.PriorityNormal), nil
	}))

	sub := scenarioA()
	sub.Facts = "   "
	_, err := svc.Submit(context.Background(), sub)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"facts"}, verr.Fields)
	assert.Zero(t, atomic.LoadInt32(&calls))
	assert.Zero(t, st.Len())
	assert.Equal(t, StateIdle, svc.State().State)
}

func TestSubmitFailureLeavesRepositoryUnchanged(t *testing.T) {
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		return models.AnalysisResult{}, &ai.UpstreamError{Backend: "gemini", Err: errors.New("503")}
	}))
	require.NoError(t, store.Seed(st))
	before := st.List()

	_, err := svc.Submit(context.Background(), scenarioA())
	var ue *ai.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, before, st.List())

	state := svc.State()
	assert.Equal(t, StateFailed, state.State)
	assert.NotEmpty(t, state.LastError)
}

func TestSubmitConfigurationErrorSurfaces(t *testing.T) {
	svc, st := newIntake(&ai.GeminiClassifier{Logger: zerolog.Nop()})
	_, err := svc.Submit(context.Background(), scenarioA())
	require.True(t, ai.IsConfigurationError(err))
	assert.Zero(t, st.Len())
}

func TestSubmitDocumentUsesExtractedValues(t *testing.T) {
	info := &models.ExtractedInfo{
		PlaintiffName: "شركة الأفق",
		PlaintiffID:   "7009998887",
		DefendantName: "مؤسسة النور",
		Subject:       "مطالبة بقيمة عقد صيانة",
		Facts:         "أبرم الطرفان عقد صيانة ولم تسدد الدفعة الأخيرة.\n",
		Requests:      " إلزام المدعى عليها بالسداد",
		LegalBasis:    "العقد",
	}
	var got ai.Input
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		got = in
		v := verdict(models.CourtCommercial, models.PriorityNormal)
		v.ExtractedInfo = info
		return v, nil
	}))

	out, err := svc.Submit(context.Background(), Submission{
		Mode:          ModeDocument,
		PlaintiffName: "اسم مكتوب يدويا",
		Subject:       "موضوع مكتوب يدويا",
		Document:      &Document{Data: []byte("%PDF-1.4"), MIMEType: "application/pdf", Filename: "claim.pdf"},
	})
	require.NoError(t, err)

	doc, ok := got.(ai.DocumentInput)
	require.True(t, ok)
	assert.Equal(t, ai.ExtractionInstruction, doc.Instruction)
	assert.Equal(t, "application/pdf", doc.MIMEType)

	c := st.List()[0]
	assert.Equal(t, info.PlaintiffName, c.PlaintiffName)
	assert.Equal(t, info.PlaintiffID, c.PlaintiffID)
	assert.Equal(t, info.DefendantName, c.DefendantName)
	assert.Equal(t, info.Subject, c.Description)
	assert.Equal(t, info.Facts, c.Facts)
	assert.Equal(t, info.Requests, c.Requests)
	assert.Equal(t, info.LegalBasis, c.LegalBasis)
	assert.Equal(t, c, out.Case)
}

func TestSubmitDocumentFallsBackToTypedValues(t *testing.T) {
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		v := verdict(models.CourtLabor, models.PriorityNormal)
		v.ExtractedInfo = &models.ExtractedInfo{Facts: "فصل تعسفي"}
		return v, nil
	}))

	_, err := svc.Submit(context.Background(), Submission{
		Mode:          ModeDocument,
		PlaintiffName: "محمد",
		Document:      &Document{Data: []byte{0x89, 'P', 'N', 'G'}, MIMEType: "image/png"},
	})
	require.NoError(t, err)

	c := st.List()[0]
	assert.Equal(t, "محمد", c.PlaintiffName)
	assert.Equal(t, "فصل تعسفي", c.Facts)
	assert.Empty(t, c.Description)
}

func TestSubmitDocumentValidation(t *testing.T) {
	svc, _ := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		t.Fatal("classifier must not be called")
		return models.AnalysisResult{}, nil
	}))

	_, err := svc.Submit(context.Background(), Submission{Mode: ModeDocument})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"document"}, verr.Fields)

	_, err = svc.Submit(context.Background(), Submission{
		Mode:     ModeDocument,
		Document: &Document{Data: []byte("hello"), MIMEType: "text/plain"},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"document.mimeType"}, verr.Fields)

	_, err = svc.Submit(context.Background(), Submission{Mode: "fax"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "mode")
}

func TestSubmitFlagsDuplicate(t *testing.T) {
	svc, _ := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		return verdict(models.CourtPersonalStatus, models.PriorityUrgent), nil
	}))
	first := Submission{
		Mode:          ModeManual,
		PlaintiffName: "سارة أحمد",
		Subject:       "طلب حضانة",
		Facts:         "الأب يهدد بالسفر بالمحضون خارج المملكة",
		Requests:      "إثبات الحضانة",
	}
	out1, err := svc.Submit(context.Background(), first)
	require.NoError(t, err)
	assert.Nil(t, out1.Duplicate)

	second := first
	second.Subject = "طلب منع سفر"
	second.Facts = "الأب يهدد بالسفر بالمحضون مرة أخرى"
	out2, err := svc.Submit(context.Background(), second)
	require.NoError(t, err)
	require.NotNil(t, out2.Duplicate)
	assert.Equal(t, out1.Case.ID, out2.Duplicate.ID)
}

func TestSubmitIncompleteFilingNotices(t *testing.T) {
	svc, _ := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		return verdict(models.CourtGeneral, models.PriorityNormal, "تاريخ الواقعة"), nil
	}))
	sub := scenarioA()
	sub.FeesConfirmed = true

	out, err := svc.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, []string{"غير واضح: تاريخ الواقعة", "تنبيه: لم يتم تأكيد إرفاق المستندات"}, out.Notices)
	assert.False(t, out.Case.Analysis.RequirementsCheck.Complete())
}

func TestNoticesForCompleteFiling(t *testing.T) {
	rc := models.RequirementsCheck{HasClearFacts: true, HasClearRequest: true, MissingElements: []string{}}
	assert.Empty(t, Notices(rc, false, false))
}

func TestSubmitRefusedWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		close(started)
		<-release
		return verdict(models.CourtGeneral, models.PriorityNormal), nil
	}))

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), scenarioA())
		done <- err
	}()
	<-started

	assert.Equal(t, StateSubmitting, svc.State().State)
	_, err := svc.Submit(context.Background(), scenarioA())
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, StateSucceeded, svc.State().State)
}

func TestSubmitCancelledCommitsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, st := newIntake(classifierFunc(func(ctx context.Context, in ai.Input) (models.AnalysisResult, error) {
		cancel()
		return verdict(models.CourtGeneral, models.PriorityNormal), nil
	}))

	_, err := svc.Submit(ctx, scenarioA())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, st.Len())
	assert.Equal(t, StateFailed, svc.State().State)
}

func TestSubmitTimeout(t *testing.T) {
	svc, st := newIntake(ai.MockClassifier{Delay: time.Second})
	svc.Timeout = 10 * time.Millisecond

	_, err := svc.Submit(context.Background(), scenarioA())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, st.Len())
}

func TestResetReturnsToIdle(t *testing.T) {
	svc, _ := newIntake(ai.MockClassifier{})
	_, err := svc.Submit(context.Background(), scenarioA())
	require.NoError(t, err)
	svc.Reset()
	assert.Equal(t, StateIdle, svc.State().State)
}

func TestCaseIDRetriesOnCollision(t *testing.T) {
	ids := []string{"55401-C", "55401-C", "fresh"}
	var i int
	svc, st := newIntake(ai.MockClassifier{})
	require.NoError(t, store.Seed(st))
	svc.NewID = func() string {
		id := ids[i]
		i++
		return id
	}

	out, err := svc.Submit(context.Background(), scenarioA())
	require.NoError(t, err)
	assert.Equal(t, "fresh", out.Case.ID)
}

func TestShortID(t *testing.T) {
	id := shortID()
	assert.Len(t, id, 9)
	assert.False(t, strings.Contains(id, "-"))
}
