package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adala/case-intake/internal/ai"
	"github.com/adala/case-intake/internal/service"
	"github.com/adala/case-intake/internal/store"
)

// ClassificationFailedMessage is shown to the operator for every upstream or
// malformed-response failure.
const ClassificationFailedMessage = "حدث خطأ أثناء الاتصال بنموذج الذكاء الاصطناعي. تأكد من صلاحية الملف (PDF/Image) وحاول مرة أخرى."

// statusClientClosedRequest is the nginx convention for a caller that went
// away before the response was ready.
const statusClientClosedRequest = 499

// formOverhead is the body allowance on top of the document itself for
// multipart framing, typed fields and a data URI prefix.
const formOverhead = 1 << 20

type Handler struct {
	Store          *store.Store
	Intake         *service.IntakeService
	Validator      *validator.Validate
	Logger         zerolog.Logger
	MaxUploadBytes int64
}

type CaseFields struct {
	PlaintiffName        string `json:"plaintiffName" form:"plaintiffName"`
	PlaintiffID          string `json:"plaintiffId" form:"plaintiffId"`
	DefendantName        string `json:"defendantName" form:"defendantName"`
	Subject              string `json:"subject" form:"subject"`
	Facts                string `json:"facts" form:"facts"`
	Requests             string `json:"requests" form:"requests"`
	LegalBasis           string `json:"legalBasis" form:"legalBasis"`
	AttachmentsConfirmed bool   `json:"attachmentsConfirmed" form:"attachmentsConfirmed"`
	FeesConfirmed        bool   `json:"feesConfirmed" form:"feesConfirmed"`
}

func (f CaseFields) submission(mode service.Mode) service.Submission {
	return service.Submission{
		Mode:                 mode,
		Subject:              f.Subject,
		PlaintiffName:        f.PlaintiffName,
		PlaintiffID:          f.PlaintiffID,
		DefendantName:        f.DefendantName,
		Facts:                f.Facts,
		Requests:             f.Requests,
		LegalBasis:           f.LegalBasis,
		AttachmentsConfirmed: f.AttachmentsConfirmed,
		FeesConfirmed:        f.FeesConfirmed,
	}
}

type DocumentCaseRequest struct {
	CaseFields
	// Data is base64, optionally with a data URI prefix.
	Data     string `json:"data" validate:"required"`
	Filename string `json:"filename"`
}

// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "cases": h.Store.Len()})
}

// @Summary List cases
// @Description History view; q matches plaintiff name, case id or subject
// @Tags cases
// @Produce json
// @Param q query string false "search term"
// @Param limit query int false "page size (default 50, max 200)"
// @Param offset query int false "offset"
// @Success 200 {object} store.Page
// @Router /api/cases [get]
func (h *Handler) CasesList(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	c.JSON(http.StatusOK, h.Store.Search(q, limit, offset))
}

// @Summary Case details
// @Tags cases
// @Produce json
// @Param id path string true "case id"
// @Success 200 {object} models.CaseRecord
// @Failure 404 {object} map[string]any
// @Router /api/cases/{id} [get]
func (h *Handler) CaseDetails(c *gin.Context) {
	rec, err := h.Store.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load case", err.Error())
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary Submit a typed filing
// @Tags intake
// @Accept json
// @Produce json
// @Param payload body CaseFields true "filing"
// @Success 201 {object} service.Outcome
// @Failure 400 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/cases [post]
func (h *Handler) CreateCase(c *gin.Context) {
	var req CaseFields
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	h.submit(c, req.submission(service.ModeManual))
}

// @Summary Submit a scanned filing
// @Description The media type is detected from the file content; images and PDF are accepted
// @Tags intake
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF or image"
// @Param plaintiffName formData string false "typed plaintiff name, used when none is extracted"
// @Param attachmentsConfirmed formData bool false "attachments confirmed"
// @Param feesConfirmed formData bool false "fees confirmed"
// @Success 201 {object} service.Outcome
// @Failure 400 {object} map[string]any
// @Failure 413 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/cases/upload [post]
func (h *Handler) UploadCase(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		limitBody(c, h.MaxUploadBytes+formOverhead)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			h.writeTooLarge(c)
			return
		}
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "file required", nil)
		return
	}
	if h.MaxUploadBytes > 0 && fh.Size > h.MaxUploadBytes {
		h.writeTooLarge(c)
		return
	}
	var fields CaseFields
	if err := c.ShouldBind(&fields); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid form fields", err.Error())
		return
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read file", err.Error())
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to read file", err.Error())
		return
	}

	h.submitDocument(c, fields, data, fh.Filename)
}

// @Summary Submit a filing as base64
// @Description data may carry a data URI prefix; the media type is detected from the decoded bytes
// @Tags intake
// @Accept json
// @Produce json
// @Param payload body DocumentCaseRequest true "document"
// @Success 201 {object} service.Outcome
// @Failure 400 {object} map[string]any
// @Failure 413 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/cases/document [post]
func (h *Handler) DocumentCase(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		limitBody(c, base64Len(h.MaxUploadBytes)+formOverhead)
	}
	var req DocumentCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			h.writeTooLarge(c)
			return
		}
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	data, _, err := ai.DecodeDocument(req.Data)
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "data is not valid base64", err.Error())
		return
	}
	if h.MaxUploadBytes > 0 && int64(len(data)) > h.MaxUploadBytes {
		h.writeTooLarge(c)
		return
	}
	h.submitDocument(c, req.CaseFields, data, req.Filename)
}

func (h *Handler) submitDocument(c *gin.Context, fields CaseFields, data []byte, filename string) {
	mediaType := mimetype.Detect(data).String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if !ai.SupportedMediaType(mediaType) {
		writeError(c, http.StatusBadRequest, "UNSUPPORTED_MEDIA_TYPE", "Only PDF and image files are accepted", gin.H{"detected": mediaType})
		return
	}
	sub := fields.submission(service.ModeDocument)
	sub.Document = &service.Document{Data: data, MIMEType: mediaType, Filename: filename}
	h.submit(c, sub)
}

func (h *Handler) submit(c *gin.Context, sub service.Submission) {
	out, err := h.Intake.Submit(c.Request.Context(), sub)
	if err != nil {
		h.writeIntakeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// @Summary Dashboard aggregates
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.Dashboard
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, service.BuildDashboard(h.Store.List()))
}

// @Summary Intake workflow state
// @Tags intake
// @Produce json
// @Success 200 {object} service.StateSnapshot
// @Router /api/intake/state [get]
func (h *Handler) IntakeState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Intake.State())
}

// @Summary Return the intake workflow to idle
// @Tags intake
// @Success 204
// @Router /api/intake/reset [post]
func (h *Handler) IntakeReset(c *gin.Context) {
	h.Intake.Reset()
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeIntakeError(c *gin.Context, err error) {
	var (
		verr *service.ValidationError
		cerr *ai.ConfigurationError
		uerr *ai.UpstreamError
		perr *ai.ParseError
	)
	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	case errors.Is(err, service.ErrSubmissionInFlight):
		writeError(c, http.StatusConflict, "SUBMISSION_IN_FLIGHT", "Another filing is being classified", nil)
	case errors.As(err, &cerr):
		h.Logger.Error().Err(err).Msg("classifier is not configured")
		writeError(c, http.StatusInternalServerError, "CONFIGURATION_ERROR", cerr.Msg, nil)
	case errors.Is(err, context.Canceled):
		writeError(c, statusClientClosedRequest, "REQUEST_CANCELLED", "Request cancelled", nil)
	case errors.As(err, &uerr), errors.As(err, &perr), errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusBadGateway, "CLASSIFICATION_FAILED", ClassificationFailedMessage, err.Error())
	default:
		h.Logger.Error().Err(err).Msg("intake failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Intake failed", err.Error())
	}
}

func (h *Handler) writeTooLarge(c *gin.Context) {
	writeError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File exceeds upload limit", gin.H{"limit_bytes": h.MaxUploadBytes})
}

// limitBody stops reading the request body after n bytes.
func limitBody(c *gin.Context, n int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// base64Len is the padded base64 length of n raw bytes.
func base64Len(n int64) int64 {
	return (n + 2) / 3 * 4
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// MaxBytes converts a megabyte limit from configuration.
func MaxBytes(mb int64) int64 {
	if mb <= 0 {
		return 0
	}
	return mb << 20
}
