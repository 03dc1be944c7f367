package http

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/nurpe/liftquote/internal/capacity"
	"github.com/nurpe/liftquote/internal/catalog"
	"github.com/nurpe/liftquote/internal/http/middleware"
	"github.com/nurpe/liftquote/internal/intake"
	"github.com/nurpe/liftquote/internal/model"
	"github.com/nurpe/liftquote/internal/service"
)

type Handler struct {
	quotes   *service.QuoteService
	catalog  *catalog.Catalog
	capacity *capacity.Table
	log      zerolog.Logger
}

func NewHandler(quotes *service.QuoteService, cat *catalog.Catalog, table *capacity.Table, log zerolog.Logger) *Handler {
	return &Handler{quotes: quotes, catalog: cat, capacity: table, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	public := router.Group("/api/v1")
	public.POST("/quotes", h.quote)
	public.POST("/quotes/pdf", h.quotePDF)
	public.POST("/quotes/xlsx", h.quoteSheet)
	public.GET("/catalog/cities", h.listCities)
	public.GET("/catalog/classes", h.listClasses)

	internal := router.Group("/internal/v1")
	internal.Use(authMiddleware)
	internal.POST("/quotes", h.internalQuote)
	internal.POST("/quotes/xlsx", h.internalSheet)
	internal.GET("/submissions", h.listSubmissions)
	internal.GET("/submissions/:id", h.getSubmission)
	internal.POST("/submissions/:id/dispatch", h.dispatchSubmission)
}

type computeResponse struct {
	model.PublicView
	Narrative       string `json:"narrative,omitempty"`
	HTMLPublicTable string `json:"html_public_table"`
	PDFBase64       string `json:"pdf_base64"`
	Filename        string `json:"filename"`
}

type submissionResponse struct {
	ID             uuid.UUID            `json:"id"`
	CustomerStatus model.DispatchStatus `json:"customer_status"`
	CustomerError  *string              `json:"customer_error,omitempty"`
	InternalStatus model.DispatchStatus `json:"internal_status"`
	InternalError  *string              `json:"internal_error,omitempty"`
	Attempts       int                  `json:"attempts"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Customer       *model.Customer      `json:"customer,omitempty"`
	Quote          *model.InternalView  `json:"quote,omitempty"`
}

func (h *Handler) quote(c *gin.Context) {
	req, ok := bindForm(c)
	if !ok {
		return
	}

	if req.Mode == intake.ModeSubmit {
		h.submit(c, req)
		return
	}

	result, err := h.quotes.Compute(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, computeResponse{
		PublicView:      result.Quote,
		Narrative:       result.Narrative,
		HTMLPublicTable: result.HTMLTable,
		PDFBase64:       base64.StdEncoding.EncodeToString(result.PDF.Content),
		Filename:        result.PDF.Filename,
	})
}

func (h *Handler) submit(c *gin.Context, req intake.Request) {
	sub, err := h.quotes.Submit(c.Request.Context(), req)
	if err != nil {
		h.handleSubmissionError(c, sub, err)
		return
	}
	c.JSON(http.StatusAccepted, newSubmissionResponse(sub, false))
}

func (h *Handler) quotePDF(c *gin.Context) {
	req, ok := bindForm(c)
	if !ok {
		return
	}
	file, err := h.quotes.CustomerPDF(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}

func (h *Handler) quoteSheet(c *gin.Context) {
	req, ok := bindForm(c)
	if !ok {
		return
	}
	file, err := h.quotes.Spreadsheet(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}

func (h *Handler) internalQuote(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	req, ok := bindForm(c)
	if !ok {
		return
	}

	view, err := h.quotes.Internal(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) internalSheet(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	req, ok := bindForm(c)
	if !ok {
		return
	}

	file, err := h.quotes.InternalSpreadsheet(c.Request.Context(), principal, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, file)
}

func (h *Handler) listSubmissions(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var filter model.SubmissionFilter
	if raw := strings.TrimSpace(c.Query("undelivered")); raw != "" {
		undelivered, err := cast.ToBoolE(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid undelivered"})
			return
		}
		filter.Undelivered = undelivered
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := cast.ToIntE(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	subs, err := h.quotes.ListSubmissions(c.Request.Context(), principal, filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	items := make([]submissionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, newSubmissionResponse(&subs[i], false))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) getSubmission(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	sub, err := h.quotes.GetSubmission(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSubmissionResponse(sub, true))
}

func (h *Handler) dispatchSubmission(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}

	sub, err := h.quotes.RetryDispatch(c.Request.Context(), principal, id)
	if err != nil {
		h.handleSubmissionError(c, sub, err)
		return
	}
	c.JSON(http.StatusOK, newSubmissionResponse(sub, false))
}

type cityResponse struct {
	Name     string             `json:"name"`
	Provider string             `json:"provider"`
	Classes  []model.CraneClass `json:"classes"`
	Fallback bool               `json:"fallback"`
}

func (h *Handler) listCities(c *gin.Context) {
	names := h.catalog.Cities()
	items := make([]cityResponse, 0, len(names))
	for _, name := range names {
		rate, _ := h.catalog.Rates(name)
		items = append(items, cityResponse{
			Name:     name,
			Provider: rate.Provider,
			Classes:  rate.Availability,
			Fallback: name == h.catalog.FallbackCity(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type classResponse struct {
	Class model.CraneClass `json:"class"`
	Chart capacity.Curve   `json:"chart"`
}

func (h *Handler) listClasses(c *gin.Context) {
	classes := model.CraneClasses()
	items := make([]classResponse, 0, len(classes))
	for _, class := range classes {
		chart, ok := h.capacity.Curve(class)
		if !ok {
			continue
		}
		items = append(items, classResponse{Class: class, Chart: chart})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "criterion": capacity.Criterion})
}

func (h *Handler) handleSubmissionError(c *gin.Context, sub *model.Submission, err error) {
	var notifyErr *service.NotificationError
	if sub == nil || !errors.As(err, &notifyErr) {
		h.handleError(c, err)
		return
	}

	failures := make(map[string]string, len(notifyErr.Failures))
	for recipient, reason := range notifyErr.Failures {
		failures[strings.ToLower(string(recipient))] = reason
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error":      service.ErrNotification.Error(),
		"failures":   failures,
		"submission": newSubmissionResponse(sub, false),
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotification):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindForm decodes the quote form. Only malformed JSON is rejected; missing
// or unusable values are defaulted by the form parser.
func bindForm(c *gin.Context) (intake.Request, bool) {
	var form intake.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return intake.Request{}, false
	}
	return form.Parse(), true
}

func sendFile(c *gin.Context, file *service.File) {
	c.Header("Content-Disposition", "attachment; filename=\""+file.Filename+"\"")
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func newSubmissionResponse(sub *model.Submission, withQuote bool) submissionResponse {
	resp := submissionResponse{
		ID:             sub.ID,
		CustomerStatus: sub.CustomerStatus,
		CustomerError:  sub.CustomerError,
		InternalStatus: sub.InternalStatus,
		InternalError:  sub.InternalError,
		Attempts:       sub.Attempts,
		CreatedAt:      sub.CreatedAt,
		UpdatedAt:      sub.UpdatedAt,
	}
	if withQuote {
		customer := sub.Snapshot.Customer
		quote := sub.Snapshot.Quote
		resp.Customer = &customer
		resp.Quote = &quote
	}
	return resp
}
