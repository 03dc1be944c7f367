package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/nurpe/liftquote/internal/htmlview"
	"github.com/nurpe/liftquote/internal/intake"
	"github.com/nurpe/liftquote/internal/model"
	"github.com/nurpe/liftquote/internal/repository"
)

type Estimator interface {
	Quote(job model.JobRequest) model.Quote
	VATRate() decimal.Decimal
}

type DocumentRenderer interface {
	CustomerPDF(doc model.QuoteDocument) ([]byte, error)
	InternalPDF(doc model.InternalDocument) ([]byte, error)
}

type SpreadsheetRenderer interface {
	QuoteSheet(doc model.QuoteDocument) ([]byte, error)
	InternalSheet(doc model.InternalDocument) ([]byte, error)
}

type NarrativeGenerator interface {
	Generate(ctx context.Context, doc model.QuoteDocument) (string, error)
}

type Notifier interface {
	Send(ctx context.Context, email model.Email) error
}

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	Get(ctx context.Context, id uuid.UUID) (*model.Submission, error)
	UpdateDispatch(ctx context.Context, sub *model.Submission) error
	List(ctx context.Context, filter model.SubmissionFilter) ([]model.Submission, error)
}

type Recorder interface {
	QuoteComputed(kind, class string)
	NotificationAttempted(recipient, outcome string)
}

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Dependencies struct {
	Engine      Estimator
	Narrative   NarrativeGenerator
	Documents   DocumentRenderer
	Sheets      SpreadsheetRenderer
	Notifier    Notifier
	Submissions SubmissionRepository
	Recorder    Recorder
}

type Options struct {
	Company string
	// InternalRecipient receives the company copy of every submission.
	InternalRecipient string
	NarrativeTimeout  time.Duration
}

type QuoteService struct {
	deps Dependencies
	opts Options
	log  zerolog.Logger
}

type ComputeResult struct {
	Quote     model.PublicView
	Narrative string
	HTMLTable string
	PDF       File
}

type File struct {
	Filename    string
	ContentType string
	Content     []byte
}

func NewQuoteService(deps Dependencies, opts Options, log zerolog.Logger) *QuoteService {
	return &QuoteService{
		deps: deps,
		opts: opts,
		log:  log.With().Str("component", "quote_service").Logger(),
	}
}

// Compute prices the request and renders what the quote form shows: the
// public quote, its HTML table and the customer PDF.
func (s *QuoteService) Compute(ctx context.Context, req intake.Request) (*ComputeResult, error) {
	snapshot := s.prepare(ctx, req, true)
	doc := snapshot.Document(s.opts.Company)

	pdf, err := s.deps.Documents.CustomerPDF(doc)
	if err != nil {
		return nil, fmt.Errorf("render customer pdf: %w", err)
	}
	table, err := htmlview.PublicTable(doc)
	if err != nil {
		return nil, err
	}

	return &ComputeResult{
		Quote:     doc.Quote,
		Narrative: snapshot.Narrative,
		HTMLTable: table,
		PDF:       File{Filename: Filename("Presupuesto", doc.Customer.Name, "pdf"), ContentType: pdfContentType, Content: pdf},
	}, nil
}

// Internal returns the quote with its cost basis. Only staff may call it.
func (s *QuoteService) Internal(ctx context.Context, principal model.Principal, req intake.Request) (model.InternalView, error) {
	if !principal.IsInternal() {
		return model.InternalView{}, ErrPermissionDenied
	}
	snapshot := s.prepare(ctx, req, false)
	return snapshot.Quote, nil
}

func (s *QuoteService) CustomerPDF(ctx context.Context, req intake.Request) (*File, error) {
	doc := s.prepare(ctx, req, true).Document(s.opts.Company)
	content, err := s.deps.Documents.CustomerPDF(doc)
	if err != nil {
		return nil, fmt.Errorf("render customer pdf: %w", err)
	}
	return &File{Filename: Filename("Presupuesto", doc.Customer.Name, "pdf"), ContentType: pdfContentType, Content: content}, nil
}

func (s *QuoteService) Spreadsheet(ctx context.Context, req intake.Request) (*File, error) {
	doc := s.prepare(ctx, req, false).Document(s.opts.Company)
	content, err := s.deps.Sheets.QuoteSheet(doc)
	if err != nil {
		return nil, fmt.Errorf("render spreadsheet: %w", err)
	}
	return &File{Filename: Filename("Presupuesto", doc.Customer.Name, "xlsx"), ContentType: xlsxContentType, Content: content}, nil
}

func (s *QuoteService) InternalSpreadsheet(ctx context.Context, principal model.Principal, req intake.Request) (*File, error) {
	if !principal.IsInternal() {
		return nil, ErrPermissionDenied
	}
	doc := s.prepare(ctx, req, false).InternalDocument(s.opts.Company)
	content, err := s.deps.Sheets.InternalSheet(doc)
	if err != nil {
		return nil, fmt.Errorf("render internal spreadsheet: %w", err)
	}
	return &File{Filename: Filename("Descompuesto", doc.Customer.Name, "xlsx"), ContentType: xlsxContentType, Content: content}, nil
}

// Submit stores the quote and notifies the customer and the company. When a
// notification fails the stored submission is returned together with a
// *NotificationError.
func (s *QuoteService) Submit(ctx context.Context, req intake.Request) (*model.Submission, error) {
	sub := &model.Submission{
		Snapshot:       s.prepare(ctx, req, true),
		CustomerStatus: model.DispatchStatusPending,
		InternalStatus: model.DispatchStatusPending,
	}
	if err := s.deps.Submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("store submission: %w", err)
	}
	return sub, s.dispatchAndStore(ctx, sub)
}

// RetryDispatch resends the notifications of a stored submission that are
// still pending or failed. The quote is rendered from the snapshot, never
// priced again.
func (s *QuoteService) RetryDispatch(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Submission, error) {
	sub, err := s.GetSubmission(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if sub.Delivered() {
		return sub, nil
	}
	return sub, s.dispatchAndStore(ctx, sub)
}

func (s *QuoteService) GetSubmission(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Submission, error) {
	if !principal.IsInternal() {
		return nil, ErrPermissionDenied
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: submission id is required", ErrInvalidInput)
	}
	sub, err := s.deps.Submissions.Get(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *QuoteService) ListSubmissions(ctx context.Context, principal model.Principal, filter model.SubmissionFilter) ([]model.Submission, error) {
	if !principal.IsInternal() {
		return nil, ErrPermissionDenied
	}
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidInput)
	}
	return s.deps.Submissions.List(ctx, filter)
}

func (s *QuoteService) prepare(ctx context.Context, req intake.Request, withNarrative bool) model.QuoteSnapshot {
	quote := s.deps.Engine.Quote(req.Job)
	s.deps.Recorder.QuoteComputed(string(quote.Kind), quote.Selection.RecommendedClass.String())
	if quote.IsAdvisory() && quote.Advisory != nil {
		s.log.Warn().
			Str("city", quote.Meta.JobCity).
			Float64("weight_t", quote.Job.WeightT).
			Float64("radius_m", quote.Job.RadiusM).
			Str("advisory", *quote.Advisory).
			Msg("advisory quote")
	}

	snapshot := model.QuoteSnapshot{
		Job:      quote.Job,
		Customer: req.Customer,
		Quote:    quote.Internal(),
		VATRate:  s.deps.Engine.VATRate(),
	}
	if withNarrative {
		snapshot.Narrative = s.narrative(ctx, snapshot.Document(s.opts.Company))
	}
	return snapshot
}

func (s *QuoteService) narrative(ctx context.Context, doc model.QuoteDocument) string {
	if s.opts.NarrativeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.NarrativeTimeout)
		defer cancel()
	}
	text, err := s.deps.Narrative.Generate(ctx, doc)
	if err != nil {
		s.log.Warn().Err(err).Msg("narrative unavailable, continuing without it")
		return ""
	}
	return text
}

func (s *QuoteService) dispatchAndStore(ctx context.Context, sub *model.Submission) error {
	failures := s.dispatch(ctx, sub)
	if err := s.deps.Submissions.UpdateDispatch(ctx, sub); err != nil {
		return fmt.Errorf("store dispatch status: %w", err)
	}
	if len(failures) > 0 {
		return &NotificationError{SubmissionID: sub.ID, Failures: failures}
	}
	return nil
}

// dispatch sends every notification that is still owed. The two recipients
// are attempted independently and concurrently; each goroutine owns its own
// status fields.
func (s *QuoteService) dispatch(ctx context.Context, sub *model.Submission) map[model.Recipient]string {
	doc := sub.Snapshot.Document(s.opts.Company)
	customerSubject, internalSubject := htmlview.Subjects(doc)
	sub.Attempts++

	var g errgroup.Group
	if owed(sub.CustomerStatus) {
		g.Go(func() error {
			sub.CustomerStatus, sub.CustomerError = s.outcome(model.RecipientCustomer, sub.ID, s.sendCustomer(ctx, doc, customerSubject, IdempotencyKey(sub.ID, model.RecipientCustomer)))
			return nil
		})
	}
	if owed(sub.InternalStatus) {
		g.Go(func() error {
			internalDoc := sub.Snapshot.InternalDocument(s.opts.Company)
			sub.InternalStatus, sub.InternalError = s.outcome(model.RecipientInternal, sub.ID, s.sendInternal(ctx, internalDoc, internalSubject, IdempotencyKey(sub.ID, model.RecipientInternal)))
			return nil
		})
	}
	_ = g.Wait()

	failures := make(map[model.Recipient]string)
	if sub.CustomerStatus == model.DispatchStatusFailed && sub.CustomerError != nil {
		failures[model.RecipientCustomer] = *sub.CustomerError
	}
	if sub.InternalStatus == model.DispatchStatusFailed && sub.InternalError != nil {
		failures[model.RecipientInternal] = *sub.InternalError
	}
	return failures
}

var errNoCustomerEmail = errors.New("customer gave no email")

func (s *QuoteService) sendCustomer(ctx context.Context, doc model.QuoteDocument, subject, key string) error {
	if doc.Customer.Email == "" {
		return errNoCustomerEmail
	}
	body, err := htmlview.CustomerEmail(doc)
	if err != nil {
		return err
	}
	pdf, err := s.deps.Documents.CustomerPDF(doc)
	if err != nil {
		return fmt.Errorf("render customer pdf: %w", err)
	}
	return s.deps.Notifier.Send(ctx, model.Email{
		To:             doc.Customer.Email,
		Subject:        subject,
		HTML:           body,
		Attachments:    []model.Attachment{{Filename: Filename("Presupuesto", doc.Customer.Name, "pdf"), Content: pdf}},
		IdempotencyKey: key,
	})
}

func (s *QuoteService) sendInternal(ctx context.Context, doc model.InternalDocument, subject, key string) error {
	if s.opts.InternalRecipient == "" {
		return errors.New("internal recipient not configured")
	}
	body, err := htmlview.InternalEmail(doc)
	if err != nil {
		return err
	}
	customerPDF, err := s.deps.Documents.CustomerPDF(doc.QuoteDocument)
	if err != nil {
		return fmt.Errorf("render customer pdf: %w", err)
	}
	internalPDF, err := s.deps.Documents.InternalPDF(doc)
	if err != nil {
		return fmt.Errorf("render internal pdf: %w", err)
	}
	return s.deps.Notifier.Send(ctx, model.Email{
		To:      s.opts.InternalRecipient,
		Subject: subject,
		HTML:    body,
		Attachments: []model.Attachment{
			{Filename: Filename("Presupuesto", doc.Customer.Name, "pdf"), Content: customerPDF},
			{Filename: Filename("Descompuesto", doc.Customer.Name, "pdf"), Content: internalPDF},
		},
		IdempotencyKey: key,
	})
}

func (s *QuoteService) outcome(recipient model.Recipient, id uuid.UUID, err error) (model.DispatchStatus, *string) {
	status := model.DispatchStatusSent
	var reason *string
	switch {
	case errors.Is(err, errNoCustomerEmail):
		status = model.DispatchStatusSkipped
	case err != nil:
		status = model.DispatchStatusFailed
		msg := err.Error()
		reason = &msg
		s.log.Error().Err(err).Str("submission_id", id.String()).Str("recipient", string(recipient)).Msg("notification failed")
	}
	s.deps.Recorder.NotificationAttempted(string(recipient), strings.ToLower(string(status)))
	return status, reason
}

// IdempotencyKey identifies one notification across dispatch attempts.
func IdempotencyKey(id uuid.UUID, recipient model.Recipient) string {
	return "submission-" + id.String() + "-" + strings.ToLower(string(recipient))
}

func owed(status model.DispatchStatus) bool {
	return status == model.DispatchStatusPending || status == model.DispatchStatusFailed
}

// Filename builds "Presupuesto-Obras_Norte.pdf" from a customer name. Only
// letters, digits, dashes and underscores survive; blanks become underscores.
func Filename(prefix, customer, ext string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r):
			return '_'
		default:
			return -1
		}
	}, strings.TrimSpace(customer))
	if name == "" {
		name = "cliente"
	}
	return prefix + "-" + name + "." + ext
}
