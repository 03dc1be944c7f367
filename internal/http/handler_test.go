package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/liftquote/internal/auth"
	"github.com/nurpe/liftquote/internal/capacity"
	"github.com/nurpe/liftquote/internal/catalog"
	"github.com/nurpe/liftquote/internal/estimate"
	"github.com/nurpe/liftquote/internal/excel"
	"github.com/nurpe/liftquote/internal/http/middleware"
	"github.com/nurpe/liftquote/internal/metrics"
	"github.com/nurpe/liftquote/internal/model"
	"github.com/nurpe/liftquote/internal/narrative"
	"github.com/nurpe/liftquote/internal/pdf"
	"github.com/nurpe/liftquote/internal/repository"
	"github.com/nurpe/liftquote/internal/service"
)

const (
	testSecret    = "test-secret"
	internalInbox = "oficina@montajes.es"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type switchableNotifier struct {
	mu     sync.Mutex
	failed bool
	sent   []model.Email
}

func (n *switchableNotifier) Send(_ context.Context, email model.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failed && email.To == internalInbox {
		return errors.New("provider unavailable")
	}
	n.sent = append(n.sent, email)
	return nil
}

func (n *switchableNotifier) setFailing(failed bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = failed
}

type testServer struct {
	router   *gin.Engine
	notifier *switchableNotifier
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	table := capacity.DefaultTable()
	cat := catalog.DefaultCatalog("Madrid")
	notifier := &switchableNotifier{}
	m := metrics.New()

	quotes := service.NewQuoteService(service.Dependencies{
		Engine:      estimate.NewEngine(table, cat),
		Narrative:   narrative.Disabled{},
		Documents:   pdf.NewGenerator(),
		Sheets:      excel.NewGenerator(),
		Notifier:    notifier,
		Submissions: repository.NewMemorySubmissionRepository(),
		Recorder:    m,
	}, service.Options{Company: "Montaje de Prefabricados", InternalRecipient: internalInbox}, zerolog.Nop())

	parser := auth.NewParser(testSecret)
	token, err := parser.Issue(model.Principal{UserID: uuid.New(), Role: model.UserRoleStaff}, time.Hour)
	require.NoError(t, err)

	handler := NewHandler(quotes, cat, table, zerolog.Nop())
	router := NewRouter(handler, middleware.Auth(parser), m, RouterConfig{Environment: "test"}, zerolog.Nop())
	return &testServer{router: router, notifier: notifier, token: token}
}

func (s *testServer) do(t *testing.T, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

const madridForm = `{"customer":"Obras Norte","city":"Madrid","weight_t":10,"radius_m":"10","days":1,"teams":1}`

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestComputeQuote(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/quotes", madridForm, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[computeResponse](t, rec)
	assert.Equal(t, model.QuoteKindPriced, resp.Kind)
	assert.Equal(t, model.CraneClass60T, resp.Selection.RecommendedClass)
	assert.Equal(t, "3598.70", resp.Summary.Total.StringFixed(2))
	assert.Len(t, resp.LineItems, 3)
	assert.Contains(t, resp.HTMLPublicTable, "TOTAL")
	assert.Equal(t, "Presupuesto-Obras_Norte.pdf", resp.Filename)

	raw, err := base64.StdEncoding.DecodeString(resp.PDFBase64)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	assert.NotContains(t, rec.Body.String(), "cost_basis")
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestComputeQuote_MalformedBody(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/quotes", `{"weight_t":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComputeQuote_UnusableNumbersAreDefaulted(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/quotes", `{"weight_t":"mucho","radius_m":-3,"days":"x"}`, false)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[computeResponse](t, rec)
	assert.Equal(t, model.CraneClass60T, resp.Selection.RecommendedClass)
	assert.Equal(t, "Madrid", resp.Meta.JobCity)
}

func TestSubmitQuote(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	body := strings.Replace(madridForm, "{", `{"mode":"enviar","email":"cliente@obrasnorte.es",`, 1)
	rec := s.do(t, http.MethodPost, "/api/v1/quotes", body, false)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	resp := decode[submissionResponse](t, rec)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, model.DispatchStatusSent, resp.CustomerStatus)
	assert.Equal(t, model.DispatchStatusSent, resp.InternalStatus)
	assert.Nil(t, resp.Quote)
	assert.Len(t, s.notifier.sent, 2)
}

func TestSubmitQuote_NotificationFailureThenRetry(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	s.notifier.setFailing(true)

	body := strings.Replace(madridForm, "{", `{"mode":"submit",`, 1)
	rec := s.do(t, http.MethodPost, "/api/v1/quotes", body, false)
	require.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())

	var failed struct {
		Failures   map[string]string  `json:"failures"`
		Submission submissionResponse `json:"submission"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &failed))
	assert.Equal(t, "provider unavailable", failed.Failures["internal"])
	assert.Equal(t, model.DispatchStatusSkipped, failed.Submission.CustomerStatus)
	assert.Equal(t, model.DispatchStatusFailed, failed.Submission.InternalStatus)
	id := failed.Submission.ID.String()

	rec = s.do(t, http.MethodGet, "/internal/v1/submissions?undelivered=true", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Items []submissionResponse `json:"items"`
	}](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, id, list.Items[0].ID.String())

	rec = s.do(t, http.MethodPost, "/internal/v1/submissions/"+id+"/dispatch", "", true)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	s.notifier.setFailing(false)
	rec = s.do(t, http.MethodPost, "/internal/v1/submissions/"+id+"/dispatch", "", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	retried := decode[submissionResponse](t, rec)
	assert.Equal(t, model.DispatchStatusSent, retried.InternalStatus)
	assert.Equal(t, 3, retried.Attempts)

	rec = s.do(t, http.MethodGet, "/internal/v1/submissions/"+id, "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	stored := decode[submissionResponse](t, rec)
	require.NotNil(t, stored.Quote)
	assert.Equal(t, "2978.17", stored.Quote.CostBasis.Summary.Total.StringFixed(2))
	require.NotNil(t, stored.Customer)
	assert.Equal(t, "Obras Norte", stored.Customer.Name)
}

func TestFileDownloads(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/quotes/pdf", madridForm, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Presupuesto-Obras_Norte.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = s.do(t, http.MethodPost, "/api/v1/quotes/xlsx", madridForm, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Presupuesto-Obras_Norte.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = s.do(t, http.MethodPost, "/internal/v1/quotes/xlsx", madridForm, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Descompuesto-Obras_Norte.xlsx")
}

func TestInternalRoutesRequireToken(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/internal/v1/quotes", madridForm, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/internal/v1/quotes", madridForm, true)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[model.InternalView](t, rec)
	assert.Equal(t, "861.30", view.CostBasis.Crane.Cost.StringFixed(2))
	assert.Equal(t, "3598.70", view.Summary.Total.StringFixed(2))

	rec = s.do(t, http.MethodGet, "/internal/v1/submissions/not-a-uuid", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/internal/v1/submissions/"+uuid.NewString(), "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/internal/v1/submissions?limit=abc", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/catalog/cities", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	cities := decode[struct {
		Items []cityResponse `json:"items"`
	}](t, rec)
	require.NotEmpty(t, cities.Items)
	var madrid *cityResponse
	for i := range cities.Items {
		if cities.Items[i].Name == "Madrid" {
			madrid = &cities.Items[i]
		}
	}
	require.NotNil(t, madrid)
	assert.True(t, madrid.Fallback)
	assert.NotEmpty(t, madrid.Classes)

	rec = s.do(t, http.MethodGet, "/api/v1/catalog/classes", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	classes := decode[struct {
		Items     []classResponse `json:"items"`
		Criterion string          `json:"criterion"`
	}](t, rec)
	assert.Len(t, classes.Items, len(model.CraneClasses()))
	assert.Equal(t, model.CraneClass60T, classes.Items[0].Class)
	assert.Equal(t, capacity.Criterion, classes.Criterion)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	s.do(t, http.MethodPost, "/api/v1/quotes", madridForm, false)
	rec = s.do(t, http.MethodGet, "/metrics", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `liftquote_quotes_total{class="60T",kind="PRICED"} 1`)
	assert.Contains(t, rec.Body.String(), "liftquote_http_requests_total")
}
