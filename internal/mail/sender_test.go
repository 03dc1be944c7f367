package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/liftquote/internal/httpclient"
	"github.com/nurpe/liftquote/internal/model"
)

func newSender(url string) *Sender {
	client := httpclient.NewClient("mail-test", time.Second, zerolog.Nop())
	return NewSender(Config{APIURL: url, APIKey: "re_test", From: "Presupuestos <noreply@example.com>"}, client, zerolog.Nop())
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	var got sendRequest
	var auth, key string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		key = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1"}`))
	}))
	defer server.Close()

	err := newSender(server.URL).Send(context.Background(), model.Email{
		To:             " cliente@example.com ",
		Subject:        "Presupuesto orientativo: Acme",
		HTML:           "<p>Hola</p>",
		Attachments:    []model.Attachment{{Filename: "Presupuesto-Acme.pdf", Content: []byte("%PDF")}},
		IdempotencyKey: "submission-1-customer",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, "submission-1-customer", key)
	assert.Equal(t, []string{"cliente@example.com"}, got.To)
	assert.Equal(t, "Presupuestos <noreply@example.com>", got.From)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "Presupuesto-Acme.pdf", got.Attachments[0].Filename)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF")), got.Attachments[0].Content)
}

func TestSender_ProviderRejects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer server.Close()

	err := newSender(server.URL).Send(context.Background(), model.Email{To: "a@b.es", Subject: "x"})
	require.Error(t, err)

	var httpErr *httpclient.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
}

func TestSender_EmptyRecipient(t *testing.T) {
	t.Parallel()

	err := newSender("http://127.0.0.1:0").Send(context.Background(), model.Email{To: "  "})
	assert.ErrorContains(t, err, "empty recipient")
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, Disabled{}.Send(context.Background(), model.Email{To: "a@b.es"}), ErrDisabled)
}

func TestSender_RetriedSendKeepsIdempotencyKey(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var keys []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		first := len(keys) == 1
		mu.Unlock()
		if first {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_2"}`))
	}))
	defer server.Close()

	retry := httpclient.RetryConfig{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond, RetryableStatuses: []int{http.StatusBadGateway}}
	client := httpclient.NewClientWithRetry("mail-test", time.Second, retry, zerolog.Nop())
	sender := NewSender(Config{APIURL: server.URL, APIKey: "re_test", From: "noreply@example.com"}, client, zerolog.Nop())

	err := sender.Send(context.Background(), model.Email{To: "a@b.es", Subject: "x", IdempotencyKey: "submission-7-internal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"submission-7-internal", "submission-7-internal"}, keys)
}
