package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/liftquote/internal/httpclient"
	"github.com/nurpe/liftquote/internal/model"
)

// ErrDisabled is returned by the notifier used when no mail provider is
// configured.
var ErrDisabled = errors.New("mail provider not configured")

type Config struct {
	APIURL string
	APIKey string
	From   string
}

// Sender posts messages to a Resend-compatible HTTP API.
type Sender struct {
	cfg    Config
	client *httpclient.Client
	log    zerolog.Logger
}

func NewSender(cfg Config, client *httpclient.Client, log zerolog.Logger) *Sender {
	return &Sender{cfg: cfg, client: client, log: log}
}

type attachmentPayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type sendRequest struct {
	From        string              `json:"from"`
	To          []string            `json:"to"`
	Subject     string              `json:"subject"`
	HTML        string              `json:"html"`
	Attachments []attachmentPayload `json:"attachments,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

func (s *Sender) Send(ctx context.Context, email model.Email) error {
	to := strings.TrimSpace(email.To)
	if to == "" {
		return errors.New("mail: empty recipient")
	}

	payload := sendRequest{
		From:    s.cfg.From,
		To:      []string{to},
		Subject: email.Subject,
		HTML:    email.HTML,
	}
	for _, att := range email.Attachments {
		payload.Attachments = append(payload.Attachments, attachmentPayload{
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Content),
		})
	}

	headers := map[string]string{"Authorization": "Bearer " + s.cfg.APIKey}
	if email.IdempotencyKey != "" {
		headers["Idempotency-Key"] = email.IdempotencyKey
	}
	var resp sendResponse
	if err := s.client.PostJSON(ctx, s.cfg.APIURL, headers, payload, &resp); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}

	s.log.Debug().
		Str("message_id", resp.ID).
		Str("subject", email.Subject).
		Int("attachments", len(payload.Attachments)).
		Msg("email sent")
	return nil
}

// Disabled fails every send so the submission records the notification as
// failed and can be dispatched again once mail is configured.
type Disabled struct{}

func (Disabled) Send(context.Context, model.Email) error {
	return ErrDisabled
}
