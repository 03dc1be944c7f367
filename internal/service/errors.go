package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/nurpe/liftquote/internal/model"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotification     = errors.New("notification failed")
)

// NotificationError reports the recipients a submitted quote could not reach.
// The quote itself is stored under SubmissionID and can be dispatched again.
type NotificationError struct {
	SubmissionID uuid.UUID
	Failures     map[model.Recipient]string
}

func (e *NotificationError) Error() string {
	recipients := make([]string, 0, len(e.Failures))
	for recipient := range e.Failures {
		recipients = append(recipients, string(recipient))
	}
	sort.Strings(recipients)

	parts := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		parts = append(parts, fmt.Sprintf("%s: %s", strings.ToLower(recipient), e.Failures[model.Recipient(recipient)]))
	}
	return fmt.Sprintf("%s for submission %s (%s)", ErrNotification, e.SubmissionID, strings.Join(parts, "; "))
}

func (e *NotificationError) Unwrap() error {
	return ErrNotification
}
