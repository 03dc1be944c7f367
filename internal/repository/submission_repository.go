package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nurpe/liftquote/internal/model"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

type submissionRow struct {
	ID             uuid.UUID
	Snapshot       string
	CustomerStatus string
	CustomerError  *string
	InternalStatus string
	InternalError  *string
	Attempts       int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const submissionColumns = `
	id,
	snapshot,
	customer_status,
	customer_error,
	internal_status,
	internal_error,
	attempts,
	created_at,
	updated_at
`

func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	snapshot, err := json.Marshal(sub.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	quote := sub.Snapshot.Quote

	var saved submissionRow
	err = r.db.WithContext(ctx).Raw(`
		INSERT INTO quote_submission (
			customer_name,
			customer_email,
			job_city,
			recommended_class,
			quote_kind,
			total_public,
			snapshot,
			customer_status,
			customer_error,
			internal_status,
			internal_error,
			attempts
		) VALUES (?, ?, ?, ?, ?, ?, ?::jsonb, ?, ?, ?, ?, ?)
		RETURNING `+submissionColumns,
		sub.Snapshot.Customer.Name,
		nullable(sub.Snapshot.Customer.Email),
		quote.Meta.JobCity,
		string(quote.Selection.RecommendedClass),
		string(quote.Kind),
		quote.Summary.Total,
		string(snapshot),
		string(sub.CustomerStatus),
		sub.CustomerError,
		string(sub.InternalStatus),
		sub.InternalError,
		sub.Attempts,
	).Scan(&saved).Error
	if err != nil {
		return err
	}

	sub.ID = saved.ID
	sub.CreatedAt = saved.CreatedAt
	sub.UpdatedAt = saved.UpdatedAt
	return nil
}

func (r *SubmissionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	var row submissionRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT `+submissionColumns+`
		FROM quote_submission
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, ErrNotFound
	}
	return row.toModel()
}

// UpdateDispatch stores the notification outcome of a submission.
func (r *SubmissionRepository) UpdateDispatch(ctx context.Context, sub *model.Submission) error {
	var updatedAt time.Time
	err := r.db.WithContext(ctx).Raw(`
		UPDATE quote_submission
		SET customer_status = ?,
			customer_error = ?,
			internal_status = ?,
			internal_error = ?,
			attempts = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING updated_at
	`,
		string(sub.CustomerStatus),
		sub.CustomerError,
		string(sub.InternalStatus),
		sub.InternalError,
		sub.Attempts,
		sub.ID,
	).Scan(&updatedAt).Error
	if err != nil {
		return err
	}
	if updatedAt.IsZero() {
		return ErrNotFound
	}
	sub.UpdatedAt = updatedAt
	return nil
}

func (r *SubmissionRepository) List(ctx context.Context, filter model.SubmissionFilter) ([]model.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM quote_submission`
	if filter.Undelivered {
		query += ` WHERE customer_status IN ('PENDING', 'FAILED') OR internal_status IN ('PENDING', 'FAILED')`
	}
	query += ` ORDER BY created_at DESC LIMIT ?`

	var rows []submissionRow
	if err := r.db.WithContext(ctx).Raw(query, listLimit(filter.Limit)).Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]model.Submission, 0, len(rows))
	for _, row := range rows {
		sub, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, nil
}

func (row submissionRow) toModel() (*model.Submission, error) {
	var snapshot model.QuoteSnapshot
	if err := json.Unmarshal([]byte(row.Snapshot), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", row.ID, err)
	}
	return &model.Submission{
		ID:             row.ID,
		Snapshot:       snapshot,
		CustomerStatus: model.DispatchStatus(row.CustomerStatus),
		CustomerError:  row.CustomerError,
		InternalStatus: model.DispatchStatus(row.InternalStatus),
		InternalError:  row.InternalError,
		Attempts:       row.Attempts,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}, nil
}

func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func listLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}

// IsNotFound matches both the repository sentinel and gorm's.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
