package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nurpe/liftquote/internal/model"
)

// MemorySubmissionRepository keeps submissions in process. It serves
// deployments without DB_DSN and tests. Snapshots are stored encoded so that
// callers never share state with the store.
type MemorySubmissionRepository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]storedSubmission
	now   func() time.Time
}

type storedSubmission struct {
	sub      model.Submission
	snapshot []byte
}

func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{
		items: make(map[uuid.UUID]storedSubmission),
		now:   time.Now,
	}
}

func (r *MemorySubmissionRepository) Create(_ context.Context, sub *model.Submission) error {
	snapshot, err := json.Marshal(sub.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sub.ID = uuid.New()
	sub.CreatedAt = r.now().UTC()
	sub.UpdatedAt = sub.CreatedAt
	stored := *sub
	stored.Snapshot = model.QuoteSnapshot{}
	r.items[sub.ID] = storedSubmission{sub: stored, snapshot: snapshot}
	return nil
}

func (r *MemorySubmissionRepository) Get(_ context.Context, id uuid.UUID) (*model.Submission, error) {
	r.mu.RLock()
	stored, ok := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return stored.decode()
}

func (r *MemorySubmissionRepository) UpdateDispatch(_ context.Context, sub *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[sub.ID]
	if !ok {
		return ErrNotFound
	}
	stored.sub.CustomerStatus = sub.CustomerStatus
	stored.sub.CustomerError = sub.CustomerError
	stored.sub.InternalStatus = sub.InternalStatus
	stored.sub.InternalError = sub.InternalError
	stored.sub.Attempts = sub.Attempts
	stored.sub.UpdatedAt = r.now().UTC()
	r.items[sub.ID] = stored

	sub.UpdatedAt = stored.sub.UpdatedAt
	return nil
}

func (r *MemorySubmissionRepository) List(_ context.Context, filter model.SubmissionFilter) ([]model.Submission, error) {
	r.mu.RLock()
	stored := make([]storedSubmission, 0, len(r.items))
	for _, item := range r.items {
		if filter.Undelivered && item.sub.Delivered() {
			continue
		}
		stored = append(stored, item)
	}
	r.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool {
		if !stored[i].sub.CreatedAt.Equal(stored[j].sub.CreatedAt) {
			return stored[i].sub.CreatedAt.After(stored[j].sub.CreatedAt)
		}
		return stored[i].sub.ID.String() < stored[j].sub.ID.String()
	})
	if limit := listLimit(filter.Limit); len(stored) > limit {
		stored = stored[:limit]
	}

	result := make([]model.Submission, 0, len(stored))
	for _, item := range stored {
		sub, err := item.decode()
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, nil
}

func (s storedSubmission) decode() (*model.Submission, error) {
	sub := s.sub
	if err := json.Unmarshal(s.snapshot, &sub.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot of %s: %w", sub.ID, err)
	}
	return &sub, nil
}
