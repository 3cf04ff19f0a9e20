package playthrough

import (
	"context"
	"sync"

	"github.com/KirkDiggler/pokestory-api/internal/errors"
)

const (
	errStateNil   = "story state cannot be nil"
	errStateIDNil = "story ID cannot be empty"
)

// InMemoryRepository implements Repository using process memory.
// Sessions do not expire; it suits tests and single-process runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string][]byte),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Save stores a session
func (r *InMemoryRepository) Save(_ context.Context, input SaveInput) (*SaveOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}
	if input.State.ID == "" {
		return nil, errors.InvalidArgument(errStateIDNil)
	}

	data, err := encodeState(input.State)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[input.State.ID] = data

	return &SaveOutput{}, nil
}

// Get retrieves a session by ID
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errStateIDNil)
	}

	r.mu.RLock()
	data, exists := r.store[input.ID]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NotFoundf("story %s not found", input.ID)
	}

	// Decoding hands every caller its own copy
	state, err := decodeState(data)
	if err != nil {
		return nil, err
	}

	return &GetOutput{State: state}, nil
}

// Delete removes a session
func (r *InMemoryRepository) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument(errStateIDNil)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, input.ID)

	return &DeleteOutput{}, nil
}
