package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"classpick/internal/model"
)

type ballot struct {
	candidateID string
	castAt      time.Time
}

// VoteRepository records one ballot per voter.
type VoteRepository struct {
	mu      sync.RWMutex
	ballots map[string]ballot
}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{ballots: map[string]ballot{}}
}

func (r *VoteRepository) Record(_ context.Context, voterID string, candidateID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ballots[voterID]; exists {
		return fmt.Errorf("record vote: %w", model.ErrAlreadyVoted)
	}

	r.ballots[voterID] = ballot{candidateID: candidateID, castAt: at}
	return nil
}

// Counts returns the number of ballots per candidate id.
func (r *VoteRepository) Counts(_ context.Context) map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := map[string]int{}
	for _, b := range r.ballots {
		counts[b.candidateID]++
	}
	return counts
}
