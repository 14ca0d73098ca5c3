package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"classpick/internal/model"
)

// CampaignRepository holds at most one campaign per candidate.
type CampaignRepository struct {
	mu          sync.RWMutex
	byCandidate map[string]model.Campaign
}

func NewCampaignRepository() *CampaignRepository {
	return &CampaignRepository{byCandidate: map[string]model.Campaign{}}
}

func (r *CampaignRepository) Create(_ context.Context, c model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := c.Candidate.ID.String()
	if _, exists := r.byCandidate[key]; exists {
		return fmt.Errorf("create campaign: %w", model.ErrCampaignExists)
	}

	r.byCandidate[key] = c
	return nil
}

func (r *CampaignRepository) FindByCandidate(_ context.Context, candidateID string) (model.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byCandidate[candidateID]
	if !ok {
		return model.Campaign{}, fmt.Errorf("find campaign: %w", model.ErrCampaignNotFound)
	}
	return c, nil
}

// List returns every campaign, newest first.
func (r *CampaignRepository) List(_ context.Context) []model.Campaign {
	r.mu.RLock()
	out := make([]model.Campaign, 0, len(r.byCandidate))
	for _, c := range r.byCandidate {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
