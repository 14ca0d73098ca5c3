package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"classpick/internal/model"
	"classpick/internal/repository"
	"classpick/pkg/apierror"
)

// ElectionService owns campaigns and ballots. Every rule the client only hints at (one campaign per
// candidate, one vote per user) is enforced here.
type ElectionService struct {
	users     *repository.UserRepository
	campaigns *repository.CampaignRepository
	votes     *repository.VoteRepository
	now       func() time.Time
}

func NewElectionService(users *repository.UserRepository, campaigns *repository.CampaignRepository, votes *repository.VoteRepository) *ElectionService {
	return &ElectionService{
		users:     users,
		campaigns: campaigns,
		votes:     votes,
		now:       time.Now,
	}
}

func (s *ElectionService) ListCampaigns(ctx context.Context) []model.Campaign {
	return s.campaigns.List(ctx)
}

// CandidateCampaign looks the campaign up by its author's username.
func (s *ElectionService) CandidateCampaign(ctx context.Context, username string) (model.Campaign, error) {
	account, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Campaign{}, fmt.Errorf("campaign of %q: %w", username, model.ErrCampaignNotFound)
	}
	if err != nil {
		return model.Campaign{}, err
	}

	return s.campaigns.FindByCandidate(ctx, account.ID)
}

func (s *ElectionService) CreateCampaign(ctx context.Context, userID string, req model.CreateCampaignRequest) (model.Campaign, error) {
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = strings.TrimSpace(req.Content)
	}
	if title == "" || description == "" {
		return model.Campaign{}, apierror.New(apierror.KindValidation, "title and description are required", "", http.StatusBadRequest)
	}

	account, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.Campaign{}, err
	}
	if !account.Candidate {
		return model.Campaign{}, model.ErrNotCandidate
	}

	campaign := model.Campaign{
		ID:          model.ID(uuid.NewString()),
		Title:       title,
		Description: description,
		Candidate:   account.Ref(),
		CreatedAt:   s.now().UTC(),
	}

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return model.Campaign{}, err
	}

	return campaign, nil
}

// CastVote records the voter's single ballot for the candidate named username.
func (s *ElectionService) CastVote(ctx context.Context, voterID string, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apierror.New(apierror.KindValidation, "username is required", "", http.StatusBadRequest)
	}

	candidate, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) || (err == nil && !candidate.Candidate) {
		return fmt.Errorf("vote for %q: %w", username, model.ErrCandidateNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := s.users.FindByID(ctx, voterID); err != nil {
		return err
	}

	if err := s.votes.Record(ctx, voterID, candidate.ID, s.now().UTC()); err != nil {
		return err
	}

	_, err = s.users.Update(ctx, voterID, func(a *model.Account) error {
		a.Voted = true
		a.UpdatedAt = s.now().UTC()
		return nil
	})
	return err
}

// Tally lists every candidate with its vote count, highest first, ties by username.
func (s *ElectionService) Tally(ctx context.Context) []model.VoteTallyEntry {
	counts := s.votes.Counts(ctx)
	candidates := s.users.Candidates(ctx)

	entries := make([]model.VoteTallyEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, model.VoteTallyEntry{Candidate: c.Ref(), Count: counts[c.ID]})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Candidate.Username < entries[j].Candidate.Username
	})

	return entries
}
