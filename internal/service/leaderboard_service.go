package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
)

// LeaderboardService handles manual ranking and publication.
type LeaderboardService struct {
	leaderboardRepo *repository.LeaderboardRepository
	roundRepo       *repository.RoundConfigRepository
	log             zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	leaderboardRepo *repository.LeaderboardRepository,
	roundRepo *repository.RoundConfigRepository,
	log zerolog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		roundRepo:       roundRepo,
		log:             log.With().Str("component", "leaderboard_service").Logger(),
	}
}

// AssignRank sets a team's manual rank. Rejected once the leaderboard is
// published; ranks are frozen from then on.
func (s *LeaderboardService) AssignRank(ctx context.Context, teamID, rank int, notes string) error {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get round config: %w", err)
	}
	if cfg.State == model.RoundStatePublished {
		return ErrRankingFrozen
	}
	return s.leaderboardRepo.AssignRank(ctx, teamID, rank, notes)
}

// Publish moves the round from COMPLETED to LEADERBOARD_PUBLISHED. Every
// non-test team must carry a manual rank first; teams without a
// leaderboard entry count as unranked.
func (s *LeaderboardService) Publish(ctx context.Context) error {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get round config: %w", err)
	}
	if !validTransition(cfg.State, model.RoundStatePublished) {
		return ErrInvalidTransition
	}

	unranked, err := s.leaderboardRepo.CountUnranked(ctx)
	if err != nil {
		return fmt.Errorf("count unranked: %w", err)
	}
	if unranked > 0 {
		return ErrUnrankedTeams
	}

	if err := s.roundRepo.SetState(ctx, model.RoundStatePublished, true); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	s.log.Info().Msg("leaderboard published")
	return nil
}

// JudgeView returns all non-test entries: ranked first by manual rank,
// unranked last ordered by score. Available in any round state.
func (s *LeaderboardService) JudgeView(ctx context.Context) ([]model.LeaderboardEntry, error) {
	entries, err := s.leaderboardRepo.ListJudge(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}

// PublicView returns the ranked entries, only after publication.
func (s *LeaderboardService) PublicView(ctx context.Context) ([]model.LeaderboardEntry, error) {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get round config: %w", err)
	}
	if cfg.State != model.RoundStatePublished {
		return nil, ErrLeaderboardNotVisible
	}

	entries, err := s.leaderboardRepo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}
