package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/cache"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
)

// RoundService drives the round lifecycle and the judge-side manual
// score adjustments.
type RoundService struct {
	roundRepo       *repository.RoundConfigRepository
	teamRepo        *repository.TeamRepository
	progressRepo    *repository.ProgressRepository
	assignmentRepo  *repository.AssignmentRepository
	submissionRepo  *repository.SubmissionRepository
	leaderboardRepo *repository.LeaderboardRepository
	progress        *ProgressService
	standings       *cache.StandingsCache
	log             zerolog.Logger
}

// NewRoundService creates a new RoundService.
func NewRoundService(
	roundRepo *repository.RoundConfigRepository,
	teamRepo *repository.TeamRepository,
	progressRepo *repository.ProgressRepository,
	assignmentRepo *repository.AssignmentRepository,
	submissionRepo *repository.SubmissionRepository,
	leaderboardRepo *repository.LeaderboardRepository,
	progress *ProgressService,
	standings *cache.StandingsCache,
	log zerolog.Logger,
) *RoundService {
	return &RoundService{
		roundRepo:       roundRepo,
		teamRepo:        teamRepo,
		progressRepo:    progressRepo,
		assignmentRepo:  assignmentRepo,
		submissionRepo:  submissionRepo,
		leaderboardRepo: leaderboardRepo,
		progress:        progress,
		standings:       standings,
		log:             log.With().Str("component", "round_service").Logger(),
	}
}

// GetConfig returns the round configuration.
func (s *RoundService) GetConfig(ctx context.Context) (*model.RoundConfig, error) {
	return s.roundRepo.Get(ctx)
}

// UpdateConfig applies a partial update to the point values. Rejected once
// the config is locked by the round start.
func (s *RoundService) UpdateConfig(ctx context.Context, req *model.UpdateRoundConfigRequest) (*model.RoundConfig, error) {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get round config: %w", err)
	}
	if cfg.IsLocked {
		return nil, ErrConfigLocked
	}

	if req.CorrectPoints != nil {
		cfg.CorrectPoints = *req.CorrectPoints
	}
	if req.FreeTextMaxPoints != nil {
		cfg.FreeTextMaxPoints = *req.FreeTextMaxPoints
	}
	if req.WrongPenalty != nil {
		cfg.WrongPenalty = *req.WrongPenalty
	}
	if req.ThreeWrongPenalty != nil {
		cfg.ThreeWrongPenalty = *req.ThreeWrongPenalty
	}

	if err := s.roundRepo.UpdatePoints(ctx, cfg); err != nil {
		return nil, fmt.Errorf("update points: %w", err)
	}
	return cfg, nil
}

// Start moves the round from LOCKED to ACTIVE: every team gets a fresh
// progress row and, if it has none yet, a randomly drawn question set.
// Starting is idempotent per team, so a crash mid-start can be retried.
func (s *RoundService) Start(ctx context.Context) error {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get round config: %w", err)
	}
	if !validTransition(cfg.State, model.RoundStateActive) {
		return ErrInvalidTransition
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	if len(teams) == 0 {
		return ErrNoTeams
	}

	for _, team := range teams {
		if err := s.progressRepo.InitForRound(ctx, team.ID); err != nil {
			return fmt.Errorf("init progress for team %d: %w", team.ID, err)
		}

		assigned, err := s.assignmentRepo.HasAssignment(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("check assignment for team %d: %w", team.ID, err)
		}
		if assigned {
			continue
		}

		setID, err := s.progress.DrawSetID(ctx, 0)
		if err != nil {
			return err
		}
		if err := s.progress.AssignSet(ctx, team.ID, setID); err != nil {
			return err
		}

		p, err := s.progressRepo.Get(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("get progress for team %d: %w", team.ID, err)
		}
		p.SetNumber = setID
		if err := s.progressRepo.UpdateCAS(ctx, p); err != nil {
			return fmt.Errorf("record set for team %d: %w", team.ID, err)
		}

		s.standings.Update(ctx, team.ID, p.TotalScore)
	}

	if err := s.roundRepo.SetState(ctx, model.RoundStateActive, true); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	s.log.Info().Int("teams", len(teams)).Msg("round started")
	return nil
}

// Complete moves the round from ACTIVE to COMPLETED. Pending reviews may
// still be scored afterwards.
func (s *RoundService) Complete(ctx context.Context) error {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get round config: %w", err)
	}
	if !validTransition(cfg.State, model.RoundStateCompleted) {
		return ErrInvalidTransition
	}
	if err := s.roundRepo.SetState(ctx, model.RoundStateCompleted, true); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	s.log.Info().Msg("round completed")
	return nil
}

// Reset wipes all round data and returns to LOCKED with an unlocked
// config. Allowed from any state; this is the only backwards transition.
func (s *RoundService) Reset(ctx context.Context) error {
	if err := s.submissionRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete submissions: %w", err)
	}
	if err := s.leaderboardRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete leaderboard: %w", err)
	}
	if err := s.assignmentRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	if err := s.progressRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}
	if err := s.roundRepo.SetState(ctx, model.RoundStateLocked, false); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	s.standings.Clear(ctx)
	s.log.Warn().Msg("round reset, all progress wiped")
	return nil
}

// SetCarryForward records a pre-round score offset for a team. Only
// accepted while the round has not started.
func (s *RoundService) SetCarryForward(ctx context.Context, teamID, score int) error {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("get round config: %w", err)
	}
	if cfg.State != model.RoundStateLocked {
		return ErrRoundLocked
	}
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return err
	}
	return s.progressRepo.SetCarryForward(ctx, teamID, score)
}

// ApplyPenalty adds a manual score delta to a team and returns the new
// total. The delta may be positive for corrections.
func (s *RoundService) ApplyPenalty(ctx context.Context, teamID, delta int, reason string) (int, error) {
	newScore, err := s.progressRepo.ApplyDelta(ctx, teamID, delta)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("apply delta: %w", err)
	}
	s.standings.Update(ctx, teamID, newScore)
	s.log.Info().
		Int("team_id", teamID).
		Int("delta", delta).
		Str("reason", reason).
		Int("new_score", newScore).
		Msg("manual score adjustment")
	return newScore, nil
}
