package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/cache"
	"github.com/chakravyuh/quiz-backend/internal/config"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
	ws "github.com/chakravyuh/quiz-backend/internal/websocket"
)

// questionStartTTL bounds how long an advisory question-start marker lives.
const questionStartTTL = 6 * time.Hour

// CurrentQuestionResponse is what a team sees when fetching its question.
type CurrentQuestionResponse struct {
	Position   int                    `json:"position"`
	Total      int                    `json:"total"`
	Completed  bool                   `json:"completed"`
	CanProceed bool                   `json:"can_proceed"`
	Question   *model.QuestionForTeam `json:"question,omitempty"`
}

// StatusResponse is the team's progress view. It never reveals scores.
type StatusResponse struct {
	RoundState model.RoundState `json:"round_state"`
	Position   int              `json:"position"`
	Total      int              `json:"total"`
	WrongCount int              `json:"wrong_count"`
	Completed  bool             `json:"completed"`
	CanProceed bool             `json:"can_proceed"`
}

// SubmitResult is the outcome returned to a team after answering. The
// score delta (including penalties) and the wrong count are reported so
// teams see the cost of a miss immediately; the running total stays hidden.
type SubmitResult struct {
	Outcome    Outcome `json:"outcome"`
	IsCorrect  *bool   `json:"is_correct,omitempty"`
	ScoreDelta int     `json:"score_delta"`
	WrongCount int     `json:"wrong_count"`
	Position   int     `json:"position"`
	Completed  bool    `json:"completed"`
}

// timingEvent is the queue payload consumed by the timing worker.
type timingEvent struct {
	TeamID      int   `json:"team_id"`
	QuestionID  int   `json:"question_id"`
	Position    int   `json:"position"`
	StartedAt   int64 `json:"started_at"`
	SubmittedAt int64 `json:"submitted_at"`
}

// ProgressService runs the per-team question flow: serving the current
// question, evaluating answers and advancing or resetting progress.
type ProgressService struct {
	progressRepo    *repository.ProgressRepository
	assignmentRepo  *repository.AssignmentRepository
	questionRepo    *repository.QuestionRepository
	submissionRepo  *repository.SubmissionRepository
	leaderboardRepo *repository.LeaderboardRepository
	roundRepo       *repository.RoundConfigRepository
	teamRepo        *repository.TeamRepository
	standings       *cache.StandingsCache
	rdb             *redis.Client
	log             zerolog.Logger
}

// NewProgressService creates a new ProgressService.
func NewProgressService(
	progressRepo *repository.ProgressRepository,
	assignmentRepo *repository.AssignmentRepository,
	questionRepo *repository.QuestionRepository,
	submissionRepo *repository.SubmissionRepository,
	leaderboardRepo *repository.LeaderboardRepository,
	roundRepo *repository.RoundConfigRepository,
	teamRepo *repository.TeamRepository,
	standings *cache.StandingsCache,
	rdb *redis.Client,
	log zerolog.Logger,
) *ProgressService {
	return &ProgressService{
		progressRepo:    progressRepo,
		assignmentRepo:  assignmentRepo,
		questionRepo:    questionRepo,
		submissionRepo:  submissionRepo,
		leaderboardRepo: leaderboardRepo,
		roundRepo:       roundRepo,
		teamRepo:        teamRepo,
		standings:       standings,
		rdb:             rdb,
		log:             log.With().Str("component", "progress_service").Logger(),
	}
}

// GetCurrentQuestion returns the question at the team's current position,
// stripped of the answer key. Marks the advisory start time on first fetch.
func (s *ProgressService) GetCurrentQuestion(ctx context.Context, teamID int) (*CurrentQuestionResponse, error) {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get round config: %w", err)
	}
	if cfg.State != model.RoundStateActive {
		return nil, ErrRoundNotActive
	}

	p, err := s.progressRepo.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotActive
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	resp := &CurrentQuestionResponse{
		Position:  p.Position,
		Total:     model.TotalPositions,
		Completed: p.Completed,
	}
	if p.Completed {
		return resp, nil
	}

	pending, err := s.submissionRepo.HasPendingAt(ctx, teamID, p.Position)
	if err != nil {
		return nil, fmt.Errorf("check pending: %w", err)
	}
	resp.CanProceed = !pending

	q, err := s.assignmentRepo.QuestionAt(ctx, teamID, p.Position)
	if err != nil {
		return nil, fmt.Errorf("get assigned question: %w", err)
	}
	forTeam := q.ForTeam()
	resp.Question = &forTeam

	// Advisory timing marker; only the first fetch of a position counts.
	startKey := config.CacheKey.QuestionStartKey(teamID, p.Position)
	if err := s.rdb.SetNX(ctx, startKey, time.Now().Unix(), questionStartTTL).Err(); err != nil {
		s.log.Warn().Err(err).Int("team_id", teamID).Msg("failed to mark question start")
	}

	return resp, nil
}

// GetStatus returns the team's progress without the score.
func (s *ProgressService) GetStatus(ctx context.Context, teamID int) (*StatusResponse, error) {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get round config: %w", err)
	}

	resp := &StatusResponse{RoundState: cfg.State, Total: model.TotalPositions}

	p, err := s.progressRepo.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resp, nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}

	resp.Position = p.Position
	resp.WrongCount = p.WrongCount
	resp.Completed = p.Completed
	if !p.Completed {
		pending, err := s.submissionRepo.HasPendingAt(ctx, teamID, p.Position)
		if err != nil {
			return nil, fmt.Errorf("check pending: %w", err)
		}
		resp.CanProceed = !pending
	}
	return resp, nil
}

// SubmitAnswer evaluates a team's answer to its current question.
// Single-choice answers are graded synchronously and the progress is
// persisted with a compare-and-swap, so two racing submissions from the
// same team can never both apply. Free-text answers are queued for judge
// review without touching the progress.
func (s *ProgressService) SubmitAnswer(ctx context.Context, teamID int, answer string) (*SubmitResult, error) {
	cfg, err := s.roundRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get round config: %w", err)
	}
	if cfg.State != model.RoundStateActive {
		return nil, ErrRoundNotActive
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	p, err := s.progressRepo.Get(ctx, teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotActive
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	if p.Completed {
		return nil, ErrAlreadyCompleted
	}

	pending, err := s.submissionRepo.HasPendingAt(ctx, teamID, p.Position)
	if err != nil {
		return nil, fmt.Errorf("check pending: %w", err)
	}
	if pending {
		return nil, ErrReviewPending
	}

	position := p.Position
	q, err := s.assignmentRepo.QuestionAt(ctx, teamID, position)
	if err != nil {
		return nil, fmt.Errorf("get assigned question: %w", err)
	}

	now := time.Now()
	result := ApplyAnswer(p, q, answer, NewScoringPolicy(cfg), now)

	if result.Outcome == OutcomeQueuedForReview {
		sub := &model.Submission{
			TeamID:     teamID,
			QuestionID: q.ID,
			Position:   position,
			AnswerText: answer,
		}
		if err := s.submissionRepo.Create(ctx, sub); err != nil {
			return nil, fmt.Errorf("create submission: %w", err)
		}
		s.enqueueTiming(ctx, teamID, q.ID, position, now)
		s.publishFeed(ctx, teamID, position, result, p.TotalScore, now)
		return &SubmitResult{
			Outcome:    result.Outcome,
			WrongCount: p.WrongCount,
			Position:   p.Position,
		}, nil
	}

	if result.NewSetNeeded {
		newSet, err := s.DrawSetID(ctx, p.SetNumber)
		if err != nil {
			return nil, err
		}
		p.SetNumber = newSet
	}

	if err := s.progressRepo.UpdateCAS(ctx, p); err != nil {
		if errors.Is(err, repository.ErrStaleProgress) {
			return nil, ErrProgressConflict
		}
		return nil, fmt.Errorf("persist progress: %w", err)
	}

	if result.NewSetNeeded {
		if err := s.AssignSet(ctx, teamID, p.SetNumber); err != nil {
			return nil, fmt.Errorf("assign new set: %w", err)
		}
	}

	sub := &model.Submission{
		TeamID:        teamID,
		QuestionID:    q.ID,
		Position:      position,
		AnswerText:    answer,
		IsCorrect:     result.IsCorrect,
		PointsAwarded: result.ScoreDelta,
		EvaluatedAt:   &now,
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		// Progress already advanced; the submission is an audit record.
		s.log.Error().Err(err).Int("team_id", teamID).Msg("failed to record submission")
	}

	if p.Completed {
		if err := s.leaderboardRepo.Upsert(ctx, teamID, p.TotalScore); err != nil {
			s.log.Error().Err(err).Int("team_id", teamID).Msg("failed to record final score")
		}
	}

	s.standings.Update(ctx, teamID, p.TotalScore)
	s.enqueueTiming(ctx, teamID, q.ID, position, now)
	s.publishFeed(ctx, teamID, position, result, p.TotalScore, now)

	return &SubmitResult{
		Outcome:    result.Outcome,
		IsCorrect:  result.IsCorrect,
		ScoreDelta: result.ScoreDelta,
		WrongCount: p.WrongCount,
		Position:   p.Position,
		Completed:  p.Completed,
	}, nil
}

// DrawSetID picks a random question set, avoiding the excluded one when
// more than one set exists.
func (s *ProgressService) DrawSetID(ctx context.Context, exclude int) (int, error) {
	setIDs, err := s.questionRepo.ListSetIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list set ids: %w", err)
	}
	if len(setIDs) == 0 {
		return 0, ErrNoQuestionSets
	}
	candidates := setIDs
	if len(setIDs) > 1 {
		candidates = make([]int, 0, len(setIDs)-1)
		for _, id := range setIDs {
			if id != exclude {
				candidates = append(candidates, id)
			}
		}
	}
	return candidates[rand.IntN(len(candidates))], nil
}

// AssignSet replaces a team's question assignment with the given set. Sets
// shorter than the required length fall back to a random sample from the
// whole bank; the fallback is logged because it breaks set determinism.
func (s *ProgressService) AssignSet(ctx context.Context, teamID, setID int) error {
	questions, err := s.questionRepo.ListBySet(ctx, setID)
	if err != nil {
		return fmt.Errorf("list set %d: %w", setID, err)
	}
	if len(questions) < model.TotalPositions {
		s.log.Warn().
			Int("team_id", teamID).
			Int("set_id", setID).
			Int("set_size", len(questions)).
			Msg("set too short, falling back to random sample")
		questions, err = s.questionRepo.RandomSample(ctx, model.TotalPositions)
		if err != nil {
			return fmt.Errorf("random sample: %w", err)
		}
		if len(questions) < model.TotalPositions {
			return ErrNoQuestionSets
		}
	}

	ids := make([]int, model.TotalPositions)
	for i := 0; i < model.TotalPositions; i++ {
		ids[i] = questions[i].ID
	}
	return s.assignmentRepo.Replace(ctx, teamID, ids)
}

func (s *ProgressService) enqueueTiming(ctx context.Context, teamID, questionID, position int, submitted time.Time) {
	startKey := config.CacheKey.QuestionStartKey(teamID, position)
	started, err := s.rdb.Get(ctx, startKey).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Int("team_id", teamID).Msg("failed to read question start")
		}
		return
	}
	s.rdb.Del(ctx, startKey)

	payload, err := json.Marshal(timingEvent{
		TeamID:      teamID,
		QuestionID:  questionID,
		Position:    position,
		StartedAt:   started,
		SubmittedAt: submitted.Unix(),
	})
	if err != nil {
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistTimingsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Int("team_id", teamID).Msg("failed to enqueue timing")
	}
}

func (s *ProgressService) publishFeed(ctx context.Context, teamID, position int, result TransitionResult, totalScore int, at time.Time) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		s.log.Warn().Err(err).Int("team_id", teamID).Msg("failed to load team for feed")
		return
	}
	item := ws.FeedItem{
		TeamID:     teamID,
		TeamCode:   team.TeamCode,
		Position:   position,
		Outcome:    string(result.Outcome),
		IsCorrect:  result.IsCorrect,
		ScoreDelta: result.ScoreDelta,
		TotalScore: totalScore,
		OccurredAt: at,
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.FeedChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish feed event")
	}
}
