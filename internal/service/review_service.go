package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
)

// ErrPointsOutOfRange is returned when a judge awards more points than the
// question allows.
var ErrPointsOutOfRange = errors.New("points exceed the question maximum")

// casRetries bounds how often a review retries against concurrent progress
// writes before giving up.
const casRetries = 3

// ReviewService handles the judge review queue for free-text submissions.
type ReviewService struct {
	db              *pgxpool.Pool
	submissionRepo  *repository.SubmissionRepository
	progressRepo    *repository.ProgressRepository
	questionRepo    *repository.QuestionRepository
	leaderboardRepo *repository.LeaderboardRepository
	progress        *ProgressService
	log             zerolog.Logger
}

// NewReviewService creates a new ReviewService. The pool is needed because
// scoring spans two aggregates in one transaction.
func NewReviewService(
	db *pgxpool.Pool,
	submissionRepo *repository.SubmissionRepository,
	progressRepo *repository.ProgressRepository,
	questionRepo *repository.QuestionRepository,
	leaderboardRepo *repository.LeaderboardRepository,
	progress *ProgressService,
	log zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		db:              db,
		submissionRepo:  submissionRepo,
		progressRepo:    progressRepo,
		questionRepo:    questionRepo,
		leaderboardRepo: leaderboardRepo,
		progress:        progress,
		log:             log.With().Str("component", "review_service").Logger(),
	}
}

// ListSubmissions returns submissions with team and question context,
// newest first. With pendingOnly, only unevaluated ones.
func (s *ReviewService) ListSubmissions(ctx context.Context, pendingOnly bool) ([]model.PendingSubmission, error) {
	subs, err := s.submissionRepo.List(ctx, pendingOnly)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.PendingSubmission{}
	}
	return subs, nil
}

// ScoreSubmission applies a judge's score to a pending submission and
// advances the submitting team, regardless of the points awarded. The
// evaluation stamp and the progress advance commit in one transaction, so
// a submission is either fully scored or still pending; a second reviewer
// gets repository.ErrAlreadyEvaluated.
func (s *ReviewService) ScoreSubmission(ctx context.Context, submissionID, points, judgeID int) (*SubmitResult, error) {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.EvaluatedAt != nil {
		return nil, repository.ErrAlreadyEvaluated
	}

	q, err := s.questionRepo.GetByID(ctx, sub.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if points > q.MaxPoints {
		return nil, ErrPointsOutOfRange
	}

	now := time.Now()
	var p *model.TeamProgress
	var result TransitionResult
	for attempt := 0; ; attempt++ {
		p, err = s.progressRepo.Get(ctx, sub.TeamID)
		if err != nil {
			return nil, fmt.Errorf("get progress: %w", err)
		}
		result = ApplyReview(p, points, now)
		err = pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
			if err := s.submissionRepo.MarkEvaluated(ctx, tx, submissionID, points, judgeID); err != nil {
				return err
			}
			return s.progressRepo.UpdateCASTx(ctx, tx, p)
		})
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrAlreadyEvaluated) {
			return nil, repository.ErrAlreadyEvaluated
		}
		if !errors.Is(err, repository.ErrStaleProgress) {
			return nil, fmt.Errorf("persist review: %w", err)
		}
		if attempt+1 >= casRetries {
			s.log.Error().Int("submission_id", submissionID).Msg("review lost progress race repeatedly")
			return nil, ErrProgressConflict
		}
	}

	if p.Completed {
		if err := s.leaderboardRepo.Upsert(ctx, sub.TeamID, p.TotalScore); err != nil {
			s.log.Error().Err(err).Int("team_id", sub.TeamID).Msg("failed to record final score")
		}
	}

	s.progress.standings.Update(ctx, sub.TeamID, p.TotalScore)
	s.progress.publishFeed(ctx, sub.TeamID, sub.Position, result, p.TotalScore, now)

	return &SubmitResult{
		Outcome:    result.Outcome,
		ScoreDelta: result.ScoreDelta,
		WrongCount: p.WrongCount,
		Position:   p.Position,
		Completed:  p.Completed,
	}, nil
}
