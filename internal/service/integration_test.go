package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/chakravyuh/quiz-backend/internal/cache"
	"github.com/chakravyuh/quiz-backend/internal/model"
	"github.com/chakravyuh/quiz-backend/internal/repository"
)

// testEnv wires the full service stack against a throwaway postgres
// container and an in-process redis.
type testEnv struct {
	pool            *pgxpool.Pool
	teamRepo        *repository.TeamRepository
	questionRepo    *repository.QuestionRepository
	progressRepo    *repository.ProgressRepository
	submissionRepo  *repository.SubmissionRepository
	leaderboardRepo *repository.LeaderboardRepository
	roundRepo       *repository.RoundConfigRepository
	progress        *ProgressService
	review          *ReviewService
	round           *RoundService
	leaderboard     *LeaderboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	requireDocker(t)

	dsn := startPostgres(t, ctx)
	applyMigrations(t, dsn)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	log := zerolog.Nop()
	teamRepo := repository.NewTeamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	roundRepo := repository.NewRoundConfigRepository(pool)
	leaderboardRepo := repository.NewLeaderboardRepository(pool)
	standings := cache.NewStandingsCache(rdb, log)

	progress := NewProgressService(
		progressRepo, assignmentRepo, questionRepo, submissionRepo,
		leaderboardRepo, roundRepo, teamRepo, standings, rdb, log,
	)
	review := NewReviewService(
		pool, submissionRepo, progressRepo, questionRepo, leaderboardRepo, progress, log,
	)
	round := NewRoundService(
		roundRepo, teamRepo, progressRepo, assignmentRepo,
		submissionRepo, leaderboardRepo, progress, standings, log,
	)
	leaderboard := NewLeaderboardService(leaderboardRepo, roundRepo, log)

	return &testEnv{
		pool:            pool,
		teamRepo:        teamRepo,
		questionRepo:    questionRepo,
		progressRepo:    progressRepo,
		submissionRepo:  submissionRepo,
		leaderboardRepo: leaderboardRepo,
		roundRepo:       roundRepo,
		progress:        progress,
		review:          review,
		round:           round,
		leaderboard:     leaderboard,
	}
}

func TestScoreSubmissionAppliesExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team := seedTeam(t, env, "CHKV-01", false)
	judgeID := seedJudge(t, env, "reviewer")
	seedFreeTextFirstSet(t, env, 1)
	require.NoError(t, env.round.Start(ctx))

	res, err := env.progress.SubmitAnswer(ctx, team.ID, "rivers carve valleys over time")
	require.NoError(t, err)
	assert.Equal(t, OutcomeQueuedForReview, res.Outcome)

	subs, err := env.review.ListSubmissions(ctx, true)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	result, err := env.review.ScoreSubmission(ctx, subs[0].ID, 12, judgeID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNextQuestion, result.Outcome)
	assert.Equal(t, 12, result.ScoreDelta)
	assert.Equal(t, 2, result.Position)

	_, err = env.review.ScoreSubmission(ctx, subs[0].ID, 5, judgeID)
	require.ErrorIs(t, err, repository.ErrAlreadyEvaluated)

	p, err := env.progressRepo.Get(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, p.TotalScore)
	assert.Equal(t, 2, p.Position)
}

func TestPublishRequiresEveryRealTeamRanked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	real := seedTeam(t, env, "CHKV-01", false)
	seedTeam(t, env, "TEST-01", true)
	seedSet(t, env, 1)
	require.NoError(t, env.round.Start(ctx))
	require.NoError(t, env.round.Complete(ctx))

	err := env.leaderboard.Publish(ctx)
	require.ErrorIs(t, err, ErrUnrankedTeams)

	require.NoError(t, env.leaderboardRepo.Upsert(ctx, real.ID, 70))
	require.NoError(t, env.leaderboard.AssignRank(ctx, real.ID, 1, "strong finish"))
	require.NoError(t, env.leaderboard.Publish(ctx))

	cfg, err := env.roundRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RoundStatePublished, cfg.State)

	err = env.leaderboard.AssignRank(ctx, real.ID, 2, "")
	require.ErrorIs(t, err, ErrRankingFrozen)
}

func TestConfigEditsRejectedOnceRoundStarts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	seedTeam(t, env, "CHKV-01", false)
	seedSet(t, env, 1)

	twelve := 12
	cfg, err := env.round.UpdateConfig(ctx, &model.UpdateRoundConfigRequest{CorrectPoints: &twelve})
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.CorrectPoints)

	require.NoError(t, env.round.Start(ctx))

	fifteen := 15
	_, err = env.round.UpdateConfig(ctx, &model.UpdateRoundConfigRequest{CorrectPoints: &fifteen})
	require.ErrorIs(t, err, ErrConfigLocked)

	// Reset unlocks the config again.
	require.NoError(t, env.round.Reset(ctx))
	_, err = env.round.UpdateConfig(ctx, &model.UpdateRoundConfigRequest{CorrectPoints: &fifteen})
	require.NoError(t, err)
}

func TestResetThenStartLeavesNoResidue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team := seedTeam(t, env, "CHKV-01", false)
	seedSet(t, env, 1)
	require.NoError(t, env.round.Start(ctx))

	res, err := env.progress.SubmitAnswer(ctx, team.ID, "B")
	require.NoError(t, err)
	assert.Equal(t, OutcomeResetToFirst, res.Outcome)
	assert.Equal(t, -5, res.ScoreDelta)
	assert.Equal(t, 1, res.WrongCount)

	n, err := env.submissionRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, env.round.Reset(ctx))

	n, err = env.submissionRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	_, err = env.progressRepo.Get(ctx, team.ID)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, env.round.SetCarryForward(ctx, team.ID, 50))
	require.NoError(t, env.round.Start(ctx))

	p, err := env.progressRepo.Get(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Position)
	assert.Equal(t, 50, p.TotalScore)
	assert.Zero(t, p.WrongCount)
	assert.False(t, p.Completed)
}

func seedTeam(t *testing.T, env *testEnv, code string, isTest bool) *model.Team {
	t.Helper()
	team := &model.Team{
		TeamCode:    code,
		TeamName:    "Team " + code,
		AccessToken: "token-" + code,
		IsTest:      isTest,
	}
	require.NoError(t, env.teamRepo.Create(context.Background(), team))
	return team
}

func seedJudge(t *testing.T, env *testEnv, username string) int {
	t.Helper()
	var id int
	err := env.pool.QueryRow(context.Background(),
		`INSERT INTO judges (username, password_hash) VALUES ($1, 'x') RETURNING id`,
		username).Scan(&id)
	require.NoError(t, err)
	return id
}

// seedSet fills a set with single-choice questions whose correct label is
// always A.
func seedSet(t *testing.T, env *testEnv, setID int) {
	t.Helper()
	for i := 0; i < model.TotalPositions; i++ {
		createQuestion(t, env, model.Question{
			QuestionText: fmt.Sprintf("set %d question %d", setID, i+1),
			Kind:         model.QuestionKindSingleChoice,
			Options: []model.QuestionOption{
				{Label: "A", Text: "right"},
				{Label: "B", Text: "wrong"},
			},
			CorrectLabel: "A",
			MaxPoints:    10,
			SetID:        setID,
		})
	}
}

// seedFreeTextFirstSet puts a free-text question at position 1 (lowest id
// in the set) followed by single-choice questions.
func seedFreeTextFirstSet(t *testing.T, env *testEnv, setID int) {
	t.Helper()
	createQuestion(t, env, model.Question{
		QuestionText: "describe erosion",
		Kind:         model.QuestionKindFreeText,
		MaxPoints:    15,
		SetID:        setID,
	})
	for i := 1; i < model.TotalPositions; i++ {
		createQuestion(t, env, model.Question{
			QuestionText: fmt.Sprintf("set %d question %d", setID, i+1),
			Kind:         model.QuestionKindSingleChoice,
			Options: []model.QuestionOption{
				{Label: "A", Text: "right"},
				{Label: "B", Text: "wrong"},
			},
			CorrectLabel: "A",
			MaxPoints:    10,
			SetID:        setID,
		})
	}
}

func createQuestion(t *testing.T, env *testEnv, q model.Question) {
	t.Helper()
	require.NoError(t, env.questionRepo.Create(context.Background(), &q))
}

func startPostgres(t *testing.T, ctx context.Context) string {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
}

func applyMigrations(t *testing.T, dsn string) {
	t.Helper()
	m, err := migrate.New("file://../../migrations", dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	_, _ = m.Close()
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
