package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chakravyuh/quiz-backend/internal/config"
)

// TimingWorker consumes persist_timings_queue and writes per-question
// answer timings to PostgreSQL. Timings are advisory analytics; a lost
// event never affects scoring.
type TimingWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewTimingWorker creates a new TimingWorker.
func NewTimingWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *TimingWorker {
	return &TimingWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "timing_worker").Logger(),
	}
}

type timingPayload struct {
	TeamID      int   `json:"team_id"`
	QuestionID  int   `json:"question_id"`
	Position    int   `json:"position"`
	StartedAt   int64 `json:"started_at"`
	SubmittedAt int64 `json:"submitted_at"`
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *TimingWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *TimingWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistTimingsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var payload timingPayload
	if err := json.Unmarshal([]byte(result[1]), &payload); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistTiming(ctx, &payload); err != nil {
		w.log.Error().Err(err).
			Int("team_id", payload.TeamID).
			Int("question_id", payload.QuestionID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistTimingsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *TimingWorker) persistTiming(ctx context.Context, p *timingPayload) error {
	started := time.Unix(p.StartedAt, 0).UTC()
	submitted := time.Unix(p.SubmittedAt, 0).UTC()

	_, err := w.pool.Exec(ctx,
		`INSERT INTO question_time_tracking
		   (team_id, question_id, position, started_at, submitted_at, duration_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.TeamID, p.QuestionID, p.Position, started, submitted,
		int(submitted.Sub(started).Seconds()),
	)
	return err
}

// drain processes all remaining items in the queue before shutdown.
func (w *TimingWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistTimingsQueue).Result()
		if err != nil {
			break
		}

		var payload timingPayload
		if err := json.Unmarshal([]byte(result), &payload); err != nil {
			continue
		}
		if err := w.persistTiming(ctx, &payload); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error, item dropped")
			continue
		}
		drained++
	}
	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained timing queue")
	}
}
