package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quizora/quizora-backend/internal/config"
	"github.com/quizora/quizora-backend/internal/model"
	"github.com/quizora/quizora-backend/internal/service"
)

// GenerationWorker consumes the generation result queue: the external
// backend pushes finished quizzes there and the worker persists them.
// Delivery is at least once; a transient persist failure goes back on the
// queue, while payloads that can never succeed are consumed by the service.
type GenerationWorker struct {
	genService *service.GenerationService
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewGenerationWorker creates a new GenerationWorker.
func NewGenerationWorker(genService *service.GenerationService, rdb *redis.Client, log zerolog.Logger) *GenerationWorker {
	return &GenerationWorker{
		genService: genService,
		rdb:        rdb,
		log:        log.With().Str("component", "generation_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *GenerationWorker) Start(ctx context.Context) {
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

func (w *GenerationWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.GenerationResultQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}
	if len(result) < 2 {
		return
	}

	if err := w.handle(ctx, []byte(result[1])); err != nil {
		w.log.Error().Err(err).Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.GenerationResultQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *GenerationWorker) handle(ctx context.Context, raw []byte) error {
	var generated model.GeneratedQuiz
	if err := json.Unmarshal(raw, &generated); err != nil {
		// A payload that cannot decode will never succeed; log and drop.
		w.log.Error().Err(err).Msg("Unmarshal error, dropping payload")
		return nil
	}
	return w.genService.HandleResult(ctx, generated)
}

// drain processes all remaining items in the queue before shutdown.
func (w *GenerationWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.GenerationResultQueue).Result()
		if err != nil {
			break
		}
		if err := w.handle(ctx, []byte(result)); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			continue
		}
		drained++
	}
	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining results")
	}
}
