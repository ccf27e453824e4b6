// cmd/historian is an asynchronous audit sink that pops game action records
// from the Redis queue and persists them to a PostgreSQL table. It is the
// only component that touches Postgres; the game server itself keeps all
// state in memory.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/coderforlife/boompa-hearts/internal/cache"
)

const createTableQ = `
	CREATE TABLE IF NOT EXISTS game_actions (
		id           BIGSERIAL PRIMARY KEY,
		game_name    TEXT        NOT NULL,
		action_index INT         NOT NULL,
		seat         INT         NOT NULL,
		hand_num     INT         NOT NULL,
		action       TEXT        NOT NULL,
		payload      JSONB,
		ts           TIMESTAMPTZ NOT NULL
	)
`

// Historian encapsulates the Redis + DB plumbing for capturing game actions.
type Historian struct {
	redisClient *redis.Client
	db          *pgxpool.Pool
	queueName   string
	batchSize   int
	flushDelay  time.Duration

	batchMu sync.Mutex
	batch   []cache.ActionRecord

	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewHistorian constructs a Historian from environment variables or defaults.
func NewHistorian() *Historian {
	rdb := redis.NewClient(&redis.Options{
		Addr: cache.GetEnv("REDIS_ADDR", "localhost:6379"),
		DB:   cache.GetEnvInt("REDIS_DB", 0),
	})

	batchSize := cache.GetEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := cache.GetEnvInt("HISTORIAN_FLUSH_MS", 500)

	ctx, cancel := context.WithCancel(context.Background())
	return &Historian{
		redisClient: rdb,
		queueName:   cache.GetEnv("HISTORIAN_QUEUE_NAME", cache.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]cache.ActionRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to Postgres, ensures the table exists, and starts the drain
// loop. Blocks until Stop is called.
func (h *Historian) Run() error {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		cache.GetEnv("PG_HOST", "localhost"),
		cache.GetEnv("PG_PORT", "5432"),
		os.Getenv("PG_DATABASE"),
	)
	db, err := pgxpool.New(h.ctx, connStr)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}
	h.db = db

	ctx, cancel := context.WithTimeout(h.ctx, 5*time.Second)
	defer cancel()
	if _, err := h.db.Exec(ctx, createTableQ); err != nil {
		return fmt.Errorf("failed to ensure game_actions table: %w", err)
	}

	go h.readQueueLoop()

	log.Println("hearts-historian service started.")
	<-h.ctx.Done()
	h.flushBatch()
	h.db.Close()
	log.Println("hearts-historian shutting down.")
	return nil
}

// readQueueLoop continuously pops records from the Redis queue, flushing the
// accumulated batch on a timer or whenever it fills.
func (h *Historian) readQueueLoop() {
	ticker := time.NewTicker(h.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case <-ticker.C:
			h.flushBatch()

		default:
			// BLPop with a short timeout so context cancellation is handled.
			res, err := h.redisClient.BLPop(h.ctx, 3*time.Second, h.queueName).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && h.ctx.Err() == nil {
					log.Printf("[ERROR] BLPop: %v", err)
				}
				continue
			}
			if len(res) < 2 {
				continue
			}

			var record cache.ActionRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				log.Printf("invalid action record: %v", err)
				continue
			}
			h.appendToBatch(record)
		}
	}
}

// appendToBatch adds a record and flushes once the threshold is reached.
func (h *Historian) appendToBatch(record cache.ActionRecord) {
	h.batchMu.Lock()
	full := false
	h.batch = append(h.batch, record)
	full = len(h.batch) >= h.batchSize
	h.batchMu.Unlock()
	if full {
		h.flushBatch()
	}
}

// flushBatch writes the current batch to Postgres in a single transaction.
func (h *Historian) flushBatch() {
	h.batchMu.Lock()
	if len(h.batch) == 0 {
		h.batchMu.Unlock()
		return
	}
	batch := make([]cache.ActionRecord, len(h.batch))
	copy(batch, h.batch)
	h.batch = h.batch[:0]
	h.batchMu.Unlock()

	ctx := context.Background()
	err := pgx.BeginTxFunc(ctx, h.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batch {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertActionTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flushBatch: %v", err)
	} else {
		log.Printf("Flushed %d actions to DB.", len(batch))
	}
}

// insertActionTx inserts a single action record.
func insertActionTx(ctx context.Context, tx pgx.Tx, rec cache.ActionRecord) error {
	q := `
		INSERT INTO game_actions (
			game_name, action_index, seat, hand_num, action, payload, ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, q,
		rec.GameName, rec.ActionIndex, rec.Seat, rec.HandNum,
		rec.Action, payload, time.UnixMilli(rec.Timestamp),
	)
	return err
}

// Stop gracefully stops the historian.
func (h *Historian) Stop() {
	h.cancelFn()
}

func main() {
	h := NewHistorian()
	go func() {
		if err := h.Run(); err != nil {
			log.Fatalf("historian: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	h.Stop()
	log.Println("Historian shutdown complete.")
}
