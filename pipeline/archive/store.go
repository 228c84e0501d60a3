// Package archive persists finished pipeline runs to Postgres so past
// runs can be listed and replayed through the API. The store is optional:
// a nil *Store is safe to call and simply does nothing.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	statex "github.com/MehanazMI/tea-stall-bench/pipeline/state"
)

type Config struct {
	DSN          string        `split_words:"true"`
	MaxOpenConns int           `split_words:"true" default:"4"`
	QueryTimeout time.Duration `split_words:"true" default:"5s"`
}

// Run is the stored shape of a finished pipeline run. The full context is
// kept as a JSON document next to the columns used for listing.
type Run struct {
	bun.BaseModel `bun:"table:pipeline_runs,alias:pr"`

	ID          int64     `bun:"id,pk,autoincrement"`
	TraceID     string    `bun:"trace_id,notnull,unique"`
	Topic       string    `bun:"topic,notnull"`
	ContentType string    `bun:"content_type,notnull"`
	Style       string    `bun:"style,notnull"`
	Channel     string    `bun:"channel,notnull"`
	Stage       string    `bun:"stage,notnull"`
	WordCount   int       `bun:"word_count"`
	ErrorCount  int       `bun:"error_count"`
	Context     []byte    `bun:"context,type:jsonb,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

type Store struct {
	db      *bun.DB
	timeout time.Duration
}

// New opens a Postgres-backed store and ensures the runs table exists.
func New(ctx context.Context, conf Config) (*Store, error) {
	if conf.DSN == "" {
		return nil, fmt.Errorf("archive: dsn is required")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(conf.DSN)))
	sqldb.SetMaxOpenConns(conf.MaxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())

	s := &Store{db: db, timeout: conf.QueryTimeout}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewCreateTable().
		Model((*Run)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("archive: create table: %w", err)
	}
	return nil
}

// Save records a finished run. Saving the same trace_id twice keeps the
// latest snapshot.
func (s *Store) Save(ctx context.Context, pc *statex.PipelineContext) error {
	if s == nil {
		return nil
	}

	doc, err := json.Marshal(pc)
	if err != nil {
		return fmt.Errorf("archive: marshal context: %w", err)
	}

	run := &Run{
		TraceID:     pc.TraceID,
		Topic:       pc.Topic,
		ContentType: pc.ContentType,
		Style:       pc.Style,
		Channel:     pc.Channel,
		Stage:       string(pc.CurrentStage),
		WordCount:   pc.WordCount,
		ErrorCount:  len(pc.Errors),
		Context:     doc,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.db.NewInsert().
		Model(run).
		On("CONFLICT (trace_id) DO UPDATE").
		Set("stage = EXCLUDED.stage").
		Set("word_count = EXCLUDED.word_count").
		Set("error_count = EXCLUDED.error_count").
		Set("context = EXCLUDED.context").
		Exec(ctx); err != nil {
		return fmt.Errorf("archive: save run %s: %w", pc.TraceID, err)
	}
	return nil
}

// Recent lists the newest runs, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var runs []Run
	if err := s.db.NewSelect().
		Model(&runs).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("archive: list runs: %w", err)
	}
	return runs, nil
}

// ByTraceID loads a single stored run and decodes its context document.
func (s *Store) ByTraceID(ctx context.Context, traceID string) (*statex.PipelineContext, error) {
	if s == nil {
		return nil, sql.ErrNoRows
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	run := new(Run)
	if err := s.db.NewSelect().
		Model(run).
		Where("trace_id = ?", traceID).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("archive: load run %s: %w", traceID, err)
	}

	var pc statex.PipelineContext
	if err := json.Unmarshal(run.Context, &pc); err != nil {
		return nil, fmt.Errorf("archive: decode run %s: %w", traceID, err)
	}
	return &pc, nil
}

func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}
