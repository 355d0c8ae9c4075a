package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nycleads/internal/types"
)

// PostgresSink writes records to the crm_sales table.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func postgresDSN(cfg DBConfig) string {
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return (&url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     cfg.Host + ":" + port,
		Path:     "/" + cfg.Service,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}).String()
}

// NewPostgresSink creates the pool and checks connectivity.
func NewPostgresSink(ctx context.Context, cfg DBConfig) (*PostgresSink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

func (s *PostgresSink) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS crm_sales (
		building_type TEXT NOT NULL,
		address TEXT NOT NULL,
		borough TEXT,
		borough_code TEXT,
		neighborhood TEXT,
		zip_code INTEGER,
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		sale_price NUMERIC(14,2),
		year_built INTEGER,
		zoning TEXT,
		record_key TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (building_type, address)
	);

	CREATE INDEX IF NOT EXISTS idx_crm_sales_borough ON crm_sales(borough);
	CREATE INDEX IF NOT EXISTS idx_crm_sales_zip ON crm_sales(zip_code);
	`

	if _, err := s.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const postgresUpsert = `
	INSERT INTO crm_sales (building_type, address, borough, borough_code, neighborhood, zip_code,
		latitude, longitude, sale_price, year_built, zoning, record_key)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (building_type, address) DO UPDATE SET
		borough = EXCLUDED.borough,
		borough_code = EXCLUDED.borough_code,
		neighborhood = EXCLUDED.neighborhood,
		zip_code = EXCLUDED.zip_code,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		sale_price = EXCLUDED.sale_price,
		year_built = EXCLUDED.year_built,
		zoning = EXCLUDED.zoning,
		record_key = EXCLUDED.record_key,
		updated_at = NOW();
	`

// WriteRecords upserts records as one batch.
func (s *PostgresSink) WriteRecords(ctx context.Context, records []types.Record) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	enqueued := 0
	for _, r := range records {
		if !writable(r) {
			continue
		}
		batch.Queue(postgresUpsert, recordArgs(r)...)
		enqueued++
	}

	if enqueued == 0 {
		return 0, nil
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < enqueued; i++ {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("batch upsert failed at row %d: %w", i, err)
		}
	}

	return enqueued, nil
}
