package database

import (
	"context"
	"fmt"
	"strings"

	"nycleads/internal/types"
)

// DBConfig holds CRM database connection settings.
type DBConfig struct {
	Driver         string // "oracle" or "postgres"
	Host           string
	Port           string
	Service        string // Oracle service name or PostgreSQL database
	Username       string
	Password       string
	WalletLocation string // Oracle only
	SSLMode        string // PostgreSQL only
}

// Sink receives filtered records for the CRM. Rows are upserted by
// (building type, address).
type Sink interface {
	EnsureSchema(ctx context.Context) error
	WriteRecords(ctx context.Context, records []types.Record) (int, error)
	Close() error
}

// Open connects to the sink named by cfg.Driver.
func Open(ctx context.Context, cfg DBConfig) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "oracle", "":
		s, err := NewOracleSink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "postgresql", "pgx":
		s, err := NewPostgresSink(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// recordArgs flattens a record in column order:
// building_type, address, borough, borough_code, neighborhood, zip_code,
// latitude, longitude, sale_price, year_built, zoning, record_key.
// Absent optional values are nil so drivers bind NULL.
func recordArgs(r types.Record) []any {
	return []any{
		r.BuildingType,
		r.Address,
		r.Borough.String(),
		nullString(r.Borough.Code),
		nullString(r.Neighborhood),
		nullInt(r.ZipCode),
		nullFloat(r.Latitude),
		nullFloat(r.Longitude),
		nullFloat(r.SalePrice),
		nullInt(r.YearBuilt),
		nullString(r.Zoning),
		r.Key(),
	}
}

// writable reports whether a record has the upsert key columns.
func writable(r types.Record) bool {
	return strings.TrimSpace(r.Address) != "" && r.BuildingType != ""
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
