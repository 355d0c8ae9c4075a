package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/sijms/go-ora/v2"

	"nycleads/internal/types"
)

// dsn builds a properly encoded connection string for Oracle Autonomous Database
func dsn(username, password, host, port, service string, walletLocation string) string {
	if walletLocation != "" {
		// Use wallet-based mTLS connection
		return fmt.Sprintf(
			"oracle://%s:%s@%s:%s/%s?ssl=true&wallet_location=%s",
			url.PathEscape(username), url.PathEscape(password), host, port, service, url.PathEscape(walletLocation))
	}

	return (&url.URL{
		Scheme:   "oracle",
		User:     url.UserPassword(username, password), // escapes automatically
		Host:     host + ":" + port,
		Path:     "/" + service, // keep full service name
		RawQuery: "ssl=true",    // ADB requires TCPS
	}).String()
}

// OracleSink writes records to the CRM_SALES table.
type OracleSink struct {
	db *sql.DB
}

// NewOracleSink opens and pings the database.
func NewOracleSink(ctx context.Context, cfg DBConfig) (*OracleSink, error) {
	port := cfg.Port
	if port == "" {
		port = "1522"
	}
	db, err := sql.Open("oracle", dsn(cfg.Username, cfg.Password, cfg.Host, port, cfg.Service, cfg.WalletLocation))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &OracleSink{db: db}, nil
}

// Close closes the database connection
func (s *OracleSink) Close() error {
	return s.db.Close()
}

// EnsureSchema creates CRM_SALES unless it already exists (ORA-00955).
func (s *OracleSink) EnsureSchema(ctx context.Context) error {
	ddl := `
	BEGIN
		EXECUTE IMMEDIATE 'CREATE TABLE CRM_SALES (
			Building_Type VARCHAR2(64)  NOT NULL,
			Address       VARCHAR2(256) NOT NULL,
			Borough       VARCHAR2(64),
			Borough_Code  VARCHAR2(2),
			Neighborhood  VARCHAR2(128),
			Zip_Code      NUMBER(5),
			Latitude      NUMBER,
			Longitude     NUMBER,
			Sale_Price    NUMBER,
			Year_Built    NUMBER(4),
			Zoning        VARCHAR2(32),
			Record_Key    VARCHAR2(512),
			Updated_At    TIMESTAMP DEFAULT SYSTIMESTAMP,
			CONSTRAINT CRM_SALES_PK PRIMARY KEY (Building_Type, Address)
		)';
	EXCEPTION
		WHEN OTHERS THEN
			IF SQLCODE != -955 THEN
				RAISE;
			END IF;
	END;`

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const oracleMerge = `
	MERGE INTO CRM_SALES t
	USING (
		SELECT :1 AS Building_Type, :2 AS Address, :3 AS Borough, :4 AS Borough_Code,
			:5 AS Neighborhood, :6 AS Zip_Code, :7 AS Latitude, :8 AS Longitude,
			:9 AS Sale_Price, :10 AS Year_Built, :11 AS Zoning, :12 AS Record_Key
		FROM dual
	) s
	ON (t.Building_Type = s.Building_Type AND t.Address = s.Address)
	WHEN MATCHED THEN UPDATE SET
		t.Borough = s.Borough, t.Borough_Code = s.Borough_Code, t.Neighborhood = s.Neighborhood,
		t.Zip_Code = s.Zip_Code, t.Latitude = s.Latitude, t.Longitude = s.Longitude,
		t.Sale_Price = s.Sale_Price, t.Year_Built = s.Year_Built, t.Zoning = s.Zoning,
		t.Record_Key = s.Record_Key, t.Updated_At = SYSTIMESTAMP
	WHEN NOT MATCHED THEN INSERT (
		Building_Type, Address, Borough, Borough_Code, Neighborhood, Zip_Code,
		Latitude, Longitude, Sale_Price, Year_Built, Zoning, Record_Key
	) VALUES (
		s.Building_Type, s.Address, s.Borough, s.Borough_Code, s.Neighborhood, s.Zip_Code,
		s.Latitude, s.Longitude, s.Sale_Price, s.Year_Built, s.Zoning, s.Record_Key
	)`

// WriteRecords upserts records in one transaction and returns how many rows
// were sent.
func (s *OracleSink) WriteRecords(ctx context.Context, records []types.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, oracleMerge)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare merge: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, r := range records {
		if !writable(r) {
			continue
		}
		if _, err := stmt.ExecContext(ctx, recordArgs(r)...); err != nil {
			return 0, fmt.Errorf("merge failed at %q: %w", r.Address, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return n, nil
}
