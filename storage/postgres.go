package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/config"
	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// PostgresStore persists terminal broker records. Only final results are
// stored; runs never read intermediate state back.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(cfg config.DatabaseConfig) (*PostgresStore, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	store := &PostgresStore{db: db}
	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer schemaCancel()
	if err := store.ensureSchema(schemaCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveProfiles upserts broker records keyed by canonical profile URL.
// Returns the number of rows written.
func (s *PostgresStore) SaveProfiles(ctx context.Context, profiles []models.BrokerProfile) (int, error) {
	if len(profiles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO brokers (
			name, first_name, last_name, company, job_title,
			business_email, phone, social_profile, profile_url,
			loan_sample_url, region, percent_good, qualifies
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (profile_url) DO UPDATE
		SET
			name = EXCLUDED.name,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			company = EXCLUDED.company,
			job_title = EXCLUDED.job_title,
			business_email = EXCLUDED.business_email,
			phone = EXCLUDED.phone,
			social_profile = EXCLUDED.social_profile,
			loan_sample_url = EXCLUDED.loan_sample_url,
			region = EXCLUDED.region,
			percent_good = EXCLUDED.percent_good,
			qualifies = EXCLUDED.qualifies,
			updated_at = NOW()`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	total := 0
	for _, p := range profiles {
		if p.ProfileURL == "" {
			continue
		}
		if _, err = stmt.ExecContext(
			ctx,
			p.Name,
			p.FirstName,
			p.LastName,
			p.Company,
			p.JobTitle,
			p.BusinessEmail,
			p.Phone,
			p.SocialProfile,
			p.ProfileURL,
			p.LoanSampleURL,
			p.Region,
			p.Classification.PercentGood,
			p.Classification.Qualifies,
		); err != nil {
			return 0, fmt.Errorf("insert broker %q: %w", p.ProfileURL, err)
		}
		total++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return total, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS brokers (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			job_title TEXT NOT NULL DEFAULT '',
			business_email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			social_profile TEXT NOT NULL DEFAULT '',
			profile_url TEXT NOT NULL UNIQUE,
			loan_sample_url TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			percent_good REAL NOT NULL DEFAULT 0,
			qualifies BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_brokers_region ON brokers(region);
	`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
