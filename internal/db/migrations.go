package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'dispatch_status') THEN
			CREATE TYPE dispatch_status AS ENUM ('PENDING', 'SENT', 'FAILED', 'SKIPPED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS quote_submission (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		customer_name TEXT NOT NULL,
		customer_email TEXT,
		job_city VARCHAR(64) NOT NULL,
		recommended_class VARCHAR(16) NOT NULL,
		quote_kind VARCHAR(16) NOT NULL,
		total_public NUMERIC(18,2) NOT NULL,
		snapshot JSONB NOT NULL,
		customer_status dispatch_status NOT NULL DEFAULT 'PENDING',
		customer_error TEXT,
		internal_status dispatch_status NOT NULL DEFAULT 'PENDING',
		internal_error TEXT,
		attempts INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quote_submission_created_at ON quote_submission (created_at DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_quote_submission_undelivered ON quote_submission (created_at)
		WHERE customer_status IN ('PENDING', 'FAILED') OR internal_status IN ('PENDING', 'FAILED');`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
