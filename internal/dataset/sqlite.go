package dataset

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/drug-recommendation-server/internal/domain"
)

// SQLiteSource loads raw review records from an embedded SQLite
// database with a reviews table. The database is read-only for this
// service; ingestion tooling owns writes.
type SQLiteSource struct {
	dbPath string
	logger *logrus.Logger
}

// NewSQLiteSource creates a SQLite-backed record source.
func NewSQLiteSource(dbPath string, logger *logrus.Logger) *SQLiteSource {
	return &SQLiteSource{
		dbPath: dbPath,
		logger: logger,
	}
}

// Load reads all records from the reviews table.
func (s *SQLiteSource) Load(ctx context.Context) ([]domain.ReviewRecord, error) {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT drug_name, condition, rating, effectiveness, side_effects,
		       benefits_review, side_effects_review
		FROM reviews`)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var records []domain.ReviewRecord
	for rows.Next() {
		var record domain.ReviewRecord
		var rating sql.NullFloat64
		var sideEffects, benefits, sideEffectsReview sql.NullString

		if err := rows.Scan(
			&record.Drug, &record.Condition, &rating,
			&record.Effectiveness, &sideEffects,
			&benefits, &sideEffectsReview,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}

		if rating.Valid {
			record.Rating = rating.Float64
			record.HasRating = true
		}
		record.SideEffects = sideEffects.String
		record.BenefitsReview = benefits.String
		record.SideEffectsReview = sideEffectsReview.String

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"db_path": s.dbPath,
		"records": len(records),
	}).Info("Loaded review records from SQLite")

	return records, nil
}
