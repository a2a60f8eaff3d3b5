package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/drug-recommendation-server/internal/domain"
)

// TSVSource loads raw drugLib review records from the tab-separated
// train/test file pair. The test path is optional; when present both
// files are concatenated into one record set.
type TSVSource struct {
	trainPath string
	testPath  string
	logger    *logrus.Logger
}

// NewTSVSource creates a TSV-backed record source.
func NewTSVSource(trainPath, testPath string, logger *logrus.Logger) *TSVSource {
	return &TSVSource{
		trainPath: trainPath,
		testPath:  testPath,
		logger:    logger,
	}
}

// Load reads all records from the configured files.
func (s *TSVSource) Load(ctx context.Context) ([]domain.ReviewRecord, error) {
	records, err := s.loadFile(s.trainPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load train file: %w", err)
	}

	if s.testPath != "" {
		testRecords, err := s.loadFile(s.testPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load test file: %w", err)
		}
		records = append(records, testRecords...)
	}

	s.logger.WithFields(logrus.Fields{
		"train_path": s.trainPath,
		"test_path":  s.testPath,
		"records":    len(records),
	}).Info("Loaded review records from TSV")

	return records, nil
}

func (s *TSVSource) loadFile(path string) ([]domain.ReviewRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"urlDrugName", "condition", "effectiveness"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q in %s", required, path)
		}
	}

	var records []domain.ReviewRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row in %s: %w", path, err)
		}

		record := domain.ReviewRecord{
			Drug:              field(row, columns, "urlDrugName"),
			Condition:         field(row, columns, "condition"),
			Effectiveness:     field(row, columns, "effectiveness"),
			SideEffects:       field(row, columns, "sideEffects"),
			BenefitsReview:    field(row, columns, "benefitsReview"),
			SideEffectsReview: field(row, columns, "sideEffectsReview"),
		}

		if raw := field(row, columns, "rating"); raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				record.Rating = rating
				record.HasRating = true
			}
		}

		records = append(records, record)
	}

	return records, nil
}

func field(row []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}
