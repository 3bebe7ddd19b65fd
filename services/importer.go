package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"portal/apperrors"
	"portal/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// ImportStats summarises one CSV import run.
type ImportStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

var deadlineLayouts = []string{time.RFC3339, "2006-01-02"}

type csvRow struct {
	header map[string]int
	values []string
}

func (r csvRow) get(name string) string {
	i, ok := r.header[strings.ToLower(name)]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r csvRow) list(name string) []string {
	return lo.Compact(lo.Map(strings.Split(r.get(name), ";"), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

// Import reads opportunities from CSV and upserts them by title and provider.
// Rows that fail validation are skipped and logged; the run continues.
func (s *Opportunities) Import(ctx context.Context, src io.Reader) (*ImportStats, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.Validation("CSV file is empty", map[string]string{"file": "has no header row"})
	}
	if err != nil {
		return nil, apperrors.Validation("Invalid CSV file", map[string]string{"file": err.Error()})
	}
	header := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}

	stats := &ImportStats{}
	for line := 2; ; line++ {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.WithField("line", line).Warnf("Skipping unreadable row: %v", err)
			stats.Skipped++
			continue
		}

		input, err := opportunityFromRow(csvRow{header: header, values: values})
		if err != nil {
			log.WithField("line", line).Warnf("Skipping row: %v", err)
			stats.Skipped++
			continue
		}
		if err := s.upsert(ctx, input, stats); err != nil {
			if apperrors.Is(err, apperrors.KindInternal) {
				return stats, err
			}
			log.WithField("line", line).Warnf("Skipping row: %v", err)
			stats.Skipped++
		}
	}

	log.WithFields(log.Fields{
		"inserted": stats.Inserted,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
	}).Info("Opportunity import complete")
	return stats, nil
}

func (s *Opportunities) upsert(ctx context.Context, input OpportunityInput, stats *ImportStats) error {
	existing, err := s.opportunities.FindByTitle(ctx, input.Title, input.Provider)
	switch {
	case apperrors.Is(err, apperrors.KindNotFound):
		if _, err := s.Create(ctx, input); err != nil {
			return err
		}
		stats.Inserted++
	case err != nil:
		return err
	default:
		if _, err := s.Update(ctx, existing.ID, input); err != nil {
			return err
		}
		stats.Updated++
	}
	return nil
}

func opportunityFromRow(row csvRow) (OpportunityInput, error) {
	input := OpportunityInput{
		Title:              row.get("title"),
		Description:        row.get("description"),
		Category:           models.Category(strings.ToLower(row.get("category"))),
		Field:              row.get("field"),
		Provider:           row.get("provider"),
		Location:           row.get("location"),
		ApplicationProcess: row.get("applicationProcess"),
		DocumentsRequired:  row.list("documentsRequired"),
		Funding: models.Funding{
			Tuition:       row.get("tuition"),
			Accommodation: row.get("accommodation"),
			Allowance:     row.get("allowance"),
		},
		Contact: models.ContactInfo{
			Email:   row.get("contactEmail"),
			Phone:   row.get("contactPhone"),
			Website: row.get("website"),
		},
	}
	if input.Title == "" || input.Provider == "" {
		return input, apperrors.Validation("title and provider are required", nil)
	}
	if url := row.get("applyUrl"); url != "" {
		input.ApplyMethod = models.ApplyMethod{Type: "redirect", URL: url}
	}

	raw := row.get("applicationDeadline")
	for _, layout := range deadlineLayouts {
		if deadline, err := time.Parse(layout, raw); err == nil {
			input.ApplicationDeadline = deadline
			break
		}
	}
	if input.ApplicationDeadline.IsZero() {
		return input, apperrors.Validation("invalid applicationDeadline "+strconv.Quote(raw), nil)
	}

	if raw := row.get("rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return input, apperrors.Validation("invalid rating "+strconv.Quote(raw), nil)
		}
		input.Rating = &rating
	}
	return input, nil
}
