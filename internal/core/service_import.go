package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ImportResult summarizes a CSV import.
type ImportResult struct {
	ImportID string `json:"importId"`
	Imported int    `json:"imported"`
	Skipped  int    `json:"skipped"`
	Loads    []Load `json:"-"`
}

// ImportLoads decodes text, validates every record and appends the accepted
// loads with fresh ids. Records with an unknown status or with equal origin
// and destination are skipped like malformed rows.
//
// File-level failures import nothing. Decoded ids are never used as keys.
func (s *Service) ImportLoads(ctx context.Context, text string) (ImportResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		s.observer.ImportFinished(ImportRejected, 0, 0)
		return ImportResult{}, err
	}
	defer s.limiter.Release()

	decoded, err := DecodeLoads(text)
	if err != nil {
		s.observer.ImportFinished(ImportRejected, 0, 0)
		return ImportResult{}, err
	}

	skipped := decoded.Skipped
	accepted := make([]Load, 0, len(decoded.Records))
	for _, rec := range decoded.Records {
		load, err := validateImported(rec)
		if err != nil {
			skipped++
			continue
		}
		accepted = append(accepted, load)
	}
	if len(accepted) == 0 {
		s.observer.ImportFinished(ImportRejected, 0, skipped)
		return ImportResult{}, fmt.Errorf("%w (%d rows skipped)", ErrNoValidRows, skipped)
	}

	var stored []Load
	if err := guard(EntityLoad, ActionImport, func() {
		stored = s.store.Loads.Append(accepted)
	}); err != nil {
		s.observer.ImportFinished(ImportFailed, 0, 0)
		return ImportResult{}, err
	}

	result := ImportResult{
		ImportID: uuid.NewString(),
		Imported: len(stored),
		Skipped:  skipped,
		Loads:    stored,
	}

	s.activity.Record(ctx, ActivityEntry{
		ID:           result.ImportID,
		Action:       ActionImport,
		Entity:       EntityLoad,
		RowsAffected: result.Imported,
		Detail:       fmt.Sprintf("%d skipped", result.Skipped),
	})
	s.observer.ImportFinished(ImportOK, result.Imported, result.Skipped)
	slog.Info("csv import completed",
		"import_id", result.ImportID,
		"imported", result.Imported,
		"skipped", result.Skipped,
	)

	return result, nil
}

// ExportLoads encodes the loads matching c and returns the CSV text and
// the number of exported rows.
func (s *Service) ExportLoads(ctx context.Context, c FilterCriteria) (string, int) {
	loads := s.Loads(c)
	text := EncodeLoads(loads)

	s.activity.Record(ctx, ActivityEntry{
		Action:       ActionExport,
		Entity:       EntityLoad,
		RowsAffected: len(loads),
	})
	s.observer.ExportFinished(len(loads))
	slog.Info("csv export completed", "rows", len(loads))

	return text, len(loads)
}
