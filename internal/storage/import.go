package storage

import (
	"context"
	"log/slog"

	"rhystmorgan/contactsterm/internal/audit"
	"rhystmorgan/contactsterm/internal/models"
)

// ImportFromRemote fetches records from url and inserts the ones that carry
// a name and a phone not already stored. Records are inserted one by one in
// source order, so rows written before a failure stay committed. Only one
// import may run at a time.
func (s *Store) ImportFromRemote(ctx context.Context, url string) (int, error) {
	if !s.importGate.TryAcquire(1) {
		return 0, NewStoreError(ErrImportInProgress, "an import is already running", nil)
	}
	defer s.importGate.Release(1)

	records, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		slog.Error("import fetch failed", "url", url, "error", err)
		return 0, NewImportFetchError(url, err)
	}

	phones, err := s.existingPhones(ctx)
	if err != nil {
		return 0, err
	}

	inserted := 0
	skipped := 0
	for _, record := range records {
		name := record.NameValue()
		if name == "" {
			skipped++
			continue
		}

		phone := record.PhoneValue()
		if phone != "" {
			if _, seen := phones[phone]; seen {
				skipped++
				continue
			}
		}

		_, err := s.Create(ctx, models.ContactInput{
			Name:  name,
			Phone: phone,
			Email: record.EmailValue(),
		})
		if err != nil {
			slog.Error("import stopped on insert failure", "url", url, "inserted", inserted, "error", err)
			return inserted, err
		}

		if phone != "" {
			phones[phone] = struct{}{}
		}
		inserted++
	}

	slog.Info("import finished", "url", url, "received", len(records), "inserted", inserted, "skipped", skipped)
	s.audit(audit.AuditActionImport, 0, map[string]interface{}{
		"url":      url,
		"received": len(records),
		"inserted": inserted,
	})

	return inserted, nil
}

// existingPhones returns the set of non-empty phones currently stored.
func (s *Store) existingPhones(ctx context.Context) (map[string]struct{}, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, NewReadError("failed to open database", err)
	}

	var stored []string
	err = db.SelectContext(ctx, &stored,
		"SELECT TRIM(phone) FROM contacts WHERE phone IS NOT NULL AND TRIM(phone) <> ''")
	if err != nil {
		return nil, NewReadError("failed to load existing phones", err)
	}

	phones := make(map[string]struct{}, len(stored))
	for _, phone := range stored {
		phones[phone] = struct{}{}
	}
	return phones, nil
}
