package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/semaphore"

	"rhystmorgan/contactsterm/internal/audit"
	"rhystmorgan/contactsterm/internal/importer"
	"rhystmorgan/contactsterm/internal/models"
)

// Fetcher downloads import records from a remote source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]importer.Record, error)
}

// Store is the only reader and writer of the contacts table. The database
// handle is opened on first use and shared by every operation afterwards.
type Store struct {
	path   string
	opener func(ctx context.Context) (*sqlx.DB, error)

	once    sync.Once
	db      *sqlx.DB
	openErr error

	closeOnce sync.Once

	fetcher    Fetcher
	auditor    *audit.ContactAuditor
	importGate *semaphore.Weighted

	clockMu     sync.Mutex
	lastCreated int64
	now         func() time.Time
}

type Option func(*Store)

func WithFetcher(f Fetcher) Option {
	return func(s *Store) {
		s.fetcher = f
	}
}

func WithAuditor(a *audit.ContactAuditor) Option {
	return func(s *Store) {
		s.auditor = a
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns a store for the SQLite file at path. Nothing is opened
// until the first operation.
func NewStore(path string, opts ...Option) *Store {
	s := newStore(opts...)
	s.path = path
	s.opener = func(ctx context.Context) (*sqlx.DB, error) {
		return OpenDatabase(ctx, path)
	}
	return s
}

// NewStoreFromDB wraps an already opened handle.
func NewStoreFromDB(db *sqlx.DB, opts ...Option) *Store {
	s := newStore(opts...)
	s.path = "<external>"
	s.opener = func(context.Context) (*sqlx.DB, error) {
		return db, nil
	}
	return s
}

func newStore(opts ...Option) *Store {
	s := &Store{
		importGate: semaphore.NewWeighted(1),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = importer.NewClient(importer.DefaultTimeout)
	}
	return s
}

// Path returns the database location the store was created with.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) handle(ctx context.Context) (*sqlx.DB, error) {
	s.once.Do(func() {
		s.db, s.openErr = s.opener(ctx)
		if s.openErr != nil {
			slog.Error("opening contacts database", "path", s.path, "error", s.openErr)
		}
	})
	return s.db, s.openErr
}

// Close releases the database handle and flushes the audit trail.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.auditor != nil {
			if auditErr := s.auditor.Close(); auditErr != nil {
				slog.Error("closing audit log", "error", auditErr)
			}
		}
		if s.db != nil {
			err = s.db.Close()
			slog.Debug("database closed", "path", s.path)
		}
	})
	return err
}

// nextCreatedAt returns the current time in milliseconds, bumped past the
// last value handed out so inserts never share a timestamp.
func (s *Store) nextCreatedAt() int64 {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	ts := s.now().UnixMilli()
	if ts <= s.lastCreated {
		ts = s.lastCreated + 1
	}
	s.lastCreated = ts
	return ts
}

func (s *Store) audit(action audit.AuditAction, contactID int64, details map[string]interface{}) {
	if s.auditor == nil {
		return
	}
	if err := s.auditor.LogContactAction(action, contactID, details); err != nil {
		slog.Error("writing audit log", "action", action, "id", contactID, "error", err)
	}
}

type seedContact struct {
	name     string
	phone    *string
	email    *string
	favorite bool
}

func seedContacts() []seedContact {
	return []seedContact{
		{name: "Nguyễn Văn A", phone: models.NullableString("0901234567"), email: models.NullableString("a@example.com")},
		{name: "Trần Thị B", phone: models.NullableString("0987654321"), email: models.NullableString("b@example.com"), favorite: true},
		{name: "Lê Văn C", phone: models.NullableString("0912345678")},
	}
}

// Initialize creates the contacts table when missing and seeds three
// sample rows into an empty table. Calling it again is harmless.
func (s *Store) Initialize(ctx context.Context) error {
	db, err := s.handle(ctx)
	if err != nil {
		return NewInitError("failed to open database", err)
	}

	if _, err := db.ExecContext(ctx, schemaContacts); err != nil {
		return NewInitError("failed to create contacts table", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM contacts"); err != nil {
		return NewInitError("failed to count contacts", err)
	}
	if count > 0 {
		slog.Debug("contacts table ready", "rows", count)
		return nil
	}

	seeds := seedContacts()
	err = withTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, seed := range seeds {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO contacts (name, phone, email, favorite, created_at) VALUES (?, ?, ?, ?, ?)",
				seed.name, seed.phone, seed.email, boolToInt(seed.favorite), s.nextCreatedAt(),
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return NewInitError("failed to seed contacts", err)
	}

	slog.Info("seeded contacts table", "rows", len(seeds))
	s.audit(audit.AuditActionSeed, 0, map[string]interface{}{"rows": len(seeds)})

	return nil
}

// ListAll returns every contact, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Contact, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, NewReadError("failed to open database", err)
	}

	contacts := []models.Contact{}
	query := "SELECT " + selectColumns + " FROM contacts ORDER BY created_at DESC, id DESC"
	if err := db.SelectContext(ctx, &contacts, query); err != nil {
		return nil, NewReadError("failed to load contacts", err)
	}

	return contacts, nil
}

// Get returns the contact with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*models.Contact, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return nil, NewReadError("failed to open database", err)
	}

	var contact models.Contact
	err = db.GetContext(ctx, &contact, "SELECT "+selectColumns+" FROM contacts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NewNotFoundError(id)
	}
	if err != nil {
		return nil, NewReadError(fmt.Sprintf("failed to load contact %d", id), err)
	}

	return &contact, nil
}

// Count returns the number of stored contacts.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, NewReadError("failed to open database", err)
	}

	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM contacts"); err != nil {
		return 0, NewReadError("failed to count contacts", err)
	}
	return count, nil
}

// Create inserts a new contact. Inputs are trimmed and blank optional
// fields are stored as NULL. The name is not checked here.
func (s *Store) Create(ctx context.Context, input models.ContactInput) (int64, error) {
	db, err := s.handle(ctx)
	if err != nil {
		return 0, NewWriteError("failed to open database", err)
	}

	name := strings.TrimSpace(input.Name)
	result, err := db.ExecContext(ctx,
		"INSERT INTO contacts (name, phone, email, favorite, created_at) VALUES (?, ?, ?, ?, ?)",
		name, models.NullableString(input.Phone), models.NullableString(input.Email), 0, s.nextCreatedAt(),
	)
	if err != nil {
		return 0, NewWriteError("failed to create contact", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, NewWriteError("failed to read new contact id", err)
	}

	slog.Debug("contact created", "id", id)
	s.audit(audit.AuditActionCreate, id, map[string]interface{}{"name": name})

	return id, nil
}

// Update overwrites name, phone and email. An unknown id is not an error
// and changes nothing.
func (s *Store) Update(ctx context.Context, id int64, input models.ContactInput) error {
	db, err := s.handle(ctx)
	if err != nil {
		return NewWriteError("failed to open database", err)
	}

	result, err := db.ExecContext(ctx,
		"UPDATE contacts SET name = ?, phone = ?, email = ? WHERE id = ?",
		strings.TrimSpace(input.Name), models.NullableString(input.Phone), models.NullableString(input.Email), id,
	)
	if err != nil {
		return NewWriteError(fmt.Sprintf("failed to update contact %d", id), err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.audit(audit.AuditActionUpdate, id, nil)
	} else {
		slog.Debug("update matched no contact", "id", id)
	}

	return nil
}

// ToggleFavorite sets favorite to the negation of current, but only while
// the stored value still equals current. A stale caller changes nothing and
// will see the stored value on its next reload.
func (s *Store) ToggleFavorite(ctx context.Context, id int64, current bool) error {
	db, err := s.handle(ctx)
	if err != nil {
		return NewWriteError("failed to open database", err)
	}

	next := !current
	result, err := db.ExecContext(ctx,
		"UPDATE contacts SET favorite = ? WHERE id = ? AND COALESCE(favorite, 0) = ?",
		boolToInt(next), id, boolToInt(current),
	)
	if err != nil {
		return NewWriteError(fmt.Sprintf("failed to toggle favorite for contact %d", id), err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.audit(audit.AuditActionFavorite, id, map[string]interface{}{"favorite": next})
	} else {
		slog.Debug("favorite toggle skipped", "id", id, "expected", current)
	}

	return nil
}

// Delete removes the contact permanently. An unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	db, err := s.handle(ctx)
	if err != nil {
		return NewWriteError("failed to open database", err)
	}

	result, err := db.ExecContext(ctx, "DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return NewWriteError(fmt.Sprintf("failed to delete contact %d", id), err)
	}

	if n, _ := result.RowsAffected(); n > 0 {
		s.audit(audit.AuditActionDelete, id, nil)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
