package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhystmorgan/contactsterm/internal/importer"
	"rhystmorgan/contactsterm/internal/models"
)

var errBoom = errors.New("boom")

// createMockStore builds a store over a sqlmock handle.
func createMockStore(t *testing.T, opts ...Option) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}

	s := NewStoreFromDB(sqlx.NewDb(mockDB, "sqlmock"), opts...)
	t.Cleanup(func() { _ = s.Close() })

	return s, mock
}

func TestInitializeSchemaFailure(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnError(errBoom)

	err := s.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, IsType(err, ErrStorageInit))
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeSeedFailureRollsBack(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errBoom)
	mock.ExpectRollback()

	err := s.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, IsType(err, ErrStorageInit))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInitializeSkipsSeedWhenRowsExist(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contacts").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	require.NoError(t, s.Initialize(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllReadFailure(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY created_at DESC, id DESC").WillReturnError(errBoom)

	contacts, err := s.ListAll(context.Background())
	require.Error(t, err)
	assert.Nil(t, contacts)
	assert.True(t, IsType(err, ErrStorageRead))
	assert.Equal(t, "Could not load the contact list.", UserMessage(err))
}

func TestListAllScansNullableColumns(t *testing.T) {
	s, mock := createMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "name", "phone", "email", "favorite", "created_at"}).
		AddRow(2, "Bob", "222", nil, false, 20).
		AddRow(1, "Ann", nil, "ann@example.com", true, 10)
	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY").WillReturnRows(rows)

	contacts, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "222", contacts[0].PhoneValue())
	assert.Nil(t, contacts[0].Email)
	assert.Nil(t, contacts[1].Phone)
	assert.True(t, contacts[1].Favorite)
}

func TestCreateWriteFailure(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errBoom)

	_, err := s.Create(context.Background(), models.ContactInput{Name: "X"})
	require.Error(t, err)
	assert.True(t, IsType(err, ErrStorageWrite))
}

func TestUpdateWriteFailure(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("UPDATE contacts SET name").WillReturnError(errBoom)

	err := s.Update(context.Background(), 1, models.ContactInput{Name: "X"})
	assert.True(t, IsType(err, ErrStorageWrite))
}

func TestToggleFavoriteSendsExpectedValue(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("UPDATE contacts SET favorite = \\? WHERE id = \\? AND COALESCE\\(favorite, 0\\) = \\?").
		WithArgs(1, int64(9), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.ToggleFavorite(context.Background(), 9, false))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWriteFailure(t *testing.T) {
	s, mock := createMockStore(t)

	mock.ExpectExec("DELETE FROM contacts WHERE id").WithArgs(int64(3)).WillReturnError(errBoom)

	err := s.Delete(context.Background(), 3)
	assert.True(t, IsType(err, ErrStorageWrite))
}

func TestImportPhoneLookupFailure(t *testing.T) {
	fetcher := &stubFetcher{records: []importer.Record{{Name: str("A")}}}
	s, mock := createMockStore(t, WithFetcher(fetcher))

	mock.ExpectQuery("SELECT TRIM\\(phone\\) FROM contacts").WillReturnError(errBoom)

	inserted, err := s.ImportFromRemote(context.Background(), "http://example.test")
	assert.Zero(t, inserted)
	assert.True(t, IsType(err, ErrStorageRead))
}

func TestImportKeepsRowsWrittenBeforeFailure(t *testing.T) {
	fetcher := &stubFetcher{records: []importer.Record{
		{Name: str("First"), Phone: str("1")},
		{Name: str("Second"), Phone: str("2")},
		{Name: str("Third"), Phone: str("3")},
	}}
	s, mock := createMockStore(t, WithFetcher(fetcher))

	mock.ExpectQuery("SELECT TRIM\\(phone\\) FROM contacts").
		WillReturnRows(sqlmock.NewRows([]string{"phone"}))
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errBoom)

	inserted, err := s.ImportFromRemote(context.Background(), "http://example.test")
	require.Error(t, err)
	assert.Equal(t, 1, inserted)
	assert.True(t, IsType(err, ErrStorageWrite))
	assert.NoError(t, mock.ExpectationsWereMet())
}
