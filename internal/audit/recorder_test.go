package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/db"
	"github.com/greencity/waste-pickup/internal/models"
)

type fakeAuditStore struct {
	entries   []models.AuditLogEntry
	insertErr error
	total     int64
}

func (s *fakeAuditStore) InsertEntry(_ context.Context, entry models.AuditLogEntry) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeAuditStore) FindEntries(_ context.Context, _ int64) ([]models.AuditLogEntry, error) {
	return s.entries, nil
}

func (s *fakeAuditStore) CountEntries(_ context.Context) (int64, error) {
	if s.total != 0 {
		return s.total, nil
	}
	return int64(len(s.entries)), nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (s *fakeUserStore) InsertUser(_ context.Context, _ models.User) error { return nil }

func (s *fakeUserStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindUserByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, db.ErrUserNotFound
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, _ string) error { return nil }

func entryFor(admin primitive.ObjectID) models.AuditLogEntry {
	return models.AuditLogEntry{
		Admin:      admin,
		ActionType: models.ActionUpdateStatus,
		TargetType: models.TargetPickup,
	}
}

func TestRecord_AppendsEntry(t *testing.T) {
	store := &fakeAuditStore{}
	recorder := NewRecorder(store, &fakeUserStore{})

	admin := primitive.NewObjectID()
	recorder.Record(context.Background(), entryFor(admin))

	require.Len(t, store.entries, 1)
	assert.Equal(t, admin, store.entries[0].Admin)
}

func TestRecord_SwallowsStoreFailure(t *testing.T) {
	store := &fakeAuditStore{insertErr: errors.New("audit store down")}
	recorder := NewRecorder(store, &fakeUserStore{})

	// Must not panic and has no error to return: the caller's
	// transaction proceeds regardless.
	recorder.Record(context.Background(), entryFor(primitive.NewObjectID()))
	assert.Empty(t, store.entries)
}

func TestList_ResolvesActors(t *testing.T) {
	admin := primitive.NewObjectID()
	unknown := primitive.NewObjectID()
	store := &fakeAuditStore{entries: []models.AuditLogEntry{entryFor(admin), entryFor(unknown)}}
	users := &fakeUserStore{users: map[string]*models.User{
		admin.Hex(): {ID: admin, Name: "Priya Nair", Email: "priya@greencity.local"},
	}}
	recorder := NewRecorder(store, users)

	page, err := recorder.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Logs, 2)

	assert.Equal(t, "Priya Nair", page.Logs[0].AdminName)
	assert.Equal(t, "priya@greencity.local", page.Logs[0].AdminEmail)
	// Entries whose admin is gone are still listed, just unresolved.
	assert.Empty(t, page.Logs[1].AdminName)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(1), page.Pages)
}

func TestList_PageMath(t *testing.T) {
	store := &fakeAuditStore{total: 41}
	recorder := NewRecorder(store, &fakeUserStore{})

	page, err := recorder.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Page)
	assert.Equal(t, int64(41), page.Total)
	assert.Equal(t, int64(3), page.Pages)

	// Page numbers below one clamp to the first page.
	page, err = recorder.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Page)
}
