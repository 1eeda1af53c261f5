package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/store"
)

type journalFixture struct {
	svc      *JournalService
	users    store.Collection[models.User]
	treks    store.Collection[models.Trek]
	journals store.Collection[models.JournalEntry]
	user     models.User
	trek     models.Trek
}

func newJournalFixture(t *testing.T) *journalFixture {
	t.Helper()
	users := store.NewMemory[models.User]()
	treks := store.NewMemory[models.Trek]()
	journals := store.NewMemory[models.JournalEntry]()

	f := &journalFixture{
		svc:      NewJournalService(journals, users, treks),
		users:    users,
		treks:    treks,
		journals: journals,
		user:     models.User{ID: primitive.NewObjectID(), Username: "alice"},
		trek:     models.Trek{ID: primitive.NewObjectID(), Name: "Annapurna Circuit"},
	}
	require.NoError(t, users.Insert(context.Background(), &f.user))
	require.NoError(t, treks.Insert(context.Background(), &f.trek))
	return f
}

func (f *journalFixture) input(date, text string) EntryInput {
	return EntryInput{
		UserID: f.user.ID.Hex(),
		TrekID: f.trek.ID.Hex(),
		Date:   date,
		Text:   text,
	}
}

func TestCreateJournalEntry(t *testing.T) {
	f := newJournalFixture(t)

	entry, err := f.svc.Create(context.Background(), f.input("2024-06-01", "made it to the pass"))
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, entry.UserID)
	assert.Equal(t, f.trek.ID, entry.TrekID)
	assert.NotNil(t, entry.Photos)
	assert.Empty(t, entry.Photos)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestCreateJournalEntryValidation(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input("", "text"))
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = f.svc.Create(ctx, f.input("2024-06-01", ""))
	assert.ErrorIs(t, err, ErrMissingFields)

	in := f.input("2024-06-01", "text")
	in.UserID = "nope"
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidUserID)

	in = f.input("2024-06-01", "text")
	in.TrekID = "nope"
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, ErrInvalidTrekID)
}

func TestListAllNewestFirstWithRefs(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return base }
	older, err := f.svc.Create(ctx, f.input("2024-06-01", "day one"))
	require.NoError(t, err)

	f.svc.now = func() time.Time { return base.Add(time.Hour) }
	newer, err := f.svc.Create(ctx, f.input("2024-06-02", "day two"))
	require.NoError(t, err)

	views, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, newer.ID, views[0].ID)
	assert.Equal(t, older.ID, views[1].ID)

	require.NotNil(t, views[0].User)
	assert.Equal(t, "alice", views[0].User.Username)
	require.NotNil(t, views[0].Trek)
	assert.Equal(t, "Annapurna Circuit", views[0].Trek.Name)
}

func TestListByUserFiltersAndResolvesTrekOnly(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input("2024-06-01", "mine"))
	require.NoError(t, err)

	other := models.User{ID: primitive.NewObjectID(), Username: "bob"}
	require.NoError(t, f.users.Insert(ctx, &other))
	in := f.input("2024-06-01", "not mine")
	in.UserID = other.ID.Hex()
	_, err = f.svc.Create(ctx, in)
	require.NoError(t, err)

	views, err := f.svc.ListByUser(ctx, f.user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "mine", views[0].Text)
	assert.Nil(t, views[0].User)
	require.NotNil(t, views[0].Trek)
	assert.Equal(t, "Annapurna Circuit", views[0].Trek.Name)
}

func TestListByTrekAndUserLatestDateFirst(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	// Insertion order is oldest-date last on purpose.
	_, err := f.svc.Create(ctx, f.input("2024-06-03", "day three"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input("2024-06-01", "day one"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input("2024-06-02", "day two"))
	require.NoError(t, err)

	views, err := f.svc.ListByTrekAndUser(ctx, f.trek.ID.Hex(), f.user.ID.Hex())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "day three", views[0].Text)
	assert.Equal(t, "day two", views[1].Text)
	assert.Equal(t, "day one", views[2].Text)
}

func TestListAllLeavesDanglingRefsEmpty(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.input("2024-06-01", "orphaned"))
	require.NoError(t, err)
	require.NoError(t, f.treks.Delete(ctx, f.trek.ID))

	views, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Nil(t, views[0].Trek)
	require.NotNil(t, views[0].User)
}

func TestUpdateJournalReplacesPhotosWholesale(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	in := f.input("2024-06-01", "day one")
	in.Photos = []string{"/uploads/a.jpg", "/uploads/b.jpg"}
	created, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	update := f.input("2024-06-01", "day one, edited")
	update.Photos = []string{"/uploads/c.jpg"}
	updated, err := f.svc.Update(ctx, created.ID.Hex(), update)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/c.jpg"}, updated.Photos)
	assert.Equal(t, "day one, edited", updated.Text)

	// Submitting no photos clears the sequence rather than keeping the old one.
	update.Photos = nil
	updated, err = f.svc.Update(ctx, created.ID.Hex(), update)
	require.NoError(t, err)
	assert.Empty(t, updated.Photos)
}

func TestDeleteJournalNotIdempotent(t *testing.T) {
	f := newJournalFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.input("2024-06-01", "day one"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID.Hex()))
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID.Hex()), ErrJournalNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, "nope"), ErrJournalNotFound)
}
