package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/store"
)

// JournalService is CRUD persistence for journal entries. List operations
// dereference the author and trek the way the read-side needs them.
type JournalService struct {
	journals store.Collection[models.JournalEntry]
	users    store.Collection[models.User]
	treks    store.Collection[models.Trek]
	now      func() time.Time
}

func NewJournalService(
	journals store.Collection[models.JournalEntry],
	users store.Collection[models.User],
	treks store.Collection[models.Trek],
) *JournalService {
	return &JournalService{journals: journals, users: users, treks: treks, now: time.Now}
}

type EntryInput struct {
	UserID string
	TrekID string
	Date   string
	Text   string
	// Photos is the normalized sequence: client-supplied URLs first,
	// uploaded-file URLs appended after.
	Photos []string
}

func (s *JournalService) Create(ctx context.Context, in EntryInput) (*models.JournalEntry, error) {
	if in.Date == "" || in.Text == "" {
		return nil, ErrMissingFields
	}
	uid, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	tid, err := primitive.ObjectIDFromHex(in.TrekID)
	if err != nil {
		return nil, ErrInvalidTrekID
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	now := s.now().UTC()
	entry := models.JournalEntry{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    uid,
		TrekID:    tid,
		Date:      in.Date,
		Text:      in.Text,
		Photos:    photos,
	}
	if err := s.journals.Insert(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *JournalService) Get(ctx context.Context, id string) (*models.JournalEntry, error) {
	jid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrJournalNotFound
	}
	entry, err := s.journals.Get(ctx, jid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrJournalNotFound
	}
	return entry, err
}

// UserRef is the dereferenced author of an entry.
type UserRef struct {
	ID       primitive.ObjectID `json:"id"`
	Username string             `json:"username"`
}

// TrekRef is the dereferenced trek of an entry.
type TrekRef struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
}

// EntryView is an entry with its references resolved. A dangling reference
// leaves the corresponding field empty rather than failing the listing.
type EntryView struct {
	models.JournalEntry
	User *UserRef `json:"user,omitempty"`
	Trek *TrekRef `json:"trek,omitempty"`
}

// ListAll returns the public feed, newest first, with author and trek
// resolved.
func (s *JournalService) ListAll(ctx context.Context) ([]EntryView, error) {
	entries, err := s.journals.Find(ctx, store.Filter{}, &store.Sort{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, entries, true, true)
}

// ListByUser returns a user's entries, newest first, with treks resolved.
func (s *JournalService) ListByUser(ctx context.Context, userID string) ([]EntryView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	entries, err := s.journals.Find(ctx, store.Filter{"userId": uid}, &store.Sort{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, entries, false, true)
}

// ListByTrekAndUser returns entries for a (trek, user) pair, latest date
// first.
func (s *JournalService) ListByTrekAndUser(ctx context.Context, trekID, userID string) ([]EntryView, error) {
	tid, err := primitive.ObjectIDFromHex(trekID)
	if err != nil {
		return nil, ErrInvalidTrekID
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	entries, err := s.journals.Find(ctx,
		store.Filter{"trekId": tid, "userId": uid},
		&store.Sort{Field: "date", Desc: true})
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, entries, true, true)
}

// Update replaces date, text and the whole photos sequence. Photos are
// reconstructed from the submitted payload, never merged with the stored
// set.
func (s *JournalService) Update(ctx context.Context, id string, in EntryInput) (*models.JournalEntry, error) {
	jid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrJournalNotFound
	}

	entry, err := s.journals.Get(ctx, jid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrJournalNotFound
	}
	if err != nil {
		return nil, err
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	entry.Date = in.Date
	entry.Text = in.Text
	entry.Photos = photos
	entry.UpdatedAt = s.now().UTC()

	if err := s.journals.Replace(ctx, jid, entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry. Repeating the delete returns ErrJournalNotFound.
func (s *JournalService) Delete(ctx context.Context, id string) error {
	jid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrJournalNotFound
	}
	if err := s.journals.Delete(ctx, jid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrJournalNotFound
		}
		return err
	}
	return nil
}

func (s *JournalService) resolve(ctx context.Context, entries []models.JournalEntry, withUser, withTrek bool) ([]EntryView, error) {
	userCache := map[primitive.ObjectID]*UserRef{}
	trekCache := map[primitive.ObjectID]*TrekRef{}

	views := make([]EntryView, 0, len(entries))
	for _, entry := range entries {
		view := EntryView{JournalEntry: entry}

		if withUser {
			ref, ok := userCache[entry.UserID]
			if !ok {
				if user, err := s.users.Get(ctx, entry.UserID); err == nil {
					ref = &UserRef{ID: user.ID, Username: user.Username}
				} else if !errors.Is(err, store.ErrNotFound) {
					return nil, err
				}
				userCache[entry.UserID] = ref
			}
			view.User = ref
		}

		if withTrek {
			ref, ok := trekCache[entry.TrekID]
			if !ok {
				if trek, err := s.treks.Get(ctx, entry.TrekID); err == nil {
					ref = &TrekRef{ID: trek.ID, Name: trek.Name}
				} else if !errors.Is(err, store.ErrNotFound) {
					return nil, err
				}
				trekCache[entry.TrekID] = ref
			}
			view.Trek = ref
		}

		views = append(views, view)
	}
	return views, nil
}
