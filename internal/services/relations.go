package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/store"
)

// RelationService maintains the saved/favorite lists between users and
// journal entries, and the review sequences embedded in treks.
type RelationService struct {
	users    store.Collection[models.User]
	journals store.Collection[models.JournalEntry]
	treks    store.Collection[models.Trek]
	now      func() time.Time
}

func NewRelationService(
	users store.Collection[models.User],
	journals store.Collection[models.JournalEntry],
	treks store.Collection[models.Trek],
) *RelationService {
	return &RelationService{users: users, journals: journals, treks: treks, now: time.Now}
}

// journalList selects one of the two per-user reference lists.
type journalList int

const (
	savedList journalList = iota
	favoriteList
)

func (s *RelationService) AddSaved(ctx context.Context, userID, journalID string) error {
	return s.addJournal(ctx, userID, journalID, savedList)
}

func (s *RelationService) AddFavorite(ctx context.Context, userID, journalID string) error {
	return s.addJournal(ctx, userID, journalID, favoriteList)
}

func (s *RelationService) RemoveSaved(ctx context.Context, userID, journalID string) error {
	return s.removeJournal(ctx, userID, journalID, savedList)
}

func (s *RelationService) RemoveFavorite(ctx context.Context, userID, journalID string) error {
	return s.removeJournal(ctx, userID, journalID, favoriteList)
}

func (s *RelationService) ListSaved(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return s.listJournals(ctx, userID, savedList)
}

func (s *RelationService) ListFavorite(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return s.listJournals(ctx, userID, favoriteList)
}

// addJournal appends the journal reference if not already present.
// Repeating the call leaves exactly one occurrence.
func (s *RelationService) addJournal(ctx context.Context, userID, journalID string, list journalList) error {
	uid, jid, err := parseRelationIDs(userID, journalID)
	if err != nil {
		return err
	}

	user, err := s.users.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	if _, err := s.journals.Get(ctx, jid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrJournalNotFound
		}
		return err
	}

	refs := user.SavedJournals
	if list == favoriteList {
		refs = user.FavoriteJournals
	}
	for _, ref := range refs {
		if ref == jid {
			return nil
		}
	}

	if list == favoriteList {
		user.FavoriteJournals = append(user.FavoriteJournals, jid)
	} else {
		user.SavedJournals = append(user.SavedJournals, jid)
	}
	return s.users.Replace(ctx, uid, user)
}

// removeJournal drops the reference. Absence of the element is not an error.
func (s *RelationService) removeJournal(ctx context.Context, userID, journalID string, list journalList) error {
	uid, jid, err := parseRelationIDs(userID, journalID)
	if err != nil {
		return err
	}

	user, err := s.users.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	refs := user.SavedJournals
	if list == favoriteList {
		refs = user.FavoriteJournals
	}

	kept := make([]primitive.ObjectID, 0, len(refs))
	for _, ref := range refs {
		if ref != jid {
			kept = append(kept, ref)
		}
	}
	if len(kept) == len(refs) {
		return nil
	}

	if list == favoriteList {
		user.FavoriteJournals = kept
	} else {
		user.SavedJournals = kept
	}
	return s.users.Replace(ctx, uid, user)
}

// listJournals dereferences the list in stored order. Dangling references
// are silently skipped.
func (s *RelationService) listJournals(ctx context.Context, userID string, list journalList) ([]models.JournalEntry, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.users.Get(ctx, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	refs := user.SavedJournals
	if list == favoriteList {
		refs = user.FavoriteJournals
	}

	entries := make([]models.JournalEntry, 0, len(refs))
	for _, ref := range refs {
		entry, err := s.journals.Get(ctx, ref)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

type ReviewInput struct {
	UserID   string
	Username string
	Review   string
}

// AddReview appends a review with a server-assigned timestamp and persists
// the whole trek. Returns the full updated review sequence.
func (s *RelationService) AddReview(ctx context.Context, trekID string, in ReviewInput) ([]models.Review, error) {
	if in.UserID == "" || in.Username == "" || in.Review == "" {
		return nil, ErrMissingReviewFields
	}

	tid, err := primitive.ObjectIDFromHex(trekID)
	if err != nil {
		return nil, ErrTrekNotFound
	}
	uid, err := primitive.ObjectIDFromHex(in.UserID)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	trek, err := s.treks.Get(ctx, tid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTrekNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	trek.Reviews = append(trek.Reviews, models.Review{
		UserID:   uid,
		Username: in.Username,
		Review:   in.Review,
		Date:     now,
	})
	trek.UpdatedAt = now

	if err := s.treks.Replace(ctx, tid, trek); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTrekNotFound
		}
		return nil, err
	}
	return trek.Reviews, nil
}

// ListReviews returns a trek's reviews in append order.
func (s *RelationService) ListReviews(ctx context.Context, trekID string) ([]models.Review, error) {
	tid, err := primitive.ObjectIDFromHex(trekID)
	if err != nil {
		return nil, ErrTrekNotFound
	}

	trek, err := s.treks.Get(ctx, tid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTrekNotFound
	}
	if err != nil {
		return nil, err
	}
	if trek.Reviews == nil {
		return []models.Review{}, nil
	}
	return trek.Reviews, nil
}

// ReviewFeedItem is the aggregate-feed projection of a trek.
type ReviewFeedItem struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	ImageURL string             `json:"imageUrl,omitempty"`
	Reviews  []models.Review    `json:"reviews"`
}

// ListAllReviews projects {name, imageUrl, reviews} for every trek.
func (s *RelationService) ListAllReviews(ctx context.Context) ([]ReviewFeedItem, error) {
	treks, err := s.treks.Find(ctx, store.Filter{}, nil)
	if err != nil {
		return nil, err
	}

	feed := make([]ReviewFeedItem, 0, len(treks))
	for _, trek := range treks {
		reviews := trek.Reviews
		if reviews == nil {
			reviews = []models.Review{}
		}
		feed = append(feed, ReviewFeedItem{
			ID:       trek.ID,
			Name:     trek.Name,
			ImageURL: trek.ImageURL,
			Reviews:  reviews,
		})
	}
	return feed, nil
}

func parseRelationIDs(userID, journalID string) (primitive.ObjectID, primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrInvalidUserID
	}
	jid, err := primitive.ObjectIDFromHex(journalID)
	if err != nil {
		return primitive.NilObjectID, primitive.NilObjectID, ErrInvalidJournalID
	}
	return uid, jid, nil
}
