package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/store"
)

// TrekService is CRUD persistence for treks.
type TrekService struct {
	treks store.Collection[models.Trek]
	now   func() time.Time
}

func NewTrekService(treks store.Collection[models.Trek]) *TrekService {
	return &TrekService{treks: treks, now: time.Now}
}

type TrekInput struct {
	Name             string
	Location         string
	SmallDescription string
	Description      string
	Difficulty       string
	Distance         float64
	BestSeason       string
	ImageURL         string
	Highlights       []string
}

func (s *TrekService) Create(ctx context.Context, in TrekInput) (*models.Trek, error) {
	if in.Name == "" {
		return nil, ErrTrekNameRequired
	}

	difficulty := models.Difficulty(in.Difficulty)
	if difficulty == "" {
		difficulty = models.DifficultyEasy
	}
	if !models.ValidDifficulty(difficulty) {
		return nil, ErrInvalidDifficulty
	}

	highlights := in.Highlights
	if highlights == nil {
		highlights = []string{}
	}

	now := s.now().UTC()
	trek := models.Trek{
		ID:               primitive.NewObjectID(),
		CreatedAt:        now,
		UpdatedAt:        now,
		Name:             in.Name,
		Location:         in.Location,
		SmallDescription: in.SmallDescription,
		Description:      in.Description,
		Difficulty:       difficulty,
		Distance:         in.Distance,
		BestSeason:       in.BestSeason,
		ImageURL:         in.ImageURL,
		Highlights:       highlights,
		Reviews:          []models.Review{},
	}
	if err := s.treks.Insert(ctx, &trek); err != nil {
		return nil, err
	}
	return &trek, nil
}

func (s *TrekService) Get(ctx context.Context, id string) (*models.Trek, error) {
	tid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrTrekNotFound
	}
	trek, err := s.treks.Get(ctx, tid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTrekNotFound
	}
	return trek, err
}

// List returns all treks in natural store order.
func (s *TrekService) List(ctx context.Context) ([]models.Trek, error) {
	return s.treks.Find(ctx, store.Filter{}, nil)
}

// TrekUpdate carries a partial update. Nil pointers mean "not submitted";
// ImageURL and Highlights are only applied when a value is actually
// provided, so an update that omits them never clears them.
type TrekUpdate struct {
	Name             *string
	Location         *string
	SmallDescription *string
	Description      *string
	Difficulty       *string
	Distance         *float64
	BestSeason       *string
	ImageURL         string
	Highlights       []string
}

func (s *TrekService) Update(ctx context.Context, id string, in TrekUpdate) (*models.Trek, error) {
	tid, err := primitive.ObjectIDFromHex(id)
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

	if in.Name != nil {
		trek.Name = *in.Name
	}
	if in.Location != nil {
		trek.Location = *in.Location
	}
	if in.SmallDescription != nil {
		trek.SmallDescription = *in.SmallDescription
	}
	if in.Description != nil {
		trek.Description = *in.Description
	}
	if in.Difficulty != nil {
		difficulty := models.Difficulty(*in.Difficulty)
		if !models.ValidDifficulty(difficulty) {
			return nil, ErrInvalidDifficulty
		}
		trek.Difficulty = difficulty
	}
	if in.Distance != nil {
		trek.Distance = *in.Distance
	}
	if in.BestSeason != nil {
		trek.BestSeason = *in.BestSeason
	}
	if in.ImageURL != "" {
		trek.ImageURL = in.ImageURL
	}
	if in.Highlights != nil {
		trek.Highlights = in.Highlights
	}
	trek.UpdatedAt = s.now().UTC()

	if err := s.treks.Replace(ctx, tid, trek); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTrekNotFound
		}
		return nil, err
	}
	return trek, nil
}

// Delete removes a trek and, with it, its embedded reviews. Repeating the
// delete returns ErrTrekNotFound.
func (s *TrekService) Delete(ctx context.Context, id string) error {
	tid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrTrekNotFound
	}
	if err := s.treks.Delete(ctx, tid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTrekNotFound
		}
		return err
	}
	return nil
}
