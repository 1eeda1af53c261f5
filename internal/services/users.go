package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trailbook/trailbook-backend/internal/models"
	"github.com/trailbook/trailbook-backend/internal/store"
	"github.com/trailbook/trailbook-backend/pkg/utils"
)

// UserService owns user records and password verification.
type UserService struct {
	users store.Collection[models.User]
}

func NewUserService(users store.Collection[models.User]) *UserService {
	return &UserService{users: users}
}

type RegisterInput struct {
	Username        string
	Password        string
	Email           string
	ProfileImageURL string
}

// Register creates a user with a hashed password. Username and email must
// be unused; the plaintext password is never stored.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Username == "" || in.Password == "" || in.Email == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.users.FindOne(ctx, store.Filter{"username": in.Username}); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if _, err := s.users.FindOne(ctx, store.Filter{"email": in.Email}); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:               primitive.NewObjectID(),
		Username:         in.Username,
		Password:         hashed,
		Email:            in.Email,
		ProfileImageURL:  in.ProfileImageURL,
		SavedJournals:    []primitive.ObjectID{},
		FavoriteJournals: []primitive.ObjectID{},
	}
	if err := s.users.Insert(ctx, &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return &user, nil
}

// Verify checks username and password. Unknown username and wrong password
// are indistinguishable to the caller.
func (s *UserService) Verify(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindOne(ctx, store.Filter{"username": username})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	user, err := s.users.Get(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// List returns all users. Passwords are excluded at the JSON layer.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.Find(ctx, store.Filter{}, nil)
}

type ProfileUpdate struct {
	Username        string
	Bio             string
	Location        string
	ProfileImageURL string
}

// UpdateProfile applies only the fields present in the update; empty values
// never overwrite stored ones.
func (s *UserService) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.users.Get(ctx, oid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Bio != "" {
		user.Bio = in.Bio
	}
	if in.Location != "" {
		user.Location = in.Location
	}
	if in.ProfileImageURL != "" {
		user.ProfileImageURL = in.ProfileImageURL
	}

	if err := s.users.Replace(ctx, oid, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Journals and reviews referencing the user are
// intentionally left alone.
func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidUserID
	}
	if err := s.users.Delete(ctx, oid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
