package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/structs"
	"github.com/rs/zerolog/log"

	"github.com/padec243-alt/Padec-Connect-sub000/services/blob"
	"github.com/padec243-alt/Padec-Connect-sub000/services/docstore"
	"github.com/padec243-alt/Padec-Connect-sub000/services/identity"
	"github.com/padec243-alt/Padec-Connect-sub000/utils"
)

type Service interface {
	// Get returns the profile for a UID, or NotFound.
	Get(ctx context.Context, uid string) (*Profile, error)
	// CreateInitial writes the minimal profile that accompanies a fresh
	// account. profileSetupCompleted starts false so routing lands on
	// onboarding.
	CreateInitial(ctx context.Context, account *identity.Account, phone string) error
	// EnsureExists creates the profile only when absent, atomically. Safe
	// under concurrent first logins.
	EnsureExists(ctx context.Context, account *identity.Account) error
	// CompleteSetup merges the onboarding form into the profile and marks
	// setup complete.
	CompleteSetup(ctx context.Context, uid string, setup Setup) error
	// UpdateAvatar uploads a base64 image and stores its URL on the profile.
	UpdateAvatar(ctx context.Context, uid string, imageBase64 string, format string) (string, error)
}

type userService struct {
	db    docstore.Store
	blobs blob.Service
}

var _ Service = (*userService)(nil)
var _ identity.ProfileWriter = (*userService)(nil)

const userCollection = "users"

func NewService(db docstore.Store, blobs blob.Service) Service {
	return &userService{db: db, blobs: blobs}
}

var NotFound = errors.New("profile not found")

func (s *userService) Get(ctx context.Context, uid string) (*Profile, error) {
	doc, err := s.db.GetByID(ctx, userCollection, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	if doc == nil {
		return nil, NotFound
	}
	profile := &Profile{}
	if err := utils.DecodeInto(doc, profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile %s: %w", uid, err)
	}
	profile.UID = uid
	return profile, nil
}

func (s *userService) CreateInitial(ctx context.Context, account *identity.Account, phone string) error {
	if account == nil || account.UID == "" {
		return errors.New("account is missing a uid")
	}
	doc, err := utils.EncodeToMap(initialProfile(account, phone))
	if err != nil {
		return err
	}
	if err := s.db.Set(ctx, userCollection, account.UID, doc, false); err != nil {
		return fmt.Errorf("failed to write initial profile: %w", err)
	}
	return nil
}

func (s *userService) EnsureExists(ctx context.Context, account *identity.Account) error {
	if account == nil || account.UID == "" {
		return errors.New("account is missing a uid")
	}
	doc, err := utils.EncodeToMap(initialProfile(account, ""))
	if err != nil {
		return err
	}
	err = s.db.Create(ctx, userCollection, account.UID, doc)
	if errors.Is(err, docstore.ErrExists) {
		// Another first login won the race; that is exactly what we want.
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

func (s *userService) CompleteSetup(ctx context.Context, uid string, setup Setup) error {
	if uid == "" {
		return errors.New("uid is required")
	}
	fields := structs.Map(setup)
	fields["profileSetupCompleted"] = true
	if err := s.db.Set(ctx, userCollection, uid, fields, true); err != nil {
		return fmt.Errorf("failed to complete profile setup: %w", err)
	}
	log.Info().Str("uid", uid).Msg("profile setup completed")
	return nil
}

func (s *userService) UpdateAvatar(ctx context.Context, uid string, imageBase64 string, format string) (string, error) {
	if uid == "" {
		return "", errors.New("uid is required")
	}
	if format == "" {
		format = "jpeg"
	}
	path := fmt.Sprintf("profiles/%s/avatar.%s", uid, extension(format))
	url, err := s.blobs.UploadBase64(ctx, path, imageBase64, format)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	if err := s.db.Set(ctx, userCollection, uid, docstore.Document{
		"profilePictureUrl": url,
	}, true); err != nil {
		return "", fmt.Errorf("failed to store avatar url: %w", err)
	}
	return url, nil
}

func initialProfile(account *identity.Account, phone string) Profile {
	return Profile{
		UID:                   account.UID,
		Email:                 account.Email,
		DisplayName:           account.DisplayName,
		Phone:                 phone,
		ProfilePictureURL:     account.PhotoURL,
		ProfileSetupCompleted: false,
		CreatedAt:             time.Now(),
	}
}

func extension(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return format
}
