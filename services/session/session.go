// Package session observes identity-state changes and keeps the associated
// profile record loaded alongside them.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/padec243-alt/Padec-Connect-sub000/services/identity"
	"github.com/padec243-alt/Padec-Connect-sub000/services/user"
)

// SetupState is the tri-state answer to "has this user finished
// onboarding": unknown while the profile is loading, else a boolean.
type SetupState int

const (
	SetupUnknown SetupState = iota
	SetupIncomplete
	SetupComplete
)

type Service interface {
	// Current returns the signed-in account and its profile. Either may be
	// nil: no account means unauthenticated, no profile means it is still
	// loading or failed to load.
	Current() (*identity.Account, *user.Profile)
	Loading() bool
	// Err is the last profile-load error message, empty when none. A
	// missing profile is not an error.
	Err() string
	IsAuthenticated() bool
	SetupState() SetupState
	// Refresh reloads the profile for the current account, e.g. after
	// onboarding completes.
	Refresh(ctx context.Context)
}

type service struct {
	users user.Service

	mu      sync.Mutex
	account *identity.Account
	profile *user.Profile
	loading bool
	errMsg  string
}

var _ Service = (*service)(nil)

// NewService wires the observer to the identity client's auth-state stream.
func NewService(ids identity.Service, users user.Service) Service {
	s := &service{users: users}
	ids.OnAuthStateChanged(s.onAuthStateChanged)
	return s
}

func (s *service) onAuthStateChanged(account *identity.Account) {
	s.mu.Lock()
	s.account = account
	s.profile = nil
	s.errMsg = ""
	if account == nil {
		s.loading = false
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	s.loadProfile(context.Background(), account.UID)
}

func (s *service) loadProfile(ctx context.Context, uid string) {
	profile, err := s.users.Get(ctx, uid)

	s.mu.Lock()
	defer s.mu.Unlock()
	// The session may have changed underneath the fetch; drop stale results.
	if s.account == nil || s.account.UID != uid {
		return
	}
	s.loading = false
	if err != nil {
		s.profile = nil
		if !errors.Is(err, user.NotFound) {
			// Fail open: an unreadable profile forces onboarding rather
			// than blocking login.
			s.errMsg = err.Error()
			log.Warn().Str("uid", uid).Err(err).Msg("failed to load profile, treating setup as incomplete")
		}
		return
	}
	s.profile = profile
}

func (s *service) Current() (*identity.Account, *user.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account, s.profile
}

func (s *service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *service) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *service) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account != nil
}

func (s *service) SetupState() SetupState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return SetupIncomplete
	}
	if s.loading {
		return SetupUnknown
	}
	if s.profile != nil && s.profile.ProfileSetupCompleted {
		return SetupComplete
	}
	return SetupIncomplete
}

func (s *service) Refresh(ctx context.Context) {
	s.mu.Lock()
	account := s.account
	if account == nil {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	s.loadProfile(ctx, account.UID)
}
