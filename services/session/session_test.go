package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padec243-alt/Padec-Connect-sub000/services/identity"
	"github.com/padec243-alt/Padec-Connect-sub000/services/user"
)

// fakeIdentity drives auth-state changes by hand.
type fakeIdentity struct {
	listener func(*identity.Account)
	account  *identity.Account
}

func (f *fakeIdentity) Register(_ context.Context, _, _, _, _ string) (*identity.Account, error) {
	return nil, nil
}
func (f *fakeIdentity) Login(_ context.Context, _, _ string) (*identity.Account, error) {
	return nil, nil
}
func (f *fakeIdentity) LoginWithGoogle(_ context.Context, _ string) (*identity.Account, error) {
	return nil, nil
}
func (f *fakeIdentity) Logout()                    { f.emit(nil) }
func (f *fakeIdentity) Current() *identity.Account { return f.account }
func (f *fakeIdentity) OnAuthStateChanged(fn func(*identity.Account)) {
	f.listener = fn
	fn(f.account)
}
func (f *fakeIdentity) emit(a *identity.Account) {
	f.account = a
	if f.listener != nil {
		f.listener(a)
	}
}

type fakeUsers struct {
	profiles map[string]*user.Profile
	err      error
}

func (f *fakeUsers) Get(_ context.Context, uid string) (*user.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[uid]
	if !ok {
		return nil, user.NotFound
	}
	return p, nil
}
func (f *fakeUsers) CreateInitial(_ context.Context, _ *identity.Account, _ string) error { return nil }
func (f *fakeUsers) EnsureExists(_ context.Context, _ *identity.Account) error            { return nil }
func (f *fakeUsers) CompleteSetup(_ context.Context, _ string, _ user.Setup) error        { return nil }
func (f *fakeUsers) UpdateAvatar(_ context.Context, _, _, _ string) (string, error) {
	return "", nil
}

func TestStartsUnauthenticated(t *testing.T) {
	ids := &fakeIdentity{}
	svc := NewService(ids, &fakeUsers{})

	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, SetupIncomplete, svc.SetupState())
	account, profile := svc.Current()
	assert.Nil(t, account)
	assert.Nil(t, profile)
}

func TestLoginWithCompletedProfile(t *testing.T) {
	ids := &fakeIdentity{}
	users := &fakeUsers{profiles: map[string]*user.Profile{
		"uid-1": {UID: "uid-1", ProfileSetupCompleted: true},
	}}
	svc := NewService(ids, users)

	ids.emit(&identity.Account{UID: "uid-1", Email: "a@x.com"})

	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, SetupComplete, svc.SetupState())
	assert.False(t, svc.Loading())
	account, profile := svc.Current()
	require.NotNil(t, account)
	require.NotNil(t, profile)
	assert.Equal(t, "uid-1", profile.UID)
}

func TestLoginWithMissingProfileForcesSetup(t *testing.T) {
	ids := &fakeIdentity{}
	svc := NewService(ids, &fakeUsers{})

	ids.emit(&identity.Account{UID: "uid-new"})

	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, SetupIncomplete, svc.SetupState())
	assert.Empty(t, svc.Err(), "absence is not an error")
}

func TestProfileLoadFailureFailsOpen(t *testing.T) {
	ids := &fakeIdentity{}
	users := &fakeUsers{err: errors.New("backend unavailable")}
	svc := NewService(ids, users)

	ids.emit(&identity.Account{UID: "uid-1"})

	assert.True(t, svc.IsAuthenticated())
	assert.Equal(t, SetupIncomplete, svc.SetupState())
	assert.Equal(t, "backend unavailable", svc.Err())
}

func TestLogoutClearsSession(t *testing.T) {
	ids := &fakeIdentity{}
	users := &fakeUsers{profiles: map[string]*user.Profile{
		"uid-1": {UID: "uid-1", ProfileSetupCompleted: true},
	}}
	svc := NewService(ids, users)

	ids.emit(&identity.Account{UID: "uid-1"})
	require.True(t, svc.IsAuthenticated())

	ids.Logout()

	assert.False(t, svc.IsAuthenticated())
	assert.Equal(t, SetupIncomplete, svc.SetupState())
	account, profile := svc.Current()
	assert.Nil(t, account)
	assert.Nil(t, profile)
}

func TestRefreshPicksUpCompletedSetup(t *testing.T) {
	ids := &fakeIdentity{}
	users := &fakeUsers{profiles: map[string]*user.Profile{}}
	svc := NewService(ids, users)

	ids.emit(&identity.Account{UID: "uid-1"})
	require.Equal(t, SetupIncomplete, svc.SetupState())

	users.profiles["uid-1"] = &user.Profile{UID: "uid-1", ProfileSetupCompleted: true}
	svc.Refresh(context.Background())

	assert.Equal(t, SetupComplete, svc.SetupState())
}
