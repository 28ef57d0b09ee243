package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padec243-alt/Padec-Connect-sub000/services/docstore"
	"github.com/padec243-alt/Padec-Connect-sub000/services/identity"
)

type fakeBlobs struct {
	uploads map[string]string
}

func (f *fakeBlobs) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	return f.record(path), nil
}

func (f *fakeBlobs) UploadBase64(_ context.Context, path string, _ string, _ string) (string, error) {
	return f.record(path), nil
}

func (f *fakeBlobs) URL(path string) string { return "https://blobs.test/" + path }

func (f *fakeBlobs) Delete(_ context.Context, _ string) error { return nil }

func (f *fakeBlobs) List(_ context.Context, _ string) ([]string, error) { return nil, nil }

func (f *fakeBlobs) record(path string) string {
	if f.uploads == nil {
		f.uploads = map[string]string{}
	}
	url := f.URL(path)
	f.uploads[path] = url
	return url
}

func newTestService() (Service, docstore.Store) {
	db := docstore.NewMemory()
	return NewService(db, &fakeBlobs{}), db
}

func TestGetMissingProfile(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, NotFound)
}

func TestCreateInitial(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	account := &identity.Account{UID: "uid-1", Email: "a@x.com", DisplayName: "A"}
	require.NoError(t, svc.CreateInitial(ctx, account, "+351123"))

	profile, err := svc.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "A", profile.DisplayName)
	assert.Equal(t, "a@x.com", profile.Email)
	assert.Equal(t, "+351123", profile.Phone)
	assert.False(t, profile.ProfileSetupCompleted)
}

func TestEnsureExistsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	account := &identity.Account{UID: "uid-g", Email: "g@x.com", DisplayName: "G"}
	require.NoError(t, svc.EnsureExists(ctx, account))

	// A second first-login must not touch the stored profile.
	require.NoError(t, svc.CompleteSetup(ctx, "uid-g", Setup{Country: "PT"}))
	require.NoError(t, svc.EnsureExists(ctx, account))

	profile, err := svc.Get(ctx, "uid-g")
	require.NoError(t, err)
	assert.Equal(t, "PT", profile.Country)
	assert.True(t, profile.ProfileSetupCompleted)
}

func TestCompleteSetup(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	account := &identity.Account{UID: "uid-1", Email: "a@x.com", DisplayName: "A"}
	require.NoError(t, svc.CreateInitial(ctx, account, ""))
	require.NoError(t, svc.CompleteSetup(ctx, "uid-1", Setup{
		Phone:       "+351123",
		Country:     "Portugal",
		City:        "Lisbon",
		Nationality: "Angolan",
	}))

	profile, err := svc.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.True(t, profile.ProfileSetupCompleted)
	assert.Equal(t, "Lisbon", profile.City)
	assert.Equal(t, "a@x.com", profile.Email, "fields outside the form survive the merge")
}

func TestUpdateAvatar(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	account := &identity.Account{UID: "uid-1", Email: "a@x.com"}
	require.NoError(t, svc.CreateInitial(ctx, account, ""))

	url, err := svc.UpdateAvatar(ctx, "uid-1", "aW1hZ2U=", "jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/profiles/uid-1/avatar.jpg", url)

	profile, err := svc.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, url, profile.ProfilePictureURL)
}
