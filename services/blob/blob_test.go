package blob

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	s := &service{bucket: "padec-connect-media"}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"plain path", "profiles/u1/avatar.jpg", "https://storage.googleapis.com/padec-connect-media/profiles/u1/avatar.jpg"},
		{"leading slash stripped", "/profiles/u1/avatar.jpg", "https://storage.googleapis.com/padec-connect-media/profiles/u1/avatar.jpg"},
		{"surrounding whitespace", "  events/banner.png ", "https://storage.googleapis.com/padec-connect-media/events/banner.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.URL(tt.path))
		})
	}
}

func TestDecodePayload(t *testing.T) {
	raw := []byte{0xff, 0xd8, 0xff, 0xe0}
	encoded := base64.StdEncoding.EncodeToString(raw)

	t.Run("bare base64", func(t *testing.T) {
		got, err := decodePayload(encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("data url prefix", func(t *testing.T) {
		got, err := decodePayload("data:image/jpeg;base64," + encoded)
		require.NoError(t, err)
		assert.Equal(t, raw, got)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, err := decodePayload("%%%not-base64%%%")
		assert.Error(t, err)
	})
}

func TestNewServiceRequiresBucket(t *testing.T) {
	_, err := NewService(nil, "  ")
	assert.Error(t, err)
}
