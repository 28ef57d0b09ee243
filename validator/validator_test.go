package validator

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T, uid, email string) string {
	t.Helper()
	tok := jwt.New()
	require.NoError(t, tok.Set(jwt.SubjectKey, uid))
	require.NoError(t, tok.Set("user_id", uid))
	require.NoError(t, tok.Set("email", email))
	require.NoError(t, tok.Set(jwt.ExpirationKey, time.Now().Add(time.Hour)))
	signed, err := jwt.Sign(tok, jwa.HS256, []byte("test-secret"))
	require.NoError(t, err)
	return string(signed)
}

func TestGetJWSFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, err := GetJWSFromRequest(req)
	assert.ErrorIs(t, err, ErrNoAuthHeader)

	req.Header.Set("Authorization", "Basic abc")
	_, err = GetJWSFromRequest(req)
	assert.ErrorIs(t, err, ErrInvalidAuthHeader)

	req.Header.Set("Authorization", "Bearer token-value")
	raw, err := GetJWSFromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "token-value", raw)
}

func TestParseAccess(t *testing.T) {
	raw := mintToken(t, "uid-123", "jane@example.com")

	ac, err := ParseAccess(raw)
	require.NoError(t, err)
	assert.Equal(t, "uid-123", ac.UID)
	assert.Equal(t, "jane@example.com", ac.Email)
	assert.Equal(t, raw, ac.Token)

	_, err = ParseAccess("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/me", RequireAuth(), func(c *gin.Context) {
		ac, ok := FromContext(c)
		require.True(t, ok)
		c.JSON(200, gin.H{"uid": ac.UID})
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/me", nil)
	router.ServeHTTP(rec, req)
	assert.Equal(t, 401, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "uid-123", "jane@example.com"))
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "uid-123")
}
