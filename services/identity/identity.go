// Package identity talks to the managed identity provider: password and
// federated sign-in flows in, opaque accounts out. Provider error codes are
// translated into user-facing messages through a fixed table.
package identity

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/context"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// ProfileWriter creates the profile record that accompanies an account.
// Implemented by the user service; declared here so identity owns only the
// slice of it that registration needs.
type ProfileWriter interface {
	// CreateInitial writes the minimal profile for a fresh account.
	CreateInitial(ctx context.Context, account *Account, phone string) error
	// EnsureExists creates the profile only when absent, in one call.
	EnsureExists(ctx context.Context, account *Account) error
}

type Service interface {
	// Register creates an account, sets its display name, and writes the
	// initial profile record. If the profile write fails the account is
	// deleted again so no half-registered state is left behind.
	Register(ctx context.Context, email, password, displayName, phone string) (*Account, error)
	// Login exchanges credentials for an account or an *AuthError.
	Login(ctx context.Context, email, password string) (*Account, error)
	// LoginWithGoogle exchanges a Google ID token for an account. The
	// profile record is created if absent, idempotently.
	LoginWithGoogle(ctx context.Context, googleIDToken string) (*Account, error)
	// Logout clears the current session.
	Logout()
	// Current returns the signed-in account, or nil.
	Current() *Account
	// OnAuthStateChanged registers a listener fired with the new account
	// (nil on sign-out). The listener is invoked immediately with the
	// current state.
	OnAuthStateChanged(fn func(*Account))
}

type service struct {
	http     *resty.Client
	apiKey   string
	profiles ProfileWriter

	mu        sync.Mutex
	current   *Account
	listeners []func(*Account)
}

var _ Service = (*service)(nil)

// NewService builds an identity client. The resty client's base URL may be
// overridden for tests; unset, it points at the provider.
func NewService(client *resty.Client, apiKey string, profiles ProfileWriter) Service {
	if client.BaseURL == "" {
		client.SetBaseURL(defaultBaseURL)
	}
	return &service{
		http:     client,
		apiKey:   apiKey,
		profiles: profiles,
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName, phone string) (*Account, error) {
	if err := validateRegistration(email, password, displayName); err != nil {
		return nil, err
	}

	account, err := s.post(ctx, "/accounts:signUp", signUpRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}

	named, err := s.post(ctx, "/accounts:update", updateProfileRequest{
		IDToken:           account.IDToken,
		DisplayName:       displayName,
		ReturnSecureToken: true,
	})
	if err != nil {
		log.Warn().Str("uid", account.UID).Err(err).Msg("failed to set display name on new account")
	} else {
		account.DisplayName = named.DisplayName
		if named.IDToken != "" {
			account.IDToken = named.IDToken
		}
	}
	if account.DisplayName == "" {
		account.DisplayName = displayName
	}

	if err := s.profiles.CreateInitial(ctx, account, phone); err != nil {
		// Compensate: an account without a profile is a state nothing in
		// the app can recover from, so roll the registration back.
		if delErr := s.deleteAccount(ctx, account.IDToken); delErr != nil {
			log.Error().Str("uid", account.UID).Err(delErr).Msg("failed to roll back account after profile write failure")
		}
		return nil, fmt.Errorf("failed to create profile for new account: %w", err)
	}

	s.setCurrent(account)
	return account, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Account, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, &AuthError{Code: "MISSING_FIELDS", Message: "Email and password are required"}
	}
	account, err := s.post(ctx, "/accounts:signInWithPassword", signInRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, err
	}
	s.setCurrent(account)
	return account, nil
}

func (s *service) LoginWithGoogle(ctx context.Context, googleIDToken string) (*Account, error) {
	if strings.TrimSpace(googleIDToken) == "" {
		return nil, &AuthError{Code: "MISSING_FIELDS", Message: "A Google ID token is required"}
	}
	account, err := s.post(ctx, "/accounts:signInWithIdp", idpSignInRequest{
		PostBody:            "id_token=" + googleIDToken + "&providerId=google.com",
		RequestURI:          "http://localhost",
		ReturnSecureToken:   true,
		ReturnIdpCredential: true,
	})
	if err != nil {
		return nil, err
	}

	// Create-if-absent in one atomic call. Concurrent first logins both
	// land here; exactly one write wins and both succeed.
	if err := s.profiles.EnsureExists(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to ensure profile for federated login: %w", err)
	}

	s.setCurrent(account)
	return account, nil
}

func (s *service) Logout() {
	s.setCurrent(nil)
}

func (s *service) Current() *Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *service) OnAuthStateChanged(fn func(*Account)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	current := s.current
	s.mu.Unlock()
	fn(current)
}

// post runs one provider call with the typed result/error pair split resty
// gives us, translating provider error codes on the way out.
func (s *service) post(ctx context.Context, endpoint string, body any) (*Account, error) {
	account := &Account{}
	provErr := &providerError{}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(account).
		SetError(provErr).
		Post(endpoint)
	if err != nil {
		log.Error().Str("endpoint", endpoint).Err(err).Msg("identity provider call failed")
		return nil, err
	}
	if resp.IsError() {
		return nil, translate(provErr)
	}
	return account, nil
}

func (s *service) deleteAccount(ctx context.Context, idToken string) error {
	provErr := &providerError{}
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(deleteAccountRequest{IDToken: idToken}).
		SetError(provErr).
		Post("/accounts:delete")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.New(provErr.Error())
	}
	return nil
}

func (s *service) setCurrent(account *Account) {
	s.mu.Lock()
	s.current = account
	listeners := make([]func(*Account), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(account)
	}
}

// errorMessages maps provider error codes to the messages users see.
// Codes not listed here pass through with the raw provider message.
var errorMessages = map[string]string{
	"EMAIL_EXISTS":                "This email address is already registered",
	"EMAIL_NOT_FOUND":             "Invalid email or password",
	"INVALID_PASSWORD":            "Invalid email or password",
	"INVALID_LOGIN_CREDENTIALS":   "Invalid email or password",
	"INVALID_EMAIL":               "Enter a valid email address",
	"WEAK_PASSWORD":               "Password must be at least 6 characters",
	"TOO_MANY_ATTEMPTS_TRY_LATER": "Too many attempts, please try again later",
	"USER_DISABLED":               "This account has been disabled",
	"OPERATION_NOT_ALLOWED":       "This sign-in method is not enabled",
	"USER_CANCELLED":              "Sign-in was cancelled",
}

func translate(p *providerError) *AuthError {
	// Provider messages can carry a trailing detail ("WEAK_PASSWORD :
	// Password should be..."); the code is the first token.
	code := p.Err.Message
	if idx := strings.IndexAny(code, " :"); idx > 0 {
		code = code[:idx]
	}
	if msg, ok := errorMessages[code]; ok {
		return &AuthError{Code: code, Message: msg}
	}
	return &AuthError{Code: code, Message: p.Err.Message}
}

func validateRegistration(email, password, displayName string) error {
	if strings.TrimSpace(email) == "" || password == "" || strings.TrimSpace(displayName) == "" {
		return &AuthError{Code: "MISSING_FIELDS", Message: "Name, email and password are required"}
	}
	if !strings.Contains(email, "@") {
		return &AuthError{Code: "INVALID_EMAIL", Message: errorMessages["INVALID_EMAIL"]}
	}
	if len(password) < 6 {
		return &AuthError{Code: "WEAK_PASSWORD", Message: errorMessages["WEAK_PASSWORD"]}
	}
	return nil
}
