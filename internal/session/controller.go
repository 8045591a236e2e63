package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/upstream"
)

// ErrSessionExpired is returned when the stored refresh token is missing or
// rejected. Callers redirect to login when they see it.
var ErrSessionExpired = errors.New("session expired, log in again")

// Controller is the authentication state machine over anonymous and
// authenticated. It owns the token pair and user profile for one console
// session and the upstream client bound to them.
type Controller struct {
	client *upstream.Client
	store  *Store
	log    zerolog.Logger

	mu   sync.Mutex
	sess Session
}

// NewController loads the persisted session for key and returns a
// controller whose upstream client attaches the session's bearer token.
func NewController(backendURL string, store *Store, key string, log zerolog.Logger) (*Controller, error) {
	sess, err := store.Get(key)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		store: store,
		log:   log.With().Str("component", "auth").Logger(),
		sess:  sess,
	}

	client, err := upstream.New(backendURL, upstream.WithToken(c.Token), upstream.WithLogger(c.log))
	if err != nil {
		return nil, err
	}
	c.client = client

	return c, nil
}

// Client returns the upstream client bound to this session's token.
func (c *Controller) Client() *upstream.Client {
	return c.client
}

// Token returns the current access token, or "" when anonymous.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.AccessToken
}

// IsAuthenticated reports whether an access token is present. This is a
// presence check only: it does not verify validity or expiry, so callers
// must treat a 401 from an authenticated call as the source of truth and
// refresh reactively.
func (c *Controller) IsAuthenticated() bool {
	return c.Token() != ""
}

// User returns the cached user profile.
func (c *Controller) User() (models.User, bool) {
	c.mu.Lock()
	raw := c.sess.User
	c.mu.Unlock()

	if raw == "" {
		return models.User{}, false
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return models.User{}, false
	}

	return user, true
}

// ActiveEntity returns the persisted active entity id.
func (c *Controller) ActiveEntity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.ActiveEntity
}

// SetActiveEntity persists the active entity selection.
func (c *Controller) SetActiveEntity(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.ActiveEntity = id
	return c.store.Put(c.sess)
}

// Credentials are the login credentials.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access  string          `json:"access"`
	Refresh string          `json:"refresh"`
	User    json.RawMessage `json:"user"`
}

// Login exchanges credentials for a token pair. On success the session
// transitions to authenticated and is persisted; on failure it stays
// anonymous and the APIError is surfaced.
func (c *Controller) Login(ctx context.Context, credentials Credentials) error {
	var resp tokenResponse
	if err := c.client.Post(ctx, upstream.PathToken, credentials, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.AccessToken = resp.Access
	if resp.Refresh != "" {
		c.sess.RefreshToken = resp.Refresh
	}
	if len(resp.User) > 0 {
		c.sess.User = string(resp.User)
	}

	c.log.Info().Msg("logged in")
	return c.store.Put(c.sess)
}

// Logout invalidates the server-side session best-effort and clears all
// local state unconditionally. Logging out never fails.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.client.Post(ctx, upstream.PathLogout, nil, nil); err != nil {
		c.log.Debug().Err(err).Msg("server-side logout failed, clearing local session anyway")
	}

	c.clear()
	c.log.Info().Msg("logged out")
}

// Refresh exchanges the stored refresh token for a new access token. Only
// the access token is replaced on success. On failure the entire session is
// cleared and the error is re-raised so the caller can redirect to login.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	refreshToken := c.sess.RefreshToken
	c.mu.Unlock()

	if refreshToken == "" {
		c.clear()
		return ErrSessionExpired
	}

	var resp tokenResponse
	err := c.client.Post(ctx, upstream.PathTokenRefresh, map[string]string{"refresh": refreshToken}, &resp)
	if err != nil {
		c.clear()
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.sess.AccessToken = resp.Access
	return c.store.Put(c.sess)
}

func (c *Controller) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(c.sess.Key); err != nil {
		c.log.Error().Err(err).Msg("failed to delete persisted session")
	}

	c.sess = Session{Key: c.sess.Key}
}

// Registration is the payload for creating a new account.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Register creates a new account and returns the created profile.
func (c *Controller) Register(ctx context.Context, registration Registration) (models.User, error) {
	var user models.User
	if err := c.client.Post(ctx, upstream.PathUsers, registration, &user); err != nil {
		return models.User{}, err
	}

	return user, nil
}

// ActivateAccount confirms an account with the uid/token pair from the
// activation mail.
func (c *Controller) ActivateAccount(ctx context.Context, uid, token string) error {
	payload := map[string]string{"uid": uid, "token": token}
	return c.client.Post(ctx, upstream.PathActivation, payload, nil)
}

// RequestPasswordReset asks the backend to send a reset mail.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	return c.client.Post(ctx, upstream.PathResetPassword, map[string]string{"email": email}, nil)
}

// ResetPasswordConfirm sets a new password using the uid/token pair from
// the reset mail.
func (c *Controller) ResetPasswordConfirm(ctx context.Context, uid, token, newPassword string) error {
	payload := map[string]string{
		"uid":          uid,
		"token":        token,
		"new_password": newPassword,
	}
	return c.client.Post(ctx, upstream.PathResetPasswordConfirm, payload, nil)
}

// SetPassword changes the password of the authenticated user.
func (c *Controller) SetPassword(ctx context.Context, currentPassword, newPassword string) error {
	payload := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.client.Post(ctx, upstream.PathSetPassword, payload, nil)
}
