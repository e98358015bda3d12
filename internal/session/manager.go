package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// cookieClaims is the signed cookie payload. It carries only the opaque token.
type cookieClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager issues, resolves and destroys sessions for HTTP requests.
type Manager struct {
	store      Store
	secret     []byte
	cookieName string
	maxAge     time.Duration
	secure     bool
}

// ManagerConfig configures a Manager.
type ManagerConfig struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration // zero means a browser-session cookie
	Secure     bool
}

// NewManager creates a Manager backed by store.
func NewManager(store Store, cfg ManagerConfig) *Manager {
	return &Manager{
		store:      store,
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     cfg.Secure,
	}
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Start creates a session for user and sets the cookie on the response.
func (m *Manager) Start(c *gin.Context, user User) (string, error) {
	token := uuid.NewString()
	if err := m.store.Set(c.Request.Context(), token, user); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	value, err := m.sign(token)
	if err != nil {
		return "", err
	}
	m.setCookie(c, value, int(m.maxAge.Seconds()))
	return token, nil
}

// Load resolves the request's cookie into a session user. It returns ErrNotFound when
// the request carries no valid session.
func (m *Manager) Load(c *gin.Context) (*User, string, error) {
	value, err := c.Cookie(m.cookieName)
	if err != nil || value == "" {
		return nil, "", ErrNotFound
	}
	token, err := m.verify(value)
	if err != nil {
		return nil, "", ErrNotFound
	}
	user, err := m.store.Get(c.Request.Context(), token)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Destroy removes the session from the store and expires the cookie.
func (m *Manager) Destroy(c *gin.Context, token string) error {
	if err := m.store.Destroy(c.Request.Context(), token); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	m.setCookie(c, "", -1)
	return nil
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		m.cookieName, // Name
		value,        // Value
		maxAge,       // Max age in seconds
		"/",          // Path
		"",           // Domain (empty means current domain)
		m.secure,     // Secure (true in prod, false in dev)
		true,         // HTTP only
	)
}

func (m *Manager) sign(token string) (string, error) {
	claims := cookieClaims{
		SID: token,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if m.maxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(m.maxAge))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return signed, nil
}

func (m *Manager) verify(value string) (string, error) {
	claims := &cookieClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session cookie: %w", err)
	}
	if !token.Valid || claims.SID == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.SID, nil
}
