package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"hidden-market/internal/clientstate"
	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"
	"hidden-market/utils"

	"github.com/golang-jwt/jwt/v4"
)

const (
	// CookieName is the browser-session cookie carrying the token
	CookieName = "hidden_session"

	tokenTTL   = 24 * time.Hour
	avatarBase = "https://api.dicebear.com/7.x/adventurer/svg?seed="
)

// Claims is what the tab keeps to restore its session without signing in again
type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	AvatarURL string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// Notifier is told about every change event a session's router applied
type Notifier interface {
	Notify(sessionID string, ev model.ChangeEvent)
}

// Manager owns one application-state container per signed-in tab
type Manager struct {
	secret   []byte
	backend  clientstate.Backend
	feed     clientstate.Subscriber
	notifier Notifier
	baseCtx  context.Context
	now      func() time.Time

	mu      sync.Mutex
	clients map[string]*clientstate.Client
	// ended holds logged-out session ids until every token naming them has expired
	ended map[string]time.Time
}

// NewManager creates a session manager. Clients it starts live until
// Logout, Shutdown, or cancellation of ctx.
func NewManager(ctx context.Context, secret []byte, backend clientstate.Backend, feed clientstate.Subscriber, notifier Notifier) *Manager {
	return &Manager{
		secret:   secret,
		backend:  backend,
		feed:     feed,
		notifier: notifier,
		baseCtx:  ctx,
		now:      time.Now,
		clients:  make(map[string]*clientstate.Client),
		ended:    make(map[string]time.Time),
	}
}

// Login signs a new visitor in with a generated identity and avatar
func (m *Manager) Login(ctx context.Context) (string, model.Session, error) {
	userID := fmt.Sprintf("User_%d", rand.Intn(10000))
	sess := model.Session{
		SessionID: utils.GenerateID(),
		UserID:    userID,
		AvatarURL: avatarBase + userID,
	}

	if _, err := m.attach(ctx, sess); err != nil {
		return "", model.Session{}, err
	}
	token, err := m.Issue(sess)
	if err != nil {
		m.Logout(sess.SessionID)
		return "", model.Session{}, err
	}

	utils.Info("session: signed in", map[string]any{"session_id": sess.SessionID, "user_id": userID})
	return token, sess, nil
}

// Issue signs a token for sess
func (m *Manager) Issue(sess model.Session) (string, error) {
	now := m.now()
	claims := Claims{
		SessionID: sess.SessionID,
		UserID:    sess.UserID,
		AvatarURL: sess.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("session: sign token: %w", err)
	}
	return token, nil
}

// Parse validates a token and returns the session it names
func (m *Manager) Parse(token string) (model.Session, error) {
	tok, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return model.Session{}, fmt.Errorf("session: %w: %v", marketerrors.ErrUnauthenticated, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || !utils.IsID(claims.SessionID) || claims.UserID == "" {
		return model.Session{}, fmt.Errorf("session: %w: invalid claims", marketerrors.ErrUnauthenticated)
	}
	if m.loggedOut(claims.SessionID) {
		return model.Session{}, fmt.Errorf("session: %w: session %s was logged out", marketerrors.ErrUnauthenticated, claims.SessionID)
	}
	return model.Session{SessionID: claims.SessionID, UserID: claims.UserID, AvatarURL: claims.AvatarURL}, nil
}

func (m *Manager) loggedOut(sessionID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endedLocked(sessionID)
}

func (m *Manager) endedLocked(sessionID string) bool {
	until, ok := m.ended[sessionID]
	return ok && m.now().Before(until)
}

// Restore returns the client of the session in token. A valid token whose
// client is gone (reload after a restart) gets a fresh client; a token of a
// logged-out session is refused.
func (m *Manager) Restore(ctx context.Context, token string) (*clientstate.Client, error) {
	sess, err := m.Parse(token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	c, ok := m.clients[sess.SessionID]
	m.mu.Unlock()
	if ok {
		return c, nil
	}

	utils.Info("session: restoring from token", map[string]any{"session_id": sess.SessionID, "user_id": sess.UserID})
	return m.attach(ctx, sess)
}

// Lookup returns the live client of a session id
func (m *Manager) Lookup(sessionID string) (*clientstate.Client, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[sessionID]
	return c, ok
}

// attach creates, starts and loads a client for sess
func (m *Manager) attach(ctx context.Context, sess model.Session) (*clientstate.Client, error) {
	m.mu.Lock()
	if c, ok := m.clients[sess.SessionID]; ok {
		m.mu.Unlock()
		return c, nil
	}
	if m.endedLocked(sess.SessionID) {
		m.mu.Unlock()
		return nil, fmt.Errorf("session: %w: session %s was logged out", marketerrors.ErrUnauthenticated, sess.SessionID)
	}
	c := clientstate.NewClient(m.backend, sess)
	m.clients[sess.SessionID] = c
	m.mu.Unlock()

	var observers []clientstate.Observer
	if m.notifier != nil {
		sid := sess.SessionID
		observers = append(observers, func(ev model.ChangeEvent) { m.notifier.Notify(sid, ev) })
	}
	if err := c.Start(m.baseCtx, m.feed, observers...); err != nil {
		m.mu.Lock()
		delete(m.clients, sess.SessionID)
		m.mu.Unlock()
		return nil, fmt.Errorf("session: start client: %w", err)
	}

	if err := c.RefreshCatalog(ctx); err != nil {
		utils.Warn("session: initial catalog load failed", map[string]any{"session_id": sess.SessionID, "error": err.Error()})
	}
	if err := c.Chat.RefreshPartners(ctx, sess.UserID); err != nil {
		utils.Warn("session: initial chat load failed", map[string]any{"session_id": sess.SessionID, "error": err.Error()})
	}
	return c, nil
}

// Logout tears the session down and releases its feed subscription. Tokens
// already handed out for the session are refused from now on.
func (m *Manager) Logout(sessionID string) {
	now := m.now()
	m.mu.Lock()
	c, ok := m.clients[sessionID]
	delete(m.clients, sessionID)
	for id, until := range m.ended {
		if !now.Before(until) {
			delete(m.ended, id)
		}
	}
	// no token for the session can outlive one issued right now
	m.ended[sessionID] = now.Add(tokenTTL)
	m.mu.Unlock()

	if !ok {
		return
	}
	c.Reset()
	utils.Info("session: signed out", map[string]any{"session_id": sessionID})
}

// Active reports how many sessions have a live client
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Shutdown stops every client
func (m *Manager) Shutdown() {
	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]*clientstate.Client)
	m.mu.Unlock()

	for _, c := range clients {
		c.Stop()
	}
}

// IsUnauthenticated reports whether err means the request carried no usable session
func IsUnauthenticated(err error) bool {
	return errors.Is(err, marketerrors.ErrUnauthenticated)
}
