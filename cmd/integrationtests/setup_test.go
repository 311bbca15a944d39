package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"hidden-market/internal/feed"
	"hidden-market/internal/livepush"
	market "hidden-market/internal/marketService"
	model "hidden-market/internal/models"
	"hidden-market/internal/objectstore"
	"hidden-market/internal/repository"
	"hidden-market/internal/server"
	"hidden-market/internal/session"
	"hidden-market/services/market/handler"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// TestEnv is a fully wired in-memory market
type TestEnv struct {
	Router   *gin.Engine
	Store    *repository.Publishing
	Broker   *feed.MemoryBroker
	Sessions *session.Manager
}

// User is one signed-in tab
type User struct {
	Token   string
	Session model.Session
}

// SetupTestEnv wires memory store, memory feed, a temp object bucket and the
// session manager behind the router, the way main does.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	broker := feed.NewMemoryBroker()
	store := repository.NewPublishing(repository.NewMemoryRepo(), broker)

	objectDir := t.TempDir()
	bucket, err := objectstore.NewDirBucket(objectDir, "/objects")
	require.NoError(t, err)

	var sessions *session.Manager
	hub := livepush.NewHub(func(sessionID string) int {
		if c, ok := sessions.Lookup(sessionID); ok {
			return c.Notifications.Len()
		}
		return 0
	})
	sessions = session.NewManager(ctx, []byte("integration-secret"), store, broker, hub)

	h := handler.NewMarketHandler(market.NewMarketService(store, bucket), sessions, hub)
	router := server.SetupRouter(h, sessions, objectDir, "/objects")

	t.Cleanup(func() {
		sessions.Shutdown()
		cancel()
		broker.Close()
	})
	return &TestEnv{Router: router, Store: store, Broker: broker, Sessions: sessions}
}

// Login signs a new user in. Users in one test never share an identity.
func (e *TestEnv) Login(t *testing.T, others ...User) User {
	t.Helper()
	for {
		resp, w := e.Do(t, User{}, http.MethodPost, "/session/login", nil)
		require.Equal(t, 201, w.Code)

		data := resp["data"].(map[string]any)
		sess := data["session"].(map[string]any)
		u := User{
			Token: data["token"].(string),
			Session: model.Session{
				SessionID: sess["session_id"].(string),
				UserID:    sess["user_id"].(string),
			},
		}
		if !takenBy(u.Session.UserID, others) {
			return u
		}
		e.Do(t, u, http.MethodPost, "/session/logout", nil)
	}
}

func takenBy(userID string, users []User) bool {
	for _, o := range users {
		if o.Session.UserID == userID {
			return true
		}
	}
	return false
}

// Do executes a JSON request as u and parses the response envelope
func (e *TestEnv) Do(t *testing.T, u User, method, target string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	return e.serve(t, u, req)
}

// PostForm submits form fields as u
func (e *TestEnv) PostForm(t *testing.T, u User, target string, form url.Values) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.serve(t, u, req)
}

func (e *TestEnv) serve(t *testing.T, u User, req *http.Request) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()
	if u.Token != "" {
		req.Header.Set("Authorization", "Bearer "+u.Token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}
