package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hidden-market/internal/clientstate"
	"hidden-market/internal/marketerrors"
	model "hidden-market/internal/models"
	"hidden-market/internal/session"
	"hidden-market/services/market/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// stubRestorer accepts exactly one token
type stubRestorer struct {
	valid  string
	client *clientstate.Client
	err    error
}

func (s stubRestorer) Restore(_ context.Context, token string) (*clientstate.Client, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != s.valid {
		return nil, fmt.Errorf("stub: %w", marketerrors.ErrUnauthenticated)
	}
	return s.client, nil
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	client := clientstate.NewClient(nil, model.Session{SessionID: "s1", UserID: "me"})

	tests := []struct {
		name     string
		restorer stubRestorer
		prepare  func(r *http.Request)
		target   string
		status   int
	}{
		{
			name:     "bearer_header",
			restorer: stubRestorer{valid: "tok", client: client},
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok") },
			status:   http.StatusOK,
		},
		{
			name:     "lowercase_bearer",
			restorer: stubRestorer{valid: "tok", client: client},
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "bearer tok") },
			status:   http.StatusOK,
		},
		{
			name:     "cookie",
			restorer: stubRestorer{valid: "tok", client: client},
			prepare:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"}) },
			status:   http.StatusOK,
		},
		{
			name:     "query_for_websocket",
			restorer: stubRestorer{valid: "tok", client: client},
			target:   "/?token=tok",
			status:   http.StatusOK,
		},
		{
			name:     "header_beats_cookie",
			restorer: stubRestorer{valid: "tok", client: client},
			prepare: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer stale")
				r.AddCookie(&http.Cookie{Name: session.CookieName, Value: "tok"})
			},
			status: http.StatusUnauthorized,
		},
		{
			name:     "missing",
			restorer: stubRestorer{valid: "tok", client: client},
			status:   http.StatusUnauthorized,
		},
		{
			name:     "restore_failure",
			restorer: stubRestorer{err: errors.New("feed down")},
			prepare:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok") },
			status:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/", SessionMiddleware(tt.restorer), func(c *gin.Context) {
				got, sid, ok := helpers.ClientFrom(c)
				require.True(t, ok)
				require.Same(t, client, got)
				require.Equal(t, "s1", sid)
				c.Status(http.StatusOK)
			})

			target := tt.target
			if target == "" {
				target = "/"
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.prepare != nil {
				tt.prepare(req)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				require.Contains(t, w.Body.String(), "로그인이 필요합니다.")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", bearerToken("Bearer abc"))
	require.Equal(t, "abc", bearerToken("BEARER  abc "))
	require.Empty(t, bearerToken("Basic abc"))
	require.Empty(t, bearerToken("Bearer "))
	require.Empty(t, bearerToken(""))
}
