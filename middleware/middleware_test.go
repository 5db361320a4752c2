package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"munaybol/constants"
	apperrors "munaybol/errors"
	"munaybol/response"
	"munaybol/services"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens(t *testing.T) *services.TokenService {
	t.Helper()
	return services.NewTokenService("access-secret", "refresh-secret")
}

func token(t *testing.T, tokens *services.TokenService, id uint, role string, access bool) string {
	t.Helper()
	tok, err := tokens.GenerateToken(services.UserInfo{UserId: id, Role: role}, access)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func whoami(c *gin.Context) {
	a := Actor(c)
	c.JSON(http.StatusOK, gin.H{"id": a.UserID, "role": a.Role})
}

func do(r http.Handler, method, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	r := gin.New()
	r.GET("/any", AuthMiddleware(tokens), whoami)
	r.GET("/admin", AuthMiddleware(tokens, constants.RoleSuperAdmin), whoami)

	user := "Bearer " + token(t, tokens, 4, constants.RoleUser, true)
	admin := "Bearer " + token(t, tokens, 1, constants.RoleSuperAdmin, true)

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
		code   apperrors.ErrorCode
	}{
		{"no header", "/any", "", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"not bearer", "/any", "Token abc", http.StatusUnauthorized, apperrors.ErrCodeUnauthorized},
		{"garbage", "/any", "Bearer abc.def.ghi", http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"refresh as access", "/any", "Bearer " + token(t, tokens, 4, constants.RoleUser, false), http.StatusUnauthorized, apperrors.ErrCodeInvalidToken},
		{"user", "/any", user, http.StatusOK, ""},
		{"lowercase scheme", "/any", "bearer " + token(t, tokens, 4, constants.RoleUser, true), http.StatusOK, ""},
		{"user on admin route", "/admin", user, http.StatusForbidden, apperrors.ErrCodeForbidden},
		{"admin", "/admin", admin, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, tt.auth)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if tt.code != "" {
				if body := decode(t, w); body.Error != string(tt.code) || body.Code != 0 {
					t.Fatalf("body = %+v, want error %s", body, tt.code)
				}
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	tokens := newTokens(t)
	r := gin.New()
	r.GET("/", OptionalAuthMiddleware(tokens), whoami)

	w := do(r, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || w.Body.String() != `{"id":0,"role":""}` {
		t.Fatalf("anonymous: %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/", "Bearer "+token(t, tokens, 9, constants.RoleUser, true))
	if w.Code != http.StatusOK || w.Body.String() != `{"id":9,"role":"usuario"}` {
		t.Fatalf("authenticated: %d %s", w.Code, w.Body.String())
	}

	if w := do(r, http.MethodGet, "/", "Bearer roto"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", w.Code)
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/missing", func(c *gin.Context) {
		c.Error(apperrors.NotFound("Hotel no encontrado."))
		c.Abort()
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Error(apperrors.DB(http.ErrHandlerTimeout))
		c.Abort()
	})
	r.GET("/answered", func(c *gin.Context) {
		c.Error(apperrors.Forbidden())
		response.Success(c, "ok")
	})

	w := do(r, http.MethodGet, "/missing", "")
	if body := decode(t, w); w.Code != http.StatusNotFound || body.Mess != "Hotel no encontrado." || body.Error != string(apperrors.ErrCodeDBNotFound) {
		t.Fatalf("missing: %d %+v", w.Code, body)
	}

	w = do(r, http.MethodGet, "/boom", "")
	if body := decode(t, w); w.Code != http.StatusInternalServerError || body.Error != "" {
		t.Fatalf("db errors must not leak: %d %+v", w.Code, body)
	}

	if w := do(r, http.MethodGet, "/answered", ""); w.Code != http.StatusOK {
		t.Fatalf("answered: status %d", w.Code)
	}
}

func TestSessionMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/", SessionMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c))
	})

	w := do(r, http.MethodGet, "/", "")
	minted := w.Header().Get("X-Session-ID")
	if _, err := uuid.Parse(minted); err != nil || w.Body.String() != minted {
		t.Fatalf("minted session %q body %q", minted, w.Body.String())
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-ID", id)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != id {
		t.Fatalf("session = %q, want %q", w.Body.String(), id)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Session-ID", "no-uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() == "no-uuid" {
		t.Fatal("malformed session id was accepted")
	}
}
