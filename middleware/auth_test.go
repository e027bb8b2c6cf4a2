package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/developersajeeb/code-stack-server/models"
	"github.com/developersajeeb/code-stack-server/store/memstore"
	"github.com/developersajeeb/code-stack-server/utils"
)

const testSecret = "middleware-secret"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newGate(t *testing.T) (*gin.Engine, *utils.TokenService, *memstore.Store) {
	t.Helper()
	tokens, err := utils.NewTokenService(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	st := memstore.New()

	r := gin.New()
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(utils.EmailKey)})
	}
	r.GET("/me", Auth(tokens), whoami)
	r.GET("/admin", Auth(tokens), RequireAdmin(st), whoami)
	return r, tokens, st
}

func get(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	r, _, _ := newGate(t)

	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc", "Bearer not-a-jwt"} {
		resp := get(r, "/me", header)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestAuthExpiredLooksLikeInvalid(t *testing.T) {
	r, _, _ := newGate(t)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "a@x.com",
		"exp":   time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	expiredResp := get(r, "/me", "Bearer "+expired)
	invalidResp := get(r, "/me", "Bearer garbage")
	if expiredResp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", expiredResp.Code)
	}
	if expiredResp.Body.String() != invalidResp.Body.String() {
		t.Fatalf("expired and invalid responses differ: %s vs %s", expiredResp.Body, invalidResp.Body)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r, tokens, _ := newGate(t)

	token, err := tokens.Issue("a@x.com", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	resp := get(r, "/me", "Bearer "+token)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp.Body.String() != `{"email":"a@x.com"}` {
		t.Fatalf("unexpected body %s", resp.Body)
	}
}

func TestRequireAdmin(t *testing.T) {
	r, tokens, st := newGate(t)
	ctx := context.Background()

	adminID, err := st.CreateUser(ctx, &models.User{Email: "admin@x.com", Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if _, err := st.CreateUser(ctx, &models.User{Email: "user@x.com", Role: models.RoleNormalUser}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	bearer := func(email string) string {
		token, err := tokens.Issue(email, nil)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return "Bearer " + token
	}

	if resp := get(r, "/admin", bearer("admin@x.com")); resp.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", resp.Code)
	}
	if resp := get(r, "/admin", bearer("user@x.com")); resp.Code != http.StatusForbidden {
		t.Fatalf("normal user: expected 403, got %d", resp.Code)
	}
	if resp := get(r, "/admin", bearer("ghost@x.com")); resp.Code != http.StatusForbidden {
		t.Fatalf("unknown user: expected 403, got %d", resp.Code)
	}
	if resp := get(r, "/admin", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", resp.Code)
	}

	// The same token loses access as soon as the role changes.
	adminBearer := bearer("admin@x.com")
	if _, err := st.SetUserRole(ctx, adminID, models.RoleNormalUser); err != nil {
		t.Fatalf("demote: %v", err)
	}
	if resp := get(r, "/admin", adminBearer); resp.Code != http.StatusForbidden {
		t.Fatalf("demoted admin: expected 403, got %d", resp.Code)
	}
}
