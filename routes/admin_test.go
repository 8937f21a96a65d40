package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sashicus/grandmoscow/storage"
	"github.com/sashicus/grandmoscow/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildAdminTestApp creates a minimal Iris app with the admin moderation
// routes, the JWT verifier and an in-memory store behind the services
func buildAdminTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	InitServices(storage.NewMemStore())

	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Post("/properties/{id:uint}/approve", AdminApproveProperty)
		admin.Post("/properties/{id:uint}/reject", AdminRejectProperty)
	}
	app.Build()
	return app
}

// signTestToken returns a signed JWT with the given role
func signTestToken(role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: 1, Role: role})
	return string(token)
}

func TestAdminModerationRBAC(t *testing.T) {
	app := buildAdminTestApp()

	// No token -> rejected by the verifier
	req := httptest.NewRequest(http.MethodPost, "/api/admin/properties/1/approve", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Client role -> 403
	req2 := httptest.NewRequest(http.MethodPost, "/api/admin/properties/1/approve", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken("client"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client role, got %d", resp2.Code)
	}

	// Realtor role -> 403 as well
	req3 := httptest.NewRequest(http.MethodPost, "/api/admin/properties/1/reject", strings.NewReader(`{"notes":"no"}`))
	req3.Header.Set("Authorization", "Bearer "+signTestToken("realtor"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for realtor role, got %d", resp3.Code)
	}

	// Admin role passes the boundary; the store is empty so the property is missing
	req4 := httptest.NewRequest(http.MethodPost, "/api/admin/properties/1/approve", nil)
	req4.Header.Set("Authorization", "Bearer "+signTestToken("admin"))
	resp4 := httptest.NewRecorder()
	app.ServeHTTP(resp4, req4)
	if resp4.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for admin on missing property, got %d", resp4.Code)
	}
}
