package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/internal/models"
	"github.com/membergate/member-portal/internal/service"
	"github.com/redis/go-redis/v9"
)

func guardClaims(role models.Role, status models.Status) *service.Claims {
	return &service.Claims{
		UserID: "user-1",
		Email:  "a@x.com",
		Name:   "Alice",
		Role:   role,
		Status: status,
	}
}

// =============================================================================
// Decide (pure decision function)
// =============================================================================

func TestDecide(t *testing.T) {
	cfg := DefaultGuardConfig()

	tests := []struct {
		name         string
		claims       *service.Claims
		path         string
		wantAllow    bool
		wantRedirect string
	}{
		{
			name:         "no session on protected path redirects to sign-in with callback",
			claims:       nil,
			path:         "/dashboard",
			wantRedirect: "/login?callbackUrl=" + url.QueryEscape("/dashboard"),
		},
		{
			name:         "no session on nested protected path keeps full callback",
			claims:       nil,
			path:         "/dashboard/members",
			wantRedirect: "/login?callbackUrl=" + url.QueryEscape("/dashboard/members"),
		},
		{
			name:      "no session on public path allowed",
			claims:    nil,
			path:      "/",
			wantAllow: true,
		},
		{
			name:      "approved member on dashboard allowed",
			claims:    guardClaims(models.RoleMember, models.StatusApproved),
			path:      "/dashboard",
			wantAllow: true,
		},
		{
			name:         "pending member confined to public pages",
			claims:       guardClaims(models.RoleMember, models.StatusPending),
			path:         "/dashboard",
			wantRedirect: "/",
		},
		{
			name:      "pending member still reaches home",
			claims:    guardClaims(models.RoleMember, models.StatusPending),
			path:      "/",
			wantAllow: true,
		},
		{
			name:      "pending member still reaches sign-out",
			claims:    guardClaims(models.RoleMember, models.StatusPending),
			path:      "/logout",
			wantAllow: true,
		},
		{
			name:         "rejected member confined to public pages",
			claims:       guardClaims(models.RoleMember, models.StatusRejected),
			path:         "/dashboard/members",
			wantRedirect: "/",
		},
		{
			name:      "blocked member is not confined by the status rule",
			claims:    guardClaims(models.RoleMember, models.StatusBlocked),
			path:      "/dashboard",
			wantAllow: true,
		},
		{
			name:         "member on admin path redirects to dashboard",
			claims:       guardClaims(models.RoleMember, models.StatusApproved),
			path:         "/dashboard/members",
			wantRedirect: "/dashboard",
		},
		{
			name:      "super admin on admin path allowed",
			claims:    guardClaims(models.RoleSuperAdmin, models.StatusApproved),
			path:      "/dashboard/members",
			wantAllow: true,
		},
		{
			name:      "session on unguarded path allowed",
			claims:    guardClaims(models.RoleMember, models.StatusApproved),
			path:      "/health",
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(cfg, tt.claims, tt.path)
			if got.Allow != tt.wantAllow {
				t.Errorf("Allow = %v, want %v", got.Allow, tt.wantAllow)
			}
			if got.RedirectTo != tt.wantRedirect {
				t.Errorf("RedirectTo = %q, want %q", got.RedirectTo, tt.wantRedirect)
			}
		})
	}
}

// Decisions are recomputed per request from the claims alone; there is
// no state to leak between calls.
func TestDecide_Stateless(t *testing.T) {
	cfg := DefaultGuardConfig()
	admin := guardClaims(models.RoleSuperAdmin, models.StatusApproved)

	if got := Decide(cfg, admin, "/dashboard/members"); !got.Allow {
		t.Fatalf("admin decision = %+v, want allow", got)
	}
	if got := Decide(cfg, nil, "/dashboard/members"); got.Allow {
		t.Fatalf("anonymous decision after admin = %+v, want redirect", got)
	}
}

// =============================================================================
// Guard middleware
// =============================================================================

// testCookie is a minimal SessionCookie for middleware tests.
type testCookie struct{}

func (testCookie) Get(c *gin.Context) string {
	token, err := c.Cookie("session_token")
	if err != nil {
		return ""
	}
	return token
}

func (testCookie) Set(c *gin.Context, token string, maxAge time.Duration) {
	c.SetCookie("session_token", token, int(maxAge.Seconds()), "/", "", false, true)
}

func setupGuardRouter(t *testing.T) (*gin.Engine, service.SessionService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sessions, err := service.NewSessionService(
		"this-is-a-test-secret-with-32-bytes!", time.Hour, 24*time.Hour, client,
	)
	if err != nil {
		t.Fatalf("Failed to create session service: %v", err)
	}

	router := gin.New()
	router.Use(Guard(DefaultGuardConfig(), sessions, testCookie{}))
	router.GET("/dashboard", func(c *gin.Context) {
		claims := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID})
	})
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router, sessions
}

func TestGuard_RedirectsAnonymous(t *testing.T) {
	router, _ := setupGuardRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", w.Code)
	}
	want := "/login?callbackUrl=" + url.QueryEscape("/dashboard")
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestGuard_AdmitsValidSession(t *testing.T) {
	router, sessions := setupGuardRouter(t)

	token, err := sessions.Issue(&service.Identity{
		ID: "user-1", Email: "a@x.com", Name: "Alice",
		Role: models.RoleMember, Status: models.StatusApproved,
	})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestGuard_TreatsRevokedSessionAsAbsent(t *testing.T) {
	router, sessions := setupGuardRouter(t)

	token, _ := sessions.Issue(&service.Identity{
		ID: "user-1", Email: "a@x.com", Name: "Alice",
		Role: models.RoleMember, Status: models.StatusApproved,
	})
	claims := sessions.Decode(t.Context(), token)
	if err := sessions.Invalidate(t.Context(), claims); err != nil {
		t.Fatalf("Invalidate() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want 302 redirect for revoked session", w.Code)
	}
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api", RequireSession(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
