package rbac

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"fundops_backend/internal/feature/auth/domain/entity"
	jwtmw "fundops_backend/internal/platform/jwt"
)

// TestMain sets Gin to test mode before running the tests.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// runGuard executes the middleware against a context carrying the given
// principal. A nil role leaves the role out of the context entirely; an
// empty userID leaves the principal out.
func runGuard(t *testing.T, guard gin.HandlerFunc, userID uint, role *entity.Role) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != 0 {
		c.Set(jwtmw.ContextUserID, userID)
	}
	if role != nil {
		c.Set(jwtmw.ContextRole, *role)
	}

	guard(c)
	return w
}

func rolePtr(r entity.Role) *entity.Role {
	return &r
}

func TestRequire_ExactRole(t *testing.T) {
	tests := []struct {
		name           string
		required       entity.Role
		principal      *entity.Role
		expectedStatus int
	}{
		{"admin passes admin-only", entity.RoleAdmin, rolePtr(entity.RoleAdmin), http.StatusOK},
		{"operator denied admin-only", entity.RoleAdmin, rolePtr(entity.RoleOperator), http.StatusForbidden},
		{"viewer denied admin-only", entity.RoleAdmin, rolePtr(entity.RoleViewer), http.StatusForbidden},
		{"admin denied viewer-only: exact means exact", entity.RoleViewer, rolePtr(entity.RoleAdmin), http.StatusForbidden},
		{"viewer passes viewer-only", entity.RoleViewer, rolePtr(entity.RoleViewer), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runGuard(t, RequireRole(tt.required), 1, tt.principal)

			status := w.Code
			if tt.expectedStatus == http.StatusOK && status != http.StatusOK {
				t.Errorf("expected pass, got status %d: %s", status, w.Body.String())
			}
			if tt.expectedStatus != http.StatusOK && status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
		})
	}
}

func TestRequire_MinRole(t *testing.T) {
	tests := []struct {
		name           string
		min            entity.Role
		principal      *entity.Role
		expectedStatus int
	}{
		{"viewer passes min viewer", entity.RoleViewer, rolePtr(entity.RoleViewer), http.StatusOK},
		{"operator passes min viewer", entity.RoleViewer, rolePtr(entity.RoleOperator), http.StatusOK},
		{"admin passes min viewer", entity.RoleViewer, rolePtr(entity.RoleAdmin), http.StatusOK},
		{"viewer denied min operator", entity.RoleOperator, rolePtr(entity.RoleViewer), http.StatusForbidden},
		{"operator passes min operator", entity.RoleOperator, rolePtr(entity.RoleOperator), http.StatusOK},
		{"operator denied min admin", entity.RoleAdmin, rolePtr(entity.RoleOperator), http.StatusForbidden},
		{"admin passes min admin", entity.RoleAdmin, rolePtr(entity.RoleAdmin), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runGuard(t, RequireMinRole(tt.min), 1, tt.principal)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestRequire_AnyRole(t *testing.T) {
	guard := RequireAnyRole(entity.RoleOperator, entity.RoleAdmin)

	tests := []struct {
		name           string
		principal      *entity.Role
		expectedStatus int
	}{
		{"operator in allow set", rolePtr(entity.RoleOperator), http.StatusOK},
		{"admin in allow set", rolePtr(entity.RoleAdmin), http.StatusOK},
		{"viewer outside allow set", rolePtr(entity.RoleViewer), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runGuard(t, guard, 1, tt.principal)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

// TestRequire_NoPrincipal verifies 401 when no authenticated principal exists.
func TestRequire_NoPrincipal(t *testing.T) {
	w := runGuard(t, RequireMinRole(entity.RoleViewer), 0, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

// TestRequire_UnknownRole verifies that an authenticated principal bearing an
// unknown role fails every check with 403.
func TestRequire_UnknownRole(t *testing.T) {
	guards := map[string]gin.HandlerFunc{
		"exact": RequireRole(entity.RoleViewer),
		"min":   RequireMinRole(entity.RoleViewer),
		"anyOf": RequireAnyRole(entity.RoleViewer, entity.RoleOperator, entity.RoleAdmin),
	}

	for name, guard := range guards {
		t.Run(name, func(t *testing.T) {
			w := runGuard(t, guard, 1, rolePtr(entity.Role("superuser")))

			if w.Code != http.StatusForbidden {
				t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
			}
		})
	}
}

// TestRequire_MissingRoleClaim verifies that an authenticated principal with
// no role in the context is denied with 403.
func TestRequire_MissingRoleClaim(t *testing.T) {
	w := runGuard(t, RequireMinRole(entity.RoleViewer), 1, nil)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}
}

// TestRequire_Misconfigured verifies that invalid options deny every request
// with 500, even for an admin principal.
func TestRequire_Misconfigured(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"no mode set", Options{}},
		{"two modes set", Options{Role: entity.RoleAdmin, MinRole: entity.RoleViewer}},
		{"all modes set", Options{Role: entity.RoleAdmin, MinRole: entity.RoleViewer, AnyOf: []entity.Role{entity.RoleOperator}}},
		{"unknown exact role", Options{Role: entity.Role("root")}},
		{"unknown minimum role", Options{MinRole: entity.Role("root")}},
		{"unknown role in allow set", Options{AnyOf: []entity.Role{entity.RoleAdmin, entity.Role("root")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := runGuard(t, Require(tt.opts), 1, rolePtr(entity.RoleAdmin))

			if w.Code != http.StatusInternalServerError {
				t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
			}
		})
	}
}

// TestRequire_PassesThroughToHandler verifies the wrapped handler runs after
// a successful check.
func TestRequire_PassesThroughToHandler(t *testing.T) {
	router := gin.New()
	called := false
	router.GET("/guarded",
		func(c *gin.Context) {
			c.Set(jwtmw.ContextUserID, uint(1))
			c.Set(jwtmw.ContextRole, entity.RoleOperator)
		},
		RequireMinRole(entity.RoleOperator),
		func(c *gin.Context) {
			called = true
			c.JSON(http.StatusOK, gin.H{"message": "ok"})
		},
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	router.ServeHTTP(w, req)

	if !called {
		t.Error("expected handler to be called")
	}
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
