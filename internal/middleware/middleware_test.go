package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamarthKalavadia/hospital-management-system/internal/config"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

const secret = "access-secret"

func newRouter(log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(log), Recovery())

	private := r.Group("/", AuthMiddleware(secret))
	private.GET("/me", func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			utils.Unauthorized(c, "no actor")
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	private.GET("/doctors-only", RoleAuthMiddleware(models.RoleDoctor), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func tokenFor(t *testing.T, id string, role models.Role) string {
	t.Helper()
	cfg := &config.Config{JWTSecret: secret, JWTRefreshSecret: "refresh", JWTExpirationMinutes: 5, JWTRefreshExpirationHours: 1}
	access, _, err := utils.GenerateTokens(&models.User{BaseModel: models.BaseModel{ID: id}, Role: role}, cfg)
	require.NoError(t, err)
	return access
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(zerolog.Nop())

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid", "Bearer " + tokenFor(t, "patient-1", models.RolePatient), http.StatusOK},
		{"lowercase scheme", "bearer " + tokenFor(t, "patient-1", models.RolePatient), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRoleAuthMiddleware(t *testing.T) {
	r := newRouter(zerolog.Nop())

	for role, want := range map[models.Role]int{
		models.RoleDoctor:  http.StatusNoContent,
		models.RolePatient: http.StatusForbidden,
		models.RoleAdmin:   http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/doctors-only", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, "u-1", role))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(zerolog.New(&buf))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "doctor-9", models.RoleDoctor))
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"user_id":"doctor-9"`)
	assert.Contains(t, buf.String(), `"status":200`)

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "panic recovered")
}
