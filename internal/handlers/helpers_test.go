package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/SamarthKalavadia/hospital-management-system/internal/config"
	"github.com/SamarthKalavadia/hospital-management-system/internal/middleware"
	"github.com/SamarthKalavadia/hospital-management-system/internal/models"
	"github.com/SamarthKalavadia/hospital-management-system/internal/utils"
)

const testSecret = "handler-test-secret"

var (
	doctor  = models.Actor{ID: "doctor-1", Role: models.RoleDoctor}
	patient = models.Actor{ID: "patient-1", Role: models.RolePatient}
	admin   = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
)

// newTestRouter returns a router whose authenticated group accepts tokens
// minted by do.
func newTestRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, r.Group("/", middleware.AuthMiddleware(testSecret))
}

type response struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// do sends a request as actor (or anonymously for a zero actor) and decodes
// the standard envelope when the reply is JSON.
func do(t *testing.T, r http.Handler, actor models.Actor, method, path string, body any) (*httptest.ResponseRecorder, response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor.ID != "" {
		cfg := &config.Config{JWTSecret: testSecret, JWTRefreshSecret: "refresh", JWTExpirationMinutes: 5, JWTRefreshExpirationHours: 1}
		access, _, err := utils.GenerateTokens(&models.User{BaseModel: models.BaseModel{ID: actor.ID}, Role: actor.Role}, cfg)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+access)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out response
	if ct := w.Header().Get("Content-Type"); len(ct) >= 16 && ct[:16] == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}
