package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-ops/apperr"
	"hotel-ops/auth"
	"hotel-ops/models"
)

type stubResolver struct {
	token string
	user  *models.User
}

func (s stubResolver) Resolve(_ context.Context, raw string) (*models.User, *auth.Claims, error) {
	if raw != s.token {
		return nil, nil, apperr.Unauthorized("could not validate credentials")
	}
	return s.user, &auth.Claims{UserID: s.user.ID, Role: string(s.user.Role)}, nil
}

func newAuthRouter(resolver TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAuth(resolver))
	r.GET("/whoami", func(c *gin.Context) {
		user := CurrentUser(c)
		claims := CurrentClaims(c)
		c.JSON(http.StatusOK, gin.H{"username": user.Username, "claims_user": claims.UserID})
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: 7, Username: "desk", Role: models.RoleStaff}
	r := newAuthRouter(stubResolver{token: "good", user: user})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"bad token", "Bearer bad", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tt.status, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.status == http.StatusOK {
				assert.Equal(t, "desk", body["username"])
				assert.EqualValues(t, 7, body["claims_user"])
				return
			}
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, string(apperr.KindUnauthorized), body["code"])
		})
	}
}

func TestCurrentUserWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
	assert.Nil(t, CurrentClaims(c))
}
