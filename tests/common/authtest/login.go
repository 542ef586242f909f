//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"advisory-market/internal/handler/dto/request"
	"advisory-market/internal/handler/dto/response"
	"advisory-market/tests/common/dbtest"
	"advisory-market/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// LoginUser authenticates through the HTTP surface and returns the
// bearer access token from the login body.
func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body response.LoginResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
	require.NotEmpty(t, body.Tokens.AccessToken, "access token missing from login response")

	return body.Tokens.AccessToken
}

// CreateAndLogin seeds a user then logs in, returning the user ID and token.
func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) (uuid.UUID, string) {
	t.Helper()

	userID := dbtest.CreateTestUser(t, db, email, role)
	return userID, LoginUser(t, router, email, "password123")
}
