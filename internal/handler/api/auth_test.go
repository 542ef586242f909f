//go:build unit

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"advisory-market/internal/domain/user"
	"advisory-market/internal/handler/api"
	resdto "advisory-market/internal/handler/dto/response"
	"advisory-market/internal/usecase/commands"
	"advisory-market/internal/usecase/queries"
	"advisory-market/tests/common/httptest"
	"advisory-market/tests/common/testutil"
	commandsmock "advisory-market/tests/mock/commands"
	queriesmock "advisory-market/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockCtrl         *gomock.Controller
	mockAuthCommands *commandsmock.MockAuthCommands
	mockUserCommands *commandsmock.MockUserCommands
	mockUserQueries  *queriesmock.MockUserQueries
	handler          *api.AuthHandler

	actorID uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockAuthCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockUserCommands = commandsmock.NewMockUserCommands(s.mockCtrl)
	s.mockUserQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockAuthCommands, s.mockUserCommands, s.mockUserQueries)
	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.actorID)
		c.Set("user_role", user.RoleAdmin)
		c.Next()
	}

	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/refresh", s.handler.Refresh)
	s.router.GET("/auth/me", authMiddleware, s.handler.Me)
	s.router.POST("/auth/register", authMiddleware, s.handler.Register)
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) loginBody() map[string]any {
	return testutil.DtoMap(s.T(), map[string]any{
		"email":    "advisor@example.com",
		"password": "correct-horse",
	})
}

func (s *AuthHandlerTestSuite) registerBody() map[string]any {
	return testutil.DtoMap(s.T(), map[string]any{
		"name":     "New Advisor",
		"email":    "new.advisor@example.com",
		"password": "long-enough",
		"role":     "advisor",
	})
}

// ================================================================================
// TestLogin
// ================================================================================

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	s.Run("success: returns user identity and a token pair", func() {
		userID := uuid.New()
		s.mockAuthCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(&commands.LoginResult{
				UserID: userID,
				Role:   user.RoleAdvisor,
				TokenPair: &commands.TokenPair{
					AccessToken:  "access-token",
					RefreshToken: "refresh-token",
				},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.loginBody(), "")

		var body resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(userID, body.UserID)
		s.Equal("advisor", body.Role)
		s.Equal("access-token", body.Tokens.AccessToken)
		s.Equal("refresh-token", body.Tokens.RefreshToken)
	})

	s.Run("error: 400 on malformed body", func() {
		for _, tc := range []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing email", mutate: testutil.Field("email", nil)},
			{name: "invalid email", mutate: testutil.Field("email", "not-an-email")},
			{name: "missing password", mutate: testutil.Field("password", nil)},
			{name: "password too short", mutate: testutil.Field("password", "short")},
		} {
			s.Run(tc.name, func() {
				body := s.loginBody()
				tc.mutate(body)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 401 on bad credentials without leaking the cause", func() {
		for _, tc := range []struct {
			name          string
			commandsError error
		}{
			{name: "unknown user", commandsError: commands.ErrUserNotFound},
			{name: "wrong password", commandsError: commands.ErrInvalidCredentials},
			{name: "deactivated user", commandsError: commands.ErrUserInactive},
		} {
			s.Run(tc.name, func() {
				s.mockAuthCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.loginBody(), "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
			})
		}
	})

	s.Run("error: 500 on unexpected failure", func() {
		s.mockAuthCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("token signing failed")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.loginBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestRefresh
// ================================================================================

func (s *AuthHandlerTestSuite) TestRefresh() {
	url := "/auth/refresh"

	s.Run("success: returns a fresh token pair", func() {
		s.mockAuthCommands.EXPECT().RefreshToken(gomock.Any(), "old-refresh-token").
			Return(&commands.TokenPair{
				AccessToken:  "new-access-token",
				RefreshToken: "new-refresh-token",
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refresh_token": "old-refresh-token"}, "")

		var body resdto.TokenPairResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("new-access-token", body.AccessToken)
		s.Equal("new-refresh-token", body.RefreshToken)
	})

	s.Run("error: 400 when the refresh token is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 401 when the refresh token is rejected", func() {
		s.mockAuthCommands.EXPECT().RefreshToken(gomock.Any(), "stale-token").
			Return(nil, commands.ErrTokenValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"refresh_token": "stale-token"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired refresh token")
	})
}

// ================================================================================
// TestMe
// ================================================================================

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: returns the authenticated user's profile", func() {
		advisorID := uuid.New()
		s.mockUserQueries.EXPECT().GetCurrentUser(gomock.Any(), s.actorID).
			Return(&queries.AuthorizedUserView{
				ID:        s.actorID,
				Name:      "Ana Souza",
				Email:     "ana@example.com",
				Role:      "investor",
				AdvisorID: &advisorID,
				IsActive:  true,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var body resdto.CurrentUserResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(s.actorID, body.ID)
		s.Equal("Ana Souza", body.Name)
		s.Equal("investor", body.Role)
		s.Require().NotNil(body.AdvisorID)
		s.Equal(advisorID, *body.AdvisorID)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 401 when the token's user no longer exists or is inactive", func() {
		for _, tc := range []struct {
			name         string
			queriesError error
		}{
			{name: "user deleted", queriesError: queries.ErrUserNotFound},
			{name: "user deactivated", queriesError: queries.ErrUserInactive},
		} {
			s.Run(tc.name, func() {
				s.mockUserQueries.EXPECT().GetCurrentUser(gomock.Any(), s.actorID).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "User not found or inactive")
			})
		}
	})
}

// ================================================================================
// TestRegister
// ================================================================================

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"

	s.Run("success: returns 201 with the new user's id", func() {
		newID := uuid.New()
		s.mockUserCommands.EXPECT().
			Register(gomock.Any(), gomock.Any(), s.actorID, user.RoleAdmin).
			Return(newID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.registerBody(), "bearer-token")

		var body resdto.RegisteredResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(newID, body.ID)
	})

	s.Run("success: forwards the requested role to the command", func() {
		s.mockUserCommands.EXPECT().
			Register(gomock.Any(), gomock.Any(), s.actorID, user.RoleAdmin).
			DoAndReturn(func(_ context.Context, p commands.RegisterUserParams, _ uuid.UUID, _ user.Role) (uuid.UUID, error) {
				s.Equal(user.RoleInvestor, p.Role)
				s.Equal("new.investor@example.com", p.Email)
				return uuid.New(), nil
			}).Times(1)

		body := s.registerBody()
		testutil.Field("role", "investor")(body)
		testutil.Field("email", "new.investor@example.com")(body)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")

		var resp resdto.RegisteredResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &resp)
	})

	s.Run("error: 400 on malformed body", func() {
		for _, tc := range []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing name", mutate: testutil.Field("name", nil)},
			{name: "invalid email", mutate: testutil.Field("email", "nope")},
			{name: "password too short", mutate: testutil.Field("password", "short")},
			{name: "unknown role", mutate: testutil.Field("role", "superuser")},
		} {
			s.Run(tc.name, func() {
				body := s.registerBody()
				tc.mutate(body)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.registerBody(), "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps registration failures to proper statuses", func() {
		testCases := []struct {
			name            string
			commandsError   error
			expectedStatus  int
			expectedMessage string
		}{
			{
				name:            "role not allowed for actor",
				commandsError:   commands.ErrRoleNotAllowed,
				expectedStatus:  http.StatusForbidden,
				expectedMessage: "Not allowed to register this role",
			},
			{
				name:            "email already registered",
				commandsError:   commands.ErrEmailTaken,
				expectedStatus:  http.StatusConflict,
				expectedMessage: "Email already registered",
			},
			{
				name:            "invalid user data",
				commandsError:   commands.ErrInvalidUserData,
				expectedStatus:  http.StatusBadRequest,
				expectedMessage: "Invalid user data",
			},
			{
				name:            "unexpected failure",
				commandsError:   errors.New("db down"),
				expectedStatus:  http.StatusInternalServerError,
				expectedMessage: "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockUserCommands.EXPECT().
					Register(gomock.Any(), gomock.Any(), s.actorID, user.RoleAdmin).
					Return(uuid.Nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, s.registerBody(), "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMessage)
			})
		}
	})
}
