package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/toma828/HinaBaby/internal/app/models"
	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories"
	"github.com/toma828/HinaBaby/internal/pkg/auth"
)

// CurrentUserKey is the gin context key holding the resolved account
const CurrentUserKey = "currentUser"

// AuthMiddleware authenticates requests and gates routes by role
type AuthMiddleware struct {
	jwtService *auth.JWTService
	userRepo   repositories.IUserRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, userRepo repositories.IUserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		userRepo:   userRepo,
	}
}

// RequireAuth validates the bearer token and resolves its subject to an
// active account, which is stored on the context. The token alone is
// not enough: the embedded identity must still map to an account that
// exists and has not been deactivated.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Invalid token")
			return
		}

		user, err := m.userRepo.GetByUsername(c.Request.Context(), claims.Username)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Failed to resolve account")))
			return
		}
		if user == nil {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Account no longer exists")
			return
		}
		if !user.IsActive {
			abortUnauthorized(c, dto.ErrorCodeAccountDisabled, "Account is disabled")
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// TeacherRequired gates a route to teacher accounts. Must run after
// RequireAuth.
func (m *AuthMiddleware) TeacherRequired() gin.HandlerFunc {
	return m.roleRequired(models.RoleTeacher, "Only teachers can perform this action")
}

// StudentRequired gates a route to student accounts. Must run after
// RequireAuth.
func (m *AuthMiddleware) StudentRequired() gin.HandlerFunc {
	return m.roleRequired(models.RoleStudent, "Teachers cannot upload videos")
}

func (m *AuthMiddleware) roleRequired(role models.RoleType, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}
		if user.RoleType != role {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeForbidden, message)))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated account from the gin context,
// or nil when the request is unauthenticated.
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(CurrentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
