package middlewares

import (
	"context"
	"errors"
	"slices"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const (
	tokenLocal   = "token"
	sessionLocal = "session"
	userLocal    = "user"
)

type userService interface {
	EnsureProfile(ctx context.Context, session dto.Session) (*entity.User, error)
}

type Handler struct {
	userService userService
	secret      []byte
	logger      *types.Logger
}

func New(s *server.Server) *Handler {
	userStorage := postgres.NewUserStorage(s.DB)

	return &Handler{
		userService: service.NewUserService(s.Logger, userStorage, s.Rows),
		secret:      []byte(viper.GetString("service.auth.jwt-secret")),
		logger:      s.Logger,
	}
}

// Authorized verifies the bearer token (or the token query parameter used by
// websocket clients), loads the caller's profile and stores the session.
func (h Handler) Authorized() fiber.Handler {
	if len(h.secret) == 0 {
		h.logger.Panic("service.auth.jwt-secret is not set")
	}
	return jwtware.New(jwtware.Config{
		SigningKey:     jwtware.SigningKey{Key: h.secret},
		ContextKey:     tokenLocal,
		TokenLookup:    "header:Authorization,query:token",
		ErrorHandler:   jwtError,
		SuccessHandler: h.loadProfile,
	})
}

func (h Handler) loadProfile(c *fiber.Ctx) error {
	token, ok := c.Locals(tokenLocal).(*jwt.Token)
	if !ok {
		return response.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", errorz.Unauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return response.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", errorz.Unauthorized)
	}
	session := SessionFromClaims(claims)
	if session.Anonymous() {
		return response.HandleError(c, fiber.StatusUnauthorized, "User ID missing in token", errorz.Unauthorized)
	}

	user, err := h.userService.EnsureProfile(c.UserContext(), session)
	if err != nil {
		return response.Error(c, err, "Failed to load profile")
	}
	// the stored role wins over whatever the token claims
	session.Role = user.Role
	c.Locals(sessionLocal, session)
	c.Locals(userLocal, user)
	return c.Next()
}

// SessionFromClaims reads the standard subject and the Supabase style
// user_metadata claims.
func SessionFromClaims(claims jwt.MapClaims) dto.Session {
	session := dto.Session{}
	session.UserID, _ = claims["sub"].(string)
	session.Email, _ = claims["email"].(string)
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		session.Name, _ = meta["full_name"].(string)
		if role, ok := meta["role"].(string); ok {
			session.Role = entity.Role(role)
		}
	}
	if name, ok := claims["name"].(string); ok && session.Name == "" {
		session.Name = name
	}
	return session
}

func jwtError(c *fiber.Ctx, err error) error {
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		return response.HandleError(c, fiber.StatusBadRequest, "Missing or malformed JWT", err)
	}
	return response.HandleError(c, fiber.StatusUnauthorized, "Invalid or expired JWT", err)
}

// RequireRole lets through sessions with one of roles. Admins always pass.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := Session(c)
		if session.IsAdmin() || slices.Contains(roles, session.Role) {
			return c.Next()
		}
		return response.HandleError(c, fiber.StatusForbidden, "Insufficient permissions", errorz.Forbidden)
	}
}

// Session returns the caller of the request, empty for public routes.
func Session(c *fiber.Ctx) dto.Session {
	session, _ := c.Locals(sessionLocal).(dto.Session)
	return session
}

// User returns the profile loaded by Authorized.
func User(c *fiber.Ctx) *entity.User {
	user, _ := c.Locals(userLocal).(*entity.User)
	return user
}

// WithSession is used by tests and internal callers to act as a user.
func WithSession(session dto.Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(sessionLocal, session)
		return c.Next()
	}
}
