package middlewares

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

type fakeUsers struct {
	role entity.Role
}

func (f fakeUsers) EnsureProfile(_ context.Context, session dto.Session) (*entity.User, error) {
	return &entity.User{ID: session.UserID, Email: session.Email, Role: f.role}, nil
}

func sign(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func newApp(role entity.Role) *fiber.App {
	h := Handler{userService: fakeUsers{role: role}, secret: testSecret, logger: logger.Nop()}
	app := fiber.New()
	app.Use(h.Authorized())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(Session(c))
	})
	app.Get("/admin", RequireRole(entity.Admin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func status(t *testing.T, app *fiber.App, path, token string) int {
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestSessionFromClaims(t *testing.T) {
	session := SessionFromClaims(jwt.MapClaims{
		"sub":   "u1",
		"email": "asha@campus.edu",
		"user_metadata": map[string]interface{}{
			"full_name": "Asha Rao",
			"role":      "club_organizer",
		},
	})
	assert.Equal(t, "u1", session.UserID)
	assert.Equal(t, "asha@campus.edu", session.Email)
	assert.Equal(t, "Asha Rao", session.Name)
	assert.Equal(t, entity.ClubOrganizer, session.Role)

	session = SessionFromClaims(jwt.MapClaims{"sub": "u2", "name": "Ravi"})
	assert.Equal(t, "Ravi", session.Name)
	assert.Empty(t, session.Role)
}

func TestAuthorized(t *testing.T) {
	app := newApp(entity.Student)
	valid := sign(t, testSecret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()})

	assert.Equal(t, fiber.StatusOK, status(t, app, "/whoami", valid))
	assert.Equal(t, fiber.StatusBadRequest, status(t, app, "/whoami", ""))

	forged := sign(t, []byte("other-secret"), jwt.MapClaims{"sub": "u1"})
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "/whoami", forged))

	anonymous := sign(t, testSecret, jwt.MapClaims{"email": "asha@campus.edu"})
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "/whoami", anonymous))
}

func TestStoredRoleWinsOverClaim(t *testing.T) {
	token := sign(t, testSecret, jwt.MapClaims{
		"sub":           "u1",
		"user_metadata": map[string]interface{}{"role": "admin"},
	})

	assert.Equal(t, fiber.StatusForbidden, status(t, newApp(entity.Student), "/admin", token))
	assert.Equal(t, fiber.StatusNoContent, status(t, newApp(entity.Admin), "/admin", token))
}
