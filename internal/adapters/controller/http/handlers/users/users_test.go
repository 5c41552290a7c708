package users

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	userService
	roles map[string]entity.Role
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	return int64(len(f.roles)), nil
}

func (f *fakeUsers) SetRole(_ context.Context, _ dto.Session, userID string, role entity.Role) error {
	f.roles[userID] = role
	return nil
}

func newApp(fake *fakeUsers, role entity.Role) *fiber.App {
	app := fiber.New()
	app.Use(middlewares.WithSession(dto.Session{UserID: "u1", Role: role}))
	(&Handler{userService: fake, logger: logger.Nop()}).Setup(app.Group("/api/v1"))
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestAdminRoutesRejectOtherRoles(t *testing.T) {
	fake := &fakeUsers{roles: map[string]entity.Role{"u2": entity.Student}}

	for _, role := range []entity.Role{entity.Student, entity.ClubOrganizer} {
		app := newApp(fake, role)

		code, _ := call(t, app, fiber.MethodGet, "/api/v1/users/count", "")
		assert.Equal(t, fiber.StatusForbidden, code, role)

		code, _ = call(t, app, fiber.MethodPut, "/api/v1/users/u2/role", `{"role":"admin"}`)
		assert.Equal(t, fiber.StatusForbidden, code, role)
	}
	assert.Equal(t, entity.Student, fake.roles["u2"])
}

func TestCount(t *testing.T) {
	fake := &fakeUsers{roles: map[string]entity.Role{"u1": entity.Admin, "u2": entity.Student}}

	code, out := call(t, newApp(fake, entity.Admin), fiber.MethodGet, "/api/v1/users/count", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, map[string]any{"count": float64(2)}, out["data"])
}

func TestSetRole(t *testing.T) {
	fake := &fakeUsers{roles: map[string]entity.Role{"u2": entity.Student}}
	app := newApp(fake, entity.Admin)

	code, out := call(t, app, fiber.MethodPut, "/api/v1/users/u2/role", `{"role":"club_organizer"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Role updated", out["message"])
	assert.Equal(t, entity.ClubOrganizer, fake.roles["u2"])

	code, _ = call(t, app, fiber.MethodPut, "/api/v1/users/u2/role", `role=admin`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, entity.ClubOrganizer, fake.roles["u2"])
}

func TestMeWithoutProfile(t *testing.T) {
	code, out := call(t, newApp(&fakeUsers{}, entity.Student), fiber.MethodGet, "/api/v1/users/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Not signed in", out["message"])
}
