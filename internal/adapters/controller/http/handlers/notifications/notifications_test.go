package notifications

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	userID     string
	unreadOnly bool
	limit      int
}

type fakeNotifications struct {
	notificationService
	calls []listCall
}

func (f *fakeNotifications) List(_ context.Context, session dto.Session, unreadOnly bool, limit int) ([]entity.Notification, error) {
	f.calls = append(f.calls, listCall{userID: session.UserID, unreadOnly: unreadOnly, limit: limit})
	return []entity.Notification{}, nil
}

func newApp(fake *fakeNotifications) *fiber.App {
	app := fiber.New()
	app.Use(middlewares.WithSession(dto.Session{UserID: "u1", Role: entity.Student}))
	(&Handler{notificationService: fake, logger: logger.Nop()}).Setup(app.Group("/api/v1"))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out.Message
}

func TestListQuery(t *testing.T) {
	fake := &fakeNotifications{}
	app := newApp(fake)

	code, _ := get(t, app, "/api/v1/notifications")
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = get(t, app, "/api/v1/notifications?unread=true&limit=5")
	assert.Equal(t, fiber.StatusOK, code)

	assert.Equal(t, []listCall{
		{userID: "u1", unreadOnly: false, limit: defaultLimit},
		{userID: "u1", unreadOnly: true, limit: 5},
	}, fake.calls)
}

func TestPreferencesWithoutProfile(t *testing.T) {
	code, message := get(t, newApp(&fakeNotifications{}), "/api/v1/notifications/preferences")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Not signed in", message)
}
