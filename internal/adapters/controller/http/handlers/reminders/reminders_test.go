package reminders

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

type fakeReminders struct {
	reminderService
	disabled bool
	sent     []string
}

func (f *fakeReminders) Create(_ context.Context, session dto.Session, form dto.ReminderForm) (*entity.Reminder, error) {
	if f.disabled {
		return nil, nil
	}
	return &entity.Reminder{ID: "r1", UserID: session.UserID, EventID: form.EventID}, nil
}

func (f *fakeReminders) MarkSent(_ context.Context, id string) error {
	f.sent = append(f.sent, id)
	return nil
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(fake *fakeReminders, role entity.Role) *fiber.App {
	app := fiber.New()
	app.Use(middlewares.WithSession(dto.Session{UserID: "u1", Role: role}))
	(&Handler{reminderService: fake, logger: logger.Nop()}).Setup(app.Group("/api/v1"))
	return app
}

func post(t *testing.T, app *fiber.App, path, body string) (int, envelope) {
	req := httptest.NewRequest(fiber.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

const reminderBody = `{"event_id":"e1","reminder_time":"2025-03-14T09:00:00Z"}`

func TestCreate(t *testing.T) {
	code, out := post(t, newApp(&fakeReminders{}, entity.Student), "/api/v1/reminders", reminderBody)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "Reminder set", out.Message)

	var reminder entity.Reminder
	require.NoError(t, json.Unmarshal(out.Data, &reminder))
	assert.Equal(t, "e1", reminder.EventID)
}

func TestCreateWithRemindersDisabled(t *testing.T) {
	code, out := post(t, newApp(&fakeReminders{disabled: true}, entity.Student), "/api/v1/reminders", reminderBody)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "Event reminders are disabled in your settings", out.Message)
	assert.Equal(t, "null", string(out.Data))
}

func TestMarkSentIsAdminOnly(t *testing.T) {
	fake := &fakeReminders{}

	code, _ := post(t, newApp(fake, entity.Student), "/api/v1/reminders/r1/sent", "")
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Empty(t, fake.sent)

	code, _ = post(t, newApp(fake, entity.Admin), "/api/v1/reminders/r1/sent", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []string{"r1"}, fake.sent)
}
