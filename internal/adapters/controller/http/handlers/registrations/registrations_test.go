package registrations

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrations struct {
	registrationService
	registered map[string]bool
	forms      []dto.RegistrationForm
}

func newFake() *fakeRegistrations {
	return &fakeRegistrations{registered: map[string]bool{}}
}

func (f *fakeRegistrations) Register(_ context.Context, session dto.Session, eventID string, form dto.RegistrationForm) (*entity.Registration, error) {
	if f.registered[eventID] {
		return nil, errorz.ErrAlreadyRegistered
	}
	f.registered[eventID] = true
	f.forms = append(f.forms, form)
	return &entity.Registration{ID: "r1", EventID: eventID, UserID: session.UserID, FullName: form.FullName}, nil
}

func (f *fakeRegistrations) State(_ context.Context, _, eventID string) (service.RegistrationState, error) {
	if f.registered[eventID] {
		return service.Registered, nil
	}
	return service.Unregistered, nil
}

func (f *fakeRegistrations) Get(_ context.Context, session dto.Session, eventID string) (*entity.Registration, error) {
	return &entity.Registration{ID: "r1", EventID: eventID, UserID: session.UserID}, nil
}

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newApp(fake *fakeRegistrations) *fiber.App {
	app := fiber.New()
	app.Use(middlewares.WithSession(dto.Session{UserID: "u1", Role: entity.Student}))
	(&Handler{registrationService: fake, logger: logger.Nop()}).Setup(app.Group("/api/v1"))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

const registrationBody = `{"full_name":"Asha Rao","roll_number":"21CS001","branch":"CSE","section":"A"}`

func TestRegister(t *testing.T) {
	fake := newFake()
	app := newApp(fake)

	code, out := do(t, app, fiber.MethodPost, "/api/v1/events/e1/registration", registrationBody)
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "Successfully registered for the event!", out.Message)
	require.Len(t, fake.forms, 1)
	assert.Equal(t, "21CS001", fake.forms[0].RollNumber)

	code, _ = do(t, app, fiber.MethodPost, "/api/v1/events/e1/registration", registrationBody)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestRegisterInvalidBody(t *testing.T) {
	fake := newFake()

	code, out := do(t, newApp(fake), fiber.MethodPost, "/api/v1/events/e1/registration", `{"full_name":1}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "Invalid request body", out.Message)
	assert.Empty(t, fake.forms)
}

func TestStatus(t *testing.T) {
	fake := newFake()
	app := newApp(fake)

	code, out := do(t, app, fiber.MethodGet, "/api/v1/events/e1/registration", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `{"state":"unregistered"}`, string(out.Data))

	fake.registered["e1"] = true
	code, out = do(t, app, fiber.MethodGet, "/api/v1/events/e1/registration", "")
	assert.Equal(t, fiber.StatusOK, code)

	var got struct {
		State        service.RegistrationState `json:"state"`
		Registration *entity.Registration      `json:"registration"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &got))
	assert.Equal(t, service.Registered, got.State)
	require.NotNil(t, got.Registration)
	assert.Equal(t, "r1", got.Registration.ID)
}
