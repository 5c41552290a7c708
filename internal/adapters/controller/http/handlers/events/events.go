package events

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	"github.com/gofiber/fiber/v2"
)

type eventService interface {
	Create(ctx context.Context, session dto.Session, form dto.EventForm) (*entity.Event, error)
	Update(ctx context.Context, session dto.Session, id string, form dto.EventForm) (*entity.Event, error)
	Delete(ctx context.Context, session dto.Session, id string) error
	UploadImage(ctx context.Context, session dto.Session, id, filename, contentType string, r io.Reader) (string, error)
	Get(ctx context.Context, session dto.Session, id string) (dto.Event, error)
	List(ctx context.Context, filter dto.EventFilter) ([]entity.Event, error)
	Count(ctx context.Context) (int64, error)
	CalendarLinks(ctx context.Context, id string) (dto.CalendarLinks, error)
	CalendarFile(ctx context.Context, id string) ([]byte, string, error)
}

type exportService interface {
	Registrations(ctx context.Context, session dto.Session, eventID string) (*bytes.Buffer, string, error)
	Ticket(ctx context.Context, session dto.Session, eventID string) ([]byte, error)
}

type Handler struct {
	eventService  eventService
	exportService exportService
	logger        *types.Logger
}

func New(s *server.Server) *Handler {
	eventStorage := postgres.NewEventStorage(s.DB)
	userStorage := postgres.NewUserStorage(s.DB)
	registrationStorage := postgres.NewRegistrationStorage(s.DB)

	return &Handler{
		eventService:  service.NewEventService(s.Logger, eventStorage, s.Rows, userStorage, registrationStorage, s.Images),
		exportService: service.NewExportService(registrationStorage, eventStorage, s.Ticket),
		logger:        s.Logger,
	}
}

func (h Handler) List(c *fiber.Ctx) error {
	filter := dto.EventFilter{
		Category:    entity.Category(c.Query("category")),
		OrganizerID: c.Query("organizer"),
	}
	if raw := c.Query("past"); raw != "" {
		past, err := strconv.ParseBool(raw)
		if err != nil {
			return response.HandleError(c, fiber.StatusBadRequest, "past must be true or false", err)
		}
		filter.Past = &past
	}
	events, err := h.eventService.List(c.UserContext(), filter)
	if err != nil {
		return response.Error(c, err, "Failed to list events")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Events fetched", events)
}

func (h Handler) Get(c *fiber.Ctx) error {
	event, err := h.eventService.Get(c.UserContext(), middlewares.Session(c), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to get event")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Event fetched", event)
}

func (h Handler) Create(c *fiber.Ctx) error {
	var form dto.EventForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	event, err := h.eventService.Create(c.UserContext(), middlewares.Session(c), form)
	if err != nil {
		return response.Error(c, err, "Failed to create event")
	}
	return response.HandleSuccess(c, fiber.StatusCreated, "Event created", event)
}

func (h Handler) Update(c *fiber.Ctx) error {
	var form dto.EventForm
	if err := c.BodyParser(&form); err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	event, err := h.eventService.Update(c.UserContext(), middlewares.Session(c), c.Params("id"), form)
	if err != nil {
		return response.Error(c, err, "Failed to update event")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Event updated", event)
}

func (h Handler) Delete(c *fiber.Ctx) error {
	if err := h.eventService.Delete(c.UserContext(), middlewares.Session(c), c.Params("id")); err != nil {
		return response.Error(c, err, "Failed to delete event")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Event deleted", nil)
}

func (h Handler) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "image file is required", err)
	}
	file, err := header.Open()
	if err != nil {
		return response.HandleError(c, fiber.StatusBadRequest, "Failed to read image", err)
	}
	defer file.Close()

	url, err := h.eventService.UploadImage(c.UserContext(), middlewares.Session(c), c.Params("id"),
		header.Filename, header.Header.Get(fiber.HeaderContentType), file)
	if err != nil {
		return response.Error(c, err, "Failed to upload image")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Image uploaded", fiber.Map{"image": url})
}

func (h Handler) CalendarLinks(c *fiber.Ctx) error {
	links, err := h.eventService.CalendarLinks(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to build calendar link")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Calendar links", links)
}

func (h Handler) CalendarFile(c *fiber.Ctx) error {
	data, filename, err := h.eventService.CalendarFile(c.UserContext(), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to build calendar file")
	}
	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func (h Handler) ExportRegistrations(c *fiber.Ctx) error {
	buf, filename, err := h.exportService.Registrations(c.UserContext(), middlewares.Session(c), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to export registrations")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.SendStream(buf, buf.Len())
}

func (h Handler) Ticket(c *fiber.Ctx) error {
	png, err := h.exportService.Ticket(c.UserContext(), middlewares.Session(c), c.Params("id"))
	if err != nil {
		return response.Error(c, err, "Failed to render ticket")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h Handler) Count(c *fiber.Ctx) error {
	count, err := h.eventService.Count(c.UserContext())
	if err != nil {
		return response.Error(c, err, "Failed to count events")
	}
	return response.HandleSuccess(c, fiber.StatusOK, "Events", fiber.Map{"count": count})
}

func (h Handler) Setup(router fiber.Router) {
	group := router.Group("/events")
	group.Get("/", h.List)
	group.Post("/", middlewares.RequireRole(entity.ClubOrganizer), h.Create)
	group.Get("/count", middlewares.RequireRole(entity.Admin), h.Count)
	group.Get("/:id/calendar.ics", h.CalendarFile)
	group.Get("/:id/calendar", h.CalendarLinks)
	group.Get("/:id/registrations/export", h.ExportRegistrations)
	group.Get("/:id/ticket", h.Ticket)
	group.Post("/:id/image", h.UploadImage)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
