package setup

import (
	"github.com/Badsnus/campus-hub/cmd/server"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/clubs"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/comments"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/email"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/events"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/live"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/middlewares"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/notifications"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/registrations"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/reminders"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/tags"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/users"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/viper"
)

func Setup(s *server.Server) {
	// Pre-setup and global middlewares
	middle := middlewares.New(s)
	emailHandler := email.New(s)
	eventsHandler := events.New(s)
	registrationsHandler := registrations.New(s)
	commentsHandler := comments.New(s)
	remindersHandler := reminders.New(s)
	notificationsHandler := notifications.New(s)
	usersHandler := users.New(s)
	clubsHandler := clubs.New(s)
	tagsHandler := tags.New(s)
	liveHandler := live.New(s)

	s.App.Use(recover.New())
	if viper.GetBool("settings.debug") {
		s.App.Use(logger.New())
	}
	s.App.Use(cors.New(cors.Config{
		AllowOrigins: viper.GetString("service.http.allow-origins"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := s.App.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return response.HandleSuccess(c, fiber.StatusOK, "pong", nil)
	})

	// Setup handlers
	api.Use(middle.Authorized())
	emailHandler.Setup(api)

	v1 := api.Group("/v1")
	eventsHandler.Setup(v1)
	registrationsHandler.Setup(v1)
	commentsHandler.Setup(v1)
	remindersHandler.Setup(v1)
	notificationsHandler.Setup(v1)
	usersHandler.Setup(v1)
	clubsHandler.Setup(v1)
	tagsHandler.Setup(v1)
	liveHandler.Setup(v1)
}
