package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Badsnus/campus-hub/internal/adapters/config"
	"github.com/Badsnus/campus-hub/internal/adapters/controller/http/handlers/response"
	"github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/adapters/database/redis"
	"github.com/Badsnus/campus-hub/internal/adapters/database/redis/changes"
	"github.com/Badsnus/campus-hub/internal/adapters/telegram"
	"github.com/Badsnus/campus-hub/internal/domain/service"
	"github.com/Badsnus/campus-hub/pkg/changefeed"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/Badsnus/campus-hub/pkg/logger/types"
	qr "github.com/Badsnus/campus-hub/pkg/qrcode"
	"github.com/Badsnus/campus-hub/pkg/smtp"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

// Mailer, ObjectStorage and TagModel stay nil interfaces when the backing
// service is not configured.
type Mailer interface {
	Send(msg smtp.Message) error
}

type ObjectStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, path string) error
}

type TagModel interface {
	SuggestTags(ctx context.Context, description string) ([]string, error)
}

// Guard marks a registration change as in flight.
type Guard interface {
	Begin(ctx context.Context, key, state string) (bool, error)
	End(ctx context.Context, key string)
	Current(ctx context.Context, key string) (string, error)
}

type Server struct {
	*fiber.App
	DB     *gorm.DB
	Redis  *redis.Client
	Feed   changefeed.Feed
	Rows   *postgres.Rows
	Guard  Guard
	Mailer Mailer
	Images ObjectStorage
	Tagger TagModel
	Ticket qr.Config
	Logger *types.Logger

	relay  *changes.Relay
	closer []func() error
}

func New(cfg *config.Config) (*Server, error) {
	httpLogger, err := logger.Named("http")
	if err != nil {
		return nil, err
	}
	feedLogger, err := logger.Named("changefeed")
	if err != nil {
		return nil, err
	}
	dbLogger, err := logger.Named("database")
	if err != nil {
		return nil, err
	}

	s := &Server{
		App: fiber.New(fiber.Config{
			AppName:      "Campus Hub",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			BodyLimit:    viper.GetInt("service.http.body-limit-mb") << 20,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				var fe *fiber.Error
				if errors.As(err, &fe) {
					return response.HandleError(c, fe.Code, fe.Message, err)
				}
				httpLogger.Errorf("%s %s: %v", c.Method(), c.Path(), err)
				return response.HandleError(c, fiber.StatusInternalServerError, "Internal server error", err)
			},
		}),
		DB:     cfg.Database,
		Redis:  cfg.Redis,
		Ticket: qr.Ticket,
		Logger: httpLogger,
	}
	if logo := viper.GetString("settings.qr.logo-path"); logo != "" {
		s.Ticket.LogoPath = logo
	}

	hub := changefeed.New(
		changefeed.WithLogger(feedLogger),
		changefeed.WithDedupeWindow(viper.GetInt("service.changefeed.dedupe-window")),
	)
	var publisher changefeed.Publisher = hub
	s.Feed = hub
	if cfg.Redis != nil {
		s.relay = changes.NewRelay(hub, cfg.Redis.Changes, feedLogger)
		publisher = s.relay
		s.Feed = s.relay
		s.Guard = cfg.Redis.Locks
		s.closer = append(s.closer, cfg.Redis.Close)
	} else {
		s.Guard = service.NewMemoryGuard()
	}
	s.Rows = postgres.NewRows(cfg.Database, publisher, dbLogger)

	if cfg.SMTPDialer != nil {
		s.Mailer = smtp.NewClient(cfg.SMTPDialer, viper.GetString("service.smtp.from"), viper.GetString("service.smtp.domain"))
	}
	if cfg.Storage != nil {
		s.Images = cfg.Storage
	}
	if cfg.Tagger != nil {
		s.Tagger = cfg.Tagger
		s.closer = append(s.closer, cfg.Tagger.Close)
	}
	return s, nil
}

// Start serves HTTP until SIGINT or SIGTERM, then shuts down.
func (s *Server) Start() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if viper.GetBool("settings.logging.log-to-channel") {
		hook, err := telegram.LogHook(
			viper.GetString("settings.logging.bot-token"),
			viper.GetInt64("settings.logging.channel-id"),
			zapcore.Level(viper.GetInt("settings.logging.channel-log-level")),
			s.Logger,
		)
		if err != nil {
			logger.Log.Errorf("Failed to create log channel hook: %v", err)
		} else {
			logger.SetLogHook(hook)
		}
	}

	if s.relay != nil {
		go s.relay.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		logger.Log.Info("Shutting down")
		if err := s.App.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Errorf("Failed to shut down http server: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", viper.GetInt("service.http.port"))
	logger.Log.Infof("Server starting on %s", addr)
	if err := s.App.Listen(addr); err != nil {
		logger.Log.Errorf("Server stopped: %v", err)
	}

	for _, closeFn := range s.closer {
		if err := closeFn(); err != nil {
			logger.Log.Warnf("Failed to close resource: %v", err)
		}
	}
	if db, err := s.DB.DB(); err == nil {
		_ = db.Close()
	}
}
