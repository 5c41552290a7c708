package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Badsnus/campus-hub/internal/adapters/ai/gemini"
	postgresStorage "github.com/Badsnus/campus-hub/internal/adapters/database/postgres"
	"github.com/Badsnus/campus-hub/internal/adapters/database/redis"
	"github.com/Badsnus/campus-hub/internal/adapters/storage/supabase"
	"github.com/Badsnus/campus-hub/internal/domain/utils/location"
	"github.com/Badsnus/campus-hub/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Config holds every connection the server needs. Redis, SMTPDialer, Storage
// and Tagger are nil when their section is not configured.
type Config struct {
	Database   *gorm.DB
	Redis      *redis.Client
	SMTPDialer *gomail.Dialer
	Storage    *supabase.Storage
	Tagger     *gemini.Tagger
}

func initConfig() {
	// .env is optional; values from it are visible through AutomaticEnv
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("service.http.port", 8080)
	viper.SetDefault("service.http.allow-origins", "*")
	viper.SetDefault("service.database.port", 5432)
	viper.SetDefault("service.redis.port", "6379")
	viper.SetDefault("service.smtp.port", 587)
	viper.SetDefault("service.gemini.model", gemini.DefaultModel)
	viper.SetDefault("settings.timezone", "UTC")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(err)
		}
	}
}

func Get() *Config {
	initConfig()

	if err := location.Load(viper.GetString("settings.timezone")); err != nil {
		panic(err)
	}

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: location.Location(),
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
	})
	if err != nil {
		panic(err)
	}

	gormConfig := &gorm.Config{TranslateError: true}
	if viper.GetBool("settings.debug") {
		gormConfig.Logger = gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=%s TimeZone=%s",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
		sslMode(),
		location.Location().String(),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	errMigrate := database.AutoMigrate(postgresStorage.Migrations...)
	if errMigrate != nil {
		logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
	}

	cfg := &Config{Database: database}

	if host := viper.GetString("service.redis.host"); host != "" {
		cfg.Redis, err = redis.New(redis.Options{
			Host:     host,
			Port:     viper.GetString("service.redis.port"),
			Password: viper.GetString("service.redis.password"),
			Channel:  viper.GetString("service.redis.channel"),
		})
		if err != nil {
			logger.Log.Panicf("Failed to connect to redis: %v", err)
		}
		logger.Log.Info("Successfully connected to redis")
	} else {
		logger.Log.Warn("Redis is not configured, running as a single instance")
	}

	if host := viper.GetString("service.smtp.host"); host != "" {
		cfg.SMTPDialer = gomail.NewDialer(
			host,
			viper.GetInt("service.smtp.port"),
			viper.GetString("service.smtp.username"),
			viper.GetString("service.smtp.password"),
		)
	} else {
		logger.Log.Warn("SMTP is not configured, email sending disabled")
	}

	if url := viper.GetString("service.supabase.url"); url != "" {
		cfg.Storage = supabase.New(url, viper.GetString("service.supabase.key"), viper.GetString("service.supabase.bucket"))
	}

	if key := viper.GetString("service.gemini.api-key"); key != "" {
		cfg.Tagger, err = gemini.New(context.Background(), key, viper.GetString("service.gemini.model"))
		if err != nil {
			logger.Log.Errorf("Failed to create tag model, suggestions disabled: %v", err)
		}
	}

	return cfg
}

func sslMode() string {
	if mode := viper.GetString("service.database.sslmode"); mode != "" {
		return mode
	}
	return "disable"
}
