package config

import (
	"context"
	"fmt"
	"os"

	"ProjectMonitoring/database/postgres"
	authHandler "ProjectMonitoring/internal/api/auth/handler"
	authService "ProjectMonitoring/internal/api/auth/service"
	exportHandler "ProjectMonitoring/internal/api/export/handler"
	exportService "ProjectMonitoring/internal/api/export/service"
	monitoringHandler "ProjectMonitoring/internal/api/monitoring/handler"
	monitoringRepository "ProjectMonitoring/internal/api/monitoring/repository"
	monitoringService "ProjectMonitoring/internal/api/monitoring/service"
	"ProjectMonitoring/internal/entity"
	"ProjectMonitoring/internal/middleware"
	"ProjectMonitoring/pkg/bcrypt"
	"ProjectMonitoring/pkg/camera"
	"ProjectMonitoring/pkg/classifier"
	"ProjectMonitoring/pkg/emotion"
	"ProjectMonitoring/pkg/redis"
	"ProjectMonitoring/pkg/s3"
	"ProjectMonitoring/pkg/smtp"
	"ProjectMonitoring/pkg/utils"
	"ProjectMonitoring/pkg/vision"
	"ProjectMonitoring/pkg/whatsapp"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	redisServer    redis.IRedis
	smtpMailer     smtp.ItfSmtp
	whatsappClient whatsapp.IWhatsappSender
	s3Client       s3.ItfS3
	cameraDevice   camera.ICamera
	faceLocator    vision.ILocator
	classifier     classifier.IClassifier
	emotions       *emotion.Registry

	monitoring monitoringService.IMonitoringService
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithSMTPMailer(smtpMailer smtp.ItfSmtp) ServerOption {
	return func(s *Server) error {
		s.smtpMailer = smtpMailer
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

func WithS3Client() ServerOption {
	return func(s *Server) error {
		if os.Getenv("AWS_BUCKET_NAME") == "" {
			if s.log != nil {
				s.log.Info("AWS bucket not configured, report archival disabled")
			}
			return nil
		}

		client, err := s3.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to initialize S3 client: %v", err)
			}
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		s.s3Client = client
		return nil
	}
}

// WithWhatsappClient pairs the alert channel. Alerting is a side
// feature, so a failed pairing degrades to no alerts instead of
// blocking startup.
func WithWhatsappClient() ServerOption {
	return func(s *Server) error {
		if os.Getenv("ALERT_PHONE_NUMBER") == "" {
			if s.log != nil {
				s.log.Info("Alert phone number not configured, absence alerts disabled")
			}
			return nil
		}

		client, err := whatsapp.New(context.Background(), s.log)
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Failed to initialize WhatsApp client, absence alerts disabled: %v", err)
			}
			return nil
		}
		s.whatsappClient = client
		return nil
	}
}

func WithCamera() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before camera")
		}
		s.cameraDevice = camera.New(s.log)
		return nil
	}
}

// WithFaceLocator loads the Haar cascade. A missing cascade file only
// means demo mode, not a dead server.
func WithFaceLocator() ServerOption {
	return func(s *Server) error {
		locator, err := vision.NewHaarLocator(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Face locator unavailable, running in demo mode: %v", err)
			}
			return nil
		}
		s.faceLocator = locator
		return nil
	}
}

func WithClassifier() ServerOption {
	return func(s *Server) error {
		cls, err := classifier.New(s.log)
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Classifier unavailable, running in demo mode: %v", err)
			}
			return nil
		}
		s.classifier = cls
		return nil
	}
}

func WithEmotionRegistry() ServerOption {
	return func(s *Server) error {
		s.emotions = emotion.NewRegistry(emotion.ConfigFromEnv(), s.log)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Monitoring domain
	monitoringRepo := monitoringRepository.New(s.db, s.log)
	monitoringServices := monitoringService.NewMonitoringService(
		s.log, monitoringRepo, s.utils,
		s.cameraDevice, s.faceLocator, s.classifier, s.emotions,
		s.redisServer, s.whatsappClient,
	)
	monitoringHandlers := monitoringHandler.New(s.log, s.validator, s.middleware, monitoringServices)
	s.monitoring = monitoringServices

	// Export domain
	exportServices := exportService.NewExportService(s.log, monitoringServices, s.smtpMailer, s.s3Client)
	exportHandlers := exportHandler.New(s.log, s.validator, s.middleware, exportServices)

	// Auth domain
	authServices := authService.NewAuthService(s.log, s.bcryptUtils)
	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, monitoringHandlers, exportHandlers, authHandlers)
}

func (s *Server) Run() error {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(middleware.LoggerConfig())

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	if err := s.engine.Listen(fmt.Sprintf(":%s", port)); err != nil {
		s.Close()
		return err
	}

	return nil
}

// Close releases the device handles and the alert channel.
func (s *Server) Close() {
	if s.cameraDevice != nil {
		if err := s.cameraDevice.Close(); err != nil {
			s.log.Warnf("Failed to close camera: %v", err)
		}
	}
	if s.faceLocator != nil {
		if err := s.faceLocator.Close(); err != nil {
			s.log.Warnf("Failed to close face locator: %v", err)
		}
	}
	if s.whatsappClient != nil {
		_ = s.whatsappClient.Disconnect()
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		mode := entity.ModeDemo
		if s.monitoring != nil {
			mode = s.monitoring.Mode()
		}

		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
			"mode":    mode,
			"capabilities": fiber.Map{
				"camera":     s.cameraDevice != nil && s.cameraDevice.Available(),
				"locator":    s.faceLocator != nil,
				"classifier": s.classifier != nil,
				"alerts":     s.whatsappClient != nil,
			},
		})
	})
}
