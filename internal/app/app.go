package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/darkroom/internal/config"
	"github.com/templui/darkroom/internal/db"
	"github.com/templui/darkroom/internal/markdown"
	"github.com/templui/darkroom/internal/media"
	"github.com/templui/darkroom/internal/repository"
	"github.com/templui/darkroom/internal/service"
	"github.com/templui/darkroom/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Storage           storage.Storage
	AuthService       *service.AuthService
	UserService       *service.UserService
	AdminService      *service.AdminService
	EmailService      *service.EmailService
	AlbumService      *service.AlbumService
	ImageService      *service.ImageService
	CommentService    *service.CommentService
	VisibilityService *service.VisibilityService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return Build(cfg, database)
}

// Open connects to the database without migrating it. Maintenance commands
// use it so they never change the schema implicitly.
func Open(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return Build(cfg, database)
}

// Build wires repositories, storage and services around an open database.
func Build(cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	sessionRepository := repository.NewSessionRepository(database)
	albumRepository := repository.NewAlbumRepository(database)
	imageRepository := repository.NewImageRepository(database)
	likeRepository := repository.NewLikeRepository(database)
	commentRepository := repository.NewCommentRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		sessionRepository,
		emailService,
		cfg.SessionSecret,
		cfg.SessionTTL,
		cfg.IsProduction(),
		cfg.AdminUser,
		cfg.AdminPass,
		cfg.AdminEmail,
	)
	userService := service.NewUserService(userRepository, imageRepository, sessionRepository, fileStorage)
	adminService := service.NewAdminService(userRepository, imageRepository, albumRepository, likeRepository, userService, emailService)
	albumService := service.NewAlbumService(albumRepository)
	imageService := service.NewImageService(
		imageRepository,
		albumRepository,
		likeRepository,
		fileStorage,
		media.NewGenerator(cfg.ThumbWidth, cfg.ThumbHeight, cfg.ThumbQuality),
		markdown.NewParser(),
		cfg.MaxUploadBytes(),
		cfg.AllowAnonymousUploads,
	)
	commentService := service.NewCommentService(commentRepository, imageRepository)
	visibilityService := service.NewVisibilityService(imageRepository, fileStorage)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Storage:           fileStorage,
		AuthService:       authService,
		UserService:       userService,
		AdminService:      adminService,
		EmailService:      emailService,
		AlbumService:      albumService,
		ImageService:      imageService,
		CommentService:    commentService,
		VisibilityService: visibilityService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
