package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/workforce-management/internal"
	"github.com/frahmantamala/workforce-management/internal/assignment"
	assignmentstore "github.com/frahmantamala/workforce-management/internal/assignment/postgres"
	"github.com/frahmantamala/workforce-management/internal/auth"
	authstore "github.com/frahmantamala/workforce-management/internal/auth/postgres"
	"github.com/frahmantamala/workforce-management/internal/department"
	departmentstore "github.com/frahmantamala/workforce-management/internal/department/postgres"
	"github.com/frahmantamala/workforce-management/internal/employee"
	employeestore "github.com/frahmantamala/workforce-management/internal/employee/postgres"
	"github.com/frahmantamala/workforce-management/internal/idcodec"
	"github.com/frahmantamala/workforce-management/internal/notification"
	"github.com/frahmantamala/workforce-management/internal/project"
	projectstore "github.com/frahmantamala/workforce-management/internal/project/postgres"
	"github.com/frahmantamala/workforce-management/internal/transport"
	"github.com/frahmantamala/workforce-management/internal/transport/rest"
	"github.com/frahmantamala/workforce-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Mailer *notification.Mailer
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		deps.Mailer.Shutdown()
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.InitWithOptions(os.Getenv("APP_ENV"), config.Logging.Level, config.Logging.Format)
	appLogger := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm over pgx: %w", err)
	}

	ids, err := idcodec.New(config.Security.IDProtectionKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to build id codec: %w", err)
	}

	sender := notification.NewSMTPSender(
		config.Mailer.SMTPHost,
		config.Mailer.SMTPPort,
		config.Mailer.SMTPUser,
		config.Mailer.SMTPPass,
		config.Mailer.FromName,
		config.Mailer.FromEmail,
	)
	mailer := notification.NewMailer(sender, notification.Config{
		MaxWorkers: config.Mailer.Workers,
		QueueSize:  config.Mailer.QueueSize,
	}, appLogger)

	tokens := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authRepo := authstore.NewRepository(gormDB)
	employeeRepo := employeestore.NewRepository(gormDB)
	departmentRepo := departmentstore.NewRepository(gormDB)
	projectRepo := projectstore.NewRepository(gormDB)
	assignmentRepo := assignmentstore.NewRepository(gormDB)

	authService := auth.NewService(authRepo, tokens, config.Security.BCryptCost, appLogger)
	employeeService := employee.NewService(employeeRepo, ids, mailer, config.Security.BCryptCost, appLogger)
	departmentService := department.NewService(departmentRepo, ids, appLogger)
	projectService := project.NewService(projectRepo, ids, appLogger)
	assignmentService := assignment.NewService(
		assignmentRepo, employeeRepo, projectRepo, ids, mailer, appLogger)

	base := transport.NewBaseHandler(appLogger)
	authHandler := auth.NewHandler(base, authService)
	employeeHandler := employee.NewHandler(base, employeeService)
	departmentHandler := department.NewHandler(base, departmentService)
	projectHandler := project.NewHandler(base, projectService)
	assignmentHandler := assignment.NewHandler(base, assignmentService)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB,
		authHandler, employeeHandler, departmentHandler, projectHandler, assignmentHandler,
		appLogger)

	return &Dependencies{
		Config: config,
		Logger: appLogger,
		DB:     db,
		Router: router,
		Mailer: mailer,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
