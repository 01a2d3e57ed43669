package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/hr-management/internal/attendance"
	attendancePostgres "github.com/frahmantamala/hr-management/internal/attendance/postgres"
	"github.com/frahmantamala/hr-management/internal/auth"
	authPostgres "github.com/frahmantamala/hr-management/internal/auth/postgres"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-management/internal/employee/postgres"
	"github.com/frahmantamala/hr-management/internal/leave"
	leavePostgres "github.com/frahmantamala/hr-management/internal/leave/postgres"
	"github.com/frahmantamala/hr-management/internal/notification"
	"github.com/frahmantamala/hr-management/internal/reporting"
	"github.com/frahmantamala/hr-management/internal/transport/rest"
	"github.com/frahmantamala/hr-management/internal/transport/swagger"
	"github.com/frahmantamala/hr-management/internal/user"
	userPostgres "github.com/frahmantamala/hr-management/internal/user/postgres"
)

const blacklistPurgeInterval = time.Hour

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	router := chi.NewRouter()
	if err := setupRoutes(ctx, deps, router); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		deps.Close()
		os.Exit(1)
	}

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("Starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.Close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(ctx context.Context, deps *Dependencies, router chi.Router) error {
	cfg := deps.Config
	lg := deps.Logger

	authService := newAuthService(ctx, deps)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), deps.Bus, cfg.Security.BCryptCost, lg)
	employeeService := employee.NewService(employeePostgres.NewEmployeeRepository(deps.Gorm), deps.Bus, lg)
	attendanceService := attendance.NewService(attendancePostgres.NewAttendanceRepository(deps.Gorm), deps.Bus, lg)
	leaveService := leave.NewService(leavePostgres.NewLeaveRepository(deps.Gorm), deps.Bus, lg)
	reportingService, err := deps.reportingService()
	if err != nil {
		return err
	}

	checks := map[string]rest.CheckFunc{
		"postgres": deps.DB.PingContext,
	}
	if deps.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}
	}

	openAPIPath := cfg.Server.OpenAPIPath
	if openAPIPath != "" {
		if _, err := swagger.LoadSpec(ctx, openAPIPath); err != nil {
			lg.Warn("openapi document not served", "path", openAPIPath, "error", err)
			openAPIPath = ""
		}
	}

	rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:           auth.NewHandler(authService),
		RBAC:           auth.NewRBACAuthorization(auth.NewRoleChecker(), lg),
		User:           user.NewHandler(userService),
		Employee:       employee.NewHandler(employeeService),
		Attendance:     attendance.NewHandler(attendanceService),
		Leave:          leave.NewHandler(leaveService),
		Reporting:      reporting.NewHandler(reportingService),
		Health:         rest.NewHealthHandler(checks),
		OpenAPIPath:    openAPIPath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, lg)
	return nil
}

func newAuthService(ctx context.Context, deps *Dependencies) *auth.Service {
	cfg := deps.Config
	sec := cfg.Security

	tokens := auth.NewJWTTokenGenerator(sec.AccessTokenSecret, sec.RefreshTokenSecret, sec.AccessTokenDuration, sec.RefreshTokenDuration)
	resetTokens := auth.NewPasswordResetTokens(sec.PasswordResetSecret, sec.PasswordResetTimeout)

	var blacklist auth.TokenBlacklist
	if sec.Blacklist == "redis" {
		blacklist = auth.NewRedisBlacklist(deps.Redis)
	} else {
		dbBlacklist := authPostgres.NewDatabaseBlacklist(deps.Gorm)
		go purgeBlacklist(ctx, deps, dbBlacklist)
		blacklist = dbBlacklist
	}

	opts := []auth.Option{
		auth.WithEventPublisher(deps.Bus),
		auth.WithBCryptCost(sec.BCryptCost),
		auth.WithMailer(newMailer(deps)),
	}
	if sec.PasswordResetURL != "" {
		opts = append(opts, auth.WithResetURL(sec.PasswordResetURL))
	}
	if deps.Redis != nil && cfg.Redis.MaxLoginAttempts > 0 {
		opts = append(opts, auth.WithLoginLimiter(
			auth.NewRedisLoginLimiter(deps.Redis, cfg.Redis.MaxLoginAttempts, cfg.Redis.LoginWindow),
		))
	}

	return auth.NewService(authPostgres.NewRepository(deps.Gorm), tokens, blacklist, resetTokens, deps.Logger, opts...)
}

// newMailer queues reset mail on kafka when enabled, otherwise sends it
// inline over SMTP, or only logs it when no SMTP host is configured.
func newMailer(deps *Dependencies) auth.ResetMailer {
	cfg := deps.Config
	if cfg.Kafka.Enabled {
		mailer := notification.NewKafkaMailer(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.NotificationsTopic))
		deps.closers = append(deps.closers, mailer.Close)
		return mailer
	}
	return notification.NewDirectMailer(newNotifier(deps))
}

func newNotifier(deps *Dependencies) notification.Notifier {
	m := deps.Config.Mail
	if m.Host == "" {
		return notification.NewLogNotifier(deps.Logger)
	}
	smtpNotifier, err := notification.NewSMTPNotifier(notification.SMTPConfig{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		From:     m.From,
	})
	if err != nil {
		deps.Logger.Warn("smtp disabled, falling back to log notifier", "error", err)
		return notification.NewLogNotifier(deps.Logger)
	}
	return smtpNotifier
}

func purgeBlacklist(ctx context.Context, deps *Dependencies, bl *authPostgres.DatabaseBlacklist) {
	ticker := time.NewTicker(blacklistPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := bl.PurgeExpired(ctx, now)
			if err != nil {
				deps.Logger.Error("blacklist purge failed", "error", err)
				continue
			}
			if n > 0 {
				deps.Logger.Info("purged expired blacklist entries", "count", n)
			}
		}
	}
}
