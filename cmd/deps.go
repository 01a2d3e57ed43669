package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/audit"
	"github.com/frahmantamala/hr-management/internal/core/events"
	"github.com/frahmantamala/hr-management/internal/reporting"
	reportingPostgres "github.com/frahmantamala/hr-management/internal/reporting/postgres"
)

// Dependencies holds the shared infrastructure of a command run.
type Dependencies struct {
	Config *internal.Config
	Logger *slog.Logger
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Redis  *redis.Client
	Bus    *events.EventBus

	closers []func() error
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

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gdb, nil
}

func initRedis(ctx context.Context, cfg internal.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// initializeDependencies connects everything the config enables. Optional
// backends (redis, kafka, mongo) are skipped when disabled.
func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	deps := &Dependencies{
		Config: cfg,
		Logger: slog.Default(),
	}

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.DB = db
	deps.closers = append(deps.closers, db.Close)

	deps.Gorm, err = initGorm(db)
	if err != nil {
		deps.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		deps.Redis, err = initRedis(ctx, cfg.Redis)
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, deps.Redis.Close)
	}

	deps.Bus = events.NewEventBus(deps.Logger)

	if cfg.Kafka.Enabled {
		forwarder := events.NewKafkaForwarder(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.EventsTopic))
		forwarder.Register(deps.Bus)
		deps.closers = append(deps.closers, forwarder.Close)
		deps.Logger.Info("forwarding domain events to kafka", "topic", cfg.Kafka.EventsTopic)
	}

	if cfg.Audit.Enabled {
		if err := deps.initAudit(ctx); err != nil {
			deps.Close()
			return nil, err
		}
	}

	return deps, nil
}

func (d *Dependencies) initAudit(ctx context.Context) error {
	cfg := d.Config.Audit
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect mongo: %w", err)
	}
	d.closers = append(d.closers, func() error {
		return client.Disconnect(context.Background())
	})

	store := audit.NewMongoStore(client.Database(cfg.Database).Collection(cfg.Collection))
	if err := store.EnsureIndexes(connectCtx); err != nil {
		return fmt.Errorf("failed to create audit indexes: %w", err)
	}
	audit.NewRecorder(store, d.Logger).Register(d.Bus)
	d.Logger.Info("recording domain events to mongo", "database", cfg.Database, "collection", cfg.Collection)
	return nil
}

// reportingService builds the reporting service with the archive when
// object storage is enabled.
func (d *Dependencies) reportingService() (*reporting.Service, error) {
	var opts []reporting.Option
	if s := d.Config.Storage; s.Enabled {
		archive, err := reporting.NewMinioArchive(s.Endpoint, s.AccessKey, s.SecretKey, s.UseSSL, s.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to init report archive: %w", err)
		}
		opts = append(opts, reporting.WithArchive(archive))
	}
	return reporting.NewService(reportingPostgres.NewReportRepository(d.DB), d.Logger, opts...), nil
}

// Close waits for in-flight event handlers, then releases connections in
// reverse order of creation.
func (d *Dependencies) Close() {
	if d.Bus != nil {
		d.Bus.Wait()
	}
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			d.Logger.Error("failed to close dependency", "error", err)
		}
	}
	d.closers = nil
}
