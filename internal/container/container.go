package container

import (
	"context"
	"fmt"

	"tabscout/adapters/db"
	"tabscout/internal"
	"tabscout/internal/api"
	"tabscout/internal/config"
	"tabscout/internal/dataset"
	"tabscout/internal/migration"
	"tabscout/internal/profiling"
	"tabscout/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	ProfileRepo ports.ProfileRepository
	Profiler    *profiling.Profiler
	FileStorage *dataset.LocalFileStorage
	Processor   *dataset.Processor
	Events      *api.EventHub
	Server      *api.Server
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Container{Config: cfg, Logger: logger.Component("Container")}, nil
}

// InitWithDatabase opens the configured database, applies migrations and
// builds every component that depends on the store.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	conn, err := db.Open(ctx, c.Config.Database.Driver, c.Config.Database.URL)
	if err != nil {
		return err
	}
	return c.InitWith(ctx, conn)
}

// InitWith wires the container around an already opened connection.
func (c *Container) InitWith(ctx context.Context, conn *sqlx.DB) error {
	if conn == nil {
		return fmt.Errorf("database connection cannot be nil")
	}
	c.DB = conn

	if err := migration.NewRunner().Run(ctx, conn); err != nil {
		return err
	}

	c.ProfileRepo = db.NewProfileRepository(conn)
	c.Profiler = profiling.NewProfiler(ProfilerConfig(c.Config), c.Logger)

	storageConfig := StorageConfig(c.Config)
	c.FileStorage = dataset.NewLocalFileStorage(storageConfig)
	c.Processor = dataset.NewProcessorWithConfig(c.Profiler, c.ProfileRepo, c.FileStorage, c.Logger, storageConfig)

	c.Events = api.NewEventHub()
	c.Server = api.NewServer(c.Processor, c.Events, c.Logger)

	c.Logger.Info("initialized with %s store", c.Config.Database.Driver)
	return nil
}

// ProfilerConfig maps the profiling section of the application config.
func ProfilerConfig(cfg *config.Config) profiling.Config {
	return profiling.Config{
		SampleWindow:        cfg.Profiling.SampleWindow,
		PreviewRows:         cfg.Profiling.PreviewRows,
		IntegritySampleRows: cfg.Profiling.IntegritySampleRows,
		Workers:             cfg.Profiling.Workers,
	}
}

// StorageConfig maps the storage section onto the upload pipeline defaults.
func StorageConfig(cfg *config.Config) *dataset.StorageConfig {
	sc := dataset.DefaultStorageConfig()
	if cfg.Storage.BasePath != "" {
		sc.BasePath = cfg.Storage.BasePath
	}
	if cfg.Storage.MaxFileSize > 0 {
		sc.MaxFileSize = cfg.Storage.MaxFileSize
	}
	sc.KeepUploads = cfg.Storage.KeepUploads
	return sc
}

// Close releases the event hub and the database connection.
func (c *Container) Close() error {
	if c.Events != nil {
		c.Events.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
