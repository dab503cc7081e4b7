// Package daemon wires configuration, logging, database and the web service
// into a running process.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/dsn"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
	"github.com/GoUserAdmin/GoUserAdmin/internal/logger"
	"github.com/GoUserAdmin/GoUserAdmin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// openDB opens a gorm connection for the configured engine.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case "mysql":
		dialector = gormmysql.Open(dsn.Create(cfg))
	case "postgres":
		dialector = gormpostgres.Open(dsn.CreatePostgres(cfg))
	case "sqlite":
		dialector = sqlite.Open(cfg.DB.Name)
	default:
		return nil, fmt.Errorf("unknown database engine: %q", cfg.DB.GormEngine)
	}

	return gorm.Open(dialector, &gorm.Config{})
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("logger init failed")
		return nil
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Permission{},
		&models.UserGroup{},
		&models.GroupPermission{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	if err = seed(db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
		return nil
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}
