package database

import (
	"log/slog"
	"strings"
	"time"

	"claims-management-api/config"
	"claims-management-api/logger"
	"claims-management-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database, verifies the connection and migrates the
// schema. Any failure here is fatal to the process.
func Open(cfg config.Config) (*gorm.DB, error) {
	log := logger.New("database").Function("Open")

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	default:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}

	log.Info("Connecting with GORM", "driver", cfg.DBDriver)
	db, err := gorm.Open(dialector, gormConfig(cfg))
	if err != nil {
		return nil, log.Err("failed to open database", err, "driver", cfg.DBDriver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, log.Err("failed to get database from GORM", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, log.Err("failed to ping database", err)
	}

	if cfg.DBDriver == config.DriverSQLite {
		// SQLite allows a single writer; serialize through one connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("Database connected and migrated successfully")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return logger.New("database").Function("Migrate").Err("failed to migrate database", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormConfig(cfg config.Config) *gorm.Config {
	level := gormlogger.Warn
	if cfg.LogLevel == "debug" {
		level = gormlogger.Info
	}

	return &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		TranslateError: true,
	}
}

// OpenMemory opens a named, shared-cache in-memory SQLite database. The database lives
// as long as the returned handle.
func OpenMemory(name string) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(name)
	return Open(config.Config{
		DBDriver:    config.DriverSQLite,
		DatabaseDSN: "file:" + name + "?mode=memory&cache=shared",
	})
}
