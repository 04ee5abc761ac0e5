package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gravity/internal/config"
	"gravity/internal/logger"
)

// Open 根据配置打开数据库连接，默认使用本地 SQLite 文件
func Open(cfg config.DatabaseConfig, log logger.Logger) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: newGormLogger(log)}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.GetDSN()), gcfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("postgres pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		return db, nil
	case config.DriverSQLite, "":
		return OpenSQLite(cfg.Path, gcfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func OpenSQLite(dbPath string, gcfg *gorm.Config) (*gorm.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: gormlogger.Discard}
	}

	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), gcfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	// SQLite 单写者
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// gormWriter routes gorm's printf-style output into the structured logger.
type gormWriter struct {
	log logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(fmt.Sprintf(format, args...), map[string]interface{}{"component": "gorm"})
}

func newGormLogger(log logger.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(gormWriter{log: log}, gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
