package db

import (
	"fmt"
	"strings"

	"github.com/smallbiznis/taskora/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect builds the gorm dialector for the configured database type.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	switch cfg.DBType {
	case "mysql":
		return mysql.Open(mysqlDSN(cfg)), nil
	case "postgres":
		return postgres.Open(postgresDSN(cfg)), nil
	case "sqlite":
		return sqlite.Open(sqlitePath(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

func mysqlDSN(cfg config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
	)
}

func postgresDSN(cfg config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBSSLMode,
	)
}

// sqlitePath derives the database file from the configured name so a
// single-binary install can relocate it via DATABASE_NAME.
func sqlitePath(cfg config.Config) string {
	name := strings.TrimSpace(cfg.DBName)
	if name == "" {
		name = "taskora"
	}
	if !strings.HasSuffix(name, ".db") {
		name += ".db"
	}
	return name
}
