package postgres

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xy-planning-network/golink"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PG Docs: https://www.postgresql.org/docs/current/libpq-connect.html#LIBPQ-PARAMKEYWORDS
const cxnStr = "host=%s port=%s dbname=%s user=%s password=%s sslmode=%s"

// CxnConfig holds connection information used to connect to a PostgreSQL database.
type CxnConfig struct {
	IsTestDB    bool
	MaxIdleCxns int
	URL         string
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	SSLMode     string
}

// Connect opens a database connection through GORM according to config and runs migrations.
func Connect(config *CxnConfig, migrations []Migration, env golink.Environment) (*DB, error) {
	// https://gorm.io/docs/logger.html
	c := logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  env.IsDevelopment(),
	}

	gdb, err := gorm.Open(postgres.Open(buildCxnStr(config)), &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), c),
		NowFunc: func() time.Time {
			return time.Now().UTC().Truncate(time.Microsecond)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %s", golink.ErrBadConfig, err)
	}

	if config.MaxIdleCxns > 0 {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
		}
		sqlDB.SetMaxIdleConns(config.MaxIdleCxns)
	}

	if config.IsTestDB {
		if err := gdb.Exec("DROP SCHEMA IF EXISTS public CASCADE;").Error; err != nil {
			return nil, fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
		}
	}

	if err := MigrateUp(gdb, "public", migrations); err != nil {
		return nil, err
	}

	return NewDB(gdb), nil
}

func buildCxnStr(config *CxnConfig) string {
	if config.URL != "" {
		return config.URL
	}

	if config.SSLMode == "" {
		// PG Docs: https://www.postgresql.org/docs/current/libpq-ssl.html#LIBPQ-SSL-SSLMODE-STATEMENTS
		config.SSLMode = "prefer"
	}

	return fmt.Sprintf(
		cxnStr,
		config.Host,
		config.Port,
		config.Name,
		config.User,
		config.Password,
		config.SSLMode,
	)
}

// WipeDB truncates every table in schema.
func WipeDB(db *DB, schema string) error {
	var tables []string
	err := db.DB().
		Table("information_schema.tables").
		Select("table_name").
		Where("table_schema = ?", schema).
		Not("table_type = ?", "VIEW").
		Not("table_name = ?", migrationsTable).
		Pluck("table_name", &tables).
		Error
	if err != nil {
		return fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
	}

	if len(tables) == 0 {
		return nil
	}

	err = db.DB().Exec(fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE;", strings.Join(tables, ", "))).Error
	if err != nil {
		return fmt.Errorf("%w: %s", golink.ErrUnexpected, err)
	}

	return nil
}
