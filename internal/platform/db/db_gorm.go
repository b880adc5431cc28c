// Package db はGORM接続の生成とマイグレーションを提供します。
package db

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// サポートするドライバー
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver       string
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	InstanceName string // Cloud SQL の接続名。設定時はUnixソケット接続
	SQLitePath   string
}

// LoadConfigFromEnv は環境変数から接続設定を読み込みます。
// DB_DRIVER 未指定時は postgres、SQLITE_PATH 未指定時は declutter.db を使います。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:       strings.ToLower(os.Getenv("DB_DRIVER")),
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "declutter.db"
	}
	return cfg
}

// BuildDSN はMySQL用のDSNを組み立てます。
// clientFoundRows=true により、値が変わらないUPDATEも一致行として数えられます。
func BuildDSN(cfg Config) string {
	const params = "charset=utf8mb4&parseTime=true&loc=Local&clientFoundRows=true"
	if cfg.InstanceName != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?%s",
			cfg.User, cfg.Password, cfg.InstanceName, cfg.Name, params)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, params)
}

// BuildPostgresDSN はPostgreSQL用のキーワード形式DSNを組み立てます。
func BuildPostgresDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, cfg.User, cfg.Password, cfg.Name, port)
}

// BuildSQLiteDSN enables foreign key enforcement, which SQLite leaves off by default.
func BuildSQLiteDSN(cfg Config) string {
	return "file:" + cfg.SQLitePath + "?_foreign_keys=on"
}

// slowQueryThreshold を超えたクエリは警告として記録されます。
const slowQueryThreshold = 200 * time.Millisecond

// GormConfig はアプリ共通のgorm設定を返します。
// ErrRecordNotFound は通常のNotFoundとして扱うためログに出しません。
func GormConfig(w io.Writer) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
	}
}

// Opener returns the DSN and a gorm opener for the configured driver.
func Opener(cfg Config) (string, func(dsn string) (*gorm.DB, error), error) {
	gcfg := GormConfig(os.Stdout)
	switch cfg.Driver {
	case DriverPostgres:
		return BuildPostgresDSN(cfg), func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case DriverMySQL:
		return BuildDSN(cfg), func(dsn string) (*gorm.DB, error) {
			return gorm.Open(gmysql.Open(dsn), gcfg)
		}, nil
	case DriverSQLite:
		return BuildSQLiteDSN(cfg), func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	default:
		return "", nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// ConnectWithRetry はtimeoutまで retryInterval 間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従って接続し、最大60秒リトライします。
func OpenDB(cfg Config) (*gorm.DB, error) {
	dsn, opener, err := Opener(cfg)
	if err != nil {
		return nil, err
	}
	return ConnectWithRetry(dsn, 60*time.Second, opener)
}

// Migrate はRUN_MIGRATIONSに関係なく与えられたモデルをAutoMigrateします。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// ShouldMigrate はRUN_MIGRATIONSを読みます。未設定の場合はSQLiteのみtrueです。
func ShouldMigrate(cfg Config) bool {
	switch os.Getenv("RUN_MIGRATIONS") {
	case "true":
		return true
	case "false":
		return false
	default:
		return cfg.Driver == DriverSQLite
	}
}
