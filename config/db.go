package config

import (
	"errors"
	"fmt"
	stdlog "log"
	"net/url"
	"strings"
	"time"

	"hotel-ops/models"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Migrate creates or updates the entity tables, parents before children.
// Reservations and bills carry cascading foreign keys to their parents.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Guest{},
		&models.Reservation{},
		&models.Bill{},
	)
}

// SeedDatabase creates the default admin when the users table is empty.
func SeedDatabase(db *gorm.DB, auth AuthConfig, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if auth.AdminPassword == "" {
		log.Warn().Msg("no users exist and ADMIN_PASSWORD is empty; skipping default admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}
	admin := models.User{
		Username:       auth.AdminUsername,
		HashedPassword: string(hash),
		Role:           models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("create default admin: %w", err)
	}
	log.Info().Str("username", admin.Username).Msg("default admin seeded")
	return nil
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// ResolveMySQLDSN prefers a full URL (mysql://... or a raw DSN) and falls
// back to the discrete connection fields.
func ResolveMySQLDSN(cfg DatabaseConfig) (string, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
	), nil
}

// GormLogger routes gorm's query log through zerolog.
func GormLogger(log zerolog.Logger) logger.Interface {
	return logger.New(
		stdlog.New(log.With().Str("component", "gorm").Logger(), "", 0),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func ConnectDatabase(cfg *Config, log zerolog.Logger) (*gorm.DB, error) {
	dsn, err := ResolveMySQLDSN(cfg.Database)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         GormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := SeedDatabase(db, cfg.Auth, log); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return db, nil
}
