package database

import (
	"database/sql"
	"errors"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/stockroom/internal/models"
	"github.com/example/stockroom/internal/utils"
)

// Connect initializes the database connection and runs migrations.
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey;
// the store relies on that to arbitrate create-or-get races.
func Connect(dsn string) *gorm.DB {
	if err := ensureDatabase(dsn); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure database")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	return conn
}

func migrate(conn *gorm.DB) error {
	// One call so gorm can order the cascade foreign keys across tables.
	return conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Material{},
		&models.Product{},
		&models.ProductMedia{},
	)
}

// SeedAdmin creates the admin account named by ADMIN_EMAIL/ADMIN_PASSWORD if
// it does not exist yet. Failures are logged and skipped; the step is
// idempotent and retried on next startup.
func SeedAdmin(conn *gorm.DB, email, password string) {
	if email == "" || password == "" {
		return
	}

	var existing models.User
	err := conn.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Err(err).Msg("seed admin lookup failed")
		return
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		log.Warn().Err(err).Msg("seed admin hash failed")
		return
	}

	admin := models.User{Email: email, PasswordHash: passwordHash, Role: models.RoleAdmin}
	if err := conn.Create(&admin).Error; err != nil {
		log.Warn().Err(err).Msg("seed admin create failed")
		return
	}

	log.Info().Str("email", email).Msg("seeded admin account")
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
