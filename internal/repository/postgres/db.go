package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/repository"
)

// NewConnection opens a Postgres connection pool
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRepositories creates the Postgres-backed repositories. The Redis-backed
// stores (cart, wishlist, compare) are attached by the caller.
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Product:      NewProductRepository(db, logger),
		Order:        NewOrderRepository(db, logger),
		User:         NewUserRepository(db, logger),
		Verification: NewVerificationRepository(db, logger),
		Notification: NewNotificationRepository(db, logger),
	}
}
