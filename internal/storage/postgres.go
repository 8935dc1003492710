package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects gorm to PostgreSQL through the lib/pq driver and sizes the pool.
func Open(cfg config.Config, log *logrus.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        utcDSN(cfg.DatabaseURL),
	}), &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return db, nil
}

// utcDSN pins the session time zone to UTC unless the DSN already names one.
// DATE_TRUNC and CURRENT_DATE in the report queries follow the session zone
// and must agree with the UTC calendar days computed in Go.
func utcDSN(dsn string) string {
	if strings.Contains(strings.ToLower(dsn), "timezone=") {
		return dsn
	}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		q.Set("timezone", "UTC")
		u.RawQuery = q.Encode()
		return u.String()
	}
	if strings.TrimSpace(dsn) == "" {
		return "timezone=UTC"
	}
	return dsn + " timezone=UTC"
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	m := db.Migrator()
	legacyTypes := m.HasTable(&models.ComplaintType{}) && !m.HasColumn(&models.ComplaintType{}, "Queue")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Area{},
		&models.ComplaintType{},
		&models.Complaint{},
		&models.ComplaintSeen{},
	); err != nil {
		return err
	}
	if legacyTypes {
		return backfillQueues(db)
	}
	return nil
}

// backfillQueues routes default complaint types that predate the queue column
// to their proper queue, since AutoMigrate fills the new column with its default.
func backfillQueues(db *gorm.DB) error {
	for _, ct := range DefaultComplaintTypes {
		if ct.Queue == config.QueueFacilities {
			continue
		}
		err := db.Model(&models.ComplaintType{}).
			Where("type_name = ? AND queue = ?", ct.Name, config.QueueFacilities).
			Update("queue", ct.Queue).Error
		if err != nil {
			return fmt.Errorf("backfill queue for %q: %w", ct.Name, err)
		}
	}
	return nil
}

// IsUniqueViolation checks for unique constraint errors from Postgres or from
// a dialect that translates them (SQLite in tests).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
