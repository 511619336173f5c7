package database

import (
	"fmt"
	"time"

	"github.com/sangkips/fnb-pos/internal/config"
	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), GormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Log.Info("Successfully connected to PostgreSQL database")
	return db, nil
}

// GormConfig is shared by every dialect. Duplicate-key errors are translated
// to gorm.ErrDuplicatedKey so repositories do not depend on driver codes.
func GormConfig(debug bool) *gorm.Config {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.New(logger.Log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	}
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	logger.Log.Info("Running database migrations...")

	err := db.AutoMigrate(
		// Catalog
		&entity.Product{},
		&entity.ClassificationGroup{},
		&entity.ClassificationOption{},

		// Loyalty
		&entity.Customer{},

		// Sales
		&entity.Order{},
		&entity.OrderItem{},
		&entity.ReceiptSequence{},
		&entity.PaymentNotification{},

		// System entities
		&entity.IdempotencyKey{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := InstallOrderGuards(db); err != nil {
			return err
		}
	}

	logger.Log.Info("Database migrations completed successfully")
	return nil
}

const orderGuardSQL = `
CREATE OR REPLACE FUNCTION orders_guard_transition() RETURNS trigger AS $$
BEGIN
	IF TG_OP = 'UPDATE' AND OLD.status IN ('completed', 'cancelled') AND NEW.status <> OLD.status THEN
		RAISE EXCEPTION 'order % is % and cannot become %', OLD.order_number, OLD.status, NEW.status
			USING ERRCODE = 'check_violation';
	END IF;
	IF NEW.status <> 'completed' THEN
		NEW.income_receipt_code := NULL;
		NEW.paid_at := NULL;
	END IF;
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS orders_guard_transition ON orders;

CREATE TRIGGER orders_guard_transition
	BEFORE INSERT OR UPDATE ON orders
	FOR EACH ROW EXECUTE FUNCTION orders_guard_transition();
`

// InstallOrderGuards installs the trigger that makes completed and cancelled
// orders terminal and strips receipt data from orders that are not completed.
func InstallOrderGuards(db *gorm.DB) error {
	if err := db.Exec(orderGuardSQL).Error; err != nil {
		return fmt.Errorf("failed to install order guards: %w", err)
	}
	return nil
}
