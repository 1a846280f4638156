package database

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/propmarket/backend/internal/config"
	"github.com/propmarket/backend/internal/models"
	"github.com/propmarket/backend/pkg/logger"
	"github.com/propmarket/backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database without touching the schema.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch cfg.Driver {
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.Path+"?_pragma=foreign_keys(1)"), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	case "", "postgres":
		dsn := fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.SSLMode,
		)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Connect opens the database and brings the schema up to date.
func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table, converts legacy columns and adds
// the PostgreSQL check constraints, all in one transaction.
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Property{},
			&models.SaleProperty{},
			&models.RentalProperty{},
			&models.CommercialProperty{},
			&models.PlotProperty{},
			&models.Interest{},
			&models.ModerationEvent{},
		); err != nil {
			return fmt.Errorf("automigrate: %w", err)
		}

		if err := convertApprovalFlag(tx); err != nil {
			return err
		}

		if tx.Dialector.Name() != "postgres" {
			return nil
		}
		for _, c := range checkConstraints {
			if err := tx.Exec(c.statement()).Error; err != nil {
				return fmt.Errorf("constraint %s: %w", c.name, err)
			}
		}
		return nil
	})
}

// convertApprovalFlag replaces the old boolean is_approved column with the
// status column.
func convertApprovalFlag(tx *gorm.DB) error {
	if !tx.Migrator().HasColumn(&models.Property{}, "is_approved") {
		return nil
	}

	err := tx.Exec(`UPDATE properties SET status = CASE WHEN is_approved THEN 'approved' ELSE 'pending' END`).Error
	if err != nil {
		return fmt.Errorf("convert is_approved: %w", err)
	}
	if err := tx.Exec(`ALTER TABLE properties DROP COLUMN is_approved`).Error; err != nil {
		return fmt.Errorf("drop is_approved: %w", err)
	}

	logger.Info("legacy_column_converted", map[string]interface{}{
		"table":  "properties",
		"column": "is_approved",
	})
	return nil
}

type checkConstraint struct {
	name  string
	table string
	check string
}

var checkConstraints = []checkConstraint{
	{"users_credential_check", "users", "password_hash IS NOT NULL OR google_id IS NOT NULL"},
	{"properties_purpose_check", "properties", "property_purpose IN ('sale', 'rental', 'commercial', 'plot')"},
	{"properties_status_check", "properties", "status IN ('pending', 'approved', 'cancelled')"},
}

func (c checkConstraint) statement() string {
	return fmt.Sprintf(`
DO $$
BEGIN
  IF NOT EXISTS (
    SELECT 1
    FROM pg_constraint
    WHERE conname = '%s'
  ) THEN
    ALTER TABLE %s
    ADD CONSTRAINT %s
    CHECK (%s);
  END IF;
END $$;`, c.name, c.table, c.name, c.check)
}

// SeedAdmin creates the configured administrator account when it does not
// exist yet. Nothing happens without an admin email and password.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var existing models.User
	err := db.First(&existing, "email = ?", cfg.Email).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: &hash,
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Info("admin_seeded", map[string]interface{}{
		"email": admin.Email,
	})
	return nil
}
