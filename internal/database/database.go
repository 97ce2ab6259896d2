package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"weddingmarket/internal/domain"
)

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Connect opens PostgreSQL for postgres:// DSNs and SQLite otherwise.
func Connect(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	if IsPostgres(dsn) {
		log.Info("connecting to PostgreSQL")
		return gorm.Open(postgres.Open(dsn), cfg)
	}

	log.Info("using SQLite", zap.String("dsn", dsn))
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		cfg,
	)
	if err != nil {
		return nil, err
	}

	// one connection: SQLite serializes writers, and :memory: is per connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

var models = []any{
	&domain.User{},
	&domain.Template{},
	&domain.Package{},
	&domain.JobPost{},
	&domain.JobApplication{},
	&domain.PackageInquiry{},
	&domain.Order{},
	&domain.PackageInquireStaff{},
	&domain.WebhookEvent{},
	&domain.InvitationContent{},
	&domain.RSVP{},
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// one completed purchase per user and template
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_completed_template
		ON orders (user_id, template_id)
		WHERE status = 'Completed' AND template_id IS NOT NULL`).Error; err != nil {
		return fmt.Errorf("create completed template index: %w", err)
	}
	return nil
}
