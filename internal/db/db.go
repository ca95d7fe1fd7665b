package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/frailin-studio/booking-api/internal/config"
	"github.com/frailin-studio/booking-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	installOverlapConstraint(db)

	return db
}

// Migrate crea/actualiza el esquema. Separado de NewDB para poder
// reutilizarlo con la base en memoria de los tests.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Service{},
		&models.BarberSchedule{},
		&models.ScheduleOverride{},
		&models.Appointment{},
		&models.BlockedInterval{},
		&models.WaitlistEntry{},
		&models.AuditLog{},
	)
}

// installOverlapConstraint instala el constraint de exclusión que
// impide, a nivel de base, dos citas activas solapadas del mismo
// barbero. Es el respaldo multi-proceso del mutex por barbero.
func installOverlapConstraint(db *gorm.DB) {
	db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`)

	db.Exec(`
        DO $$
        BEGIN
            ALTER TABLE appointments
                ADD CONSTRAINT appointments_no_overlap
                EXCLUDE USING gist (
                    barber_id WITH =,
                    tsrange(start_time, end_time) WITH &&
                )
                WHERE (status IN ('PENDING', 'CONFIRMED'));
        EXCEPTION
            WHEN duplicate_object THEN NULL;
            WHEN duplicate_table THEN NULL;
        END
        $$
    `)
}
