package db

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/barbierimoderni/booking-api/internal/config"
	"github.com/barbierimoderni/booking-api/internal/domain/schedule"
	"github.com/barbierimoderni/booking-api/internal/models"
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

	Seed(db, cfg)

	return db
}

// Migrate is split out so the test suite can run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Barber{},
		&models.Service{},
		&models.Booking{},
		&models.BarberSchedule{},
		&models.RecurringClosure{},
		&models.DateClosure{},
		&models.RemovedAutoClosure{},
		&models.WaitlistEntry{},
		&models.AuditLog{},
	)
}

// Seed provisions the fixed staff roster and the shop defaults. Every write
// is idempotent; running it on a populated database changes nothing.
func Seed(db *gorm.DB, cfg *config.Config) {
	seedBarber(db, "michele", "michele@barbierimoderni.it", "admin", cfg)
	seedBarber(db, "fabio", "fabio@barbierimoderni.it", "barber", cfg)

	seedService(db, "Taglio", "Haircut", 30, 18)
	seedService(db, "Barba", "Beard trim", 30, 12)
	seedService(db, "Taglio e barba", "Haircut and beard", 60, 28)

	// The shop starts closed on Sundays. Clearing weekday 0 from the
	// shop-wide recurring set reopens them.
	db.Where(models.RecurringClosure{
		BarberID: schedule.ShopBarberID,
		Weekday:  0,
	}).FirstOrCreate(&models.RecurringClosure{
		BarberID: schedule.ShopBarberID,
		Weekday:  0,
	})
}

func seedBarber(db *gorm.DB, name, email, role string, cfg *config.Config) {
	var existing models.Barber
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		return
	}

	password := name + "-" + cfg.JWTSecret
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("seed: could not hash password for %s: %v", email, err)
		return
	}

	db.Create(&models.Barber{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
	})
}

func seedService(db *gorm.DB, name, description string, durationMin int, price float64) {
	var existing models.Service
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		return
	}

	db.Create(&models.Service{
		Name:        name,
		Description: description,
		DurationMin: durationMin,
		Price:       price,
		Active:      true,
	})
}
