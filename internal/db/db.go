package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/SonrisaDental01/clinic-scheduler/internal/config"
	"github.com/SonrisaDental01/clinic-scheduler/internal/models"
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

	if err := db.AutoMigrate(
		&models.Location{},
		&models.Service{},
		&models.User{},
		&models.ReferralCode{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedReferenceData(db)

	return db
}

// seedReferenceData deja sucursales y servicios base en una instalación
// nueva; en producción el personal los mantiene directo en la base.
func seedReferenceData(db *gorm.DB) {
	var locations int64
	db.Model(&models.Location{}).Count(&locations)
	if locations == 0 {
		db.Create(&[]models.Location{
			{
				Name:    "Sonrisa Dental Tepic",
				Slug:    "tepic",
				Address: "Av. México 245 Nte., Centro, Tepic, Nayarit",
				Phone:   "311-212-0000",
			},
			{
				Name:    "Sonrisa Dental Xalisco",
				Slug:    "xalisco",
				Address: "Calle Hidalgo 18, Centro, Xalisco, Nayarit",
				Phone:   "311-211-0000",
			},
		})
	}

	var services int64
	db.Model(&models.Service{}).Count(&services)
	if services == 0 {
		db.Create(&[]models.Service{
			{Name: "Valoración general", NameEN: "General checkup", Active: true},
			{Name: "Limpieza dental", NameEN: "Dental cleaning", Active: true},
			{Name: "Blanqueamiento", NameEN: "Whitening", Active: true},
			{Name: "Ortodoncia", NameEN: "Orthodontics", Active: true},
			{Name: "Endodoncia", NameEN: "Root canal", Active: true},
		})
	}
}
