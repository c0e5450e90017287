package config

import (
	"fmt"
	"log"
	"os"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetR2Config() *R2Config {
	return &R2Config{
		AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          "auto",
	}
}

func InitDB() *gorm.DB {
	dbHost := os.Getenv("DB_HOST")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost, dbUser, dbPassword, dbName, dbPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto Migrate models
	db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Site{},
		&models.Itinerary{},
		&models.ItineraryItem{},
		&models.JournalEntry{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Discovery{},
		&models.DiscoveryLike{},
	)

	seedBadgeCatalog(db)

	return db
}

// seedBadgeCatalog inserts any catalog badges not present yet; existing rows
// are left alone so operator edits survive restarts.
func seedBadgeCatalog(db *gorm.DB) {
	for _, badge := range services.DefaultBadgeCatalog() {
		if err := db.Where(models.Badge{Code: badge.Code}).FirstOrCreate(&badge).Error; err != nil {
			log.Printf("seeding badge %s: %v", badge.Code, err)
		}
	}
}
