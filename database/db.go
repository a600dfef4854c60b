package database

import (
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the library database. The default is a local SQLite file
// (this is a desktop companion service); DB_DRIVER=postgres switches to a
// server deployment.
func Connect() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch os.Getenv("DB_DRIVER") {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			envDefault("DB_HOST", "localhost"),
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			envDefault("DB_NAME", "teralib"),
			envDefault("DB_PORT", "5432"))
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(envDefault("DB_PATH", "teralib.db")), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	DB = db
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
