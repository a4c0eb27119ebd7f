package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"backend_assetflow/models"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// CreateDatabaseIfNotExists creates the application database when missing.
func CreateDatabaseIfNotExists() error {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "assetflow_db")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// Connect to the default postgres database for the admin check
	adminDSN := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		host, port, user, password, sslmode)

	db, err := sql.Open("postgres", adminDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	var exists bool
	query := "SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = $1);"
	err = db.QueryRow(query, dbname).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check database existence: %w", err)
	}

	if exists {
		log.Printf("Database '%s' already exists", dbname)
		return nil
	}

	createQuery := fmt.Sprintf("CREATE DATABASE %s;", dbname)
	_, err = db.Exec(createQuery)
	if err != nil {
		return fmt.Errorf("failed to create database '%s': %w", dbname, err)
	}

	log.Printf("Database '%s' created", dbname)
	return nil
}

// ConnectDatabase establishes the PostgreSQL connection used by the whole process.
func ConnectDatabase() error {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "assetflow_db")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to PostgreSQL")

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	if err := CreateIndexes(DB); err != nil {
		log.Printf("Warning: failed to create performance indexes: %v", err)
	}

	return nil
}

// getEnv returns an environment variable or the given default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return DB
}

// autoMigrate migrates all registered models.
func autoMigrate() error {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Asset{},
		&models.Assignment{},
		&models.MaintenanceRecord{},
		// Register new models here
	)

	if err != nil {
		return err
	}

	log.Println("Model auto-migration completed")
	return nil
}
