package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aitutorhq/ai-tutor-api/model"
)

// Storage defines the database operations contract
type Storage interface {
	Init() error
	Close() error
	GetDB() *gorm.DB
	HealthCheck() error
}

// GORMStore implements Storage using GORM with PostgreSQL
type GORMStore struct {
	db  *gorm.DB
	dsn string
}

// NewGORMStore creates a new GORM-backed store
func NewGORMStore(dsn string) *GORMStore {
	return &GORMStore{dsn: dsn}
}

// Init connects to the database and runs migrations
func (s *GORMStore) Init() error {
	db, err := gorm.Open(postgres.Open(s.dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	s.db = db

	if err := s.migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database connection established and migrations complete")
	return nil
}

func (s *GORMStore) migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.TutorApplication{},
		&model.Course{},
		&model.Question{},
		&model.ChatLog{},
		&model.JWTTokenBlacklist{},
		&model.CronJobLog{},
	)
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the underlying GORM instance
func (s *GORMStore) GetDB() *gorm.DB {
	return s.db
}

// HealthCheck verifies database connectivity
func (s *GORMStore) HealthCheck() error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
