package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sahilchouksey/uni-admin-api/config"
	"github.com/sahilchouksey/uni-admin-api/model"
)

// Storage is the interface the transport layer depends on
type Storage interface {
	Init() error
	Close() error
	HealthCheck() error
	GetDB() interface{}
}

type GORMStore struct {
	db *gorm.DB
}

// StartGORM opens a GORM connection to the embedded SQLite database file.
// WAL mode plus a busy timeout covers the low-concurrency administrative
// write pattern; the application does no locking of its own.
func StartGORM() (*GORMStore, error) {
	getEnv, err := config.Get()
	if err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", getEnv.DB_PATH)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if getEnv.GO_ENV == "production" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: false,
	})
	if err != nil {
		log.Println("Unable to open SQLite database with GORM:", err)
		return nil, err
	}

	// SQLite is single-writer; keep the pool at one connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	log.Println("Successfully opened SQLite database with GORM.")

	return &GORMStore{db: db}, nil
}

// Init runs the AutoMigrate to create/update tables
func (s *GORMStore) Init() error {
	log.Println("Running GORM AutoMigrate for all models...")

	err := s.db.AutoMigrate(
		// Administrative accounts
		&model.User{},

		// Organizational hierarchy
		&model.Faculty{},
		&model.Major{},

		// Curriculum models
		&model.Program{},
		&model.Course{},
		&model.KnowledgeBlock{},
		&model.ProgramKnowledgeBlock{},
		&model.ProgramCourse{},

		// Audit & logging models
		&model.CronJobLog{},
		&model.AdminAuditLog{},
	)

	if err != nil {
		log.Println("Error running AutoMigrate:", err)
		return err
	}

	log.Println("GORM AutoMigrate completed successfully!")
	return nil
}

// Close closes the database connection
func (s *GORMStore) Close() error {
	log.Println("Closing SQLite connection...")
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the GORM DB instance for use in services/handlers
func (s *GORMStore) GetDB() interface{} {
	return s.db
}

// HealthCheck verifies the database connection is alive
func (s *GORMStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
