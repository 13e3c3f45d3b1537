// Package repositories provides the data access layer. It owns the
// database connection, schema migration, and the DataStore contract
// the core services run against.
package repositories

import (
	"log"
	"os"
	"time"

	"lendcore/internal/config"
	"lendcore/internal/models"
	"lendcore/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// Cache is the shared redis-backed cache service.
var Cache *cache.Service

// InitDB initializes the postgres connection, applies migrations and
// connects redis.
func InitDB() error {
	if err := initPostgres(); err != nil {
		return err
	}

	redisClient := cache.NewRedisClient(&cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	Cache = cache.NewService(redisClient, config.GetDurationEnv("CACHE_TTL", 12*time.Hour))

	return DB.AutoMigrate(
		&models.Issuer{},
		&models.Agent{},
		&models.Borrower{},
		&models.Loan{},
		&models.Installment{},
		&models.CapitalSnapshot{},
		&models.CollectionRecord{},
		&models.DayCloseLog{},
		&models.RiskProfile{},
		&models.RiskThreshold{},
	)
}

func initPostgres() error {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "lendcore") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  !config.IsProduction(),
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour))
	sqlDB.SetConnMaxIdleTime(config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute))

	DB = db
	log.Println("postgres connected")
	return nil
}
