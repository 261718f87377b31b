package main

import (
	"flag"
	"log"

	"github.com/ourmemory/ourmemory-backend/internal/config"
	"github.com/ourmemory/ourmemory-backend/internal/migration"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Migration actions
const (
	actionUp          = "up"
	actionDown        = "down"
	actionVersion     = "version"
	actionAutoMigrate = "automigrate"
)

func main() {
	configPath := flag.String("config", "configs/config.local.yaml", "config file path")
	action := flag.String("action", actionUp, "migration action: up, down, version, automigrate")
	steps := flag.Int("steps", 1, "number of migrations to roll back (down)")
	verbose := flag.Bool("verbose", false, "verbose SQL logging (automigrate)")
	flag.Parse()

	config.LoadDotEnv()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	url := cfg.Database.GetMigrateURL()

	switch *action {
	case actionUp:
		if err := migration.Up(url); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		printVersion(url)

	case actionDown:
		if *steps < 1 {
			log.Fatalf("steps must be >= 1")
		}
		if err := migration.Down(url, *steps); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		printVersion(url)

	case actionVersion:
		printVersion(url)

	case actionAutoMigrate:
		// 로컬 개발용: SQL 파일 대신 gorm 모델 기준으로 스키마 동기화
		logLevel := gormlogger.Warn
		if *verbose {
			logLevel = gormlogger.Info
		}
		db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to get underlying DB: %v", err)
		}
		defer sqlDB.Close()

		if err := migration.AutoMigrate(db); err != nil {
			log.Fatalf("AutoMigrate failed: %v", err)
		}
		log.Println("AutoMigrate completed")

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

func printVersion(url string) {
	version, dirty, err := migration.Version(url)
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	log.Printf("Schema version: %d (dirty=%v)", version, dirty)
}
