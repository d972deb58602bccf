package database

import (
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	timeZone := cfg.TimeZone
	if timeZone == "" {
		timeZone = "UTC"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host,
		cfg.User,
		cfg.Password,
		cfg.DBName,
		cfg.Port,
		sslMode,
		timeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Topic{},
		&model.Book{},
		&model.SkillMapEntry{},
		&model.UserTopic{},
		&model.UserProgress{},
		&model.UserGraph{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认主题目录（首次启动时写入）
	var count int64
	db.Model(&model.Topic{}).Count(&count)
	if count == 0 {
		defaultTopics := []model.Topic{
			{Title: "Rust", Icon: "🦀", Description: "Systems programming with memory safety"},
			{Title: "Go", Icon: "🐹", Description: "Simple, fast backend development"},
			{Title: "Python", Icon: "🐍", Description: "General purpose scripting and data work"},
			{Title: "JavaScript", Icon: "🟨", Description: "Web development from front to back"},
			{Title: "Machine Learning", Icon: "🤖", Description: "Models, training and inference"},
		}
		for _, t := range defaultTopics {
			db.Create(&t)
		}
	}

	return db, nil
}
