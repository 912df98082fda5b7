package database

import (
	"aviation_exam_backend/internal/config"
	"aviation_exam_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// 唯一约束冲突归一为 gorm.ErrDuplicatedKey，业务层据此返回 Conflict
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.ExamPaper{},
		&model.ExamModule{},
		&model.McqQuestion{},
		&model.McqChoice{},
		&model.McqResponse{},
		&model.RetellItem{},
		&model.RetellResponse{},
		&model.LsaDialog{},
		&model.LsaQuestion{},
		&model.LsaResponse{},
		&model.AtcScenario{},
		&model.AtcTurn{},
		&model.AtcTurnResponse{},
		&model.OpiTopic{},
		&model.OpiQuestion{},
		&model.OpiResponse{},
		&model.ExamRecord{},
		&model.MediaAsset{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}
