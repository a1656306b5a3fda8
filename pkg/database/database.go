package database

import (
	"fmt"
	"log"

	"spider_edu_backend/internal/config"
	"spider_edu_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
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
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := MigrateTables(db); err != nil {
			return nil, err
		}
		seedDefaults(db)
	}

	return db, nil
}

func MigrateTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Exercise{},
		&model.Challenge{},
		&model.ChallengeSubmission{},
		&model.StudyNote{},
		&model.QuestionBank{},
		&model.Question{},
		&model.UserAnswer{},
		&model.WrongQuestion{},
		&model.ExamSession{},
		&model.StudyStats{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")
	return nil
}

// seedDefaults 空库时写入默认题目目录和默认题库
func seedDefaults(db *gorm.DB) {
	var exCount int64
	db.Model(&model.Exercise{}).Count(&exCount)
	if exCount == 0 {
		defaultExercises := []model.Exercise{
			{
				Title:           "字体反爬之基础",
				Description:     "识别并绕过基础字体反爬虫技术",
				Difficulty:      model.DifficultyBeginner,
				Status:          model.ExercisePublished,
				ChallengePoints: "字体文件分析、字符映射关系、字体替换技术",
				Tags:            `["字体反爬","字体映射","字符识别"]`,
				Points:          10,
				SortOrder:       1,
			},
			{
				Title:           "动态字体之变幻",
				Description:     "处理动态生成的字体文件",
				Difficulty:      model.DifficultyBeginner,
				Status:          model.ExercisePublished,
				ChallengePoints: "动态字体分析、字符编码规律、字体缓存机制",
				Tags:            `["动态字体","字体生成","字符映射"]`,
				Points:          15,
				SortOrder:       2,
			},
			{
				Title:           "字体加密之迷雾",
				Description:     "破解加密的字体文件",
				Difficulty:      model.DifficultyIntermediate,
				Status:          model.ExercisePublished,
				ChallengePoints: "字体解密、混淆还原、加密参数定位",
				Tags:            `["字体加密","参数逆向"]`,
				Points:          20,
				SortOrder:       3,
			},
		}
		for _, ex := range defaultExercises {
			db.Create(&ex)
		}
	}

	var bankCount int64
	db.Model(&model.QuestionBank{}).Count(&bankCount)
	if bankCount == 0 {
		db.Create(&model.QuestionBank{
			Name:        "爬虫基础知识",
			Description: "HTTP协议、请求头、Cookie与反爬基础",
			IsActive:    true,
		})
	}
}
