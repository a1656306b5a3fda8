package model

import (
	"time"
)

// 题型常量
const (
	QuestionTypeSingle = "单选题"
	QuestionTypeMulti  = "多选题"
	QuestionTypeBool   = "判断题"
	QuestionTypeFill   = "填空题"
	QuestionTypeEssay  = "问答题"
)

// QuestionBank 题库
// swagger:model QuestionBank
type QuestionBank struct {
	BaseModel
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`

	// 查询时填充，不落库
	QuestionCount int64 `gorm:"-" json:"question_count"`
}

func (QuestionBank) TableName() string {
	return "question_banks"
}

// Question 题库中的一道题
// swagger:model Question
type Question struct {
	BaseModel
	BankID      uint   `gorm:"not null;index" json:"bank_id"`
	Type        string `gorm:"size:20;not null" json:"type"` // 单选题、多选题、判断题、填空题、问答题
	Question    string `gorm:"type:text;not null" json:"question"`
	Options     string `gorm:"type:json" json:"options"`
	Answer      string `gorm:"type:text;not null" json:"answer"`
	Explanation string `gorm:"type:text" json:"explanation"`
	Score       int    `gorm:"default:1" json:"score"`
	Difficulty  string `gorm:"size:20;default:'简单'" json:"difficulty"` // 简单、中等、困难
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

func (Question) TableName() string {
	return "questions"
}

// UserAnswer 用户答题记录
// swagger:model UserAnswer
type UserAnswer struct {
	BaseModel
	UserID     uint   `gorm:"not null;index" json:"user_id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Answer     string `gorm:"type:text" json:"answer"`
	IsCorrect  bool   `json:"is_correct"`
	Score      int    `gorm:"default:0" json:"score"`
	TimeSpent  int    `gorm:"default:0" json:"time_spent"` // 用时（秒）
	SessionID  string `gorm:"size:100;index" json:"session_id"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}

// WrongQuestion 错题集
// swagger:model WrongQuestion
type WrongQuestion struct {
	BaseModel
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	QuestionID  uint       `gorm:"not null;index" json:"question_id"`
	UserAnswer  string     `gorm:"type:text" json:"user_answer"`
	WrongCount  int        `gorm:"default:1" json:"wrong_count"`
	LastWrongAt time.Time  `json:"last_wrong_at"`
	IsMastered  bool       `gorm:"default:false" json:"is_mastered"`
	MasteredAt  *time.Time `json:"mastered_at,omitempty"`

	Question Question `gorm:"foreignKey:QuestionID" json:"question"`
}

func (WrongQuestion) TableName() string {
	return "wrong_questions"
}

// ExamSession 考试/刷题会话
// swagger:model ExamSession
type ExamSession struct {
	BaseModel
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	BankID            uint       `gorm:"not null;index" json:"bank_id"`
	SessionID         string     `gorm:"size:100;uniqueIndex;not null" json:"session_id"`
	ExamType          string     `gorm:"size:20;not null" json:"exam_type"` // exam（考试）、practice（刷题）
	TotalQuestions    int        `gorm:"not null" json:"total_questions"`
	AnsweredQuestions int        `gorm:"default:0" json:"answered_questions"`
	CorrectQuestions  int        `gorm:"default:0" json:"correct_questions"`
	TotalScore        int        `gorm:"default:0" json:"total_score"`
	UserScore         int        `gorm:"default:0" json:"user_score"`
	TimeLimit         *int       `json:"time_limit,omitempty"` // 秒
	TimeSpent         int        `gorm:"default:0" json:"time_spent"`
	IsCompleted       bool       `gorm:"default:false" json:"is_completed"`
	StartedAt         time.Time  `json:"started_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func (ExamSession) TableName() string {
	return "exam_sessions"
}

// StudyStats 用户在某个题库下的学习统计
// swagger:model StudyStats
type StudyStats struct {
	BaseModel
	UserID            uint       `gorm:"not null;index;uniqueIndex:uk_user_bank,priority:1" json:"user_id"`
	BankID            uint       `gorm:"not null;index;uniqueIndex:uk_user_bank,priority:2" json:"bank_id"`
	TotalQuestions    int        `gorm:"default:0" json:"total_questions"`
	AnsweredQuestions int        `gorm:"default:0" json:"answered_questions"`
	CorrectQuestions  int        `gorm:"default:0" json:"correct_questions"`
	TotalScore        int        `gorm:"default:0" json:"total_score"`
	StudyTime         int        `gorm:"default:0" json:"study_time"` // 秒
	LastStudyAt       *time.Time `json:"last_study_at,omitempty"`
}

func (StudyStats) TableName() string {
	return "study_stats"
}
