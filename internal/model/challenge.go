package model

import (
	"time"
)

// Challenge 每个用户在某道题目下的数字挑战状态。
// 数字表本身由 (user_id, exercise_id) 确定性推导，不落库，只保存完成状态。
// swagger:model Challenge
type Challenge struct {
	BaseModel
	UserID      uint       `gorm:"not null;index;uniqueIndex:uk_user_exercise,priority:1" json:"user_id"`
	ExerciseID  uint       `gorm:"not null;index;uniqueIndex:uk_user_exercise,priority:2" json:"exercise_id"`
	IsCompleted bool       `gorm:"not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Attempts    int        `gorm:"not null;default:0" json:"attempts"`
	BestTime    *int       `json:"best_time,omitempty"` // 最佳完成时间（秒）
	Score       *int       `json:"score,omitempty"`     // 获得的积分
}

func (Challenge) TableName() string {
	return "challenges"
}

// ChallengeSubmission 一次求和答案提交记录
// swagger:model ChallengeSubmission
type ChallengeSubmission struct {
	BaseModel
	ChallengeID uint `gorm:"not null;index" json:"challenge_id"`
	UserID      uint `gorm:"not null;index" json:"user_id"`
	ExerciseID  uint `gorm:"not null;index" json:"exercise_id"`
	Answer      int  `gorm:"not null" json:"answer"`
	TimeSpent   int  `gorm:"not null" json:"time_spent"` // 用时（秒）
	IsCorrect   bool `gorm:"not null" json:"is_correct"`
	Score       *int `json:"score,omitempty"`
}

func (ChallengeSubmission) TableName() string {
	return "challenge_submissions"
}
