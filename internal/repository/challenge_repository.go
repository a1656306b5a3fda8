package repository

import (
	"time"

	"spider_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

func (r *ChallengeRepository) FindByUserAndExercise(userID, exerciseID uint) (*model.Challenge, error) {
	var challenge model.Challenge
	err := r.DB.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		First(&challenge).Error
	return &challenge, err
}

func (r *ChallengeRepository) Create(challenge *model.Challenge) error {
	return r.DB.Create(challenge).Error
}

func (r *ChallengeRepository) IncrementAttempts(challengeID uint) error {
	return r.DB.Model(&model.Challenge{}).
		Where("id = ?", challengeID).
		Update("attempts", gorm.Expr("attempts + 1")).
		Error
}

// MarkCompleted 原子地把挑战置为完成态。WHERE is_completed = 0 做CAS，
// 并发重复提交时只有一次会生效，返回是否由本次调用完成状态翻转。
func (r *ChallengeRepository) MarkCompleted(challengeID uint, completedAt time.Time, bestTime, score int) (bool, error) {
	result := r.DB.Model(&model.Challenge{}).
		Where("id = ? AND is_completed = ?", challengeID, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": completedAt,
			"best_time":    bestTime,
			"score":        score,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ChallengeRepository) CreateSubmission(submission *model.ChallengeSubmission) error {
	return r.DB.Create(submission).Error
}

func (r *ChallengeRepository) ListCompletedByUser(userID uint) ([]model.Challenge, error) {
	var challenges []model.Challenge
	err := r.DB.Where("user_id = ? AND is_completed = ?", userID, true).
		Find(&challenges).Error
	return challenges, err
}

func (r *ChallengeRepository) CountSubmissionsByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ChallengeSubmission{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// LeaderboardRow 排行榜聚合行（替代原库中的 v_user_leaderboard 视图）
type LeaderboardRow struct {
	UserID           uint       `json:"user_id"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name,omitempty"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	TotalScore       int        `json:"total_score"`
	SolvedCount      int        `json:"solved_count"`
	LastSubmissionAt *time.Time `json:"last_submission_at,omitempty"`
}

// Leaderboard 按用户聚合已完成挑战。sortBy 取 score 或 solved。
func (r *ChallengeRepository) Leaderboard(sortBy string, limit int) ([]LeaderboardRow, error) {
	order := "total_score DESC, last_submission_at ASC"
	if sortBy == "solved" {
		order = "solved_count DESC, last_submission_at ASC"
	}

	var rows []LeaderboardRow
	err := r.DB.Model(&model.Challenge{}).
		Select("challenges.user_id AS user_id, users.username AS username, users.full_name AS full_name, users.avatar_url AS avatar_url, COALESCE(SUM(challenges.score), 0) AS total_score, COUNT(challenges.id) AS solved_count, MAX(challenges.completed_at) AS last_submission_at").
		Joins("JOIN users ON users.id = challenges.user_id").
		Where("challenges.is_completed = ?", true).
		Group("challenges.user_id, users.username, users.full_name, users.avatar_url").
		Order(order).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecentCompletionRow 最近完成动态
type RecentCompletionRow struct {
	ChallengeID   uint       `json:"challenge_id"`
	UserID        uint       `json:"user_id"`
	Username      string     `json:"username"`
	FullName      string     `json:"full_name,omitempty"`
	AvatarURL     string     `json:"avatar_url,omitempty"`
	ExerciseID    uint       `json:"exercise_id"`
	ExerciseTitle string     `json:"exercise_title"`
	Score         int        `json:"score"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

func (r *ChallengeRepository) RecentCompletions(limit int) ([]RecentCompletionRow, error) {
	var rows []RecentCompletionRow
	err := r.DB.Model(&model.Challenge{}).
		Select("challenges.id AS challenge_id, challenges.user_id AS user_id, users.username AS username, users.full_name AS full_name, users.avatar_url AS avatar_url, challenges.exercise_id AS exercise_id, exercises.title AS exercise_title, COALESCE(challenges.score, 0) AS score, challenges.completed_at AS completed_at").
		Joins("JOIN users ON users.id = challenges.user_id").
		Joins("JOIN exercises ON exercises.id = challenges.exercise_id").
		Where("challenges.is_completed = ?", true).
		Order("challenges.completed_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
