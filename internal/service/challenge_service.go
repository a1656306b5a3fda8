package service

import (
	"errors"
	"time"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// 积分策略：底分为题目配置分值，300秒内完成按剩余时间折算奖励分
const (
	scoreTimeBonusWindow  = 300
	scoreTimeBonusDivisor = 10
	defaultBasePoints     = 100
)

// ChallengeScore 一次首胜提交应得的积分
func ChallengeScore(basePoints, timeSpent int) int {
	if basePoints <= 0 {
		basePoints = defaultBasePoints
	}

	bonus := (scoreTimeBonusWindow - timeSpent) / scoreTimeBonusDivisor
	if bonus < 0 {
		bonus = 0
	}
	return basePoints + bonus
}

// ChallengeStore 挑战状态的持久化依赖
type ChallengeStore interface {
	FindByUserAndExercise(userID, exerciseID uint) (*model.Challenge, error)
	Create(challenge *model.Challenge) error
	IncrementAttempts(challengeID uint) error
	MarkCompleted(challengeID uint, completedAt time.Time, bestTime, score int) (bool, error)
	CreateSubmission(submission *model.ChallengeSubmission) error
	ListCompletedByUser(userID uint) ([]model.Challenge, error)
	CountSubmissionsByUser(userID uint) (int64, error)
}

// ExerciseFinder 题目查询依赖
type ExerciseFinder interface {
	FindByID(id uint) (*model.Exercise, error)
}

type ChallengeService struct {
	Challenges ChallengeStore
	Exercises  ExerciseFinder
}

func NewChallengeService(challenges ChallengeStore, exercises ExerciseFinder) *ChallengeService {
	return &ChallengeService{
		Challenges: challenges,
		Exercises:  exercises,
	}
}

// ChallengeMeta 挑战概览，total_sum 每次请求重算，不落库
type ChallengeMeta struct {
	ID          uint       `json:"id"`
	UserID      uint       `json:"user_id"`
	ExerciseID  uint       `json:"exercise_id"`
	TotalSum    int        `json:"total_sum"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Attempts    int        `json:"attempts"`
	BestTime    *int       `json:"best_time,omitempty"`
	Score       *int       `json:"score,omitempty"`
	TotalPages  int        `json:"total_pages"`
}

// ChallengePage 数字表的一页
type ChallengePage struct {
	PageNumber int   `json:"page_number"`
	Numbers    []int `json:"numbers"`
	StartIndex int   `json:"start_index"`
	EndIndex   int   `json:"end_index"`
}

// ChallengeSubmitInput 一次答案提交
type ChallengeSubmitInput struct {
	ExerciseID uint
	Answer     int
	TimeSpent  int
	// 个别题目要求的附加反爬参数，参见 ChallengeValidator
	Payload map[string]interface{}
}

// ChallengeSubmitResult 提交结果
type ChallengeSubmitResult struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message"`
	IsCorrect     bool       `json:"is_correct"`
	CorrectAnswer *int       `json:"correct_answer,omitempty"`
	Score         *int       `json:"score,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// ChallengeProgress 用户的整体进度
type ChallengeProgress struct {
	CompletedChallenges []uint `json:"completed_challenges"`
	TotalScore          int    `json:"total_score"`
	TotalAttempts       int64  `json:"total_attempts"`
	AverageTime         int    `json:"average_time"`
}

// getOrCreate 取出用户在某题下的挑战状态行，不存在则创建。
// 首次访问即视为进入挑战（NotStarted → InProgress）。
func (s *ChallengeService) getOrCreate(userID, exerciseID uint) (*model.Challenge, error) {
	challenge, err := s.Challenges.FindByUserAndExercise(userID, exerciseID)
	if err == nil {
		return challenge, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	challenge = &model.Challenge{
		UserID:     userID,
		ExerciseID: exerciseID,
	}
	if err := s.Challenges.Create(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// Meta 获取或创建挑战并返回概览
func (s *ChallengeService) Meta(userID, exerciseID uint) (*ChallengeMeta, error) {
	if _, err := s.Exercises.FindByID(exerciseID); err != nil {
		return nil, err
	}

	challenge, err := s.getOrCreate(userID, exerciseID)
	if err != nil {
		return nil, err
	}

	return &ChallengeMeta{
		ID:          challenge.ID,
		UserID:      challenge.UserID,
		ExerciseID:  challenge.ExerciseID,
		TotalSum:    ChallengeTotalSum(userID, exerciseID),
		IsCompleted: challenge.IsCompleted,
		CompletedAt: challenge.CompletedAt,
		Attempts:    challenge.Attempts,
		BestTime:    challenge.BestTime,
		Score:       challenge.Score,
		TotalPages:  ChallengeTotalPages,
	}, nil
}

// Page 获取数字表的一页
func (s *ChallengeService) Page(userID, exerciseID uint, pageNumber int) (*ChallengePage, error) {
	if _, err := s.Exercises.FindByID(exerciseID); err != nil {
		return nil, err
	}

	numbers, err := ChallengePageNumbers(userID, exerciseID, pageNumber)
	if err != nil {
		return nil, err
	}

	// 翻页同样视为进入挑战
	if _, err := s.getOrCreate(userID, exerciseID); err != nil {
		return nil, err
	}

	return &ChallengePage{
		PageNumber: pageNumber,
		Numbers:    numbers,
		StartIndex: (pageNumber-1)*ChallengePageSize + 1,
		EndIndex:   pageNumber * ChallengePageSize,
	}, nil
}

// PublicParams 下发题目级校验器的公开参数，未注册校验器的题目返回空对象
func (s *ChallengeService) PublicParams(userID, exerciseID uint) (map[string]interface{}, error) {
	if _, err := s.Exercises.FindByID(exerciseID); err != nil {
		return nil, err
	}

	v := ValidatorForExercise(exerciseID)
	if v == nil {
		return map[string]interface{}{}, nil
	}
	return v.PublicParams(userID, exerciseID), nil
}

// Submit 判分并在首次答对时原子地冻结完成状态。
// 完成态是终态：重复提交正确答案只会得到确认，不会二次加分，
// 也不会覆盖最初的 completed_at / best_time。
func (s *ChallengeService) Submit(userID uint, input ChallengeSubmitInput) (*ChallengeSubmitResult, error) {
	exercise, err := s.Exercises.FindByID(input.ExerciseID)
	if err != nil {
		return nil, err
	}

	challenge, err := s.getOrCreate(userID, input.ExerciseID)
	if err != nil {
		return nil, err
	}

	expected := ChallengeTotalSum(userID, input.ExerciseID)
	isCorrect := input.Answer == expected

	// 题目注册了附加校验器时，附加参数也必须通过
	if isCorrect {
		if v := ValidatorForExercise(input.ExerciseID); v != nil {
			isCorrect = v.Validate(input.Payload)
		}
	}

	if isCorrect {
		monitoring.ChallengeSubmissionCounter.WithLabelValues("correct").Inc()
	} else {
		monitoring.ChallengeSubmissionCounter.WithLabelValues("incorrect").Inc()
	}

	submission := &model.ChallengeSubmission{
		ChallengeID: challenge.ID,
		UserID:      userID,
		ExerciseID:  input.ExerciseID,
		Answer:      input.Answer,
		TimeSpent:   input.TimeSpent,
		IsCorrect:   isCorrect,
	}

	result := &ChallengeSubmitResult{
		Success:   true,
		IsCorrect: isCorrect,
	}

	if isCorrect {
		now := time.Now()
		score := ChallengeScore(exercise.Points, input.TimeSpent)

		// CAS成功说明这是首次答对，由本次提交获得积分
		won, err := s.Challenges.MarkCompleted(challenge.ID, now, input.TimeSpent, score)
		if err != nil {
			return nil, err
		}

		if won {
			submission.Score = &score
			result.Score = &score
			result.CompletedAt = &now
		} else {
			// 之前已经完成过，复述当时的结果
			if prior, err := s.Challenges.FindByUserAndExercise(userID, input.ExerciseID); err == nil {
				result.Score = prior.Score
				result.CompletedAt = prior.CompletedAt
			}
		}
		result.Message = "恭喜！答案正确！"
	} else {
		result.Message = "答案错误，请重新尝试"
		result.CorrectAnswer = &expected
	}

	if err := s.Challenges.CreateSubmission(submission); err != nil {
		return nil, err
	}
	if err := s.Challenges.IncrementAttempts(challenge.ID); err != nil {
		return nil, err
	}

	return result, nil
}

// Progress 当前用户的挑战进度汇总
func (s *ChallengeService) Progress(userID uint) (*ChallengeProgress, error) {
	completed, err := s.Challenges.ListCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	totalAttempts, err := s.Challenges.CountSubmissionsByUser(userID)
	if err != nil {
		return nil, err
	}

	progress := &ChallengeProgress{
		CompletedChallenges: make([]uint, 0, len(completed)),
		TotalAttempts:       totalAttempts,
	}

	timeSum, timeCount := 0, 0
	for _, c := range completed {
		progress.CompletedChallenges = append(progress.CompletedChallenges, c.ExerciseID)
		if c.Score != nil {
			progress.TotalScore += *c.Score
		}
		if c.BestTime != nil {
			timeSum += *c.BestTime
			timeCount++
		}
	}
	if timeCount > 0 {
		progress.AverageTime = timeSum / timeCount
	}

	return progress, nil
}
