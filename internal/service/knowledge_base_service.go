package service

import (
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/repository"
	"spider_edu_backend/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 考试默认题型配比（百分比）
const (
	DefaultSingleRatio = 40
	DefaultMultiRatio  = 30
	DefaultBoolRatio   = 30
)

// 刷题顺序
const (
	PracticeOrderForward = "顺序"
	PracticeOrderReverse = "逆序"
	PracticeOrderRandom  = "随机"
)

// 会话类型
const (
	ExamTypeExam     = "exam"
	ExamTypePractice = "practice"
)

// normalizeChoices 把选项答案归一成排序后的大写字母序列，
// "A, C" 和 "CA" 视为同一个答案
func normalizeChoices(answer string) string {
	cleaned := strings.NewReplacer(",", "", " ", "", "、", "").Replace(answer)
	letters := strings.Split(strings.ToUpper(cleaned), "")
	sort.Strings(letters)
	return strings.Join(letters, "")
}

// CheckAnswer 按题型判分。多选题忽略选项顺序，
// 填空题和问答题忽略首尾空白和大小写。
func CheckAnswer(questionType, correctAnswer, userAnswer string) bool {
	switch questionType {
	case model.QuestionTypeMulti:
		return normalizeChoices(userAnswer) == normalizeChoices(correctAnswer)
	case model.QuestionTypeFill, model.QuestionTypeEssay:
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
	default:
		return strings.EqualFold(userAnswer, correctAnswer)
	}
}

type KnowledgeBaseService struct {
	Repo *repository.KnowledgeRepository
}

func NewKnowledgeBaseService(repo *repository.KnowledgeRepository) *KnowledgeBaseService {
	return &KnowledgeBaseService{Repo: repo}
}

// ---- 题库 ----

func (s *KnowledgeBaseService) CreateBank(bank *model.QuestionBank) error {
	bank.IsActive = true
	return s.Repo.CreateBank(bank)
}

func (s *KnowledgeBaseService) GetBank(bankID uint) (*model.QuestionBank, error) {
	bank, err := s.Repo.FindBank(bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrBankNotFound
		}
		return nil, err
	}
	return bank, nil
}

func (s *KnowledgeBaseService) ListBanks(skip, limit int) ([]model.QuestionBank, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.Repo.ListBanks(skip, limit)
}

func (s *KnowledgeBaseService) UpdateBank(bankID uint, apply func(*model.QuestionBank)) (*model.QuestionBank, error) {
	bank, err := s.GetBank(bankID)
	if err != nil {
		return nil, err
	}
	apply(bank)
	if err := s.Repo.UpdateBank(bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// DeleteBank 软删除，置为不活跃
func (s *KnowledgeBaseService) DeleteBank(bankID uint) error {
	bank, err := s.GetBank(bankID)
	if err != nil {
		return err
	}
	bank.IsActive = false
	return s.Repo.UpdateBank(bank)
}

// ---- 题目 ----

func (s *KnowledgeBaseService) CreateQuestion(question *model.Question) error {
	if _, err := s.GetBank(question.BankID); err != nil {
		return err
	}
	question.IsActive = true
	if question.Score <= 0 {
		question.Score = 1
	}
	return s.Repo.CreateQuestion(question)
}

func (s *KnowledgeBaseService) GetQuestion(questionID uint) (*model.Question, error) {
	question, err := s.Repo.FindQuestion(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *KnowledgeBaseService) ListQuestions(bankID uint, skip, limit int) ([]model.Question, error) {
	if _, err := s.GetBank(bankID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	return s.Repo.ListQuestionsByBank(bankID, skip, limit)
}

func (s *KnowledgeBaseService) UpdateQuestion(questionID uint, apply func(*model.Question)) (*model.Question, error) {
	question, err := s.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}
	apply(question)
	if err := s.Repo.UpdateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *KnowledgeBaseService) DeleteQuestion(questionID uint) error {
	question, err := s.GetQuestion(questionID)
	if err != nil {
		return err
	}
	question.IsActive = false
	return s.Repo.UpdateQuestion(question)
}

// ---- 考试与刷题会话 ----

// ExamSetupInput 组卷参数，配比按百分比给出
type ExamSetupInput struct {
	BankID         uint `json:"bank_id" binding:"required"`
	TotalQuestions int  `json:"total_questions" binding:"required,min=1,max=100"`
	SingleRatio    int  `json:"single_ratio"`
	MultiRatio     int  `json:"multi_ratio"`
	BoolRatio      int  `json:"bool_ratio"`
	TimeLimit      int  `json:"time_limit"` // 分钟，0表示不限时
}

// PracticeSetupInput 刷题参数
type PracticeSetupInput struct {
	BankID uint   `json:"bank_id" binding:"required"`
	Order  string `json:"order"` // 顺序、逆序、随机
}

// sampleQuestions 随机抽取最多n道题
func sampleQuestions(questions []model.Question, n int) []model.Question {
	if n <= 0 || len(questions) == 0 {
		return nil
	}

	shuffled := make([]model.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// generateExamQuestions 按配比抽题组卷。某种题型不足时先取完该题型，
// 再从题库剩余题目中随机补足，最后整体打乱。
func (s *KnowledgeBaseService) generateExamQuestions(bankID uint, setup ExamSetupInput) ([]model.Question, error) {
	singles, err := s.Repo.ListQuestionsByType(bankID, model.QuestionTypeSingle)
	if err != nil {
		return nil, err
	}
	multis, err := s.Repo.ListQuestionsByType(bankID, model.QuestionTypeMulti)
	if err != nil {
		return nil, err
	}
	bools, err := s.Repo.ListQuestionsByType(bankID, model.QuestionTypeBool)
	if err != nil {
		return nil, err
	}

	singleCount := setup.TotalQuestions * setup.SingleRatio / 100
	multiCount := setup.TotalQuestions * setup.MultiRatio / 100
	boolCount := setup.TotalQuestions - singleCount - multiCount

	selected := make([]model.Question, 0, setup.TotalQuestions)
	selected = append(selected, sampleQuestions(singles, singleCount)...)
	selected = append(selected, sampleQuestions(multis, multiCount)...)
	selected = append(selected, sampleQuestions(bools, boolCount)...)

	if len(selected) < setup.TotalQuestions {
		all, err := s.Repo.ListQuestionsByBank(bankID, 0, 1000)
		if err != nil {
			return nil, err
		}

		picked := make(map[uint]bool, len(selected))
		for _, q := range selected {
			picked[q.ID] = true
		}

		var remaining []model.Question
		for _, q := range all {
			if !picked[q.ID] {
				remaining = append(remaining, q)
			}
		}
		selected = append(selected, sampleQuestions(remaining, setup.TotalQuestions-len(selected))...)
	}

	rand.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})
	return selected, nil
}

func (s *KnowledgeBaseService) generatePracticeQuestions(bankID uint, order string) ([]model.Question, error) {
	questions, err := s.Repo.ListQuestionsByBank(bankID, 0, 1000)
	if err != nil {
		return nil, err
	}

	switch order {
	case PracticeOrderReverse:
		for i, j := 0, len(questions)-1; i < j; i, j = i+1, j-1 {
			questions[i], questions[j] = questions[j], questions[i]
		}
	case PracticeOrderRandom:
		rand.Shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
	}
	return questions, nil
}

// SetupExam 组卷并创建考试会话
func (s *KnowledgeBaseService) SetupExam(userID uint, input ExamSetupInput) (*model.ExamSession, error) {
	if _, err := s.GetBank(input.BankID); err != nil {
		return nil, err
	}

	if input.SingleRatio == 0 && input.MultiRatio == 0 && input.BoolRatio == 0 {
		input.SingleRatio = DefaultSingleRatio
		input.MultiRatio = DefaultMultiRatio
		input.BoolRatio = DefaultBoolRatio
	}

	questions, err := s.generateExamQuestions(input.BankID, input)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNotEnoughQuestions
	}

	totalScore := 0
	for _, q := range questions {
		totalScore += q.Score
	}

	session := &model.ExamSession{
		UserID:         userID,
		BankID:         input.BankID,
		SessionID:      uuid.New().String(),
		ExamType:       ExamTypeExam,
		TotalQuestions: len(questions),
		TotalScore:     totalScore,
		StartedAt:      time.Now(),
	}
	if input.TimeLimit > 0 {
		seconds := input.TimeLimit * 60
		session.TimeLimit = &seconds
	}

	if err := s.Repo.CreateExamSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// SetupPractice 创建刷题会话，覆盖题库全部题目
func (s *KnowledgeBaseService) SetupPractice(userID uint, input PracticeSetupInput) (*model.ExamSession, error) {
	if _, err := s.GetBank(input.BankID); err != nil {
		return nil, err
	}

	questions, err := s.generatePracticeQuestions(input.BankID, input.Order)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrNotEnoughQuestions
	}

	totalScore := 0
	for _, q := range questions {
		totalScore += q.Score
	}

	session := &model.ExamSession{
		UserID:         userID,
		BankID:         input.BankID,
		SessionID:      uuid.New().String(),
		ExamType:       ExamTypePractice,
		TotalQuestions: len(questions),
		TotalScore:     totalScore,
		StartedAt:      time.Now(),
	}
	if err := s.Repo.CreateExamSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// getOwnSession 取会话并校验归属
func (s *KnowledgeBaseService) getOwnSession(userID uint, sessionID string) (*model.ExamSession, error) {
	session, err := s.Repo.FindExamSession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

// SessionQuestions 取会话的题目列表。考试会话按默认配比抽题，
// 刷题会话按顺序出全量题目。
func (s *KnowledgeBaseService) SessionQuestions(userID uint, sessionID string) ([]model.Question, error) {
	session, err := s.getOwnSession(userID, sessionID)
	if err != nil {
		return nil, err
	}

	if session.ExamType == ExamTypeExam {
		return s.generateExamQuestions(session.BankID, ExamSetupInput{
			BankID:         session.BankID,
			TotalQuestions: session.TotalQuestions,
			SingleRatio:    DefaultSingleRatio,
			MultiRatio:     DefaultMultiRatio,
			BoolRatio:      DefaultBoolRatio,
		})
	}
	return s.generatePracticeQuestions(session.BankID, PracticeOrderForward)
}

// AnswerInput 一次答题
type AnswerInput struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
	TimeSpent  int    `json:"time_spent"`
}

// SubmitAnswer 判分并记录一次答题，联动更新会话计数、错题集和学习统计
func (s *KnowledgeBaseService) SubmitAnswer(userID uint, sessionID string, input AnswerInput) (*model.UserAnswer, error) {
	session, err := s.getOwnSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted {
		return nil, util.ErrSessionCompleted
	}

	question, err := s.GetQuestion(input.QuestionID)
	if err != nil {
		return nil, err
	}

	isCorrect := CheckAnswer(question.Type, question.Answer, input.Answer)
	score := 0
	if isCorrect {
		score = question.Score
	}

	answer := &model.UserAnswer{
		UserID:     userID,
		QuestionID: question.ID,
		Answer:     input.Answer,
		IsCorrect:  isCorrect,
		Score:      score,
		TimeSpent:  input.TimeSpent,
		SessionID:  sessionID,
	}
	if err := s.Repo.CreateUserAnswer(answer); err != nil {
		return nil, err
	}

	session.AnsweredQuestions++
	if isCorrect {
		session.CorrectQuestions++
	}
	session.UserScore += score
	session.TimeSpent += input.TimeSpent
	if err := s.Repo.UpdateExamSession(session); err != nil {
		return nil, err
	}

	if !isCorrect {
		if err := s.addToWrongQuestions(userID, question.ID, input.Answer); err != nil {
			return nil, err
		}
	}

	if err := s.updateStudyStats(userID, question.BankID, isCorrect, score, input.TimeSpent); err != nil {
		return nil, err
	}

	return answer, nil
}

// ExamResult 考试结果
type ExamResult struct {
	SessionID         string  `json:"session_id"`
	ExamType          string  `json:"exam_type"`
	TotalQuestions    int     `json:"total_questions"`
	AnsweredQuestions int     `json:"answered_questions"`
	CorrectQuestions  int     `json:"correct_questions"`
	TotalScore        int     `json:"total_score"`
	UserScore         int     `json:"user_score"`
	Accuracy          float64 `json:"accuracy"`
	TimeSpent         int     `json:"time_spent"`
	CompletedAt       string  `json:"completed_at"`
}

// CompleteSession 结束会话并结算，重复结束被拒绝
func (s *KnowledgeBaseService) CompleteSession(userID uint, sessionID string) (*ExamResult, error) {
	session, err := s.getOwnSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted {
		return nil, util.ErrSessionCompleted
	}

	now := time.Now()
	session.IsCompleted = true
	session.CompletedAt = &now
	if err := s.Repo.UpdateExamSession(session); err != nil {
		return nil, err
	}

	accuracy := 0.0
	if session.TotalQuestions > 0 {
		accuracy = float64(session.CorrectQuestions) / float64(session.TotalQuestions) * 100
	}

	return &ExamResult{
		SessionID:         session.SessionID,
		ExamType:          session.ExamType,
		TotalQuestions:    session.TotalQuestions,
		AnsweredQuestions: session.AnsweredQuestions,
		CorrectQuestions:  session.CorrectQuestions,
		TotalScore:        session.TotalScore,
		UserScore:         session.UserScore,
		Accuracy:          accuracy,
		TimeSpent:         session.TimeSpent,
		CompletedAt:       now.Format(time.RFC3339),
	}, nil
}

// ---- 错题集 ----

func (s *KnowledgeBaseService) addToWrongQuestions(userID, questionID uint, userAnswer string) error {
	existing, err := s.Repo.FindActiveWrongQuestion(userID, questionID)
	if err == nil {
		existing.WrongCount++
		existing.UserAnswer = userAnswer
		existing.LastWrongAt = time.Now()
		return s.Repo.SaveWrongQuestion(existing)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.Repo.SaveWrongQuestion(&model.WrongQuestion{
		UserID:      userID,
		QuestionID:  questionID,
		UserAnswer:  userAnswer,
		WrongCount:  1,
		LastWrongAt: time.Now(),
	})
}

func (s *KnowledgeBaseService) ListWrongQuestions(userID uint, bankID *uint) ([]model.WrongQuestion, error) {
	return s.Repo.ListWrongQuestions(userID, bankID)
}

// getOwnWrongQuestion 取错题并校验归属
func (s *KnowledgeBaseService) getOwnWrongQuestion(userID, wrongID uint) (*model.WrongQuestion, error) {
	wrong, err := s.Repo.FindWrongQuestion(wrongID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWrongQuestionNotFound
		}
		return nil, err
	}
	if wrong.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return wrong, nil
}

// MasterWrongQuestion 把错题标记为已掌握
func (s *KnowledgeBaseService) MasterWrongQuestion(userID, wrongID uint) error {
	wrong, err := s.getOwnWrongQuestion(userID, wrongID)
	if err != nil {
		return err
	}

	now := time.Now()
	wrong.IsMastered = true
	wrong.MasteredAt = &now
	return s.Repo.SaveWrongQuestion(wrong)
}

func (s *KnowledgeBaseService) DeleteWrongQuestion(userID, wrongID uint) error {
	wrong, err := s.getOwnWrongQuestion(userID, wrongID)
	if err != nil {
		return err
	}
	return s.Repo.DeleteWrongQuestion(wrong)
}

// ---- 学习统计 ----

func (s *KnowledgeBaseService) updateStudyStats(userID, bankID uint, isCorrect bool, score, timeSpent int) error {
	now := time.Now()

	stats, err := s.Repo.FindStats(userID, bankID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		stats = &model.StudyStats{
			UserID: userID,
			BankID: bankID,
		}
	}

	stats.AnsweredQuestions++
	if isCorrect {
		stats.CorrectQuestions++
	}
	stats.TotalScore += score
	stats.StudyTime += timeSpent
	stats.LastStudyAt = &now
	return s.Repo.SaveStats(stats)
}

// UserStudyStats 用户的总体学习统计
type UserStudyStats struct {
	TotalBanks        int64   `json:"total_banks"`
	TotalQuestions    int64   `json:"total_questions"`
	AnsweredQuestions int64   `json:"answered_questions"`
	CorrectQuestions  int64   `json:"correct_questions"`
	TotalScore        int64   `json:"total_score"`
	StudyTime         int64   `json:"study_time"`
	Accuracy          float64 `json:"accuracy"`
	WrongCount        int64   `json:"wrong_questions_count"`
	MasteredCount     int64   `json:"mastered_questions_count"`
}

func (s *KnowledgeBaseService) UserStats(userID uint) (*UserStudyStats, error) {
	summary, err := s.Repo.SummarizeStats(userID)
	if err != nil {
		return nil, err
	}

	wrongCount, err := s.Repo.CountWrongQuestions(userID, false)
	if err != nil {
		return nil, err
	}
	masteredCount, err := s.Repo.CountWrongQuestions(userID, true)
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if summary.AnsweredQuestions > 0 {
		accuracy = float64(summary.CorrectQuestions) / float64(summary.AnsweredQuestions) * 100
	}

	return &UserStudyStats{
		TotalBanks:        summary.TotalBanks,
		TotalQuestions:    summary.TotalQuestions,
		AnsweredQuestions: summary.AnsweredQuestions,
		CorrectQuestions:  summary.CorrectQuestions,
		TotalScore:        summary.TotalScore,
		StudyTime:         summary.StudyTime,
		Accuracy:          accuracy,
		WrongCount:        wrongCount,
		MasteredCount:     masteredCount,
	}, nil
}

func (s *KnowledgeBaseService) BankStats(userID, bankID uint) (*model.StudyStats, error) {
	if _, err := s.GetBank(bankID); err != nil {
		return nil, err
	}

	stats, err := s.Repo.FindStats(userID, bankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.StudyStats{UserID: userID, BankID: bankID}, nil
		}
		return nil, err
	}
	return stats, nil
}
