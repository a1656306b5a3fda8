package repository

import (
	"spider_edu_backend/internal/model"

	"gorm.io/gorm"
)

type KnowledgeRepository struct {
	DB *gorm.DB
}

func NewKnowledgeRepository(db *gorm.DB) *KnowledgeRepository {
	return &KnowledgeRepository{DB: db}
}

// ---- 题库 ----

func (r *KnowledgeRepository) CreateBank(bank *model.QuestionBank) error {
	return r.DB.Create(bank).Error
}

func (r *KnowledgeRepository) FindBank(bankID uint) (*model.QuestionBank, error) {
	var bank model.QuestionBank
	err := r.DB.Where("id = ? AND is_active = ?", bankID, true).First(&bank).Error
	return &bank, err
}

func (r *KnowledgeRepository) ListBanks(skip, limit int) ([]model.QuestionBank, error) {
	var banks []model.QuestionBank
	err := r.DB.Where("is_active = ?", true).
		Offset(skip).Limit(limit).
		Find(&banks).Error
	if err != nil {
		return nil, err
	}

	// 附带题目数量
	for i := range banks {
		r.DB.Model(&model.Question{}).
			Where("bank_id = ? AND is_active = ?", banks[i].ID, true).
			Count(&banks[i].QuestionCount)
	}
	return banks, nil
}

func (r *KnowledgeRepository) UpdateBank(bank *model.QuestionBank) error {
	return r.DB.Save(bank).Error
}

// ---- 题目 ----

func (r *KnowledgeRepository) CreateQuestion(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *KnowledgeRepository) FindQuestion(questionID uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Where("id = ? AND is_active = ?", questionID, true).First(&question).Error
	return &question, err
}

func (r *KnowledgeRepository) ListQuestionsByBank(bankID uint, skip, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("bank_id = ? AND is_active = ?", bankID, true).
		Offset(skip).Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *KnowledgeRepository) ListQuestionsByType(bankID uint, questionType string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("bank_id = ? AND type = ? AND is_active = ?", bankID, questionType, true).
		Find(&questions).Error
	return questions, err
}

func (r *KnowledgeRepository) UpdateQuestion(question *model.Question) error {
	return r.DB.Save(question).Error
}

// ---- 考试会话 ----

func (r *KnowledgeRepository) CreateExamSession(session *model.ExamSession) error {
	return r.DB.Create(session).Error
}

func (r *KnowledgeRepository) FindExamSession(sessionID string) (*model.ExamSession, error) {
	var session model.ExamSession
	err := r.DB.Where("session_id = ?", sessionID).First(&session).Error
	return &session, err
}

func (r *KnowledgeRepository) UpdateExamSession(session *model.ExamSession) error {
	return r.DB.Save(session).Error
}

// ---- 答题记录 ----

func (r *KnowledgeRepository) CreateUserAnswer(answer *model.UserAnswer) error {
	return r.DB.Create(answer).Error
}

// ---- 错题集 ----

func (r *KnowledgeRepository) FindActiveWrongQuestion(userID, questionID uint) (*model.WrongQuestion, error) {
	var wrong model.WrongQuestion
	err := r.DB.Where("user_id = ? AND question_id = ? AND is_mastered = ?", userID, questionID, false).
		First(&wrong).Error
	return &wrong, err
}

func (r *KnowledgeRepository) SaveWrongQuestion(wrong *model.WrongQuestion) error {
	return r.DB.Save(wrong).Error
}

func (r *KnowledgeRepository) FindWrongQuestion(wrongID uint) (*model.WrongQuestion, error) {
	var wrong model.WrongQuestion
	err := r.DB.First(&wrong, wrongID).Error
	return &wrong, err
}

func (r *KnowledgeRepository) ListWrongQuestions(userID uint, bankID *uint) ([]model.WrongQuestion, error) {
	query := r.DB.Preload("Question").
		Where("wrong_questions.user_id = ? AND wrong_questions.is_mastered = ?", userID, false)

	if bankID != nil {
		query = query.Joins("JOIN questions ON questions.id = wrong_questions.question_id").
			Where("questions.bank_id = ?", *bankID)
	}

	var wrongs []model.WrongQuestion
	err := query.Find(&wrongs).Error
	return wrongs, err
}

func (r *KnowledgeRepository) DeleteWrongQuestion(wrong *model.WrongQuestion) error {
	return r.DB.Unscoped().Delete(wrong).Error
}

func (r *KnowledgeRepository) CountWrongQuestions(userID uint, mastered bool) (int64, error) {
	var count int64
	err := r.DB.Model(&model.WrongQuestion{}).
		Where("user_id = ? AND is_mastered = ?", userID, mastered).
		Count(&count).Error
	return count, err
}

// ---- 学习统计 ----

func (r *KnowledgeRepository) FindStats(userID, bankID uint) (*model.StudyStats, error) {
	var stats model.StudyStats
	err := r.DB.Where("user_id = ? AND bank_id = ?", userID, bankID).First(&stats).Error
	return &stats, err
}

func (r *KnowledgeRepository) SaveStats(stats *model.StudyStats) error {
	return r.DB.Save(stats).Error
}

// StatsSummaryRow 跨题库汇总
type StatsSummaryRow struct {
	TotalBanks        int64 `json:"total_banks"`
	TotalQuestions    int64 `json:"total_questions"`
	AnsweredQuestions int64 `json:"answered_questions"`
	CorrectQuestions  int64 `json:"correct_questions"`
	TotalScore        int64 `json:"total_score"`
	StudyTime         int64 `json:"study_time"`
}

func (r *KnowledgeRepository) SummarizeStats(userID uint) (*StatsSummaryRow, error) {
	var row StatsSummaryRow
	err := r.DB.Model(&model.StudyStats{}).
		Select("COUNT(id) AS total_banks, COALESCE(SUM(total_questions), 0) AS total_questions, COALESCE(SUM(answered_questions), 0) AS answered_questions, COALESCE(SUM(correct_questions), 0) AS correct_questions, COALESCE(SUM(total_score), 0) AS total_score, COALESCE(SUM(study_time), 0) AS study_time").
		Where("user_id = ?", userID).
		Scan(&row).Error
	return &row, err
}
