package repository

import (
	"spider_edu_backend/internal/model"

	"gorm.io/gorm"
)

type StudyNoteRepository struct {
	DB *gorm.DB
}

func NewStudyNoteRepository(db *gorm.DB) *StudyNoteRepository {
	return &StudyNoteRepository{DB: db}
}

func (r *StudyNoteRepository) Create(note *model.StudyNote) error {
	return r.DB.Create(note).Error
}

// FindByIDAndUser 只能访问自己的笔记
func (r *StudyNoteRepository) FindByIDAndUser(noteID, userID uint) (*model.StudyNote, error) {
	var note model.StudyNote
	err := r.DB.Where("id = ? AND user_id = ?", noteID, userID).First(&note).Error
	return &note, err
}

func (r *StudyNoteRepository) ListByUser(userID uint, skip, limit int) ([]model.StudyNote, error) {
	var notes []model.StudyNote
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at DESC, created_at DESC").
		Offset(skip).Limit(limit).
		Find(&notes).Error
	return notes, err
}

func (r *StudyNoteRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.StudyNote{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *StudyNoteRepository) Update(note *model.StudyNote) error {
	return r.DB.Save(note).Error
}

// Delete 软删除，BaseModel.DeletedAt 生效
func (r *StudyNoteRepository) Delete(note *model.StudyNote) error {
	return r.DB.Delete(note).Error
}

func (r *StudyNoteRepository) IncrementViewCount(noteID uint) error {
	return r.DB.Model(&model.StudyNote{}).
		Where("id = ?", noteID).
		Update("view_count", gorm.Expr("view_count + 1")).
		Error
}
