package repository

import (
	"spider_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

// ExerciseFilter 列表筛选条件
type ExerciseFilter struct {
	Skip       int
	Limit      int
	Difficulty string
	Search     string
	SortBy     string
}

func (r *ExerciseRepository) applyFilter(query *gorm.DB, f ExerciseFilter) *gorm.DB {
	query = query.Where("status = ?", model.ExercisePublished)

	if f.Difficulty != "" {
		query = query.Where("difficulty = ?", f.Difficulty)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	return query
}

func (r *ExerciseRepository) List(f ExerciseFilter) ([]model.Exercise, error) {
	var exercises []model.Exercise

	query := r.applyFilter(r.DB.Model(&model.Exercise{}), f)

	switch f.SortBy {
	case "points":
		query = query.Order("points ASC")
	case "difficulty":
		query = query.Order("difficulty ASC")
	default:
		query = query.Order("sort_order ASC")
	}

	err := query.Offset(f.Skip).Limit(f.Limit).Find(&exercises).Error
	return exercises, err
}

func (r *ExerciseRepository) Count(f ExerciseFilter) (int64, error) {
	var count int64
	err := r.applyFilter(r.DB.Model(&model.Exercise{}), f).Count(&count).Error
	return count, err
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var exercise model.Exercise
	err := r.DB.First(&exercise, id).Error
	return &exercise, err
}

func (r *ExerciseRepository) Create(exercise *model.Exercise) error {
	return r.DB.Create(exercise).Error
}

func (r *ExerciseRepository) Update(exercise *model.Exercise) error {
	return r.DB.Save(exercise).Error
}

// DifficultyCount 按难度统计
type DifficultyCount struct {
	Difficulty model.DifficultyLevel `json:"difficulty"`
	Count      int64                 `json:"count"`
}

func (r *ExerciseRepository) CountByDifficulty() ([]DifficultyCount, error) {
	var rows []DifficultyCount
	err := r.DB.Model(&model.Exercise{}).
		Select("difficulty, COUNT(*) AS count").
		Where("status = ?", model.ExercisePublished).
		Group("difficulty").
		Scan(&rows).Error
	return rows, err
}
