package service

import (
	"errors"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/repository"
	"spider_edu_backend/internal/util"

	"gorm.io/gorm"
)

type ExerciseService struct {
	ExerciseRepo *repository.ExerciseRepository
}

func NewExerciseService(exerciseRepo *repository.ExerciseRepository) *ExerciseService {
	return &ExerciseService{ExerciseRepo: exerciseRepo}
}

// ExerciseList 分页列表
type ExerciseList struct {
	Items []model.Exercise `json:"items"`
	Total int64            `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

func (s *ExerciseService) List(f repository.ExerciseFilter) (*ExerciseList, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Skip < 0 {
		f.Skip = 0
	}

	items, err := s.ExerciseRepo.List(f)
	if err != nil {
		return nil, err
	}
	total, err := s.ExerciseRepo.Count(f)
	if err != nil {
		return nil, err
	}

	return &ExerciseList{
		Items: items,
		Total: total,
		Skip:  f.Skip,
		Limit: f.Limit,
	}, nil
}

// Get 取单个题目。普通用户只能看到已发布的题目。
func (s *ExerciseService) Get(id uint, isSuperuser bool) (*model.Exercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	if exercise.Status != model.ExercisePublished && !isSuperuser {
		return nil, util.ErrExerciseNotFound
	}
	return exercise, nil
}

func (s *ExerciseService) Create(exercise *model.Exercise) error {
	if exercise.Difficulty == "" {
		exercise.Difficulty = model.DifficultyBeginner
	}
	if exercise.Status == "" {
		exercise.Status = model.ExerciseDraft
	}
	return s.ExerciseRepo.Create(exercise)
}

func (s *ExerciseService) Update(id uint, apply func(*model.Exercise)) (*model.Exercise, error) {
	exercise, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	apply(exercise)

	if err := s.ExerciseRepo.Update(exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *ExerciseService) CountByDifficulty() ([]repository.DifficultyCount, error) {
	return s.ExerciseRepo.CountByDifficulty()
}
