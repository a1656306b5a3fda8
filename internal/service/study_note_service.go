package service

import (
	"errors"
	"html"
	"regexp"
	"strings"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/repository"
	"spider_edu_backend/internal/util"

	"gorm.io/gorm"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML 去掉富文本标签，留下纯文本用于列表预览
func stripHTML(content string) string {
	text := htmlTagPattern.ReplaceAllString(content, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

type StudyNoteService struct {
	NoteRepo *repository.StudyNoteRepository
}

func NewStudyNoteService(noteRepo *repository.StudyNoteRepository) *StudyNoteService {
	return &StudyNoteService{NoteRepo: noteRepo}
}

// StudyNoteInput 创建和更新共用的入参
type StudyNoteInput struct {
	Title     string `json:"title" binding:"required,max=200"`
	Content   string `json:"content" binding:"required"`
	Tags      string `json:"tags"`
	IsPrivate bool   `json:"is_private"`
}

func (s *StudyNoteService) Create(userID uint, input StudyNoteInput) (*model.StudyNote, error) {
	note := &model.StudyNote{
		UserID:      userID,
		Title:       input.Title,
		ContentHTML: input.Content,
		ContentText: stripHTML(input.Content),
		Tags:        input.Tags,
		IsPrivate:   input.IsPrivate,
	}
	if err := s.NoteRepo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

// Get 读取并累计浏览次数，笔记只对作者可见
func (s *StudyNoteService) Get(userID, noteID uint) (*model.StudyNote, error) {
	note, err := s.NoteRepo.FindByIDAndUser(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoteNotFound
		}
		return nil, err
	}

	if err := s.NoteRepo.IncrementViewCount(note.ID); err != nil {
		return nil, err
	}
	note.ViewCount++
	return note, nil
}

func (s *StudyNoteService) List(userID uint, skip, limit int) ([]model.StudyNote, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	notes, err := s.NoteRepo.ListByUser(userID, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.NoteRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (s *StudyNoteService) Update(userID, noteID uint, input StudyNoteInput) (*model.StudyNote, error) {
	note, err := s.NoteRepo.FindByIDAndUser(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoteNotFound
		}
		return nil, err
	}

	note.Title = input.Title
	note.ContentHTML = input.Content
	note.ContentText = stripHTML(input.Content)
	note.Tags = input.Tags
	note.IsPrivate = input.IsPrivate

	if err := s.NoteRepo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *StudyNoteService) Delete(userID, noteID uint) error {
	note, err := s.NoteRepo.FindByIDAndUser(noteID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNoteNotFound
		}
		return err
	}
	return s.NoteRepo.Delete(note)
}
