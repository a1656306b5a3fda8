package service

import (
	"testing"
	"time"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeChallengeStore struct {
	nextID      uint
	challenges  map[uint]*model.Challenge
	submissions []*model.ChallengeSubmission
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{challenges: make(map[uint]*model.Challenge)}
}

func (f *fakeChallengeStore) FindByUserAndExercise(userID, exerciseID uint) (*model.Challenge, error) {
	for _, c := range f.challenges {
		if c.UserID == userID && c.ExerciseID == exerciseID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChallengeStore) Create(challenge *model.Challenge) error {
	f.nextID++
	challenge.ID = f.nextID
	f.challenges[challenge.ID] = challenge
	return nil
}

func (f *fakeChallengeStore) IncrementAttempts(challengeID uint) error {
	if c, ok := f.challenges[challengeID]; ok {
		c.Attempts++
	}
	return nil
}

func (f *fakeChallengeStore) MarkCompleted(challengeID uint, completedAt time.Time, bestTime, score int) (bool, error) {
	c, ok := f.challenges[challengeID]
	if !ok || c.IsCompleted {
		return false, nil
	}
	c.IsCompleted = true
	c.CompletedAt = &completedAt
	c.BestTime = &bestTime
	c.Score = &score
	return true, nil
}

func (f *fakeChallengeStore) CreateSubmission(submission *model.ChallengeSubmission) error {
	f.submissions = append(f.submissions, submission)
	return nil
}

func (f *fakeChallengeStore) ListCompletedByUser(userID uint) ([]model.Challenge, error) {
	var out []model.Challenge
	for _, c := range f.challenges {
		if c.UserID == userID && c.IsCompleted {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChallengeStore) CountSubmissionsByUser(userID uint) (int64, error) {
	var count int64
	for _, s := range f.submissions {
		if s.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeExerciseFinder struct {
	exercises map[uint]*model.Exercise
}

func (f *fakeExerciseFinder) FindByID(id uint) (*model.Exercise, error) {
	if e, ok := f.exercises[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newChallengeServiceForTest() (*ChallengeService, *fakeChallengeStore) {
	store := newFakeChallengeStore()
	exercises := &fakeExerciseFinder{exercises: map[uint]*model.Exercise{
		1: {BaseModel: model.BaseModel{ID: 1}, Title: "字体反爬之基础", Points: 10, Status: model.ExercisePublished},
	}}
	return NewChallengeService(store, exercises), store
}

func TestChallengeService_Meta(t *testing.T) {
	svc, store := newChallengeServiceForTest()

	meta, err := svc.Meta(1, 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), meta.UserID)
	assert.Equal(t, uint(1), meta.ExerciseID)
	assert.Equal(t, ChallengeTotalSum(1, 1), meta.TotalSum)
	assert.Equal(t, ChallengeTotalPages, meta.TotalPages)
	assert.False(t, meta.IsCompleted)
	assert.Len(t, store.challenges, 1, "首次访问应创建挑战状态行")

	// 再次访问复用同一行
	again, err := svc.Meta(1, 1)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, again.ID)
	assert.Len(t, store.challenges, 1)
}

func TestChallengeService_Meta_题目不存在(t *testing.T) {
	svc, _ := newChallengeServiceForTest()

	_, err := svc.Meta(1, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestChallengeService_Page(t *testing.T) {
	svc, _ := newChallengeServiceForTest()

	page, err := svc.Page(1, 1, 3)
	require.NoError(t, err)

	expected, err := ChallengePageNumbers(1, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, page.PageNumber)
	assert.Equal(t, expected, page.Numbers)
	assert.Equal(t, 21, page.StartIndex)
	assert.Equal(t, 30, page.EndIndex)
}

func TestChallengeService_Page_页码越界(t *testing.T) {
	svc, _ := newChallengeServiceForTest()

	_, err := svc.Page(1, 1, 101)
	assert.ErrorIs(t, err, util.ErrPageOutOfRange)
}

func TestChallengeService_Submit_正确答案(t *testing.T) {
	svc, store := newChallengeServiceForTest()

	result, err := svc.Submit(1, ChallengeSubmitInput{
		ExerciseID: 1,
		Answer:     ChallengeTotalSum(1, 1),
		TimeSpent:  100,
	})
	require.NoError(t, err)

	assert.True(t, result.IsCorrect)
	assert.Equal(t, "恭喜！答案正确！", result.Message)
	require.NotNil(t, result.Score)
	assert.Equal(t, ChallengeScore(10, 100), *result.Score)
	assert.NotNil(t, result.CompletedAt)
	assert.Nil(t, result.CorrectAnswer, "答对时不应泄露期望值字段")

	challenge, err := store.FindByUserAndExercise(1, 1)
	require.NoError(t, err)
	assert.True(t, challenge.IsCompleted)
	assert.Equal(t, 1, challenge.Attempts)
	require.Len(t, store.submissions, 1)
	assert.True(t, store.submissions[0].IsCorrect)
}

func TestChallengeService_Submit_错误答案(t *testing.T) {
	svc, store := newChallengeServiceForTest()

	expected := ChallengeTotalSum(1, 1)
	result, err := svc.Submit(1, ChallengeSubmitInput{
		ExerciseID: 1,
		Answer:     expected - 1,
		TimeSpent:  50,
	})
	require.NoError(t, err)

	assert.False(t, result.IsCorrect)
	assert.Equal(t, "答案错误，请重新尝试", result.Message)
	require.NotNil(t, result.CorrectAnswer)
	assert.Equal(t, expected, *result.CorrectAnswer)
	assert.Nil(t, result.Score)

	challenge, err := store.FindByUserAndExercise(1, 1)
	require.NoError(t, err)
	assert.False(t, challenge.IsCompleted)
	assert.Equal(t, 1, challenge.Attempts)
}

func TestChallengeService_Submit_重复提交只记一次分(t *testing.T) {
	svc, store := newChallengeServiceForTest()

	answer := ChallengeTotalSum(1, 1)

	first, err := svc.Submit(1, ChallengeSubmitInput{ExerciseID: 1, Answer: answer, TimeSpent: 60})
	require.NoError(t, err)
	require.NotNil(t, first.Score)
	firstCompletedAt := *first.CompletedAt

	// 第二次用更快的时间重复提交，不应覆盖首次结果
	second, err := svc.Submit(1, ChallengeSubmitInput{ExerciseID: 1, Answer: answer, TimeSpent: 1})
	require.NoError(t, err)

	assert.True(t, second.IsCorrect)
	require.NotNil(t, second.Score)
	assert.Equal(t, *first.Score, *second.Score, "重复答对不应二次加分")
	require.NotNil(t, second.CompletedAt)
	assert.Equal(t, firstCompletedAt, *second.CompletedAt, "完成时间以首次为准")

	challenge, err := store.FindByUserAndExercise(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, challenge.Attempts)
	require.NotNil(t, challenge.BestTime)
	assert.Equal(t, 60, *challenge.BestTime)
}

func TestChallengeService_Progress(t *testing.T) {
	svc, _ := newChallengeServiceForTest()

	answer := ChallengeTotalSum(1, 1)
	_, err := svc.Submit(1, ChallengeSubmitInput{ExerciseID: 1, Answer: answer - 1, TimeSpent: 10})
	require.NoError(t, err)
	_, err = svc.Submit(1, ChallengeSubmitInput{ExerciseID: 1, Answer: answer, TimeSpent: 120})
	require.NoError(t, err)

	progress, err := svc.Progress(1)
	require.NoError(t, err)

	assert.Equal(t, []uint{1}, progress.CompletedChallenges)
	assert.Equal(t, ChallengeScore(10, 120), progress.TotalScore)
	assert.Equal(t, int64(2), progress.TotalAttempts)
	assert.Equal(t, 120, progress.AverageTime)
}
