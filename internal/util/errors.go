package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUsernameTaken      = errors.New("用户名已存在")
	ErrEmailRegistered    = errors.New("邮箱已存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrExerciseNotFound  = errors.New("题目不存在")
	ErrChallengeNotFound = errors.New("挑战不存在")
	ErrPageOutOfRange    = errors.New("页面编号必须在1-100之间")

	ErrBankNotFound          = errors.New("题库不存在")
	ErrQuestionNotFound      = errors.New("题目不存在")
	ErrNotEnoughQuestions    = errors.New("题库中没有足够的题目")
	ErrSessionNotFound       = errors.New("会话不存在")
	ErrSessionCompleted      = errors.New("考试已完成")
	ErrNoteNotFound          = errors.New("笔记不存在")
	ErrWrongQuestionNotFound = errors.New("错题不存在")
)
