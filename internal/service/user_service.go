package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"spider_edu_backend/internal/model"
	"spider_edu_backend/internal/repository"
	"spider_edu_backend/internal/util"

	"github.com/google/uuid"
)

type UserService struct {
	UserRepo *repository.UserRepository
	Storage  *StorageService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Storage:  storage,
	}
}

// UserProfileUpdate 可更新的资料字段，nil表示不改
type UserProfileUpdate struct {
	FullName *string `json:"full_name"`
	Bio      *string `json:"bio"`
}

func (s *UserService) GetByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, update UserProfileUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UploadAvatar 上传头像并更新用户记录，文件名用uuid避免覆盖
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return "", util.ErrUserNotFound
	}

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("avatars/%d/%s%s", user.ID, uuid.New().String(), ext)

	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(user.ID, url); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UserService) List(skip, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}
	return s.UserRepo.List(skip, limit)
}

// OnlineWindow 最近活跃判定窗口
const OnlineWindow = 5 * time.Minute

// IsOnline 用户是否在线
func IsOnline(user *model.User) bool {
	return user.LastSeen != nil && time.Since(*user.LastSeen) < OnlineWindow
}
