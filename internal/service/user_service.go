package service

import (
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/repository"
	"bookgraph_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"gorm.io/gorm"
)

// UserService 处理用户资料相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
	Topics   *repository.TopicRepository
	Progress *repository.ProgressRepository
	Storage  *StorageService
}

func NewUserService(
	userRepo *repository.UserRepository,
	topics *repository.TopicRepository,
	progress *repository.ProgressRepository,
	storage *StorageService,
) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Topics:   topics,
		Progress: progress,
		Storage:  storage,
	}
}

// Profile 用户资料：基本信息、在学主题和阅读进度汇总
type Profile struct {
	User            *model.User       `json:"user"`
	Topics          []model.UserTopic `json:"topics"`
	BooksInProgress int               `json:"booksInProgress"`
	BooksCompleted  int               `json:"booksCompleted"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	topics, err := s.Topics.ListUserTopics(userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.Progress.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user, Topics: topics}
	for _, p := range progress {
		switch p.Status {
		case model.ProgressInProgress:
			profile.BooksInProgress++
		case model.ProgressCompleted:
			profile.BooksCompleted++
		}
	}
	return profile, nil
}

// UploadAvatar 上传用户头像，只接受图片且不超过大小上限
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (string, error) {
	if file.Size > util.MaxAvatarSize {
		return "", errors.New("头像文件过大")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/%d_%d%s", userID, time.Now().Unix(), filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, contentType)
	if err != nil {
		return "", err
	}

	if err := s.UserRepo.UpdateAvatar(userID, url); err != nil {
		return "", err
	}
	return url, nil
}
