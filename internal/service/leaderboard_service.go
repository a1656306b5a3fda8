package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spider_edu_backend/internal/repository"
	"spider_edu_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	leaderboardCacheTTL     = 30 * time.Second
	leaderboardDefaultLimit = 50
	recentDefaultLimit      = 10
)

// 荣誉称号按总分从高到低命中第一个满足的档位
var honorTitles = []struct {
	MinScore int
	Title    string
}{
	{1000, "爬虫宗师"},
	{500, "逆向高手"},
	{200, "进阶学徒"},
	{50, "初窥门径"},
	{0, "新手上路"},
}

// HonorTitle 根据总分返回荣誉称号
func HonorTitle(totalScore int) string {
	for _, t := range honorTitles {
		if totalScore >= t.MinScore {
			return t.Title
		}
	}
	return honorTitles[len(honorTitles)-1].Title
}

// LeaderboardEntry 排行榜单条记录
type LeaderboardEntry struct {
	Rank             int        `json:"rank"`
	UserID           uint       `json:"user_id"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name,omitempty"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	TotalScore       int        `json:"total_score"`
	SolvedCount      int        `json:"solved_count"`
	HonorTitle       string     `json:"honor_title"`
	LastSubmissionAt *time.Time `json:"last_submission_at,omitempty"`
}

type LeaderboardService struct {
	ChallengeRepo *repository.ChallengeRepository
	Redis         *redis.Client
}

func NewLeaderboardService(challengeRepo *repository.ChallengeRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{
		ChallengeRepo: challengeRepo,
		Redis:         rdb,
	}
}

// Leaderboard 返回排行榜，Redis可用时缓存30秒。
// 缓存失败只记日志降级回源，不影响请求。
func (s *LeaderboardService) Leaderboard(ctx context.Context, sortBy string, limit int) ([]LeaderboardEntry, error) {
	if sortBy != "solved" {
		sortBy = "score"
	}
	if limit <= 0 || limit > 100 {
		limit = leaderboardDefaultLimit
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%d", sortBy, limit)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		}
	}

	rows, err := s.ChallengeRepo.Leaderboard(sortBy, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:             i + 1,
			UserID:           row.UserID,
			Username:         row.Username,
			FullName:         row.FullName,
			AvatarURL:        row.AvatarURL,
			TotalScore:       row.TotalScore,
			SolvedCount:      row.SolvedCount,
			HonorTitle:       HonorTitle(row.TotalScore),
			LastSubmissionAt: row.LastSubmissionAt,
		})
	}

	if s.Redis != nil {
		if data, err := json.Marshal(entries); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("排行榜缓存写入失败", zap.Error(err))
			}
		}
	}

	return entries, nil
}

// RecentCompletions 最近完成动态
func (s *LeaderboardService) RecentCompletions(limit int) ([]repository.RecentCompletionRow, error) {
	if limit <= 0 || limit > 50 {
		limit = recentDefaultLimit
	}
	return s.ChallengeRepo.RecentCompletions(limit)
}
