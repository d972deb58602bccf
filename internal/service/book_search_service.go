package service

import (
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/model"
	"bookgraph_backend/internal/util"
	"bookgraph_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const bookSearchCacheKeyPrefix = "book_search:"

// BookSearchService 查询图书元数据服务（Google Books），过滤并规范化结果
type BookSearchService struct {
	Cfg    config.BooksConfig
	Redis  *redis.Client
	client *http.Client
}

func NewBookSearchService(cfg config.BooksConfig, rdb *redis.Client) *BookSearchService {
	return &BookSearchService{
		Cfg:    cfg,
		Redis:  rdb,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// BookSearchResult GET /books 的响应体
// swagger:model BookSearchResult
type BookSearchResult struct {
	Items      []model.CandidateBook `json:"items"`
	TotalItems int                   `json:"totalItems"`
}

type googleVolumesResponse struct {
	Items []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			PageCount   int      `json:"pageCount"`
			Categories  []string `json:"categories"`
			Language    string   `json:"language"`
			ImageLinks  struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search 查询一个主题下的图书，结果按主题缓存
func (s *BookSearchService) Search(ctx context.Context, topic string) (*BookSearchResult, error) {
	cacheKey := bookSearchCacheKeyPrefix + strings.ToLower(topic)

	if s.Redis != nil {
		if val, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached BookSearchResult
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	result, err := s.fetch(ctx, topic)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		ttl := s.Cfg.CacheTTL
		if ttl <= 0 {
			ttl = 30 * time.Minute
		}
		if data, err := json.Marshal(result); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
				logger.Log.Warn("Failed to cache book search result", zap.String("topic", topic), zap.Error(err))
			}
		}
	}

	return result, nil
}

func (s *BookSearchService) fetch(ctx context.Context, topic string) (*BookSearchResult, error) {
	endpoint := fmt.Sprintf("%s/volumes?q=%s&key=%s&maxResults=%d&printType=books&langRestrict=en",
		s.Cfg.BaseURL,
		url.QueryEscape(topic),
		s.Cfg.APIKey,
		s.Cfg.MaxResults,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrBooksUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", util.ErrBooksUpstream, resp.StatusCode, string(body))
	}

	var raw googleVolumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrBooksUpstream, err)
	}

	// 只保留格式完整的英文条目
	books := make([]model.CandidateBook, 0, len(raw.Items))
	for _, item := range raw.Items {
		info := item.VolumeInfo
		if info.Title == "" || len(info.Authors) == 0 || info.Description == "" ||
			info.PageCount == 0 || info.Language != "en" {
			continue
		}
		books = append(books, model.CandidateBook{
			ID:          item.ID,
			Title:       info.Title,
			Authors:     info.Authors,
			Description: info.Description,
			PageCount:   info.PageCount,
			Categories:  info.Categories,
			Thumbnail:   info.ImageLinks.Thumbnail,
			Language:    info.Language,
		})
	}

	return &BookSearchResult{Items: books, TotalItems: len(books)}, nil
}
