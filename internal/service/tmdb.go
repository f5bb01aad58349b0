package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/movievault/internal/config"
	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/utils"
)

// Catalog 外部电影目录服务
type Catalog interface {
	SearchMovies(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
	DiscoverMovies(ctx context.Context, opts SearchOptions) (*SearchResponse, error)
	MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error)
	Trending(ctx context.Context) (*SearchResponse, error)
	Genres(ctx context.Context) ([]Genre, error)
}

// CatalogError 目录请求的非 2xx 失败，携带状态码与截断的响应体
type CatalogError struct {
	Status int
	Path   string
	Body   string
}

func (e *CatalogError) Error() string {
	// 认证失败与一般失败只在消息上区分，不拆成两个类型
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return fmt.Sprintf("TMDB auth failed (%d): token 无效或缺失。Detail: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("TMDB request failed (%d) for %s. Body: %s", e.Status, e.Path, e.Body)
}

// SearchOptions 搜索/发现的可选参数
type SearchOptions struct {
	Page  int
	Year  int
	Genre int
}

// SearchResponse TMDB 列表响应
type SearchResponse struct {
	Page         int           `json:"page"`
	Results      []SearchMovie `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// SearchMovie TMDB 列表条目
type SearchMovie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	GenreIDs    []int   `json:"genre_ids"`
	VoteAverage float64 `json:"vote_average"`
	Popularity  float64 `json:"popularity"`
}

// Genre TMDB 类型
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails TMDB 单片详情
type MovieDetails struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"` // 电视剧
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"` // 电视剧
	Runtime      int     `json:"runtime"`
	Genres       []Genre `json:"genres"`
}

type TMDBService struct {
	config     *config.Config
	client     *http.Client
	detailMemo *utils.MemoCache[*MovieDetails]
}

func NewTMDBService(cfg *config.Config) *TMDBService {
	return &TMDBService{
		config:     cfg,
		client:     &http.Client{},
		detailMemo: utils.NewMemoCache[*MovieDetails](1000, 5*time.Minute),
	}
}

// get 发起带 Bearer Token 的 GET 请求，超时取消，单次失败直接上抛，不重试
func (s *TMDBService) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if s.config.TMDBToken == "" {
		return fmt.Errorf("TMDB_ACCESS_TOKEN 未配置")
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.TMDBTimeout)
	defer cancel()

	endpoint := strings.TrimRight(s.config.TMDBBaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.TMDBToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("TMDB fetch error (%s): %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &CatalogError{
			Status: resp.StatusCode,
			Path:   path,
			Body:   truncateBody(string(body), 200),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("解析 TMDB 响应失败 (%s): %w", path, err)
	}
	return nil
}

func truncateBody(body string, limit int) string {
	if len(body) > limit {
		return body[:limit]
	}
	return body
}

// SearchMovies 关键词搜索。写相邻端点，不走缓存
func (s *TMDBService) SearchMovies(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("page", strconv.Itoa(page))
	if opts.Year > 0 {
		q.Set("year", strconv.Itoa(opts.Year))
	}
	if opts.Genre > 0 {
		q.Set("with_genres", strconv.Itoa(opts.Genre))
	}

	var result SearchResponse
	if err := s.get(ctx, "/search/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DiscoverMovies 按条件发现，热度降序。不走缓存
func (s *TMDBService) DiscoverMovies(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("sort_by", "popularity.desc")
	q.Set("page", strconv.Itoa(page))
	if opts.Year > 0 {
		q.Set("primary_release_year", strconv.Itoa(opts.Year))
	}
	if opts.Genre > 0 {
		q.Set("with_genres", strconv.Itoa(opts.Genre))
	}

	var result SearchResponse
	if err := s.get(ctx, "/discover/movie", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MovieDetails 单片详情，进程内记忆化 5 分钟
func (s *TMDBService) MovieDetails(ctx context.Context, tmdbID int) (*MovieDetails, error) {
	key := strconv.Itoa(tmdbID)
	return s.detailMemo.GetOrFetch(key, func() (*MovieDetails, error) {
		var result MovieDetails
		if err := s.get(ctx, "/movie/"+key, nil, &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
}

// Trending 本周热门，进程内缓存 1 小时
func (s *TMDBService) Trending(ctx context.Context) (*SearchResponse, error) {
	if cached, found := utils.CacheGet("tmdb:trending"); found {
		if result, ok := cached.(*SearchResponse); ok {
			return result, nil
		}
	}

	var result SearchResponse
	if err := s.get(ctx, "/trending/movie/week", nil, &result); err != nil {
		return nil, err
	}

	utils.CacheSet("tmdb:trending", &result, 1*time.Hour)
	return &result, nil
}

// Genres 类型列表，进程内缓存 24 小时
func (s *TMDBService) Genres(ctx context.Context) ([]Genre, error) {
	if cached, found := utils.CacheGet("tmdb:genres"); found {
		if genres, ok := cached.([]Genre); ok {
			return genres, nil
		}
	}

	var result struct {
		Genres []Genre `json:"genres"`
	}
	if err := s.get(ctx, "/genre/movie/list", nil, &result); err != nil {
		return nil, err
	}

	utils.CacheSet("tmdb:genres", result.Genres, 24*time.Hour)
	return result.Genres, nil
}

// MovieFromDetails 把 TMDB 详情归一化成本地缓存行
func MovieFromDetails(details *MovieDetails) *model.Movie {
	title := details.Title
	if title == "" {
		title = details.Name
	}
	if title == "" {
		title = "Untitled"
	}

	year := 0
	date := details.ReleaseDate
	if date == "" {
		date = details.FirstAirDate
	}
	if len(date) >= 4 {
		if y, err := strconv.Atoi(date[:4]); err == nil {
			year = y
		}
	}

	genres := make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		genres = append(genres, g.Name)
	}

	return &model.Movie{
		TMDBID:     details.ID,
		Title:      title,
		Year:       year,
		PosterPath: details.PosterPath,
		Overview:   details.Overview,
		Runtime:    details.Runtime,
		Genres:     genres,
	}
}
