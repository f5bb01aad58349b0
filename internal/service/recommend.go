package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/repository"
	"github.com/user/movievault/internal/utils"
)

const (
	tasteCacheTTL   = 10 * time.Minute
	suggestPoolSize = 25
	suggestLimit    = 5
	topGenreCount   = 5
)

// RecommendService 口味画像与“今晚看什么”
type RecommendService struct {
	ratings repository.RatingStore
	movies  repository.MovieStore
}

func NewRecommendService(ratings repository.RatingStore, movies repository.MovieStore) *RecommendService {
	return &RecommendService{
		ratings: ratings,
		movies:  movies,
	}
}

func tasteCacheKey(userID int) string {
	return "taste:" + strconv.Itoa(userID)
}

// InvalidateTaste 评分写入后清掉画像缓存
func InvalidateTaste(userID int) {
	utils.CacheDelete(tasteCacheKey(userID))
}

// TasteProfile 口味画像：平均分、评分数、片长中位数、类型得分前五
func (s *RecommendService) TasteProfile(userID int) (*model.TasteProfile, error) {
	key := tasteCacheKey(userID)
	if cached, found := utils.CacheGet(key); found {
		if profile, ok := cached.(*model.TasteProfile); ok {
			return profile, nil
		}
	}

	rated, err := s.ratings.ListRated(userID)
	if err != nil {
		return nil, err
	}

	profile := buildTasteProfile(rated)
	utils.CacheSet(key, profile, tasteCacheTTL)
	return profile, nil
}

func buildTasteProfile(rated []model.RatedMovie) *model.TasteProfile {
	profile := &model.TasteProfile{
		RatedCount: len(rated),
		TopGenres:  []model.GenreScore{},
	}
	if len(rated) == 0 {
		return profile
	}

	sum := 0
	for _, r := range rated {
		sum += r.Rating
	}
	average := float64(sum) / float64(len(rated))
	profile.AverageRating = &average

	if median, ok := medianRuntime(rated); ok {
		profile.MedianRuntime = &median
	}

	profile.TopGenres = topGenres(rated, topGenreCount)
	return profile
}

// medianRuntime 片长中位数：排序后取中间值，偶数个取中间两个的平均。
// 缺失片长（0）的行不参与
func medianRuntime(rated []model.RatedMovie) (float64, bool) {
	runtimes := make([]int, 0, len(rated))
	for _, r := range rated {
		if r.Runtime > 0 {
			runtimes = append(runtimes, r.Runtime)
		}
	}
	if len(runtimes) == 0 {
		return 0, false
	}

	sort.Ints(runtimes)
	n := len(runtimes)
	if n%2 == 0 {
		return float64(runtimes[n/2-1]+runtimes[n/2]) / 2, true
	}
	return float64(runtimes[n/2]), true
}

// topGenres 把每部电影的评分累加到它携带的每个类型上，
// 得分降序，同分按类型名升序（固定平局顺序，避免 map 遍历的不确定性）
func topGenres(rated []model.RatedMovie, limit int) []model.GenreScore {
	scores := make(map[string]int)
	for _, r := range rated {
		for _, genre := range r.Genres {
			scores[genre] += r.Rating
		}
	}

	result := make([]model.GenreScore, 0, len(scores))
	for name, score := range scores {
		result = append(result, model.GenreScore{Name: name, Score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Name < result[j].Name
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

// SuggestTonight 两阶段筛选：
// 第一阶段 SQL 做时长/年份范围过滤并按评分、新鲜度取前 25；
// 第二阶段在内存里做大小写不敏感的类型排除，返回前 5 个幸存者。
// 类型存的是未索引的列表列，排除只能在内存做
func (s *RecommendService) SuggestTonight(userID int, filter model.SuggestFilter, avoidGenres []string) ([]model.Suggestion, error) {
	candidates, err := s.movies.SuggestCandidates(userID, filter, suggestPoolSize)
	if err != nil {
		return nil, err
	}

	avoid := make(map[string]bool, len(avoidGenres))
	for _, g := range avoidGenres {
		g = strings.TrimSpace(g)
		if g != "" {
			avoid[strings.ToLower(g)] = true
		}
	}

	suggestions := make([]model.Suggestion, 0, suggestLimit)
	for _, c := range candidates {
		if hasAvoidedGenre(c.Movie.Genres, avoid) {
			continue
		}
		suggestions = append(suggestions, model.Suggestion{
			Title:   c.Movie.Title,
			Year:    c.Movie.Year,
			Runtime: c.Movie.Runtime,
			Rating:  c.Rating,
			Status:  c.Status,
		})
		if len(suggestions) >= suggestLimit {
			break
		}
	}
	return suggestions, nil
}

func hasAvoidedGenre(genres []string, avoid map[string]bool) bool {
	if len(avoid) == 0 {
		return false
	}
	for _, g := range genres {
		if avoid[strings.ToLower(g)] {
			return true
		}
	}
	return false
}
