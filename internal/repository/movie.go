package repository

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/user/movievault/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Upsert 创建或更新电影缓存行（以 tmdb_id 冲突更新，幂等可重试）
func (r *MovieRepository) Upsert(movie *model.Movie) error {
	movie.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tmdb_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "year", "poster_path", "overview", "runtime", "genres", "updated_at",
		}),
	}).Create(movie).Error
}

// FindByTMDBID 根据 TMDB ID 查找缓存的电影
func (r *MovieRepository) FindByTMDBID(tmdbID int) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("tmdb_id = ?", tmdbID).First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// userMovieRow 带用户评分与观影状态的联查行
type userMovieRow struct {
	ID          int
	TMDBID      int `gorm:"column:tmdb_id"`
	Title       string
	Year        int
	PosterPath  string
	Overview    string
	Runtime     int
	Genres      pq.StringArray `gorm:"type:text[]"`
	UpdatedAt   time.Time
	UserRating  *int
	WatchStatus *string
}

func (row *userMovieRow) toMovie() model.Movie {
	return model.Movie{
		ID:         row.ID,
		TMDBID:     row.TMDBID,
		Title:      row.Title,
		Year:       row.Year,
		PosterPath: row.PosterPath,
		Overview:   row.Overview,
		Runtime:    row.Runtime,
		Genres:     row.Genres,
		UpdatedAt:  row.UpdatedAt,
	}
}

// joined 电影表左联当前用户的评分与片单状态
func (r *MovieRepository) joined(userID int) *gorm.DB {
	return r.db.Table("movies AS m").
		Select("m.id, m.tmdb_id, m.title, m.year, m.poster_path, m.overview, m.runtime, m.genres, m.updated_at, "+
			"r.rating AS user_rating, w.status AS watch_status").
		Joins("LEFT JOIN ratings r ON r.movie_id = m.id AND r.user_id = ?", userID).
		Joins("LEFT JOIN watchlist_entries w ON w.movie_id = m.id AND w.user_id = ?", userID)
}

// SearchMine 在本地片库按标题搜索，评分高者优先
func (r *MovieRepository) SearchMine(userID int, query string, limit int) ([]model.MyMovieHit, error) {
	var rows []userMovieRow
	err := r.joined(userID).
		Where("m.title ILIKE ?", "%"+query+"%").
		Order("r.rating DESC NULLS LAST").
		Order("m.updated_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]model.MyMovieHit, 0, len(rows))
	for i := range rows {
		hits = append(hits, model.MyMovieHit{
			Movie:  rows[i].toMovie(),
			Rating: rows[i].UserRating,
			Status: rows[i].WatchStatus,
		})
	}
	return hits, nil
}

// SuggestCandidates “今晚看什么”的 SQL 阶段：
// 可选的时长上限与年份区间做范围过滤，按用户评分降序、缓存新鲜度降序取前 N。
// 类型排除在内存中进行（Genres 是未索引的列表列），见 service/recommend.go。
func (r *MovieRepository) SuggestCandidates(userID int, filter model.SuggestFilter, limit int) ([]model.SuggestCandidate, error) {
	q := r.joined(userID).Where("1 = 1")

	if filter.MaxMinutes > 0 {
		q = q.Where("m.runtime > 0 AND m.runtime <= ?", filter.MaxMinutes)
	}
	if filter.YearFrom > 0 || filter.YearTo > 0 {
		from := filter.YearFrom
		if from == 0 {
			from = 1900
		}
		to := filter.YearTo
		if to == 0 {
			to = time.Now().Year()
		}
		q = q.Where("m.year BETWEEN ? AND ?", from, to)
	}

	var rows []userMovieRow
	err := q.Order("r.rating DESC NULLS LAST").
		Order("m.updated_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]model.SuggestCandidate, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, model.SuggestCandidate{
			Movie:  rows[i].toMovie(),
			Rating: rows[i].UserRating,
			Status: rows[i].WatchStatus,
		})
	}
	return candidates, nil
}
