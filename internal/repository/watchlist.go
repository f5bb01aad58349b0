package repository

import (
	"time"

	"github.com/user/movievault/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// SetStatus 写入观影状态，(user_id, movie_id) 冲突时原地更新而不是新增行
func (r *WatchlistRepository) SetStatus(userID, movieID int, status string) (*model.WatchlistEntry, error) {
	entry := &model.WatchlistEntry{
		UserID:    userID,
		MovieID:   movieID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(entry).Error
	if err != nil {
		return nil, err
	}

	// 冲突路径下回读数据库中的现有行，保证返回真实的 ID 与创建时间
	var saved model.WatchlistEntry
	if err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Remove 从片单移除
func (r *WatchlistRepository) Remove(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchlistEntry{}).Error
}

// List 获取片单，可按状态过滤，附带电影元数据、评分与最近一条笔记
func (r *WatchlistRepository) List(userID int, status string) ([]model.WatchlistItem, error) {
	q := r.db.Preload("Movie").Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var entries []model.WatchlistEntry
	if err := q.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}

	var ratings []model.Rating
	if err := r.db.Where("user_id = ?", userID).Find(&ratings).Error; err != nil {
		return nil, err
	}
	ratingByMovie := make(map[int]int, len(ratings))
	for _, rt := range ratings {
		ratingByMovie[rt.MovieID] = rt.Rating
	}

	// 按创建时间升序遍历，同一电影后写的笔记覆盖先写的
	var notes []model.Note
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&notes).Error; err != nil {
		return nil, err
	}
	noteByMovie := make(map[int]string, len(notes))
	for _, n := range notes {
		noteByMovie[n.MovieID] = n.Content
	}

	items := make([]model.WatchlistItem, 0, len(entries))
	for _, entry := range entries {
		item := model.WatchlistItem{Entry: entry}
		if entry.Movie != nil {
			item.Movie = *entry.Movie
		}
		item.Entry.Movie = nil
		if v, ok := ratingByMovie[entry.MovieID]; ok {
			rating := v
			item.Rating = &rating
		}
		if v, ok := noteByMovie[entry.MovieID]; ok {
			note := v
			item.Note = &note
		}
		items = append(items, item)
	}
	return items, nil
}
