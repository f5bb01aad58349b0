package repository

import (
	"time"

	"github.com/user/movievault/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// SetValue 写入评分，(user_id, movie_id) 冲突时原地更新
func (r *RatingRepository) SetValue(userID, movieID, value int) (*model.Rating, error) {
	rating := &model.Rating{
		UserID:    userID,
		MovieID:   movieID,
		Rating:    value,
		CreatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating"}),
	}).Create(rating).Error
	if err != nil {
		return nil, err
	}

	var saved model.Rating
	if err := r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListRated 获取用户全部评分行（评分值、片长、类型），供口味画像聚合
func (r *RatingRepository) ListRated(userID int) ([]model.RatedMovie, error) {
	var rows []model.RatedMovie
	err := r.db.Table("ratings").
		Select("ratings.rating, movies.runtime, movies.genres").
		Joins("INNER JOIN movies ON movies.id = ratings.movie_id").
		Where("ratings.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}
