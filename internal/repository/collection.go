package repository

import (
	"errors"
	"time"

	"github.com/user/movievault/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create 创建影单，(user_id, name) 冲突时幂等返回现有影单
func (r *CollectionRepository) Create(userID int, name string) (*model.Collection, error) {
	collection := &model.Collection{
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(collection).Error
	if err != nil {
		return nil, err
	}

	var saved model.Collection
	if err := r.db.Where("user_id = ? AND name = ?", userID, name).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// Rename 重命名影单
func (r *CollectionRepository) Rename(userID, id int, name string) error {
	return r.db.Model(&model.Collection{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("name", name).Error
}

// Delete 删除影单，关联行级联清理
func (r *CollectionRepository) Delete(userID, id int) error {
	return r.db.Where("user_id = ? AND id = ?", userID, id).Delete(&model.Collection{}).Error
}

// FindByID 查找属于该用户的影单（归属校验）
func (r *CollectionRepository) FindByID(userID, id int) (*model.Collection, error) {
	var collection model.Collection
	err := r.db.Where("user_id = ? AND id = ?", userID, id).First(&collection).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &collection, nil
}

// AddMovie 加入影单，复合主键冲突时忽略（防止重复加入）
func (r *CollectionRepository) AddMovie(collectionID, movieID int) error {
	record := &model.CollectionMovie{
		CollectionID: collectionID,
		MovieID:      movieID,
		AddedAt:      time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
}

// RemoveMovie 从影单移除
func (r *CollectionRepository) RemoveMovie(collectionID, movieID int) error {
	return r.db.Where("collection_id = ? AND movie_id = ?", collectionID, movieID).
		Delete(&model.CollectionMovie{}).Error
}

// ListWithMovies 获取用户全部影单及其电影，影单按创建时间倒序
func (r *CollectionRepository) ListWithMovies(userID int) ([]model.CollectionWithMovies, error) {
	var collections []model.Collection
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return []model.CollectionWithMovies{}, nil
	}

	ids := make([]int, 0, len(collections))
	for _, c := range collections {
		ids = append(ids, c.ID)
	}

	var links []model.CollectionMovie
	err = r.db.Preload("Movie").
		Where("collection_id IN ?", ids).
		Order("added_at ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	moviesByCollection := make(map[int][]model.Movie, len(collections))
	for _, link := range links {
		if link.Movie != nil {
			moviesByCollection[link.CollectionID] = append(moviesByCollection[link.CollectionID], *link.Movie)
		}
	}

	result := make([]model.CollectionWithMovies, 0, len(collections))
	for _, c := range collections {
		movies := moviesByCollection[c.ID]
		if movies == nil {
			movies = []model.Movie{}
		}
		result = append(result, model.CollectionWithMovies{Collection: c, Movies: movies})
	}
	return result, nil
}
