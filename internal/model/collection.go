package model

import (
	"time"
)

// Collection 影单，(user, name) 唯一
type Collection struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"userId" gorm:"uniqueIndex:idx_collections_user_name;not null"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_collections_user_name;not null"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// CollectionMovie 影单-电影关联，复合主键防止重复加入
type CollectionMovie struct {
	CollectionID int       `json:"collectionId" gorm:"primaryKey;autoIncrement:false"`
	MovieID      int       `json:"movieId" gorm:"primaryKey;autoIncrement:false"`
	AddedAt      time.Time `json:"addedAt"`

	Collection *Collection `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie      *Movie      `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
