package model

import (
	"time"
)

// 观影状态。单值，无转移限制，任意状态可以覆盖任意状态
const (
	StatusPlanned  = "planned"
	StatusWatching = "watching"
	StatusWatched  = "watched"
	StatusDropped  = "dropped"
)

// ValidWatchStatus 校验观影状态取值
func ValidWatchStatus(s string) bool {
	switch s {
	case StatusPlanned, StatusWatching, StatusWatched, StatusDropped:
		return true
	}
	return false
}

// WatchlistEntry 片单条目，(user, movie) 唯一
type WatchlistEntry struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"userId" gorm:"uniqueIndex:idx_watchlist_user_movie;not null"`
	MovieID   int       `json:"movieId" gorm:"uniqueIndex:idx_watchlist_user_movie;not null"`
	Status    string    `json:"status" gorm:"not null;default:planned"`
	CreatedAt time.Time `json:"createdAt"`

	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie *Movie `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Rating 评分，(user, movie) 唯一，取值 1-10（数据库 CHECK 约束兜底）
type Rating struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"userId" gorm:"uniqueIndex:idx_ratings_user_movie;not null"`
	MovieID   int       `json:"movieId" gorm:"uniqueIndex:idx_ratings_user_movie;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:ratings_range_check,rating >= 1 AND rating <= 10"`
	CreatedAt time.Time `json:"createdAt"`

	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie *Movie `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// Note 笔记，追加写入，同一 (user, movie) 允许多条
type Note struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	UserID    int       `json:"userId" gorm:"index;not null"`
	MovieID   int       `json:"movieId" gorm:"index;not null"`
	Content   string    `json:"content" gorm:"not null"`
	Spoiler   bool      `json:"spoiler" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt"`

	User  *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Movie *Movie `json:"movie,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
