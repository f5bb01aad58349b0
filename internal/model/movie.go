package model

import (
	"time"

	"github.com/lib/pq"
)

// Movie 电影模型（TMDB 元数据的本地缓存，不是数据源头）
type Movie struct {
	ID         int            `json:"id" gorm:"primaryKey"`
	TMDBID     int            `json:"tmdbId" gorm:"column:tmdb_id;uniqueIndex;not null"`
	Title      string         `json:"title" gorm:"not null"`
	Year       int            `json:"year"`
	PosterPath string         `json:"posterPath"`
	Overview   string         `json:"overview"`
	Runtime    int            `json:"runtime"`
	Genres     pq.StringArray `json:"genres" gorm:"type:text[]"`
	UpdatedAt  time.Time      `json:"updatedAt" gorm:"index"`
}
