package model

import (
	"github.com/lib/pq"
)

// WatchlistItem 片单条目及关联元数据（评分、最近一条笔记）
type WatchlistItem struct {
	Entry  WatchlistEntry `json:"entry"`
	Movie  Movie          `json:"movie"`
	Rating *int           `json:"rating"`
	Note   *string        `json:"note"`
}

// CollectionWithMovies 影单及其包含的电影
type CollectionWithMovies struct {
	Collection Collection `json:"collection"`
	Movies     []Movie    `json:"movies"`
}

// RatedMovie 口味画像聚合用的评分行
type RatedMovie struct {
	Rating  int            `json:"rating"`
	Runtime int            `json:"runtime"`
	Genres  pq.StringArray `json:"genres" gorm:"type:text[]"`
}

// GenreScore 类型得分：把每部已评分电影的分值累加到它携带的每个类型上
type GenreScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// TasteProfile 口味画像
type TasteProfile struct {
	AverageRating *float64     `json:"averageRating"`
	RatedCount    int          `json:"ratedCount"`
	TopGenres     []GenreScore `json:"topGenres"`
	MedianRuntime *float64     `json:"medianRuntime"`
}

// SuggestFilter 今晚看什么的 SQL 侧过滤条件
type SuggestFilter struct {
	MaxMinutes int
	YearFrom   int
	YearTo     int
}

// SuggestCandidate SQL 侧筛出的候选（带用户评分与观影状态）
type SuggestCandidate struct {
	Movie  Movie   `json:"movie"`
	Rating *int    `json:"rating"`
	Status *string `json:"status"`
}

// Suggestion 推荐结果
type Suggestion struct {
	Title   string  `json:"title"`
	Year    int     `json:"year"`
	Runtime int     `json:"runtime"`
	Rating  *int    `json:"rating"`
	Status  *string `json:"status"`
}

// MyMovieHit 本地片库标题搜索结果
type MyMovieHit struct {
	Movie  Movie   `json:"movie"`
	Rating *int    `json:"rating"`
	Status *string `json:"status"`
}
