package repository

import (
	"fmt"

	"github.com/user/movievault/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// 同步表结构（含唯一索引、评分 CHECK 约束与级联外键）
	if err := db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.WatchlistEntry{},
		&model.Rating{},
		&model.Note{},
		&model.Collection{},
		&model.CollectionMovie{},
	); err != nil {
		return nil, fmt.Errorf("表结构迁移失败: %w", err)
	}

	return db, nil
}

// UserStore 用户存取
type UserStore interface {
	EnsureUser(email, name string) (*model.User, error)
	FindByID(id int) (*model.User, error)
	Delete(userID int) error
}

// MovieStore 电影缓存存取
type MovieStore interface {
	Upsert(movie *model.Movie) error
	FindByTMDBID(tmdbID int) (*model.Movie, error)
	SearchMine(userID int, query string, limit int) ([]model.MyMovieHit, error)
	SuggestCandidates(userID int, filter model.SuggestFilter, limit int) ([]model.SuggestCandidate, error)
}

// WatchlistStore 片单存取
type WatchlistStore interface {
	SetStatus(userID, movieID int, status string) (*model.WatchlistEntry, error)
	Remove(userID, movieID int) error
	List(userID int, status string) ([]model.WatchlistItem, error)
}

// RatingStore 评分存取
type RatingStore interface {
	SetValue(userID, movieID, value int) (*model.Rating, error)
	ListRated(userID int) ([]model.RatedMovie, error)
}

// NoteStore 笔记存取
type NoteStore interface {
	Create(note *model.Note) error
	ListByUser(userID int) ([]*model.Note, error)
}

// CollectionStore 影单存取
type CollectionStore interface {
	Create(userID int, name string) (*model.Collection, error)
	Rename(userID, id int, name string) error
	Delete(userID, id int) error
	FindByID(userID, id int) (*model.Collection, error)
	AddMovie(collectionID, movieID int) error
	RemoveMovie(collectionID, movieID int) error
	ListWithMovies(userID int) ([]model.CollectionWithMovies, error)
}

// Repositories 仓库集合
type Repositories struct {
	DB         *gorm.DB
	User       UserStore
	Movie      MovieStore
	Watchlist  WatchlistStore
	Rating     RatingStore
	Note       NoteStore
	Collection CollectionStore
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:         db,
		User:       NewUserRepository(db),
		Movie:      NewMovieRepository(db),
		Watchlist:  NewWatchlistRepository(db),
		Rating:     NewRatingRepository(db),
		Note:       NewNoteRepository(db),
		Collection: NewCollectionRepository(db),
	}
}
