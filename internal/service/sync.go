package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/repository"
	"golang.org/x/sync/singleflight"
)

// Syncer 拉取目录详情并落地电影缓存行
type Syncer interface {
	SyncMovie(ctx context.Context, tmdbID int) (*model.Movie, error)
}

type SyncService struct {
	catalog Catalog
	movies  repository.MovieStore
	group   singleflight.Group
}

func NewSyncService(catalog Catalog, movies repository.MovieStore) *SyncService {
	return &SyncService{
		catalog: catalog,
		movies:  movies,
	}
}

// SyncMovie 从 TMDB 同步电影并保存到数据库。
// 所有引用电影的写操作先走这里，保证外键不会悬空。
// 与后续的业务写入不在一个事务里：电影落地本身幂等，失败重试即可。
func (s *SyncService) SyncMovie(ctx context.Context, tmdbID int) (*model.Movie, error) {
	// 使用 singleflight 避免并发重复抓取
	val, err, _ := s.group.Do(strconv.Itoa(tmdbID), func() (interface{}, error) {
		return s.syncInternal(ctx, tmdbID)
	})
	if err != nil {
		return nil, err
	}
	return val.(*model.Movie), nil
}

func (s *SyncService) syncInternal(ctx context.Context, tmdbID int) (*model.Movie, error) {
	details, err := s.catalog.MovieDetails(ctx, tmdbID)
	if err != nil {
		return nil, err
	}

	movie := MovieFromDetails(details)
	if err := s.movies.Upsert(movie); err != nil {
		return nil, fmt.Errorf("保存电影缓存失败: %w", err)
	}

	// 冲突更新路径下 ID 可能未回填，回读一次
	if movie.ID == 0 {
		saved, err := s.movies.FindByTMDBID(tmdbID)
		if err != nil {
			return nil, err
		}
		if saved != nil {
			movie = saved
		}
	}

	return movie, nil
}
