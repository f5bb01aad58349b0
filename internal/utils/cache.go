package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/patrickmn/go-cache"
)

// Cache 全局缓存实例
var Cache *cache.Cache

// InitCache 初始化缓存
func InitCache() {
	// 默认过期时间5分钟，清理间隔10分钟
	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// CacheGet 获取缓存值
func CacheGet(key string) (interface{}, bool) {
	return Cache.Get(key)
}

// CacheSet 设置缓存值
func CacheSet(key string, value interface{}, duration time.Duration) {
	Cache.Set(key, value, duration)
}

// CacheDelete 删除缓存
func CacheDelete(key string) {
	Cache.Delete(key)
}

// CacheClear 清空所有缓存
func CacheClear() {
	Cache.Flush()
}

// CacheItem 包装实际的数据，增加过期时间
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// MemoCache 进程内只读端点的记忆化缓存（无淘汰策略之外的 TTL，容量由 LRU 限制）
type MemoCache[T any] struct {
	storage *lru.Cache[string, CacheItem[T]]
	ttl     time.Duration
}

// NewMemoCache 初始化，size 是最大缓存条数（如 1000），ttl 是数据有效期
func NewMemoCache[T any](size int, ttl time.Duration) *MemoCache[T] {
	// lru.New 是线程安全的
	c, _ := lru.New[string, CacheItem[T]](size)
	return &MemoCache[T]{
		storage: c,
		ttl:     ttl,
	}
}

// Set 写入（LRU 中 Add 会自动处理更新）
func (c *MemoCache[T]) Set(key string, value T) {
	item := CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	}
	c.storage.Add(key, item)
}

// Get 读取（带过期检查）
func (c *MemoCache[T]) Get(key string) (T, bool) {
	var zero T
	item, ok := c.storage.Get(key)
	if !ok {
		return zero, false
	}

	if time.Now().After(item.ExpiredAt) {
		c.storage.Remove(key) // 过期删除
		return zero, false
	}

	return item.Value, true
}

// GetOrFetch 命中直接返回，未命中或已过期时调用 fetch 并回填。
// 失败结果不缓存，下次调用重新拉取
func (c *MemoCache[T]) GetOrFetch(key string, fetch func() (T, error)) (T, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(key, value)
	return value, nil
}

// Delete 删除
func (c *MemoCache[T]) Delete(key string) {
	c.storage.Remove(key)
}

// Clear 清空
func (c *MemoCache[T]) Clear() {
	c.storage.Purge()
}

// Len 当前条数
func (c *MemoCache[T]) Len() int {
	return c.storage.Len()
}
