package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/movievault/internal/middleware"
	"github.com/user/movievault/internal/utils"
)

// CollectionCreateReq 新建影单请求
type CollectionCreateReq struct {
	Name string `json:"name" binding:"required"`
}

// CollectionRenameReq 重命名影单请求
type CollectionRenameReq struct {
	ID   int    `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CollectionDeleteReq 删除影单请求
type CollectionDeleteReq struct {
	ID int `json:"id" binding:"required"`
}

// CollectionMovieReq 影单增删影片请求
type CollectionMovieReq struct {
	TMDBID int `json:"tmdbId" binding:"required"`
}

// CreateCollection 新建影单，同名视为同一个
func (h *Handler) CreateCollection(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req CollectionCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "name is required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.BadRequest(c, "name must not be empty")
		return
	}

	collection, err := h.Repos.Collection.Create(userID, name)
	if err != nil {
		log.Printf("[Collection] 创建影单失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "failed to create collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "collection": collection})
}

// RenameCollection 重命名影单
func (h *Handler) RenameCollection(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req CollectionRenameReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "id and name are required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.BadRequest(c, "name must not be empty")
		return
	}

	if collection, err := h.Repos.Collection.FindByID(userID, req.ID); err != nil {
		log.Printf("[Collection] 查询影单失败 (用户: %d, 影单: %d): %v", userID, req.ID, err)
		utils.InternalServerError(c, "failed to rename collection")
		return
	} else if collection == nil {
		utils.NotFound(c, "collection not found")
		return
	}

	if err := h.Repos.Collection.Rename(userID, req.ID, name); err != nil {
		log.Printf("[Collection] 重命名失败 (用户: %d, 影单: %d): %v", userID, req.ID, err)
		utils.InternalServerError(c, "failed to rename collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteCollection 删除影单，成员关联级联清理
func (h *Handler) DeleteCollection(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	var req CollectionDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "id is required")
		return
	}

	if err := h.Repos.Collection.Delete(userID, req.ID); err != nil {
		log.Printf("[Collection] 删除影单失败 (用户: %d, 影单: %d): %v", userID, req.ID, err)
		utils.InternalServerError(c, "failed to delete collection")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListCollections 影单列表，每个影单带成员影片
func (h *Handler) ListCollections(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	collections, err := h.Repos.Collection.ListWithMovies(userID)
	if err != nil {
		log.Printf("[Collection] 查询影单失败 (用户: %d): %v", userID, err)
		utils.InternalServerError(c, "failed to load collections")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "collections": collections})
}

// AddCollectionMovie 把影片加入影单，重复加入不报错
func (h *Handler) AddCollectionMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	collectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid collection id")
		return
	}

	var req CollectionMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "tmdbId is required")
		return
	}

	// 归属校验：只能操作自己的影单
	collection, err := h.Repos.Collection.FindByID(userID, collectionID)
	if err != nil {
		log.Printf("[Collection] 查询影单失败 (用户: %d, 影单: %d): %v", userID, collectionID, err)
		utils.InternalServerError(c, "failed to add movie")
		return
	}
	if collection == nil {
		utils.NotFound(c, "collection not found")
		return
	}

	movie, err := h.Sync.SyncMovie(c.Request.Context(), req.TMDBID)
	if err != nil {
		log.Printf("[Collection] 同步影片失败 (tmdbId: %d): %v", req.TMDBID, err)
		utils.InternalServerError(c, "failed to sync movie")
		return
	}

	if err := h.Repos.Collection.AddMovie(collectionID, movie.ID); err != nil {
		log.Printf("[Collection] 加入影片失败 (影单: %d, 影片: %d): %v", collectionID, movie.ID, err)
		utils.InternalServerError(c, "failed to add movie")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "movie": movie})
}

// RemoveCollectionMovie 把影片移出影单
func (h *Handler) RemoveCollectionMovie(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		utils.Unauthorized(c, "")
		return
	}

	collectionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "invalid collection id")
		return
	}

	var req CollectionMovieReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "tmdbId is required")
		return
	}

	collection, err := h.Repos.Collection.FindByID(userID, collectionID)
	if err != nil {
		log.Printf("[Collection] 查询影单失败 (用户: %d, 影单: %d): %v", userID, collectionID, err)
		utils.InternalServerError(c, "failed to remove movie")
		return
	}
	if collection == nil {
		utils.NotFound(c, "collection not found")
		return
	}

	movie, err := h.Repos.Movie.FindByTMDBID(req.TMDBID)
	if err != nil {
		log.Printf("[Collection] 查询影片失败 (tmdbId: %d): %v", req.TMDBID, err)
		utils.InternalServerError(c, "failed to remove movie")
		return
	}
	if movie == nil {
		utils.NotFound(c, "movie not found")
		return
	}

	if err := h.Repos.Collection.RemoveMovie(collectionID, movie.ID); err != nil {
		log.Printf("[Collection] 移出影片失败 (影单: %d, 影片: %d): %v", collectionID, movie.ID, err)
		utils.InternalServerError(c, "failed to remove movie")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
