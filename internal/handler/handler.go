package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/movievault/internal/config"
	"github.com/user/movievault/internal/model"
	"github.com/user/movievault/internal/repository"
	"github.com/user/movievault/internal/service"
)

func init() {
	// 注册观影状态校验规则，供 binding 标签使用
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("watchstatus", func(fl validator.FieldLevel) bool {
			return model.ValidWatchStatus(fl.Field().String())
		})
	}
}

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Catalog   service.Catalog
	Sync      service.Syncer
	Assistant service.ChatModel
	Recommend *service.RecommendService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 目录客户端
	tmdb := service.NewTMDBService(cfg)

	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Catalog:   tmdb,
		Sync:      service.NewSyncService(tmdb, repos.Movie),
		Assistant: service.NewAssistantService(cfg),
		Recommend: service.NewRecommendService(repos.Rating, repos.Movie),
	}
}
