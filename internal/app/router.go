package app

import (
	"bookgraph_backend/docs"
	"bookgraph_backend/internal/config"
	"bookgraph_backend/internal/middleware"

	"bookgraph_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/topics", c.topic.List)
		public.GET("/books", c.book.Search)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 分析
		authGroup.POST("/analyze-books", c.book.Analyze)
		authGroup.GET("/analysis-status", c.book.Status)

		// 图谱
		authGroup.GET("/graph", c.graph.Get)
		authGroup.POST("/graph/show-more", c.graph.ShowMore)
		authGroup.POST("/graph-layout", c.graph.SaveLayout)

		// 主题与进度
		authGroup.POST("/topics/:id/enroll", c.topic.Enroll)
		authGroup.POST("/user_progress", c.progress.Update)

		// 用户
		authGroup.GET("/profile", c.user.Profile)
		authGroup.POST("/user/avatar/upload", c.user.UploadAvatar)
	}
}
