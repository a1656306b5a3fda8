package app

import (
	"spider_edu_backend/docs"
	"spider_edu_backend/internal/config"
	"spider_edu_backend/internal/middleware"

	"spider_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api/v1")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerUserRoutes(authGroup, c)
		a.registerChallengeRoutes(authGroup, c)
		a.registerNoteRoutes(authGroup, c)
		a.registerKnowledgeRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api/v1")
	{
		public.GET("/health", c.health.HealthCheck)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/logout", c.auth.Logout)
		}

		// 排行榜对游客开放
		public.GET("/challenges/leaderboard", c.challenge.GetLeaderboard)
		public.GET("/challenges/recent-completions", c.challenge.GetRecentCompletions)
	}
}

func (a *App) registerUserRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.GetProfile)

	users := rg.Group("/users")
	{
		users.POST("/me/avatar", c.user.UploadAvatar)
		users.GET("/:id", c.user.GetUser)
		users.PUT("/:id", c.user.UpdateProfile)
	}
}

func (a *App) registerChallengeRoutes(rg *gin.RouterGroup, c *controllers) {
	// 题目浏览需要登录，未发布题目的可见性在服务层判定
	exercises := rg.Group("/exercises")
	{
		exercises.GET("", c.exercise.ListExercises)
		exercises.GET("/stats", c.exercise.ExerciseStats)
		exercises.GET("/:id", c.exercise.GetExercise)
	}

	challenges := rg.Group("/challenges")
	{
		challenges.GET("/progress", c.challenge.GetProgress)
		challenges.POST("/submit", c.challenge.SubmitChallenge)
		challenges.GET("/:exerciseId", c.challenge.GetChallenge)
		challenges.GET("/:exerciseId/page/:pageNumber", c.challenge.GetChallengePage)
		challenges.GET("/:exerciseId/params", c.challenge.GetChallengeParams)
	}
}

func (a *App) registerNoteRoutes(rg *gin.RouterGroup, c *controllers) {
	notes := rg.Group("/notes")
	{
		notes.POST("", c.note.CreateNote)
		notes.GET("", c.note.ListNotes)
		notes.GET("/:id", c.note.GetNote)
		notes.PUT("/:id", c.note.UpdateNote)
		notes.DELETE("/:id", c.note.DeleteNote)
	}
}

func (a *App) registerKnowledgeRoutes(rg *gin.RouterGroup, c *controllers) {
	knowledge := rg.Group("/knowledge")
	{
		knowledge.GET("/banks", c.knowledge.ListBanks)
		knowledge.GET("/banks/:id", c.knowledge.GetBank)
		knowledge.GET("/banks/:id/questions", c.knowledge.ListQuestions)

		knowledge.POST("/exam/setup", c.knowledge.SetupExam)
		knowledge.POST("/practice/setup", c.knowledge.SetupPractice)
		knowledge.GET("/sessions/:sessionId/questions", c.knowledge.GetSessionQuestions)
		knowledge.POST("/sessions/:sessionId/submit", c.knowledge.SubmitAnswer)
		knowledge.POST("/sessions/:sessionId/complete", c.knowledge.CompleteSession)

		knowledge.GET("/wrong-questions", c.knowledge.ListWrongQuestions)
		knowledge.POST("/wrong-questions/:id/master", c.knowledge.MasterWrongQuestion)
		knowledge.DELETE("/wrong-questions/:id", c.knowledge.DeleteWrongQuestion)

		knowledge.GET("/stats", c.knowledge.GetUserStats)
		knowledge.GET("/stats/banks/:bankId", c.knowledge.GetBankStats)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.SuperuserMiddleware())
	{
		admin.GET("/users", c.user.ListUsers)

		admin.POST("/exercises", c.exercise.CreateExercise)
		admin.PUT("/exercises/:id", c.exercise.UpdateExercise)

		admin.POST("/knowledge/banks", c.knowledge.CreateBank)
		admin.PUT("/knowledge/banks/:id", c.knowledge.UpdateBank)
		admin.DELETE("/knowledge/banks/:id", c.knowledge.DeleteBank)
		admin.POST("/knowledge/questions", c.knowledge.CreateQuestion)
		admin.PUT("/knowledge/questions/:id", c.knowledge.UpdateQuestion)
		admin.DELETE("/knowledge/questions/:id", c.knowledge.DeleteQuestion)
	}
}
