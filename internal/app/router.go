package app

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"aviation_exam_backend/docs"
	"aviation_exam_backend/internal/config"
	"aviation_exam_backend/internal/middleware"
	"aviation_exam_backend/internal/model"
	"aviation_exam_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由
	public := router.Group("/api/v1")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	// 考生路由：登录即可
	authed := router.Group("/api/v1")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/auth/me", c.auth.Me)

		authed.GET("/papers", c.paper.List)
		authed.GET("/papers/:id", c.paper.Get)
		authed.GET("/papers/:id/modules", c.module.ListByPaper)
		authed.GET("/modules/:id", c.module.Get)
		authed.GET("/modules/:id/questions", c.question.CandidateView)
		authed.GET("/media/:id", c.media.Get)

		authed.POST("/responses", c.grading.Submit)
		authed.GET("/responses/:id", c.grading.Get)

		authed.POST("/records", c.record.Create)
		authed.GET("/records", c.record.ListMine)
		authed.GET("/records/:id", c.record.Get)
		authed.POST("/records/:id/start", c.record.Start)
		authed.POST("/records/:id/finish", c.record.Finish)
	}

	// 管理路由：出题、判分与统计
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleAdmin, model.RoleSuperAdmin))
	{
		admin.POST("/papers", c.paper.Create)
		admin.PUT("/papers/:id", c.paper.Update)
		admin.DELETE("/papers/:id", c.paper.Delete)
		admin.GET("/papers/:id/records", c.record.ListByPaper)

		admin.POST("/modules", c.module.Create)
		admin.PUT("/modules/:id", c.module.Update)
		admin.DELETE("/modules/:id", c.module.Delete)
		admin.POST("/modules/:id/copy", c.module.Copy)
		admin.POST("/modules/:id/copy-to", c.module.CopyToPaper)
		admin.PUT("/modules/:id/activation", c.module.SetActivation)
		admin.PUT("/papers/:id/modules/reorder", c.module.Reorder)

		// 听力选择题
		admin.POST("/questions/mcq", c.question.CreateMcq)
		admin.GET("/questions/mcq/:id", c.question.GetMcq)
		admin.GET("/modules/:id/questions/mcq", c.question.ListMcqByModule)
		admin.PUT("/questions/mcq/:id", c.question.UpdateMcq)
		admin.DELETE("/questions/mcq/:id", c.question.DeleteMcq)
		admin.POST("/choices", c.question.AddChoice)
		admin.PUT("/choices/:id", c.question.UpdateChoice)
		admin.DELETE("/choices/:id", c.question.DeleteChoice)
		admin.PUT("/questions/mcq/:id/correct-choice", c.question.SetCorrectChoice)

		// 故事复述
		admin.POST("/questions/retell", c.question.CreateRetell)
		admin.GET("/questions/retell/:id", c.question.GetRetell)
		admin.GET("/modules/:id/questions/retell", c.question.ListRetellByModule)
		admin.PUT("/questions/retell/:id", c.question.UpdateRetell)
		admin.DELETE("/questions/retell/:id", c.question.DeleteRetell)

		// 听力简答
		admin.POST("/lsa/dialogs", c.question.CreateLsaDialog)
		admin.GET("/lsa/dialogs/:id", c.question.GetLsaDialog)
		admin.GET("/modules/:id/lsa/dialogs", c.question.ListLsaDialogsByModule)
		admin.PUT("/lsa/dialogs/:id", c.question.UpdateLsaDialog)
		admin.DELETE("/lsa/dialogs/:id", c.question.DeleteLsaDialog)
		admin.POST("/lsa/questions", c.question.AddLsaQuestion)
		admin.PUT("/lsa/questions/:id", c.question.UpdateLsaQuestion)
		admin.DELETE("/lsa/questions/:id", c.question.DeleteLsaQuestion)

		// 陆空通话模拟
		admin.POST("/atc/scenarios", c.question.CreateAtcScenario)
		admin.GET("/atc/scenarios/:id", c.question.GetAtcScenario)
		admin.GET("/modules/:id/atc/scenarios", c.question.ListAtcScenariosByModule)
		admin.PUT("/atc/scenarios/:id", c.question.UpdateAtcScenario)
		admin.DELETE("/atc/scenarios/:id", c.question.DeleteAtcScenario)
		admin.POST("/atc/turns", c.question.AddAtcTurn)
		admin.PUT("/atc/turns/:id", c.question.UpdateAtcTurn)
		admin.DELETE("/atc/turns/:id", c.question.DeleteAtcTurn)

		// 口语面试
		admin.POST("/opi/topics", c.question.CreateOpiTopic)
		admin.GET("/opi/topics/:id", c.question.GetOpiTopic)
		admin.GET("/modules/:id/opi/topics", c.question.ListOpiTopicsByModule)
		admin.PUT("/opi/topics/:id", c.question.UpdateOpiTopic)
		admin.DELETE("/opi/topics/:id", c.question.DeleteOpiTopic)
		admin.POST("/opi/questions", c.question.AddOpiQuestion)
		admin.PUT("/opi/questions/:id", c.question.UpdateOpiQuestion)
		admin.DELETE("/opi/questions/:id", c.question.DeleteOpiQuestion)

		// 判分
		admin.GET("/questions/:questionId/responses", c.grading.ListByQuestion)
		admin.POST("/responses/:id/score", c.grading.Score)
		admin.POST("/responses/:id/auto-score", c.grading.AutoScore)
		admin.POST("/responses/batch-score", c.grading.BatchScore)
		admin.POST("/questions/:questionId/responses/grade-all", c.grading.GradeAllByQuestion)

		// 统计
		admin.GET("/stats/questions/:questionId", c.statistics.QuestionStats)
		admin.GET("/stats/modules/:moduleId", c.statistics.ModuleStats)
		admin.GET("/stats/system", c.statistics.SystemStats)

		// 媒体
		admin.POST("/media/audio", c.media.UploadAudio)
		admin.POST("/media/image", c.media.UploadImage)
		admin.GET("/media", c.media.List)
		admin.DELETE("/media/:id", c.media.Delete)

		// 考试记录管理
		admin.PATCH("/records/:id/status", c.record.UpdateStatus)
	}

	// 超级管理员
	super := router.Group("/api/v1/admin")
	super.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.RoleSuperAdmin))
	{
		super.PUT("/users/:id/role", c.auth.SetRole)
		super.PUT("/users/:id/disabled", c.auth.SetDisabled)
	}
}
