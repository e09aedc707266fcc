package app

import (
	"assessment_backend/internal/config"
	"assessment_backend/internal/middleware"
	"assessment_backend/internal/model"
	"assessment_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/profile", c.auth.GetProfile)

		// 考试内容：列表与详情对所有登录用户开放
		authGroup.GET("/exams", c.exam.ListExams)
		authGroup.GET("/exams/:id", c.exam.GetExam)
		authGroup.GET("/exams/:id/sections", c.exam.ListSections)
		authGroup.GET("/exams/:id/questions", c.exam.ListQuestions)

		// 学生作答
		student := authGroup.Group("")
		student.Use(middleware.RoleMiddleware(model.Student))
		{
			student.POST("/attempts/:id/start", c.attempt.Start)
			student.POST("/attempts/:id/submit", c.attempt.Submit)
			student.GET("/attempts/my", c.attempt.ListMy)
			student.GET("/attempts/my/exam/:examId", c.attempt.GetMyForExam)
			student.PUT("/attempts/:id/answers", c.answer.Upsert)
			student.GET("/attempts/:id/answers", c.answer.ListForAttempt)
			student.GET("/attempts/:id/answers/:questionId", c.answer.GetForQuestion)
		}

		// 教师：出卷、排期、指派、评分
		teacher := authGroup.Group("")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/exams", c.exam.CreateExam)
			teacher.PUT("/exams/:id/schedule", c.exam.UpdateSchedule)
			teacher.POST("/exams/:id/sections", c.exam.CreateSection)
			teacher.POST("/exams/:id/questions", c.exam.CreateQuestion)
			teacher.GET("/exams/:id/answers", c.answer.ListByExam)
			teacher.POST("/attempts", c.attempt.Assign)
			teacher.POST("/attempts/:id/grade", c.attempt.Grade)
			teacher.POST("/groups", c.group.CreateGroup)
			teacher.GET("/groups", c.group.ListGroups)
			teacher.POST("/groups/:id/members", c.group.AddMember)
			teacher.GET("/groups/:id/members", c.group.ListMembers)
			teacher.POST("/groups/:id/assign", c.group.AssignExam)
		}

		// 管理员
		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/attempts/sweep", c.attempt.RunSweep)
		}
	}
}
