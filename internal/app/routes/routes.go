package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yigit/schoolconnector/internal/app/controllers"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Student    *controllers.StudentController
	Onboarding *controllers.OnboardingController
	Mail       *controllers.MailController
	File       *controllers.FileController
	Health     *controllers.HealthController
	// nil when the webhook is disabled
	Webhook *controllers.WebhookController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	apiKeyAuth gin.HandlerFunc,
	gatherer prometheus.Gatherer,
) {
	// --- Public routes ---
	router.GET("/health", ctrl.Health.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API version group, everything below requires the API key
	v1 := router.Group("/api/v1")
	v1.Use(apiKeyAuth)

	students := v1.Group("/students")
	{
		students.POST("", ctrl.Student.CreateStudent)
		students.GET("", ctrl.Student.GetStudents)
		students.POST("/create/batch", ctrl.Student.CreateStudentsBatch)
		students.POST("/onboarding", ctrl.Onboarding.GetOnboardingPDFs)

		students.GET("/:id", ctrl.Student.GetStudent)
		students.DELETE("/:id", ctrl.Student.DeleteStudent)
		students.POST("/:id/pseudonymize", ctrl.Student.PseudonymizeStudent)
		students.GET("/:id/log", ctrl.Student.GetStudentLog)

		students.GET("/:id/onboarding", ctrl.Onboarding.GetStudentOnboarding)
		students.POST("/:id/onboarding", ctrl.Onboarding.GetStudentOnboarding)

		students.GET("/:id/mails", ctrl.Mail.GetStudentMails)
		students.POST("/:id/mails", ctrl.Mail.SendMail)
		students.POST("/:id/mails/template", ctrl.Mail.SendTemplateMail)

		students.GET("/:id/files", ctrl.File.GetStudentFiles)
		students.POST("/:id/files", ctrl.File.SendFile)
		students.POST("/:id/files/abiturzeugnis", ctrl.File.SendAbiturzeugnis)
	}

	if ctrl.Webhook != nil {
		v1.POST("/webhooks/connector", ctrl.Webhook.HandleConnectorEvent)
	}
}
