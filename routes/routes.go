package routes

import (
	"os"
	"strings"

	"campreserve-backend/config"
	"campreserve-backend/controllers"
	"campreserve-backend/services"
	"campreserve-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the constructed services the routes hand to controllers.
type Deps struct {
	Templates *services.TemplateService
	Dispatch  *services.DispatchService
	Webhooks  *services.WebhookService
	Email     services.EmailSender
	Cfg       config.CommsConfig
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	origins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	templateController := &controllers.TemplateController{Svc: deps.Templates}
	commController := &controllers.CommunicationController{
		Dispatch: deps.Dispatch,
		Webhooks: deps.Webhooks,
		Email:    deps.Email,
		Cfg:      deps.Cfg,
	}

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Provider callbacks are token-gated, not JWT-authed
	webhooks := r.Group("/communications/webhook")
	{
		webhooks.POST("/:provider/status", commController.WebhookStatus)
		webhooks.POST("/:provider/inbound", commController.WebhookInbound)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Template routes
		templates := api.Group("/templates")
		{
			templates.POST("", templateController.Create)
			templates.GET("", templateController.List)
			templates.GET("/:id", templateController.Get)
			templates.PUT("/:id", templateController.Update)
			templates.DELETE("/:id", templateController.Delete)
			templates.POST("/:id/approve", templateController.Approve)
			templates.POST("/:id/reject", templateController.Reject)
		}

		// Playbook routes
		playbooks := api.Group("/playbooks")
		{
			playbooks.POST("", controllers.CreatePlaybook)
			playbooks.GET("", controllers.GetPlaybooks)
			playbooks.GET("/:id", controllers.GetPlaybook)
			playbooks.PUT("/:id", controllers.UpdatePlaybook)
			playbooks.DELETE("/:id", controllers.DeletePlaybook)
		}

		// Communication routes
		communications := api.Group("/communications")
		{
			communications.POST("/send", commController.Send)
			communications.GET("", commController.List)
			communications.GET("/jobs", commController.ListJobs)
			communications.POST("/jobs", commController.CreateJob)
			communications.POST("/playbooks/run", commController.RunPlaybooks)
		}
	}

	return r
}
