package main

import (
	"fmt"
	"log"
	"os"

	"campreserve-backend/config"
	"campreserve-backend/models"
	"campreserve-backend/routes"
	"campreserve-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	config.InitLogger()
	config.ConnectDB()

	config.DB.AutoMigrate(
		&models.Campground{},
		&models.User{},
		&models.Guest{},
		&models.Reservation{},
		&models.MessageTemplate{},
		&models.Playbook{},
		&models.CommsJob{},
		&models.Communication{},
		&models.NPSInvite{},
	)
}

func main() {
	commsCfg := config.LoadCommsConfig()

	email := services.NewPostmarkEmailSender()
	sms := services.NewTwilioSMSSender()
	nps := services.NewNPSService(config.DB)

	dispatch := services.NewDispatchService(config.DB, email, sms, nps)
	templates := services.NewTemplateService(config.DB)
	webhooks := services.NewWebhookService(config.DB)

	scheduler := services.StartScheduler(dispatch, commsCfg.PollBatchSize)
	defer scheduler.Stop()

	r := routes.SetupRouter(routes.Deps{
		Templates: templates,
		Dispatch:  dispatch,
		Webhooks:  webhooks,
		Email:     email,
		Cfg:       commsCfg,
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
