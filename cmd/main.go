package main

import (
	"os"

	"backend/config"
	"backend/routes"
	"backend/utils"
)

func main() {
	config.InitDB()
	if utils.S3Enabled() {
		utils.InitS3()
	}

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	r.Run(":" + port)
}
