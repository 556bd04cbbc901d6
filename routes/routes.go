package routes

import (
	"backend/controllers"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()

	logStore := services.NewLogService()
	pipeline := services.NewPipelineService(
		services.DefaultClassifier(),
		services.NewFatSecretService(),
		logStore,
	)
	pipeline.Bus = services.NewLogBus(hub)
	if utils.S3Enabled() {
		pipeline.Archiver = utils.NewS3Archiver()
	}

	logCtrl := controllers.NewLogController(pipeline, logStore)
	rtCtrl := controllers.NewRealtimeController(hub)

	logs := r.Group("/api/v1/logs")
	{
		logs.POST("", logCtrl.CreateLog)
		logs.GET("", logCtrl.ListLogs)
	}

	r.GET("/ws/logs", rtCtrl.LogsWS)

	return r
}
