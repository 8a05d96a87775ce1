package routes

import (
	"net/http"

	"traffic-report/be/handlers"
	"traffic-report/be/middleware"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Reports    *handlers.ReportHandler
	Violations *handlers.ViolationHandler
	Chatbot    *handlers.ChatbotHandler
	Users      *handlers.UserHandler
	Devices    *handlers.DeviceHandler
}

// Setup builds the engine with the full route table.
func Setup(h Handlers, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.CORS(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/reports/:userId", h.Reports.GetReports)

		// ingestion from the analysis service
		api.POST("/violations", h.Violations.CreateViolation)
		api.POST("/analysis-results", h.Violations.CreateAnalysisResult)
		api.POST("/chatbot-response", h.Chatbot.CreateChatbotResponse)

		api.POST("/user/sync", h.Users.SyncUser)

		devices := api.Group("/devices")
		{
			devices.POST("", h.Devices.RegisterDevice)
			devices.GET("/user/:userId", h.Devices.ListUserDevices)
		}
	}

	return router
}
