package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/OleksandrShtyka/parser/api/handlers"
	"github.com/OleksandrShtyka/parser/api/middleware"
	"github.com/OleksandrShtyka/parser/internal/app"
	"github.com/OleksandrShtyka/parser/internal/domain"
)

// SetupRouter sets up the HTTP router
func SetupRouter(
	engine domain.Engine,
	orchestrator *app.Orchestrator,
	mailer handlers.VerificationSender,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	healthHandler := handlers.NewHealthHandler()
	infoHandler := handlers.NewInfoHandler(engine, log)
	downloadHandler := handlers.NewDownloadHandler(orchestrator, log)
	verifyHandler := handlers.NewVerifyHandler(mailer, log)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", healthHandler.Health)
		apiGroup.POST("/info", infoHandler.Info)
		apiGroup.GET("/download", downloadHandler.Download)
		apiGroup.POST("/send-verification", verifyHandler.SendVerification)
	}

	return router
}
