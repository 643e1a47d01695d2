package handlers

import (
	"pacemaker_dcm/internal/logger"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Egram streaming over WebSocket (HTTP upgrade on the same port)
	router.GET("/ws/egram", h.wsEgram)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		h.registerEditorRoutes(api)
		h.registerDeviceRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerEditorRoutes(api *gin.RouterGroup) {
	editor := api.Group("/editor")
	{
		// Body example: {"mode":"VVI"}
		editor.POST("/mode", h.enterMode)
		editor.GET("/params", h.getParams)
		editor.PATCH("/params", h.patchParams)
		editor.POST("/params/step", h.stepField)
		editor.GET("/params/classify", h.classifyField)
		editor.POST("/save", h.saveParams)
		editor.POST("/revert", h.revertParams)
		editor.GET("/report", h.getReport)
	}
}

func (h *Handler) registerDeviceRoutes(api *gin.RouterGroup) {
	device := api.Group("/device")
	{
		device.GET("/", h.getDevice)
		device.POST("/comms", h.setComms)
		device.POST("/id", h.setDeviceID)
		device.POST("/changed", h.setDeviceChanged)
		device.POST("/telemetry", h.setTelemetry)
		device.POST("/clock", h.setClock)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
