package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/castle-games/chat-server/docs"
	"github.com/castle-games/chat-server/internal/api/handlers"
	"github.com/castle-games/chat-server/internal/api/middleware"
	"github.com/castle-games/chat-server/internal/relay"
	"github.com/castle-games/chat-server/internal/websocket"
)

type Router struct {
	engine       *gin.Engine
	relayHandler *handlers.RelayHandler
	wsHandler    *handlers.WSHandler
}

func NewRouter(hub *websocket.Hub, r *relay.Relay, secretKey string) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	return &Router{
		engine:       engine,
		relayHandler: handlers.NewRelayHandler(r, secretKey),
		wsHandler:    handlers.NewWSHandler(hub),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/", func(c *gin.Context) {
		c.String(200, "woop")
	})

	r.engine.GET("/ws", r.wsHandler.HandleWebSocket)

	r.engine.POST("/send-message", r.relayHandler.SendMessage)
	r.engine.POST("/send-user-update", r.relayHandler.SendUserUpdate)
	r.engine.POST("/send-global-update", r.relayHandler.SendGlobalUpdate)
	r.engine.POST("/get-presence", r.relayHandler.GetPresence)

	// Deprecated, kept for older backend deployments.
	r.engine.POST("/send-channel-message", r.relayHandler.SendChannelMessage)
	r.engine.POST("/send-user-message", r.relayHandler.SendUserMessage)

	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
