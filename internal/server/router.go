package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.logger))
	r.Use(CORSMiddleware(s.config.AllowedOrigins))
	r.Use(RateLimitMiddleware(s.config.RateLimit, s.config.Burst))

	r.GET("/health", s.health)

	api := r.Group("/api")
	api.Use(DeviceMiddleware(s.store))
	{
		api.GET("/home", s.home)
		api.GET("/search", s.searchCatalog)
		api.GET("/player", s.player)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.login)
			authGroup.POST("/signup", s.signup)
			authGroup.POST("/logout", s.logout)
		}

		protected := api.Group("")
		protected.Use(SessionGateMiddleware())
		{
			protected.GET("/session", s.currentSession)
			protected.GET("/dashboard", s.dashboard)
		}
	}

	return r
}
