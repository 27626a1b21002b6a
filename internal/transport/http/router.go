package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/lingvoapp/auth-service/internal/token"
	"github.com/lingvoapp/auth-service/internal/transport/http/handler"
	"github.com/lingvoapp/auth-service/internal/transport/http/middleware"
	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, auth *handler.AuthHandler, tokens *token.Provider) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(sloggin.New(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.Security())
	r.Use(middleware.Metrics())

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/send-code", auth.SendCode)
		authRoutes.POST("/login", auth.Login)
		authRoutes.POST("/refresh", auth.Refresh)
	}

	r.GET("/me", middleware.Auth(tokens), auth.Me)

	return r
}
