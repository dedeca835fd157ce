package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/betaware/betaware-api/internal/interface/http"
	"github.com/betaware/betaware-api/internal/interface/middleware"
	"github.com/betaware/betaware-api/pkg/helpers"
)

// WagerModule wires the wager routes. Every route requires a verified
// bearer token; the period and search listings additionally require ADMIN
// (enforced in the service).
// Protected: POST /api/wagers, GET /api/wagers, GET /api/wagers/mine,
// GET /api/wagers/period, GET /api/wagers/search

type WagerModule struct {
	Handler *handlers.WagerHandler
	JWT     *helpers.JWTManager
}

func NewWagerModule(h *handlers.WagerHandler, jwt *helpers.JWTManager) *WagerModule {
	return &WagerModule{Handler: h, JWT: jwt}
}

func (m *WagerModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/wagers")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("", m.Handler.List)
		auth.GET("/mine", m.Handler.ListMineBetween)
		auth.GET("/period", m.Handler.ListAllBetween)
		auth.GET("/search", m.Handler.Search)
	}
}
