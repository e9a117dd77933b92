package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"

	"github.com/zhouzirui/z-shelf/backend/internal/config"
	"github.com/zhouzirui/z-shelf/backend/internal/handler/books"
	"github.com/zhouzirui/z-shelf/backend/internal/handler/events"
	middlewarePkg "github.com/zhouzirui/z-shelf/backend/internal/middleware"
	"github.com/zhouzirui/z-shelf/backend/internal/service/catalog"
	"github.com/zhouzirui/z-shelf/backend/internal/service/feed"
	"github.com/zhouzirui/z-shelf/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the catalog service and change feed.
func NewRouter(catalogSvc *catalog.Service, hub *feed.Hub, limits config.RateLimitConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// CRUD 路由启用 gzip 压缩与写操作限流
	r.Group(func(api chi.Router) {
		api.Use(middlewarePkg.RateLimit(limits.RPS, limits.Burst))
		api.Use(gzipMiddleware)
		books.New(catalogSvc).RegisterRoutes(api)
	})

	// 事件流需要 Hijacker/Flusher，不经过 gzip
	if hub != nil {
		events.New(hub).RegisterRoutes(r)
	}

	return r
}

func gzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
