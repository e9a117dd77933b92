package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/z-shelf/backend/internal/config"
	"github.com/zhouzirui/z-shelf/backend/internal/handler"
	"github.com/zhouzirui/z-shelf/backend/internal/model/book"
	"github.com/zhouzirui/z-shelf/backend/internal/service/catalog"
	"github.com/zhouzirui/z-shelf/backend/internal/service/feed"
	"github.com/zhouzirui/z-shelf/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// 启动时加载一次持久化数据，失败则从空集合开始
	fileStore := storage.NewFileStore(cfg.Storage.BooksFile)
	books := fileStore.Load()
	log.Printf("loaded %d books from %s", len(books), fileStore.Path())

	hub := feed.NewHub(32)
	catalogSvc := catalog.NewService(book.NewMemoryStore(books), fileStore, hub)

	if cfg.RateLimit.RPS > 0 {
		log.Printf("write rate limit enabled: %.2f req/s, burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	router := handler.NewRouter(catalogSvc, hub, cfg.RateLimit)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		// 事件流随进程信号一起结束
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	log.Printf("Server is running on http://localhost:%d", serverCfg.Port)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
