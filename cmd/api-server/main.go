package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"epaperhub/internal/archive"
	"epaperhub/internal/auth"
	"epaperhub/internal/cache"
	"epaperhub/internal/editions"
	"epaperhub/internal/epaper"
	"epaperhub/internal/favorites"
	"epaperhub/internal/notify"
	"epaperhub/internal/readstate"
	"epaperhub/internal/schedule"
	"epaperhub/pkg/database"
	"epaperhub/pkg/utils"
)

func main() {
	srvCfg := utils.LoadServerConfig()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	publishers, err := epaper.LoadPublishers(srvCfg.PublishersPath)
	if err != nil {
		log.Fatalf("load publishers failed: %v", err)
	}

	store := cache.New(cache.DefaultTTL)
	svc := epaper.NewService(epaper.NewHTTPClient(), store, epaper.Eenadu, publishers)

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(corsMiddleware())

	hub := notify.NewHub()
	router.GET("/ws", notify.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": hub.Count(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": hub.Count(),
			"cached":     store.Len(),
		})
	})

	// Editions + archive (public)
	archiveRepo := archive.NewRepo(db)
	editionsHandler := editions.NewHandler(svc, hub, archiveRepo)
	editionsHandler.RegisterRoutes(router)

	archiveHandler := archive.NewHandler(archiveRepo)
	archiveHandler.RegisterRoutes(router.Group("/archive"))

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Per-user state (protected)
	protected := router.Group("/users")
	protected.Use(auth.AuthMiddleware(tokenSvc))

	favHandler := favorites.NewHandler(favorites.NewRepo(db))
	favHandler.RegisterRoutes(protected)

	stateHandler := readstate.NewHandler(readstate.NewRepo(db))
	stateHandler.RegisterRoutes(protected)

	// Admin (protected): cache clear + forced refresh
	admin := router.Group("/admin")
	admin.Use(auth.AuthMiddleware(tokenSvc))
	editionsHandler.RegisterAdminRoutes(admin)

	// Daily cache clear + refresh, same hours the service always used
	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()

	sched := schedule.New(srvCfg.ClearHours, func(ctx context.Context) {
		tickCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if _, err := editionsHandler.DoRefresh(tickCtx); err != nil {
			log.Printf("scheduled refresh failed: %v", err)
		}
	})
	go sched.Run(schedCtx)

	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP API server listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	schedCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}

// corsMiddleware opens the API to browser clients on other origins;
// the viewer UI is served separately.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
