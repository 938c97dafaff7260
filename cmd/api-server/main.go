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
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"collecthub/internal/auth"
	"collecthub/internal/books"
	"collecthub/internal/crud"
	"collecthub/internal/httpapi"
	"collecthub/internal/scraper"
	"collecthub/internal/store"
	"collecthub/pkg/database"
	"collecthub/pkg/models"
	"collecthub/pkg/utils"
)

func main() {
	ctx := context.Background()

	dbCfg := database.DefaultConfig()
	client := database.MustOpen(ctx, dbCfg)
	defer database.Close(context.Background(), client)

	db := client.Database(dbCfg.DBName)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("ensure indexes failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(httpapi.RequestID())
	router.Static("/static", srvCfg.StaticDir)

	router.GET("/health", func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.DBName})
	})

	// Auth
	tokenSvc := auth.NewTokenService(utils.LoadAuthConfig())
	authRepo := auth.NewRepo(db)
	authHandler := auth.NewHandler(authRepo, tokenSvc)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Protected API
	api := router.Group("/api/v1")
	api.Use(auth.AuthMiddleware(tokenSvc))

	api.GET("/users/me", func(c *gin.Context) {
		claims := auth.MustGetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
			"email":    claims.Email,
		})
	})

	// Books: CRUD plus the scrape-import pipeline
	scr := scraper.New(srvCfg.StaticDir)
	bookRepo := books.NewMongoBooks(db)
	seriesRepo := books.NewMongoSeries(db)
	bookSvc := books.NewService(bookRepo, seriesRepo, scr)
	books.NewHandler(bookRepo, bookSvc).RegisterRoutes(api.Group("/books"))

	// Flat entities share the generic CRUD surface
	crud.NewHandler(seriesRepo.Repo).RegisterRoutes(api.Group("/book-series"))
	crud.NewHandler(store.NewRepo[models.Movie](db, "movies", "title", "director", "genre")).RegisterRoutes(api.Group("/movies"))
	crud.NewHandler(store.NewRepo[models.MovieCollection](db, "movie_collections", "name", "genre", "tags")).RegisterRoutes(api.Group("/movie-collections"))
	crud.NewHandler(store.NewRepo[models.TVShow](db, "tv_shows", "title", "creator", "genre")).RegisterRoutes(api.Group("/tv-shows"))
	crud.NewHandler(store.NewRepo[models.TVSeason](db, "tv_seasons", "title")).RegisterRoutes(api.Group("/tv-seasons"))
	crud.NewHandler(authRepo.Repo).RegisterRoutes(api.Group("/users"))

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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	log.Println("server stopped")
}
