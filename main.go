package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notevault/config"
	"notevault/handler"
	"notevault/middleware"
	"notevault/repository"
	"notevault/services"
	"notevault/usecase"
	"notevault/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}
}

func setupRouter(userHandler *handler.UserHandler, tokenHandler *handler.TokenHandler, noteHandler *handler.NoteHandler, tokens *services.TokenService) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())

	// Public routes (no authentication required)
	router.POST("/register/", userHandler.Register)
	router.POST("/token", tokenHandler.Token)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes (authentication required)
	protected := router.Group("/")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		notes := protected.Group("/notes")
		{
			notes.GET("/", noteHandler.ListNotes)
			notes.GET("/:id", noteHandler.GetNote)
			notes.POST("/", noteHandler.CreateNote)
			notes.PUT("/:id", noteHandler.ReplaceNote)
			notes.PATCH("/:id", noteHandler.PatchNote)
			notes.DELETE("/:id", noteHandler.DeleteNote)
		}

		protected.POST("/upload_csv", noteHandler.UploadCSV)
	}

	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	client, err := repository.NewMongoClient(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.Database.DatabaseName)
	if err := repository.SetupIndexes(db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	tokens, err := services.NewTokenService(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}

	// The note cache is optional; a nil cache is a no-op.
	var noteCache *services.NoteCache
	if cfg.Cache.RedisURL != "" {
		noteCache, err = services.NewNoteCache(cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Note cache enabled")
	}

	userService := &usecase.UserService{
		Users: repository.GetUserRepo(db),
	}
	noteService := &usecase.NoteService{
		Notes:    repository.GetNoteRepo(db),
		Registry: repository.GetRegistryRepo(db),
		Tx:       repository.NewMongoTxRunner(client),
		Cache:    noteCache,
	}

	router := setupRouter(
		handler.NewUserHandler(userService),
		handler.NewTokenHandler(userService, tokens),
		handler.NewNoteHandler(noteService),
		tokens,
	)

	utils.StartSystemMetrics(15 * time.Second)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChan
	log.Printf("Caught signal %s, shutting down", sig)

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server shutdown complete")
}
