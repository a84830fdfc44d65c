package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/bookhaven/book-catalogue/internal/config"
	"github.com/bookhaven/book-catalogue/internal/database"
	"github.com/bookhaven/book-catalogue/internal/handler"
	"github.com/bookhaven/book-catalogue/internal/queue"
	"github.com/bookhaven/book-catalogue/internal/repository"
	"github.com/bookhaven/book-catalogue/internal/router"
	"github.com/bookhaven/book-catalogue/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	users := repository.NewUserRepo(db)
	categories := repository.NewCategoryRepo(db)
	books := repository.NewBookRepo(db)
	reviews := repository.NewReviewRepo(db)
	reads := repository.NewReadBookRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users)
	categoryHandler := handler.NewCategoryHandler(categories, books)
	bookHandler := handler.NewBookHandler(books, categories)
	reviewHandler := handler.NewReviewHandler(reviews, books, service.NewQueuePublisher())
	readHandler := handler.NewReadBookHandler(reads)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler)
	router.RegisterCatalogue(e, categoryHandler, bookHandler, reviewHandler, reviews, cfg.JWTSecret)
	router.RegisterReads(e, readHandler, cfg.JWTSecret)

	// Background consumer that appends review events to logs/review.log.
	go func() {
		if err := queue.StartReviewConsumer(); err != nil {
			log.Printf("review consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
