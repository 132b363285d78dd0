package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"yatube/cmd/app"
	"yatube/internal/config"
	handlers "yatube/internal/handler"
	"yatube/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	container := app.App(cfg)
	defer container.Close()

	handler := handlers.NewHandlers(container.Repo, container.Services, container.DB, cfg)

	// setting up routes
	router := handlers.NewRouter(handler, container.Cache)

	handlerChain := middleware.Chain(
		router,
		middleware.AuthMiddleware(container.Services.Auth, cfg.AccessCookieName),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware,
	)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           handlerChain,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		fmt.Printf("Сервер запущен на %s\n", addr)
		fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)
		fmt.Printf("Адресс: http://localhost%s/\n", addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Останавливаем сервер")
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Ошибка остановки сервера: %v", err)
	}
}
