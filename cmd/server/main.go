// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/coderforlife/boompa-hearts/internal/auth"
	"github.com/coderforlife/boompa-hearts/internal/cache"
	"github.com/coderforlife/boompa-hearts/internal/handlers"
	"github.com/coderforlife/boompa-hearts/internal/hearts"
	"github.com/coderforlife/boompa-hearts/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Action history is optional: without Redis the server runs fine, the
	// historian just has nothing to drain.
	if os.Getenv("REDIS_ADDR") != "" {
		if err := cache.Connect(); err != nil {
			logger.Warnf("action history disabled: %v", err)
		} else {
			logger.Info("action history enabled")
		}
	}

	registry := hearts.NewRegistry(logger)
	srv := handlers.NewServer(logger, registry, handlers.LoadWords())

	staticDir := cache.GetEnv("STATIC_DIR", "static")

	mux := http.NewServeMux()
	mux.Handle("/game-io", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.WSHandler(logger, srv),
	)))
	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(staticDir)),
	))
	mux.Handle("/", middleware.LogMiddleware(logger)(srv.PageHandler(staticDir)))

	addr := cache.GetEnv("ADDR", "")
	if addr == "" {
		addr = ":" + cache.GetEnv("PORT", "8000")
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
