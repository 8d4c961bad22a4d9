package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"voyara/activity"
	"voyara/chat"
	"voyara/flights"
	"voyara/mq"
	"voyara/ratelim"
	"voyara/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a baseline set of HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s in %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

func health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "ok")
}

// setupRouter builds the router with all routes except chat; chat routes
// are added in main so the hub does not have to live in a global.
func setupRouter(limiter *ratelim.Limiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", health)

	routes.AddAuthRoutes(router, limiter)
	routes.AddAdvisorRoutes(router)
	routes.AddClientRoutes(router)
	routes.AddTripRoutes(router)
	routes.AddSegmentRoutes(router)
	routes.AddExportRoutes(router)
	routes.AddShareRoutes(router, limiter)
	routes.AddDocumentRoutes(router)
	routes.AddFlightRoutes(router)
	routes.AddSearchRoutes(router)
	routes.AddActivityRoutes(router)
	routes.AddStaticRoutes(router)

	return router
}

func corsOrigins() []string {
	raw := os.Getenv("CORS_ORIGINS")
	if raw == "" {
		return []string{"*"}
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	limiter := ratelim.NewLimiter(10, 30)

	hub := chat.NewHub()
	go hub.Run()

	router := setupRouter(limiter)
	routes.AddChatRoutes(router, hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Shutting down chat hub")
		hub.Stop()
	})

	go mq.Subscribe(func(msg mq.Message) {
		log.Printf("[Events] %s org=%s trip=%s ref=%s %s", msg.Event, msg.OrgID, msg.TripID, msg.Ref, msg.Detail)
		activity.Record(msg)
		if msg.Event == mq.FlightAlert && msg.TripID != "" {
			hub.Alert(msg.TripID, msg.Detail)
		}
	})
	go flights.Monitor(15 * time.Minute)
	go chat.FlushMessages(10 * time.Second)

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
