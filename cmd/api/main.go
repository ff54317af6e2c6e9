// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veiledapp/veiled-backend/internal/auth"
	"github.com/veiledapp/veiled-backend/internal/common/database"
	"github.com/veiledapp/veiled-backend/internal/config"
	"github.com/veiledapp/veiled-backend/internal/discovery"
	"github.com/veiledapp/veiled-backend/internal/location"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Veiled Discovery API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	log.Println("📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 3. Connect to PostgreSQL
	log.Println("🗄️  Step 3: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional, feeds degrade gracefully without it)
	log.Println("📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without exclusion cache", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations:", err)
	}
	log.Println("✅ Database migrations completed")

	// 6. Wire up components
	log.Println("🔧 Step 6: Initializing services...")

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	discoveryRepo := discovery.NewPostgresRepository(db)
	exclusionCache := discovery.NewExclusionCache(redisClient, cfg.ExclusionCacheTTL)
	exclusions := discovery.NewExclusionResolver(discoveryRepo, exclusionCache)
	engine := discovery.NewEngine(discoveryRepo)
	discoveryService := discovery.NewService(discoveryRepo, engine, exclusions)
	discoveryHandler := discovery.NewHandler(discoveryService)

	locationRepo := location.NewPostgresRepository(db)
	locationService := location.NewService(locationRepo)
	locationHandler := location.NewHandler(locationService)

	// 7. Set up router
	router := mux.NewRouter()
	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	router.HandleFunc("/health", healthCheck).Methods("GET")
	if cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	discovery.RegisterRoutes(router, discoveryHandler, authMiddleware)
	if cfg.EnableLocationFeatures {
		location.RegisterRoutes(router, locationHandler, authMiddleware)
	}

	// 8. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck reports basic liveness
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter captures the status code for logging
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// runMigrations creates tables if they don't exist
func runMigrations(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE NOT NULL,
			age INTEGER,
			gender VARCHAR(50),
			traits TEXT[] DEFAULT '{}',
			"values" TEXT[] DEFAULT '{}',
			green_flags TEXT[] DEFAULT '{}',
			red_flags TEXT[] DEFAULT '{}',
			lifestyle TEXT[] DEFAULT '{}',
			is_verified BOOLEAN DEFAULT FALSE,
			photo_count INTEGER DEFAULT 0,
			deleted_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_interests (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			interest_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (user_id, interest_id)
		)`,

		`CREATE TABLE IF NOT EXISTS user_lifestyle (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			smoking VARCHAR(50),
			drinking VARCHAR(50),
			drugs VARCHAR(50),
			sleep_schedule VARCHAR(50),
			diet VARCHAR(50),
			exercise_frequency VARCHAR(50),
			social_lifestyle VARCHAR(50),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_goals (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			wants_kids VARCHAR(50),
			marriage_timeline VARCHAR(50),
			relationship_type VARCHAR(50),
			career_ambition VARCHAR(50),
			travel_frequency VARCHAR(50),
			financial_goals VARCHAR(50),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_filters (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			min_age INTEGER DEFAULT 18,
			max_age INTEGER DEFAULT 50,
			max_distance_km DOUBLE PRECISION DEFAULT 30,
			relationship_types TEXT[] DEFAULT '{}',
			preferred_interests TEXT[] DEFAULT '{}',
			preferred_goals TEXT[] DEFAULT '{}',
			show_only_verified BOOLEAN DEFAULT FALSE,
			show_only_with_photo BOOLEAN DEFAULT TRUE,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_locations (
			user_id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_blocks (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			blocker_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			blocked_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE(blocker_id, blocked_id)
		)`,

		`CREATE TABLE IF NOT EXISTS matches (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user1 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			user2 UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ,
			UNIQUE(user1, user2)
		)`,

		`CREATE TABLE IF NOT EXISTS abuse_reports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			reporter_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reported_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reason TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_user_blocks_blocker ON user_blocks(blocker_id)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user1 ON matches(user1)`,
		`CREATE INDEX IF NOT EXISTS idx_matches_user2 ON matches(user2)`,
		`CREATE INDEX IF NOT EXISTS idx_abuse_reports_reporter ON abuse_reports(reporter_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
