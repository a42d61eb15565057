package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ramunarlapati-13/Master/internal/analytics"
	"github.com/ramunarlapati-13/Master/internal/config"
	"github.com/ramunarlapati-13/Master/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	setupLogging(cfg)

	content, err := config.LoadGallery(cfg.ContentPath)
	if err != nil {
		log.Fatalf("Error loading gallery content: %v", err)
	}

	store, err := analytics.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Error opening analytics database: %v", err)
	}
	defer store.Close()

	initAdminToken()
	if cfg.UsingDefaultAdmin && gin.Mode() == gin.DebugMode {
		log.Warn("Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.")
	}

	// Clean up old visitor data for privacy compliance
	go cleanupOldVisitorData(store)

	sessions := session.NewStore(session.Content{
		Title:       content.Title,
		Description: content.Description,
		Entries:     content.Entries,
	}, session.Options{
		TTL:              cfg.SessionTTL,
		ReportsPerSecond: cfg.ViewportReportsPerSecond,
		OnMount:          trackGalleryEvents(store),
	})
	defer sessions.Close()

	r := newRouter(cfg, sessions, store)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Portfolio listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if gin.Mode() == gin.ReleaseMode {
		log.SetFormatter(&log.JSONFormatter{})
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// newRouter wires every route. Templates and static files are resolved from
// the working directory.
func newRouter(cfg *config.Config, sessions *session.Store, store *analytics.Store) *gin.Engine {
	r := gin.Default()
	r.LoadHTMLGlob("templates/*")

	r.Static("/images", "./images")
	r.Static("/static", "./static")

	r.Use(visitorTrackingMiddleware(store))

	// Home page route
	r.GET("/", func(c *gin.Context) {
		s := currentSession(c, sessions, cfg.SessionTTL)
		c.HTML(http.StatusOK, "index.html", gin.H{
			"ownerName":      OwnerName,
			"headline":       Headline,
			"aboutMeContent": AboutMe,
			"gallery":        galleryView(s.Gallery.Snapshot()),
		})
	})

	setupGalleryRoutes(r, sessions, cfg.SessionTTL)
	setupAdminRoutes(r, cfg, store)
	return r
}
