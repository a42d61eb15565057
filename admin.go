// admin.go - privacy-conscious visitor tracking and the gallery analytics dashboard
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ramunarlapati-13/Master/internal/analytics"
	"github.com/ramunarlapati-13/Master/internal/config"
)

var adminToken string
var hashingSalt string

// Initialize admin system with privacy considerations
func initAdminToken() {
	adminToken = generateAdminToken()
	hashingSalt = generateAdminToken() // Use for IP and session hashing

	log.Info("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Debugf("Admin token (dev only): %s", adminToken)
	}

	log.Info("Privacy: Visitor tracking enabled with hashed IP addresses")
}

func generateAdminToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatalf("Failed to generate admin token: %v", err)
	}
	return hex.EncodeToString(bytes)
}

// Hash an IP address or session id so nothing identifying is stored
// (consistent per value for the lifetime of the process)
func hashIdentifier(value string) string {
	hash := sha256.New()
	hash.Write([]byte(value + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// Middleware to check admin authentication
func adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func visitorTrackingMiddleware(store *analytics.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip tracking for assets, gallery calls and admin pages
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/gallery/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		// Track visitor with hashed IP in background
		store.TrackVisit(hashIdentifier(c.ClientIP()), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

// Cleanup old visitor and gallery data for privacy compliance
func cleanupOldVisitorData(store *analytics.Store) {
	rowsDeleted, err := store.Cleanup(analytics.Retention)
	if err != nil {
		log.Errorf("Error cleaning up old visitor data: %v", err)
		return
	}
	if rowsDeleted > 0 {
		log.Infof("Privacy cleanup: Removed %d records older than 12 months", rowsDeleted)
	}
}

// Setup all admin routes
func setupAdminRoutes(r *gin.Engine, cfg *config.Config, store *analytics.Store) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.AdminPassword)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", adminToken, 3600*24, "/admin", "", false, true)
			log.Infof("Admin login successful from %s", hashIdentifier(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}

		log.Warnf("Failed admin login attempt from %s", hashIdentifier(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		log.Infof("Admin logout from %s", hashIdentifier(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(adminAuthMiddleware())

	// Admin dashboard
	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := store.Stats()
		if err != nil {
			log.Errorf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := store.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// View visitors
	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := store.RecentVisitors(200)
		if err != nil {
			log.Errorf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// View gallery interactions
	adminGroup.GET("/events", func(c *gin.Context) {
		events, err := store.RecentEvents(200)
		if err != nil {
			log.Errorf("Error loading gallery events: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load gallery events",
			})
			return
		}

		c.HTML(http.StatusOK, "admin-events.html", gin.H{
			"events": events,
		})
	})

	// Privacy compliance endpoint - purge everything past the retention window
	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		go cleanupOldVisitorData(store)
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := store.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")

		log.Infof("Admin stats exported by %s", hashIdentifier(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
