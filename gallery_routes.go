package main

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ramunarlapati-13/Master/internal/analytics"
	"github.com/ramunarlapati-13/Master/internal/gallery"
	"github.com/ramunarlapati-13/Master/internal/media"
	"github.com/ramunarlapati-13/Master/internal/session"
)

const sessionCookie = "gallery_session"

// galleryPage is what the gallery templates render. Modal is only filled in
// while the lightbox has a selection.
type galleryPage struct {
	Title       string
	Description string
	Viewing     bool
	Tiles       []gallery.Tile
	Modal       gallery.Modal
}

func galleryView(s gallery.Snapshot) galleryPage {
	v := galleryPage{
		Title:       s.Title,
		Description: s.Description,
		Tiles:       gallery.GridView(s),
	}
	if m, err := gallery.ModalView(s); err == nil {
		v.Viewing = true
		v.Modal = m
	}
	return v
}

type pointerRequest struct {
	ID     int             `json:"id"`
	Points []gallery.Point `json:"points" binding:"required,min=1"`
}

type dockRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type viewportItem struct {
	ID    int        `json:"id"`
	Rect  media.Rect `json:"rect"`
	Ready bool       `json:"ready"`
}

type viewportRequest struct {
	Viewport media.Rect     `json:"viewport"`
	Items    []viewportItem `json:"items"`
}

type mediaStatus struct {
	ID        int  `json:"id"`
	Visible   bool `json:"visible"`
	Playing   bool `json:"playing"`
	Buffering bool `json:"buffering"`
}

// currentSession returns the visitor's gallery, mounting a new one when the
// cookie is missing or its session has expired. The cookie is re-issued on
// every request so it expires together with the idle session.
func currentSession(c *gin.Context, sessions *session.Store, ttl time.Duration) *session.Session {
	var s *session.Session
	if id, err := c.Cookie(sessionCookie); err == nil {
		s, _ = sessions.Get(id)
	}
	if s == nil {
		s = sessions.Create()
	}
	c.SetCookie(sessionCookie, s.ID, int(ttl.Seconds()), "/", "", false, true)
	return s
}

func entryParam(c *gin.Context) (gallery.ID, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry id"})
		return 0, false
	}
	return gallery.ID(id), true
}

func renderGalleryError(c *gin.Context, err error) {
	if errors.Is(err, gallery.ErrUnknownEntry) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
		return
	}
	log.Errorf("Gallery request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Gallery request failed"})
}

// Setup the gallery endpoints used by static/gallery.js and the htmx attributes
// in templates/gallery.html
func setupGalleryRoutes(r *gin.Engine, sessions *session.Store, ttl time.Duration) {
	g := r.Group("/gallery")

	// A finished pointer gesture on a grid tile: click selects, drag reorders
	g.POST("/pointer", func(c *gin.Context) {
		var req pointerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pointer trace"})
			return
		}
		s := currentSession(c, sessions, ttl)

		out := gallery.Replay(req.Points)
		var err error
		switch {
		case out.Click:
			err = s.Gallery.Select(gallery.ID(req.ID))
		case out.Dragged:
			_, err = s.Gallery.DragEntry(gallery.ID(req.ID), out.Offset.X, out.Offset.Y)
		}
		if err != nil {
			renderGalleryError(c, err)
			return
		}
		c.HTML(http.StatusOK, "gallery-root", galleryView(s.Gallery.Snapshot()))
	})

	// Dock thumbnail: swap the stage only, the dock stays mounted
	g.POST("/select/:id", func(c *gin.Context) {
		id, ok := entryParam(c)
		if !ok {
			return
		}
		s := currentSession(c, sessions, ttl)
		wasViewing := s.Gallery.State() == gallery.Viewing

		if err := s.Gallery.Select(id); err != nil {
			renderGalleryError(c, err)
			return
		}
		view := galleryView(s.Gallery.Snapshot())
		if !wasViewing {
			// The lightbox was not open, so there is no stage to swap into.
			c.Header("HX-Retarget", "#gallery-root")
			c.HTML(http.StatusOK, "gallery-root", view)
			return
		}
		c.HTML(http.StatusOK, "gallery-stage", view.Modal)
	})

	g.POST("/close", func(c *gin.Context) {
		s := currentSession(c, sessions, ttl)
		s.Gallery.Close()
		c.HTML(http.StatusOK, "gallery-root", galleryView(s.Gallery.Snapshot()))
	})

	g.POST("/dock", func(c *gin.Context) {
		var req dockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dock offset"})
			return
		}
		s := currentSession(c, sessions, ttl)
		s.Gallery.DragDock(req.DX, req.DY)
		c.Status(http.StatusNoContent)
	})

	// Element geometry from the browser drives video playback
	g.POST("/viewport", func(c *gin.Context) {
		var req viewportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid viewport report"})
			return
		}
		s := currentSession(c, sessions, ttl)
		if !s.AllowViewportReport() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many viewport reports"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"media": applyViewport(s, req)})
	})

	g.POST("/media/:id/canplay", func(c *gin.Context) {
		id, ok := entryParam(c)
		if !ok {
			return
		}
		s := currentSession(c, sessions, ttl)
		_, el, found := s.Media(id)
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		el.SetReady(true)
		c.Status(http.StatusNoContent)
	})

	// Server-sent playback commands for this visitor's videos
	g.GET("/events", func(c *gin.Context) {
		s := currentSession(c, sessions, ttl)
		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")

		c.Stream(func(w io.Writer) bool {
			select {
			case cmd := <-s.Commands():
				c.SSEvent("media", cmd)
				return true
			case <-s.Done():
				return false
			case <-c.Request.Context().Done():
				return false
			}
		})
	})
}

// applyViewport runs the visibility observer over every reported element.
// An entry may be on the page more than once (stage and dock), so it counts
// as visible if any of its elements is. Videos missing from the report are no
// longer on the page and are hidden.
func applyViewport(s *session.Session, req viewportRequest) []mediaStatus {
	observer := media.NewObserver()
	visible := make(map[gallery.ID]bool)
	ready := make(map[gallery.ID]bool)
	for _, item := range req.Items {
		id := gallery.ID(item.ID)
		visible[id] = visible[id] || observer.Visible(req.Viewport, item.Rect)
		ready[id] = ready[id] || item.Ready
	}

	var statuses []mediaStatus
	for _, id := range s.Videos() {
		player, el, _ := s.Media(id)
		if _, reported := visible[id]; reported {
			el.SetReady(ready[id])
		}
		player.SetVisible(visible[id])
		statuses = append(statuses, mediaStatus{
			ID:        int(id),
			Visible:   player.Visible(),
			Playing:   player.Playing(),
			Buffering: player.Buffering(),
		})
	}
	return statuses
}

// trackGalleryEvents records every gallery transition of a new session.
func trackGalleryEvents(store *analytics.Store) func(*session.Session) {
	return func(s *session.Session) {
		sessionHash := hashIdentifier(s.ID)
		s.Gallery.OnChange(func(ch gallery.Change) {
			ev := analytics.Event{
				SessionHash: sessionHash,
				Kind:        ch.Kind.String(),
				EntryID:     int(ch.Entry),
			}
			if ch.Kind == gallery.ChangeReorder {
				order := ch.Snapshot.Order()
				ids := make([]int, len(order))
				for i, id := range order {
					ids[i] = int(id)
				}
				ev.Order = analytics.FormatOrder(ids)
			}
			// Queued under the gallery lock, so events keep transition order.
			store.TrackEvent(ev)
		})
	}
}
