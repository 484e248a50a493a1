// Package api serves the stored contacts read-only over HTTP. The list
// endpoint returns the same name/phone/email shape the importer consumes,
// so one instance can import from another.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"rhystmorgan/contactsterm/internal/models"
	"rhystmorgan/contactsterm/internal/storage"
)

// ContactReader is the read side of the record store.
type ContactReader interface {
	ListAll(ctx context.Context) ([]models.Contact, error)
	Get(ctx context.Context, id int64) (*models.Contact, error)
}

type Server struct {
	store  ContactReader
	router *gin.Engine
}

// NewServer registers every endpoint. Request logging goes to slog unless
// quiet is set.
func NewServer(store ContactReader, quiet bool) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	if !quiet {
		router.Use(requestLogger())
	}

	s := &Server{store: store, router: router}

	router.GET("/healthz", s.health)
	router.GET("/contacts", s.findContacts)
	router.GET("/contacts/:id", s.findContactByID)

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("api shutting down", "addr", addr)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// findContacts responds with every contact, newest first, as JSON.
//
// The URL parameter 'search' keeps contacts whose name or phone contains it,
// ignoring case. 'favorites=true' keeps only favorites.
//
//	> curl "http://localhost:8080/contacts"
//	> curl "http://localhost:8080/contacts?search=van&favorites=true"
func (s *Server) findContacts(c *gin.Context) {
	favoritesOnly := false
	if raw := c.Query("favorites"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "favorites must be true or false"})
			return
		}
		favoritesOnly = parsed
	}

	contacts, err := s.store.ListAll(c.Request.Context())
	if err != nil {
		slog.Error("api list contacts", "error", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"message": storage.UserMessage(err)})
		return
	}

	c.IndentedJSON(http.StatusOK, models.FilterContacts(contacts, c.Query("search"), favoritesOnly))
}

// findContactByID responds with a single contact.
//
//	> curl "http://localhost:8080/contacts/3"
func (s *Server) findContactByID(c *gin.Context) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.IndentedJSON(http.StatusBadRequest, gin.H{"message": "id must be a positive integer"})
		return
	}

	contact, err := s.store.Get(c.Request.Context(), id)
	if storage.IsType(err, storage.ErrNotFound) {
		c.IndentedJSON(http.StatusNotFound, gin.H{"message": "contact not found"})
		return
	}
	if err != nil {
		slog.Error("api get contact", "id", id, "error", err)
		c.IndentedJSON(http.StatusInternalServerError, gin.H{"message": storage.UserMessage(err)})
		return
	}

	c.IndentedJSON(http.StatusOK, contact)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("api request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
