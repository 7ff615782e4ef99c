package server

import (
	"errors"
	"net/http"

	"github.com/desertthunder/okmusi/internal/auth"
	"github.com/desertthunder/okmusi/internal/catalog"
	"github.com/desertthunder/okmusi/internal/forms"
	"github.com/desertthunder/okmusi/internal/models"
	"github.com/desertthunder/okmusi/internal/session"
	"github.com/gin-gonic/gin"
)

const healthKey = "health:probe"

func (s *Server) health(c *gin.Context) {
	storage := gin.H{"driver": s.driver, "status": "up"}
	status, overall := http.StatusOK, "ok"

	if _, err := s.store.Get(c.Request.Context(), healthKey); err != nil && !errors.Is(err, models.ErrKeyNotFound) {
		storage["status"] = "down"
		storage["error"] = err.Error()
		status, overall = http.StatusServiceUnavailable, "degraded"
	}

	c.JSON(status, gin.H{"status": overall, "storage": storage})
}

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.Home())
}

func (s *Server) login(c *gin.Context) {
	var form forms.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.auth.Login(c.Request.Context(), sessionStore(c), form)
	if err != nil {
		s.authError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AuthResponse{User: user, Redirect: session.DashboardPath})
}

func (s *Server) signup(c *gin.Context) {
	var form forms.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.auth.Signup(c.Request.Context(), sessionStore(c), form)
	if err != nil {
		s.authError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.AuthResponse{User: user, Redirect: session.DashboardPath})
}

func (s *Server) authError(c *gin.Context, err error) {
	var v forms.ValidationError
	if errors.As(err, &v) {
		c.JSON(http.StatusBadRequest, gin.H{"error": auth.Message(err)})
		return
	}
	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": auth.Message(err)})
}

func (s *Server) logout(c *gin.Context) {
	redirect, err := session.Logout(c.Request.Context(), sessionStore(c))
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed. Please try again."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": redirect})
}

func (s *Server) currentSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func (s *Server) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog.Dashboard(*currentUser(c)))
}

func (s *Server) searchCatalog(c *gin.Context) {
	query := c.Query("q")
	update, err := s.search.Search(c.Request.Context(), query)

	resp := models.SearchResponse{
		Query:   query,
		State:   update.State.String(),
		Genres:  update.Genres,
		Songs:   nonNil(update.Results.Songs),
		Artists: nonNil(update.Results.Artists),
		Albums:  nonNil(update.Results.Albums),
		Total:   update.Results.Total(),
	}
	if d := session.Enter(c.Request.Context(), sessionStore(c)); d.Allowed() {
		resp.User = d.Session
	}

	if err != nil {
		c.Error(err)
		resp.Error = auth.Message(err)
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) player(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.ParseNowPlaying(c.Request.URL.Query()))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
