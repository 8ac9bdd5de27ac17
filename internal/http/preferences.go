package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lesheydeveloper/consentmd-chat/internal/core"
	"github.com/lesheydeveloper/consentmd-chat/internal/db"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

// defaultTemplate applies to users who have never saved preferences.
const defaultTemplate = pkg.TemplateSOAP

// getPreferences returns the saved preferences, or defaultTemplate with no
// favorites for a user who has never saved any.
func (s *Server) getPreferences(c *gin.Context) {
	userID := c.Param("id")
	prefs, err := s.Store.GetPreferences(c.Request.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		respondOK(c, pkg.Preferences{
			UserID:            userID,
			DefaultTemplate:   defaultTemplate,
			FavoriteTemplates: []pkg.TemplateType{},
		})
		return
	}
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	respondOK(c, prefs)
}

type preferencesRequest struct {
	DefaultTemplate         string   `json:"default_template"`
	DefaultConsultationType *string  `json:"default_consultation_type"`
	FavoriteTemplates       []string `json:"favorite_templates"`
}

func (s *Server) putPreferences(c *gin.Context) {
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	def, err := core.ParseTemplateType(req.DefaultTemplate)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	prefs := &pkg.Preferences{
		UserID:            c.Param("id"),
		DefaultTemplate:   def,
		FavoriteTemplates: make([]pkg.TemplateType, 0, len(req.FavoriteTemplates)),
		UpdatedAt:         time.Now().UTC(),
	}
	if req.DefaultConsultationType != nil && *req.DefaultConsultationType != "" {
		ct, err := core.ParseConsultationType(*req.DefaultConsultationType)
		if err != nil {
			s.respondDomainError(c, err)
			return
		}
		prefs.DefaultConsultationType = &ct
	}
	seen := map[pkg.TemplateType]bool{}
	for _, f := range req.FavoriteTemplates {
		t, err := core.ParseTemplateType(f)
		if err != nil {
			s.respondDomainError(c, err)
			return
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		prefs.FavoriteTemplates = append(prefs.FavoriteTemplates, t)
	}
	if err := s.Store.SavePreferences(c.Request.Context(), prefs); err != nil {
		s.respondDomainError(c, err)
		return
	}
	respondOK(c, prefs)
}
