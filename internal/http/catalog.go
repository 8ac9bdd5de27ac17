package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesheydeveloper/consentmd-chat/internal/core"
)

// listTemplates returns the template catalog in declaration order, or the
// fuzzy matches for ?q= best first.
func (s *Server) listTemplates(c *gin.Context) {
	respondOK(c, core.SearchTemplates(c.Query("q")))
}

func (s *Server) getTemplate(c *gin.Context) {
	t, err := core.ParseTemplateType(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "invalid_key", err)
		return
	}
	tmpl, err := core.GetTemplate(t)
	if err != nil {
		respondError(c, http.StatusNotFound, "invalid_key", err)
		return
	}
	respondOK(c, tmpl)
}

func (s *Server) getTemplateSections(c *gin.Context) {
	t, err := core.ParseTemplateType(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "invalid_key", err)
		return
	}
	sections, err := core.GetTemplateSections(t)
	if err != nil {
		respondError(c, http.StatusNotFound, "invalid_key", err)
		return
	}
	respondOK(c, sections)
}

func (s *Server) listConsultationTypes(c *gin.Context) {
	respondOK(c, core.GetAllConsultationTypes())
}

func (s *Server) getConsultationType(c *gin.Context) {
	ct, err := core.ParseConsultationType(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "invalid_key", err)
		return
	}
	info, err := core.GetConsultationType(ct)
	if err != nil {
		respondError(c, http.StatusNotFound, "invalid_key", err)
		return
	}
	respondOK(c, info)
}
