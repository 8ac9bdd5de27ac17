package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lesheydeveloper/consentmd-chat/internal/core"
	"github.com/lesheydeveloper/consentmd-chat/internal/db"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

type createNoteRequest struct {
	TemplateType     string `json:"template_type"`
	ConsultationType string `json:"consultation_type"`
	PatientRef       string `json:"patient_ref"`
	AuthorID         string `json:"author_id"`
}

// createNote starts a draft.  When template_type or consultation_type is
// omitted the author's saved defaults are used; an author with no saved
// template gets defaultTemplate, as getPreferences reports.
func (s *Server) createNote(c *gin.Context) {
	ctx := c.Request.Context()
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if strings.TrimSpace(req.PatientRef) == "" || strings.TrimSpace(req.AuthorID) == "" {
		respondError(c, http.StatusBadRequest, "invalid_body", errors.New("patient_ref and author_id are required"))
		return
	}
	if req.TemplateType == "" || req.ConsultationType == "" {
		prefs, err := s.Store.GetPreferences(ctx, req.AuthorID)
		switch {
		case err == nil:
			if req.TemplateType == "" {
				req.TemplateType = string(prefs.DefaultTemplate)
			}
			if req.ConsultationType == "" && prefs.DefaultConsultationType != nil {
				req.ConsultationType = string(*prefs.DefaultConsultationType)
			}
		case errors.Is(err, db.ErrNotFound):
		default:
			s.respondDomainError(c, err)
			return
		}
		if req.TemplateType == "" {
			req.TemplateType = string(defaultTemplate)
		}
	}
	t, err := core.ParseTemplateType(req.TemplateType)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	ct, err := core.ParseConsultationType(req.ConsultationType)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	note, err := core.NewNote(t, ct, req.PatientRef, req.AuthorID)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	if err := s.Store.CreateNote(ctx, note); err != nil {
		s.respondDomainError(c, err)
		return
	}
	s.Log.Info("note created", "note_id", note.ID, "template", t, "consultation", ct, "author_id", note.AuthorID)
	c.JSON(http.StatusCreated, note)
}

func (s *Server) listNotes(c *gin.Context) {
	patient := strings.TrimSpace(c.Query("patient"))
	if patient == "" {
		respondError(c, http.StatusBadRequest, "invalid_query", errors.New("patient is required"))
		return
	}
	notes, err := s.Store.ListNotes(c.Request.Context(), patient)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	if notes == nil {
		notes = []pkg.ClinicalNote{}
	}
	respondOK(c, notes)
}

type noteView struct {
	*pkg.ClinicalNote
	MissingRequired []string `json:"missing_required"`
}

func (s *Server) getNote(c *gin.Context) {
	note, err := s.Store.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	s.respondNote(c, note)
}

func (s *Server) respondNote(c *gin.Context, note *pkg.ClinicalNote) {
	view, err := newNoteView(note)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	respondOK(c, view)
}

func newNoteView(note *pkg.ClinicalNote) (noteView, error) {
	missing, err := core.MissingRequiredSections(note)
	if err != nil {
		return noteView{}, err
	}
	if missing == nil {
		missing = []string{}
	}
	return noteView{ClinicalNote: note, MissingRequired: missing}, nil
}

type sectionRequest struct {
	Content string `json:"content"`
}

func (s *Server) updateSection(c *gin.Context) {
	ctx := c.Request.Context()
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	note, err := s.Store.GetNote(ctx, c.Param("id"))
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	if err := core.SetSectionContent(note, c.Param("section"), req.Content); err != nil {
		s.respondDomainError(c, err)
		return
	}
	if err := s.Store.SaveNote(ctx, note, c.Param("section")); err != nil {
		s.respondDomainError(c, err)
		return
	}
	s.publish(ctx, note.ID)
	s.respondNote(c, note)
}

func (s *Server) completeNote(c *gin.Context) {
	ctx := c.Request.Context()
	note, err := s.Store.GetNote(ctx, c.Param("id"))
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	if err := core.CompleteNote(note); err != nil {
		s.respondDomainError(c, err)
		return
	}
	if err := s.Store.SaveNote(ctx, note); err != nil {
		s.respondDomainError(c, err)
		return
	}
	s.Log.Info("note completed", "note_id", note.ID)
	s.publish(ctx, note.ID)
	s.respondNote(c, note)
}

type generateRequest struct {
	Transcript []pkg.TranscriptLine `json:"transcript"`
}

func (s *Server) generateNote(c *gin.Context) {
	ctx := c.Request.Context()
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if len(req.Transcript) == 0 {
		respondError(c, http.StatusBadRequest, "invalid_body", errors.New("transcript is empty"))
		return
	}
	note, err := s.Store.GetNote(ctx, c.Param("id"))
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	filled, err := s.Generator.Generate(ctx, note, req.Transcript)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	if len(filled) > 0 {
		if err := s.Store.SaveNote(ctx, note, filled...); err != nil {
			s.respondDomainError(c, err)
			return
		}
		s.publish(ctx, note.ID)
	}
	s.Log.Info("note generated", "note_id", note.ID, "sections_filled", len(filled))
	s.respondNote(c, note)
}

type refineRequest struct {
	Request string `json:"request"`
}

// refineSection returns a suggested rewrite without saving it.
func (s *Server) refineSection(c *gin.Context) {
	ctx := c.Request.Context()
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Request) == "" {
		respondError(c, http.StatusBadRequest, "invalid_body", errors.New("request is required"))
		return
	}
	note, err := s.Store.GetNote(ctx, c.Param("id"))
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	text, err := s.Refiner.Refine(ctx, note, c.Param("section"), req.Request)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	respondOK(c, gin.H{"section_id": c.Param("section"), "suggestion": text})
}
