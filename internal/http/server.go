package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesheydeveloper/consentmd-chat/internal/logger"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

// NoteStore persists notes and preferences.  *db.Repository implements it.
type NoteStore interface {
	CreateNote(ctx context.Context, n *pkg.ClinicalNote) error
	GetNote(ctx context.Context, noteID string) (*pkg.ClinicalNote, error)
	ListNotes(ctx context.Context, patientRef string) ([]pkg.ClinicalNote, error)
	// SaveNote writes status plus the named sections.  It fails with
	// core.ErrNoteCompleted when the stored note is no longer a draft.
	SaveNote(ctx context.Context, n *pkg.ClinicalNote, changed ...string) error
	GetPreferences(ctx context.Context, userID string) (*pkg.Preferences, error)
	SavePreferences(ctx context.Context, p *pkg.Preferences) error
}

// Generator drafts note sections from a transcript.
type Generator interface {
	Generate(ctx context.Context, n *pkg.ClinicalNote, transcript []pkg.TranscriptLine) ([]string, error)
}

// Refiner rewrites one section on request.
type Refiner interface {
	Refine(ctx context.Context, n *pkg.ClinicalNote, sectionID, request string) (string, error)
}

// Publisher announces saved notes.  *db.Notifier implements it.
type Publisher interface {
	Notify(ctx context.Context, noteID string) error
}

// Subscriber delivers the ids of saved notes until ctx is done, then closes
// the channel.  *db.Notifier implements it.
type Subscriber interface {
	Listen(ctx context.Context, onErr func(error)) (<-chan string, error)
}

// Deps bundles together the dependencies required by HTTP handlers.
// Publisher and Subscriber may be nil.
type Deps struct {
	Store       NoteStore
	Generator   Generator
	Refiner     Refiner
	Publisher   Publisher
	Subscriber  Subscriber
	Log         *logger.Logger
	CORSOrigins []string
}

// Server implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Deps
	engine *gin.Engine
}

// NewServer builds the router over deps.  A nil Log is replaced by a no-op
// logger.
func NewServer(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	s := &Server{Deps: deps}
	s.engine = s.routes()
	return s
}

// ServeHTTP dispatches to the gin router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLog(s.Log))
	if len(s.CORSOrigins) > 0 {
		r.Use(corsMiddleware(s.CORSOrigins))
	}

	r.GET("/healthcheck", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	{
		api.GET("/templates", s.listTemplates)
		api.GET("/templates/:id", s.getTemplate)
		api.GET("/templates/:id/sections", s.getTemplateSections)

		api.GET("/consultation-types", s.listConsultationTypes)
		api.GET("/consultation-types/:id", s.getConsultationType)

		api.POST("/notes", s.createNote)
		api.GET("/notes", s.listNotes)
		api.GET("/notes/:id", s.getNote)
		api.GET("/notes/:id/stream", s.streamNote)
		api.PUT("/notes/:id/sections/:section", s.updateSection)
		api.POST("/notes/:id/sections/:section/refine", s.refineSection)
		api.POST("/notes/:id/complete", s.completeNote)
		api.POST("/notes/:id/generate", s.generateNote)

		api.GET("/users/:id/preferences", s.getPreferences)
		api.PUT("/users/:id/preferences", s.putPreferences)
	}
	return r
}

// publish sends a change notification.  A failure is only logged; the note
// has already been saved.
func (s *Server) publish(ctx context.Context, noteID string) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Notify(ctx, noteID); err != nil {
		s.Log.Warn("note notify failed", "note_id", noteID, "error", err)
	}
}
