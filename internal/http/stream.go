package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// streamNote keeps an editor in sync with a note over SSE.  It sends the
// current note as a note_update event, then a fresh copy each time the
// note's id arrives from the Subscriber.  The stream ends when the client
// goes away or the subscription closes.
func (s *Server) streamNote(c *gin.Context) {
	if s.Subscriber == nil {
		respondError(c, http.StatusServiceUnavailable, "stream_unavailable", errors.New("note updates are not enabled"))
		return
	}
	ctx := c.Request.Context()
	noteID := c.Param("id")
	note, err := s.Store.GetNote(ctx, noteID)
	if err != nil {
		s.respondDomainError(c, err)
		return
	}
	// subscribe before the first event so no save is missed in between
	updates, err := s.Subscriber.Listen(ctx, func(err error) {
		s.Log.Warn("note listener error", "note_id", noteID, "error", err)
	})
	if err != nil {
		s.respondDomainError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	view, err := newNoteView(note)
	if err != nil {
		s.Log.Error("note stream failed", "note_id", noteID, "error", err)
		return
	}
	c.SSEvent("note_update", view)
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			return
		case id, ok := <-updates:
			if !ok {
				return
			}
			if id != noteID {
				continue
			}
			note, err := s.Store.GetNote(ctx, noteID)
			if err == nil {
				view, err = newNoteView(note)
			}
			if err != nil {
				s.Log.Warn("note stream reload failed", "note_id", noteID, "error", err)
				return
			}
			c.SSEvent("note_update", view)
			c.Writer.Flush()
		}
	}
}
