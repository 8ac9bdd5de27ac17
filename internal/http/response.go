package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lesheydeveloper/consentmd-chat/internal/core"
	"github.com/lesheydeveloper/consentmd-chat/internal/db"
)

// APIError is the body of every failed request.  Missing lists the empty
// required sections when a completion is refused.
type APIError struct {
	Message string   `json:"message"`
	Code    string   `json:"code,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// ErrorEnvelope wraps APIError under the "error" key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

func respondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondDomainError maps service errors onto HTTP statuses.
func (s *Server) respondDomainError(c *gin.Context, err error) {
	var incomplete *core.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{Error: APIError{
			Message: err.Error(),
			Code:    "note_incomplete",
			Missing: incomplete.Missing,
		}})
	case errors.Is(err, db.ErrCorruptRow):
		s.Log.Error("stored row failed validation", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "corrupt_row", errors.New("stored record is invalid"))
	case errors.Is(err, core.ErrInvalidEnumerationKey):
		respondError(c, http.StatusBadRequest, "invalid_key", err)
	case errors.Is(err, core.ErrUnknownSection):
		respondError(c, http.StatusNotFound, "unknown_section", err)
	case errors.Is(err, core.ErrNoteCompleted):
		respondError(c, http.StatusConflict, "note_completed", err)
	case errors.Is(err, db.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, core.ErrGeneration):
		s.Log.Warn("note generation failed", "error", err)
		respondError(c, http.StatusBadGateway, "generation_failed", err)
	default:
		s.Log.Error("request failed", "path", c.FullPath(), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}
