package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

// now is replaced in tests.
var now = time.Now

// NewNote starts a draft note for a visit.  The section skeleton follows the
// template's documentation order with every section empty.
func NewNote(t pkg.TemplateType, c pkg.ConsultationType, patientRef, authorID string) (*pkg.ClinicalNote, error) {
	tmpl, err := GetTemplate(t)
	if err != nil {
		return nil, err
	}
	if _, err := GetConsultationType(c); err != nil {
		return nil, err
	}
	sections := make([]pkg.NoteSection, len(tmpl.Sections))
	for i, s := range tmpl.Sections {
		sections[i] = pkg.NoteSection{ID: s.ID}
	}
	ts := now().UTC()
	return &pkg.ClinicalNote{
		ID:               uuid.NewString(),
		TemplateType:     t,
		ConsultationType: c,
		PatientRef:       patientRef,
		AuthorID:         authorID,
		Status:           pkg.NoteDraft,
		Sections:         sections,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}, nil
}

// SetSectionContent replaces the content of one section of a draft note.
func SetSectionContent(n *pkg.ClinicalNote, sectionID, content string) error {
	if n.Status == pkg.NoteCompleted {
		return ErrNoteCompleted
	}
	s := n.Section(sectionID)
	if s == nil {
		return fmt.Errorf("%w: %q", ErrUnknownSection, sectionID)
	}
	s.Content = content
	n.UpdatedAt = now().UTC()
	return nil
}

// MissingRequiredSections lists the required sections of n whose content is
// blank, in template order.
func MissingRequiredSections(n *pkg.ClinicalNote) ([]string, error) {
	sections, err := GetTemplateSections(n.TemplateType)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, s := range sections {
		if !s.Required {
			continue
		}
		ns := n.Section(s.ID)
		if ns == nil || strings.TrimSpace(ns.Content) == "" {
			missing = append(missing, s.ID)
		}
	}
	return missing, nil
}

// CompleteNote marks a draft note completed.  It returns an *IncompleteError
// if any required section is blank.
func CompleteNote(n *pkg.ClinicalNote) error {
	if n.Status == pkg.NoteCompleted {
		return ErrNoteCompleted
	}
	missing, err := MissingRequiredSections(n)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}
	ts := now().UTC()
	n.Status = pkg.NoteCompleted
	n.UpdatedAt = ts
	n.CompletedAt = &ts
	return nil
}
