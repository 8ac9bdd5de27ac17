package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lesheydeveloper/consentmd-chat/internal/core"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a note or preference row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrCorruptRow marks a stored row whose enumeration keys are no longer
	// in the catalogs.
	ErrCorruptRow = errors.New("corrupt stored row")
)

// Repository wraps database operations for clinical notes and user
// preferences.  Catalog data is never stored; rows reference templates and
// consultation types by enumeration key.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a new Repository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// CreateNote inserts a note and its section skeleton.
func (r *Repository) CreateNote(ctx context.Context, n *pkg.ClinicalNote) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		return fmt.Errorf("note id: %w", err)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO clinical_notes (id, template_type, consultation_type, patient_ref, author_id, status, created_at, updated_at, completed_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, n.TemplateType, n.ConsultationType, n.PatientRef, n.AuthorID, n.Status, n.CreatedAt, n.UpdatedAt, n.CompletedAt,
	)
	if err != nil {
		return err
	}
	if err := writeSections(ctx, tx, id, n.Sections); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveNote writes the note's status and timestamps together with the
// content of the sections named in changed.  Only a stored draft is updated:
// if another request completed the note first, SaveNote returns
// core.ErrNoteCompleted and writes nothing.
func (r *Repository) SaveNote(ctx context.Context, n *pkg.ClinicalNote, changed ...string) error {
	id, err := uuid.Parse(n.ID)
	if err != nil {
		return ErrNotFound
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	res, err := tx.ExecContext(ctx,
		`UPDATE clinical_notes
         SET status = $1, updated_at = $2, completed_at = $3
         WHERE id = $4 AND status = $5`,
		n.Status, n.UpdatedAt, n.CompletedAt, id, pkg.NoteDraft,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return saveRejected(ctx, tx, id)
	}
	for _, sectionID := range changed {
		s := n.Section(sectionID)
		if s == nil {
			return fmt.Errorf("%w: %q", core.ErrUnknownSection, sectionID)
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE note_sections SET content = $1
             WHERE note_id = $2 AND section_id = $3`,
			s.Content, id, s.ID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// saveRejected tells a missing note apart from one that is no longer a draft.
func saveRejected(ctx context.Context, tx *sql.Tx, id uuid.UUID) error {
	var status string
	err := tx.QueryRowContext(ctx, `SELECT status FROM clinical_notes WHERE id = $1`, id).Scan(&status)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case err != nil:
		return err
	}
	return core.ErrNoteCompleted
}

func writeSections(ctx context.Context, tx *sql.Tx, noteID uuid.UUID, sections []pkg.NoteSection) error {
	for i, s := range sections {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO note_sections (note_id, position, section_id, content)
             VALUES ($1, $2, $3, $4)
             ON CONFLICT (note_id, section_id) DO UPDATE SET content = EXCLUDED.content, position = EXCLUDED.position`,
			noteID, i, s.ID, s.Content,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetNote loads a note with its sections in template order.
func (r *Repository) GetNote(ctx context.Context, noteID string) (*pkg.ClinicalNote, error) {
	id, err := uuid.Parse(noteID)
	if err != nil {
		return nil, ErrNotFound
	}
	n, err := scanNote(r.DB.QueryRowContext(ctx,
		`SELECT id, template_type, consultation_type, patient_ref, author_id, status, created_at, updated_at, completed_at
         FROM clinical_notes
         WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT section_id, content
         FROM note_sections
         WHERE note_id = $1
         ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s pkg.NoteSection
		if err := rows.Scan(&s.ID, &s.Content); err != nil {
			return nil, err
		}
		n.Sections = append(n.Sections, s)
	}
	return n, rows.Err()
}

// ListNotes returns the notes for a patient, newest first, without section
// content.
func (r *Repository) ListNotes(ctx context.Context, patientRef string) ([]pkg.ClinicalNote, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, template_type, consultation_type, patient_ref, author_id, status, created_at, updated_at, completed_at
         FROM clinical_notes
         WHERE patient_ref = $1
         ORDER BY created_at DESC`, patientRef)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var notes []pkg.ClinicalNote
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanNote reads a clinical_notes row.  Stored keys are validated against the
// catalogs; a stale row fails with ErrCorruptRow rather than being rendered
// with the wrong structure.
func scanNote(s scanner) (*pkg.ClinicalNote, error) {
	var (
		n                   pkg.ClinicalNote
		id                  uuid.UUID
		tmplKey, consultKey string
		status              string
		completedAt         sql.NullTime
	)
	if err := s.Scan(&id, &tmplKey, &consultKey, &n.PatientRef, &n.AuthorID, &status, &n.CreatedAt, &n.UpdatedAt, &completedAt); err != nil {
		return nil, err
	}
	t, err := core.ParseTemplateType(tmplKey)
	if err != nil {
		return nil, corrupt("note", id.String(), err)
	}
	c, err := core.ParseConsultationType(consultKey)
	if err != nil {
		return nil, corrupt("note", id.String(), err)
	}
	n.ID = id.String()
	n.TemplateType = t
	n.ConsultationType = c
	n.Status = pkg.NoteStatus(status)
	if completedAt.Valid {
		ts := completedAt.Time
		n.CompletedAt = &ts
	}
	return &n, nil
}

// corrupt wraps a catalog lookup failure on stored data.  The cause is
// formatted with %v, so the result does not match core.ErrInvalidEnumerationKey.
func corrupt(kind, key string, cause error) error {
	return fmt.Errorf("%w: %s %s: %v", ErrCorruptRow, kind, key, cause)
}

// GetPreferences returns the stored preferences for a user.
func (r *Repository) GetPreferences(ctx context.Context, userID string) (*pkg.Preferences, error) {
	var (
		p          pkg.Preferences
		defTmpl    string
		defConsult sql.NullString
		favorites  []string
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, default_template, default_consultation_type, favorite_templates, updated_at
         FROM user_preferences
         WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &defTmpl, &defConsult, pq.Array(&favorites), &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if p.DefaultTemplate, err = core.ParseTemplateType(defTmpl); err != nil {
		return nil, corrupt("preferences", userID, err)
	}
	if defConsult.Valid {
		c, err := core.ParseConsultationType(defConsult.String)
		if err != nil {
			return nil, corrupt("preferences", userID, err)
		}
		p.DefaultConsultationType = &c
	}
	p.FavoriteTemplates = make([]pkg.TemplateType, 0, len(favorites))
	for _, f := range favorites {
		t, err := core.ParseTemplateType(f)
		if err != nil {
			return nil, corrupt("preferences", userID, err)
		}
		p.FavoriteTemplates = append(p.FavoriteTemplates, t)
	}
	return &p, nil
}

// SavePreferences creates or replaces a user's preferences.
func (r *Repository) SavePreferences(ctx context.Context, p *pkg.Preferences) error {
	favorites := make([]string, len(p.FavoriteTemplates))
	for i, f := range p.FavoriteTemplates {
		favorites[i] = string(f)
	}
	var defConsult sql.NullString
	if p.DefaultConsultationType != nil {
		defConsult = sql.NullString{String: string(*p.DefaultConsultationType), Valid: true}
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO user_preferences (user_id, default_template, default_consultation_type, favorite_templates, updated_at)
         VALUES ($1, $2, $3, $4, $5)
         ON CONFLICT (user_id) DO UPDATE
         SET default_template = EXCLUDED.default_template,
             default_consultation_type = EXCLUDED.default_consultation_type,
             favorite_templates = EXCLUDED.favorite_templates,
             updated_at = EXCLUDED.updated_at`,
		p.UserID, p.DefaultTemplate, defConsult, pq.Array(favorites), p.UpdatedAt,
	)
	return err
}
