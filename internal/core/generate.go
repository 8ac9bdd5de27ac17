package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lesheydeveloper/consentmd-chat/internal/llm"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

// ErrGeneration wraps failures of the note generation service.
var ErrGeneration = errors.New("note generation failed")

// NoteGenerator drafts section content for a note from a visit transcript.
type NoteGenerator struct {
	LLM llm.Client
}

// NewNoteGenerator constructs a generator backed by client.
func NewNoteGenerator(client llm.Client) *NoteGenerator {
	return &NoteGenerator{LLM: client}
}

// Generate drafts the sections of n from transcript.  Sections the model
// leaves out keep their current content, keys that are not sections of the
// template are dropped.  On error n is left unchanged.  It returns the ids
// of the sections that were filled.
func (g *NoteGenerator) Generate(ctx context.Context, n *pkg.ClinicalNote, transcript []pkg.TranscriptLine) ([]string, error) {
	if n.Status == pkg.NoteCompleted {
		return nil, ErrNoteCompleted
	}
	tmpl, err := GetTemplate(n.TemplateType)
	if err != nil {
		return nil, err
	}
	visit, err := GetConsultationType(n.ConsultationType)
	if err != nil {
		return nil, err
	}
	instructions := BuildNoteInstructions(tmpl, visit)
	resp, err := g.LLM.Generate(ctx, instructions, formatTranscript(transcript))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	drafted, err := parseSections(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	var filled []string
	for _, s := range tmpl.Sections {
		text, ok := drafted[s.ID]
		if !ok || strings.TrimSpace(text) == "" {
			continue
		}
		if err := SetSectionContent(n, s.ID, strings.TrimSpace(text)); err != nil {
			return filled, err
		}
		filled = append(filled, s.ID)
	}
	return filled, nil
}

// parseSections decodes the model's JSON object.  Models sometimes wrap JSON
// in a markdown fence, which is stripped first.
func parseSections(resp string) (map[string]string, error) {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp)), &raw); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch t := v.(type) {
		case string:
			out[k] = t
		case []interface{}:
			lines := make([]string, 0, len(t))
			for _, item := range t {
				lines = append(lines, fmt.Sprint(item))
			}
			out[k] = strings.Join(lines, "\n")
		case nil:
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out, nil
}
