package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/lesheydeveloper/consentmd-chat/internal/llm"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

// SectionAssistant rewrites a single note section on a clinician's request.
// It does not modify the note; callers decide whether to keep the result.
type SectionAssistant struct {
	LLM llm.Client
}

// NewSectionAssistant constructs an assistant with the given LLM client.
func NewSectionAssistant(client llm.Client) *SectionAssistant {
	return &SectionAssistant{LLM: client}
}

// Refine returns a rewritten version of the section's content following
// request, e.g. "make this more concise".
func (a *SectionAssistant) Refine(ctx context.Context, n *pkg.ClinicalNote, sectionID, request string) (string, error) {
	tmpl, err := GetTemplate(n.TemplateType)
	if err != nil {
		return "", err
	}
	visit, err := GetConsultationType(n.ConsultationType)
	if err != nil {
		return "", err
	}
	var def *pkg.TemplateSection
	for i := range tmpl.Sections {
		if tmpl.Sections[i].ID == sectionID {
			def = &tmpl.Sections[i]
			break
		}
	}
	current := n.Section(sectionID)
	if def == nil || current == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, sectionID)
	}

	system := RefineSystemPrompt + "\n\n" + visit.AIContextModifier
	if tmpl.AIPromptModifier != nil {
		system += "\n" + *tmpl.AIPromptModifier
	}
	user := fmt.Sprintf("Section: %s\n\nCurrent text:\n%s\n\nRequest: %s", def.FullName, current.Content, strings.TrimSpace(request))
	resp, err := a.LLM.Chat(ctx, []llm.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return strings.TrimSpace(resp), nil
}
