package core

// prompts.go defines the instructions sent to the note generation service.
// Keeping these prompts in a separate file makes them easy to tweak without
// touching the rest of the code.

import (
	"fmt"
	"strings"

	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

const (
	// NoteSystemPrompt is the base instruction for drafting a clinical note
	// from a visit transcript.  Template and visit guidance are appended by
	// BuildNoteInstructions.
	NoteSystemPrompt = "You are a clinical documentation assistant. Draft a clinical note from the visit transcript. " +
		"Use only information present in the transcript; never invent findings, doses or diagnoses. " +
		"Write in concise professional clinical language. Leave a section empty when the transcript has nothing for it."

	// RefineSystemPrompt instructs the assistant when a clinician asks for a
	// single section to be rewritten.
	RefineSystemPrompt = "You are a clinical documentation assistant helping a clinician edit one section of a note. " +
		"Return only the rewritten section text, with no heading and no commentary. Do not add facts that are not in the current text or the request."

	// outputContract is appended last so the model returns parseable JSON.
	outputContract = "Respond with a single JSON object. Each key is a section id from the list above and each value is the section text as a string. Do not include any other keys."
)

// BuildNoteInstructions combines the base prompt, the template's prompt
// modifier and the visit type's context modifier.  Both modifiers are passed
// verbatim, template guidance first; neither replaces the other.
func BuildNoteInstructions(tmpl pkg.NoteTemplate, visit pkg.ConsultationTypeInfo) string {
	var b strings.Builder
	b.WriteString(NoteSystemPrompt)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Template: %s. %s\n", tmpl.Name, tmpl.Description)
	if tmpl.Specialty != nil {
		fmt.Fprintf(&b, "Specialty: %s\n", *tmpl.Specialty)
	}
	if tmpl.AIPromptModifier != nil && strings.TrimSpace(*tmpl.AIPromptModifier) != "" {
		b.WriteString("\nTemplate guidance:\n")
		b.WriteString(*tmpl.AIPromptModifier)
		b.WriteString("\n")
	}
	b.WriteString("\nVisit context (")
	b.WriteString(visit.Name)
	b.WriteString("):\n")
	b.WriteString(visit.AIContextModifier)
	b.WriteString("\n\nSections, in order:\n")
	for _, s := range tmpl.Sections {
		req := "optional"
		if s.Required {
			req = "required"
		}
		fmt.Fprintf(&b, "- %s (%s, %s)", s.ID, s.FullName, req)
		if s.Placeholder != nil {
			fmt.Fprintf(&b, ": %s", *s.Placeholder)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(outputContract)
	return b.String()
}

// formatTranscript renders transcript lines as "Speaker: text" lines.
func formatTranscript(lines []pkg.TranscriptLine) string {
	var b strings.Builder
	for _, l := range lines {
		speaker := strings.TrimSpace(l.Speaker)
		if speaker == "" {
			speaker = "Unknown"
		}
		b.WriteString(speaker)
		b.WriteString(": ")
		b.WriteString(strings.TrimSpace(l.Text))
		b.WriteString("\n")
	}
	return b.String()
}
