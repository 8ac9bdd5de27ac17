package pkg

import "time"

// TemplateType identifies one entry of the note template catalog.  The set of
// values is closed; use core.ParseTemplateType for untrusted input.
type TemplateType string

const (
	TemplateSOAP            TemplateType = "soap"
	TemplateAPSO            TemplateType = "apso"
	TemplateDAP             TemplateType = "dap"
	TemplateBIRP            TemplateType = "birp"
	TemplateSBAR            TemplateType = "sbar"
	TemplateHistoryPhysical TemplateType = "history_physical"
	TemplateProgress        TemplateType = "progress"
	TemplatePsychiatry      TemplateType = "psychiatry"
	TemplateCardiology      TemplateType = "cardiology"
	TemplatePediatrics      TemplateType = "pediatrics"
	TemplateDermatology     TemplateType = "dermatology"
)

// ConsultationType classifies the visit a note documents.
type ConsultationType string

const (
	ConsultationInitial            ConsultationType = "initial_consultation"
	ConsultationFollowUp           ConsultationType = "follow_up"
	ConsultationEmergency          ConsultationType = "emergency"
	ConsultationUrgentCare         ConsultationType = "urgent_care"
	ConsultationRoutineCheckup     ConsultationType = "routine_checkup"
	ConsultationSpecialistReferral ConsultationType = "specialist_referral"
	ConsultationSecondOpinion      ConsultationType = "second_opinion"
	ConsultationTelehealth         ConsultationType = "telehealth"
	ConsultationPreOperative       ConsultationType = "pre_operative"
	ConsultationPostOperative      ConsultationType = "post_operative"
	ConsultationMentalHealth       ConsultationType = "mental_health"
)

// TemplateSection is a single labelled slot of a note template.  Placeholder
// is nil when the section has no hint text.
type TemplateSection struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	FullName    string  `json:"full_name"`
	Placeholder *string `json:"placeholder,omitempty"`
	Required    bool    `json:"required"`
}

// NoteTemplate describes the shape of a clinical note.  Sections are in
// documentation order.
type NoteTemplate struct {
	ID               TemplateType      `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Icon             string            `json:"icon"`
	Specialty        *string           `json:"specialty,omitempty"`
	AIPromptModifier *string           `json:"ai_prompt_modifier,omitempty"`
	Sections         []TemplateSection `json:"sections"`
}

// ConsultationTypeInfo holds display metadata for a visit type and the
// context text passed to the note generator.
type ConsultationTypeInfo struct {
	ID                ConsultationType `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Icon              string           `json:"icon"`
	AIContextModifier string           `json:"ai_context_modifier"`
}

// NoteStatus is the lifecycle state of a clinical note.
type NoteStatus string

const (
	NoteDraft     NoteStatus = "draft"
	NoteCompleted NoteStatus = "completed"
)

// NoteSection is the authored content of one template section.
type NoteSection struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ClinicalNote is a note being written against a template for a visit.
type ClinicalNote struct {
	ID               string           `json:"id"`
	TemplateType     TemplateType     `json:"template_type"`
	ConsultationType ConsultationType `json:"consultation_type"`
	PatientRef       string           `json:"patient_ref"`
	AuthorID         string           `json:"author_id"`
	Status           NoteStatus       `json:"status"`
	Sections         []NoteSection    `json:"sections"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
}

// Section returns the content slot with the given id, or nil.
func (n *ClinicalNote) Section(id string) *NoteSection {
	for i := range n.Sections {
		if n.Sections[i].ID == id {
			return &n.Sections[i]
		}
	}
	return nil
}

// Preferences stores a clinician's template choices for the settings screen.
type Preferences struct {
	UserID                  string            `json:"user_id"`
	DefaultTemplate         TemplateType      `json:"default_template"`
	DefaultConsultationType *ConsultationType `json:"default_consultation_type,omitempty"`
	FavoriteTemplates       []TemplateType    `json:"favorite_templates"`
	UpdatedAt               time.Time         `json:"updated_at"`
}

// TranscriptLine is one utterance of the visit conversation fed to the note
// generator.
type TranscriptLine struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}
