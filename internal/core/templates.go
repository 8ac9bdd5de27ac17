package core

import (
	"fmt"
	"strings"

	"github.com/lesheydeveloper/consentmd-chat/pkg"
	"github.com/sahilm/fuzzy"
)

// templateTypes is the declaration order of the template enumeration.  The
// catalog below must list one entry per value, in this order.
var templateTypes = []pkg.TemplateType{
	pkg.TemplateSOAP,
	pkg.TemplateAPSO,
	pkg.TemplateDAP,
	pkg.TemplateBIRP,
	pkg.TemplateSBAR,
	pkg.TemplateHistoryPhysical,
	pkg.TemplateProgress,
	pkg.TemplatePsychiatry,
	pkg.TemplateCardiology,
	pkg.TemplatePediatrics,
	pkg.TemplateDermatology,
}

func str(s string) *string { return &s }

func section(id, label, fullName, placeholder string, required bool) pkg.TemplateSection {
	s := pkg.TemplateSection{ID: id, Label: label, FullName: fullName, Required: required}
	if placeholder != "" {
		s.Placeholder = str(placeholder)
	}
	return s
}

// templateCatalog is versioned with the binary; changing a template requires
// a rebuild.
var templateCatalog = []pkg.NoteTemplate{
	{
		ID:          pkg.TemplateSOAP,
		Name:        "SOAP Note",
		Description: "Subjective, Objective, Assessment, Plan. The standard structure for most encounters.",
		Icon:        "file-text",
		Sections: []pkg.TemplateSection{
			section("subjective", "S", "Subjective", "Chief complaint, history of present illness, symptoms reported by the patient", true),
			section("objective", "O", "Objective", "Vital signs, examination findings, lab and imaging results", true),
			section("assessment", "A", "Assessment", "Diagnosis or differential diagnoses", true),
			section("plan", "P", "Plan", "Treatment, medications, referrals, follow-up", true),
		},
	},
	{
		ID:               pkg.TemplateAPSO,
		Name:             "APSO Note",
		Description:      "SOAP reordered so the assessment and plan come first for quick review.",
		Icon:             "list-ordered",
		AIPromptModifier: str("Lead with a concise assessment and an actionable plan. Keep subjective and objective sections brief and supporting."),
		Sections: []pkg.TemplateSection{
			section("assessment", "A", "Assessment", "Diagnosis or differential diagnoses", true),
			section("plan", "P", "Plan", "Treatment, medications, referrals, follow-up", true),
			section("subjective", "S", "Subjective", "Patient-reported history and symptoms", true),
			section("objective", "O", "Objective", "Vital signs, examination findings, results", true),
		},
	},
	{
		ID:               pkg.TemplateDAP,
		Name:             "DAP Note",
		Description:      "Data, Assessment, Plan. Common in counseling and behavioral health sessions.",
		Icon:             "message-square",
		AIPromptModifier: str("Document observable session data separately from clinical interpretation. Use neutral, non-judgmental language."),
		Sections: []pkg.TemplateSection{
			section("data", "D", "Data", "What the client said and what was observed during the session", true),
			section("assessment", "A", "Assessment", "Clinical interpretation of the data and progress toward goals", true),
			section("plan", "P", "Plan", "Next steps, homework, next session date", true),
		},
	},
	{
		ID:               pkg.TemplateBIRP,
		Name:             "BIRP Note",
		Description:      "Behavior, Intervention, Response, Plan. Tracks therapeutic interventions and client response.",
		Icon:             "activity",
		AIPromptModifier: str("Tie each intervention to the presenting behavior and record the client's response to it."),
		Sections: []pkg.TemplateSection{
			section("behavior", "B", "Behavior", "Presenting behavior, mood and affect", true),
			section("intervention", "I", "Intervention", "Therapeutic techniques used this session", true),
			section("response", "R", "Response", "How the client responded to the interventions", true),
			section("plan", "P", "Plan", "Plan for upcoming sessions", true),
		},
	},
	{
		ID:               pkg.TemplateSBAR,
		Name:             "SBAR",
		Description:      "Situation, Background, Assessment, Recommendation. Structured handoff communication.",
		Icon:             "repeat",
		AIPromptModifier: str("Write for a clinician receiving a handoff. Be brief, state the situation first and end with a clear recommendation."),
		Sections: []pkg.TemplateSection{
			section("situation", "S", "Situation", "What is happening right now", true),
			section("background", "B", "Background", "Relevant history and context", false),
			section("assessment", "A", "Assessment", "What you think the problem is", true),
			section("recommendation", "R", "Recommendation", "What you want done and by when", true),
		},
	},
	{
		ID:          pkg.TemplateHistoryPhysical,
		Name:        "History & Physical",
		Description: "Comprehensive admission or new-patient documentation.",
		Icon:        "clipboard",
		Sections: []pkg.TemplateSection{
			section("chief_complaint", "CC", "Chief Complaint", "Reason for the visit in the patient's words", true),
			section("hpi", "HPI", "History of Present Illness", "Onset, location, duration, character, aggravating and relieving factors", true),
			section("past_medical_history", "PMH", "Past Medical History", "Chronic conditions, surgeries, hospitalizations", false),
			section("medications", "Meds", "Medications", "Current medications with dose and frequency", false),
			section("allergies", "All", "Allergies", "Drug and other allergies with reactions", false),
			section("social_history", "SH", "Social History", "Tobacco, alcohol, occupation, living situation", false),
			section("family_history", "FH", "Family History", "", false),
			section("review_of_systems", "ROS", "Review of Systems", "", false),
			section("physical_exam", "PE", "Physical Examination", "General appearance and findings by system", true),
			section("assessment", "A", "Assessment", "Diagnosis or differential diagnoses", true),
			section("plan", "P", "Plan", "Workup, treatment, disposition", true),
		},
	},
	{
		ID:               pkg.TemplateProgress,
		Name:             "Progress Note",
		Description:      "Short interval note for ongoing care.",
		Icon:             "trending-up",
		AIPromptModifier: str("Focus on changes since the last encounter. Do not restate stable history."),
		Sections: []pkg.TemplateSection{
			section("interval_history", "IH", "Interval History", "Changes since the last visit", true),
			section("examination", "Exam", "Examination", "Focused findings", false),
			section("assessment", "A", "Assessment", "Status of each active problem", true),
			section("plan", "P", "Plan", "Changes to treatment and follow-up", true),
		},
	},
	{
		ID:               pkg.TemplatePsychiatry,
		Name:             "Psychiatric Evaluation",
		Description:      "Psychiatric assessment including mental status and risk evaluation.",
		Icon:             "brain",
		Specialty:        str("Psychiatry"),
		AIPromptModifier: str("Use DSM terminology where supported by the history. Always document suicide and violence risk explicitly, including protective factors."),
		Sections: []pkg.TemplateSection{
			section("chief_complaint", "CC", "Chief Complaint", "", true),
			section("hpi", "HPI", "History of Present Illness", "Course of symptoms, stressors, prior episodes", true),
			section("psychiatric_history", "PH", "Psychiatric History", "Prior diagnoses, hospitalizations, medication trials", false),
			section("substance_use", "SU", "Substance Use", "Alcohol, drugs, tobacco", false),
			section("mental_status_exam", "MSE", "Mental Status Examination", "Appearance, behavior, speech, mood, affect, thought process and content, cognition, insight, judgment", true),
			section("risk_assessment", "Risk", "Risk Assessment", "Suicidal and homicidal ideation, plan, intent, means, protective factors", true),
			section("diagnosis", "Dx", "Diagnosis", "", true),
			section("plan", "P", "Plan", "Medications, therapy, safety plan, follow-up", true),
		},
	},
	{
		ID:               pkg.TemplateCardiology,
		Name:             "Cardiology Consult",
		Description:      "Cardiovascular consultation note.",
		Icon:             "heart",
		Specialty:        str("Cardiology"),
		AIPromptModifier: str("Report cardiac risk factors, ECG and imaging findings with values. Use standard cardiology abbreviations."),
		Sections: []pkg.TemplateSection{
			section("reason_for_consult", "RFC", "Reason for Consult", "", true),
			section("cardiac_history", "CHx", "Cardiac History", "Prior events, procedures, devices", false),
			section("risk_factors", "RF", "Cardiovascular Risk Factors", "Hypertension, diabetes, lipids, smoking, family history", false),
			section("examination", "Exam", "Cardiovascular Examination", "Heart sounds, murmurs, JVP, edema, pulses", true),
			section("diagnostics", "Dx", "ECG and Diagnostics", "ECG, echo, troponin, stress testing", false),
			section("assessment", "A", "Assessment", "", true),
			section("recommendations", "Rec", "Recommendations", "Medications, further testing, procedures", true),
		},
	},
	{
		ID:               pkg.TemplatePediatrics,
		Name:             "Pediatric Visit",
		Description:      "Pediatric encounter with growth and development tracking.",
		Icon:             "baby",
		Specialty:        str("Pediatrics"),
		AIPromptModifier: str("Include age-appropriate developmental milestones and growth percentiles. Address guidance to the caregiver."),
		Sections: []pkg.TemplateSection{
			section("subjective", "S", "Subjective", "Concerns reported by the patient or caregiver", true),
			section("growth_development", "G&D", "Growth and Development", "Weight, height, head circumference percentiles, milestones", true),
			section("immunizations", "Imm", "Immunizations", "Vaccines given or due", false),
			section("objective", "O", "Objective", "Examination findings", true),
			section("assessment", "A", "Assessment", "", true),
			section("plan", "P", "Plan", "Treatment, anticipatory guidance, next well visit", true),
		},
	},
	{
		ID:               pkg.TemplateDermatology,
		Name:             "Dermatology Note",
		Description:      "Skin examination with lesion-level documentation.",
		Icon:             "scan",
		Specialty:        str("Dermatology"),
		AIPromptModifier: str("Describe lesions with morphology, size, color, distribution and configuration using dermatologic terms."),
		Sections: []pkg.TemplateSection{
			section("history", "Hx", "History", "Onset, evolution, symptoms, prior treatments", true),
			section("lesion_description", "Lesion", "Lesion Description", "Morphology, size, color, distribution", true),
			section("assessment", "A", "Assessment", "", true),
			section("plan", "P", "Plan", "Topicals, procedures, biopsy, follow-up", true),
		},
	},
}

var templateIndex = indexTemplates()

// indexTemplates checks that the catalog is total over the enumeration and
// that section ids are unique.  It panics on violation so drift is caught at
// startup rather than on a patient's note.
func indexTemplates() map[pkg.TemplateType]int {
	if len(templateCatalog) != len(templateTypes) {
		panic(fmt.Sprintf("template catalog has %d entries for %d template types", len(templateCatalog), len(templateTypes)))
	}
	idx := make(map[pkg.TemplateType]int, len(templateCatalog))
	for i, t := range templateCatalog {
		if t.ID != templateTypes[i] {
			panic(fmt.Sprintf("template catalog entry %d is %q, want %q", i, t.ID, templateTypes[i]))
		}
		if len(t.Sections) == 0 {
			panic(fmt.Sprintf("template %q has no sections", t.ID))
		}
		seen := make(map[string]bool, len(t.Sections))
		for _, s := range t.Sections {
			if seen[s.ID] {
				panic(fmt.Sprintf("template %q repeats section %q", t.ID, s.ID))
			}
			seen[s.ID] = true
		}
		idx[t.ID] = i
	}
	return idx
}

// TemplateTypes returns the template enumeration in declaration order.
func TemplateTypes() []pkg.TemplateType {
	out := make([]pkg.TemplateType, len(templateTypes))
	copy(out, templateTypes)
	return out
}

// ParseTemplateType converts untrusted input into a template kind.
func ParseTemplateType(s string) (pkg.TemplateType, error) {
	t := pkg.TemplateType(strings.TrimSpace(s))
	if _, ok := templateIndex[t]; !ok {
		return "", fmt.Errorf("%w %q", ErrInvalidTemplateKind, s)
	}
	return t, nil
}

// GetTemplate returns the catalog entry for t.  It returns
// ErrInvalidTemplateKind if t is not a declared template kind.
func GetTemplate(t pkg.TemplateType) (pkg.NoteTemplate, error) {
	i, ok := templateIndex[t]
	if !ok {
		return pkg.NoteTemplate{}, fmt.Errorf("%w %q", ErrInvalidTemplateKind, t)
	}
	return cloneTemplate(templateCatalog[i]), nil
}

// GetTemplateSections returns the sections of t in documentation order.
func GetTemplateSections(t pkg.TemplateType) ([]pkg.TemplateSection, error) {
	tmpl, err := GetTemplate(t)
	if err != nil {
		return nil, err
	}
	return tmpl.Sections, nil
}

// GetAllTemplates returns every template in declaration order.
func GetAllTemplates() []pkg.NoteTemplate {
	out := make([]pkg.NoteTemplate, len(templateCatalog))
	for i, t := range templateCatalog {
		out[i] = cloneTemplate(t)
	}
	return out
}

type templateSource []pkg.NoteTemplate

func (s templateSource) String(i int) string {
	t := s[i]
	parts := []string{t.Name, string(t.ID)}
	if t.Specialty != nil {
		parts = append(parts, *t.Specialty)
	}
	return strings.Join(parts, " ")
}

func (s templateSource) Len() int { return len(s) }

// SearchTemplates fuzzy-matches query against template names, ids and
// specialties, best match first.  An empty query returns all templates.
func SearchTemplates(query string) []pkg.NoteTemplate {
	all := GetAllTemplates()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, templateSource(all))
	out := make([]pkg.NoteTemplate, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}

func cloneTemplate(t pkg.NoteTemplate) pkg.NoteTemplate {
	t.Specialty = cloneString(t.Specialty)
	t.AIPromptModifier = cloneString(t.AIPromptModifier)
	sections := make([]pkg.TemplateSection, len(t.Sections))
	for i, s := range t.Sections {
		s.Placeholder = cloneString(s.Placeholder)
		sections[i] = s
	}
	t.Sections = sections
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
