package core

import (
	"fmt"
	"strings"

	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

var consultationTypes = []pkg.ConsultationType{
	pkg.ConsultationInitial,
	pkg.ConsultationFollowUp,
	pkg.ConsultationEmergency,
	pkg.ConsultationUrgentCare,
	pkg.ConsultationRoutineCheckup,
	pkg.ConsultationSpecialistReferral,
	pkg.ConsultationSecondOpinion,
	pkg.ConsultationTelehealth,
	pkg.ConsultationPreOperative,
	pkg.ConsultationPostOperative,
	pkg.ConsultationMentalHealth,
}

var consultationCatalog = []pkg.ConsultationTypeInfo{
	{
		ID:                pkg.ConsultationInitial,
		Name:              "Initial Consultation",
		Description:       "First visit with a new patient.",
		Icon:              "user-plus",
		AIContextModifier: "This is a first visit. Capture a complete baseline: full history, medications, allergies, social and family history, and establish the problem list.",
	},
	{
		ID:                pkg.ConsultationFollowUp,
		Name:              "Follow-up",
		Description:       "Return visit for an existing problem.",
		Icon:              "rotate-cw",
		AIContextModifier: "This is a follow-up visit. Emphasize changes since the last visit, response to treatment, adherence and side effects. Do not repeat stable baseline history.",
	},
	{
		ID:                pkg.ConsultationEmergency,
		Name:              "Emergency",
		Description:       "Acute presentation requiring immediate evaluation.",
		Icon:              "alert-triangle",
		AIContextModifier: "This is an emergency encounter. Prioritize acute, time-sensitive findings: presenting complaint, vital signs, red flags, interventions given with times, and disposition. Put life-threatening issues first.",
	},
	{
		ID:                pkg.ConsultationUrgentCare,
		Name:              "Urgent Care",
		Description:       "Same-day visit for a non-life-threatening acute problem.",
		Icon:              "clock",
		AIContextModifier: "This is an urgent care visit. Keep the note focused on the acute complaint, document return precautions and when to seek emergency care.",
	},
	{
		ID:                pkg.ConsultationRoutineCheckup,
		Name:              "Routine Checkup",
		Description:       "Preventive or annual wellness visit.",
		Icon:              "calendar-check",
		AIContextModifier: "This is a preventive visit. Document screening status, immunizations, lifestyle counseling and age-appropriate health maintenance.",
	},
	{
		ID:                pkg.ConsultationSpecialistReferral,
		Name:              "Specialist Referral",
		Description:       "Consultation requested by another clinician.",
		Icon:              "share-2",
		AIContextModifier: "This is a referral consultation. State the referring question clearly and answer it directly with specific recommendations for the referring clinician.",
	},
	{
		ID:                pkg.ConsultationSecondOpinion,
		Name:              "Second Opinion",
		Description:       "Independent review of an existing diagnosis or plan.",
		Icon:              "users",
		AIContextModifier: "This is a second opinion. Summarize the prior diagnosis and plan, note where you agree or differ, and give the reasoning for any difference.",
	},
	{
		ID:                pkg.ConsultationTelehealth,
		Name:              "Telehealth",
		Description:       "Remote video or phone visit.",
		Icon:              "video",
		AIContextModifier: "This is a telehealth visit. Note the modality, patient location and consent, and state which examination elements were limited or patient-reported.",
	},
	{
		ID:                pkg.ConsultationPreOperative,
		Name:              "Pre-operative",
		Description:       "Evaluation before a planned procedure.",
		Icon:              "scissors",
		AIContextModifier: "This is a pre-operative evaluation. Document the planned procedure, anesthesia and bleeding risk, relevant comorbidities and perioperative medication instructions.",
	},
	{
		ID:                pkg.ConsultationPostOperative,
		Name:              "Post-operative",
		Description:       "Review after a procedure.",
		Icon:              "check-circle",
		AIContextModifier: "This is a post-operative visit. Document wound status, pain control, complications, functional recovery and activity restrictions.",
	},
	{
		ID:                pkg.ConsultationMentalHealth,
		Name:              "Mental Health",
		Description:       "Behavioral or mental health session.",
		Icon:              "smile",
		AIContextModifier: "This is a mental health visit. Use person-centered language, document mood, safety and risk, and keep sensitive details to what is clinically necessary.",
	},
}

var consultationIndex = indexConsultations()

func indexConsultations() map[pkg.ConsultationType]int {
	if len(consultationCatalog) != len(consultationTypes) {
		panic(fmt.Sprintf("consultation catalog has %d entries for %d consultation types", len(consultationCatalog), len(consultationTypes)))
	}
	idx := make(map[pkg.ConsultationType]int, len(consultationCatalog))
	for i, c := range consultationCatalog {
		if c.ID != consultationTypes[i] {
			panic(fmt.Sprintf("consultation catalog entry %d is %q, want %q", i, c.ID, consultationTypes[i]))
		}
		if strings.TrimSpace(c.AIContextModifier) == "" {
			panic(fmt.Sprintf("consultation type %q has no context modifier", c.ID))
		}
		idx[c.ID] = i
	}
	return idx
}

// ConsultationTypes returns the consultation enumeration in declaration order.
func ConsultationTypes() []pkg.ConsultationType {
	out := make([]pkg.ConsultationType, len(consultationTypes))
	copy(out, consultationTypes)
	return out
}

// ParseConsultationType converts untrusted input into a consultation type.
// Keys are matched exactly after trimming spaces.
func ParseConsultationType(s string) (pkg.ConsultationType, error) {
	c := pkg.ConsultationType(strings.TrimSpace(s))
	if _, ok := consultationIndex[c]; !ok {
		return "", fmt.Errorf("%w %q", ErrInvalidConsultationType, s)
	}
	return c, nil
}

// GetConsultationType returns the catalog entry for c, or
// ErrInvalidConsultationType.
func GetConsultationType(c pkg.ConsultationType) (pkg.ConsultationTypeInfo, error) {
	i, ok := consultationIndex[c]
	if !ok {
		return pkg.ConsultationTypeInfo{}, fmt.Errorf("%w %q", ErrInvalidConsultationType, c)
	}
	return consultationCatalog[i], nil
}

// GetAllConsultationTypes returns every consultation type in declaration order.
func GetAllConsultationTypes() []pkg.ConsultationTypeInfo {
	out := make([]pkg.ConsultationTypeInfo, len(consultationCatalog))
	copy(out, consultationCatalog)
	return out
}
