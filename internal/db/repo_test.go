package db

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/lesheydeveloper/consentmd-chat/internal/core"
	"github.com/lesheydeveloper/consentmd-chat/pkg"
)

// openTestDB connects to TEST_DATABASE_URL and applies the schema.  The
// tests are skipped when it is not set.
func openTestDB(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepository(conn)
}

func TestNoteRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	n, err := core.NewNote(pkg.TemplatePsychiatry, pkg.ConsultationMentalHealth, "patient-db-1", "dr-db")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.CreateNote(ctx, n); err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = core.SetSectionContent(n, "risk_assessment", "Denies SI/HI")
	if err := repo.SaveNote(ctx, n, "risk_assessment"); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TemplateType != pkg.TemplatePsychiatry || len(got.Sections) != len(n.Sections) {
		t.Fatalf("got %+v", got)
	}
	for i := range n.Sections {
		if got.Sections[i] != n.Sections[i] {
			t.Errorf("section %d = %+v, want %+v", i, got.Sections[i], n.Sections[i])
		}
	}

	notes, err := repo.ListNotes(ctx, "patient-db-1")
	if err != nil || len(notes) == 0 {
		t.Fatalf("list: %v %d", err, len(notes))
	}

	if _, err := repo.GetNote(ctx, "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Errorf("bad id err = %v", err)
	}
}

func TestStaleTemplateKeyIsReported(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	n, _ := core.NewNote(pkg.TemplateSOAP, pkg.ConsultationFollowUp, "patient-db-2", "dr-db")
	if err := repo.CreateNote(ctx, n); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.DB.ExecContext(ctx, `UPDATE clinical_notes SET template_type = 'retired' WHERE id = $1`, n.ID); err != nil {
		t.Fatal(err)
	}
	_, err := repo.GetNote(ctx, n.ID)
	if !errors.Is(err, ErrCorruptRow) {
		t.Fatalf("err = %v, want ErrCorruptRow", err)
	}
	if errors.Is(err, core.ErrInvalidEnumerationKey) {
		t.Error("stored data error should not read as a bad request key")
	}
}

func TestSaveStaleDraftAfterCompletion(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	n, _ := core.NewNote(pkg.TemplateSBAR, pkg.ConsultationEmergency, "patient-db-3", "dr-db")
	if err := repo.CreateNote(ctx, n); err != nil {
		t.Fatal(err)
	}

	stale, err := repo.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	for id, text := range map[string]string{"situation": "Chest pain", "assessment": "Possible ACS", "recommendation": "Transfer"} {
		_ = core.SetSectionContent(n, id, text)
	}
	if err := core.CompleteNote(n); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveNote(ctx, n, "situation", "assessment", "recommendation"); err != nil {
		t.Fatalf("save completed: %v", err)
	}

	_ = core.SetSectionContent(stale, "background", "late edit")
	if err := repo.SaveNote(ctx, stale, "background"); !errors.Is(err, core.ErrNoteCompleted) {
		t.Fatalf("stale save err = %v, want ErrNoteCompleted", err)
	}
	got, err := repo.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != pkg.NoteCompleted || got.CompletedAt == nil {
		t.Errorf("status = %q completed_at = %v", got.Status, got.CompletedAt)
	}
	if got.Section("background").Content != "" {
		t.Error("stale edit written to a completed note")
	}

	missing, _ := core.NewNote(pkg.TemplateSOAP, pkg.ConsultationFollowUp, "p", "a")
	if err := repo.SaveNote(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("unsaved note err = %v", err)
	}
}

func TestSaveNoteKeepsOtherSections(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	n, _ := core.NewNote(pkg.TemplateSOAP, pkg.ConsultationFollowUp, "patient-db-4", "dr-db")
	if err := repo.CreateNote(ctx, n); err != nil {
		t.Fatal(err)
	}

	// two editors load the same draft and change different sections
	a, _ := repo.GetNote(ctx, n.ID)
	b, _ := repo.GetNote(ctx, n.ID)
	_ = core.SetSectionContent(a, "subjective", "Headache")
	_ = core.SetSectionContent(b, "plan", "Ibuprofen")
	if err := repo.SaveNote(ctx, a, "subjective"); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveNote(ctx, b, "plan"); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Section("subjective").Content != "Headache" || got.Section("plan").Content != "Ibuprofen" {
		t.Errorf("sections = %+v", got.Sections)
	}
	if err := repo.SaveNote(ctx, a, "review_of_systems"); !errors.Is(err, core.ErrUnknownSection) {
		t.Errorf("unknown section err = %v", err)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()
	ct := pkg.ConsultationTelehealth
	p := &pkg.Preferences{
		UserID:                  "dr-prefs",
		DefaultTemplate:         pkg.TemplateAPSO,
		DefaultConsultationType: &ct,
		FavoriteTemplates:       []pkg.TemplateType{pkg.TemplateSOAP, pkg.TemplateDAP},
	}
	if err := repo.SavePreferences(ctx, p); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetPreferences(ctx, "dr-prefs")
	if err != nil {
		t.Fatal(err)
	}
	if got.DefaultTemplate != pkg.TemplateAPSO || got.DefaultConsultationType == nil || *got.DefaultConsultationType != ct {
		t.Fatalf("got %+v", got)
	}
	if len(got.FavoriteTemplates) != 2 || got.FavoriteTemplates[1] != pkg.TemplateDAP {
		t.Fatalf("favorites = %v", got.FavoriteTemplates)
	}
	if _, err := repo.GetPreferences(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing err = %v", err)
	}
}
