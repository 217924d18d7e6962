package routing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pioneer-academy/nmotrain/internal/catalog"
	"github.com/pioneer-academy/nmotrain/internal/flow"
)

func TestApplyWalksAllSteps(t *testing.T) {
	s := flow.NewSessionState()

	answers := []string{"Lima North", "PathwayConnect", "Virtual", "Brand new"}
	for i, a := range answers {
		if s.RoutingStep != i {
			t.Fatalf("expected step %d, got %d", i, s.RoutingStep)
		}
		if err := Apply(s, a); err != nil {
			t.Fatalf("apply step %d: %v", i, err)
		}
	}

	if s.RoutingStep != ConfirmStep() {
		t.Errorf("expected confirmation step %d, got %d", ConfirmStep(), s.RoutingStep)
	}
	if s.RoutingAnswers[AttrArea] != "Lima North" {
		t.Errorf("area answer: got %q", s.RoutingAnswers[AttrArea])
	}
	if s.RoutingAnswers[AttrExperience] != "Brand new" {
		t.Errorf("experience answer: got %q", s.RoutingAnswers[AttrExperience])
	}
}

func TestApplyRejectsBlank(t *testing.T) {
	s := flow.NewSessionState()

	if err := Apply(s, "   "); !errors.Is(err, ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	if s.RoutingStep != 0 {
		t.Error("rejected answer must not advance the wizard")
	}
}

func TestApplyRejectsUnknownOption(t *testing.T) {
	s := flow.NewSessionState()
	if err := Apply(s, "Lima"); err != nil {
		t.Fatal(err)
	}

	if err := Apply(s, "SomethingElse"); err == nil {
		t.Fatal("expected error for value outside the option set")
	}
	if s.RoutingStep != 1 {
		t.Error("rejected answer must not advance the wizard")
	}
}

func TestApplyTrimsWhitespace(t *testing.T) {
	s := flow.NewSessionState()
	if err := Apply(s, "  Lima  "); err != nil {
		t.Fatal(err)
	}
	if s.RoutingAnswers[AttrArea] != "Lima" {
		t.Errorf("expected trimmed answer, got %q", s.RoutingAnswers[AttrArea])
	}
}

func TestEditAnswersKeepsValues(t *testing.T) {
	s := flow.NewSessionState()
	for _, a := range []string{"Lima", "Institute", "In-Person", "Some experience"} {
		if err := Apply(s, a); err != nil {
			t.Fatal(err)
		}
	}

	EditAnswers(s)

	if s.RoutingStep != 0 {
		t.Errorf("expected step 0, got %d", s.RoutingStep)
	}
	if s.RoutingAnswers[AttrProgram] != "Institute" {
		t.Error("edit must keep collected answers for pre-fill")
	}
}

func registryWith(t *testing.T, manifest string, files map[string]string) *catalog.Registry {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "catalogs.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	reg, err := catalog.OpenRegistry(dir)
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func completedState(t *testing.T, program, format string) *flow.SessionState {
	t.Helper()
	s := flow.NewSessionState()
	for _, a := range []string{"Lima", program, format, "Brand new"} {
		if err := Apply(s, a); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestConfirmStartsTraining(t *testing.T) {
	reg := registryWith(t, `catalogs:
  - program: PathwayConnect
    format: Virtual
    file: pc.csv
`, map[string]string{
		"pc.csv": "question_id,question,question_type\nwelcome,Hi,info\n",
	})

	s := completedState(t, "PathwayConnect", "Virtual")
	cat, err := Confirm(s, reg)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if s.Phase != flow.PhaseTraining {
		t.Errorf("expected training phase, got %s", s.Phase)
	}
	if s.CurrentNodeID != "welcome" {
		t.Errorf("expected entry node welcome, got %q", s.CurrentNodeID)
	}
	if cat.Len() != 1 {
		t.Errorf("expected loaded catalog returned, got len=%d", cat.Len())
	}
}

func TestConfirmUnknownKeyHalts(t *testing.T) {
	reg := registryWith(t, "catalogs: []\n", nil)

	s := completedState(t, "Institute", "Virtual")
	_, err := Confirm(s, reg)

	var nf *catalog.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if s.Phase != flow.PhaseRouting {
		t.Error("failed confirm must not leave the routing phase")
	}
}

func TestConfirmBeforeLastStep(t *testing.T) {
	reg := registryWith(t, "catalogs: []\n", nil)

	s := flow.NewSessionState()
	if _, err := Confirm(s, reg); err == nil {
		t.Fatal("expected error confirming before the wizard finishes")
	}
}

func TestSelectedKey(t *testing.T) {
	s := completedState(t, "EnglishConnect", "In-Person")
	key := SelectedKey(s)
	if key.Program != "EnglishConnect" || key.Format != "In-Person" {
		t.Errorf("unexpected key %v", key)
	}
}
