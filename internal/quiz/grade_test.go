package quiz

import (
	"math/rand/v2"
	"testing"

	"github.com/PeterK0/Quintry/internal/catalog"
	"github.com/PeterK0/Quintry/internal/model"
)

func sessionFor(t *testing.T, difficulty model.Difficulty) *Session {
	t.Helper()
	b := NewBuilder(catalog.Build([]model.RawPortRecord{
		{City: "Rotterdam", Country: "Netherlands", Latitude: 51.9, Longitude: 4.5},
		{City: "Hamburg", Country: "Germany", Latitude: 53.5, Longitude: 10.0},
	}), rand.New(rand.NewPCG(7, 7)))
	return b.Build(model.QuizConfig{
		Regions:    []string{RegionWorld},
		PortCount:  2,
		Difficulty: difficulty,
	}, nil)
}

func labelOf(t *testing.T, s *Session, name string) string {
	t.Helper()
	for label, p := range s.Markers {
		if p.Name == name {
			return label
		}
	}
	t.Fatalf("port %q not in session", name)
	return ""
}

func TestGradeEasyRequiresFullName(t *testing.T) {
	s := sessionFor(t, model.DifficultyEasy)
	rot := labelOf(t, s, "Rotterdam")

	results, score := Grade(s, map[string]string{rot: "Rotterdam, Netherlands"})
	if score != 1 {
		t.Errorf("expected score 1, got %d", score)
	}
	for _, r := range results {
		if r.Letter == rot && !r.IsCorrect {
			t.Errorf("full display name graded incorrect: %+v", r)
		}
	}

	// The bare name is not enough on easy.
	_, score = Grade(s, map[string]string{rot: "Rotterdam"})
	if score != 0 {
		t.Errorf("expected bare name rejected on easy, got score %d", score)
	}
}

func TestGradeHardMatchesNameOnly(t *testing.T) {
	for _, d := range []model.Difficulty{model.DifficultyNormal, model.DifficultyHard} {
		s := sessionFor(t, d)
		rot := labelOf(t, s, "Rotterdam")

		_, score := Grade(s, map[string]string{rot: "Rotterdam"})
		if score != 1 {
			t.Errorf("%s: expected bare name accepted, got score %d", d, score)
		}

		_, score = Grade(s, map[string]string{rot: "Rotterdam, Netherlands"})
		if score != 0 {
			t.Errorf("%s: expected full display name rejected, got score %d", d, score)
		}
	}
}

func TestGradeMissingAnswerIncorrect(t *testing.T) {
	s := sessionFor(t, model.DifficultyEasy)

	results, score := Grade(s, nil)
	if score != 0 {
		t.Errorf("expected score 0 with no answers, got %d", score)
	}
	if len(results) != 2 {
		t.Fatalf("expected a result per label, got %d", len(results))
	}
	for _, r := range results {
		if r.IsCorrect {
			t.Errorf("unanswered label graded correct: %+v", r)
		}
		if r.SelectedPort != "" {
			t.Errorf("expected empty selection, got %q", r.SelectedPort)
		}
	}
}

func TestGradeCorrectPortAlwaysFullForm(t *testing.T) {
	s := sessionFor(t, model.DifficultyHard)
	results, _ := Grade(s, nil)
	for _, r := range results {
		if r.CorrectPort != "Rotterdam, Netherlands" && r.CorrectPort != "Hamburg, Germany" {
			t.Errorf("correct port not in full form: %q", r.CorrectPort)
		}
	}
}

func TestEndToEndEasyQuiz(t *testing.T) {
	s := sessionFor(t, model.DifficultyEasy)

	if len(s.Markers) != 2 {
		t.Fatalf("expected labels 1,2 mapping both ports, got %d markers", len(s.Markers))
	}
	names := map[string]bool{}
	for _, label := range []string{"1", "2"} {
		p, ok := s.Markers[label]
		if !ok {
			t.Fatalf("missing label %q", label)
		}
		names[p.Name] = true
	}
	if !names["Rotterdam"] || !names["Hamburg"] {
		t.Fatalf("labels do not map bijectively onto both ports: %v", names)
	}

	answers := map[string]string{
		"1": s.Markers["1"].DisplayName(),
		"2": s.Markers["2"].DisplayName(),
	}
	results, score := Grade(s, answers)
	if score != 2 {
		t.Errorf("expected perfect score 2, got %d", score)
	}
	for _, r := range results {
		if !r.IsCorrect {
			t.Errorf("expected all correct, got %+v", r)
		}
	}
}
