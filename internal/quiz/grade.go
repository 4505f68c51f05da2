package quiz

import (
	"github.com/PeterK0/Quintry/internal/model"
)

// Grade compares submitted answers against the session's answer key and
// returns one result per label plus the aggregate score. On easy the
// submitted value must equal the full "name, country" display string; on
// normal and hard only the name is compared, since decoys make
// same-name-different-country collisions possible there. A label with no
// submitted answer is graded incorrect, never an error.
func Grade(s *Session, answers map[string]string) ([]model.QuizResult, int) {
	results := make([]model.QuizResult, 0, len(s.Ports))
	score := 0

	for _, label := range s.Labels() {
		port := s.Markers[label]
		selected := answers[label]

		var correct bool
		if s.Config.Difficulty == model.DifficultyEasy {
			correct = selected == port.DisplayName()
		} else {
			correct = selected == port.Name
		}
		if correct {
			score++
		}

		results = append(results, model.QuizResult{
			Letter:       label,
			SelectedPort: selected,
			CorrectPort:  port.DisplayName(),
			IsCorrect:    correct,
		})
	}
	return results, score
}
