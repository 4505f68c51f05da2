// Package report renders quiz performance summaries as PDF.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/PeterK0/Quintry/internal/history"
	"github.com/PeterK0/Quintry/internal/model"
)

// Generate builds a one-page performance report from quiz history:
// overall average, per-difficulty breakdown, and the weakest and
// strongest port rankings.
func Generate(entries []model.QuizHistoryEntry, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 24)
	pdf.CellFormat(0, 14, "Port Quiz Performance Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8,
		fmt.Sprintf("Generated %s | %d quizzes recorded", generatedAt.Format("2006-01-02"), len(entries)),
		"", 1, "C", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10,
		fmt.Sprintf("Average accuracy: %.1f%%", history.AverageScore(entries)),
		"", 1, "C", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "By Difficulty", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Difficulty", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Quizzes", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 7, "Avg Accuracy", "1", 1, "C", false, 0, "")

	byDiff := history.ByDifficulty(entries)
	pdf.SetFont("Helvetica", "", 10)
	for _, d := range []model.Difficulty{model.DifficultyEasy, model.DifficultyNormal, model.DifficultyHard} {
		ds := byDiff[d]
		pdf.CellFormat(60, 7, string(d), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%d", ds.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, fmt.Sprintf("%.1f%%", ds.AvgAccuracy), "1", 1, "C", false, 0, "")
	}

	writeRanking(pdf, "Weakest Ports", history.Weakest(entries, history.DefaultLimit))
	writeRanking(pdf, "Strongest Ports", history.Strongest(entries, history.DefaultLimit))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRanking(pdf *fpdf.Fpdf, title string, stats []history.PortStats) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	if len(stats) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 7, "Not enough attempts recorded.", "", 1, "L", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Port", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Attempts", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Correct", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Accuracy", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, s := range stats {
		pdf.CellFormat(90, 7, s.Port, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.Attempts), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%d", s.Correct), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.0f%%", s.Accuracy), "1", 1, "C", false, 0, "")
	}
}
