package quiz

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/conorfennell/flashdeck/internal/domain"
)

// Export writes the session report as a CSV file in dir: a metadata block,
// a blank line, then one detail row per answered question. It returns the
// written file's path. Exporting happens strictly after scoring is complete;
// a partial (aborted) session is a valid export.
func Export(dir string, rep domain.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	name := fmt.Sprintf("quiz_results_%s.csv", rep.StartedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	meta := [][]string{
		{"timestamp", rep.StartedAt.Format(time.RFC3339)},
		{"user", rep.User},
		{"bank", rep.Bank},
		{"total_questions", strconv.Itoa(rep.Total)},
		{"score", strconv.Itoa(rep.Score)},
		{"wrong", strconv.Itoa(rep.Wrong)},
		{"percent", fmt.Sprintf("%.1f", rep.Percent)},
		{""},
		{"idx", "question", "chosen", "correct", "ok", "desc", "reference"},
	}
	for _, row := range meta {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write export metadata: %w", err)
		}
	}
	for _, res := range rep.Results {
		row := []string{
			strconv.Itoa(res.Index),
			res.Question,
			res.Chosen,
			res.Correct,
			strconv.FormatBool(res.OK),
			res.Desc,
			res.Ref,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write export row %d: %w", res.Index, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export %s: %w", path, err)
	}
	return path, nil
}
