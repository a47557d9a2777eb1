package pdf

import (
	"regexp"
	"strings"

	"todiem/internal/logger"
)

// HeaderLabel is the score column header text searched for in each
// document.
const HeaderLabel = "Điểm"

// studentIDPattern matches an exam-sheet student ID: exactly 9 digits,
// not leading with 0.
var studentIDPattern = regexp.MustCompile(`^[1-9][0-9]{8}$`)

// FindColumnAnchor scans the pages in document order and returns the
// position of the first token containing the score column header, or nil
// when the document has no such token.
func FindColumnAnchor(pages []Page, log logger.Logger) *ColumnAnchor {
	for _, page := range pages {
		for _, w := range page.Words {
			if strings.Contains(w.Text, HeaderLabel) {
				return &ColumnAnchor{
					X0:     w.X,
					Top:    w.Top,
					Bottom: w.Top + w.FontSize,
				}
			}
		}
	}

	log.Warn("score column header not found", logger.String("label", HeaderLabel))
	return nil
}

// FindStudentPositions scans every page for student ID tokens. The first
// occurrence of an ID wins; duplicates on later pages are ignored.
func FindStudentPositions(pages []Page, log logger.Logger) map[string]AnchorPosition {
	positions := make(map[string]AnchorPosition)

	for _, page := range pages {
		for _, w := range page.Words {
			if !studentIDPattern.MatchString(w.Text) {
				continue
			}
			if _, seen := positions[w.Text]; seen {
				continue
			}
			positions[w.Text] = AnchorPosition{
				StudentID: w.Text,
				X:         w.X,
				Top:       w.Top,
				Page:      page.Number,
			}
		}
	}

	log.Info("student IDs located", logger.Int("count", len(positions)))
	return positions
}
