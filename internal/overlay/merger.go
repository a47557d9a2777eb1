package overlay

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"todiem/internal/config"
	"todiem/internal/logger"
	"todiem/internal/types"
)

// Merger composites overlay marks onto the original document pages and
// writes the stamped output file.
type Merger struct {
	fontPath string
	log      logger.Logger
}

// NewMerger creates a Merger. fontPath may be empty, in which case the
// built-in Helvetica is used (Vietnamese diacritics degrade).
func NewMerger(fontPath string, log logger.Logger) *Merger {
	return &Merger{fontPath: fontPath, log: log}
}

// OutputName returns the stamped file name for an input document name.
func OutputName(name string) string {
	return "output_" + name
}

// Merge imports every source page, draws the corresponding overlay's
// marks over it and writes the result to outputPath, creating parent
// directories as needed. Pages without an overlay pass through unchanged.
// A single page's draw failure is logged and leaves that page unmarked;
// it does not abort the document.
func (m *Merger) Merge(sourcePath string, overlays []PageOverlay, outputPath string) error {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return types.NewAppError(types.ErrSourceNotFound, "cannot read PDF: "+sourcePath, err)
	}

	doc := fpdf.New("P", "pt", "A4", "")
	family := m.registerFont(doc)

	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(src))

	for i := range overlays {
		pageNum := i + 1

		tpl := imp.ImportPageFromStream(doc, &rs, pageNum, "/MediaBox")
		w, h := importedPageSize(imp, pageNum)

		doc.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(doc, tpl, 0, 0, w, 0)

		if err := m.drawPage(doc, family, overlays[i], h); err != nil {
			m.log.Error("overlay draw failed, page left unmarked",
				types.NewAppError(types.ErrRender, "page render failed", err),
				logger.String("file", filepath.Base(sourcePath)),
				logger.Int("page", pageNum))
			// fpdf errors are sticky; clear so the remaining pages
			// and the final write still go through
			doc.ClearError()
		}
	}

	outputDir := filepath.Dir(outputPath)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return types.NewAppError(types.ErrWrite, "cannot create output directory", err)
		}
	}

	if err := doc.OutputFileAndClose(outputPath); err != nil {
		return types.NewAppError(types.ErrWrite, "cannot write "+outputPath, err)
	}

	if err := api.ValidateFile(outputPath, nil); err != nil {
		return types.NewAppError(types.ErrWrite, "output failed validation: "+outputPath, err)
	}

	m.log.Info("stamped document written",
		logger.String("file", filepath.Base(outputPath)))
	return nil
}

// drawPage flips one overlay's canvas-space marks into the page's
// top-left coordinate system and draws them.
func (m *Merger) drawPage(doc *fpdf.Fpdf, family string, overlay PageOverlay, pageHeight float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw panic: %v", r)
		}
	}()

	doc.SetFont(family, "", config.FontSize)
	doc.SetTextColor(0, 0, 0)
	doc.SetFillColor(0, 0, 0)

	for _, t := range overlay.Texts {
		x := t.X
		if t.Centered {
			x -= doc.GetStringWidth(t.Text) / 2
		}
		doc.Text(x, pageHeight-t.Y, t.Text)
	}
	for _, c := range overlay.Circles {
		doc.Circle(c.X, pageHeight-c.Y, c.Radius, "F")
	}

	if doc.Err() {
		return doc.Error()
	}
	return nil
}

// registerFont registers the configured TTF and returns the font family
// to draw with. Registration failure falls back to the built-in font.
func (m *Merger) registerFont(doc *fpdf.Fpdf) string {
	if m.fontPath == "" {
		return "Helvetica"
	}

	doc.SetFontLocation(filepath.Dir(m.fontPath))
	doc.AddUTF8Font(config.FontFamily, "", filepath.Base(m.fontPath))
	if doc.Err() {
		m.log.Warn("font registration failed, using built-in font",
			logger.String("font", m.fontPath),
			logger.Err(doc.Error()))
		doc.ClearError()
		return "Helvetica"
	}
	return config.FontFamily
}

// importedPageSize reads the imported page's MediaBox dimensions.
func importedPageSize(imp *gofpdi.Importer, pageNum int) (w, h float64) {
	sizes := imp.GetPageSizes()
	if box, ok := sizes[pageNum]["/MediaBox"]; ok {
		return box["w"], box["h"]
	}
	// A4 portrait in points
	return 595.28, 841.89
}
