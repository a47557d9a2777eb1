package pdf

import (
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/text/unicode/norm"

	"todiem/internal/types"
)

// defaultPageHeight is assumed when a page carries no resolvable MediaBox.
const defaultPageHeight = 842.0

// PageCount returns the number of pages in the document.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, types.NewAppError(types.ErrSourceNotFound, "cannot read PDF: "+path, err)
	}
	return n, nil
}

// ExtractPages reads every page's word stream with positions. Pages that
// yield no text are still present (empty word list) so page numbering
// stays contiguous with the source document.
func ExtractPages(path string) ([]Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrSourceNotFound, "cannot open PDF: "+path, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]Page, 0, total)

	for pageNum := 1; pageNum <= total; pageNum++ {
		p := r.Page(pageNum)
		page := Page{Number: pageNum, Height: pageHeight(p)}

		if !p.V.IsNull() {
			rows, err := p.GetTextByRow()
			if err == nil {
				for _, row := range rows {
					page.Words = append(page.Words, buildWords(row.Content, page.Height)...)
				}
			}
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// ExtractText returns the document's full plain text, NFC-normalized for
// Vietnamese keyword matching.
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", types.NewAppError(types.ErrClassificationRead, "cannot open PDF: "+path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		p := r.Page(pageNum)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
	}

	return norm.NFC.String(sb.String()), nil
}

// buildWords assembles one row's text fragments into whitespace-delimited
// words. Extraction often yields one fragment per glyph, so adjacent
// fragments are joined unless separated by a horizontal gap wider than a
// third of the font size.
func buildWords(fragments []pdf.Text, height float64) []Word {
	var words []Word
	var cur strings.Builder
	var start, end, fontSize, y float64

	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			words = append(words, Word{
				Text:     norm.NFC.String(text),
				X:        start,
				Top:      height - y,
				FontSize: fontSize,
			})
		}
		cur.Reset()
	}

	for _, frag := range fragments {
		if strings.TrimSpace(frag.S) == "" {
			flush()
			continue
		}

		gap := frag.FontSize / 3
		if gap < 1 {
			gap = 1
		}
		if cur.Len() > 0 && frag.X > end+gap {
			flush()
		}
		if cur.Len() == 0 {
			start = frag.X
			fontSize = frag.FontSize
			y = frag.Y
		}
		cur.WriteString(frag.S)
		end = frag.X + frag.W
	}
	flush()

	return words
}

// pageHeight resolves the page's MediaBox height, walking up the page
// tree for inherited attributes.
func pageHeight(p pdf.Page) float64 {
	v := p.V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			return mb.Index(3).Float64() - mb.Index(1).Float64()
		}
		v = v.Key("Parent")
	}
	return defaultPageHeight
}
