package dataset

import (
	"archive/zip"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/erabu/internal/models"
	"github.com/hyperjump/erabu/pkg/utils"
)

// ParseCorpus converts raw corpus content into unlabeled examples, one per
// sentence, for later annotation.
func ParseCorpus(content []byte, ext string) ([]models.LabeledExample, error) {
	var text string
	var err error
	switch ext {
	case ".txt":
		text = plainText(content)
	case ".pdf":
		text, err = pdfText(content)
	case ".docx":
		text, err = docxText(content)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	var examples []models.LabeledExample
	for _, sentence := range SplitSentences(text) {
		examples = append(examples, models.LabeledExample{Text: sentence})
	}
	return examples, nil
}

// sentenceBoundary splits corpus text on newlines and sentence punctuation.
var sentenceBoundary = regexp.MustCompile(`[.!?\n]+`)

// SplitSentences breaks corpus text into trimmed, non-empty utterances.
func SplitSentences(text string) []string {
	var out []string
	for _, part := range sentenceBoundary.Split(text, -1) {
		s := utils.NormalizeWhitespace(part)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// plainText returns content as a string with invalid UTF-8 sequences
// replaced.
func plainText(content []byte) string {
	if !utf8.Valid(content) {
		return strings.ToValidUTF8(string(content), "�")
	}
	return string(content)
}

func pdfText(content []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrInvalidFile, err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", ErrInvalidFile, i, err)
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}
	return buf.String(), nil
}

// DOCX is a zip whose main document part holds the text in <w:t> nodes. The
// part name comes from [Content_Types].xml when present; real-world files
// occasionally move it, so the conventional path is only a fallback.
const (
	docxDefaultPart = "word/document.xml"
	docxMainType    = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	docxTextNode = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
	// Override attributes appear in either order.
	docxPartRes = []*regexp.Regexp{
		regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainType) + `"`),
		regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainType) + `"[^>]+PartName="([^"]+)"`),
	}
)

func docxText(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: not a docx zip: %v", ErrInvalidFile, err)
	}
	raw, err := zipPart(zr, docxMainPart(zr))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	var b strings.Builder
	for _, m := range docxTextNode.FindAllStringSubmatch(string(raw), -1) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strings.TrimSpace(m[1]))
	}
	return strings.TrimSpace(b.String()), nil
}

func docxMainPart(zr *zip.Reader) string {
	raw, err := zipPart(zr, "[Content_Types].xml")
	if err != nil {
		return docxDefaultPart
	}
	for _, re := range docxPartRes {
		if m := re.FindStringSubmatch(string(raw)); len(m) > 1 {
			return strings.TrimPrefix(m[1], "/")
		}
	}
	return docxDefaultPart
}

func zipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%s not found", name)
}
