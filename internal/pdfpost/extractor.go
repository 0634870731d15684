package pdfpost

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/thaigeo/postal/internal/observability"
)

// defaultPageWidth stands in when a page carries no resolvable MediaBox.
const defaultPageWidth = 1684

// PageHook is called once per processed page, for progress reporting.
type PageHook func(page, total int)

// Extractor reads the postal-code PDF and produces collector records.
type Extractor struct {
	cfg    LayoutConfig
	logger *observability.Logger
}

// NewExtractor creates an extractor with the given layout configuration.
func NewExtractor(cfg LayoutConfig, logger *observability.Logger) *Extractor {
	return &Extractor{cfg: cfg, logger: logger.WithComponent("pdfpost")}
}

// ExtractFile extracts records from a PDF on disk.
func (e *Extractor) ExtractFile(path string, hook PageHook) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	reader, err := pdf.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	return e.extract(reader, hook)
}

func (e *Extractor) extract(reader *pdf.Reader, hook PageHook) ([]Record, error) {
	total := reader.NumPage()
	e.logger.Info().Int("pages", total).Msg("extracting positioned text")

	var tokens []Token
	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		frags := pageFragments(page)
		tokens = append(tokens, ClassifyPage(e.cfg, pageNum, pageWidth(page), frags)...)

		if hook != nil {
			hook(pageNum, total)
		}
	}

	SortTokens(e.cfg, tokens)

	collector := NewCollector()
	for _, tok := range tokens {
		collector.Collect(tok)
	}

	records := collector.Records()
	e.logger.Info().Int("tokens", len(tokens)).Int("records", len(records)).Msg("collected postal-code records")
	return records, nil
}

func pageFragments(page pdf.Page) []Fragment {
	content := page.Content()
	frags := make([]Fragment, 0, len(content.Text))
	for _, text := range content.Text {
		frags = append(frags, Fragment{
			Text:   text.S,
			X:      text.X,
			Y:      text.Y,
			Width:  text.W,
			Height: text.FontSize,
			Font:   text.Font,
		})
	}
	return frags
}

// pageWidth resolves the page's MediaBox width, walking the Parent chain
// because MediaBox is an inheritable page attribute.
func pageWidth(page pdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if w := box.Index(2).Float64() - box.Index(0).Float64(); w > 0 {
				return w
			}
		}
	}
	return defaultPageWidth
}
