package docs

import (
	"fmt"
	"strings"

	"docugen/domain/core"
	"docugen/domain/roster"
)

// Kind is a concrete output document type
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindWord Kind = "docx"
)

// Ext returns the file extension including the dot
func (k Kind) Ext() string {
	return "." + string(k)
}

// Label returns the user-facing name
func (k Kind) Label() string {
	if k == KindPDF {
		return "PDF"
	}
	return "Word"
}

// Format is the user's output selection on the form or CLI
type Format string

const (
	FormatBoth Format = "both"
	FormatPDF  Format = "pdf"
	FormatWord Format = "word"
)

// ParseFormat parses a form/CLI format value. Empty input selects both.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return FormatBoth, nil
	case "pdf":
		return FormatPDF, nil
	case "word", "docx":
		return FormatWord, nil
	default:
		return "", fmt.Errorf("unknown format %q (use both, pdf, or word)", s)
	}
}

// Kinds expands the selection into the document kinds to render
func (f Format) Kinds() []Kind {
	switch f {
	case FormatPDF:
		return []Kind{KindPDF}
	case FormatWord:
		return []Kind{KindWord}
	default:
		return []Kind{KindPDF, KindWord}
	}
}

// String returns the string representation
func (f Format) String() string {
	return string(f)
}

// Logo is a staged, validated logo image ready for embedding
type Logo struct {
	Path   string // Staged file on disk
	Width  int    // Pixel width
	Height int    // Pixel height
	Format string // "png" or "jpeg"
}

// AspectHeightInches returns the embed height that preserves aspect ratio
// at the given width. Falls back to the width itself for degenerate images.
func (l Logo) AspectHeightInches(widthInches float64) float64 {
	if l.Width <= 0 || l.Height <= 0 {
		return widthInches
	}
	return widthInches * float64(l.Height) / float64(l.Width)
}

// Layout carries the fixed document text and geometry. Defaults match the
// shipped templates; a branding file may override individual fields.
type Layout struct {
	TitleFormat         string  `yaml:"title_format"`
	SectionHeading      string  `yaml:"section_heading"`
	FooterNote          string  `yaml:"footer_note"`
	PDFLogoWidthMM      float64 `yaml:"pdf_logo_width_mm"`
	WordLogoWidthInches float64 `yaml:"word_logo_width_inches"`
}

// DefaultLayout returns the stock template text and geometry
func DefaultLayout() Layout {
	return Layout{
		TitleFormat:         "%s - Employee Information",
		SectionHeading:      "Personal Details",
		PDFLogoWidthMM:      30,
		WordLogoWidthInches: 2.0,
	}
}

// Title renders the document title for a company
func (l Layout) Title(companyName string) string {
	return fmt.Sprintf(l.TitleFormat, companyName)
}

// Validate checks that overridden layout fields are still renderable
func (l Layout) Validate() error {
	if !strings.Contains(l.TitleFormat, "%s") {
		return fmt.Errorf("title_format must contain %%s for the company name")
	}
	if l.PDFLogoWidthMM <= 0 || l.PDFLogoWidthMM > 190 {
		return fmt.Errorf("pdf_logo_width_mm must be within (0, 190], got %v", l.PDFLogoWidthMM)
	}
	if l.WordLogoWidthInches <= 0 || l.WordLogoWidthInches > 7 {
		return fmt.Errorf("word_logo_width_inches must be within (0, 7], got %v", l.WordLogoWidthInches)
	}
	return nil
}

// RenderRequest carries everything a renderer needs for one document
type RenderRequest struct {
	Employee   roster.Employee
	Logo       *Logo // nil when no logo was provided
	Layout     Layout
	OutputPath string
}

// GeneratedFile describes one document written to the output directory
type GeneratedFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
	Size int64  `json:"size"`
}

// unsafe characters stripped from output filenames
const unsafeChars = `/\:*?"<>|`

// BaseName derives the deterministic output filename stem from an
// employee's name and company: spaces become underscores, characters
// that are hostile to filesystems are dropped.
func BaseName(name, companyName string) string {
	base := name + "_" + companyName
	base = strings.ReplaceAll(base, " ", "_")

	var b strings.Builder
	b.Grow(len(base))
	for _, r := range base {
		if r < 0x20 || strings.ContainsRune(unsafeChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	cleaned := strings.Trim(b.String(), "._ ")
	if cleaned == "" {
		return string(core.NewID())[:8]
	}
	return cleaned
}
