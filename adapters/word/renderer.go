package word

import (
	"fmt"
	"log"
	"time"

	"docugen/domain/docs"
	"docugen/ports"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/common/units"
)

// Renderer writes employee information sheets as Word documents.
//
// Document structure: optional logo picture, a title heading, a section
// heading, then one paragraph per employee detail with a bold label run
// followed by the value run.
type Renderer struct{}

// NewRenderer creates a Word document renderer
func NewRenderer() ports.DocumentRenderer {
	return &Renderer{}
}

// Kind reports the document kind this renderer produces
func (r *Renderer) Kind() docs.Kind {
	return docs.KindWord
}

// Render composes the employee sheet and writes it to req.OutputPath
func (r *Renderer) Render(req docs.RenderRequest) error {
	startTime := time.Now()

	document, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("failed to create Word document: %w", err)
	}

	if req.Logo != nil {
		width := req.Layout.WordLogoWidthInches
		height := req.Logo.AspectHeightInches(width)
		if _, err := document.AddPicture(req.Logo.Path, units.Inch(width), units.Inch(height)); err != nil {
			return fmt.Errorf("failed to embed logo: %w", err)
		}
	}

	if _, err := document.AddHeading(req.Layout.Title(req.Employee.CompanyName), 0); err != nil {
		return fmt.Errorf("failed to add title heading: %w", err)
	}
	if _, err := document.AddHeading(req.Layout.SectionHeading, 1); err != nil {
		return fmt.Errorf("failed to add section heading: %w", err)
	}

	for _, detail := range req.Employee.Details() {
		p := document.AddParagraph("")
		label := p.AddText(detail.Label + ": ")
		label.Bold(true)
		p.AddText(detail.Value)
	}

	if req.Layout.FooterNote != "" {
		p := document.AddParagraph("")
		note := p.AddText(req.Layout.FooterNote)
		note.Italic(true)
	}

	if err := document.SaveTo(req.OutputPath); err != nil {
		return fmt.Errorf("failed to write Word document: %w", err)
	}

	log.Printf("[WordRenderer] %s written in %.2fms", req.OutputPath,
		float64(time.Since(startTime).Nanoseconds())/1e6)
	return nil
}
