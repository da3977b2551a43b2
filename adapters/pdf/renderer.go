package pdf

import (
	"fmt"
	"log"
	"time"

	"docugen/domain/docs"
	"docugen/ports"

	"github.com/go-pdf/fpdf"
)

// Renderer writes employee information sheets as PDF documents.
//
// Page layout: optional logo in the top-left corner, a centered title line,
// a "Personal Details" style section heading, then one label/value line per
// employee detail with a fixed-width bold label column.
type Renderer struct{}

// NewRenderer creates a PDF document renderer
func NewRenderer() ports.DocumentRenderer {
	return &Renderer{}
}

// Kind reports the document kind this renderer produces
func (r *Renderer) Kind() docs.Kind {
	return docs.KindPDF
}

// Render composes the employee sheet and writes it to req.OutputPath
func (r *Renderer) Render(req docs.RenderRequest) error {
	startTime := time.Now()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if req.Logo != nil {
		pdf.ImageOptions(req.Logo.Path, 10, 8, req.Layout.PDFLogoWidthMM, 0, false,
			fpdf.ImageOptions{ReadDpi: true}, 0, "")
		advance := 30.0
		if req.Logo.Width > 0 {
			if h := req.Layout.PDFLogoWidthMM * float64(req.Logo.Height) / float64(req.Logo.Width); h > advance {
				advance = h
			}
		}
		pdf.Ln(advance)
	}

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, tr(req.Layout.Title(req.Employee.CompanyName)), "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, tr(req.Layout.SectionHeading), "", 1, "L", false, 0, "")

	for _, detail := range req.Employee.Details() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(40, 10, tr(detail.Label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(0, 10, tr(detail.Value), "", 1, "L", false, 0, "")
	}

	if req.Layout.FooterNote != "" {
		pdf.SetY(-20)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, tr(req.Layout.FooterNote), "", 0, "C", false, 0, "")
	}

	if pdf.Err() {
		return fmt.Errorf("failed to compose PDF for %s: %w", req.Employee.Name, pdf.Error())
	}
	if err := pdf.OutputFileAndClose(req.OutputPath); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	log.Printf("[PDFRenderer] %s written in %.2fms", req.OutputPath,
		float64(time.Since(startTime).Nanoseconds())/1e6)
	return nil
}
