// PDF renderer.
// Produces a proof sheet of the extracted sessions using gofpdf: one block
// per session with its title, details, time slots, description and image
// links, for reviewing extraction before the email is sent.
// The email layout itself is not reproduced.

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sirwalterjones/sessionmailer2-sub000/core"
)

// PDFRenderer renders a session proof sheet as PDF.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render lays out every session on A4 pages. emailHTML is not used.
func (r *PDFRenderer) Render(_ string, sessions []core.SessionData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, fmt.Sprintf("Email proof: %d session(s)", len(sessions)), "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for i, s := range sessions {
		if i > 0 {
			pdf.Ln(4)
			y := pdf.GetY()
			pdf.SetDrawColor(200, 200, 200)
			pdf.Line(10, y, 200, y)
			pdf.Ln(6)
		}
		renderSession(pdf, tr, s)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

func renderSession(pdf *gofpdf.Fpdf, tr func(string) string, s core.SessionData) {
	renderHeading(pdf, tr(s.Title), 1)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, tr("Source: "+s.URL), "", "L", false)
	pdf.SetTextColor(0, 0, 0)

	if s.Error != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(180, 30, 30)
		pdf.MultiCell(0, 5, tr("Extraction failed: "+s.Error), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(3)

	field(pdf, tr, "Date", s.Date)
	field(pdf, tr, "Location", s.Location)
	field(pdf, tr, "Price", s.Price)

	if len(s.TimeSlots) > 0 {
		renderHeading(pdf, "Time slots", 3)
		pdf.SetFont("Helvetica", "", 10)
		for _, slot := range s.TimeSlots {
			line := "• " + slot.Time
			if slot.BookingURL != "" {
				line += "  " + slot.BookingURL
			}
			pdf.MultiCell(0, 5, tr(line), "", "L", false)
		}
	}

	renderHeading(pdf, "Description", 3)
	pdf.SetFont("Helvetica", "", 10)
	for _, para := range strings.Split(s.Description, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			pdf.MultiCell(0, 5, tr(para), "", "L", false)
			pdf.Ln(2)
		}
	}

	if len(s.Images) > 0 {
		renderHeading(pdf, fmt.Sprintf("Images (%d)", len(s.Images)), 3)
		pdf.SetFont("Courier", "", 8)
		for i, img := range s.Images {
			label := "  "
			if i == 0 {
				label = "* "
			}
			pdf.MultiCell(0, 4, tr(label+img), "", "L", false)
		}
	}
}

func field(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(25, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, tr(value), "", "L", false)
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 12}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}
