// Package render turns a prescription into a printable document and keeps
// the generated files on disk.
package render

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

// Party is a person named on a document.
type Party struct {
	Name   string
	Email  string
	Phone  string
	Gender string
}

// Line is one prescribed medicine.
type Line struct {
	Name         string
	Dosage       string
	Duration     int
	Instructions string
	Qty          int
}

// Document is everything printed on a prescription.
type Document struct {
	PrescriptionID string
	IssuedAt       time.Time
	Patient        Party
	Doctor         Party
	Diagnosis      string
	Lines          []Line
}

// Renderer produces the binary artifact for a document.
type Renderer interface {
	Render(doc Document) ([]byte, error)
}

// PDFRenderer lays out an A4 prescription.
type PDFRenderer struct {
	clinic string
}

func NewPDFRenderer(clinicName string) *PDFRenderer {
	return &PDFRenderer{clinic: clinicName}
}

var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 10, "C"},
	{"Medicine", 55, "L"},
	{"Dosage", 30, "L"},
	{"Days", 15, "C"},
	{"Instructions", 60, "L"},
	{"Qty", 15, "C"},
}

func (r *PDFRenderer) Render(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Prescription "+doc.PrescriptionID, true)
	pdf.SetMargins(12, 15, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(r.clinic), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Prescription", "B", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	half := 93.0
	pdf.CellFormat(half, 6, tr("Patient: "+doc.Patient.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 6, tr("Doctor: "+doc.Doctor.Name), "", 1, "R", false, 0, "")
	if doc.Patient.Phone != "" || doc.Patient.Gender != "" {
		pdf.CellFormat(half, 6, tr(joinNonEmpty(doc.Patient.Gender, doc.Patient.Phone)), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(half, 6, "Date: "+doc.IssuedAt.Format("02 Jan 2006"), "", 0, "L", false, 0, "")
	pdf.CellFormat(half, 6, "Ref: "+doc.PrescriptionID, "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "Diagnosis", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(doc.Diagnosis), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 240, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for i, l := range doc.Lines {
		cells := []string{
			strconv.Itoa(i + 1),
			tr(l.Name),
			tr(l.Dosage),
			strconv.Itoa(l.Duration),
			tr(l.Instructions),
			strconv.Itoa(l.Qty),
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, 7, fit(pdf, cells[j], c.width-2), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 6, tr(doc.Doctor.Name), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render prescription %s: %w", doc.PrescriptionID, err)
	}
	return buf.Bytes(), nil
}

// fit truncates s with an ellipsis until it fits width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " | "
		}
		out += p
	}
	return out
}
