package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

// Column widths in mm; they add up to the printable width of A4 portrait
// with 15mm margins.
var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 30, "L"},
	{"Description", 80, "L"},
	{"Category", 40, "L"},
	{"Amount", 30, "R"},
}

const rowHeight = 8.0

// WritePDF renders rep as a one-table PDF document.
func WritePDF(w io.Writer, rep Report) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(title(rep), true)
	pdf.SetCreator("expensetracker", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(title(rep)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 11)
	if rep.User != nil {
		pdf.CellFormat(0, 6, tr("Name: "+rep.User.Name), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr("Email: "+rep.User.Email), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 6, periodLine(rep.Range), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for _, c := range pdfColumns {
			pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, c.align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, e := range rep.Rows {
		if pdf.GetY()+rowHeight > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		cells := []string{
			FormatDate(e.Date),
			tr(truncate(pdf, e.Description, pdfColumns[1].width-2)),
			Capitalize(e.Category.String()),
			FormatUSD(e.Amount),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, rowHeight, cells[i], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	total := []string{"", "", "Total", FormatUSD(rep.Total)}
	for i, c := range pdfColumns {
		pdf.CellFormat(c.width, rowHeight, total[i], "1", 0, c.align, false, 0, "")
	}
	pdf.Ln(-1)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// truncate shortens s with an ellipsis so it fits in width at the current font.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
