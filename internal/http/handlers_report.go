package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"expensetracker/internal/auth"
	"expensetracker/internal/core"
	"expensetracker/internal/expenses"
	"expensetracker/internal/log"
	"expensetracker/internal/report"
)

type exportFormat struct {
	name        string
	filename    string
	contentType string
	write       func(io.Writer, report.Report) error
}

var (
	csvExport = exportFormat{"csv", report.CSVFilename, report.ContentTypeCSV, report.WriteCSV}
	pdfExport = exportFormat{"pdf", report.PDFFilename, report.ContentTypePDF, report.WritePDF}
)

// handleExport renders the active range as a download. The report is built
// in memory first so a rendering failure still yields a clean 500.
func handleExport(f exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		st := expenses.MustFromContext(ctx).State()

		var user *core.User
		if u, ok := auth.MustFromContext(ctx).CurrentUser(); ok {
			user = &u
		}
		rep := report.Build(st.Expenses, st.DateRange, user)

		logger := log.FromContext(ctx).WithComponent(log.ComponentReport)
		var buf bytes.Buffer
		if err := f.write(&buf, rep); err != nil {
			logger.ErrorContext(ctx, "Export failed", log.FieldFormat, f.name, log.FieldError, err.Error())
			InternalServerError("failed to render report").Write(w)
			return
		}
		fields := log.NewFields().
			WithOperation(log.OpExport).
			WithRange(rep.Range.StartDate.String(), rep.Range.EndDate.String())
		fields[log.FieldFormat] = f.name
		logger.InfoContext(ctx, "Report exported", fields.ToSlice()...)

		w.Header().Set("Content-Type", f.contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.filename))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}
