package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"salonops-backend/internal/ports"
	"salonops-backend/internal/service"
)

// ReportHandler exports day-book style spreadsheets for appointments, sales
// and expenses over a date range.
type ReportHandler struct {
	Schedule service.ScheduleService
	Sales    service.SaleService
	Expenses service.ExpenseService
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/appointments/export", h.exportAppointments)
	r.Get("/reports/sales/export", h.exportSales)
	r.Get("/reports/expenses/export", h.exportExpenses)
}

func (h ReportHandler) exportAppointments(w http.ResponseWriter, r *http.Request) {
	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}
	items, err := h.Schedule.Filter(r.Context(), ports.AppointmentFilter{From: from, To: to})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	header := []string{"ID", "Start", "End", "Status", "Employee ID", "Client ID", "Total", "Comment"}
	rows := make([][]any, 0, len(items))
	for _, a := range items {
		rows = append(rows, []any{
			a.ID,
			a.Start.Format("2006-01-02 15:04"),
			a.End.Format("2006-01-02 15:04"),
			string(a.Status),
			a.EmployeeID,
			a.ClientID,
			a.Total,
			a.Comment,
		})
	}
	writeExport(w, r, "appointments", "Appointments", header, rows, from, to)
}

func (h ReportHandler) exportSales(w http.ResponseWriter, r *http.Request) {
	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}
	items, err := h.Sales.Filter(r.Context(), ports.SaleFilter{From: from, To: to})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	header := []string{"ID", "Code", "Date", "Employee ID", "Client ID", "Appointment ID", "Total", "Comment"}
	rows := make([][]any, 0, len(items))
	for _, s := range items {
		var appointmentID any
		if s.AppointmentID != nil {
			appointmentID = *s.AppointmentID
		}
		rows = append(rows, []any{
			s.ID,
			s.Code,
			s.Date.Format("2006-01-02 15:04"),
			s.EmployeeID,
			s.ClientID,
			appointmentID,
			s.Total,
			s.Comment,
		})
	}
	writeExport(w, r, "sales", "Sales", header, rows, from, to)
}

func (h ReportHandler) exportExpenses(w http.ResponseWriter, r *http.Request) {
	from, to, ok := reportRange(w, r)
	if !ok {
		return
	}
	f := ports.ExpenseFilter{}
	if from != nil {
		f.From = *from
	}
	if to != nil {
		f.To = to.Add(24*time.Hour - time.Second)
	}
	items, err := h.Expenses.Filter(r.Context(), f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	header := []string{"ID", "Kind", "Date", "Total", "Label", "Supplier ID", "Employee ID", "Comment"}
	rows := make([][]any, 0, len(items))
	for _, e := range items {
		rows = append(rows, []any{
			e.ID,
			string(e.Kind),
			e.Date.Format("2006-01-02"),
			e.Total,
			e.Label,
			derefInt64(e.SupplierID),
			derefInt64(e.EmployeeID),
			e.Comment,
		})
	}
	writeExport(w, r, "expenses", "Expenses", header, rows, from, to)
}

func reportRange(w http.ResponseWriter, r *http.Request) (*time.Time, *time.Time, bool) {
	from, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return nil, nil, false
	}
	to, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return nil, nil, false
	}
	if from == nil || to == nil {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return nil, nil, false
	}
	if from.After(*to) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return nil, nil, false
	}
	return from, to, true
}

func writeExport(w http.ResponseWriter, r *http.Request, name, sheet string, header []string, rows [][]any, from, to *time.Time) {
	filenameSuffix := fmt.Sprintf("%s_%s", from.Format("20060102"), to.Format("20060102"))
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "xlsx"
	}
	switch format {
	case "csv":
		data, err := exportCSV(header, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.csv\"", name, filenameSuffix))
		_, _ = w.Write(data)
	case "xlsx", "excel":
		data, err := exportXLSX(sheet, header, rows)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.xlsx\"", name, filenameSuffix))
		_, _ = w.Write(data)
	default:
		writeError(w, http.StatusBadRequest, "invalid format (use csv or xlsx)")
	}
}

func exportCSV(header []string, rows [][]any) ([]byte, error) {
	buf := new(bytes.Buffer)
	cw := csv.NewWriter(buf)
	_ = cw.Write(header)
	for _, row := range rows {
		record := make([]string, 0, len(row))
		for _, v := range row {
			record = append(record, csvCell(v))
		}
		_ = cw.Write(record)
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

func csvCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', 2, 64)
	default:
		return fmt.Sprint(val)
	}
}

func exportXLSX(sheet string, header []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(sheet, "A1", last, style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func derefInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
