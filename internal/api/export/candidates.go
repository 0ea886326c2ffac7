package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the candidate rows
const SheetName = "Candidates"

// ContentType is the MIME type of the generated workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{
	"Submitted At",
	"Name",
	"Email",
	"Phone",
	"Region",
	"Area",
	"Seniority",
	"Status",
	"Job",
	"Experience",
	"Resume",
}

// CandidatesXLSX renders candidates into an XLSX workbook. Pool
// registrations have an empty Job column.
func CandidatesXLSX(rows []model.CandidateExportRow, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, r := range rows {
		line := i + 2
		values := []any{
			r.CreatedAt.UTC().Format("2006-01-02 15:04"),
			r.Name,
			r.Email,
			r.Phone,
			r.Region,
			r.Category,
			r.Seniority,
			r.Status,
			r.JobTitle.String,
			truncate(r.Experience, 500),
			r.ResumeURL,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, line)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", line, err)
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 18)
	_ = f.SetColWidth(SheetName, "B", "C", 30)
	_ = f.SetColWidth(SheetName, "D", "D", 18)
	_ = f.SetColWidth(SheetName, "E", "I", 20)
	_ = f.SetColWidth(SheetName, "J", "J", 48)
	_ = f.SetColWidth(SheetName, "K", "K", 40)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	logger.Info("Candidate export generated",
		slog.Int("rows", len(rows)),
		slog.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
