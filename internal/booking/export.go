package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Booking ID", "Spot", "Customer", "Phone", "Vehicle No.", "Vehicle Type",
	"Start Time", "Hours", "Amount", "Payment Method", "Payment Status", "Status",
}

// Export renders all bookings starting within [from, to] as an XLSX sheet.
func (s *service) Export(ctx context.Context, from, to time.Time) ([]byte, error) {
	bookings, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load bookings for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create export sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheet, "A1", fmt.Sprintf("Bookings %s - %s",
		from.Format("2006-01-02"), to.Format("2006-01-02")))
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.MergeCell(sheet, "A1", lastCol+"1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A2", lastCol+"2", headerStyle)

	for rowIdx, b := range bookings {
		row := rowIdx + 3
		values := []any{
			b.ID, b.SpotName, b.CustomerName, b.CustomerPhone,
			b.VehicleNumber, string(b.VehicleType),
			b.StartTime.Format(time.RFC3339), b.DurationHours, b.Amount,
			string(b.PaymentMethod), string(b.PaymentStatus), string(b.Status),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", lastCol, 20)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write export file: %w", err)
	}
	return buf.Bytes(), nil
}
