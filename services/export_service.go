package services

import (
	"context"
	"fmt"
	"io"

	"hotel-booking/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeader = []interface{}{
	"Booking ID", "Hotel", "Room", "Guest", "Guest Email", "Check-In", "Check-Out",
	"Nights", "Breakfast", "Total", "Currency", "Status", "Payment Intent", "Booked At",
}

// ExportService renders an owner's bookings as an XLSX workbook.
type ExportService struct {
	Bookings *BookingService
}

func NewExportService(bookings *BookingService) *ExportService {
	return &ExportService{Bookings: bookings}
}

func (s *ExportService) WriteOwnerBookings(ctx context.Context, owner models.Identity, w io.Writer) error {
	list, err := s.Bookings.OwnerBookings(ctx, owner)
	if err != nil {
		return err
	}
	f, err := BuildBookingsWorkbook(list)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func BuildBookingsWorkbook(list []models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, b := range list {
		hotel, room := "", ""
		if b.Hotel != nil {
			hotel = b.Hotel.Title
		}
		if b.Room != nil {
			room = b.Room.Title
		}
		breakfast := "No"
		if b.BreakfastIncluded {
			breakfast = "Yes"
		}
		row := []interface{}{
			b.ID, hotel, room, b.UserName, b.UserEmail,
			b.StartDate.Format(models.DateLayout), b.EndDate.Format(models.DateLayout),
			NightCount(b.StartDate, b.EndDate), breakfast, b.TotalPrice, b.Currency,
			b.Status, b.IntentID(), b.BookedAt.Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}
