package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/location"
	qr "github.com/Badsnus/campus-hub/pkg/qrcode"
	"github.com/xuri/excelize/v2"
)

type exportRegistrations interface {
	Get(ctx context.Context, eventID, userID string) (*entity.Registration, error)
	GetByEvent(ctx context.Context, eventID string) ([]entity.Registration, error)
}

// ExportService builds files derived from registrations: the organizer's
// attendee sheet and the attendee's ticket QR.
type ExportService struct {
	registrations exportRegistrations
	events        eventGetter
	ticket        qr.Config
}

func NewExportService(registrations exportRegistrations, events eventGetter, ticket qr.Config) *ExportService {
	return &ExportService{
		registrations: registrations,
		events:        events,
		ticket:        ticket,
	}
}

// Registrations returns an XLSX sheet with every registration of the event.
func (s *ExportService) Registrations(ctx context.Context, session dto.Session, eventID string) (*bytes.Buffer, string, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, "", err
	}
	if !canManage(session, event) {
		return nil, "", errorz.Forbidden
	}
	registrations, err := s.registrations.GetByEvent(ctx, eventID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"Full name", "Email", "Roll number", "Branch", "Section", "Registered at"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, r := range registrations {
		row := strconv.Itoa(i + 2)
		_ = f.SetCellValue(sheet, "A"+row, r.FullName)
		_ = f.SetCellValue(sheet, "B"+row, r.Email)
		_ = f.SetCellValue(sheet, "C"+row, r.RollNumber)
		_ = f.SetCellValue(sheet, "D"+row, r.Branch)
		_ = f.SetCellValue(sheet, "E"+row, r.Section)
		_ = f.SetCellValue(sheet, "F"+row, r.RegisteredAt.In(location.Location()).Format("2006-01-02 15:04"))
	}

	var buf bytes.Buffer
	if err = f.Write(&buf); err != nil {
		return nil, "", err
	}
	return &buf, fmt.Sprintf("registrations_%s.xlsx", eventID), nil
}

// Ticket renders the QR code of the caller's registration for the event.
func (s *ExportService) Ticket(ctx context.Context, session dto.Session, eventID string) ([]byte, error) {
	registration, err := s.registrations.Get(ctx, eventID, session.UserID)
	if err != nil {
		return nil, err
	}
	cfg := s.ticket
	cfg.Content = fmt.Sprintf("campushub:registration:%s", registration.ID)
	return cfg.Generate()
}
