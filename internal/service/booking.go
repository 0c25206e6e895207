package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utafrali/RentalGo/internal/domain"
	apperrors "github.com/utafrali/RentalGo/pkg/errors"
	"github.com/utafrali/RentalGo/pkg/validator"
)

// DateLayout is the wire format of the booking form's date inputs.
const DateLayout = "2006-01-02"

// MsgDropBeforePickup is shown when the drop date is not after the pickup date.
const MsgDropBeforePickup = "Drop date must be after pickup date."

// BookingInput holds the fields of the booking form.
type BookingInput struct {
	VehicleID  string `form:"vehicleId"`
	PickupDate string `form:"pickupDate" validate:"required,datetime=2006-01-02"`
	DropDate   string `form:"dropDate" validate:"required,datetime=2006-01-02"`
}

// BookingService confirms simulated bookings. Nothing is reserved or stored.
type BookingService struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewBookingService creates a new booking service.
func NewBookingService(logger *slog.Logger) *BookingService {
	return &BookingService{logger: logger, now: time.Now}
}

// Book checks the dates and issues a booking id. The drop date must fall on a
// later calendar day than the pickup date.
func (s *BookingService) Book(ctx context.Context, in BookingInput) (*domain.Booking, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	pickup, err := time.Parse(DateLayout, in.PickupDate)
	if err != nil {
		return nil, fmt.Errorf("parse pickup date: %w", err)
	}
	drop, err := time.Parse(DateLayout, in.DropDate)
	if err != nil {
		return nil, fmt.Errorf("parse drop date: %w", err)
	}

	if !drop.After(pickup) {
		return nil, apperrors.ValidationFailure(MsgDropBeforePickup)
	}

	booking := &domain.Booking{
		ID:         domain.BookingID(s.now()),
		VehicleID:  in.VehicleID,
		PickupDate: pickup,
		DropDate:   drop,
	}

	s.logger.InfoContext(ctx, "booking confirmed",
		slog.String("booking_id", booking.ID),
		slog.String("vehicle_id", in.VehicleID),
		slog.String("pickup", in.PickupDate),
		slog.String("drop", in.DropDate),
	)

	return booking, nil
}

// ConfirmationMessage is the success text for b.
func ConfirmationMessage(b *domain.Booking) string {
	return "Booking confirmed! ID: " + b.ID
}
