// Package booking holds the seat-reservation core: the transactional logic
// that decides, under arbitrary request interleaving, whether a booking or
// cancellation succeeds. It is transport-agnostic; callers pass explicit user
// ids rather than any ambient session.
package booking

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/screenpass/screenpass/internal/domain"
)

type Service struct {
	shows    domain.ShowRepository
	bookings domain.BookingRepository
	logger   *slog.Logger
}

func NewService(shows domain.ShowRepository, bookings domain.BookingRepository, logger *slog.Logger) *Service {
	return &Service{
		shows:    shows,
		bookings: bookings,
		logger:   logger,
	}
}

// Book reserves seatNumber on the given show for userID. At most one caller
// can win a given (show, seat); the losers get ErrSeatAlreadyBooked. The
// pre-check below is an optimization only: the ledger's uniqueness constraint
// is the authoritative signal, so a conflict that slips past the read still
// comes back as ErrSeatAlreadyBooked, never as a storage fault.
func (s *Service) Book(ctx context.Context, showID, seatNumber, userID int) (*domain.Booking, error) {
	show, err := s.shows.GetById(ctx, showID)
	if err != nil {
		return nil, err
	}

	if seatNumber < 1 || seatNumber > show.TotalSeats {
		return nil, domain.ErrInvalidSeatNumber
	}

	_, err = s.bookings.GetActiveByShowAndSeat(ctx, showID, seatNumber)
	if err == nil {
		return nil, domain.ErrSeatAlreadyBooked
	}
	if !errors.Is(err, domain.ErrRecordNotFound) {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:  uuid.NewString(),
		ShowID:     showID,
		SeatNumber: seatNumber,
		UserID:     userID,
	}

	err = s.bookings.Create(ctx, booking)
	if err != nil {
		if errors.Is(err, domain.ErrSeatAlreadyBooked) {
			s.logger.Info("booking lost seat race", "show_id", showID, "seat_number", seatNumber)
		}

		return nil, err
	}

	return booking, nil
}

// Cancel transitions the booking to 'cancelled'. Only the owner may cancel;
// for everyone else the booking's existence is revealed but the action is
// forbidden. Cancelled is terminal, so a double cancel fails with
// ErrBookingAlreadyCancelled.
func (s *Service) Cancel(ctx context.Context, bookingID, callerID int) error {
	booking, err := s.bookings.GetById(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.UserID != callerID {
		return domain.ErrBookingNotOwned
	}

	_, err = s.bookings.CancelById(ctx, bookingID)

	return err
}

// ListMine returns the caller's active bookings, newest first. Cancelled
// bookings are history and never listed.
func (s *Service) ListMine(ctx context.Context, userID int) ([]domain.Booking, error) {
	return s.bookings.GetActiveByUserId(ctx, userID)
}
