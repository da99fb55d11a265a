package domain

import (
	"context"
	"time"
)

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a claim on one seat of one show by one user. Rows are never
// deleted; cancellation flips the status and a later rebooking of the same
// seat inserts a fresh row.
type Booking struct {
	ID         int
	Reference  string
	ShowID     int
	SeatNumber int
	UserID     int
	Status     BookingStatus
	CreatedAt  time.Time
}

// BookingRepository is the ledger of bookings. The storage layer owns the
// uniqueness invariant: at most one booking per (show, seat) may hold status
// 'booked' at any time, enforced by a partial unique index so that cancelled
// rows never block rebooking.
type BookingRepository interface {
	// Create inserts a new active booking. It runs the check-and-insert as a
	// single transaction and returns ErrSeatAlreadyBooked when the seat holds
	// an active booking, whether found by the check or by the constraint.
	Create(ctx context.Context, booking *Booking) error

	GetById(ctx context.Context, id int) (*Booking, error)

	// GetActiveByShowAndSeat returns the current 'booked' row for the seat,
	// or ErrRecordNotFound.
	GetActiveByShowAndSeat(ctx context.Context, showID, seatNumber int) (*Booking, error)

	// GetActiveByUserId returns the user's active bookings, newest first.
	GetActiveByUserId(ctx context.Context, userID int) ([]Booking, error)

	// CancelById transitions a booking from 'booked' to 'cancelled'. It
	// returns ErrBookingAlreadyCancelled when the booking is already terminal
	// and ErrRecordNotFound when no such booking exists.
	CancelById(ctx context.Context, id int) (*Booking, error)
}
