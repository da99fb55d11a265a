package domain

import "errors"

var (
	ErrRecordNotFound          = errors.New("record not found")
	ErrUserAlreadyExists       = errors.New("user already exists")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidSeatNumber       = errors.New("seat number is out of range for this show")
	ErrSeatAlreadyBooked       = errors.New("seat is already booked for this show")
	ErrBookingNotOwned         = errors.New("booking belongs to another user")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")
)
