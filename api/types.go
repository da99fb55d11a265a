// Package api defines the request and response shapes of the HTTP surface.
package api

import "time"

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type AckResponse struct {
	Message string `json:"message"`
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type Movie struct {
	Id              int    `json:"id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"durationMinutes"`
}

type MovieListResponse struct {
	Movies []Movie `json:"movies"`
}

type Show struct {
	Id         int       `json:"id"`
	MovieId    int       `json:"movieId"`
	ScreenName string    `json:"screenName"`
	StartsAt   time.Time `json:"startsAt"`
	TotalSeats int       `json:"totalSeats"`
}

type ShowListResponse struct {
	Shows []Show `json:"shows"`
}

type CreateBookingRequest struct {
	SeatNumber int `json:"seatNumber" validate:"required,min=1"`
}

type Booking struct {
	Id         int       `json:"id"`
	Reference  string    `json:"reference"`
	ShowId     int       `json:"showId"`
	SeatNumber int       `json:"seatNumber"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type BookingResponse struct {
	Booking Booking `json:"booking"`
}

type BookingListResponse struct {
	Bookings []Booking `json:"bookings"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
