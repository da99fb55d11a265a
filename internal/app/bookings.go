package app

import (
	"errors"
	"net/http"

	"github.com/screenpass/screenpass/api"
	"github.com/screenpass/screenpass/internal/domain"
)

func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CreateBookingRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	userID := app.contextGetUserId(r)

	booking, err := app.bookings.Book(r.Context(), showID, input.SeatNumber, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrInvalidSeatNumber):
			app.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrSeatAlreadyBooked):
			app.conflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.BookingResponse{
		Booking: toApiBooking(*booking),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	callerID := app.contextGetUserId(r)

	err = app.bookings.Cancel(r.Context(), bookingID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrBookingNotOwned):
			app.forbiddenResponse(w, r, errors.New("you can only cancel your own bookings"))
		case errors.Is(err, domain.ErrBookingAlreadyCancelled):
			app.conflictResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.AckResponse{
		Message: "Booking cancelled successfully",
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := app.contextGetUserId(r)

	bookings, err := app.bookings.ListMine(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	apiBookings := make([]api.Booking, len(bookings))
	for i, v := range bookings {
		apiBookings[i] = toApiBooking(v)
	}

	resp := api.BookingListResponse{
		Bookings: apiBookings,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiBooking(booking domain.Booking) api.Booking {
	return api.Booking{
		Id:         booking.ID,
		Reference:  booking.Reference,
		ShowId:     booking.ShowID,
		SeatNumber: booking.SeatNumber,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
	}
}
