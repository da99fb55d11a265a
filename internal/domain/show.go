package domain

import (
	"context"
	"time"
)

// Show is a scheduled screening with a fixed seat capacity. Seats are plain
// numbers in [1, TotalSeats]; there is no seat-map model.
type Show struct {
	ID         int
	MovieID    int
	ScreenName string
	StartsAt   time.Time
	TotalSeats int
}

type ShowRepository interface {
	GetById(ctx context.Context, id int) (*Show, error)
	GetAllByMovieId(ctx context.Context, movieID int) ([]Show, error)
}
