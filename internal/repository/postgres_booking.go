package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/screenpass/screenpass/internal/domain"
)

// activeSeatIndex is the partial unique index over (show_id, seat_number)
// restricted to status = 'booked'. It is the real safety net for concurrent
// bookings: two transactions that both pass the pre-check cannot both commit.
const activeSeatIndex = "bookings_one_active_per_seat"

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		// Lock the active row for this seat if one exists. Finding it here
		// reports the conflict without burning an insert; when two callers
		// race past this check the index below decides.
		query := `
			SELECT id
			FROM bookings
			WHERE show_id = $1 AND seat_number = $2 AND status = 'booked'
			FOR UPDATE
		`

		var existingId int

		err := tx.QueryRow(ctx, query, booking.ShowID, booking.SeatNumber).Scan(&existingId)
		if err == nil {
			return domain.ErrSeatAlreadyBooked
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		query = `
			INSERT INTO bookings (reference, show_id, seat_number, user_id, status)
			VALUES ($1, $2, $3, $4, 'booked')
			RETURNING id, status, created_at
		`

		err = tx.QueryRow(
			ctx,
			query,
			booking.Reference,
			booking.ShowID,
			booking.SeatNumber,
			booking.UserID).Scan(&booking.ID, &booking.Status, &booking.CreatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == activeSeatIndex {
				return domain.ErrSeatAlreadyBooked
			}

			return err
		}

		return nil
	})
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, reference, show_id, seat_number, user_id, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ShowID,
		&booking.SeatNumber,
		&booking.UserID,
		&booking.Status,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetActiveByShowAndSeat(
	ctx context.Context,
	showID,
	seatNumber int) (*domain.Booking, error) {

	query := `
		SELECT id, reference, show_id, seat_number, user_id, status, created_at
		FROM bookings
		WHERE show_id = $1 AND seat_number = $2 AND status = 'booked'
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, showID, seatNumber).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.ShowID,
		&booking.SeatNumber,
		&booking.UserID,
		&booking.Status,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetActiveByUserId(ctx context.Context, userID int) ([]domain.Booking, error) {
	query := `
		SELECT id, reference, show_id, seat_number, user_id, status, created_at
		FROM bookings
		WHERE user_id = $1 AND status = 'booked'
		ORDER BY created_at DESC, id DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)

	for rows.Next() {
		var booking domain.Booking

		err = rows.Scan(
			&booking.ID,
			&booking.Reference,
			&booking.ShowID,
			&booking.SeatNumber,
			&booking.UserID,
			&booking.Status,
			&booking.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		bookings = append(bookings, booking)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (p *PostgresBookingRepository) CancelById(ctx context.Context, id int) (*domain.Booking, error) {
	var booking domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET status = 'cancelled'
			WHERE id = $1 AND status = 'booked'
			RETURNING id, reference, show_id, seat_number, user_id, status, created_at
		`

		err := tx.QueryRow(ctx, query, id).Scan(
			&booking.ID,
			&booking.Reference,
			&booking.ShowID,
			&booking.SeatNumber,
			&booking.UserID,
			&booking.Status,
			&booking.CreatedAt,
		)

		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		// The guarded update matched nothing: either the booking does not
		// exist or it is already terminal.
		var status domain.BookingStatus

		err = tx.QueryRow(ctx, `SELECT status FROM bookings WHERE id = $1`, id).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		return domain.ErrBookingAlreadyCancelled
	})

	if err != nil {
		return nil, err
	}

	return &booking, nil
}
