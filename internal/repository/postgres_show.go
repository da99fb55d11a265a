package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/screenpass/screenpass/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetById(ctx context.Context, id int) (*domain.Show, error) {
	query := `
		SELECT id, movie_id, screen_name, starts_at, total_seats
		FROM shows
		WHERE id = $1
	`

	var show domain.Show

	err := p.db.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.MovieID,
		&show.ScreenName,
		&show.StartsAt,
		&show.TotalSeats,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &show, nil
}

func (p *PostgresShowRepository) GetAllByMovieId(ctx context.Context, movieID int) ([]domain.Show, error) {
	query := `
		SELECT id, movie_id, screen_name, starts_at, total_seats
		FROM shows
		WHERE movie_id = $1
		ORDER BY starts_at
	`

	rows, err := p.db.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]domain.Show, 0)

	for rows.Next() {
		var show domain.Show

		err = rows.Scan(
			&show.ID,
			&show.MovieID,
			&show.ScreenName,
			&show.StartsAt,
			&show.TotalSeats,
		)

		if err != nil {
			return nil, err
		}

		shows = append(shows, show)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return shows, nil
}
