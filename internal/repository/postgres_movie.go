package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/screenpass/screenpass/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]domain.Movie, error) {
	query := `
		SELECT id, title, duration_minutes, created_at
		FROM movies
		ORDER BY title
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)

	for rows.Next() {
		var movie domain.Movie

		err = rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.DurationMinutes,
			&movie.CreatedAt,
		)

		if err != nil {
			return nil, err
		}

		movies = append(movies, movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}
