package app

import (
	"net/http"

	"github.com/screenpass/screenpass/api"
	"github.com/screenpass/screenpass/internal/domain"
)

func (app *Application) ListMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.MovieListResponse{
		Movies: toApiMovies(movies),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListShowsByMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	shows, err := app.showRepo.GetAllByMovieId(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowListResponse{
		Shows: toApiShows(shows),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiMovies(movies []domain.Movie) []api.Movie {
	apiMovies := make([]api.Movie, len(movies))

	for i, v := range movies {
		apiMovies[i] = api.Movie{
			Id:              v.ID,
			Title:           v.Title,
			DurationMinutes: v.DurationMinutes,
		}
	}

	return apiMovies
}

func toApiShows(shows []domain.Show) []api.Show {
	apiShows := make([]api.Show, len(shows))

	for i, v := range shows {
		apiShows[i] = api.Show{
			Id:         v.ID,
			MovieId:    v.MovieID,
			ScreenName: v.ScreenName,
			StartsAt:   v.StartsAt,
			TotalSeats: v.TotalSeats,
		}
	}

	return apiShows
}
