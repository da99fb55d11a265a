package app

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/screenpass/screenpass/api"
	"github.com/screenpass/screenpass/internal/domain"
)

const ErrInvalidCredentials = "Invalid username or password"

func (app *Application) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var input api.SignupRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user := domain.User{
		Username: input.Username,
		Email:    input.Email,
	}

	err = user.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.userRepo.Create(r.Context(), &user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			// do not reveal which field collided to avoid user enumeration
			app.logger.Warn("signup attempt for existing account")
			app.badRequestResponse(w, r, fmt.Errorf("invalid input data"))
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.UserResponse{
		Id:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	user, err := app.userRepo.GetByUsername(r.Context(), input.Username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	matches, err := user.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !matches {
		app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, expiresAt, err := app.newAccessToken(user.ID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) newAccessToken(userID int) (string, time.Time, error) {
	expiresAt := time.Now().Add(app.config.JWT.TTL)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		Issuer:    "screenpass",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(app.config.JWT.Secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (app *Application) parseAccessToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return []byte(app.config.JWT.Secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("screenpass"))

	if err != nil {
		return 0, err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}

	userID, err := strconv.Atoi(subject)
	if err != nil {
		return 0, fmt.Errorf("invalid subject claim: %w", err)
	}

	return userID, nil
}
