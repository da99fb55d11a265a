package app

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/screenpass/screenpass/api"
	"github.com/screenpass/screenpass/internal/booking"
	"github.com/screenpass/screenpass/internal/mocks"
	"github.com/screenpass/screenpass/internal/validator"
)

func newTestApplication(opts ...func(*Application)) *Application {
	app := &Application{
		config: Config{
			Env: "test",
			JWT: JWTConfig{Secret: "test-secret", TTL: time.Hour},
		},
		validator:   validator.NewValidator(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		userRepo:    &mocks.MockUserRepo{},
		movieRepo:   &mocks.MockMovieRepo{},
		showRepo:    &mocks.MockShowRepo{},
		bookingRepo: &mocks.MockBookingRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	app.bookings = booking.NewService(app.showRepo, app.bookingRepo, app.logger)

	return app
}

func (app *Application) authHeader(t *testing.T, userID int) map[string]string {
	t.Helper()

	token, _, err := app.newAccessToken(userID)
	if err != nil {
		t.Fatal(err)
	}

	return map[string]string{"Authorization": "Bearer " + token}
}

func executeRequest(t *testing.T, app *Application, method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(jsonData)
	}

	r := httptest.NewRequest(method, url, reader)
	r.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	app.Routes().ServeHTTP(w, r)

	return w
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantErrMessage string) {
	t.Helper()

	if wantStatus >= 200 && wantStatus < 300 {
		return
	}

	body := w.Body.Bytes()

	var validationResp api.ValidationErrorResponse
	if err := json.Unmarshal(body, &validationResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}

	if len(validationResp.ValidationErrors) > 0 {
		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if wantErrMessage != "" && !errorSet[wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", wantErrMessage)
		}

		return
	}

	if wantErrMessage != "" && validationResp.Message != wantErrMessage {
		t.Errorf("Error message = %v, want %v", validationResp.Message, wantErrMessage)
	}
}

func ptr[T any](v T) *T {
	return &v
}
