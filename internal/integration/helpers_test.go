package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/screenpass/screenpass/api"
	"github.com/stretchr/testify/require"
)

func prepareRequest(method, path string, body io.Reader, headers map[string]string) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	t.Helper()

	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indeterministic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		return k == "timestamp" || k == "requestId" || k == "createdAt" || k == "reference"
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func seedCatalog(t testing.TB, app *TestApp) {
	t.Helper()

	ctx := context.Background()

	_, err := app.DB.Exec(ctx, `
		INSERT INTO movies (id, title, duration_minutes)
		VALUES (1, 'Interstellar', 169)`)
	require.NoError(t, err)

	_, err = app.DB.Exec(ctx, `
		INSERT INTO shows (id, movie_id, screen_name, starts_at, total_seats)
		VALUES
			(1, 1, 'Screen A', '2095-01-01T20:00:00Z', 50),
			(2, 1, 'Screen B', '2095-01-01T23:00:00Z', 2)`)
	require.NoError(t, err)
}

func signupAndLogin(t testing.TB, app *TestApp, username string) (int, string) {
	t.Helper()

	routes := app.App.Routes()

	signupBody := fmt.Sprintf(
		`{"username": %q, "email": "%s@example.com", "password": %q}`,
		username, username, TestUserPassword,
	)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(signupBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, "signup failed: %s", rec.Body.String())

	var user api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))

	loginBody := fmt.Sprintf(`{"username": %q, "password": %q}`, username, TestUserPassword)

	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var token api.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	require.NotEmpty(t, token.AccessToken)

	return user.Id, token.AccessToken
}

func bearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func truncateBookings(t testing.TB, app *TestApp) {
	t.Helper()

	_, err := app.DB.Exec(context.Background(), "TRUNCATE bookings RESTART IDENTITY")
	require.NoError(t, err)
}

func insertBooking(t testing.TB, app *TestApp, showID, seatNumber, userID int, status string) int {
	t.Helper()

	var id int
	err := app.DB.QueryRow(context.Background(), `
		INSERT INTO bookings (reference, show_id, seat_number, user_id, status)
		VALUES (gen_random_uuid()::text, $1, $2, $3, $4)
		RETURNING id`,
		showID, seatNumber, userID, status).Scan(&id)
	require.NoError(t, err)

	return id
}

func bookingStatus(t testing.TB, app *TestApp, bookingID int) string {
	t.Helper()

	var status string
	err := app.DB.QueryRow(context.Background(),
		"SELECT status FROM bookings WHERE id = $1", bookingID).Scan(&status)
	require.NoError(t, err)

	return status
}

func activeBookingCount(t testing.TB, app *TestApp, showID, seatNumber int) int {
	t.Helper()

	var count int
	err := app.DB.QueryRow(context.Background(), `
		SELECT count(*) FROM bookings
		WHERE show_id = $1 AND seat_number = $2 AND status = 'booked'`,
		showID, seatNumber).Scan(&count)
	require.NoError(t, err)

	return count
}
