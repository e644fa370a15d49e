package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/congregateapp/congregate/tests/integration/setup"
	"github.com/stretchr/testify/require"
)

// TestHealthCheck tests the health check endpoint
func TestHealthCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	infra, err := setup.StartInfra(ctx, t)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = infra.Terminate(ctx, t)
	})

	app, _, _, _ := setup.SetupTestApp(t, infra.PgURL, infra.RedisURL, infra.MinioURL, infra.MailhogSMTP)

	req := setup.CreateJSONRequest(http.MethodGet, "/api/health", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

// TestRegisterLoginFlow covers the full auth round trip: register, read own
// profile, logout, and the expected failures around each step.
func TestRegisterLoginFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	infra, err := setup.StartInfra(ctx, t)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = infra.Terminate(ctx, t)
	})

	err = setup.RunMigration(infra.PgURL, t)
	require.NoError(t, err)

	app, db, _, _ := setup.SetupTestApp(t, infra.PgURL, infra.RedisURL, infra.MinioURL, infra.MailhogSMTP)

	t.Cleanup(func() {
		setup.TruncateAllTables(t, db, ctx)
	})

	email := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))

	t.Log("=== Register ===")
	registerBody := []byte(fmt.Sprintf(`{"fullname":"Test Person","email":"%s","password":"secret123"}`, email))
	resp, err := app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	token := setup.GetAccessTokenFromResponse(t, resp)

	t.Log("=== Duplicate email is rejected ===")
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	t.Log("=== Own profile ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodGet, "/api/users/me", nil, token))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	profile := setup.ParseJSONResponse(t, resp)
	require.Equal(t, email, profile["email"])
	require.Equal(t, false, profile["membership"], "registration must not grant membership")
	require.Equal(t, false, profile["admin"], "registration must not grant admin")

	t.Log("=== Protected route without token ===")
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodGet, "/api/users/me", nil))
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode)

	t.Log("=== Login with wrong password ===")
	badLogin := []byte(fmt.Sprintf(`{"email":"%s","password":"wrongpass"}`, email))
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/login", badLogin))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	t.Log("=== Login ===")
	loginBody := []byte(fmt.Sprintf(`{"email":"%s","password":"secret123"}`, email))
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/login", loginBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	loginToken := setup.GetAccessTokenFromResponse(t, resp)

	t.Log("=== Logout ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/users/logout", nil, loginToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}
