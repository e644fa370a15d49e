package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/congregateapp/congregate/tests/integration/setup"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func listUpcoming(t *testing.T, app *fiber.App, token string) []map[string]interface{} {
	resp, err := app.Test(setup.CreateAuthRequest(http.MethodGet, "/api/events/upcoming", nil, token))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var instances []map[string]interface{}
	err = json.Unmarshal(body, &instances)
	require.NoError(t, err)
	return instances
}

func findInstanceForSeries(t *testing.T, instances []map[string]interface{}, seriesId string) map[string]interface{} {
	for _, instance := range instances {
		if instance["seriesId"] == seriesId {
			return instance
		}
	}
	require.Failf(t, "instance not found", "no upcoming instance for series %s", seriesId)
	return nil
}

// TestEventRegistrationCapacity fills a one-seat event and checks that the
// next signup is rejected instead of overbooking the instance.
func TestEventRegistrationCapacity(t *testing.T) {
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

	adminEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))
	firstEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))
	secondEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))

	registerBody := []byte(fmt.Sprintf(`{"fullname":"Admin Person","email":"%s","password":"secret123"}`, adminEmail))
	resp, err := app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	adminToken := setup.GetAccessTokenFromResponse(t, resp)

	registerBody = []byte(fmt.Sprintf(`{"fullname":"First Attendee","email":"%s","password":"secret123"}`, firstEmail))
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	firstToken := setup.GetAccessTokenFromResponse(t, resp)

	registerBody = []byte(fmt.Sprintf(`{"fullname":"Second Attendee","email":"%s","password":"secret123"}`, secondEmail))
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	secondToken := setup.GetAccessTokenFromResponse(t, resp)

	setup.PromoteToAdmin(t, db, ctx, adminEmail)

	t.Log("=== Admin creates a one-seat event ===")
	start := time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339)
	seriesBody := []byte(fmt.Sprintf(`{"title":"Small Group Dinner","startDatetime":"%s","durationMinutes":90,"membersOnly":false,"capacity":1,"freq":"none","interval":0}`, start))
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/events/series", seriesBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	series := setup.ParseJSONResponse(t, resp)
	seriesId := series["id"].(string)
	require.NotEmpty(t, seriesId)

	instance := findInstanceForSeries(t, listUpcoming(t, app, firstToken), seriesId)
	instanceId := instance["id"].(string)

	t.Log("=== First signup takes the seat ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/events/instances/%s/registrations", instanceId), nil, firstToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	instance = findInstanceForSeries(t, listUpcoming(t, app, firstToken), seriesId)
	require.Equal(t, float64(1), instance["registeredCount"])
	require.Equal(t, true, instance["registered"])

	t.Log("=== Second signup bounces off the full event ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/events/instances/%s/registrations", instanceId), nil, secondToken))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
	require.Contains(t, setup.ParseErrorMessage(t, setup.ParseJSONResponse(t, resp)), "capacity")

	instance = findInstanceForSeries(t, listUpcoming(t, app, secondToken), seriesId)
	require.Equal(t, float64(1), instance["registeredCount"])
	require.Equal(t, false, instance["registered"])

	t.Log("=== Cancelling frees the seat ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodDelete, fmt.Sprintf("/api/events/instances/%s/registrations", instanceId), nil, firstToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/events/instances/%s/registrations", instanceId), nil, secondToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	t.Log("=== Members-only event rejects non-members ===")
	seriesBody = []byte(fmt.Sprintf(`{"title":"Members Retreat","startDatetime":"%s","durationMinutes":120,"membersOnly":true,"freq":"none","interval":0}`, start))
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/events/series", seriesBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	membersSeriesId := setup.ParseJSONResponse(t, resp)["id"].(string)
	membersInstance := findInstanceForSeries(t, listUpcoming(t, app, firstToken), membersSeriesId)

	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/events/instances/%s/registrations", membersInstance["id"].(string)), nil, firstToken))
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)
}
