package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/congregateapp/congregate/tests/integration/setup"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func getCard(t *testing.T, app *fiber.App, token string) map[string]interface{} {
	resp, err := app.Test(setup.CreateAuthRequest(http.MethodGet, "/api/membership/card", nil, token))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	return setup.ParseJSONResponse(t, resp)
}

func cardAction(t *testing.T, card map[string]interface{}) map[string]interface{} {
	inner, ok := card["card"].(map[string]interface{})
	require.True(t, ok, "response should contain card object")
	action, ok := inner["action"].(map[string]interface{})
	require.True(t, ok, "card should contain action object")
	return action
}

// TestMembershipLifecycle walks one user through the whole request loop:
// fresh card, submit, deny with reason, read and resubmit, approve.
func TestMembershipLifecycle(t *testing.T) {
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

	memberEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))
	adminEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))

	t.Log("=== Register member and reviewer ===")
	registerBody := []byte(fmt.Sprintf(`{"fullname":"Member Person","email":"%s","password":"secret123"}`, memberEmail))
	resp, err := app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	memberToken := setup.GetAccessTokenFromResponse(t, resp)

	registerBody = []byte(fmt.Sprintf(`{"fullname":"Admin Person","email":"%s","password":"secret123"}`, adminEmail))
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	adminToken := setup.GetAccessTokenFromResponse(t, resp)

	setup.PromoteToAdmin(t, db, ctx, adminEmail)

	t.Log("=== Fresh user sees the request action ===")
	card := getCard(t, app, memberToken)
	require.Equal(t, "no_request", card["state"])
	require.Equal(t, "request", cardAction(t, card)["kind"])

	t.Log("=== Non-admin cannot open the review surface ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodGet, "/api/membership/requests?tab=pending", nil, memberToken))
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)

	t.Log("=== Submit request ===")
	submitBody := []byte(`{"message":"I attend every Sunday and would like to join."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/membership/requests", submitBody, memberToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	card = setup.ParseJSONResponse(t, resp)
	require.Equal(t, "pending_review", card["state"])
	action := cardAction(t, card)
	require.Equal(t, "resubmit", action["kind"])
	require.Equal(t, "I attend every Sunday and would like to join.", action["prefill"])

	t.Log("=== Admin finds the request on the pending tab ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodGet, "/api/membership/requests?tab=pending", nil, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	list := setup.ParseJSONResponse(t, resp)
	items, ok := list["items"].([]interface{})
	require.True(t, ok, "list response should contain items")
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	require.Equal(t, memberEmail, item["email"])
	requestId := item["requestId"].(string)
	require.NotEmpty(t, requestId)

	t.Log("=== Deny with a reason ===")
	denyBody := []byte(`{"decision":"deny","muted":false,"reason":"Please complete the new member class first."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/membership/requests/%s/review", requestId), denyBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	t.Log("=== Member sees the denial and can read it ===")
	card = getCard(t, app, memberToken)
	require.Equal(t, "denied_unmuted", card["state"])
	action = cardAction(t, card)
	require.Equal(t, "read", action["kind"])
	require.Equal(t, "Please complete the new member class first.", action["reason"])
	require.NotEqual(t, true, action["muted"])

	status := card["status"].(map[string]interface{})
	require.Equal(t, false, status["membership"])

	t.Log("=== Decision email went out ===")
	emailBody := setup.WaitForEmail(t, infra.MailhogURL, memberEmail)
	require.Contains(t, emailBody, "Member Person")

	t.Log("=== Resubmission reopens the same request ===")
	resubmitBody := []byte(`{"message":"I finished the new member class last week."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/membership/requests", resubmitBody, memberToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	card = setup.ParseJSONResponse(t, resp)
	require.Equal(t, "pending_review", card["state"])
	action = cardAction(t, card)
	require.Equal(t, "resubmit", action["kind"])
	require.Equal(t, "I finished the new member class last week.", action["prefill"])

	t.Log("=== Approve ===")
	approveBody := []byte(`{"decision":"approve","muted":false}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/membership/requests/%s/review", requestId), approveBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	t.Log("=== Member card goes quiet ===")
	card = getCard(t, app, memberToken)
	require.Equal(t, "approved_member", card["state"])
	require.Equal(t, "none", cardAction(t, card)["kind"])

	status = card["status"].(map[string]interface{})
	require.Equal(t, true, status["membership"])

	t.Log("=== Member cannot submit while being a member ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/membership/requests", submitBody, memberToken))
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)

	t.Log("=== Review history keeps both decisions ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodGet, fmt.Sprintf("/api/membership/requests/%s/reviews", requestId), nil, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	t.Log("=== Re-denying the request revokes the membership ===")
	revokeBody := []byte(`{"decision":"deny","muted":false,"reason":"Moved to another congregation."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/membership/requests/%s/review", requestId), revokeBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	card = getCard(t, app, memberToken)
	require.Equal(t, "denied_unmuted", card["state"])
	action = cardAction(t, card)
	require.Equal(t, "read", action["kind"])
	require.Equal(t, "Moved to another congregation.", action["reason"])

	status = card["status"].(map[string]interface{})
	require.Equal(t, false, status["membership"])
}

// TestMembershipMutedDenial checks that a muted denial still lets the user
// read the outcome while blocking any further submission.
func TestMembershipMutedDenial(t *testing.T) {
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

	memberEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))
	adminEmail := fmt.Sprintf("%s@example.com", setup.GenerateRandomString(10))

	registerBody := []byte(fmt.Sprintf(`{"fullname":"Muted Person","email":"%s","password":"secret123"}`, memberEmail))
	resp, err := app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	memberToken := setup.GetAccessTokenFromResponse(t, resp)

	registerBody = []byte(fmt.Sprintf(`{"fullname":"Admin Person","email":"%s","password":"secret123"}`, adminEmail))
	resp, err = app.Test(setup.CreateJSONRequest(http.MethodPost, "/api/auth/register", registerBody))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	adminToken := setup.GetAccessTokenFromResponse(t, resp)

	setup.PromoteToAdmin(t, db, ctx, adminEmail)

	submitBody := []byte(`{"message":"Please let me in."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/membership/requests", submitBody, memberToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(setup.CreateAuthRequest(http.MethodGet, "/api/membership/requests?tab=pending", nil, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	list := setup.ParseJSONResponse(t, resp)
	items := list["items"].([]interface{})
	require.Len(t, items, 1)
	requestId := items[0].(map[string]interface{})["requestId"].(string)

	t.Log("=== Deny and mute ===")
	denyBody := []byte(`{"decision":"deny","muted":true,"reason":"Repeated abuse of the request form."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/membership/requests/%s/review", requestId), denyBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	t.Log("=== Card is readable but dead ===")
	card := getCard(t, app, memberToken)
	require.Equal(t, "denied_muted", card["state"])
	action := cardAction(t, card)
	require.Equal(t, "read", action["kind"])
	require.Equal(t, true, action["muted"])

	t.Log("=== Further submissions are blocked ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/membership/requests", submitBody, memberToken))
	require.NoError(t, err)
	require.Equal(t, 403, resp.StatusCode)

	t.Log("=== Re-denying without mute lifts the block ===")
	unmuteBody := []byte(`{"decision":"deny","muted":false,"reason":"You may apply again."}`)
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, fmt.Sprintf("/api/membership/requests/%s/review", requestId), unmuteBody, adminToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	card = getCard(t, app, memberToken)
	require.Equal(t, "denied_unmuted", card["state"])
	require.NotEqual(t, true, cardAction(t, card)["muted"])

	t.Log("=== The user can submit again ===")
	resp, err = app.Test(setup.CreateAuthRequest(http.MethodPost, "/api/membership/requests", submitBody, memberToken))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	card = setup.ParseJSONResponse(t, resp)
	require.Equal(t, "pending_review", card["state"])
}
