package membership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congregateapp/congregate/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func status(membership bool, r *model.MembershipRequest) model.MembershipStatus {
	return model.MembershipStatus{Membership: membership, PendingRequest: r}
}

func TestDeriveMemberSeesNothing(t *testing.T) {
	// Membership wins over everything, including a muted denial on file.
	card := Derive(status(true, &model.MembershipRequest{
		Message:  "let me in",
		Resolved: true,
		Approved: boolPtr(false),
		Reason:   strPtr("no"),
		Muted:    true,
	}))

	assert.Nil(t, card.Message)
	assert.Nil(t, card.ButtonLabel)
	assert.Equal(t, ActionNone, card.Action.Kind)
}

func TestDeriveFirstTimeRequester(t *testing.T) {
	card := Derive(status(false, nil))

	require.NotNil(t, card.Message)
	require.NotNil(t, card.ButtonLabel)
	assert.Equal(t, MsgNotMember, *card.Message)
	assert.Equal(t, LabelRequest, *card.ButtonLabel)
	assert.Equal(t, ActionRequest, card.Action.Kind)
}

func TestDeriveRevertedMemberStartsFresh(t *testing.T) {
	// Resolved approval but membership revoked out of band: treated like a
	// first-time requester, the stale approval does not grant anything.
	card := Derive(status(false, &model.MembershipRequest{
		Message:  "old request",
		Resolved: true,
		Approved: boolPtr(true),
	}))

	assert.Equal(t, ActionRequest, card.Action.Kind)
	assert.Empty(t, card.Action.Prefill)
}

func TestDerivePendingOffersResubmitWithPrefill(t *testing.T) {
	card := Derive(status(false, &model.MembershipRequest{
		Message:  "I attend every week",
		Resolved: false,
	}))

	require.NotNil(t, card.ButtonLabel)
	assert.Equal(t, LabelResubmit, *card.ButtonLabel)
	assert.Equal(t, ActionResubmit, card.Action.Kind)
	assert.Equal(t, "I attend every week", card.Action.Prefill)
	assert.Nil(t, card.Action.Reason)
}

func TestDeriveDeniedUnmutedIsReadableAndRetryable(t *testing.T) {
	card := Derive(status(false, &model.MembershipRequest{
		Message:  "I attend every week",
		Resolved: true,
		Approved: boolPtr(false),
		Reason:   strPtr("please introduce yourself to an elder first"),
	}))

	require.NotNil(t, card.ButtonLabel)
	assert.Equal(t, LabelRead, *card.ButtonLabel)
	assert.Equal(t, ActionRead, card.Action.Kind)
	assert.False(t, card.Action.Muted)
	require.NotNil(t, card.Action.Reason)
	assert.Equal(t, "please introduce yourself to an elder first", *card.Action.Reason)
	assert.Equal(t, "I attend every week", card.Action.Prefill)
}

func TestDeriveDeniedMutedIsReadableButDead(t *testing.T) {
	card := Derive(status(false, &model.MembershipRequest{
		Message:  "I attend every week",
		Resolved: true,
		Approved: boolPtr(false),
		Reason:   strPtr("repeated spam"),
		Muted:    true,
	}))

	require.NotNil(t, card.Message)
	assert.Equal(t, MsgProhibited, *card.Message)
	require.NotNil(t, card.ButtonLabel)
	assert.Equal(t, LabelRead, *card.ButtonLabel)
	assert.Equal(t, ActionRead, card.Action.Kind)
	assert.True(t, card.Action.Muted)
	require.NotNil(t, card.Action.Reason)
}

func TestDeriveMutedWithoutDenialHasNoAction(t *testing.T) {
	// Muted while the request was still open: nothing to read yet, so the
	// card carries only the prohibition notice.
	card := Derive(status(false, &model.MembershipRequest{
		Message:  "hello",
		Resolved: false,
		Muted:    true,
	}))

	require.NotNil(t, card.Message)
	assert.Equal(t, MsgProhibited, *card.Message)
	assert.Nil(t, card.ButtonLabel)
	assert.Equal(t, ActionNone, card.Action.Kind)
}

func TestDeriveMuteDominatesPending(t *testing.T) {
	// The muted rules sit above the pending rule; a muted open request must
	// never surface the resubmit form.
	card := Derive(status(false, &model.MembershipRequest{
		Message:  "hello",
		Resolved: false,
		Muted:    true,
	}))

	assert.NotEqual(t, ActionResubmit, card.Action.Kind)
}

func TestDeriveTotality(t *testing.T) {
	// Every combination of the boolean tuple yields exactly one card with a
	// well-formed action, with or without a request on file.
	approvals := []*bool{nil, boolPtr(true), boolPtr(false)}
	for _, membership := range []bool{false, true} {
		card := Derive(status(membership, nil))
		assert.Contains(t, []ActionKind{ActionNone, ActionRequest, ActionResubmit, ActionRead}, card.Action.Kind)

		for _, resolved := range []bool{false, true} {
			for _, muted := range []bool{false, true} {
				for _, approved := range approvals {
					card := Derive(status(membership, &model.MembershipRequest{
						Message:  "m",
						Resolved: resolved,
						Approved: approved,
						Muted:    muted,
					}))
					assert.Contains(t, []ActionKind{ActionNone, ActionRequest, ActionResubmit, ActionRead}, card.Action.Kind)
					if card.Action.Kind != ActionRead {
						assert.Nil(t, card.Action.Reason)
						assert.False(t, card.Action.Muted)
					}
				}
			}
		}
	}
}

func TestRuleTableOrder(t *testing.T) {
	// The table is order-sensitive. Pin the order so a reorder shows up as
	// a test failure rather than a silent behavior change.
	names := make([]string, 0, len(ruleTable))
	for _, r := range ruleTable {
		names = append(names, r.name)
	}
	assert.Equal(t, []string{"member", "muted-denied", "muted", "fresh", "pending", "denied"}, names)
}
