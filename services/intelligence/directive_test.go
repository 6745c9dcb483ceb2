package intelligence

import (
	"encoding/json"
	"testing"

	"concierge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawArgs(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func sessionWithSelection() *models.Session {
	return &models.Session{
		UserID:                "user-1",
		Action:                models.ActionAwaitingBookingData,
		SelectedOptionID:      "real-option-id",
		SelectedGuaranteeCode: "ga1",
	}
}

func fullReserveArgs() map[string]any {
	return map[string]any{
		"guests": []map[string]any{
			{"first_name": "Anna", "last_name": "Smith"},
		},
		"customer": map[string]any{
			"first_name": "Anna", "last_name": "Smith",
			"email": "anna@example.com", "phone": "+995555123456",
		},
	}
}

func TestResolveEmptyDirectiveFallsBack(t *testing.T) {
	sess := &models.Session{Action: models.ActionIdle}

	for _, d := range []*models.Directive{nil, {}} {
		r := Resolve(d, sess)
		assert.Empty(t, r.Tool)
		assert.NotEmpty(t, r.Clarification, "a turn must never resolve to nothing")
	}
}

func TestResolveClarificationPassthrough(t *testing.T) {
	r := Resolve(&models.Directive{ClarificationNeeded: "Which dates?"}, &models.Session{})
	assert.Empty(t, r.Tool)
	assert.Equal(t, "Which dates?", r.Clarification)
}

func TestResolveClarificationKeepsToolForStateBias(t *testing.T) {
	r := Resolve(&models.Directive{
		ToolName:            models.ToolCreateReservation,
		ClarificationNeeded: "Please provide the booker's email.",
	}, sessionWithSelection())
	assert.Equal(t, models.ToolCreateReservation, r.Tool)
	assert.Equal(t, "Please provide the booker's email.", r.Clarification)
	assert.Nil(t, r.Reserve)
}

func TestResolveUnknownToolDowngrades(t *testing.T) {
	r := Resolve(&models.Directive{ToolName: "teleport_guest", Arguments: rawArgs(t, map[string]any{})}, &models.Session{})
	assert.Empty(t, r.Tool)
	assert.Contains(t, r.Clarification, "teleport_guest")
}

func TestResolveSearchValid(t *testing.T) {
	r := Resolve(&models.Directive{
		ToolName: models.ToolSearchOptions,
		Arguments: rawArgs(t, map[string]any{
			"check_in_date":  "2026-09-10",
			"check_out_date": "2026-09-12",
			"num_adults":     2,
			"children_ages":  []int{7},
		}),
	}, &models.Session{})

	require.NotNil(t, r.Search)
	assert.Equal(t, models.ToolSearchOptions, r.Tool)
	assert.Equal(t, "2026-09-10", r.Search.CheckInDate)
	assert.Equal(t, 2, r.Search.NumAdults)
	assert.Equal(t, []int{7}, r.Search.ChildrenAges)
	assert.Empty(t, r.Clarification)
}

func TestResolveSearchMissingFieldsNamed(t *testing.T) {
	r := Resolve(&models.Directive{
		ToolName:  models.ToolSearchOptions,
		Arguments: rawArgs(t, map[string]any{"check_in_date": "2026-09-10"}),
	}, &models.Session{})

	assert.Nil(t, r.Search)
	assert.Contains(t, r.Clarification, "check-out date")
	assert.Contains(t, r.Clarification, "number of adults")
	assert.NotContains(t, r.Clarification, "check-in date")
}

func TestResolveSearchTypeMismatchDowngrades(t *testing.T) {
	r := Resolve(&models.Directive{
		ToolName:  models.ToolSearchOptions,
		Arguments: json.RawMessage(`{"check_in_date":"2026-09-10","check_out_date":"2026-09-12","num_adults":"two"}`),
	}, &models.Session{})

	assert.Nil(t, r.Search)
	assert.Contains(t, r.Clarification, "num_adults")
}

func TestResolveReserveOverridesSuppliedIdentifiers(t *testing.T) {
	args := fullReserveArgs()
	args["booking_option_id"] = "attacker-supplied-id"
	args["guarantee_code"] = "attacker-guarantee"

	r := Resolve(&models.Directive{
		ToolName:  models.ToolCreateReservation,
		Arguments: rawArgs(t, args),
	}, sessionWithSelection())

	require.NotNil(t, r.Reserve)
	assert.Equal(t, "real-option-id", r.Reserve.BookingOptionID)
	assert.Equal(t, "ga1", r.Reserve.GuaranteeCode)
}

func TestResolveReserveWithoutSelectionAsksToPick(t *testing.T) {
	sess := &models.Session{Action: models.ActionIdle}

	r := Resolve(&models.Directive{
		ToolName:  models.ToolCreateReservation,
		Arguments: rawArgs(t, fullReserveArgs()),
	}, sess)

	assert.Nil(t, r.Reserve)
	assert.Contains(t, r.Clarification, "pick one of the search results")
}

func TestResolveReserveMissingCustomerDetails(t *testing.T) {
	args := fullReserveArgs()
	args["customer"] = map[string]any{"first_name": "Anna", "last_name": "Smith"}

	r := Resolve(&models.Directive{
		ToolName:  models.ToolCreateReservation,
		Arguments: rawArgs(t, args),
	}, sessionWithSelection())

	assert.Nil(t, r.Reserve)
	assert.Contains(t, r.Clarification, "email")
	assert.Contains(t, r.Clarification, "phone")
}

func TestResolveReserveGuestWithoutName(t *testing.T) {
	args := fullReserveArgs()
	args["guests"] = []map[string]any{
		{"first_name": "Anna", "last_name": "Smith"},
		{"first_name": "Ben"},
	}

	r := Resolve(&models.Directive{
		ToolName:  models.ToolCreateReservation,
		Arguments: rawArgs(t, args),
	}, sessionWithSelection())

	assert.Nil(t, r.Reserve)
	assert.Contains(t, r.Clarification, "guest 2")
}

func TestResolveCancelValid(t *testing.T) {
	r := Resolve(&models.Directive{
		ToolName:  models.ToolCancelReservation,
		Arguments: rawArgs(t, map[string]any{"booking_number": "111-222", "cancellation_code": "SECRET"}),
	}, &models.Session{})

	require.NotNil(t, r.Cancel)
	assert.Equal(t, "111-222", r.Cancel.BookingNumber)
	assert.Equal(t, "SECRET", r.Cancel.CancellationCode)
}

func TestResolveCancelMissingCode(t *testing.T) {
	r := Resolve(&models.Directive{
		ToolName:  models.ToolCancelReservation,
		Arguments: rawArgs(t, map[string]any{"booking_number": "111-222"}),
	}, &models.Session{})

	assert.Nil(t, r.Cancel)
	assert.Contains(t, r.Clarification, "cancellation code")
}

func TestParseDirectiveStripsFences(t *testing.T) {
	cases := []string{
		`{"tool_name":"cancel_reservation","arguments":{"booking_number":"1"},"clarification_needed":null}`,
		"```json\n{\"tool_name\":\"cancel_reservation\",\"arguments\":{\"booking_number\":\"1\"},\"clarification_needed\":null}\n```",
		"```\n{\"tool_name\":\"cancel_reservation\",\"arguments\":{\"booking_number\":\"1\"},\"clarification_needed\":null}\n```",
	}
	for _, raw := range cases {
		d, err := parseDirective(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, models.ToolCancelReservation, d.ToolName)
	}
}

func TestParseDirectiveNormalizesNullStrings(t *testing.T) {
	d, err := parseDirective(`{"tool_name":"null","arguments":{},"clarification_needed":"NULL"}`)
	require.NoError(t, err)
	assert.Empty(t, d.ToolName)
	assert.Empty(t, d.ClarificationNeeded)
}

func TestParseDirectiveRejectsGarbage(t *testing.T) {
	_, err := parseDirective("I think the user wants a room.")
	assert.Error(t, err)
}
