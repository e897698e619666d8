package validation

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/letiskotransfer/transfer-api/pkg/errors"
)

func validPayload() map[string]any {
	return map[string]any{
		"firstName": "Ján",
		"lastName":  "Novák",
		"phone":     "+421900000000",
		"email":     "jan@example.com",
		"pickup":    "Hotel X",
		"dropoff":   "Schwechat",
		"date":      "2025-06-01",
		"time":      "08:00",
		"pax":       "2",
	}
}

func validate(t *testing.T, payload any) Result {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	v := New()
	raw, err := v.Parse(body)
	require.NoError(t, err)
	return v.Validate(raw)
}

func TestValidator_Parse_InvalidJSON(t *testing.T) {
	v := New()

	_, err := v.Parse([]byte(`{"firstName": "Ján",`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))
	assert.True(t, errors.Is(err, apperrors.ErrMalformedInput))

	_, err = v.Parse([]byte(``))
	assert.Error(t, err)
}

func TestValidator_ValidPayload(t *testing.T) {
	result := validate(t, validPayload())

	require.True(t, result.OK(), "errors: %v", result.Errors.Messages())
	r := result.Reservation
	assert.Equal(t, "Ján", r.FirstName)
	assert.Equal(t, "Novák", r.LastName)
	assert.Equal(t, 2, r.Pax)
	assert.Nil(t, r.BagsChecked)
	assert.Nil(t, r.BagsCarry)
	assert.Nil(t, r.Pickups)
	assert.Empty(t, r.Flight)
	assert.False(t, r.HasReturn())
}

func TestValidator_PaxBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		pax     any
		wantOK  bool
		wantPax int
		wantMsg string
	}{
		{name: "zero", pax: 0, wantMsg: "Number must be greater than or equal to 1"},
		{name: "one", pax: 1, wantOK: true, wantPax: 1},
		{name: "eight", pax: 8, wantOK: true, wantPax: 8},
		{name: "nine", pax: 9, wantMsg: "Number must be less than or equal to 8"},
		{name: "numeric string", pax: "3", wantOK: true, wantPax: 3},
		{name: "padded numeric string", pax: " 4 ", wantOK: true, wantPax: 4},
		{name: "twelve as string", pax: "12", wantMsg: "Number must be less than or equal to 8"},
		{name: "float", pax: 2.5, wantMsg: "Expected integer, received float"},
		{name: "non numeric string", pax: "two", wantMsg: "Expected number, received nan"},
		{name: "boolean", pax: true, wantMsg: "Expected number, received boolean"},
		{name: "blank string", pax: "", wantMsg: "Required"},
		{name: "null", pax: nil, wantMsg: "Required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := validPayload()
			payload["pax"] = tt.pax

			result := validate(t, payload)

			if tt.wantOK {
				require.True(t, result.OK(), "errors: %v", result.Errors.Messages())
				assert.Equal(t, tt.wantPax, result.Reservation.Pax)
				return
			}
			require.False(t, result.OK())
			require.NotNil(t, result.Errors.Get("pax"))
			assert.Equal(t, []string{tt.wantMsg}, result.Errors.Get("pax").Errors)
		})
	}
}

func TestValidator_MissingPax(t *testing.T) {
	payload := validPayload()
	delete(payload, "pax")

	result := validate(t, payload)

	require.False(t, result.OK())
	assert.Equal(t, []string{"Required"}, result.Errors.Get("pax").Errors)
}

func TestValidator_Baggage(t *testing.T) {
	payload := validPayload()
	payload["bagsChecked"] = "2"
	payload["bagsCarry"] = 0

	result := validate(t, payload)
	require.True(t, result.OK(), "errors: %v", result.Errors.Messages())
	require.NotNil(t, result.Reservation.BagsChecked)
	require.NotNil(t, result.Reservation.BagsCarry)
	assert.Equal(t, 2, *result.Reservation.BagsChecked)
	assert.Equal(t, 0, *result.Reservation.BagsCarry)

	payload["bagsChecked"] = 13
	payload["bagsCarry"] = -1
	result = validate(t, payload)
	require.False(t, result.OK())
	assert.Equal(t, []string{"Number must be less than or equal to 12"}, result.Errors.Get("bagsChecked").Errors)
	assert.Equal(t, []string{"Number must be greater than or equal to 0"}, result.Errors.Get("bagsCarry").Errors)

	payload["bagsChecked"] = ""
	payload["bagsCarry"] = nil
	result = validate(t, payload)
	require.True(t, result.OK())
	assert.Nil(t, result.Reservation.BagsChecked)
	assert.Nil(t, result.Reservation.BagsCarry)
}

func TestValidator_EmptyObjectFailsEveryRequiredField(t *testing.T) {
	result := validate(t, map[string]any{})

	require.False(t, result.OK())
	for _, field := range []string{"firstName", "lastName", "phone", "email", "pickup", "dropoff", "date", "time", "pax"} {
		node := result.Errors.Get(field)
		require.NotNil(t, node, field)
		assert.Equal(t, []string{"Required"}, node.Errors, field)
	}
	assert.Empty(t, result.Errors.Errors)
}

func TestValidator_IdentityRules(t *testing.T) {
	payload := validPayload()
	payload["email"] = "not-an-email"
	payload["phone"] = "12"
	payload["firstName"] = "   "

	result := validate(t, payload)

	require.False(t, result.OK())
	assert.Equal(t, []string{"Invalid email"}, result.Errors.Get("email").Errors)
	assert.Equal(t, []string{"String must contain at least 3 character(s)"}, result.Errors.Get("phone").Errors)
	assert.Equal(t, []string{"Required"}, result.Errors.Get("firstName").Errors)
	assert.Nil(t, result.Errors.Get("lastName"))
}

func TestValidator_NonObjectPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "array", body: `[1,2]`, want: "Expected object, received array"},
		{name: "string", body: `"hello"`, want: "Expected object, received string"},
		{name: "number", body: `42`, want: "Expected object, received number"},
		{name: "null", body: `null`, want: "Expected object, received null"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := v.Parse([]byte(tt.body))
			require.NoError(t, err)

			result := v.Validate(raw)

			require.False(t, result.OK())
			assert.Equal(t, []string{tt.want}, result.Errors.Errors)
		})
	}
}

func TestValidator_TypeErrors(t *testing.T) {
	payload := validPayload()
	payload["firstName"] = 5
	payload["pickups"] = "Hotel X"
	payload["pickup_extra"] = []any{"B", 7}

	result := validate(t, payload)

	require.False(t, result.OK())
	assert.Equal(t, []string{"Expected string, received number"}, result.Errors.Get("firstName").Errors)
	assert.Equal(t, []string{"Expected array, received string"}, result.Errors.Get("pickups").Errors)
	assert.Equal(t, []string{"Expected string, received number"}, result.Errors.Get("pickup_extra", "1").Errors)
}

func TestValidator_ExtraStops(t *testing.T) {
	payload := validPayload()
	payload["pickups"] = []string{"Hotel X", "B", "C"}
	payload["pickup_extra"] = []string{" B ", "C"}
	payload["dropoffs"] = []string{"Schwechat"}

	result := validate(t, payload)

	require.True(t, result.OK(), "errors: %v", result.Errors.Messages())
	assert.Equal(t, []string{"Hotel X", "B", "C"}, result.Reservation.Pickups)
	assert.Equal(t, []string{"B", "C"}, result.Reservation.PickupExtra)
	assert.Equal(t, []string{"Schwechat"}, result.Reservation.Dropoffs)
	assert.Nil(t, result.Reservation.DropoffExtra)
}

func TestValidator_BlankExtraStop(t *testing.T) {
	payload := validPayload()
	payload["pickup_extra"] = []string{"B", "  "}

	result := validate(t, payload)

	require.False(t, result.OK())
	node := result.Errors.Get("pickup_extra", "1")
	require.NotNil(t, node)
	assert.Equal(t, []string{"String must contain at least 1 character(s)"}, node.Errors)

	body, err := json.Marshal(result.Errors)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"_errors": [],
		"pickup_extra": {"_errors": [], "1": {"_errors": ["String must contain at least 1 character(s)"]}}
	}`, string(body))
}

func TestValidator_LeadingStopMustMatchPrimary(t *testing.T) {
	payload := validPayload()
	payload["pickups"] = []string{"Elsewhere", "B"}

	result := validate(t, payload)

	require.False(t, result.OK())
	assert.Equal(t, []string{"First stop must match pickup"}, result.Errors.Get("pickups", "0").Errors)
}

func TestValidator_TooManyExtraStops(t *testing.T) {
	extras := make([]string, 11)
	for i := range extras {
		extras[i] = "stop"
	}
	payload := validPayload()
	payload["dropoff_extra"] = extras

	result := validate(t, payload)

	require.False(t, result.OK())
	assert.Equal(t, []string{"Array must contain at most 10 element(s)"}, result.Errors.Get("dropoff_extra").Errors)
}

func TestValidator_ReturnLegAndOptionals(t *testing.T) {
	payload := validPayload()
	payload["r_date"] = "2025-06-08"
	payload["r_flight"] = "   "
	payload["notes"] = "  child seat please  "
	payload["gdpr"] = "on"
	payload["locale"] = "EN"
	payload["unknown"] = map[string]any{"ignored": true}

	result := validate(t, payload)

	require.True(t, result.OK(), "errors: %v", result.Errors.Messages())
	r := result.Reservation
	assert.True(t, r.HasReturn())
	assert.Equal(t, "2025-06-08", r.ReturnDate)
	assert.Empty(t, r.ReturnFlight)
	assert.Equal(t, "child seat please", r.Notes)
	assert.Equal(t, "on", r.GDPR)
	assert.Equal(t, "en", r.Locale)
}

func TestValidator_UnsupportedLocaleFallsBack(t *testing.T) {
	payload := validPayload()
	payload["locale"] = "xx"

	result := validate(t, payload)

	require.True(t, result.OK())
	assert.Equal(t, "sk", result.Reservation.Locale)
}

func TestValidator_NotesTooLong(t *testing.T) {
	notes := make([]byte, 5001)
	for i := range notes {
		notes[i] = 'a'
	}
	payload := validPayload()
	payload["notes"] = string(notes)

	result := validate(t, payload)

	require.False(t, result.OK())
	assert.Equal(t, []string{"String must contain at most 5000 character(s)"}, result.Errors.Get("notes").Errors)
}

func TestValidator_LengthCaps(t *testing.T) {
	tests := []struct {
		field string
		limit int
	}{
		{"firstName", 100},
		{"lastName", 100},
		{"phone", 40},
		{"pickup", 300},
		{"date", 40},
		{"flight", 40},
		{"r_pickup", 300},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			payload := validPayload()
			payload[tt.field] = strings.Repeat("á", tt.limit)
			assert.Nil(t, validate(t, payload).Errors.Get(tt.field), "at the limit")

			payload[tt.field] = strings.Repeat("á", tt.limit+1)
			result := validate(t, payload)
			require.False(t, result.OK())
			require.NotNil(t, result.Errors.Get(tt.field))
			assert.Contains(t, result.Errors.Get(tt.field).Errors, "String must contain at most "+strconv.Itoa(tt.limit)+" character(s)")
		})
	}
}

func TestMissing(t *testing.T) {
	assert.Empty(t, Missing(json.RawMessage(`{"firstName":"a","lastName":"b","phone":"c","email":"d","pickup":"e","dropoff":"f","date":"g","time":"h","pax":1}`)))

	assert.Equal(t,
		[]string{"lastName", "phone", "email", "pickup", "dropoff", "date", "time", "pax"},
		Missing(json.RawMessage(`{"firstName":"a","lastName":""}`)))

	assert.Equal(t, RequiredFields, Missing(json.RawMessage(`[1]`)))
}

func TestResult_Err(t *testing.T) {
	assert.NoError(t, validate(t, validPayload()).Err())

	payload := validPayload()
	payload["pax"] = 9
	err := validate(t, payload).Err()

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.NotNil(t, validationErr.Errors.Get("pax"))
	assert.Contains(t, err.Error(), "pax: Number must be less than or equal to 8")
}
