// Package form holds the client-side state of one reservation form: named
// control values, extra pickup/dropoff rows, the return-trip toggle and the
// submission lifecycle.
package form

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/letiskotransfer/transfer-api/pkg/locale"
)

// Control names
const (
	FieldFirstName     = "firstName"
	FieldLastName      = "lastName"
	FieldPhone         = "phone"
	FieldEmail         = "email"
	FieldPickup        = "pickup"
	FieldDropoff       = "dropoff"
	FieldDate          = "date"
	FieldTime          = "time"
	FieldFlight        = "flight"
	FieldPax           = "pax"
	FieldBagsChecked   = "bagsChecked"
	FieldBagsCarry     = "bagsCarry"
	FieldNotes         = "notes"
	FieldReturnPickup  = "r_pickup"
	FieldReturnDropoff = "r_dropoff"
	FieldReturnDate    = "r_date"
	FieldReturnTime    = "r_time"
	FieldReturnFlight  = "r_flight"
	FieldGDPR          = "gdpr"
)

// Controls lists every named control in form order
var Controls = []string{
	FieldFirstName, FieldLastName, FieldPhone, FieldEmail,
	FieldPickup, FieldDropoff, FieldDate, FieldTime, FieldFlight,
	FieldPax, FieldBagsChecked, FieldBagsCarry, FieldNotes,
	FieldReturnPickup, FieldReturnDropoff, FieldReturnDate, FieldReturnTime, FieldReturnFlight,
	FieldGDPR,
}

var (
	requiredFields = []string{
		FieldFirstName, FieldLastName, FieldPhone, FieldEmail,
		FieldPickup, FieldDropoff, FieldDate, FieldTime, FieldPax, FieldGDPR,
	}

	// Required only while the return section is shown
	requiredReturnFields = []string{
		FieldReturnPickup, FieldReturnDropoff, FieldReturnDate, FieldReturnTime,
	}
)

// Row is one extra pickup or dropoff stop
type Row struct {
	ID    string
	Value string
}

// FieldMessages maps a control name to its localized validation message
type FieldMessages map[string]string

// Payload is the JSON object posted to the reservation endpoint
type Payload map[string]any

// Form is the state of a single reservation form. It is safe for concurrent use.
type Form struct {
	mu sync.Mutex

	locale   locale.Locale
	values   map[string]string
	pickups  []Row
	dropoffs []Row
	isReturn bool

	state   State
	message string
	errors  FieldMessages
}

// New creates an empty form rendered in the given locale
func New(l locale.Locale) *Form {
	return &Form{
		locale: locale.Resolve(string(l)),
		values: make(map[string]string),
	}
}

// Locale returns the form's language
func (f *Form) Locale() locale.Locale {
	return f.locale
}

// Set stores the value of a named control
func (f *Form) Set(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
}

// Value returns the value of a named control
func (f *Form) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// AddPickup appends an empty extra pickup row and returns its ID
func (f *Form) AddPickup() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := Row{ID: uuid.NewString()}
	f.pickups = append(f.pickups, row)
	return row.ID
}

// AddDropoff appends an empty extra dropoff row and returns its ID
func (f *Form) AddDropoff() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := Row{ID: uuid.NewString()}
	f.dropoffs = append(f.dropoffs, row)
	return row.ID
}

// RemovePickup removes the extra pickup row with the given ID, if any
func (f *Form) RemovePickup(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pickups = removeRow(f.pickups, id)
}

// RemoveDropoff removes the extra dropoff row with the given ID, if any
func (f *Form) RemoveDropoff(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropoffs = removeRow(f.dropoffs, id)
}

// SetRowValue updates the value of an extra pickup or dropoff row.
// It reports whether a row with that ID exists.
func (f *Form) SetRowValue(id, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rows := range [][]Row{f.pickups, f.dropoffs} {
		for i := range rows {
			if rows[i].ID == id {
				rows[i].Value = value
				return true
			}
		}
	}
	return false
}

// Pickups returns a copy of the extra pickup rows
func (f *Form) Pickups() []Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Row(nil), f.pickups...)
}

// Dropoffs returns a copy of the extra dropoff rows
func (f *Form) Dropoffs() []Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Row(nil), f.dropoffs...)
}

// ToggleReturn shows or hides the return-trip section. Values already typed
// into the return fields are kept either way.
func (f *Form) ToggleReturn(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.isReturn = on
}

// ReturnEnabled reports whether the return-trip section is shown
func (f *Form) ReturnEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.isReturn
}

// CheckRequired returns a localized message for every required control that
// is empty. A nil result means the form may be submitted.
func (f *Form) CheckRequired() FieldMessages {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkRequired()
}

func (f *Form) checkRequired() FieldMessages {
	names := requiredFields
	if f.isReturn {
		names = append(append([]string{}, requiredFields...), requiredReturnFields...)
	}

	p := printer(f.locale)
	var missing FieldMessages
	for _, name := range names {
		if strings.TrimSpace(f.values[name]) != "" {
			continue
		}
		if missing == nil {
			missing = make(FieldMessages)
		}
		key := msgRequired
		if name == FieldGDPR {
			key = msgConsent
		}
		missing[name] = p.Sprintf(key)
	}
	return missing
}

// BuildPayload assembles the request body from the current state
func (f *Form) BuildPayload() Payload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buildPayload()
}

func (f *Form) buildPayload() Payload {
	payload := make(Payload, len(Controls)+5)
	for _, name := range Controls {
		payload[name] = f.values[name]
	}

	pickupExtra := nonBlank(f.pickups)
	dropoffExtra := nonBlank(f.dropoffs)
	payload["pickups"] = append([]string{f.values[FieldPickup]}, pickupExtra...)
	payload["dropoffs"] = append([]string{f.values[FieldDropoff]}, dropoffExtra...)
	if len(pickupExtra) > 0 {
		payload["pickup_extra"] = pickupExtra
	}
	if len(dropoffExtra) > 0 {
		payload["dropoff_extra"] = dropoffExtra
	}
	payload["locale"] = f.locale.String()
	return payload
}

func (f *Form) reset() {
	f.values = make(map[string]string)
	f.pickups = nil
	f.dropoffs = nil
	f.isReturn = false
}

func removeRow(rows []Row, id string) []Row {
	for i := range rows {
		if rows[i].ID == id {
			return append(rows[:i:i], rows[i+1:]...)
		}
	}
	return rows
}

func nonBlank(rows []Row) []string {
	var out []string
	for _, row := range rows {
		if value := strings.TrimSpace(row.Value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
