package models

import "strings"

// ReservationRequest is a validated, normalized transfer booking inquiry.
// Optional strings are empty when absent; optional counts are nil.
type ReservationRequest struct {
	// Personal details
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`

	// Ride
	Pickup       string   `json:"pickup"`
	Dropoff      string   `json:"dropoff"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Flight       string   `json:"flight,omitempty"`
	Pickups      []string `json:"pickups,omitempty"`
	Dropoffs     []string `json:"dropoffs,omitempty"`
	PickupExtra  []string `json:"pickup_extra,omitempty"`
	DropoffExtra []string `json:"dropoff_extra,omitempty"`

	// Passengers & baggage
	Pax         int  `json:"pax"`
	BagsChecked *int `json:"bagsChecked,omitempty"`
	BagsCarry   *int `json:"bagsCarry,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Return leg
	ReturnPickup  string `json:"r_pickup,omitempty"`
	ReturnDropoff string `json:"r_dropoff,omitempty"`
	ReturnDate    string `json:"r_date,omitempty"`
	ReturnTime    string `json:"r_time,omitempty"`
	ReturnFlight  string `json:"r_flight,omitempty"`

	GDPR   string `json:"gdpr,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// HasReturn reports whether any return-leg field carries a value
func (r *ReservationRequest) HasReturn() bool {
	for _, v := range []string{r.ReturnPickup, r.ReturnDropoff, r.ReturnDate, r.ReturnTime, r.ReturnFlight} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// ReservationResponse is the body of every reservation endpoint response
type ReservationResponse struct {
	OK     bool       `json:"ok"`
	Errors *ErrorTree `json:"errors,omitempty"`
}

// SuccessResponse is the canonical {"ok": true} body
func SuccessResponse() *ReservationResponse {
	return &ReservationResponse{OK: true}
}

// FailureResponse wraps a field-keyed error tree in an {"ok": false} body
func FailureResponse(errs *ErrorTree) *ReservationResponse {
	return &ReservationResponse{OK: false, Errors: errs}
}

// MessageFailure builds an {"ok": false} body carrying a single form-level message
func MessageFailure(message string) *ReservationResponse {
	return FailureResponse(NewErrorTree(message))
}
