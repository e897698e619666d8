// Package validation enforces the reservation schema on untrusted JSON.
//
// The server is the only authority on what a valid reservation is: every
// payload is re-checked here even though the booking form already refuses
// to submit with empty required fields.
package validation

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/letiskotransfer/transfer-api/internal/models"
	apperrors "github.com/letiskotransfer/transfer-api/pkg/errors"
	"github.com/letiskotransfer/transfer-api/pkg/locale"
)

// InvalidJSONMessage is the form-level message returned for unparseable bodies
const InvalidJSONMessage = "Invalid JSON"

// ErrInvalidJSON is returned by Parse when the body is not valid JSON
var ErrInvalidJSON = apperrors.MalformedInputError(InvalidJSONMessage)

// reservationInput is the typed form of a payload after coercion and before rules run
type reservationInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Phone     string `json:"phone" validate:"required,min=3,max=40"`
	Email     string `json:"email" validate:"required,email,max=254"`

	Pickup       string   `json:"pickup" validate:"required,max=300"`
	Dropoff      string   `json:"dropoff" validate:"required,max=300"`
	Date         string   `json:"date" validate:"required,max=40"`
	Time         string   `json:"time" validate:"required,max=40"`
	Flight       string   `json:"flight" validate:"max=40"`
	Pickups      []string `json:"pickups" validate:"max=11,dive,max=300"`
	Dropoffs     []string `json:"dropoffs" validate:"max=11,dive,max=300"`
	PickupExtra  []string `json:"pickup_extra" validate:"max=10,dive,min=1,max=300"`
	DropoffExtra []string `json:"dropoff_extra" validate:"max=10,dive,min=1,max=300"`

	Pax         *int `json:"pax" validate:"required,min=1,max=8"`
	BagsChecked *int `json:"bagsChecked" validate:"omitempty,min=0,max=12"`
	BagsCarry   *int `json:"bagsCarry" validate:"omitempty,min=0,max=12"`

	Notes string `json:"notes" validate:"max=5000"`

	ReturnPickup  string `json:"r_pickup" validate:"max=300"`
	ReturnDropoff string `json:"r_dropoff" validate:"max=300"`
	ReturnDate    string `json:"r_date" validate:"max=40"`
	ReturnTime    string `json:"r_time" validate:"max=40"`
	ReturnFlight  string `json:"r_flight" validate:"max=40"`

	GDPR   string `json:"gdpr" validate:"max=40"`
	Locale string `json:"locale" validate:"max=35"`
}

// Result is either a normalized reservation or a field-keyed error report
type Result struct {
	Reservation *models.ReservationRequest
	Errors      *models.ErrorTree
}

// OK reports whether the payload passed validation
func (r Result) OK() bool {
	return r.Reservation != nil
}

// Validator checks reservation payloads
type Validator struct {
	validate *validator.Validate
}

// New creates a validator reporting fields by their JSON names
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: validate}
}

// Parse checks that body is well-formed JSON. It does not look at the shape.
func (v *Validator) Parse(body []byte) (json.RawMessage, error) {
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(body), nil
}

// Validate applies the reservation schema to a parsed payload
func (v *Validator) Validate(raw json.RawMessage) Result {
	errs := models.NewErrorTree()

	if kind := jsonKind(raw); kind != "object" {
		errs.Add("Expected object, received " + kind)
		return Result{Errors: errs}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		errs.Add(InvalidJSONMessage)
		return Result{Errors: errs}
	}

	d := newDecoder(fields, errs)
	input := reservationInput{
		FirstName:     d.str("firstName"),
		LastName:      d.str("lastName"),
		Phone:         d.str("phone"),
		Email:         d.str("email"),
		Pickup:        d.str("pickup"),
		Dropoff:       d.str("dropoff"),
		Date:          d.str("date"),
		Time:          d.str("time"),
		Flight:        d.str("flight"),
		Pickups:       d.list("pickups"),
		Dropoffs:      d.list("dropoffs"),
		PickupExtra:   d.list("pickup_extra"),
		DropoffExtra:  d.list("dropoff_extra"),
		Pax:           d.integer("pax"),
		BagsChecked:   d.integer("bagsChecked"),
		BagsCarry:     d.integer("bagsCarry"),
		Notes:         d.str("notes"),
		ReturnPickup:  d.str("r_pickup"),
		ReturnDropoff: d.str("r_dropoff"),
		ReturnDate:    d.str("r_date"),
		ReturnTime:    d.str("r_time"),
		ReturnFlight:  d.str("r_flight"),
		GDPR:          d.str("gdpr"),
		Locale:        d.str("locale"),
	}

	if err := v.validate.Struct(input); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				path := fieldPath(fe)
				if d.failed[path[0]] {
					continue
				}
				errs.AddAt(path, errorMessage(fe))
			}
		} else {
			errs.Add(err.Error())
		}
	}

	checkLeadingStop(errs, d, "pickups", input.Pickups, input.Pickup)
	checkLeadingStop(errs, d, "dropoffs", input.Dropoffs, input.Dropoff)

	if !errs.Empty() {
		return Result{Errors: errs}
	}

	return Result{Reservation: input.normalize()}
}

// checkLeadingStop enforces that a stops list, when sent, starts with its primary field
func checkLeadingStop(errs *models.ErrorTree, d *decoder, key string, stops []string, primary string) {
	if d.failed[key] || len(stops) == 0 || primary == "" {
		return
	}
	if stops[0] != primary {
		errs.AddAt([]string{key, "0"}, "First stop must match "+strings.TrimSuffix(key, "s"))
	}
}

func (in reservationInput) normalize() *models.ReservationRequest {
	r := &models.ReservationRequest{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Phone:         in.Phone,
		Email:         in.Email,
		Pickup:        in.Pickup,
		Dropoff:       in.Dropoff,
		Date:          in.Date,
		Time:          in.Time,
		Flight:        in.Flight,
		Pickups:       nonEmptyList(in.Pickups),
		Dropoffs:      nonEmptyList(in.Dropoffs),
		PickupExtra:   nonEmptyList(in.PickupExtra),
		DropoffExtra:  nonEmptyList(in.DropoffExtra),
		Pax:           *in.Pax,
		BagsChecked:   in.BagsChecked,
		BagsCarry:     in.BagsCarry,
		Notes:         in.Notes,
		ReturnPickup:  in.ReturnPickup,
		ReturnDropoff: in.ReturnDropoff,
		ReturnDate:    in.ReturnDate,
		ReturnTime:    in.ReturnTime,
		ReturnFlight:  in.ReturnFlight,
		GDPR:          in.GDPR,
	}
	if in.Locale != "" {
		r.Locale = string(locale.Resolve(in.Locale))
	}
	return r
}

func nonEmptyList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

// fieldPath turns "pickup_extra[1]" into ["pickup_extra", "1"]
func fieldPath(fe validator.FieldError) []string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i > 0 && strings.HasSuffix(name, "]") {
		return []string{name[:i], name[i+1 : len(name)-1]}
	}
	return []string{name}
}

func errorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return "String must contain at least " + fe.Param() + " character(s)"
		case reflect.Slice:
			return "Array must contain at least " + fe.Param() + " element(s)"
		default:
			return "Number must be greater than or equal to " + fe.Param()
		}
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return "String must contain at most " + fe.Param() + " character(s)"
		case reflect.Slice:
			return "Array must contain at most " + fe.Param() + " element(s)"
		default:
			return "Number must be less than or equal to " + fe.Param()
		}
	default:
		return "Invalid input"
	}
}

// ValidationError carries the error tree of a rejected payload
type ValidationError struct {
	Errors *models.ErrorTree
}

func (e *ValidationError) Error() string {
	return "reservation rejected: " + strings.Join(e.Errors.Messages(), "; ")
}

// Unwrap allows errors.Is(err, ErrValidationFailed)
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrValidationFailed
}

// Err returns nil for an accepted payload and a *ValidationError otherwise
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Errors: r.Errors}
}
