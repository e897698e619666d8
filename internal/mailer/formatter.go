// Package mailer renders validated reservations into the email sent to the
// dispatch desk. Labels are bilingual (Slovak / English) regardless of the
// form locale, since the desk reads both.
package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/pkg/locale"
)

// Placeholder stands in for an absent optional value
const Placeholder = "-"

// Content is the rendered form of one reservation
type Content struct {
	Subject string
	Text    string
	HTML    string
}

// Formatter renders reservations. It is safe for concurrent use.
type Formatter struct {
	siteURL string
}

// NewFormatter creates a formatter whose footer links to siteURL when set
func NewFormatter(siteURL string) *Formatter {
	return &Formatter{siteURL: strings.TrimRight(strings.TrimSpace(siteURL), "/")}
}

// Subject returns the subject line for r
func Subject(r *models.ReservationRequest) string {
	return fmt.Sprintf(labels.SubjectFormat, r.FirstName, r.LastName, r.Date)
}

// Format renders both bodies of r. Output depends only on r and the site URL.
func (f *Formatter) Format(r *models.ReservationRequest) (*Content, error) {
	v := f.newView(r)

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, v); err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	return &Content{
		Subject: v.Subject,
		Text:    renderText(v),
		HTML:    html.String(),
	}, nil
}

// view holds every derived value both renderings draw from, so the plaintext
// and HTML bodies cannot disagree on what is included.
type view struct {
	L       labelSet
	Subject string

	Name  string
	Phone string
	Email string

	Pickup       string
	PickupExtra  []string
	Dropoff      string
	DropoffExtra []string
	Date         string
	Time         string
	Flight       string

	Pax     int
	Baggage string
	Notes   string

	HasReturn bool
	Return    returnView

	Locale  string
	SiteURL string
}

type returnView struct {
	Pickup  string
	Dropoff string
	Date    string
	Time    string
	Flight  string
}

func (f *Formatter) newView(r *models.ReservationRequest) *view {
	v := &view{
		L:            labels,
		Subject:      Subject(r),
		Name:         strings.TrimSpace(r.FirstName + " " + r.LastName),
		Phone:        r.Phone,
		Email:        r.Email,
		Pickup:       r.Pickup,
		PickupExtra:  r.PickupExtra,
		Dropoff:      r.Dropoff,
		DropoffExtra: r.DropoffExtra,
		Date:         r.Date,
		Time:         r.Time,
		Flight:       orPlaceholder(r.Flight),
		Pax:          r.Pax,
		Baggage:      baggageSummary(r.BagsChecked, r.BagsCarry),
		Notes:        orPlaceholder(r.Notes),
		HasReturn:    r.HasReturn(),
		Locale:       string(locale.Resolve(r.Locale)),
		SiteURL:      f.siteURL,
	}
	if v.HasReturn {
		v.Return = returnView{
			Pickup:  orPlaceholder(r.ReturnPickup),
			Dropoff: orPlaceholder(r.ReturnDropoff),
			Date:    orPlaceholder(r.ReturnDate),
			Time:    orPlaceholder(r.ReturnTime),
			Flight:  orPlaceholder(r.ReturnFlight),
		}
	}
	return v
}

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return Placeholder
	}
	return s
}

// baggageSummary lists only the counts that were given
func baggageSummary(checked, carry *int) string {
	var parts []string
	if checked != nil {
		parts = append(parts, labels.BagsChecked+": "+strconv.Itoa(*checked))
	}
	if carry != nil {
		parts = append(parts, labels.BagsCarry+": "+strconv.Itoa(*carry))
	}
	if len(parts) == 0 {
		return labels.BaggageUnspecified
	}
	return strings.Join(parts, ", ")
}

func renderText(v *view) string {
	l := v.L
	lines := []string{
		l.Heading,
		"",
		l.SectionPersonal,
		l.Name + ": " + v.Name,
		l.Phone + ": " + v.Phone,
		l.Email + ": " + v.Email,
		"",
		l.SectionRide,
		l.Pickup + ": " + v.Pickup,
	}
	lines = appendStops(lines, l.PickupExtra, v.PickupExtra)
	lines = append(lines, l.Dropoff+": "+v.Dropoff)
	lines = appendStops(lines, l.DropoffExtra, v.DropoffExtra)
	lines = append(lines,
		l.Date+": "+v.Date,
		l.Time+": "+v.Time,
		l.Flight+": "+v.Flight,
		"",
		l.SectionPassengers,
		l.Pax+": "+strconv.Itoa(v.Pax)+" ("+l.PaxDisclaimer+")",
		l.Baggage+": "+v.Baggage,
		"",
		l.SectionNotes,
		l.Notes+": "+v.Notes,
		"",
		l.SectionReturn,
	)
	if v.HasReturn {
		lines = append(lines,
			l.Pickup+": "+v.Return.Pickup,
			l.Dropoff+": "+v.Return.Dropoff,
			l.Date+": "+v.Return.Date,
			l.Time+": "+v.Return.Time,
			l.Flight+": "+v.Return.Flight,
		)
	} else {
		lines = append(lines, l.NoReturn)
	}
	lines = append(lines, "", l.Locale+": "+v.Locale)
	if v.SiteURL != "" {
		lines = append(lines, "", l.Footer+" "+v.SiteURL)
	}
	return strings.Join(lines, "\n") + "\n"
}

func appendStops(lines []string, heading string, stops []string) []string {
	if len(stops) == 0 {
		return lines
	}
	lines = append(lines, heading+":")
	for _, stop := range stops {
		lines = append(lines, "  - "+stop)
	}
	return lines
}

var htmlTemplate = template.Must(template.New("reservation").Parse(htmlSource))
