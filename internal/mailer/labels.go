package mailer

type labelSet struct {
	SubjectFormat string
	Heading       string

	SectionPersonal   string
	SectionRide       string
	SectionPassengers string
	SectionNotes      string
	SectionReturn     string

	Name  string
	Phone string
	Email string

	Pickup       string
	PickupExtra  string
	Dropoff      string
	DropoffExtra string
	Date         string
	Time         string
	Flight       string

	Pax                string
	PaxDisclaimer      string
	Baggage            string
	BagsChecked        string
	BagsCarry          string
	BaggageUnspecified string

	Notes    string
	NoReturn string
	Locale   string
	Footer   string
}

var labels = labelSet{
	SubjectFormat: "Nová rezervácia / New reservation: %s %s, %s",
	Heading:       "Nová rezervácia transferu / New transfer reservation",

	SectionPersonal:   "Osobné údaje / Personal details",
	SectionRide:       "Jazda / Ride",
	SectionPassengers: "Cestujúci a batožina / Passengers & baggage",
	SectionNotes:      "Špeciálne požiadavky / Special requests",
	SectionReturn:     "Spiatočná jazda / Return trip",

	Name:  "Meno / Name",
	Phone: "Telefón / Phone",
	Email: "E-mail",

	Pickup:       "Vyzdvihnutie / Pickup",
	PickupExtra:  "Ďalšie miesta vyzdvihnutia / Additional pickups",
	Dropoff:      "Cieľ / Drop-off",
	DropoffExtra: "Ďalšie ciele / Additional drop-offs",
	Date:         "Dátum / Date",
	Time:         "Čas / Time",
	Flight:       "Číslo letu / Flight number",

	Pax:                "Počet osôb / Passengers",
	PaxDisclaimer:      "cena nezávisí od počtu osôb / price does not depend on the number of passengers",
	Baggage:            "Batožina / Baggage",
	BagsChecked:        "podaná / checked",
	BagsCarry:          "príručná / carry-on",
	BaggageUnspecified: "neuvedené / unspecified",

	Notes:    "Poznámka / Notes",
	NoReturn: "Spiatočná jazda nebola požadovaná. / No return trip requested.",
	Locale:   "Jazyk formulára / Form language",
	Footer:   "Odoslané z rezervačného formulára / Sent from the booking form at",
}

const htmlSource = `<!DOCTYPE html>
<html lang="sk">
<head>
<meta charset="utf-8">
<title>{{.Subject}}</title>
</head>
<body style="margin:0;padding:24px;background:#f3f4f6;font-family:Arial,Helvetica,sans-serif;color:#111827;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="max-width:640px;margin:0 auto;background:#ffffff;border-radius:8px;">
<tr><td style="padding:24px;">
<h1 style="margin:0 0 16px;font-size:20px;">{{.L.Heading}}</h1>

<h2 style="margin:24px 0 8px;font-size:16px;color:#374151;">{{.L.SectionPersonal}}</h2>
<table role="presentation" cellpadding="4" cellspacing="0">
<tr><th align="left">{{.L.Name}}</th><td>{{.Name}}</td></tr>
<tr><th align="left">{{.L.Phone}}</th><td>{{.Phone}}</td></tr>
<tr><th align="left">{{.L.Email}}</th><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
</table>

<h2 style="margin:24px 0 8px;font-size:16px;color:#374151;">{{.L.SectionRide}}</h2>
<table role="presentation" cellpadding="4" cellspacing="0">
<tr><th align="left" valign="top">{{.L.Pickup}}</th><td>{{.Pickup}}{{if .PickupExtra}}
<div>{{.L.PickupExtra}}:</div>
<ul style="margin:4px 0;">{{range .PickupExtra}}<li>{{.}}</li>{{end}}</ul>{{end}}</td></tr>
<tr><th align="left" valign="top">{{.L.Dropoff}}</th><td>{{.Dropoff}}{{if .DropoffExtra}}
<div>{{.L.DropoffExtra}}:</div>
<ul style="margin:4px 0;">{{range .DropoffExtra}}<li>{{.}}</li>{{end}}</ul>{{end}}</td></tr>
<tr><th align="left">{{.L.Date}}</th><td>{{.Date}}</td></tr>
<tr><th align="left">{{.L.Time}}</th><td>{{.Time}}</td></tr>
<tr><th align="left">{{.L.Flight}}</th><td>{{.Flight}}</td></tr>
</table>

<h2 style="margin:24px 0 8px;font-size:16px;color:#374151;">{{.L.SectionPassengers}}</h2>
<table role="presentation" cellpadding="4" cellspacing="0">
<tr><th align="left">{{.L.Pax}}</th><td>{{.Pax}} <small>({{.L.PaxDisclaimer}})</small></td></tr>
<tr><th align="left">{{.L.Baggage}}</th><td>{{.Baggage}}</td></tr>
</table>

<h2 style="margin:24px 0 8px;font-size:16px;color:#374151;">{{.L.SectionNotes}}</h2>
<p style="margin:0;white-space:pre-wrap;">{{.Notes}}</p>

<h2 style="margin:24px 0 8px;font-size:16px;color:#374151;">{{.L.SectionReturn}}</h2>
{{if .HasReturn}}<table role="presentation" cellpadding="4" cellspacing="0">
<tr><th align="left">{{.L.Pickup}}</th><td>{{.Return.Pickup}}</td></tr>
<tr><th align="left">{{.L.Dropoff}}</th><td>{{.Return.Dropoff}}</td></tr>
<tr><th align="left">{{.L.Date}}</th><td>{{.Return.Date}}</td></tr>
<tr><th align="left">{{.L.Time}}</th><td>{{.Return.Time}}</td></tr>
<tr><th align="left">{{.L.Flight}}</th><td>{{.Return.Flight}}</td></tr>
</table>{{else}}<p style="margin:0;">{{.L.NoReturn}}</p>{{end}}

<p style="margin:24px 0 0;font-size:12px;color:#6b7280;">{{.L.Locale}}: {{.Locale}}{{if .SiteURL}}<br>{{.L.Footer}} <a href="{{.SiteURL}}">{{.SiteURL}}</a>{{end}}</p>
</td></tr>
</table>
</body>
</html>
`
