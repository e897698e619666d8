package form

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/letiskotransfer/transfer-api/pkg/locale"
)

// Message keys
const (
	msgRequired    = "required"
	msgConsent     = "consent"
	msgNetwork     = "network"
	msgHTTPStatus  = "http-status"
	msgCheckFields = "check-fields"
	msgSubmitted   = "submitted"
)

var messages = catalog.NewBuilder(catalog.Fallback(language.Slovak))

func init() {
	set := func(tag language.Tag, key, msg string) {
		if err := messages.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.Slovak, msgRequired, "Vyplňte toto pole.")
	set(language.Slovak, msgConsent, "Ak chcete pokračovať, začiarknite toto políčko.")
	set(language.Slovak, msgNetwork, "Nepodarilo sa spojiť so serverom. Skontrolujte pripojenie a skúste to znova.")
	set(language.Slovak, msgHTTPStatus, "Odoslanie zlyhalo (HTTP %d).")
	set(language.Slovak, msgCheckFields, "Skontrolujte zvýraznené polia.")
	set(language.Slovak, msgSubmitted, "Ďakujeme, vašu rezerváciu sme prijali.")

	set(language.English, msgRequired, "Please fill out this field.")
	set(language.English, msgConsent, "Please check this box if you want to proceed.")
	set(language.English, msgNetwork, "Could not reach the server. Check your connection and try again.")
	set(language.English, msgHTTPStatus, "Submission failed (HTTP %d).")
	set(language.English, msgCheckFields, "Please check the highlighted fields.")
	set(language.English, msgSubmitted, "Thank you, we have received your reservation.")

	set(language.German, msgRequired, "Füllen Sie dieses Feld aus.")
	set(language.German, msgConsent, "Klicken Sie dieses Kästchen an, wenn Sie fortfahren möchten.")
	set(language.German, msgNetwork, "Der Server ist nicht erreichbar. Bitte prüfen Sie Ihre Verbindung und versuchen Sie es erneut.")
	set(language.German, msgHTTPStatus, "Senden fehlgeschlagen (HTTP %d).")
	set(language.German, msgCheckFields, "Bitte prüfen Sie die markierten Felder.")
	set(language.German, msgSubmitted, "Vielen Dank, wir haben Ihre Reservierung erhalten.")
}

func printer(l locale.Locale) *message.Printer {
	return message.NewPrinter(l.Tag(), message.Catalog(messages))
}
