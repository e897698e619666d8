package services

import (
	"context"
)

// ReservationServiceInterface defines the interface for reservation service operations
type ReservationServiceInterface interface {
	SubmitReservation(ctx context.Context, body []byte, acceptLanguage string) error
	ReserveLegacy(ctx context.Context, body []byte) ([]string, error)
	MailConfigured() bool
}
