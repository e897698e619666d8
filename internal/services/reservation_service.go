package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/config"
	"github.com/letiskotransfer/transfer-api/internal/mailer"
	"github.com/letiskotransfer/transfer-api/internal/models"
	"github.com/letiskotransfer/transfer-api/internal/validation"
	apperrors "github.com/letiskotransfer/transfer-api/pkg/errors"
	"github.com/letiskotransfer/transfer-api/pkg/locale"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
	"github.com/letiskotransfer/transfer-api/pkg/mail"
	"github.com/letiskotransfer/transfer-api/pkg/metrics"
	"github.com/letiskotransfer/transfer-api/pkg/tracing"
)

// ReservationService validates reservation requests and mails them to the dispatch desk
type ReservationService struct {
	config     *config.Config
	validator  *validation.Validator
	formatter  *mailer.Formatter
	dispatcher mail.Dispatcher
}

// NewReservationService creates a new reservation service instance
func NewReservationService(cfg *config.Config, dispatcher mail.Dispatcher) *ReservationService {
	return &ReservationService{
		config:     cfg,
		validator:  validation.New(),
		formatter:  mailer.NewFormatter(cfg.Site.URL),
		dispatcher: dispatcher,
	}
}

// SubmitReservation runs one reservation through parse, validation, formatting
// and delivery. Outside production it stops after parsing and reports success
// without validating or sending anything.
//
// Returned errors match ErrMalformedInput, ErrValidationFailed (as a
// *validation.ValidationError), ErrConfigMissing or ErrDeliveryFailed.
func (s *ReservationService) SubmitReservation(ctx context.Context, body []byte, acceptLanguage string) error {
	ctx, span := tracing.StartSpan(ctx, "reservation.submit")
	defer span.End()

	raw, err := s.validator.Parse(body)
	if err != nil {
		metrics.ReservationSubmissions.WithLabelValues("invalid_json").Inc()
		tracing.RecordError(span, err)
		return err
	}

	if !s.config.IsProduction() {
		metrics.ReservationSubmissions.WithLabelValues("success_dev").Inc()
		logger.Info("Reservation received, not sent outside production",
			zap.String("app_env", s.config.Server.AppEnv),
			zap.ByteString("payload", raw))
		return nil
	}

	result := s.validator.Validate(raw)
	if err := result.Err(); err != nil {
		metrics.ReservationSubmissions.WithLabelValues("invalid").Inc()
		recordValidationErrors(result.Errors)
		logger.Warn("Reservation rejected", zap.Strings("errors", result.Errors.Messages()))
		tracing.RecordError(span, err)
		return err
	}

	reservation := result.Reservation
	if reservation.Locale == "" {
		reservation.Locale = string(locale.Match(acceptLanguage))
	}
	span.SetAttributes(
		attribute.Int("reservation.pax", reservation.Pax),
		attribute.Bool("reservation.has_return", reservation.HasReturn()),
		attribute.String("reservation.locale", reservation.Locale),
	)

	if missing := s.config.Mail.Missing(); len(missing) > 0 {
		err := apperrors.ConfigMissingError(missing...)
		metrics.ReservationSubmissions.WithLabelValues("config_error").Inc()
		logger.Error("Mail relay is not configured", zap.Strings("missing", missing))
		tracing.RecordError(span, err)
		return err
	}

	content, err := s.formatter.Format(reservation)
	if err != nil {
		metrics.ReservationSubmissions.WithLabelValues("error").Inc()
		logger.LogError(err, "Failed to render reservation email")
		tracing.RecordError(span, err)
		return fmt.Errorf("%w: %w", apperrors.ErrInternal, err)
	}

	msg := &mail.Message{
		From:    s.config.Mail.Sender(),
		To:      s.config.Mail.Recipient(),
		ReplyTo: reservation.Email,
		Subject: content.Subject,
		Text:    content.Text,
		HTML:    content.HTML,
	}
	if err := s.dispatcher.Send(ctx, msg); err != nil {
		metrics.ReservationSubmissions.WithLabelValues("delivery_error").Inc()
		logger.LogError(err, "Failed to send reservation email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		tracing.RecordError(span, err)
		return err
	}

	metrics.ReservationSubmissions.WithLabelValues("success").Inc()
	metrics.ReservationPassengers.Observe(float64(reservation.Pax))
	metrics.ReservationLocales.WithLabelValues(reservation.Locale).Inc()
	if reservation.HasReturn() {
		metrics.ReservationReturnTrips.Inc()
	}
	logger.Info("Reservation sent",
		zap.String("to", msg.To),
		zap.String("date", reservation.Date),
		zap.Int("pax", reservation.Pax),
		zap.Bool("has_return", reservation.HasReturn()))

	return nil
}

// ReserveLegacy backs the old /api/reserve route: it only checks that the
// required keys are present, logs the payload and sends nothing. It returns
// the missing keys.
func (s *ReservationService) ReserveLegacy(ctx context.Context, body []byte) ([]string, error) {
	_, span := tracing.StartSpan(ctx, "reservation.reserve_legacy")
	defer span.End()

	raw, err := s.validator.Parse(body)
	if err != nil {
		metrics.LegacyReservations.WithLabelValues("invalid_json").Inc()
		tracing.RecordError(span, err)
		return nil, err
	}

	missing := validation.Missing(raw)
	if len(missing) > 0 {
		metrics.LegacyReservations.WithLabelValues("missing_fields").Inc()
		logger.Warn("Legacy reservation missing fields", zap.Strings("missing", missing))
		return missing, nil
	}

	metrics.LegacyReservations.WithLabelValues("success").Inc()
	logger.Info("Legacy reservation received", zap.ByteString("payload", raw))
	return nil, nil
}

// MailConfigured reports whether all relay settings are present
func (s *ReservationService) MailConfigured() bool {
	return len(s.config.Mail.Missing()) == 0
}

func recordValidationErrors(errs *models.ErrorTree) {
	if errs == nil {
		return
	}
	if len(errs.Errors) > 0 {
		metrics.ReservationValidationErrors.WithLabelValues("_form").Inc()
	}
	for field, node := range errs.Fields {
		if !node.Empty() {
			metrics.ReservationValidationErrors.WithLabelValues(field).Inc()
		}
	}
}
