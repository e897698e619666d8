// Package mail delivers rendered reservations through an authenticated SMTP relay.
package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/letiskotransfer/transfer-api/config"
	"github.com/letiskotransfer/transfer-api/pkg/circuitbreaker"
	apperrors "github.com/letiskotransfer/transfer-api/pkg/errors"
	"github.com/letiskotransfer/transfer-api/pkg/logger"
	"github.com/letiskotransfer/transfer-api/pkg/metrics"
)

// ImplicitTLSPort is the submission port that speaks TLS from the first byte
const ImplicitTLSPort = 465

// Transport security modes
const (
	SecurityImplicitTLS = "implicit-tls"
	SecuritySTARTTLS    = "starttls-opportunistic"
)

const defaultTimeout = 15 * time.Second

// Message is one outgoing email
type Message struct {
	From    string
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Dispatcher sends messages
type Dispatcher interface {
	Send(ctx context.Context, msg *Message) error
}

// SendError is a delivery failure. Its message is the underlying relay error.
type SendError struct {
	Err error
}

func (e *SendError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the delivery sentinel and the transport error
func (e *SendError) Unwrap() []error {
	return []error{apperrors.ErrDeliveryFailed, e.Err}
}

// SMTPDispatcher sends mail over go-mail, one connection per message
type SMTPDispatcher struct {
	cfg     config.MailConfig
	breaker *gobreaker.CircuitBreaker
}

// NewSMTPDispatcher creates a dispatcher for the given relay settings.
// Settings are checked on every Send, not here.
func NewSMTPDispatcher(cfg config.MailConfig) *SMTPDispatcher {
	return &SMTPDispatcher{
		cfg:     cfg,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("smtp-relay")),
	}
}

// Configured reports whether all four relay settings are present
func (d *SMTPDispatcher) Configured() bool {
	return len(d.cfg.Missing()) == 0
}

// Send delivers msg synchronously. Missing relay settings yield an
// ErrConfigMissing error before any connection is attempted; everything
// else is a *SendError.
func (d *SMTPDispatcher) Send(ctx context.Context, msg *Message) error {
	if missing := d.cfg.Missing(); len(missing) > 0 {
		return apperrors.ConfigMissingError(missing...)
	}

	m, err := buildMsg(msg)
	if err != nil {
		return &SendError{Err: err}
	}

	client, err := gomail.NewClient(d.cfg.Host, clientOptions(d.cfg)...)
	if err != nil {
		return &SendError{Err: fmt.Errorf("create smtp client: %w", err)}
	}

	start := time.Now()
	err = circuitbreaker.Run(d.breaker, func() error {
		return client.DialAndSendWithContext(ctx, m)
	})
	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.MailSendDuration.WithLabelValues("error").Observe(duration)
		metrics.MailSendTotal.WithLabelValues("error").Inc()
		logger.LogAPICall("smtp", "send", "error", duration,
			zap.String("host", d.cfg.Host),
			zap.Int("port", d.cfg.Port),
			zap.String("security", TransportSecurity(d.cfg.Port)),
			zap.Bool("rejected_by_breaker", circuitbreaker.IsRejected(err)),
			zap.Error(err))
		return &SendError{Err: err}
	}

	metrics.MailSendDuration.WithLabelValues("success").Observe(duration)
	metrics.MailSendTotal.WithLabelValues("success").Inc()
	logger.LogAPICall("smtp", "send", "success", duration,
		zap.String("host", d.cfg.Host),
		zap.Int("port", d.cfg.Port),
		zap.String("security", TransportSecurity(d.cfg.Port)))
	return nil
}

// TransportSecurity names the TLS mode used for port
func TransportSecurity(port int) string {
	if port == ImplicitTLSPort {
		return SecurityImplicitTLS
	}
	return SecuritySTARTTLS
}

func clientOptions(cfg config.MailConfig) []gomail.Option {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Password),
		gomail.WithTimeout(timeout),
	}
	switch TransportSecurity(cfg.Port) {
	case SecurityImplicitTLS:
		opts = append(opts, gomail.WithSSL())
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	return opts
}

func buildMsg(msg *Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			logger.Warn("Ignoring invalid reply-to address", zap.String("reply_to", msg.ReplyTo), zap.Error(err))
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
