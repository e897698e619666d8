package mail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"

	"github.com/letiskotransfer/transfer-api/config"
	apperrors "github.com/letiskotransfer/transfer-api/pkg/errors"
)

func message() *Message {
	return &Message{
		From:    "Letisko Transfer <relay@letiskotransfer.sk>",
		To:      "rezervacie@letiskotransfer.sk",
		ReplyTo: "jan@example.com",
		Subject: "New reservation: Jan Novak, 2025-06-01",
		Text:    "text body",
		HTML:    "<p>html body</p>",
	}
}

// closedPort returns a localhost port nothing listens on
func closedPort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestSend_MissingConfig(t *testing.T) {
	d := NewSMTPDispatcher(config.MailConfig{Host: "smtp.example.com", User: "relay@example.com"})

	assert.False(t, d.Configured())

	err := d.Send(context.Background(), message())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfigMissing))
	assert.False(t, errors.Is(err, apperrors.ErrDeliveryFailed))
	assert.Contains(t, err.Error(), "SMTP_PORT")
	assert.Contains(t, err.Error(), "SMTP_PASS")
}

func TestSend_RelayUnreachable(t *testing.T) {
	d := NewSMTPDispatcher(config.MailConfig{
		Host:           "127.0.0.1",
		Port:           closedPort(t),
		User:           "relay@letiskotransfer.sk",
		Password:       "secret",
		TimeoutSeconds: 2,
	})
	require.True(t, d.Configured())

	err := d.Send(context.Background(), message())

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeliveryFailed))
	var sendErr *SendError
	require.True(t, errors.As(err, &sendErr))
	assert.Equal(t, sendErr.Err.Error(), err.Error())
}

func TestSend_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	d := NewSMTPDispatcher(config.MailConfig{
		Host:           "127.0.0.1",
		Port:           closedPort(t),
		User:           "relay@letiskotransfer.sk",
		Password:       "secret",
		TimeoutSeconds: 2,
	})

	for i := 0; i < 3; i++ {
		require.Error(t, d.Send(context.Background(), message()))
	}

	err := d.Send(context.Background(), message())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeliveryFailed))
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
}

func TestSend_InvalidSender(t *testing.T) {
	d := NewSMTPDispatcher(config.MailConfig{Host: "127.0.0.1", Port: 2525, User: "u", Password: "p"})
	msg := message()
	msg.From = "not an address"

	err := d.Send(context.Background(), msg)

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeliveryFailed))
	assert.Contains(t, err.Error(), "invalid sender")
}

// fakeRelay accepts one connection on a local port and reports what serve saw
func fakeRelay(t *testing.T, serve func(conn net.Conn) string) (int, <-chan string) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() }) //nolint:errcheck

	seen := make(chan string, 1)
	go func() {
		conn, err := l.Accept()
		if err != nil {
			seen <- "accept: " + err.Error()
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second)) //nolint:errcheck
		seen <- serve(conn)
	}()
	return l.Addr().(*net.TCPAddr).Port, seen
}

func TestTransportSecurity(t *testing.T) {
	assert.Equal(t, SecurityImplicitTLS, TransportSecurity(ImplicitTLSPort))
	assert.Equal(t, SecuritySTARTTLS, TransportSecurity(587))
	assert.Equal(t, SecuritySTARTTLS, TransportSecurity(25))
}

func TestSend_PlainPortStartsWithSMTPGreeting(t *testing.T) {
	port, seen := fakeRelay(t, func(conn net.Conn) string {
		if _, err := conn.Write([]byte("220 relay.test ESMTP\r\n")); err != nil {
			return "write: " + err.Error()
		}
		line, err := bufio.NewReader(conn).ReadString('\n')
		if err != nil {
			return "read: " + err.Error()
		}
		return line
	})
	require.NotEqual(t, ImplicitTLSPort, port)

	d := NewSMTPDispatcher(config.MailConfig{
		Host:           "127.0.0.1",
		Port:           port,
		User:           "relay@letiskotransfer.sk",
		Password:       "secret",
		TimeoutSeconds: 2,
	})

	// the relay hangs up right after EHLO
	err := d.Send(context.Background(), message())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrDeliveryFailed))

	line := <-seen
	assert.True(t, strings.HasPrefix(line, "EHLO "), "first client command: %q", line)
}

func TestClientOptions_ImplicitTLSHandshakesFirst(t *testing.T) {
	port, seen := fakeRelay(t, func(conn net.Conn) string {
		first := make([]byte, 1)
		if _, err := io.ReadFull(conn, first); err != nil {
			return "read: " + err.Error()
		}
		return fmt.Sprintf("%#x", first[0])
	})

	cfg := config.MailConfig{
		Host:           "127.0.0.1",
		Port:           ImplicitTLSPort,
		User:           "relay@letiskotransfer.sk",
		Password:       "secret",
		TimeoutSeconds: 2,
	}
	// 465 is privileged, so the relay listens elsewhere while keeping the 465 options
	client, err := gomail.NewClient(cfg.Host, append(clientOptions(cfg), gomail.WithPort(port))...)
	require.NoError(t, err)
	m, err := buildMsg(message())
	require.NoError(t, err)

	err = client.DialAndSendWithContext(context.Background(), m)
	require.Error(t, err)

	// 0x16 opens a TLS handshake record; a plaintext client would wait for a greeting instead
	assert.Equal(t, "0x16", <-seen)
}

func TestBuildMsg(t *testing.T) {
	m, err := buildMsg(message())
	require.NoError(t, err)

	recipients, err := m.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"rezervacie@letiskotransfer.sk"}, recipients)
	assert.Equal(t, []string{message().Subject}, m.GetGenHeader(gomail.HeaderSubject))

	_, err = buildMsg(&Message{From: "relay@letiskotransfer.sk", To: ""})
	assert.Error(t, err)
}
