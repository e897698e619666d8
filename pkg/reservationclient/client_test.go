package reservationclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/letiskotransfer/transfer-api/pkg/httpclient"
)

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *map[string]any) {
	t.Helper()
	received := map[string]any{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ReservationPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body)) //nolint:errcheck
	}))
	t.Cleanup(server.Close)
	return server, &received
}

func TestClient_Submit_Success(t *testing.T) {
	server, received := newServer(t, http.StatusOK, `{"ok":true}`)
	client := New(server.URL+"/", httpclient.NewStandardClient(0, ""))

	result := client.Submit(context.Background(), map[string]any{"firstName": "Ján", "pax": "2"})

	assert.True(t, result.OK())
	assert.Equal(t, KindSuccess, result.Kind)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.NoError(t, result.Err)
	assert.Equal(t, "Ján", (*received)["firstName"])
}

func TestClient_Submit_ValidationError(t *testing.T) {
	server, _ := newServer(t, http.StatusBadRequest,
		`{"ok":false,"errors":{"_errors":[],"pax":{"_errors":["Number must be less than or equal to 8"]}}}`)
	client := New(server.URL, httpclient.NewStandardClient(0, ""))

	result := client.Submit(context.Background(), map[string]any{"pax": "12"})

	assert.False(t, result.OK())
	assert.Equal(t, KindServerError, result.Kind)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	require.NotNil(t, result.Errors)
	assert.Equal(t, []string{"Number must be less than or equal to 8"}, result.Errors.Get("pax").Errors)
	assert.Empty(t, result.Message())
	assert.Contains(t, result.Err.Error(), "HTTP 400")
}

func TestClient_Submit_ServerMessage(t *testing.T) {
	server, _ := newServer(t, http.StatusInternalServerError, `{"ok":false,"errors":{"_errors":["Mail config error"]}}`)
	client := New(server.URL, httpclient.NewStandardClient(0, ""))

	result := client.Submit(context.Background(), map[string]any{})

	assert.Equal(t, KindServerError, result.Kind)
	assert.Equal(t, http.StatusInternalServerError, result.Status)
	assert.Equal(t, "Mail config error", result.Message())
}

func TestClient_Submit_OKFalseWith200(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, `{"ok":false}`)
	client := New(server.URL, httpclient.NewStandardClient(0, ""))

	result := client.Submit(context.Background(), map[string]any{})

	assert.Equal(t, KindServerError, result.Kind)
	assert.Equal(t, http.StatusOK, result.Status)
}

func TestClient_Submit_NonJSONError(t *testing.T) {
	server, _ := newServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
	client := New(server.URL, httpclient.NewStandardClient(0, ""))

	result := client.Submit(context.Background(), map[string]any{})

	assert.Equal(t, KindServerError, result.Kind)
	assert.Equal(t, http.StatusBadGateway, result.Status)
	assert.Nil(t, result.Errors)
}

func TestClient_Submit_NetworkError(t *testing.T) {
	mockHTTP := new(MockHTTPClient)
	mockHTTP.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))
	client := New("http://api.invalid", mockHTTP)

	result := client.Submit(context.Background(), map[string]any{"firstName": "Ján"})

	assert.False(t, result.OK())
	assert.Equal(t, KindNetworkError, result.Kind)
	assert.Zero(t, result.Status)
	assert.EqualError(t, result.Err, "dial tcp: connection refused")
	mockHTTP.AssertExpectations(t)
}

func TestClient_Submit_UnencodablePayload(t *testing.T) {
	client := New("http://api.invalid", new(MockHTTPClient))

	result := client.Submit(context.Background(), map[string]any{"bad": make(chan int)})

	assert.Equal(t, KindNetworkError, result.Kind)
	assert.Error(t, result.Err)
}
