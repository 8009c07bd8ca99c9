package payments_test

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
	"github.com/techrehub/chatbot-service/internal/services/payments"
)

func newGateway(t *testing.T, initiateURL string) *payments.PaynowGateway {
	t.Helper()

	gateway, err := payments.NewPaynowGateway(payments.PaynowConfig{
		IntegrationID:  "1234",
		IntegrationKey: "secret-key",
		ResultURL:      "https://bot.test/payments/paynow/callback",
		ReturnURL:      "https://bot.test/thanks",
		InitiateURL:    initiateURL,
	})
	require.NoError(t, err)
	return gateway
}

func TestNewPaynowGateway_RequiresCredentials(t *testing.T) {
	_, err := payments.NewPaynowGateway(payments.PaynowConfig{IntegrationID: "1234"})

	assert.Error(t, err)
}

func TestInitiate_Success(t *testing.T) {
	var received url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = r.PostForm

		response := url.Values{}
		response.Set("status", "Ok")
		response.Set("browserurl", "https://paynow.test/pay/abc")
		response.Set("pollurl", "https://paynow.test/poll/abc")
		_, _ = w.Write([]byte(response.Encode()))
	}))
	defer server.Close()

	gateway := newGateway(t, server.URL)

	result, err := gateway.Initiate(context.Background(), "BK-20260101-ABCD1234", 50, "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, "https://paynow.test/pay/abc", result.RedirectURL)
	assert.Equal(t, "https://paynow.test/poll/abc", result.PollURL)

	assert.Equal(t, "1234", received.Get("id"))
	assert.Equal(t, "BK-20260101-ABCD1234", received.Get("reference"))
	assert.Equal(t, "50.00", received.Get("amount"))
	assert.NotEmpty(t, received.Get("hash"))
}

func TestInitiate_RejectedByGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := url.Values{}
		response.Set("status", "Error")
		response.Set("error", "invalid id")
		_, _ = w.Write([]byte(response.Encode()))
	}))
	defer server.Close()

	gateway := newGateway(t, server.URL)

	_, err := gateway.Initiate(context.Background(), "BK-20260101-ABCD1234", 50, "")

	require.Error(t, err)
	assert.True(t, errors.IsTransportError(err))
}

func TestInitiate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := newGateway(t, server.URL)

	_, err := gateway.Initiate(context.Background(), "BK-20260101-ABCD1234", 50, "")

	require.Error(t, err)
	assert.True(t, errors.IsTransportError(err))
}

func TestPoll_ParsesStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := url.Values{}
		response.Set("status", payments.GatewayStatusPaid)
		response.Set("amount", "50.00")
		response.Set("paynowreference", "987654")
		_, _ = w.Write([]byte(response.Encode()))
	}))
	defer server.Close()

	gateway := newGateway(t, "https://unused.test")

	result, err := gateway.Poll(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, payments.GatewayStatusPaid, result.Status)
	assert.Equal(t, 50.0, result.Amount)
	assert.Equal(t, "987654", result.GatewayRef)
}

func TestVerifyCallback(t *testing.T) {
	gateway := newGateway(t, "https://unused.test")

	values := url.Values{}
	values.Set("reference", "BK-20260101-ABCD1234")
	values.Set("paynowreference", "987654")
	values.Set("amount", "50.00")
	values.Set("status", "Paid")
	values.Set("pollurl", "https://paynow.test/poll/abc")

	var sb strings.Builder
	for _, field := range []string{"reference", "paynowreference", "amount", "status", "pollurl"} {
		sb.WriteString(values.Get(field))
	}
	sb.WriteString("secret-key")
	sum := sha512.Sum512([]byte(sb.String()))
	values.Set("hash", strings.ToUpper(hex.EncodeToString(sum[:])))

	assert.True(t, gateway.VerifyCallback(values))

	values.Set("amount", "500.00")
	assert.False(t, gateway.VerifyCallback(values), "a tampered field must fail verification")

	values.Del("hash")
	assert.False(t, gateway.VerifyCallback(values))
}
