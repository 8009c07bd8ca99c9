// Package payments integrates the Paynow gateway for booking and quotation
// payments.
package payments

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/techrehub/chatbot-service/internal/domain/errors"
)

// Paynow endpoints.
const (
	paynowInitiateURL = "https://www.paynow.co.zw/interface/initiatetransaction"
)

// Gateway statuses as reported by Paynow.
const (
	GatewayStatusPaid             = "Paid"
	GatewayStatusAwaitingDelivery = "Awaiting Delivery"
	GatewayStatusDelivered        = "Delivered"
	GatewayStatusCancelled        = "Cancelled"
	GatewayStatusFailed           = "Failed"
)

// InitiateResult is the outcome of starting a gateway transaction.
type InitiateResult struct {
	// RedirectURL is where the user completes the payment.
	RedirectURL string

	// PollURL is the gateway's status endpoint for this transaction.
	PollURL string
}

// PollResult is a transaction status read from the gateway.
type PollResult struct {
	Status     string
	Amount     float64
	GatewayRef string
}

// Gateway abstracts the payment gateway so the service and its tests do not
// depend on Paynow's live endpoints.
type Gateway interface {
	// Initiate starts a web-based transaction.
	Initiate(ctx context.Context, reference string, amount float64, email string) (*InitiateResult, error)

	// Poll reads the current status of a transaction.
	Poll(ctx context.Context, pollURL string) (*PollResult, error)

	// VerifyCallback checks the hash on a gateway callback.
	VerifyCallback(values url.Values) bool
}

// PaynowGateway implements Gateway against the Paynow HTTP interface.
type PaynowGateway struct {
	integrationID  string
	integrationKey string
	resultURL      string
	returnURL      string
	initiateURL    string
	httpClient     *http.Client
}

// PaynowConfig holds Paynow gateway configuration.
type PaynowConfig struct {
	IntegrationID  string
	IntegrationKey string
	ResultURL      string
	ReturnURL      string

	// InitiateURL overrides the live endpoint, used in tests.
	InitiateURL string

	HTTPClient *http.Client
}

// NewPaynowGateway creates a Paynow gateway client.
func NewPaynowGateway(cfg PaynowConfig) (*PaynowGateway, error) {
	if cfg.IntegrationID == "" || cfg.IntegrationKey == "" {
		return nil, fmt.Errorf("paynow integration id and key are required")
	}

	initiateURL := cfg.InitiateURL
	if initiateURL == "" {
		initiateURL = paynowInitiateURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &PaynowGateway{
		integrationID:  cfg.IntegrationID,
		integrationKey: cfg.IntegrationKey,
		resultURL:      cfg.ResultURL,
		returnURL:      cfg.ReturnURL,
		initiateURL:    initiateURL,
		httpClient:     httpClient,
	}, nil
}

// Initiate starts a web-based transaction.
func (g *PaynowGateway) Initiate(ctx context.Context, reference string, amount float64, email string) (*InitiateResult, error) {
	form := url.Values{}
	form.Set("id", g.integrationID)
	form.Set("reference", reference)
	form.Set("amount", fmt.Sprintf("%.2f", amount))
	form.Set("additionalinfo", reference)
	form.Set("returnurl", g.returnURL)
	form.Set("resulturl", g.resultURL)
	form.Set("authemail", email)
	form.Set("status", "Message")
	form.Set("hash", g.hash(form))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.initiateURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build paynow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportError("paynow", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError("paynow", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewTransportError("paynow",
			fmt.Errorf("initiate returned status %d", resp.StatusCode))
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, errors.NewTransportError("paynow", fmt.Errorf("malformed response: %w", err))
	}
	if status := values.Get("status"); !strings.EqualFold(status, "Ok") {
		return nil, errors.NewTransportError("paynow",
			fmt.Errorf("initiate rejected: %s", values.Get("error")))
	}

	return &InitiateResult{
		RedirectURL: values.Get("browserurl"),
		PollURL:     values.Get("pollurl"),
	}, nil
}

// Poll reads the current status of a transaction.
func (g *PaynowGateway) Poll(ctx context.Context, pollURL string) (*PollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pollURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build poll request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewTransportError("paynow", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError("paynow", err)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, errors.NewTransportError("paynow", fmt.Errorf("malformed response: %w", err))
	}

	var amount float64
	fmt.Sscanf(values.Get("amount"), "%f", &amount)

	return &PollResult{
		Status:     values.Get("status"),
		Amount:     amount,
		GatewayRef: values.Get("paynowreference"),
	}, nil
}

// VerifyCallback checks the hash on a gateway callback. Paynow hashes the
// concatenated field values, in the order they were sent, followed by the
// integration key, with SHA-512.
func (g *PaynowGateway) VerifyCallback(values url.Values) bool {
	expected := values.Get("hash")
	if expected == "" {
		return false
	}

	var sb strings.Builder
	for _, field := range []string{"reference", "paynowreference", "amount", "status", "pollurl"} {
		sb.WriteString(values.Get(field))
	}
	sb.WriteString(g.integrationKey)

	sum := sha512.Sum512([]byte(sb.String()))
	computed := strings.ToUpper(hex.EncodeToString(sum[:]))
	return computed == strings.ToUpper(expected)
}

// hash signs an outgoing form. All values except the hash itself are
// concatenated in insertion order followed by the integration key.
func (g *PaynowGateway) hash(form url.Values) string {
	var sb strings.Builder
	for _, field := range []string{"id", "reference", "amount", "additionalinfo", "returnurl", "resulturl", "authemail", "status"} {
		sb.WriteString(form.Get(field))
	}
	sb.WriteString(g.integrationKey)

	sum := sha512.Sum512([]byte(sb.String()))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
