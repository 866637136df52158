package paymob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// keyExpirationSeconds is the fixed validity window of a payment key
const keyExpirationSeconds = 3600

// Client represents a Paymob Accept API client. A checkout runs three
// sequential calls (authenticate, register order, request payment key), each
// depending on the previous result, followed by a card iframe URL or one
// extra wallet call. Access tokens are short-lived, so every step
// re-authenticates; order and payment-key objects are single-use and a failed
// flow is restarted from the beginning.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new Paymob client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Authenticate exchanges the static API key for a short-lived access token
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	body, err := c.doRequest(ctx, "auth/tokens", authRequest{APIKey: c.config.APIKey})
	if err != nil {
		return "", AsError(err, http.StatusBadGateway, "failed to authenticate with payment gateway")
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", AsError(err, http.StatusBadGateway, "failed to decode gateway auth response")
	}
	return resp.Token, nil
}

// RegisterOrder registers an order with the gateway and returns the
// gateway-owned order id
func (c *Client) RegisterOrder(ctx context.Context, items []OrderItem, amountCents int64) (int64, error) {
	accessToken, err := c.Authenticate(ctx)
	if err != nil {
		return 0, err
	}

	req := orderRequest{
		AuthToken:      accessToken,
		DeliveryNeeded: "false",
		AmountCents:    amountCents,
		Currency:       c.config.Currency,
		Items:          items,
	}

	// Order registration failures always surface as a client-facing 400,
	// whatever the gateway answered
	body, err := c.doRequest(ctx, "ecommerce/orders", req)
	if err != nil {
		return 0, &Error{Status: http.StatusBadRequest, Message: "failed to register order", Err: err}
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, &Error{Status: http.StatusBadRequest, Message: "failed to register order", Err: err}
	}
	return resp.ID, nil
}

// paymentKey requests a single-use payment key for a registered order. The
// integration id selects the payment method configuration.
func (c *Client) paymentKey(ctx context.Context, amountCents int64, billing BillingData, orderID int64, integrationID int) (string, error) {
	accessToken, err := c.Authenticate(ctx)
	if err != nil {
		return "", err
	}

	req := paymentKeyRequest{
		AuthToken:     accessToken,
		AmountCents:   amountCents,
		Expiration:    keyExpirationSeconds,
		OrderID:       orderID,
		BillingData:   billing.withDefaults(),
		Currency:      c.config.Currency,
		IntegrationID: integrationID,
	}

	body, err := c.doRequest(ctx, "acceptance/payment_keys", req)
	if err != nil {
		return "", AsError(err, http.StatusBadRequest, "failed to obtain payment key")
	}

	var resp paymentKeyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", AsError(err, http.StatusBadRequest, "failed to decode payment key response")
	}
	return resp.Token, nil
}

// PayWithCard finalizes a card checkout. It requests a payment key for the
// card integration and builds the hosted iframe URL; no further network call
// is made.
func (c *Client) PayWithCard(ctx context.Context, amountCents int64, billing BillingData, orderID int64) (string, error) {
	key, err := c.paymentKey(ctx, amountCents, billing, orderID, c.config.CardIntegrationID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/acceptance/iframes/%s?payment_token=%s", c.config.BaseURL, c.config.IframeID, key), nil
}

// PayWithWallet finalizes a mobile-wallet checkout. It requests a payment key
// for the wallet integration, then performs one more call presenting the key
// and the phone number as the payment source, and returns the gateway
// redirect URL.
func (c *Client) PayWithWallet(ctx context.Context, amountCents int64, billing BillingData, orderID int64, phoneNumber string) (string, error) {
	key, err := c.paymentKey(ctx, amountCents, billing, orderID, c.config.WalletIntegrationID)
	if err != nil {
		return "", err
	}

	req := walletPayRequest{
		Source: walletSource{
			Identifier: phoneNumber,
			Subtype:    "WALLET",
		},
		Token: key,
	}

	body, err := c.doRequest(ctx, "acceptance/payments/pay", req)
	if err != nil {
		return "", AsError(err, http.StatusBadRequest, "failed to execute wallet payment")
	}

	var resp walletPayResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", AsError(err, http.StatusBadRequest, "failed to decode wallet payment response")
	}
	return resp.RedirectURL, nil
}

// doRequest performs an HTTP request against the Paymob API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: "failed to encode gateway request", Err: err}
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, &Error{Status: http.StatusInternalServerError, Message: "failed to build gateway request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Status: http.StatusBadGateway, Message: "payment gateway unreachable", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: http.StatusBadGateway, Message: "failed to read gateway response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status := http.StatusBadRequest
		message := "payment gateway rejected the request"
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			status = http.StatusUnauthorized
			message = "payment gateway authentication failed"
		} else if resp.StatusCode >= 500 {
			status = http.StatusBadGateway
			message = "payment gateway error"
		}
		return nil, &Error{
			Status:  status,
			Message: message,
			Err:     fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body)),
		}
	}

	return body, nil
}
