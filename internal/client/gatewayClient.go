package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/config"
)

type GatewayClient interface {
	// CreateOrder registers the payment intent with the gateway and returns
	// the gateway-side order id the checkout widget needs.
	CreateOrder(ctx context.Context, receipt string, amountPaise int64, currency string) (string, error)
}

type gatewayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	keyID      string
	keySecret  string
}

type gatewayCreateOrderResult struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func NewGatewayClient(razorpayCfg *config.Razorpay) GatewayClient {
	creds := razorpayCfg.Credentials()
	return &gatewayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: razorpayCfg.BaseApiURL,
		keyID:      creds.KeyID,
		keySecret:  creds.KeySecret,
	}
}

func (c *gatewayClientImpl) CreateOrder(ctx context.Context, receipt string, amountPaise int64, currency string) (string, error) {
	payload := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseApiURL+"/v1/orders",
		bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gateway create order: unexpected status %d", resp.StatusCode)
	}

	var result gatewayCreateOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("gateway create order: empty order id")
	}

	return result.ID, nil
}
