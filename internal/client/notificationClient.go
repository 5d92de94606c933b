package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/inditecg-developers/EmoscreenPaid/internal/config"
)

// NotificationQueue is the external mail queue. Enqueue returns immediately
// with QUEUED and a tracking message id; SENT/FAILED arrive later through the
// delivery report endpoint.
type NotificationQueue interface {
	Enqueue(ctx context.Context, req *EnqueueRequest) (*EnqueueResult, error)
}

type EnqueueRequest struct {
	TransactionRef string `json:"transaction_ref"`
	Template       string `json:"template"`
	ToEmail        string `json:"to_email"`
	Subject        string `json:"subject"`
	FromEmail      string `json:"from_email"`
}

type EnqueueResult struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

type notificationQueueImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
	fromEmail  string
}

func NewNotificationQueue(mailerCfg *config.Mailer) NotificationQueue {
	return &notificationQueueImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: mailerCfg.BaseApiURL,
		apiKey:     mailerCfg.APIKey,
		fromEmail:  mailerCfg.FromEmail,
	}
}

func (c *notificationQueueImpl) Enqueue(ctx context.Context, enqueueReq *EnqueueRequest) (*EnqueueResult, error) {
	if enqueueReq.FromEmail == "" {
		enqueueReq.FromEmail = c.fromEmail
	}

	body, err := json.Marshal(enqueueReq)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseApiURL+"/v1/messages",
		bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("notification enqueue: unexpected status %d", resp.StatusCode)
	}

	var result EnqueueResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode enqueue response: %w", err)
	}

	return &result, nil
}
