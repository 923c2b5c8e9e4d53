package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxErrorBodyBytes сколько байт тела ответа попадает в текст ошибки
const maxErrorBodyBytes = 512

// Client клиент внешнего вебхука уведомлений о бронированиях
type Client struct {
	url        string
	apiKey     string
	source     string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента вебхука
func NewClient(url, apiKey, source string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		source: source,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send отправляет одно уведомление
// deliveryID уникален для уведомления и одинаков для всех повторных попыток
func (c *Client) Send(ctx context.Context, deliveryID string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Source", c.source)
	req.Header.Set("X-Webhook-Event", payload.Event)
	req.Header.Set("X-Webhook-Delivery", deliveryID)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(respBody))
	}

	// Дочитываем тело, чтобы соединение вернулось в пул
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
