package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Courier sends templated messages through the Courier send API.
type Courier struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewCourier(baseURL, token string, timeout time.Duration) *Courier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Courier{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
	}
}

type courierRequest struct {
	Message courierMessage `json:"message"`
}

type courierMessage struct {
	To       courierRecipient  `json:"to"`
	Template string            `json:"template"`
	Data     map[string]string `json:"data"`
}

type courierRecipient struct {
	Email string `json:"email"`
}

func (c *Courier) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(courierRequest{
		Message: courierMessage{
			To:       courierRecipient{Email: msg.To},
			Template: msg.Template,
			Data:     msg.Data,
		},
	})
	if err != nil {
		return fmt.Errorf("encode courier message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build courier request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send courier message to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("courier responded %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return nil
}
