package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const DefaultURL = "https://kmd.cpsharetxt.com/send_message.php"

var (
	ErrValidation = errors.New("validation")
	ErrRejected   = errors.New("message rejected by remote")
)

type Message struct {
	Name    string `json:"name"    validate:"required,max=200"`
	Email   string `json:"email"   validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (m Message) normalized() Message {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
	return m
}

type Client struct {
	url        string
	httpClient *http.Client
	validate   *validator.Validate
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		validate:   validator.New(),
	}
}

// Send forwards the contact form. Only a {"status":"success"} answer counts as
// delivered.
func (c *Client) Send(ctx context.Context, m Message) error {
	m = m.normalized()
	if err := c.validate.Struct(m); err != nil {
		return fmt.Errorf("%v: %w", err, ErrValidation)
	}

	body, err := json.Marshal(m)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Status string `json:"status"`
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %w", resp.StatusCode, ErrRejected)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out.Status != "success" {
		return fmt.Errorf("remote status %q: %w", out.Status, ErrRejected)
	}
	return nil
}
