package contact

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Sender delivers a validated form.
type Sender interface {
	Send(ctx context.Context, form Form) error
}

// Client sends forms through the email API. It never retries.
type Client struct {
	http *resty.Client
	cfg  *Config
}

// NewClient creates a client from a finalized configuration.
func NewClient(cfg *Config, client *resty.Client) *Client {
	if client == nil {
		client = resty.New()
	}
	client.SetTimeout(cfg.TimeoutDuration())
	client.SetRetryCount(0)

	return &Client{http: client, cfg: cfg}
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Send validates and delivers form. Delivery failures wrap ErrDelivery.
func (c *Client) Send(ctx context.Context, form Form) error {
	if !c.cfg.Configured() {
		return ErrDisabled
	}

	form = form.Normalize()
	if err := form.Validate(); err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(sendRequest{
			ServiceID:  c.cfg.ServiceID,
			TemplateID: c.cfg.TemplateID,
			UserID:     c.cfg.PublicKey,
			TemplateParams: templateParams{
				Name:    form.Name,
				Email:   form.Email,
				Message: form.Message,
			},
		}).
		Post(c.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("%w: status %d: %s", ErrDelivery, resp.StatusCode(), resp.String())
	}
	return nil
}
