package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RESTSender implements Sender against an EmailJS-style transactional API:
// the provider owns the templates, the request carries only the service id,
// template id, public key, and template parameters.
type RESTSender struct {
	apiURL    string
	serviceID string
	publicKey string
	client    *http.Client
}

type restSendRequest struct {
	ServiceID      string                 `json:"service_id"`
	TemplateID     string                 `json:"template_id"`
	UserID         string                 `json:"user_id"`
	TemplateParams map[string]interface{} `json:"template_params"`
}

// NewRESTSender creates a sender for the configured provider endpoint.
func NewRESTSender(apiURL, serviceID, publicKey string) *RESTSender {
	return &RESTSender{
		apiURL:    apiURL,
		serviceID: serviceID,
		publicKey: publicKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Send posts one templated email to the provider.
func (s *RESTSender) Send(ctx context.Context, templateID string, params map[string]interface{}) (string, error) {
	if templateID == "" {
		return "", ErrMissingTemplate
	}

	payload := restSendRequest{
		ServiceID:      s.serviceID,
		TemplateID:     templateID,
		UserID:         s.publicKey,
		TemplateParams: params,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", ErrProviderRejected(resp.StatusCode, string(body))
	}

	// The provider responds with a plain OK body, not a message id; the
	// request id header is the closest thing to a receipt.
	return resp.Header.Get("X-Request-Id"), nil
}

// DemoSender logs instead of sending. Used when email credentials are not
// configured, so local environments exercise the full pipeline without a
// provider account.
type DemoSender struct {
	logger *slog.Logger
}

// NewDemoSender creates a logging no-op sender.
func NewDemoSender(logger *slog.Logger) *DemoSender {
	return &DemoSender{logger: logger}
}

// Send logs the would-be email and reports success.
func (s *DemoSender) Send(ctx context.Context, templateID string, params map[string]interface{}) (string, error) {
	if templateID == "" {
		return "", ErrMissingTemplate
	}
	s.logger.Info("email demo mode, not sending",
		slog.String("template_id", templateID),
		slog.Any("to", params["to_email"]),
	)
	return "demo", nil
}
