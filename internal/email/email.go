// Package email is the transactional email collaborator. Templates are
// provider-managed; this package only composes parameter maps and posts
// them to the provider's send endpoint. Delivery is fire-and-forget from
// the order pipeline's perspective.
package email

import "context"

// Sender delivers one provider-templated email.
// Implementations target a transactional email API (EmailJS-style) or log
// instead of sending when no credentials are configured.
type Sender interface {
	// Send renders templateID with params on the provider side and
	// dispatches it. Returns the provider's message/request id if one is
	// available.
	Send(ctx context.Context, templateID string, params map[string]interface{}) (string, error)
}
