package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/ivkovb/printstudio/internal/domain"
)

// Service composes the order notification emails. The provider renders the
// actual templates; this layer only maps an order onto the parameter names
// those templates expect. Some parameters are intentionally duplicated
// under several keys so stock provider templates keep working.
type Service struct {
	sender          Sender
	orderTemplateID string
	adminTemplateID string
	adminEmail      string
	fromName        string
}

// NewService creates the email composition service.
func NewService(sender Sender, orderTemplateID, adminTemplateID, adminEmail, fromName string) *Service {
	return &Service{
		sender:          sender,
		orderTemplateID: orderTemplateID,
		adminTemplateID: adminTemplateID,
		adminEmail:      adminEmail,
		fromName:        fromName,
	}
}

// OrderEmailData carries everything the notification templates need.
type OrderEmailData struct {
	OrderID string
	Order   domain.Order
}

// SendOrderConfirmation sends the customer confirmation for a new order.
func (s *Service) SendOrderConfirmation(ctx context.Context, data OrderEmailData) error {
	to := data.Order.UserEmail
	if to == "" {
		to = data.Order.CustomerInfo.Email
	}
	if to == "" {
		return ErrMissingRecipient
	}

	name := data.Order.UserName
	if name == "" {
		name = data.Order.CustomerInfo.Name
	}

	params := s.baseParams(data)
	params["to_email"] = to
	params["to_name"] = name
	// Duplicate keys for compatibility with stock provider templates
	params["email"] = to
	params["name"] = name

	if _, err := s.sender.Send(ctx, s.orderTemplateID, params); err != nil {
		return fmt.Errorf("failed to send order confirmation email: %w", err)
	}

	return nil
}

// SendAdminNotification sends the back-office alert for a new order.
func (s *Service) SendAdminNotification(ctx context.Context, data OrderEmailData) error {
	if s.adminEmail == "" {
		return ErrMissingRecipient
	}

	params := s.baseParams(data)
	params["to_email"] = s.adminEmail
	params["subject"] = fmt.Sprintf("Нова поръчка #%s", data.OrderID)
	params["customer_email"] = data.Order.CustomerInfo.Email
	params["shipping_address"] = fmt.Sprintf("%s, %s",
		data.Order.CustomerInfo.Address, data.Order.CustomerInfo.City)

	if _, err := s.sender.Send(ctx, s.adminTemplateID, params); err != nil {
		return fmt.Errorf("failed to send admin notification email: %w", err)
	}

	return nil
}

// baseParams builds the parameter map shared by both templates.
func (s *Service) baseParams(data OrderEmailData) map[string]interface{} {
	order := data.Order

	items := make([]map[string]interface{}, len(order.Items))
	for i, item := range order.Items {
		items[i] = map[string]interface{}{
			"name":  item.Name,
			"units": item.Quantity,
			"price": fmt.Sprintf("%.2f", item.TotalPrice),
		}
	}

	return map[string]interface{}{
		"from_name":       s.fromName,
		"order_id":        data.OrderID,
		"order_date":      order.CreatedAt.Format("02.01.2006"),
		"items_list":      formatItemsList(order.Items),
		"orders":          items,
		"total_price":     fmt.Sprintf("%.2f лв.", order.Total),
		"price":           fmt.Sprintf("%.2f", order.Total),
		"shipping_method": order.ShippingMethod.Name,
		"shipping_price":  fmt.Sprintf("%.2f лв.", order.ShippingMethod.Price),
		"cost": map[string]interface{}{
			"shipping": fmt.Sprintf("%.2f", order.ShippingMethod.Price),
			"tax":      "0.00",
			"total":    fmt.Sprintf("%.2f", order.Total),
		},
		"customer_name":    order.CustomerInfo.Name,
		"customer_phone":   order.CustomerInfo.Phone,
		"customer_address": order.CustomerInfo.Address,
		"customer_city":    order.CustomerInfo.City,
	}
}

// formatItemsList renders the line items as a plain text list for
// templates that take a single pre-formatted block.
func formatItemsList(items []domain.LineItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		desc := item.Name
		if item.SelectedColor != "" {
			desc = fmt.Sprintf("%s (%s)", desc, item.SelectedColor)
		}
		lines = append(lines, fmt.Sprintf("%dx %s - %.2f лв.", item.Quantity, desc, item.TotalPrice))
	}
	return strings.Join(lines, "\n")
}
