package service

import (
	"context"
	"log/slog"
	"net/url"
)

// ContactInput holds the fields of the contact form.
type ContactInput struct {
	Name    string `form:"name" validate:"required"`
	Email   string `form:"email" validate:"omitempty,email"`
	Message string `form:"message"`
}

// ContactService acknowledges contact messages. Messages are not delivered
// anywhere.
type ContactService struct {
	logger *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(logger *slog.Logger) *ContactService {
	return &ContactService{logger: logger}
}

// Acknowledge returns the thank-you text for in.
func (s *ContactService) Acknowledge(ctx context.Context, in ContactInput) string {
	s.logger.InfoContext(ctx, "contact message received",
		slog.Int("message_length", len(in.Message)),
	)
	return "Thanks " + in.Name + "! We received your message."
}

// QuickSearch builds the vehicles page URL for the quick search form.
// Parameters keep their form order: pickup, then drop.
func QuickSearch(pickup, drop string) string {
	return "/vehicles?pickup=" + url.QueryEscape(pickup) + "&drop=" + url.QueryEscape(drop)
}
