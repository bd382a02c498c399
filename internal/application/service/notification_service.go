package service

import (
	"context"
	"fmt"
	"log"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/pkg/campfire"
)

// ChatSender posts messages into chat rooms
type ChatSender interface {
	Send(ctx context.Context, room campfire.Room, message string) error
}

// MailingList subscribes addresses to an email form
type MailingList interface {
	Subscribe(ctx context.Context, formID, email, firstName string) error
}

// NotificationService handles the side effects of a new signup: a chat
// announcement and a mailing-list subscription. Both are best-effort and
// never fail the webhook that triggered them.
type NotificationService struct {
	chat        ChatSender
	mailingList MailingList
	formID      string
	production  bool
}

func NewNotificationService(chat ChatSender, mailingList MailingList, formID string, production bool) *NotificationService {
	return &NotificationService{
		chat:        chat,
		mailingList: mailingList,
		formID:      formID,
		production:  production,
	}
}

// NotifyNewCustomer announces a signup in the studio room. Suppressed
// outside production so staging webhooks do not spam the real room.
func (s *NotificationService) NotifyNewCustomer(ctx context.Context, customer *entity.Customer) {
	if !s.production || s.chat == nil {
		return
	}
	message := fmt.Sprintf("🎉 New %s Customer: %s (%s) just signed up!",
		platformLabel(customer.Source), customer.FullName(), customer.Email)
	if err := s.chat.Send(ctx, campfire.RoomStudio, message); err != nil {
		log.Printf("Failed to send new customer notification: %v", err)
	}
}

// SubscribeToMailingList adds a consenting customer to the email list
func (s *NotificationService) SubscribeToMailingList(ctx context.Context, customer *entity.Customer) {
	if !customer.NewsletterSubscribed || s.mailingList == nil {
		return
	}
	if err := s.mailingList.Subscribe(ctx, s.formID, customer.Email, customer.FirstName); err != nil {
		log.Printf("Failed to subscribe %s to mailing list: %v", customer.Email, err)
	}
}

func platformLabel(source enum.SignupSource) string {
	switch source {
	case enum.SourceLatepoint:
		return "LatePoint"
	case enum.SourceSquare:
		return "Square"
	case enum.SourceAcuity:
		return "Acuity"
	}
	return "Admin"
}
