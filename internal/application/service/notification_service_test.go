package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/pkg/campfire"
)

type fakeChatSender struct {
	err      error
	messages []string
	rooms    []campfire.Room
}

func (f *fakeChatSender) Send(_ context.Context, room campfire.Room, message string) error {
	if f.err != nil {
		return f.err
	}
	f.rooms = append(f.rooms, room)
	f.messages = append(f.messages, message)
	return nil
}

type fakeMailingList struct {
	err    error
	emails []string
	forms  []string
}

func (f *fakeMailingList) Subscribe(_ context.Context, formID, email, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.forms = append(f.forms, formID)
	f.emails = append(f.emails, email)
	return nil
}

func newCustomer() *entity.Customer {
	return &entity.Customer{
		ID:                   1,
		FirstName:            "Jane",
		LastName:             "Doe",
		Email:                "jane@example.com",
		Source:               enum.SourceLatepoint,
		NewsletterSubscribed: true,
	}
}

func TestNotifyNewCustomerInProduction(t *testing.T) {
	chat := &fakeChatSender{}
	svc := NewNotificationService(chat, &fakeMailingList{}, "form-1", true)

	svc.NotifyNewCustomer(context.Background(), newCustomer())

	assert.Equal(t, []campfire.Room{campfire.RoomStudio}, chat.rooms)
	assert.Equal(t, []string{"🎉 New LatePoint Customer: Jane Doe (jane@example.com) just signed up!"}, chat.messages)
}

func TestNotifyNewCustomerSuppressedOutsideProduction(t *testing.T) {
	chat := &fakeChatSender{}
	svc := NewNotificationService(chat, &fakeMailingList{}, "form-1", false)

	svc.NotifyNewCustomer(context.Background(), newCustomer())

	assert.Empty(t, chat.messages)
}

func TestNotifyNewCustomerSwallowsSendFailure(t *testing.T) {
	chat := &fakeChatSender{err: errors.New("chat down")}
	svc := NewNotificationService(chat, &fakeMailingList{}, "form-1", true)

	// Must not panic or propagate
	svc.NotifyNewCustomer(context.Background(), newCustomer())
}

func TestSubscribeToMailingList(t *testing.T) {
	list := &fakeMailingList{}
	svc := NewNotificationService(&fakeChatSender{}, list, "form-1", true)

	svc.SubscribeToMailingList(context.Background(), newCustomer())

	assert.Equal(t, []string{"jane@example.com"}, list.emails)
	assert.Equal(t, []string{"form-1"}, list.forms)
}

func TestSubscribeRespectsConsent(t *testing.T) {
	list := &fakeMailingList{}
	svc := NewNotificationService(&fakeChatSender{}, list, "form-1", true)

	customer := newCustomer()
	customer.NewsletterSubscribed = false
	svc.SubscribeToMailingList(context.Background(), customer)

	assert.Empty(t, list.emails)
}

func TestSubscribeSwallowsFailure(t *testing.T) {
	list := &fakeMailingList{err: errors.New("list down")}
	svc := NewNotificationService(&fakeChatSender{}, list, "form-1", true)

	svc.SubscribeToMailingList(context.Background(), newCustomer())
}

func TestPlatformLabel(t *testing.T) {
	assert.Equal(t, "LatePoint", platformLabel(enum.SourceLatepoint))
	assert.Equal(t, "Square", platformLabel(enum.SourceSquare))
	assert.Equal(t, "Acuity", platformLabel(enum.SourceAcuity))
	assert.Equal(t, "Admin", platformLabel(enum.SourceAdmin))
}
