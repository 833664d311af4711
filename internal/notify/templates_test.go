package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessengerText(t *testing.T) {
	baseURL := "https://arendol.example"

	t.Run("ChatUnread", func(t *testing.T) {
		text := MessengerText(baseURL, Event{
			Type: EventChatUnread,
			Data: map[string]string{"unreadCount": "3", "itemTitle": "Камера Sony"},
		})
		assert.Contains(t, text, "3 непрочитанных сообщений")
		assert.Contains(t, text, "«Камера Sony»")
		assert.Contains(t, text, baseURL+"/#chat")
	})

	t.Run("ReturnReminderRenterAndOwner", func(t *testing.T) {
		renter := MessengerText(baseURL, Event{
			Type: EventRentalReturnReminder,
			Data: map[string]string{"itemTitle": "Дрель", "isOwner": "false"},
		})
		assert.NotContains(t, renter, "арендатору")

		owner := MessengerText(baseURL, Event{
			Type: EventRentalReturnReminder,
			Data: map[string]string{"itemTitle": "Дрель", "isOwner": "true", "renterName": "Мария"},
		})
		assert.Contains(t, owner, "арендатору Мария")
	})

	t.Run("EmptyReasonRendersPlaceholder", func(t *testing.T) {
		text := MessengerText(baseURL, Event{
			Type: EventBookingRejected,
			Data: map[string]string{"itemTitle": "Дрель"},
		})
		assert.Contains(t, text, "Причина: Не указана")
	})

	t.Run("UnknownEventFallsBack", func(t *testing.T) {
		text := MessengerText(baseURL, Event{Type: "no_such_event"})
		assert.Equal(t, "Уведомление от Арендол", text)
	})
}

func TestEmailRendering(t *testing.T) {
	baseURL := "https://arendol.example"
	event := Event{
		Type: EventBookingApproved,
		Data: map[string]string{"itemTitle": "Дрель", "startDate": "10.06.2025", "endDate": "12.06.2025"},
	}

	assert.Equal(t, "Бронирование одобрено", EmailSubject(event))

	html := EmailHTML(baseURL, event)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "Арендол")
	assert.Contains(t, html, "Дрель")
	assert.Contains(t, html, "10.06.2025 - 12.06.2025")

	assert.Equal(t, "Уведомление от Арендол", EmailSubject(Event{Type: "no_such_event"}))
}
