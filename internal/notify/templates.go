package notify

import (
	"fmt"
	"time"
)

const fallbackText = "Уведомление от Арендол"

type template struct {
	subject string
	text    func(baseURL string, d map[string]string) string
	html    func(baseURL string, d map[string]string) string
}

func orUnspecified(reason string) string {
	if reason == "" {
		return "Не указана"
	}
	return reason
}

var templates = map[string]template{
	EventBookingNew: {
		subject: "Новое бронирование",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("У вас новое бронирование!\n\nЛот: %s\nАрендатор: %s\nПериод: %s - %s\nСумма: %s ₽",
				d["itemTitle"], d["renterName"], d["startDate"], d["endDate"], d["totalPrice"])
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Новое бронирование!</h2>
<p>У вас новое бронирование на лот <strong>"%s"</strong></p>
<table>
<tr><td><strong>Арендатор:</strong></td><td>%s</td></tr>
<tr><td><strong>Период:</strong></td><td>%s - %s</td></tr>
<tr><td><strong>Сумма:</strong></td><td>%s ₽</td></tr>
</table>
<p><a href="%s/profile/bookings">Посмотреть бронирования</a></p>`,
				d["itemTitle"], d["renterName"], d["startDate"], d["endDate"], d["totalPrice"], baseURL)
		},
	},

	EventBookingCancelled: {
		subject: "Бронирование отменено",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Бронирование отменено.\n\nЛот: %s\nПричина: %s",
				d["itemTitle"], orUnspecified(d["reason"]))
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Бронирование отменено</h2>
<p>Бронирование на лот <strong>"%s"</strong> было отменено.</p>
<p><strong>Причина:</strong> %s</p>`, d["itemTitle"], orUnspecified(d["reason"]))
		},
	},

	EventBookingCompleted: {
		subject: "Аренда завершена",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Аренда успешно завершена!\n\nЛот: %s\n\nПожалуйста, оставьте отзыв о сделке.",
				d["itemTitle"])
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Аренда завершена!</h2>
<p>Аренда лота <strong>"%s"</strong> успешно завершена.</p>
<p>Пожалуйста, оставьте отзыв о сделке.</p>
<p><a href="%s/profile/bookings">Оставить отзыв</a></p>`, d["itemTitle"], baseURL)
		},
	},

	EventBookingApprovalRequest: {
		subject: "Новый запрос на бронирование",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Новый запрос на бронирование!\n\nЛот: %s\nАрендатор: %s\nПериод: %s - %s\nСумма: %s ₽\n\nПодтвердите или отклоните запрос в течение 24 часов.",
				d["itemTitle"], d["renterName"], d["startDate"], d["endDate"], d["totalPrice"])
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Новый запрос на бронирование</h2>
<p>Поступил запрос на бронирование лота <strong>"%s"</strong></p>
<table>
<tr><td><strong>Арендатор:</strong></td><td>%s</td></tr>
<tr><td><strong>Период:</strong></td><td>%s - %s</td></tr>
<tr><td><strong>Сумма:</strong></td><td>%s ₽</td></tr>
</table>
<p><strong>Подтвердите или отклоните запрос в течение 24 часов.</strong></p>
<p><a href="%s/#bookings">Перейти к бронированиям</a></p>`,
				d["itemTitle"], d["renterName"], d["startDate"], d["endDate"], d["totalPrice"], baseURL)
		},
	},

	EventBookingApproved: {
		subject: "Бронирование одобрено",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Ваш запрос на бронирование одобрен!\n\nЛот: %s\nПериод: %s - %s\n\nСвяжитесь с владельцем для передачи вещи.",
				d["itemTitle"], d["startDate"], d["endDate"])
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Бронирование одобрено!</h2>
<p>Ваш запрос на бронирование лота <strong>"%s"</strong> одобрен владельцем.</p>
<p><strong>Период:</strong> %s - %s</p>
<p>Свяжитесь с владельцем для передачи вещи.</p>
<p><a href="%s/#bookings">Посмотреть бронирование</a></p>`,
				d["itemTitle"], d["startDate"], d["endDate"], baseURL)
		},
	},

	EventBookingPaymentRequired: {
		subject: "Оплатите комиссию сервиса",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Бронирование одобрено! Оплатите комиссию сервиса.\n\nЛот: %s\nКомиссия: %s ₽\n\nПерейдите в бронирования для оплаты: %s/#bookings",
				d["itemTitle"], d["commission"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Оплатите комиссию сервиса</h2>
<p>Бронирование лота <strong>"%s"</strong> одобрено.</p>
<p>Для завершения бронирования оплатите комиссию сервиса: <strong>%s ₽</strong></p>
<p><a href="%s/#bookings">Оплатить комиссию</a></p>`, d["itemTitle"], d["commission"], baseURL)
		},
	},

	EventBookingPaymentReceived: {
		subject: "Комиссия оплачена",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Комиссия сервиса за аренду \"%s\" оплачена!\n\nСвяжитесь с арендатором для передачи вещи и получения оплаты.",
				d["itemTitle"])
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Комиссия оплачена!</h2>
<p>Комиссия сервиса за аренду лота <strong>"%s"</strong> оплачена арендатором.</p>
<p>Свяжитесь с арендатором для передачи вещи и получения оплаты аренды + залога.</p>
<p><a href="%s/#bookings">Посмотреть бронирование</a></p>`, d["itemTitle"], baseURL)
		},
	},

	EventBookingRejected: {
		subject: "Бронирование отклонено",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Ваш запрос на бронирование отклонён.\n\nЛот: %s\nПричина: %s\n\nВы можете выбрать другой лот или попробовать позже.",
				d["itemTitle"], orUnspecified(d["reason"]))
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Бронирование отклонено</h2>
<p>Ваш запрос на бронирование лота <strong>"%s"</strong> был отклонён владельцем.</p>
<p><strong>Причина:</strong> %s</p>
<p>Вы можете выбрать другой лот или попробовать позже.</p>`,
				d["itemTitle"], orUnspecified(d["reason"]))
		},
	},

	EventReviewReceived: {
		subject: "Новый отзыв",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Вы получили новый отзыв!\n\nОценка: %s\nТекст: %s\n\nПосмотреть: %s/#profile",
				d["rating"], d["text"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Новый отзыв!</h2>
<p>Вы получили новый отзыв.</p>
<p><strong>Оценка:</strong> %s</p>
<p><strong>Текст:</strong> %s</p>
<p><a href="%s/#profile">Посмотреть в профиле</a></p>`, d["rating"], d["text"], baseURL)
		},
	},

	EventChatUnread: {
		subject: "Непрочитанные сообщения",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("У вас %s непрочитанных сообщений в чате по аренде «%s».\n\nПосмотреть: %s/#chat",
				d["unreadCount"], d["itemTitle"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Непрочитанные сообщения</h2>
<p>У вас <strong>%s</strong> непрочитанных сообщений в чате по аренде <strong>«%s»</strong>.</p>
<p><a href="%s/#chat">Перейти в чат</a></p>`, d["unreadCount"], d["itemTitle"], baseURL)
		},
	},

	EventModerationPendingItem: {
		subject: "Заявка на модерацию ожидает решения",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Заявка на модерацию лота «%s» ожидает решения уже 30 минут.\n\nПосмотреть: %s/#admin",
				d["itemTitle"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Ожидает модерации</h2>
<p>Заявка на модерацию лота <strong>«%s»</strong> ожидает решения уже 30 минут.</p>
<p><a href="%s/#admin">Перейти к модерации</a></p>`, d["itemTitle"], baseURL)
		},
	},

	EventModerationPendingUser: {
		subject: "Заявка на верификацию ожидает решения",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Заявка на верификацию пользователя «%s» ожидает решения уже 30 минут.\n\nПосмотреть: %s/#admin",
				d["userName"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Ожидает верификации</h2>
<p>Заявка на верификацию пользователя <strong>«%s»</strong> ожидает решения уже 30 минут.</p>
<p><a href="%s/#admin">Перейти к модерации</a></p>`, d["userName"], baseURL)
		},
	},

	EventRentalReturnReminder: {
		subject: "Напоминание о возврате",
		text: func(baseURL string, d map[string]string) string {
			if d["isOwner"] == "true" {
				return fmt.Sprintf("Напоминаем, завтра истекает срок аренды «%s» арендатору %s.\n\nПосмотреть: %s/#bookings",
					d["itemTitle"], d["renterName"], baseURL)
			}
			return fmt.Sprintf("Напоминаем, завтра истекает срок аренды «%s».\n\nПосмотреть: %s/#bookings",
				d["itemTitle"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			body := fmt.Sprintf("Напоминаем, завтра истекает срок аренды <strong>«%s»</strong>.", d["itemTitle"])
			if d["isOwner"] == "true" {
				body = fmt.Sprintf("Напоминаем, завтра истекает срок аренды <strong>«%s»</strong> арендатору <strong>%s</strong>.",
					d["itemTitle"], d["renterName"])
			}
			return fmt.Sprintf(`<h2>Напоминание о возврате</h2>
<p>%s</p>
<p><a href="%s/#bookings">Посмотреть бронирование</a></p>`, body, baseURL)
		},
	},

	EventReviewReminder: {
		subject: "Оставьте отзыв",
		text: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf("Оцените аренду «%s». Ваш отзыв поможет другим пользователям!\n\nПосмотреть: %s/#bookings",
				d["itemTitle"], baseURL)
		},
		html: func(baseURL string, d map[string]string) string {
			return fmt.Sprintf(`<h2>Оцените аренду</h2>
<p>Оцените аренду <strong>«%s»</strong>. Ваш отзыв поможет другим пользователям!</p>
<p><a href="%s/#bookings">Оставить отзыв</a></p>`, d["itemTitle"], baseURL)
		},
	},
}

// MessengerText renders the plain-text body used by Telegram and push.
func MessengerText(baseURL string, event Event) string {
	t, ok := templates[event.Type]
	if !ok {
		return fallbackText
	}
	return t.text(baseURL, event.Data)
}

// EmailSubject returns the subject line for the event.
func EmailSubject(event Event) string {
	t, ok := templates[event.Type]
	if !ok {
		return fallbackText
	}
	return t.subject
}

// EmailHTML renders the full email document for the event.
func EmailHTML(baseURL string, event Event) string {
	t, ok := templates[event.Type]
	if !ok {
		return "<p>" + fallbackText + "</p>"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: #667eea; padding: 30px; text-align: center;">
<h1 style="color: white; margin: 0;">Арендол</h1>
</div>
<div style="background: #f9fafb; padding: 30px; border: 1px solid #e5e7eb;">
%s
</div>
<div style="text-align: center; padding: 20px; color: #9ca3af; font-size: 12px;">
<p style="margin: 0;">© %d Арендол. Все права защищены.</p>
</div>
</body>
</html>`, t.subject, t.html(baseURL, event.Data), time.Now().Year())
}
