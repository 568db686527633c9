// services/notification_service.go - Rating Reminder Emails
package services

import (
	"log"
	"os"
	"strconv"

	"raterware/models"

	gomail "gopkg.in/gomail.v2"
	"gorm.io/gorm"
)

// Ratings are due on the 25th; reminders go out on fixed days before.
const (
	reminderDayOneWeek   = 18
	reminderDayThreeDays = 22
	reminderDayOneDay    = 24
)

type NotificationService struct {
	db     *gorm.DB
	dialer *gomail.Dialer
	from   string
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	port, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if port == 0 {
		port = 587
	}

	return &NotificationService{
		db: db,
		dialer: gomail.NewDialer(
			os.Getenv("MAIL_SERVER"),
			port,
			os.Getenv("MAIL_USERNAME"),
			os.Getenv("MAIL_PASSWORD"),
		),
		from: os.Getenv("MAIL_USERNAME"),
	}
}

// ReminderKind maps a day of month to the settings flag it corresponds to,
// or "" when no reminder is due that day.
func ReminderKind(dayOfMonth int) string {
	switch dayOfMonth {
	case reminderDayOneWeek:
		return "1_week"
	case reminderDayThreeDays:
		return "3_days"
	case reminderDayOneDay:
		return "1_day"
	default:
		return ""
	}
}

// ClientsToNotify returns the settings rows of clients that opted into the
// reminder due on the given day of month.
func (s *NotificationService) ClientsToNotify(dayOfMonth int) ([]models.Settings, error) {
	kind := ReminderKind(dayOfMonth)
	if kind == "" {
		return nil, nil
	}

	var settings []models.Settings
	err := s.db.Where("notify_"+kind+" = ?", true).Find(&settings).Error
	return settings, err
}

// SendReminders emails every user of every client due a reminder today.
func (s *NotificationService) SendReminders(dayOfMonth int) error {
	settings, err := s.ClientsToNotify(dayOfMonth)
	if err != nil {
		return err
	}

	for _, st := range settings {
		var users []models.User
		if err := s.db.Where("client_id = ?", st.ClientID).Find(&users).Error; err != nil {
			return err
		}

		for _, user := range users {
			if err := s.sendReminderEmail(user.Email); err != nil {
				log.Printf("Failed to send reminder to %s: %v", user.Email, err)
			}
		}
	}

	return nil
}

func (s *NotificationService) sendReminderEmail(to string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Upcoming Rating Reminder")
	m.SetBody("text/html", `
	<p>Dear User,</p>

	<p>This is a reminder that your team rating is due on the 25th of this month.</p>

	<p>You can perform the rating at <a href="https://www.raterware.com">Raterware</a>.</p>

	<p>Best regards,<br>
	The Raterware Team</p>
	`)

	return s.dialer.DialAndSend(m)
}
