package service

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendBookingReceived(ctx context.Context, to, customerName, bookingCode string) error {
	body := fmt.Sprintf("Hello %s,\n\nWe have received your booking request %s. We will confirm it shortly.\n\nBest regards,\nThe RentalFleet Team", customerName, bookingCode)
	return s.send(to, fmt.Sprintf("Booking request %s received", bookingCode), body, nil)
}

func (s *emailService) SendNewBookingAlert(ctx context.Context, to, tenantName, bookingCode string) error {
	body := fmt.Sprintf("Hello %s,\n\nA new booking request %s is waiting for your confirmation.\n\nBest regards,\nThe RentalFleet Team", tenantName, bookingCode)
	return s.send(to, fmt.Sprintf("New booking request %s", bookingCode), body, nil)
}

func (s *emailService) SendBookingConfirmed(ctx context.Context, to, customerName, bookingCode string, attachments []string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s has been confirmed.", customerName, bookingCode)
	if len(attachments) > 0 {
		body += "\n\nYour documents:"
		for _, a := range attachments {
			body += "\n" + a
		}
	}
	body += "\n\nBest regards,\nThe RentalFleet Team"
	return s.send(to, fmt.Sprintf("Booking %s confirmed", bookingCode), body, nil)
}

func (s *emailService) SendReminder(ctx context.Context, to, subject, body string) error {
	return s.send(to, subject, body, nil)
}

func (s *emailService) send(to, subject, body string, attachFiles []string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	for _, f := range attachFiles {
		m.Attach(f)
	}

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}

	return nil
}
