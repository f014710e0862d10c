package services

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// EmailService is the external OTP delivery channel: send(address, message).
type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	from     string
	host     string
	port     int
	username string
	password string
}

func NewEmailService() EmailService {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &emailService{
		from:     os.Getenv("SMTP_USERNAME"),
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	if e.host == "" || e.username == "" {
		return ErrNoTransport
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", msg)

	d := gomail.NewDialer(e.host, e.port, e.username, e.password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}
