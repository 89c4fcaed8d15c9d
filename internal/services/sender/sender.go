// Package services реализует отправку почтовых напоминаний о списаниях.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	smtptransport "github.com/bizsubs/bizsubs/internal/lib/smtp"
	"github.com/bizsubs/bizsubs/internal/lib/sl"
	"github.com/bizsubs/bizsubs/internal/models"
)

// Transport описывает почтовый транспорт.
type Transport interface {
	Connect() (smtptransport.Client, error)
	GetSMTPUser() string
}

// SenderService отправляет письма-напоминания из сообщений очереди.
type SenderService struct {
	transport Transport
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport Transport) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendRenewalReminder отправляет пользователю письмо о списании завтра.
// Тело сообщения — JSON с данными RenewalInfo из очереди напоминаний.
func (s *SenderService) SendRenewalReminder(body []byte) error {
	var message models.RenewalInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	to := []string{message.Email}
	subject := fmt.Sprintf("Upcoming renewal: %s", message.ServiceName)
	bodyText := fmt.Sprintf(
		"Hi %s!\n\nYour subscription to %s renews tomorrow (%s) for %s %s.\n\nCancel it beforehand if you no longer need it.",
		message.Username, message.ServiceName,
		message.NextRenewalDate.Format("2006-01-02"),
		message.Cost.StringFixed(2), message.Currency)

	return s.sendEmail(to, subject, bodyText)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
