package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendLeadAlert(name, email, service string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	salesEmail  string
}

func NewEmailService(host string, port int, username, password, senderEmail, salesEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		salesEmail:  salesEmail,
	}
}

func (s *emailService) SendLeadAlert(name, email, service string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", s.salesEmail)
	m.SetHeader("Subject", "New Lead Captured")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New Lead Captured</h2>
			<p>A visitor just completed onboarding in the chat widget.</p>
			<table style="border-collapse: collapse;">
				<tr><td style="padding: 4px 12px 4px 0;"><b>Name</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Email</b></td><td>%s</td></tr>
				<tr><td style="padding: 4px 12px 4px 0;"><b>Service</b></td><td>%s</td></tr>
			</table>
		</div>
	`, name, email, service)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send lead alert for %s: %v\n", email, err)
		return err
	}

	fmt.Printf("[MAILER] Lead alert sent for %s\n", email)
	return nil
}
