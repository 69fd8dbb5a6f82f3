package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional email over SMTP.
type Mailer struct {
	host     string
	port     int
	username string
	password string
}

func NewMailer(host string, port int, username, password string) *Mailer {
	return &Mailer{host: host, port: port, username: username, password: password}
}

// SendEmail sends an HTML email using the configured SMTP account.
func (m *Mailer) SendEmail(to string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.username)
	mailer.SetHeader("To", to)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	return dialer.DialAndSend(mailer)
}

// SendCompletionEmail congratulates a student on completing a course.
func (m *Mailer) SendCompletionEmail(to, studentName, courseTitle string) error {
	body := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Congratulations, %s!</h2>
		<p>You have completed the course <strong>%s</strong>.</p>
		<p>Keep up the great work.</p>
	</div>`, studentName, courseTitle)
	return m.SendEmail(to, "Course completed: "+courseTitle, body)
}
