package utils

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// Email is a rendered message ready to hand to a mailer.
type Email struct {
	Template string
	Subject  string
	HTML     string
}

const (
	TemplateWelcome      = "welcome"
	TemplateConfirmation = "application_confirmation"
	TemplateStatusUpdate = "status_update"
	TemplateDeadline     = "deadline_reminder"
	TemplateNewsletter   = "newsletter"
)

const (
	portalName = "Student Opportunities Portal"
	portalTeam = "Student Opportunities Team"
)

// Shared layout for every outgoing email
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A5C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A5C; line-height: 1.6; }
			.content h2 { margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2E8B57; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
				<p>Best regards,<br>%s</p>
			</div>
			<div class="footer">
				You are receiving this email because you have an account or subscription with the %s.
			</div>
		</div>
	</body>
	</html>
	`, strings.ToUpper(portalName), html.EscapeString(title), bodyContent, portalTeam, portalName)
}

// --- Templates ---

// WelcomeEmail is sent after registration.
func WelcomeEmail(name string) Email {
	body := fmt.Sprintf(`
		<p>Welcome to the %s, %s!</p>
		<p>Thank you for registering with us. You can now explore various bursaries, internships, graduate programs, and learnerships.</p>
		<p>Start browsing opportunities today and take the next step in your career!</p>
	`, portalName, html.EscapeString(name))

	return Email{
		Template: TemplateWelcome,
		Subject:  "Welcome to " + portalName,
		HTML:     getEmailTemplate("Welcome Onboard!", body),
	}
}

func ApplicationConfirmationEmail(name, opportunityTitle, provider string) Email {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully applied for: <strong>%s</strong></p>
		<div class="info-box">
			<strong>Provider:</strong> %s
		</div>
		<p>We will review your application and get back to you soon.</p>
	`, html.EscapeString(name), html.EscapeString(opportunityTitle), html.EscapeString(provider))

	return Email{
		Template: TemplateConfirmation,
		Subject:  "Application Submitted Successfully",
		HTML:     getEmailTemplate("Your application has been submitted!", body),
	}
}

func StatusUpdateEmail(name, opportunityTitle, status string) Email {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your application for <strong>%s</strong> has been updated to: <strong>%s</strong></p>
		<p>Log in to your account to view more details.</p>
	`, html.EscapeString(name), html.EscapeString(opportunityTitle), html.EscapeString(status))

	return Email{
		Template: TemplateStatusUpdate,
		Subject:  "Application Status Update",
		HTML:     getEmailTemplate("Application Status Update", body),
	}
}

func DeadlineReminderEmail(name, opportunityTitle string, deadline time.Time, daysLeft int) Email {
	when := "today"
	if daysLeft == 1 {
		when = "in 1 day"
	} else if daysLeft > 1 {
		when = fmt.Sprintf("in %d days", daysLeft)
	}
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Applications for <strong>%s</strong> close %s.</p>
		<div class="info-box">
			<strong>Deadline:</strong> %s
		</div>
		<p>Make sure your profile and documents are up to date.</p>
	`, html.EscapeString(name), html.EscapeString(opportunityTitle), when, deadline.UTC().Format("02 January 2006 15:04 MST"))

	return Email{
		Template: TemplateDeadline,
		Subject:  "Deadline Reminder: " + opportunityTitle,
		HTML:     getEmailTemplate("Closing Soon", body),
	}
}

// NewsletterEmail wraps admin supplied content. The content is trusted HTML.
func NewsletterEmail(subject, content string) Email {
	return Email{
		Template: TemplateNewsletter,
		Subject:  subject,
		HTML:     getEmailTemplate(subject, content),
	}
}
