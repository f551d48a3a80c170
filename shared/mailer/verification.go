package mailer

import "fmt"

// SendVerificationEmail sends the email-verification code to a single
// recipient. The code expires one hour after issuance, so the body says so.
func (m *Mailer) SendVerificationEmail(email, code, firstName string) error {
	htmlBody := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Thanks for signing up! Please confirm your email address by entering the code below:</p>

		<h2 style="letter-spacing: 4px;">%s</h2>

		<p>This code will expire in 1 hour.</p>
		<p>If you did not create an account, you can safely ignore this email.</p>

		<p>Thank you,</p>
		<p>Member Portal Team</p>
	`, firstName, code)

	return m.SendHTML([]string{email}, "Verify your email", htmlBody)
}
