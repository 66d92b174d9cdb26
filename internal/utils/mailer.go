package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

const resendAPI = "https://api.resend.com/emails"
const defaultFrom = "Safarnama Tours <noreply@safarnama.example>"

type resendEmail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// sendEmail delivers a message through the Resend HTTP API. Without an API
// key configured the mail is printed to stdout instead, which keeps local
// development and tests working with no external account.
func sendEmail(to, subject, htmlBody, textBody string) error {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		log.Printf("mailer: RESEND_API_KEY not set, printing mail instead")
		fmt.Printf("\n--- MOCK EMAIL ---\nTo: %s\nSubject: %s\nBody:\n%s\n-------------------\n",
			to, subject, textBody)
		return nil
	}

	payload := resendEmail{
		From:    defaultFrom,
		To:      to,
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, resendAPI, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API error: %s", resp.Status)
	}
	return nil
}

// SendPasswordReset mails a reset link. The raw token is embedded in the
// client URL; only its hash is stored server-side.
func SendPasswordReset(toEmail, resetURL string) error {
	html := fmt.Sprintf(`
		<h2>Password Reset Request</h2>
		<p>You (or someone else) requested a password reset for your account.</p>
		<p><a href="%s">Reset your password</a></p>
		<p>If you didn't request this, you can ignore this email.</p>
	`, resetURL)
	text := "You requested a password reset. Open this link to choose a new password:\n\n" + resetURL
	return sendEmail(toEmail, "Password Reset Token", html, text)
}

// SendBookingStatus notifies a traveler that their booking changed status.
// Reason is included when the transition recorded one.
func SendBookingStatus(toEmail, bookingRef, status, reason string) error {
	html := fmt.Sprintf(`
		<h2>Booking %s</h2>
		<p>Your booking <b>%s</b> is now <b>%s</b>.</p>
	`, status, bookingRef, status)
	text := fmt.Sprintf("Your booking %s is now %s.", bookingRef, status)
	if reason != "" {
		html += fmt.Sprintf("<p>Reason: %s</p>", reason)
		text += "\nReason: " + reason
	}
	return sendEmail(toEmail, fmt.Sprintf("Booking %s: %s", bookingRef, status), html, text)
}
