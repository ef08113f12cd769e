package service

import (
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

func SendEmailWithSendGrid(toEmailAddress, toName, subject, plainTextContent, htmlContent string) error {
	sendgridAPIKey := os.Getenv("SENDGRID_API_KEY")
	if sendgridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, email will not be sent")
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}

	fromEmail := os.Getenv("SENDGRID_FROM_EMAIL")
	if fromEmail == "" {
		log.Warn("SENDGRID_FROM_EMAIL not set, email will not be sent")
		return fmt.Errorf("SENDGRID_FROM_EMAIL not set")
	}

	fromName := os.Getenv("SENDGRID_FROM_NAME")
	if fromName == "" {
		fromName = "SmileCare Dental"
	}

	from := mail.NewEmail(fromName, fromEmail)
	to := mail.NewEmail(toName, toEmailAddress)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(sendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Errorf("error sending email to %s via SendGrid: %v", toEmailAddress, err)
		return fmt.Errorf("sending email through SendGrid: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		log.Infof("email sent to %s (subject: %s), status %d", toEmailAddress, subject, response.StatusCode)
		return nil
	}

	log.Errorf("SendGrid returned status %d for %s: %s", response.StatusCode, toEmailAddress, response.Body)
	return fmt.Errorf("SendGrid returned non-success status %d: %s", response.StatusCode, response.Body)
}

func SendSMS(toNumber string, messageBody string) error {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_FROM_NUMBER")

	if accountSid == "" || authToken == "" || fromNumber == "" {
		log.Warn("Twilio credentials not fully configured, SMS will not be sent")
		return fmt.Errorf("Twilio credentials not fully configured")
	}

	if !strings.HasPrefix(toNumber, "+") {
		log.Warnf("destination number %q is not E.164, SMS may fail", toNumber)
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSid,
		Password:   authToken,
		AccountSid: accountSid,
	})

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(fromNumber)
	params.SetBody(messageBody)

	resp, err := client.Api.CreateMessage(params)
	if err != nil {
		log.Errorf("error sending SMS to %s via Twilio: %v", toNumber, err)
		return fmt.Errorf("sending SMS: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		log.Infof("SMS sent to %s, message SID %s", toNumber, *resp.Sid)
	}
	return nil
}
