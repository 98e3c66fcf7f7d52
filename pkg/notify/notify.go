package notify

import (
	"errors"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailNotifier sends asset lifecycle notifications through sendgrid.
type EmailNotifier struct {
	client      *sendgrid.Client
	senderEmail string
	senderName  string
}

func NewEmailNotifier() *EmailNotifier {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	senderEmail := os.Getenv("SENDGRID_SENDER_EMAIL")
	senderName := os.Getenv("SENDGRID_SENDER_NAME")
	return &EmailNotifier{
		client:      sendgrid.NewSendClient(apiKey),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (n *EmailNotifier) AssetIssued(toEmail, employeeName, assetTag string) error {
	subject := fmt.Sprintf("Asset %s issued to you", assetTag)
	plain := fmt.Sprintf("Hi %s,\n\nAsset %s has been issued to you. Please confirm receipt with your branch administrator.", employeeName, assetTag)
	html := fmt.Sprintf("<p>Hi %s,</p><p>Asset <strong>%s</strong> has been issued to you. Please confirm receipt with your branch administrator.</p>", employeeName, assetTag)
	return n.send(subject, toEmail, plain, html)
}

func (n *EmailNotifier) AssetReturned(toEmail, employeeName, assetTag string) error {
	subject := fmt.Sprintf("Asset %s return recorded", assetTag)
	plain := fmt.Sprintf("Hi %s,\n\nThe return of asset %s has been recorded. You are no longer responsible for it.", employeeName, assetTag)
	html := fmt.Sprintf("<p>Hi %s,</p><p>The return of asset <strong>%s</strong> has been recorded. You are no longer responsible for it.</p>", employeeName, assetTag)
	return n.send(subject, toEmail, plain, html)
}

func (n *EmailNotifier) send(subject, toEmail, plainTextContent, htmlContent string) error {
	from := mail.NewEmail(n.senderName, n.senderEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	response, err := n.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return errors.New("failed to send email")
	}
	return nil
}
