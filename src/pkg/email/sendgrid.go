package email

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/tuumbleweed/xerr"
)

func sendViaSendgrid(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail("", sender))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	for _, recipient := range recipients {
		personalization.AddTos(mail.NewEmail("", recipient))
	}
	message.AddPersonalizations(personalization)

	message.AddContent(
		mail.NewContent("text/plain", textBody),
		mail.NewContent("text/html", htmlBody),
	)

	for _, attachment := range attachments {
		sgAttachment := mail.NewAttachment()
		sgAttachment.SetFilename(attachment.Filename)
		sgAttachment.SetType(attachment.ContentType)
		sgAttachment.SetContent(base64.StdEncoding.EncodeToString(attachment.Content))
		if attachment.Inline {
			sgAttachment.SetDisposition("inline")
			sgAttachment.SetContentID(attachment.ContentID)
		} else {
			sgAttachment.SetDisposition("attachment")
		}
		message.AddAttachment(sgAttachment)
	}

	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, sendErr := client.Send(message)
	if sendErr != nil {
		e = xerr.NewErrorEC(sendErr, "send email via sendgrid", "subject", subject, true)
		return e
	}
	if response.StatusCode >= 300 {
		e = xerr.NewError(
			fmt.Errorf("sendgrid status %d: %s", response.StatusCode, response.Body),
			"send email via sendgrid", subject,
		)
		return e
	}

	return e
}
