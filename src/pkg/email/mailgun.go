package email

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/tuumbleweed/xerr"
)

func sendViaMailgun(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	domain := os.Getenv("MAILGUN_DOMAIN")
	client := mailgun.NewMailgun(domain, os.Getenv("MAILGUN_API_KEY"))

	message := client.NewMessage(sender, subject, textBody, recipients...)
	message.SetHtml(htmlBody)

	for _, attachment := range attachments {
		reader := bytes.NewReader(attachment.Content)
		if attachment.Inline {
			message.AddReaderInline(attachment.Filename, readCloser{reader})
			continue
		}
		message.AddReaderAttachment(attachment.Filename, readCloser{reader})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, _, sendErr := client.Send(ctx, message)
	if sendErr != nil {
		e = xerr.NewErrorEC(sendErr, "send email via mailgun", "subject", subject, true)
		return e
	}

	return e
}

type readCloser struct{ *bytes.Reader }

func (readCloser) Close() error { return nil }
