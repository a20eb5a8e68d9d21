/*
Package email sends the rendered report through one of several delivery
providers. The provider is chosen by name at run time so a deployment can
switch services without a rebuild.
*/
package email

import (
	"fmt"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

type Provider string

const (
	ProviderSES      Provider = "ses"
	ProviderSendgrid Provider = "sendgrid"
	ProviderMailgun  Provider = "mailgun"
)

const sendAttempts = 3

/*
SendMessage delivers one email through the named provider. When sendEmails
points at false the message is logged and dropped, which is how dry runs
and staging environments stay quiet. Transient provider failures are
retried with a linearly growing delay between attempts.
*/
func SendMessage(provider Provider, sendEmails *bool, sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	if sendEmails == nil || !*sendEmails {
		tl.Log(
			tl.Important, palette.YellowBold, "Email sending disabled, dropping '%s' to %v",
			subject, recipients,
		)
		return nil
	}

	for attempt := 1; attempt <= sendAttempts; attempt += 1 {
		switch provider {
		case ProviderSES:
			e = sendViaSES(sender, recipients, subject, textBody, htmlBody, attachments)
		case ProviderSendgrid:
			e = sendViaSendgrid(sender, recipients, subject, textBody, htmlBody, attachments)
		case ProviderMailgun:
			e = sendViaMailgun(sender, recipients, subject, textBody, htmlBody, attachments)
		default:
			e = xerr.NewError(fmt.Errorf("unknown provider '%s'", provider), "send email", subject)
			return e
		}

		if e == nil {
			tl.Log(
				tl.Notice, palette.Green, "Sent '%s' to %v via %s (attempt %d)",
				subject, recipients, provider, attempt,
			)
			return nil
		}

		if attempt < sendAttempts {
			delay := time.Duration(attempt) * 2 * time.Second
			tl.Log(
				tl.Warning, palette.YellowBold, "Send attempt %d via %s failed, retrying in %s",
				attempt, provider, delay,
			)
			time.Sleep(delay)
		}
	}

	return e
}
