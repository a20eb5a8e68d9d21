package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/tuumbleweed/xerr"
)

/*
sendViaSES builds a raw MIME message so inline attachments keep their
Content-ID, which the simple SES send API does not support.
*/
func sendViaSES(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) (e *xerr.Error) {
	ctx := context.Background()

	awsCfg, cfgErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if cfgErr != nil {
		e = xerr.NewError(cfgErr, "load aws configuration", "ses")
		return e
	}
	client := sesv2.NewFromConfig(awsCfg)

	raw, buildErr := buildRawMessage(sender, recipients, subject, textBody, htmlBody, attachments)
	if buildErr != nil {
		e = xerr.NewError(buildErr, "build mime message", subject)
		return e
	}

	_, sendErr := client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(sender),
		Destination:      &types.Destination{ToAddresses: recipients},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if sendErr != nil {
		e = xerr.NewErrorEC(sendErr, "send email via ses", "subject", subject, true)
		return e
	}

	return e
}

func buildRawMessage(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []Attachment) ([]byte, error) {
	var message bytes.Buffer
	mixed := multipart.NewWriter(&message)

	fmt.Fprintf(&message, "From: %s\r\n", sender)
	fmt.Fprintf(&message, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	fmt.Fprintf(&message, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&message, "Content-Type: multipart/related; boundary=%q\r\n\r\n", mixed.Boundary())

	alternative, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=\"alt-" + mixed.Boundary() + "\""},
	})
	if err != nil {
		return nil, err
	}
	altWriter := multipart.NewWriter(alternative)
	altWriter.SetBoundary("alt-" + mixed.Boundary())

	textPart, err := altWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(textPart, textBody)

	htmlPart, err := altWriter.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=UTF-8"},
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprint(htmlPart, htmlBody)

	if err = altWriter.Close(); err != nil {
		return nil, err
	}

	for _, attachment := range attachments {
		header := textproto.MIMEHeader{
			"Content-Type":              {attachment.ContentType},
			"Content-Transfer-Encoding": {"base64"},
		}
		if attachment.Inline {
			header.Set("Content-ID", "<"+attachment.ContentID+">")
			header.Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", attachment.Filename))
		} else {
			header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Filename))
		}

		part, partErr := mixed.CreatePart(header)
		if partErr != nil {
			return nil, partErr
		}
		fmt.Fprint(part, base64.StdEncoding.EncodeToString(attachment.Content))
	}

	if err = mixed.Close(); err != nil {
		return nil, err
	}

	return message.Bytes(), nil
}
