package email

/*
Attachment is a file carried with the report email. Inline attachments are
referenced from the HTML body via cid:<ContentID>; regular attachments are
listed alongside the message.
*/
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
	Inline      bool
}
