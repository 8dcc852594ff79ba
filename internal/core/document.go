package core

import (
	"fmt"
	"strings"
)

// FormatDocument canonicalizes an email into the text blob that is embedded
// and stored. The layout is a contract: exactly two header lines (From,
// Subject) followed by the body, with an optional trailing Attachment line.
// ExtractBody relies on line positions, so any change here breaks stored
// corpora.
func FormatDocument(email *Email) string {
	doc := fmt.Sprintf("From: %s <%s>\nSubject: %s\n%s", email.SenderName, email.Sender, email.Subject, email.Body)
	if email.HasAttachment {
		doc += fmt.Sprintf("\nAttachment: %s", email.AttachmentName)
	}
	return doc
}

// ExtractBody recovers the body from a document produced by FormatDocument.
// It drops the two header lines and a trailing Attachment line if one is
// present. Text that does not match the expected shape yields whatever
// remains after the header skip; the store only ever holds documents written
// by FormatDocument, so this is not treated as an error.
func ExtractBody(document string) string {
	lines := strings.Split(document, "\n")
	if len(lines) <= 2 {
		return ""
	}

	bodyLines := lines[2:]
	if strings.HasPrefix(bodyLines[len(bodyLines)-1], "Attachment:") {
		bodyLines = bodyLines[:len(bodyLines)-1]
	}

	return strings.TrimSpace(strings.Join(bodyLines, "\n"))
}
