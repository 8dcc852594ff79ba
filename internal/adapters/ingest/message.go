package ingest

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/threatscope/email-hunter/internal/core"
)

// ParseMessage converts a raw RFC 5322 message into an Email record. Header
// addresses take precedence over the envelope; the envelope fills gaps.
func ParseMessage(envelopeSender string, envelopeRecipients []string, raw []byte) (core.Email, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return core.Email{}, fmt.Errorf("failed to parse message: %w", err)
	}

	sender := envelopeSender
	senderName := ""
	if from := msg.Header.Get("From"); from != "" {
		if addr, err := mail.ParseAddress(from); err == nil {
			sender = addr.Address
			senderName = addr.Name
		}
	}
	if senderName == "" {
		senderName = sender
	}

	recipient := ""
	if len(envelopeRecipients) > 0 {
		recipient = envelopeRecipients[0]
	}
	if to := msg.Header.Get("To"); to != "" {
		if addr, err := mail.ParseAddress(to); err == nil {
			recipient = addr.Address
		}
	}

	timestamp := time.Now().UTC()
	if date, err := msg.Header.Date(); err == nil {
		timestamp = date
	}

	body, attachmentName, err := extractContent(msg)
	if err != nil {
		return core.Email{}, fmt.Errorf("failed to extract message content: %w", err)
	}

	return core.Email{
		ID:             "email-" + uuid.NewString(),
		Sender:         sender,
		SenderName:     senderName,
		Recipient:      recipient,
		Subject:        msg.Header.Get("Subject"),
		Body:           strings.TrimSpace(body),
		Timestamp:      timestamp,
		HasAttachment:  attachmentName != "",
		AttachmentName: attachmentName,
	}, nil
}

// extractContent returns the plain-text body of the message and the filename
// of the first attachment, if any. Non-multipart messages are returned as-is.
func extractContent(msg *mail.Message) (string, string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", "", err
		}
		return string(body), "", nil
	}

	boundary, ok := params["boundary"]
	if !ok {
		body, err := io.ReadAll(msg.Body)
		if err != nil {
			return "", "", err
		}
		return string(body), "", nil
	}

	var textParts []string
	attachmentName := ""

	mr := multipart.NewReader(msg.Body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", err
		}

		if name := part.FileName(); name != "" {
			if attachmentName == "" {
				attachmentName = name
			}
			continue
		}

		partType, _, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil || strings.HasPrefix(partType, "text/plain") {
			content, err := io.ReadAll(part)
			if err != nil {
				return "", "", err
			}
			textParts = append(textParts, string(content))
		}
	}

	return strings.Join(textParts, "\n"), attachmentName, nil
}
