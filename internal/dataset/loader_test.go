package dataset

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/threatscope/email-hunter/internal/core"
)

func TestSaveAndLoadEmails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "emails.json")

	emails := []core.Email{
		{
			ID:         "email-1",
			Sender:     "alice.wong@acme.com",
			SenderName: "Alice Wong",
			Recipient:  "bob.smith@acme.com",
			Subject:    "Budget review",
			Body:       "Please review before Friday.",
			Timestamp:  time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			ID:             "email-2",
			Sender:         "billing@invoice-systems.com",
			SenderName:     "Billing Department",
			Recipient:      "carla.jones@techcorp.io",
			Subject:        "Overdue invoice",
			Body:           "Pay immediately to avoid service interruption.",
			Timestamp:      time.Date(2025, 8, 2, 14, 0, 0, 0, time.UTC),
			HasAttachment:  true,
			AttachmentName: "invoice.pdf",
			IsPhishing:     true,
			PhishingType:   "invoice_fraud",
		},
	}

	require.NoError(t, SaveEmails(path, emails))

	loaded, err := LoadEmails(path)
	require.NoError(t, err)
	assert.Equal(t, emails, loaded)
}

func TestLoadEmailsMissingFile(t *testing.T) {
	_, err := LoadEmails(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
