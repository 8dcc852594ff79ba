package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/threatscope/email-hunter/internal/core"
)

// LoadEmails reads an email corpus from a JSON file
func LoadEmails(path string) ([]core.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file %s: %w", path, err)
	}

	var emails []core.Email
	if err := json.Unmarshal(data, &emails); err != nil {
		return nil, fmt.Errorf("failed to decode dataset file %s: %w", path, err)
	}

	return emails, nil
}

// SaveEmails writes an email corpus to a JSON file, creating the parent
// directory if needed
func SaveEmails(path string, emails []core.Email) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	data, err := json.MarshalIndent(emails, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset file %s: %w", path, err)
	}

	return nil
}
