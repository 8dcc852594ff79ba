package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/utils"
)

const classifierSystemPrompt = `You are a cybersecurity analyst specialized in identifying phishing threats in emails.

Analyze the provided emails against the user's query and determine which match the threat criteria.

Respond in JSON format with an array of results:
{
  "results": [
    {
      "emailId": "email-123",
      "isRelevant": boolean,
      "confidenceScore": number (0-1),
      "explanation": "Brief explanation",
      "threatIndicators": ["indicator1", "indicator2"]
    }
  ]
}

Only include emails that are relevant. Be specific about threat indicators like urgency language, suspicious senders, impersonation, unusual requests, suspicious links/attachments, grammar errors, etc.`

// BatchClassifier scores a whole candidate set with a single completion call,
// amortizing cost and latency over the batch instead of calling per email
type BatchClassifier struct {
	completion    CompletionClient
	textProcessor *utils.TextProcessor
	maxBodySize   int
	logger        *zap.Logger
}

// batchResult is one element of the model's JSON response
type batchResult struct {
	EmailID          string   `json:"emailId"`
	IsRelevant       bool     `json:"isRelevant"`
	ConfidenceScore  float64  `json:"confidenceScore"`
	Explanation      string   `json:"explanation"`
	ThreatIndicators []string `json:"threatIndicators"`
}

// batchResponse is the JSON envelope the model is instructed to return
type batchResponse struct {
	Results []batchResult `json:"results"`
}

// NewBatchClassifier creates a new batch threat classifier
func NewBatchClassifier(
	completion CompletionClient,
	textProcessor *utils.TextProcessor,
	maxBodySize int,
	logger *zap.Logger,
) *BatchClassifier {
	return &BatchClassifier{
		completion:    completion,
		textProcessor: textProcessor,
		maxBodySize:   maxBodySize,
		logger:        logger,
	}
}

// Classify judges every candidate email against the query in one completion
// call and returns the findings in the model's output order.
//
// The model's output is untrusted: results naming an id outside the input
// set are dropped, as are entries with an out-of-range confidence. Every
// failure mode short of a programming error degrades to zero findings,
// because the caller has no fallback scoring strategy and must still produce
// a well-formed response.
func (c *BatchClassifier) Classify(ctx context.Context, emails []Email, query string) []ThreatResult {
	if len(emails) == 0 {
		return []ThreatResult{}
	}

	userPrompt := c.buildUserPrompt(emails, query)

	response, err := c.completion.Complete(ctx, userPrompt, classifierSystemPrompt)
	if err != nil {
		c.logger.Error("Batch threat analysis failed, returning no findings",
			zap.Int("candidates", len(emails)),
			zap.Error(err))
		return []ThreatResult{}
	}

	jsonBlob, ok := extractJSONObject(response)
	if !ok {
		c.logger.Warn("No JSON object found in classifier response, returning no findings",
			zap.Int("response_size", len(response)))
		return []ThreatResult{}
	}

	var parsed batchResponse
	if err := json.Unmarshal([]byte(jsonBlob), &parsed); err != nil {
		c.logger.Warn("Failed to decode classifier response, returning no findings",
			zap.Error(err))
		return []ThreatResult{}
	}

	byID := make(map[string]*Email, len(emails))
	for i := range emails {
		byID[emails[i].ID] = &emails[i]
	}

	results := make([]ThreatResult, 0, len(parsed.Results))
	for _, entry := range parsed.Results {
		if !entry.IsRelevant {
			continue
		}
		if entry.ConfidenceScore < 0 || entry.ConfidenceScore > 1 {
			c.logger.Warn("Dropping result with out-of-range confidence",
				zap.String("email_id", entry.EmailID),
				zap.Float64("confidence", entry.ConfidenceScore))
			continue
		}
		email, ok := byID[entry.EmailID]
		if !ok {
			c.logger.Warn("Dropping result for unknown email id",
				zap.String("email_id", entry.EmailID))
			continue
		}
		indicators := entry.ThreatIndicators
		if indicators == nil {
			indicators = []string{}
		}
		results = append(results, ThreatResult{
			EmailID:          email.ID,
			Email:            *email,
			ConfidenceScore:  entry.ConfidenceScore,
			Explanation:      entry.Explanation,
			ThreatIndicators: indicators,
		})
	}

	return results
}

// buildUserPrompt enumerates every candidate with a stable local index so the
// model can reference emails unambiguously
func (c *BatchClassifier) buildUserPrompt(emails []Email, query string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "User Query: %q\n\nEmails to Analyze:\n", query)

	for i, email := range emails {
		fmt.Fprintf(&sb, "\n[Email %d] ID: %s\n", i+1, email.ID)
		fmt.Fprintf(&sb, "From: %s <%s>\n", email.SenderName, email.Sender)
		fmt.Fprintf(&sb, "To: %s\n", email.Recipient)
		fmt.Fprintf(&sb, "Subject: %s\n", email.Subject)
		fmt.Fprintf(&sb, "Date: %s\n", email.Timestamp.Format(time.RFC3339))
		if email.HasAttachment {
			fmt.Fprintf(&sb, "Attachment: %s\n", email.AttachmentName)
		}
		fmt.Fprintf(&sb, "Body: %s\n---", c.textProcessor.ProcessText(email.Body, c.maxBodySize))
	}

	fmt.Fprintf(&sb, "\n\nAnalyze these %d emails and identify which ones match the threat hunting query. Return only relevant threats in JSON format.", len(emails))

	return sb.String()
}

// extractJSONObject returns the first balanced {...} span in the text. The
// scanner is string-aware so braces inside JSON string values do not break
// the balance count.
func extractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], true
				}
			}
		}
	}

	return "", false
}
