package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/utils"
)

// scriptedCompletion replays a fixed response and records the prompts it saw
type scriptedCompletion struct {
	response   string
	err        error
	userPrompt string
	calls      int
}

func (c *scriptedCompletion) Complete(ctx context.Context, userPrompt string, systemPrompt string) (string, error) {
	c.calls++
	c.userPrompt = userPrompt
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newTestClassifier(completion CompletionClient) *BatchClassifier {
	logger := zap.NewNop()
	return NewBatchClassifier(completion, utils.NewTextProcessor(logger), 4096, logger)
}

func candidateEmails() []Email {
	return []Email{
		{ID: "email-1", Sender: "ceo.urgent@gmail.com", SenderName: "The CEO", Subject: "Urgent wire transfer", Body: "Wire $45,000 immediately."},
		{ID: "email-2", Sender: "alice@acme.com", SenderName: "Alice", Subject: "Lunch?", Body: "Want to grab lunch today?"},
	}
}

func TestClassifyParsesFindings(t *testing.T) {
	completion := &scriptedCompletion{response: `Here is my analysis:
{
  "results": [
    {
      "emailId": "email-1",
      "isRelevant": true,
      "confidenceScore": 0.95,
      "explanation": "Classic BEC pattern: executive impersonation with urgent payment request",
      "threatIndicators": ["urgency language", "free-mail executive sender"]
    },
    {
      "emailId": "email-2",
      "isRelevant": false,
      "confidenceScore": 0.1,
      "explanation": "Benign social email",
      "threatIndicators": []
    }
  ]
}
Let me know if you need more detail.`}
	classifier := newTestClassifier(completion)

	results := classifier.Classify(context.Background(), candidateEmails(), "urgent payment requests")

	require.Len(t, results, 1)
	assert.Equal(t, "email-1", results[0].EmailID)
	assert.Equal(t, "ceo.urgent@gmail.com", results[0].Email.Sender)
	assert.Equal(t, 0.95, results[0].ConfidenceScore)
	assert.Equal(t, []string{"urgency language", "free-mail executive sender"}, results[0].ThreatIndicators)
}

func TestClassifyDropsUnknownEmailID(t *testing.T) {
	completion := &scriptedCompletion{response: `{
  "results": [
    {"emailId": "email-999", "isRelevant": true, "confidenceScore": 0.9, "explanation": "hallucinated", "threatIndicators": []}
  ]
}`}
	classifier := newTestClassifier(completion)

	results := classifier.Classify(context.Background(), candidateEmails(), "anything")
	assert.Empty(t, results)
}

func TestClassifyDropsOutOfRangeConfidence(t *testing.T) {
	completion := &scriptedCompletion{response: `{
  "results": [
    {"emailId": "email-1", "isRelevant": true, "confidenceScore": 1.5, "explanation": "too confident", "threatIndicators": []},
    {"emailId": "email-2", "isRelevant": true, "confidenceScore": -0.2, "explanation": "negative", "threatIndicators": []}
  ]
}`}
	classifier := newTestClassifier(completion)

	results := classifier.Classify(context.Background(), candidateEmails(), "anything")
	assert.Empty(t, results)
}

func TestClassifyNilIndicatorsBecomeEmptySlice(t *testing.T) {
	completion := &scriptedCompletion{response: `{
  "results": [
    {"emailId": "email-1", "isRelevant": true, "confidenceScore": 0.7, "explanation": "suspicious"}
  ]
}`}
	classifier := newTestClassifier(completion)

	results := classifier.Classify(context.Background(), candidateEmails(), "anything")
	require.Len(t, results, 1)
	assert.NotNil(t, results[0].ThreatIndicators)
	assert.Empty(t, results[0].ThreatIndicators)
}

func TestClassifyDegradesOnCompletionError(t *testing.T) {
	completion := &scriptedCompletion{err: errors.New("rate limited")}
	classifier := newTestClassifier(completion)

	results := classifier.Classify(context.Background(), candidateEmails(), "anything")
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestClassifyDegradesOnMalformedResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "no JSON at all", response: "I could not analyze these emails."},
		{name: "unbalanced braces", response: `{"results": [`},
		{name: "wrong types", response: `{"results": [{"emailId": 42}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := newTestClassifier(&scriptedCompletion{response: tt.response})
			results := classifier.Classify(context.Background(), candidateEmails(), "anything")
			assert.Empty(t, results)
		})
	}
}

func TestClassifySkipsCompletionForEmptyBatch(t *testing.T) {
	completion := &scriptedCompletion{response: "{}"}
	classifier := newTestClassifier(completion)

	results := classifier.Classify(context.Background(), nil, "anything")

	assert.Empty(t, results)
	assert.Zero(t, completion.calls)
}

func TestBuildUserPromptEnumeratesEmails(t *testing.T) {
	completion := &scriptedCompletion{response: `{"results": []}`}
	classifier := newTestClassifier(completion)

	emails := candidateEmails()
	emails[0].HasAttachment = true
	emails[0].AttachmentName = "wire_details.pdf"

	classifier.Classify(context.Background(), emails, "urgent payment requests")

	require.Equal(t, 1, completion.calls)
	assert.Contains(t, completion.userPrompt, `User Query: "urgent payment requests"`)
	assert.Contains(t, completion.userPrompt, "[Email 1] ID: email-1")
	assert.Contains(t, completion.userPrompt, "[Email 2] ID: email-2")
	assert.Contains(t, completion.userPrompt, "Attachment: wire_details.pdf")
	assert.Contains(t, completion.userPrompt, "Analyze these 2 emails")
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{name: "bare object", text: `{"a": 1}`, expected: `{"a": 1}`, ok: true},
		{name: "surrounded by prose", text: `Sure! {"a": 1} Hope that helps.`, expected: `{"a": 1}`, ok: true},
		{name: "nested objects", text: `{"a": {"b": 2}}`, expected: `{"a": {"b": 2}}`, ok: true},
		{name: "brace inside string", text: `{"a": "va{ue"}`, expected: `{"a": "va{ue"}`, ok: true},
		{name: "escaped quote inside string", text: `{"a": "say \"hi\" {"}`, expected: `{"a": "say \"hi\" {"}`, ok: true},
		{name: "no object", text: "plain text", ok: false},
		{name: "never closes", text: `{"a": 1`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractJSONObject(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}
