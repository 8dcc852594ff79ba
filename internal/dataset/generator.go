package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/core"
)

// PhishingTypes lists the generated threat categories in generation order
var PhishingTypes = []string{"credential_harvest", "bec", "invoice_fraud", "urgency_scam"}

var legitimateTopics = []string{
	"team meeting invitation",
	"project status update",
	"quarterly report",
	"HR policy announcement",
	"IT system maintenance notice",
	"employee recognition",
	"training session",
	"office event",
	"budget review",
	"client presentation",
	"performance feedback",
	"new hire announcement",
}

var companyDomains = []string{"acme.com", "techcorp.io", "enterprise.net"}

var attachmentNames = []string{"report.pdf", "presentation.pptx", "data.xlsx", "agenda.docx"}

var firstNames = []string{"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda", "David", "Elizabeth", "William", "Susan", "Carlos", "Maria", "Ahmed", "Yuki"}

var lastNames = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez", "Nguyen", "Kim", "Patel", "Novak"}

// generatedEmail is the per-email shape the model is asked to return
type generatedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Generator produces a synthetic email corpus: legitimate business mail plus
// phishing emails of each category, with subjects and bodies written by the
// completion model and sender identities fabricated locally.
type Generator struct {
	completion core.CompletionClient
	batchSize  int
	logger     *zap.Logger
	rng        *rand.Rand
}

// NewGenerator creates a new dataset generator. A batchSize < 1 falls back
// to 10, the largest batch the generation prompts are written for.
func NewGenerator(completion core.CompletionClient, batchSize int, logger *zap.Logger) *Generator {
	if batchSize < 1 {
		batchSize = 10
	}
	return &Generator{
		completion: completion,
		batchSize:  batchSize,
		logger:     logger,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate produces legitimateCount legitimate emails plus perTypeCount
// phishing emails of every category
func (g *Generator) Generate(ctx context.Context) ([]core.Email, error) {
	return g.GenerateCounts(ctx, 60, 10)
}

// GenerateCounts produces a corpus with explicit counts
func (g *Generator) GenerateCounts(ctx context.Context, legitimateCount, perTypeCount int) ([]core.Email, error) {
	emails := make([]core.Email, 0, legitimateCount+perTypeCount*len(PhishingTypes))

	for generated := 0; generated < legitimateCount; generated += g.batchSize {
		count := g.batchSize
		if remaining := legitimateCount - generated; remaining < count {
			count = remaining
		}
		g.logger.Info("Generating legitimate emails", zap.Int("count", count))
		batch, err := g.generateLegitimateBatch(ctx, count)
		if err != nil {
			return nil, fmt.Errorf("failed to generate legitimate emails: %w", err)
		}
		emails = append(emails, batch...)
	}

	for _, phishingType := range PhishingTypes {
		for generated := 0; generated < perTypeCount; generated += g.batchSize {
			count := g.batchSize
			if remaining := perTypeCount - generated; remaining < count {
				count = remaining
			}
			g.logger.Info("Generating phishing emails",
				zap.String("type", phishingType),
				zap.Int("count", count))
			batch, err := g.generatePhishingBatch(ctx, phishingType, count)
			if err != nil {
				return nil, fmt.Errorf("failed to generate %s emails: %w", phishingType, err)
			}
			emails = append(emails, batch...)
		}
	}

	g.logger.Info("Dataset generation complete", zap.Int("emails", len(emails)))
	return emails, nil
}

// generateLegitimateBatch asks the model for a batch of ordinary business
// emails and attaches fabricated internal sender identities
func (g *Generator) generateLegitimateBatch(ctx context.Context, count int) ([]core.Email, error) {
	topics := make([]string, count)
	for i := range topics {
		topics[i] = legitimateTopics[g.rng.Intn(len(legitimateTopics))]
	}

	var topicList strings.Builder
	for i, topic := range topics {
		fmt.Fprintf(&topicList, "%d. %s\n", i+1, topic)
	}

	prompt := fmt.Sprintf(`Generate %d realistic, professional business emails. Each email should be about one of these topics in order:
%s
Requirements for EACH email:
- Professional tone, 3-5 sentences
- Include relevant details
- Natural business language
- No suspicious elements

Return a JSON array with %d objects, each containing:
{
  "subject": "email subject (5-10 words)",
  "body": "email body text"
}

Return ONLY the JSON array, no other text.`, count, topicList.String(), count)

	generated, err := g.completeBatch(ctx, prompt)
	if err != nil {
		return nil, err
	}

	emails := make([]core.Email, 0, len(generated))
	for _, item := range generated {
		domain := companyDomains[g.rng.Intn(len(companyDomains))]
		senderFirst := firstNames[g.rng.Intn(len(firstNames))]
		senderLast := lastNames[g.rng.Intn(len(lastNames))]
		senderName := senderFirst + " " + senderLast
		sender := strings.ToLower(senderFirst + "." + senderLast + "@" + domain)
		recipient := strings.ToLower(firstNames[g.rng.Intn(len(firstNames))] + "." + lastNames[g.rng.Intn(len(lastNames))] + "@" + domain)

		hasAttachment := g.rng.Float64() < 0.2
		attachmentName := ""
		if hasAttachment {
			attachmentName = attachmentNames[g.rng.Intn(len(attachmentNames))]
		}

		emails = append(emails, core.Email{
			ID:             "email-" + uuid.NewString(),
			Sender:         sender,
			SenderName:     senderName,
			Recipient:      recipient,
			Subject:        strings.Trim(strings.TrimSpace(item.Subject), `"'`),
			Body:           strings.TrimSpace(item.Body),
			Timestamp:      g.recentTimestamp(),
			HasAttachment:  hasAttachment,
			AttachmentName: attachmentName,
			IsPhishing:     false,
		})
	}

	return emails, nil
}

// generatePhishingBatch asks the model for a batch of one phishing category
// and attaches a fabricated suspicious sender identity per email
func (g *Generator) generatePhishingBatch(ctx context.Context, phishingType string, count int) ([]core.Email, error) {
	prompt, ok := phishingPrompts[phishingType]
	if !ok {
		return nil, fmt.Errorf("unknown phishing type: %s", phishingType)
	}

	generated, err := g.completeBatch(ctx, fmt.Sprintf(prompt, count, count))
	if err != nil {
		return nil, err
	}

	emails := make([]core.Email, 0, len(generated))
	for _, item := range generated {
		senderName, sender := g.phishingSender(phishingType)
		recipientDomain := companyDomains[g.rng.Intn(len(companyDomains))]
		recipient := strings.ToLower(firstNames[g.rng.Intn(len(firstNames))] + "." + lastNames[g.rng.Intn(len(lastNames))] + "@" + recipientDomain)

		hasAttachment := phishingType == "invoice_fraud" && g.rng.Float64() < 0.7
		attachmentName := ""
		if hasAttachment {
			attachmentName = "invoice.pdf"
		}

		emails = append(emails, core.Email{
			ID:             "email-" + uuid.NewString(),
			Sender:         sender,
			SenderName:     senderName,
			Recipient:      recipient,
			Subject:        strings.Trim(strings.TrimSpace(item.Subject), `"'`),
			Body:           g.replacePlaceholders(strings.TrimSpace(item.Body), senderName),
			Timestamp:      g.recentTimestamp(),
			HasAttachment:  hasAttachment,
			AttachmentName: attachmentName,
			IsPhishing:     true,
			PhishingType:   phishingType,
		})
	}

	return emails, nil
}

// completeBatch runs one generation prompt and decodes the JSON array it
// returns
func (g *Generator) completeBatch(ctx context.Context, prompt string) ([]generatedEmail, error) {
	response, err := g.completion.Complete(ctx, prompt, "")
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	blob, ok := extractJSONArray(response)
	if !ok {
		return nil, fmt.Errorf("no JSON array found in generation response")
	}

	var generated []generatedEmail
	if err := json.Unmarshal([]byte(blob), &generated); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}

	return generated, nil
}

// phishingSender fabricates a suspicious sender identity for the category
func (g *Generator) phishingSender(phishingType string) (name string, address string) {
	pick := func(options []string) string { return options[g.rng.Intn(len(options))] }

	switch phishingType {
	case "credential_harvest":
		name = pick([]string{"Security Team", "IT Support", "Account Services", "Help Desk"})
		address = pick([]string{"alerts", "security", "support", "notice"}) + "@" + pick([]string{"secure-login.com", "account-verify.net", "security-alert.org"})
	case "bec":
		name = pick([]string{"John Smith (CEO)", "Sarah Johnson (CFO)", "Michael Brown (Director)", "Executive Office"})
		first := strings.ToLower(strings.Split(name, " ")[0])
		address = first + "@" + pick([]string{"gmail.com", "yahoo.com", "outlook.com"})
	case "invoice_fraud":
		name = pick([]string{"Accounts Payable", "Billing Department", "Finance Team", "Vendor Services"})
		address = pick([]string{"billing", "invoices", "payments", "accounts"}) + "@" + pick([]string{"invoice-systems.com", "billing-update.net", "payments-portal.org"})
	default:
		name = pick([]string{"System Administrator", "Security Alert", "Account Management", "Service Team"})
		address = pick([]string{"admin", "alert", "notice", "account"}) + "@" + pick([]string{"urgent-notice.com", "account-services.net", "system-alerts.org"})
	}

	return name, address
}

// replacePlaceholders swaps the bracketed placeholders the generation
// prompts ask for with concrete fake values
func (g *Generator) replacePlaceholders(body string, senderName string) string {
	attackerName := strings.TrimSpace(strings.Split(senderName, "(")[0])
	dueDate := time.Now().AddDate(0, 0, 1).Format("January 2, 2006")

	replacements := [][2]string{
		{"[RECIPIENT NAME]", "User"},
		{"[VERIFICATION URL]", "https://secure-verify-account.suspicious-domain.com/verify"},
		{"[VERIFICATION LINK]", "https://secure-verify-account.suspicious-domain.com/verify"},
		{"[CLICK HERE]", "https://suspicious-link.com/action"},
		{"[MALICIOUS LINK]", "https://phishing-site.net/verify"},
		{"[URGENT LINK]", "https://urgent-action-required.com/now"},
		{"[ACCOUNT PORTAL]", "https://account-portal-verify.net/login"},
		{"[BANK ACCOUNT]", "Account #: 842-9714"},
		{"[BANK NAME]", "First National Bank"},
		{"[ROUTING NUMBER]", "Routing: 021000021"},
		{"[WIRE DETAILS]", "Wire to Account: 548-2851, Bank: International Trust Bank"},
		{"[ATTACKER NAME]", attackerName},
		{"[ATTACKER TITLE]", "Security Administrator"},
		{"[COMPANY NAME]", "Account Services"},
		{"[INVOICE NUMBER]", "INV-2025-00129"},
		{"[AMOUNT]", "$372.10"},
		{"[DUE DATE]", dueDate},
		{"[URGENT DEADLINE]", dueDate},
		{"[HELP DESK EMAIL]", "helpdesk@company.com"},
		{"[HELP DESK PHONE]", "1-800-555-1234"},
		{"[CONTACT NAME]", "Jane Doe"},
		{"[CONTACT EMAIL]", "support@company.com"},
		{"[NAME]", attackerName},
	}

	for _, pair := range replacements {
		body = strings.ReplaceAll(body, pair[0], pair[1])
	}

	return body
}

// recentTimestamp returns a random instant within the past 30 days
func (g *Generator) recentTimestamp() time.Time {
	offset := time.Duration(g.rng.Int63n(int64(30 * 24 * time.Hour)))
	return time.Now().UTC().Add(-offset).Truncate(time.Second)
}

// extractJSONArray returns the first balanced [...] span in the text,
// tolerating prose or code fences around it
func extractJSONArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
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
		case '[':
			if !inString {
				depth++
			}
		case ']':
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
