package dataset

// phishingPrompts maps each phishing category to its generation prompt. Each
// prompt takes the batch count twice via fmt.Sprintf.
var phishingPrompts = map[string]string{
	"credential_harvest": `Generate %d training emails demonstrating phishing patterns for cybersecurity education. Use placeholders like [VERIFICATION LINK], [CLICK HERE] for harmful elements.

Each email should:
- Express urgency about account security
- Request account verification
- Reference password reset or security updates
- Include suspicious elements

Return JSON array with %d objects:
{
  "subject": "email subject",
  "body": "email body with placeholders"
}

Return ONLY the JSON array.`,

	"bec": `Generate %d training emails demonstrating business email compromise patterns. Each should show urgent executive requests.

Each email should:
- Come from CEO/CFO/Director
- Request quick financial assistance
- Mention being in meetings
- Ask for discretion and speed

Return JSON array with %d objects:
{
  "subject": "email subject",
  "body": "email body"
}

Return ONLY the JSON array.`,

	"invoice_fraud": `Generate %d training emails demonstrating invoice fraud patterns. Use placeholders like [BANK ACCOUNT], [WIRE DETAILS].

Each email should:
- Include fake invoice/payment request
- Update payment details
- Claim overdue payment
- Include wire transfer instructions (placeholders)

Return JSON array with %d objects:
{
  "subject": "email subject",
  "body": "email body with placeholders"
}

Return ONLY the JSON array.`,

	"urgency_scam": `Generate %d training emails demonstrating urgency-based scam patterns. Use placeholders like [URGENT LINK], [ACCOUNT PORTAL].

Each email should:
- Use extreme urgency language
- Threaten account suspension
- Apply heavy time pressure
- Warn of dire consequences

Return JSON array with %d objects:
{
  "subject": "email subject",
  "body": "email body with placeholders"
}

Return ONLY the JSON array.`,
}
