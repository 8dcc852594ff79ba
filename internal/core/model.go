package core

import (
	"time"
)

// ExternalDomain is the sentinel value for a sender-domain filter that does
// not name a concrete domain. It means "no store-side filtering; let semantic
// search and the classifier judge external-ness".
const ExternalDomain = "external"

// Email represents a single email message in the corpus
type Email struct {
	ID             string    `json:"id"`
	Sender         string    `json:"sender"`
	SenderName     string    `json:"senderName"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	Body           string    `json:"body"`
	Timestamp      time.Time `json:"timestamp"`
	HasAttachment  bool      `json:"hasAttachment"`
	AttachmentName string    `json:"attachmentName,omitempty"`
	IsPhishing     bool      `json:"isPhishing"`
	PhishingType   string    `json:"phishingType,omitempty"`
}

// EmailMetadata is the projection of an Email stored alongside its vector.
// It carries every Email field except the body; the body lives only in the
// formatted document text so it can be recovered by ExtractBody.
type EmailMetadata struct {
	ID             string    `json:"id"`
	Sender         string    `json:"sender"`
	SenderName     string    `json:"senderName"`
	Recipient      string    `json:"recipient"`
	Subject        string    `json:"subject"`
	Timestamp      time.Time `json:"timestamp"`
	HasAttachment  bool      `json:"hasAttachment"`
	AttachmentName string    `json:"attachmentName,omitempty"`
	IsPhishing     bool      `json:"isPhishing"`
	PhishingType   string    `json:"phishingType,omitempty"`
}

// Metadata returns the stored-document projection of the email
func (e *Email) Metadata() EmailMetadata {
	return EmailMetadata{
		ID:             e.ID,
		Sender:         e.Sender,
		SenderName:     e.SenderName,
		Recipient:      e.Recipient,
		Subject:        e.Subject,
		Timestamp:      e.Timestamp,
		HasAttachment:  e.HasAttachment,
		AttachmentName: e.AttachmentName,
		IsPhishing:     e.IsPhishing,
		PhishingType:   e.PhishingType,
	}
}

// ToEmail reconstructs a full Email from stored metadata and a recovered body
func (m *EmailMetadata) ToEmail(body string) Email {
	return Email{
		ID:             m.ID,
		Sender:         m.Sender,
		SenderName:     m.SenderName,
		Recipient:      m.Recipient,
		Subject:        m.Subject,
		Body:           body,
		Timestamp:      m.Timestamp,
		HasAttachment:  m.HasAttachment,
		AttachmentName: m.AttachmentName,
		IsPhishing:     m.IsPhishing,
		PhishingType:   m.PhishingType,
	}
}

// EqualityFilter restricts a vector store query to exact-match metadata
// predicates. Keys are metadata field names in their JSON form.
type EqualityFilter map[string]interface{}

// Matches reports whether the metadata satisfies every predicate in the filter.
// Unknown keys never match.
func (m *EmailMetadata) Matches(filter EqualityFilter) bool {
	for key, want := range filter {
		var got interface{}
		switch key {
		case "sender":
			got = m.Sender
		case "recipient":
			got = m.Recipient
		case "hasAttachment":
			got = m.HasAttachment
		case "isPhishing":
			got = m.IsPhishing
		case "phishingType":
			got = m.PhishingType
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// StoredDocument is an embedded email ready for upsert into the vector store
type StoredDocument struct {
	ID        string
	Embedding []float32
	Document  string
	Metadata  EmailMetadata
}

// SearchResult is a single vector similarity match. Distance is non-negative
// and monotonic: smaller means more similar.
type SearchResult struct {
	ID       string
	Document string
	Metadata EmailMetadata
	Distance float64
}

// QueryFilters holds the structured constraints extracted from one query
// string. A nil HasAttachment or empty SenderDomain means "not constrained".
type QueryFilters struct {
	HasAttachment *bool
	SenderDomain  string
}

// ThreatResult is a single finding produced by the batch classifier
type ThreatResult struct {
	EmailID          string   `json:"emailId"`
	Email            Email    `json:"email"`
	ConfidenceScore  float64  `json:"confidenceScore"`
	Explanation      string   `json:"explanation"`
	ThreatIndicators []string `json:"threatIndicators"`
}

// QueryResponse is the ranked envelope returned for one hunt query.
// TotalFound counts findings, not candidates examined.
type QueryResponse struct {
	Query      string         `json:"query"`
	Results    []ThreatResult `json:"results"`
	TotalFound int            `json:"totalFound"`
}
