package ingest

import (
	"context"
	"io"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/threatscope/email-hunter/internal/core"
)

// Server receives emails over SMTP and feeds them into the vector store, so
// a corpus can be built from live mail flow instead of a JSON dataset.
type Server struct {
	service         *core.IngestService
	logger          *zap.Logger
	listenAddr      string
	domain          string
	maxMessageBytes int
	server          *smtp.Server
}

// NewServer creates a new SMTP ingestion server
func NewServer(
	service *core.IngestService,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	maxMessageBytes int,
) *Server {
	return &Server{
		service:         service,
		logger:          logger,
		listenAddr:      listenAddr,
		domain:          domain,
		maxMessageBytes: maxMessageBytes,
	}
}

// Start starts the SMTP server in a background goroutine
func (s *Server) Start() error {
	s.server = smtp.NewServer(&smtpBackend{ingest: s})

	s.server.Addr = s.listenAddr
	s.server.Domain = s.domain
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = int64(s.maxMessageBytes)
	s.server.MaxRecipients = 50
	s.server.AllowInsecureAuth = true

	s.logger.Info("SMTP ingestion server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				s.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// ingestMessage parses a raw message and stores it in the corpus
func (s *Server) ingestMessage(sender string, recipients []string, raw []byte) error {
	email, err := ParseMessage(sender, recipients, raw)
	if err != nil {
		return err
	}

	s.logger.Info("Ingesting received email",
		zap.String("id", email.ID),
		zap.String("sender", email.Sender),
		zap.String("subject", email.Subject))

	return s.service.IngestEmail(context.Background(), email)
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *Server
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		ingest:     b.ingest,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest     *Server
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// Logout handles session termination
func (s *smtpSession) Logout() error {
	return nil
}

// AuthPlain handles PLAIN authentication, which the ingest server does not use
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data reads the message and hands it to the ingestion pipeline. Ingestion
// failures are logged but the message is still accepted: a hunting corpus
// should not bounce mail.
func (s *smtpSession) Data(r io.Reader) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	if err := s.ingest.ingestMessage(s.sender, s.recipients, raw); err != nil {
		s.ingest.logger.Error("Failed to ingest received email", zap.Error(err))
	}

	return nil
}
