package mailer

import (
	"log/slog"
	"sync"
	"time"

	gomail "gopkg.in/gomail.v2"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
	HTML    bool
}

// Mailer accepts messages for asynchronous delivery. Enqueue never blocks a
// request handler on SMTP; delivery happens on a background worker.
type Mailer interface {
	Enqueue(message Message)
}

// SMTPMailer delivers queued messages over SMTP with bounded retries.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger

	queue chan Message
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// Options configures the SMTP mailer.
type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// QueueSize bounds the in-flight backlog. Defaults to 64.
	QueueSize int
}

// NewSMTPMailer builds the mailer and starts its delivery worker.
func NewSMTPMailer(opts Options, logger *slog.Logger) *SMTPMailer {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	m := &SMTPMailer{
		dialer: gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password),
		from:   opts.From,
		logger: logger,
		queue:  make(chan Message, opts.QueueSize),
		done:   make(chan struct{}),
	}
	m.wg.Add(1)
	go m.run()
	return m
}

// Enqueue hands a message to the delivery worker. When the queue is full the
// message is dropped and logged; email here is best-effort notification, not
// part of any transaction.
func (m *SMTPMailer) Enqueue(message Message) {
	select {
	case m.queue <- message:
	default:
		m.logger.Warn("mail queue full, dropping message", "to", message.To, "subject", message.Subject)
	}
}

// Close drains the queue and stops the worker. Safe to call more than once.
func (m *SMTPMailer) Close() {
	m.once.Do(func() {
		close(m.done)
		close(m.queue)
	})
	m.wg.Wait()
}

func (m *SMTPMailer) run() {
	defer m.wg.Done()
	for message := range m.queue {
		m.deliver(message)
	}
}

func (m *SMTPMailer) deliver(message Message) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", message.To)
	msg.SetHeader("Subject", message.Subject)
	if message.HTML {
		msg.SetBody("text/html", message.Body)
	} else {
		msg.SetBody("text/plain", message.Body)
	}

	const attempts = 3
	var err error
	for i := 0; i < attempts; i++ {
		if err = m.dialer.DialAndSend(msg); err == nil {
			return
		}
		select {
		case <-m.done:
			i = attempts
		case <-time.After(time.Duration(i+1) * 2 * time.Second):
		}
	}
	m.logger.Error("mail delivery failed", "to", message.To, "subject", message.Subject, "error", err)
}

// LoggerMailer writes messages to the structured logger instead of sending
// them. Used in development and tests when no SMTP host is configured.
type LoggerMailer struct {
	logger *slog.Logger
}

// NewLoggerMailer constructs the logging mailer.
func NewLoggerMailer(logger *slog.Logger) *LoggerMailer {
	return &LoggerMailer{logger: logger}
}

// Enqueue writes the message to the logger.
func (m *LoggerMailer) Enqueue(message Message) {
	if m == nil || m.logger == nil {
		return
	}
	m.logger.Info("mail", "to", message.To, "subject", message.Subject)
}
