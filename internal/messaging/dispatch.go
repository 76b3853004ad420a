package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/logging"
	"atelier/internal/types"

	"github.com/go-rod/rod/lib/launcher"
)

// Channel names reported in an Outcome.
const (
	ChannelPrimary  = "primary"
	ChannelFallback = "fallback"
)

// DefaultFallbackTemplate builds a click-to-chat link from digits and text.
const DefaultFallbackTemplate = "https://wa.me/%s?text=%s"

// ErrNoEndpoint is recorded when no primary endpoint is configured.
var ErrNoEndpoint = errors.New("messaging: no endpoint configured")

// Message is one outbound request.
type Message struct {
	To    string
	Text  string
	Order *types.Order
}

// Outcome describes how a message was delivered.
type Outcome struct {
	Channel  string
	Fallback bool
	// URL is the fallback link when Fallback is set.
	URL string
	// Err is why the primary channel was not used.
	Err error
}

// Opener presents a fallback link to the user.
type Opener interface {
	Open(url string) error
}

// BrowserOpener hands links to the system browser.
type BrowserOpener struct{}

func (BrowserOpener) Open(u string) error {
	launcher.Open(u)
	return nil
}

type payload struct {
	To      string       `json:"to"`
	Message string       `json:"message"`
	Order   *types.Order `json:"order,omitempty"`
}

// Dispatcher sends messages to the primary endpoint and degrades to a link.
// There are no retries.
type Dispatcher struct {
	endpoint  string
	recipient string
	template  string
	timeout   time.Duration
	client    *http.Client
	opener    Opener
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(d *Dispatcher) { d.client = c } }

// WithOpener sets the opener used for fallback links.
func WithOpener(o Opener) Option { return func(d *Dispatcher) { d.opener = o } }

// NewDispatcher creates a dispatcher from the messaging configuration. When
// cfg.OpenFallback is set the system browser opens fallback links.
func NewDispatcher(cfg config.MessagingConfig, timeout time.Duration, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		endpoint:  strings.TrimSpace(cfg.Endpoint),
		recipient: cfg.Recipient,
		template:  cfg.FallbackTemplate,
		timeout:   timeout,
		client:    http.DefaultClient,
	}
	if d.template == "" || strings.Count(d.template, "%s") != 2 {
		d.template = DefaultFallbackTemplate
	}
	if cfg.OpenFallback {
		d.opener = BrowserOpener{}
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Recipient returns the configured shopper number.
func (d *Dispatcher) Recipient() string {
	return d.recipient
}

// Dispatch delivers msg. It never fails: any problem with the primary channel
// produces a fallback outcome carrying the link and the cause.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Outcome {
	if msg.To == "" {
		msg.To = d.recipient
	}
	target := "message"
	if msg.Order != nil {
		target = msg.Order.ID
	}

	err := d.post(ctx, msg)
	if err == nil {
		logging.Messaging("Delivered %s to %s via primary channel", target, msg.To)
		logging.Audit(logging.CategoryMessaging).Dispatch(target, false, nil)
		return Outcome{Channel: ChannelPrimary}
	}

	link := d.FallbackURL(msg.To, msg.Text)
	logging.MessagingWarn("Primary channel unavailable for %s (%v); falling back", target, err)
	logging.Audit(logging.CategoryMessaging).Dispatch(target, true, err)
	if d.opener != nil {
		if oerr := d.opener.Open(link); oerr != nil {
			logging.MessagingWarn("Failed to open fallback link: %v", oerr)
		}
	}
	return Outcome{Channel: ChannelFallback, Fallback: true, URL: link, Err: err}
}

// FallbackURL builds the click-to-chat link for a recipient and text.
func (d *Dispatcher) FallbackURL(to, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return fmt.Sprintf(d.template, digits(to), escaped)
}

func (d *Dispatcher) post(ctx context.Context, msg Message) error {
	if d.endpoint == "" {
		return ErrNoEndpoint
	}
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	body, err := json.Marshal(payload{To: msg.To, Message: msg.Text, Order: msg.Order})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("messaging endpoint: HTTP %d", resp.StatusCode)
	}
	return nil
}

// digits strips everything but 0-9 from a phone number.
func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
