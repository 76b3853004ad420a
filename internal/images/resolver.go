// Package images turns descriptive phrases into displayable image URLs.
//
// Resolution never fails: a photo-search API is consulted when an access key is
// configured, product pages are scanned for social preview tags, and a
// deterministic keyword URL is the last resort.
package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"atelier/internal/config"
	"atelier/internal/logging"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultFallbackTemplate is used when no template is configured.
	DefaultFallbackTemplate = "https://source.unsplash.com/800x800/?%s"

	maxPageBytes   = 1 << 20
	maxConcurrency = 8
)

// Resolver resolves phrases to image URLs.
type Resolver struct {
	accessKey string
	apiBase   string
	template  string
	timeout   time.Duration
	client    *http.Client

	privatePages bool
	pageClient   *http.Client
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// New creates a Resolver from the images configuration.
func New(cfg config.ImagesConfig, timeout time.Duration, opts ...Option) *Resolver {
	r := &Resolver{
		accessKey: strings.TrimSpace(cfg.AccessKey),
		apiBase:   strings.TrimRight(cfg.APIBaseURL, "/"),
		template:  cfg.FallbackTemplate,
		timeout:   timeout,
		client:    http.DefaultClient,
	}
	if r.template == "" || !strings.Contains(r.template, "%s") {
		r.template = DefaultFallbackTemplate
	}
	for _, opt := range opts {
		opt(r)
	}
	r.pageClient = r.newPageClient()
	return r
}

// Fallback returns the deterministic keyword URL for a phrase.
func (r *Resolver) Fallback(phrase string) string {
	return fmt.Sprintf(r.template, url.QueryEscape(strings.TrimSpace(phrase)))
}

// Resolve returns an image URL for phrase. It never fails.
func (r *Resolver) Resolve(ctx context.Context, phrase string) string {
	if r.accessKey != "" && r.apiBase != "" {
		lookupCtx, cancel := r.bound(ctx)
		u, err := r.searchPhoto(lookupCtx, phrase)
		cancel()
		if err == nil && u != "" {
			return u
		}
		if err != nil {
			logging.ImagesWarn("Photo search for %q failed: %v", phrase, err)
		}
	}
	return r.Fallback(phrase)
}

// ResolveFromPage prefers the og:image or twitter:image tag of a product page
// and otherwise behaves like Resolve. Only public http(s) pages are fetched.
func (r *Resolver) ResolveFromPage(ctx context.Context, pageURL, phrase string) string {
	if pageURL != "" {
		lookupCtx, cancel := r.bound(ctx)
		u, err := r.pageImage(lookupCtx, pageURL)
		cancel()
		if err == nil && u != "" {
			return u
		}
		logging.ImagesDebug("No preview image on %s: %v", pageURL, err)
	}
	return r.Resolve(ctx, phrase)
}

// ResolveAll resolves every phrase concurrently. The output is index-aligned
// with the input.
func (r *Resolver) ResolveAll(ctx context.Context, phrases []string) []string {
	out := make([]string, len(phrases))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrency)
	for i, phrase := range phrases {
		eg.Go(func() error {
			out[i] = r.Resolve(egCtx, phrase)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

func (r *Resolver) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}

type photoSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
			Small   string `json:"small"`
		} `json:"urls"`
	} `json:"results"`
}

func (r *Resolver) searchPhoto(ctx context.Context, phrase string) (string, error) {
	q := url.Values{}
	q.Set("query", phrase)
	q.Set("per_page", "1")
	endpoint := r.apiBase + "/search/photos?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+r.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("photo search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("photo search: HTTP %d", resp.StatusCode)
	}

	var body photoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode photo search: %w", err)
	}
	if len(body.Results) == 0 {
		return "", nil
	}
	if u := body.Results[0].URLs.Regular; u != "" {
		return u, nil
	}
	return body.Results[0].URLs.Small, nil
}

func (r *Resolver) pageImage(ctx context.Context, pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse page url: %w", err)
	}
	if err := r.checkPage(u); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.pageClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	img := previewImage(doc)
	if img == "" {
		return "", nil
	}
	return absolute(pageURL, img), nil
}

// previewImage walks the document for og:image, then twitter:image.
func previewImage(doc *html.Node) string {
	found := map[string]string{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var key, content string
			for _, a := range n.Attr {
				switch strings.ToLower(a.Key) {
				case "property", "name":
					key = strings.ToLower(a.Val)
				case "content":
					content = strings.TrimSpace(a.Val)
				}
			}
			if content != "" && found[key] == "" {
				found[key] = content
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, key := range []string{"og:image", "og:image:url", "twitter:image"} {
		if v := found[key]; v != "" {
			return v
		}
	}
	return ""
}

func absolute(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}
