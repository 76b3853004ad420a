package images

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// ErrBlockedPage is returned for product pages that are not public http(s)
// URLs. Such pages are never fetched.
var ErrBlockedPage = errors.New("page address not allowed")

const maxPageRedirects = 5

// WithPrivatePages allows product pages on loopback and private networks.
func WithPrivatePages() Option {
	return func(r *Resolver) { r.privatePages = true }
}

// checkPage rejects anything but http(s) URLs with a public host. Hosts given
// by name are checked again at dial time, after resolution.
func (r *Resolver) checkPage(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrBlockedPage, u.Scheme)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: no host", ErrBlockedPage)
	}
	if r.privatePages {
		return nil
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("%w: %s", ErrBlockedPage, host)
	}
	if ip := net.ParseIP(host); ip != nil && blockedIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedPage, host)
	}
	return nil
}

func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified()
}

// newPageClient returns the client used for product pages. Unless private
// pages are allowed, it refuses to connect to blocked addresses and to
// follow redirects to blocked URLs.
func (r *Resolver) newPageClient() *http.Client {
	if r.privatePages {
		return r.client
	}
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
		Control: func(_, address string, _ syscall.RawConn) error {
			host, _, err := net.SplitHostPort(address)
			if err != nil {
				return err
			}
			ip := net.ParseIP(host)
			if ip == nil || blockedIP(ip) {
				return fmt.Errorf("%w: %s", ErrBlockedPage, host)
			}
			return nil
		},
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        16,
			IdleConnTimeout:     90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxPageRedirects {
				return fmt.Errorf("stopped after %d redirects", maxPageRedirects)
			}
			return r.checkPage(req.URL)
		},
	}
}
