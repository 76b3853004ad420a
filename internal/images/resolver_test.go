package images

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"atelier/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func photoAPI(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/search/photos", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Client-ID test-key", r.Header.Get("Authorization"))
		q := r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"results":[{"urls":{"regular":"https://photos.test/%s.jpg"}}]}`, strings.ReplaceAll(q, " ", "-"))
	}))
}

func TestResolve_FallbackWithoutKey(t *testing.T) {
	r := New(config.ImagesConfig{}, time.Second)
	got := r.Resolve(context.Background(), "teal umbrella fashion luxury fashion")
	assert.Equal(t, "https://source.unsplash.com/800x800/?teal+umbrella+fashion+luxury+fashion", got)
}

func TestResolve_PhotoAPI(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))

	var hits int32
	srv := photoAPI(t, &hits)
	defer srv.Close()

	r := New(config.ImagesConfig{AccessKey: "test-key", APIBaseURL: srv.URL}, time.Second,
		WithHTTPClient(srv.Client()))
	got := r.Resolve(context.Background(), "black tote")
	assert.Equal(t, "https://photos.test/black-tote.jpg", got)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	srv.Client().CloseIdleConnections()
}

func TestResolve_APIErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := New(config.ImagesConfig{AccessKey: "test-key", APIBaseURL: srv.URL}, time.Second)
	assert.Equal(t, r.Fallback("silk scarf"), r.Resolve(context.Background(), "silk scarf"))
}

func TestResolve_EmptyResultsFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	r := New(config.ImagesConfig{AccessKey: "k", APIBaseURL: srv.URL}, time.Second)
	assert.Equal(t, r.Fallback("loafers"), r.Resolve(context.Background(), "loafers"))
}

func TestResolve_TimeoutFallsBack(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := New(config.ImagesConfig{AccessKey: "k", APIBaseURL: srv.URL}, 50*time.Millisecond)
	start := time.Now()
	got := r.Resolve(context.Background(), "slow phrase")
	assert.Equal(t, r.Fallback("slow phrase"), got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestResolveAll_PreservesOrder(t *testing.T) {
	var hits int32
	srv := photoAPI(t, &hits)
	defer srv.Close()

	r := New(config.ImagesConfig{AccessKey: "test-key", APIBaseURL: srv.URL}, time.Second)
	phrases := []string{"a one", "b two", "c three", "d four", "e five", "f six", "g seven", "h eight", "i nine"}
	got := r.ResolveAll(context.Background(), phrases)

	require.Len(t, got, len(phrases))
	for i, p := range phrases {
		assert.Equal(t, "https://photos.test/"+strings.ReplaceAll(p, " ", "-")+".jpg", got[i])
	}
	assert.EqualValues(t, len(phrases), atomic.LoadInt32(&hits))
}

func TestResolveFromPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/og", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
<meta name="twitter:image" content="https://cdn.test/twitter.jpg">
<meta property="og:image" content="/media/og.jpg">
</head><body></body></html>`))
	})
	mux.HandleFunc("/twitter", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta name="twitter:image" content="https://cdn.test/t.jpg"></head></html>`))
	})
	mux.HandleFunc("/bare", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>no tags</body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := New(config.ImagesConfig{}, time.Second, WithPrivatePages())
	ctx := context.Background()

	assert.Equal(t, srv.URL+"/media/og.jpg", r.ResolveFromPage(ctx, srv.URL+"/og", "x"))
	assert.Equal(t, "https://cdn.test/t.jpg", r.ResolveFromPage(ctx, srv.URL+"/twitter", "x"))
	assert.Equal(t, r.Fallback("bare page"), r.ResolveFromPage(ctx, srv.URL+"/bare", "bare page"))
	assert.Equal(t, r.Fallback("no page"), r.ResolveFromPage(ctx, "", "no page"))
}

func TestResolveFromPage_SkipsNonPublicPages(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`<html><head><meta property="og:image" content="https://cdn.test/leak.jpg"></head></html>`))
	}))
	defer srv.Close()

	r := New(config.ImagesConfig{}, time.Second)
	ctx := context.Background()

	pages := []string{
		srv.URL + "/og",
		strings.Replace(srv.URL, "127.0.0.1", "localhost", 1) + "/og",
		"http://10.0.0.7/admin",
		"http://192.168.1.1/",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/",
		"http://0.0.0.0/",
		"file:///etc/passwd",
		"gopher://shop.test/",
		"//no-scheme.test/page",
	}
	for _, page := range pages {
		assert.Equal(t, r.Fallback("scarf"), r.ResolveFromPage(ctx, page, "scarf"), page)
	}
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestCheckPage(t *testing.T) {
	r := New(config.ImagesConfig{}, 0)
	cases := map[string]bool{
		"https://shop.test/p/1":      true,
		"http://93.184.216.34/p":     true,
		"https://[2606:4700::1]/p":   true,
		"http://127.0.0.1:8080/":     false,
		"http://LOCALHOST/":          false,
		"http://api.localhost/":      false,
		"http://172.16.3.4/":         false,
		"http://[fe80::1]/":          false,
		"http://[fd00::1]/":          false,
		"ftp://shop.test/file":       false,
		"https:///missing-host/path": false,
	}
	for raw, want := range cases {
		u, err := url.Parse(raw)
		require.NoError(t, err, raw)
		err = r.checkPage(u)
		if want {
			assert.NoError(t, err, raw)
		} else {
			assert.ErrorIs(t, err, ErrBlockedPage, raw)
		}
	}

	private := New(config.ImagesConfig{}, 0, WithPrivatePages())
	u, _ := url.Parse("http://127.0.0.1:8080/")
	assert.NoError(t, private.checkPage(u))
	u, _ = url.Parse("file:///etc/passwd")
	assert.ErrorIs(t, private.checkPage(u), ErrBlockedPage)
}

func TestNew_BadTemplateUsesDefault(t *testing.T) {
	r := New(config.ImagesConfig{FallbackTemplate: "https://img.test/static.jpg"}, 0)
	assert.True(t, strings.HasPrefix(r.Fallback("x"), "https://source.unsplash.com/800x800/?"))
}
