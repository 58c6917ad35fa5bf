package aocweb

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/aocenv/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:      srv.URL,
		UserAgent:    "aocenv-test",
		Timeout:      2 * time.Second,
		RetryBackoff: time.Millisecond,
		Session:      func() (string, error) { return "cookie", nil },
	})
}

func TestFetchInputSendsSessionAndUserAgent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2023/day/1/input", r.URL.Path)
		cookie, err := r.Cookie("session")
		require.NoError(t, err)
		assert.Equal(t, "cookie", cookie.Value)
		assert.Equal(t, "aocenv-test", r.UserAgent())
		_, _ = io.WriteString(w, "1\n2\n3\n")
	})

	input, err := client.FetchInput(context.Background(), 2023, 1)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", input)
}

func TestFetchInputLoggedOut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Puzzle inputs differ by user.  Please log in to get your puzzle input.\n")
	})

	_, err := client.FetchInput(context.Background(), 2023, 1)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"redirect", http.StatusFound, domain.ErrAuthentication},
		{"forbidden", http.StatusForbidden, domain.ErrAuthentication},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
		{"server error", http.StatusBadGateway, domain.ErrTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.status == http.StatusFound {
					w.Header().Set("Location", "/auth/login")
				}
				w.WriteHeader(tt.status)
			})
			_, err := client.FetchText(context.Background(), 2023, 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTransportFailureRetriedOnce(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "42\n")
	})

	input, err := client.FetchInput(context.Background(), 2023, 1)
	require.NoError(t, err)
	assert.Equal(t, "42\n", input)
	assert.EqualValues(t, 2, calls.Load())
}

func TestTransportFailureGivesUpAfterRetry(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchInput(context.Background(), 2023, 1)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.EqualValues(t, 2, calls.Load())
}

func TestMissingSessionIsAuthentication(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls.Add(1) })
	client.session = func() (string, error) { return "", errors.New("unset") }

	_, err := client.FetchInput(context.Background(), 2023, 1)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Zero(t, calls.Load())
}

func TestSubmitAnswerPostsFormAndReturnsArticle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2023/day/1/answer", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		form, err := url.ParseQuery(string(body))
		require.NoError(t, err)
		assert.Equal(t, "2", form.Get("level"))
		assert.Equal(t, "281", form.Get("answer"))
		_, _ = io.WriteString(w, `<html><body><main><article><p>That's the right answer!  You are <em>one gold star</em> closer.</p></article></main></body></html>`)
	})

	text, err := client.SubmitAnswer(context.Background(), 2023, 1, domain.PartTwo, "281")
	require.NoError(t, err)
	assert.Equal(t, "That's the right answer! You are one gold star closer.", text)
}

func TestSubmitAnswerWithoutArticleAsksLogin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><a href="/2023/auth/login">[Log In]</a></body></html>`)
	})

	_, err := client.SubmitAnswer(context.Background(), 2023, 1, domain.PartOne, "1")
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestFetchTextRendersMarkdown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html><body><main>
<article class="day-desc"><h2>--- Day 1: Trebuchet?! ---</h2>
<p>Find the <em>calibration value</em> using <code>1abc2</code>.</p>
<pre><code>1abc2
pqr3stu8vwx
</code></pre>
<ul><li>one</li><li>two</li></ul>
</article>
<p>Your puzzle answer was <code>142</code>.</p>
</main></body></html>`)
	})

	text, err := client.FetchText(context.Background(), 2023, 1)
	require.NoError(t, err)
	want := "## --- Day 1: Trebuchet?! ---\n\n" +
		"Find the *calibration value* using `1abc2`.\n\n" +
		"```\n1abc2\npqr3stu8vwx\n```\n\n" +
		"- one\n- two\n"
	assert.Equal(t, want, text)
}

func TestFetchYearOverviewReadsStars(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2023", r.URL.Path)
		_, _ = io.WriteString(w, `<html><body><pre class="calendar">
<a aria-label="Day 1, two stars" href="/2023/day/1" class="calendar-day1 calendar-verycomplete">1</a>
<a aria-label="Day 2, one star" href="/2023/day/2" class="calendar-day2 calendar-complete">2</a>
<a aria-label="Day 3" href="/2023/day/3" class="calendar-day3">3</a>
</pre></body></html>`)
	})

	keys, err := client.FetchYearOverview(context.Background(), 2023)
	require.NoError(t, err)
	assert.Equal(t, []domain.PuzzleKey{
		{Year: 2023, Day: 1, Part: domain.PartOne},
		{Year: 2023, Day: 1, Part: domain.PartTwo},
		{Year: 2023, Day: 2, Part: domain.PartOne},
	}, keys)
}

func TestSubmitAnswerNotRetriedAfterServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SubmitAnswer(context.Background(), 2023, 1, domain.PartOne, "42")
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubmitAnswerDialFailureIsRetryable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := New(Options{
		BaseURL:      "http://" + addr,
		Timeout:      time.Second,
		RetryBackoff: time.Millisecond,
		Session:      func() (string, error) { return "cookie", nil },
	})
	_, err = client.SubmitAnswer(context.Background(), 2023, 1, domain.PartOne, "42")
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.True(t, neverSent(err))
}
