package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rsspress/internal/fetch"
)

func testClient() *fetch.Client {
	return &fetch.Client{Accept: fetch.AcceptFeed, PerRequestTimeout: 5 * time.Second}
}

func rssDocument(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example Blog</title>
<link>https://example.com</link>
<description>Posts about examples</description>
%s
</channel>
</rss>`, items)
}

func rssItem(title, link, author, pubDate string) string {
	var authorTag string
	if author != "" {
		authorTag = "<author>" + author + "</author>"
	}
	var dateTag string
	if pubDate != "" {
		dateTag = "<pubDate>" + pubDate + "</pubDate>"
	}
	return fmt.Sprintf("<item><title>%s</title><link>%s</link>%s%s</item>", title, link, authorTag, dateTag)
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_MapsEntries(t *testing.T) {
	doc := rssDocument(
		rssItem("First Post", "https://example.com/1", "jane@example.com (Jane Doe)", "Mon, 01 Apr 2024 10:00:00 GMT") +
			rssItem("Second Post", "https://example.com/2", "", ""))
	srv := serveFeed(t, doc)

	got, err := Fetch(context.Background(), testClient(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Title != "Example Blog" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Description != "Posts about examples" {
		t.Fatalf("description = %q", got.Description)
	}
	if len(got.Articles) != 2 {
		t.Fatalf("articles = %d", len(got.Articles))
	}
	first := got.Articles[0]
	if first.Title != "First Post" || first.Link != "https://example.com/1" {
		t.Fatalf("first article = %+v", first)
	}
	if first.Author == "" || first.Author == "Unknown" {
		t.Fatalf("author not mapped: %+v", first)
	}
	second := got.Articles[1]
	if second.Author != "Unknown" {
		t.Fatalf("missing author must default to Unknown, got %q", second.Author)
	}
}

func TestFetch_MissingTitleGetsPlaceholder(t *testing.T) {
	doc := rssDocument(`<item><link>https://example.com/untitled</link></item>`)
	srv := serveFeed(t, doc)

	got, err := Fetch(context.Background(), testClient(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got.Articles[0].Title != "No title" {
		t.Fatalf("title = %q, want placeholder", got.Articles[0].Title)
	}
}

func TestFetch_EmptyFeed(t *testing.T) {
	srv := serveFeed(t, rssDocument(""))

	_, err := Fetch(context.Background(), testClient(), srv.URL)
	if !errors.Is(err, ErrNoEntries) {
		t.Fatalf("err = %v, want ErrNoEntries", err)
	}
}

func TestFetch_UnreachableFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Fetch(context.Background(), testClient(), srv.URL)
	if err == nil {
		t.Fatalf("expected error for 404 feed")
	}
}

func TestFetch_MalformedXML(t *testing.T) {
	srv := serveFeed(t, "this is not a feed at all")

	_, err := Fetch(context.Background(), testClient(), srv.URL)
	if err == nil {
		t.Fatalf("expected parse error")
	}
}

// recentDate formats a pubDate inside the recency window.
func recentDate() string {
	return time.Now().Add(-48 * time.Hour).UTC().Format(time.RFC1123Z)
}

// staleDate formats a pubDate well outside the recency window.
func staleDate() string {
	return time.Now().Add(-90 * 24 * time.Hour).UTC().Format(time.RFC1123Z)
}
