package images

import (
	"strings"
	"testing"
)

func TestIsContentImage_DecorativeTokensVeto(t *testing.T) {
	cases := []struct {
		url, alt string
	}{
		{"https://example.com/avatar.png", "a long descriptive alt text"},
		{"https://example.com/pic.png", "company logo"},
		{"https://cdn.example.com/w_36/pic.png", "meaningful alt"},
		{"https://example.com/user-photo.jpg", ""},
		{"https://substack.com/@someone/photo.png", "portrait"},
	}
	for _, c := range cases {
		if IsContentImage(c.url, c.alt) {
			t.Fatalf("expected decorative for url=%q alt=%q", c.url, c.alt)
		}
	}
}

func TestIsContentImage_LargeDimensionMarker(t *testing.T) {
	if !IsContentImage("https://cdn.example.com/w_1456/pic.png", "") {
		t.Fatalf("w_1456 with no decorative token should be content")
	}
}

func TestIsContentImage_MeaningfulAltText(t *testing.T) {
	if !IsContentImage("https://example.com/x.png", "a chart of results") {
		t.Fatalf("alt text longer than 3 chars should be content")
	}
}

func TestIsContentImage_DefaultInclude(t *testing.T) {
	if !IsContentImage("https://example.com/x.png", "ok") {
		t.Fatalf("no indicators should default to include")
	}
}

func TestBaseKey_SubstackImageID(t *testing.T) {
	url := "https://substackcdn.com/image/fetch/w_1456,c_limit/https%3A%2F%2Fsub.s3.amazonaws.com/ab82ead4-9593-43b2-932c-cfd7ddf464fc_1376x864.png"
	got := BaseKey(url)
	if got != "image_id_ab82ead4-9593-43b2-932c-cfd7ddf464fc" {
		t.Fatalf("got %q", got)
	}
}

func TestBaseKey_StableUnderSizeParams(t *testing.T) {
	a := BaseKey("https://example.com/pic.png?w=520&h=272&c_limit")
	b := BaseKey("https://example.com/pic.png?h=1100&w=36&c_fill")
	c := BaseKey("https://example.com/pic.png")
	if a != b || b != c {
		t.Fatalf("keys differ: %q %q %q", a, b, c)
	}
}

func TestBaseKey_Empty(t *testing.T) {
	if got := BaseKey(""); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCandidateURLs_NonCDNPassthrough(t *testing.T) {
	got := CandidateURLs("https://example.com/pic.png")
	if len(got) != 1 || got[0] != "https://example.com/pic.png" {
		t.Fatalf("got %v", got)
	}
}

func TestCandidateURLs_SubstackRepairOrder(t *testing.T) {
	url := "https://substackcdn.com/image/fetch/w_1456,c_limit/https://substack-post-media.s3.amazonaws.com/public/images/ab82ead4-9593-43b2-932c-cfd7ddf464fc_1376x864.png"
	got := CandidateURLs(url)
	if got[0] != url {
		t.Fatalf("first candidate must be the original URL, got %q", got[0])
	}
	if len(got) < 2 || !strings.HasPrefix(got[1], "https://substack-post-media.s3.amazonaws.com/") {
		t.Fatalf("second candidate should be the embedded fetch target, got %v", got)
	}
	var sawPreset bool
	for _, u := range got {
		if strings.Contains(u, "w_1456,c_limit,f_auto,q_auto:good") {
			sawPreset = true
			break
		}
	}
	if !sawPreset {
		t.Fatalf("expected a reconstructed preset URL in %v", got)
	}
	seen := map[string]bool{}
	for _, u := range got {
		if seen[u] {
			t.Fatalf("duplicate candidate %q", u)
		}
		seen[u] = true
	}
}

func TestCandidateURLs_MangledTokens(t *testing.T) {
	url := "https://substackcdn.com/image/fetch/w_1456,c_limit,fauto,qauto:good/https://host/img/ab82ead4-9593-43b2-932c-cfd7ddf464fc_100x100.png"
	got := CandidateURLs(url)
	var sawRepairedTarget bool
	for _, u := range got {
		if strings.HasPrefix(u, "https://host/img/") {
			sawRepairedTarget = true
		}
	}
	if !sawRepairedTarget {
		t.Fatalf("expected repaired fetch target in %v", got)
	}
}
