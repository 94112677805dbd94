// Package images decides which discovered images belong to article content,
// derives their deduplication identity, and downloads them as grayscale
// PNGs for e-ink rendering.
package images

import (
	"fmt"
	"regexp"
	"strings"
)

// skipTokens mark decorative imagery: avatars, UI chrome, known small
// dimension markers and known profile-image hosts.
var skipTokens = []string{
	"avatar", "profile", "user", "author", "writer", "contributor",
	"icon", "logo", "button", "badge", "emoji", "social",
	"thumb", "thumbnail", "small", "tiny", "mini",
	"36x36", "48x48", "64x64", "128x128",
	"w_36", "w_48", "w_64", "h_36", "h_48", "h_64",
	"substack.com/@",
	"bucketeer-e05bbc84-baa3-437e-9518-adb32be77984.s3.amazonaws.com",
}

// largeSizeTokens are CDN dimension markers typical of full-width content
// images.
var largeSizeTokens = []string{"w_520", "w_1456", "w_1024", "w_800", "h_272", "h_1369", "h_1100"}

// IsContentImage reports whether an image is substantive article content
// rather than decoration. Decorative tokens veto; meaningful alt text or a
// large dimension marker confirms; anything else defaults to include.
func IsContentImage(url, alt string) bool {
	urlLower := strings.ToLower(url)
	altLower := strings.ToLower(alt)
	for _, tok := range skipTokens {
		if strings.Contains(urlLower, tok) || strings.Contains(altLower, tok) {
			return false
		}
	}
	if len(alt) > 3 {
		return true
	}
	for _, tok := range largeSizeTokens {
		if strings.Contains(url, tok) {
			return true
		}
	}
	return true
}

var (
	imageIDRe = regexp.MustCompile(`([a-f0-9-]+)_\d+x\d+\.(?:png|jpg|jpeg)`)
	uniqueRe  = regexp.MustCompile(`([a-f0-9-]{20,})`)

	widthParamRe  = regexp.MustCompile(`[?&]w=\d+`)
	heightParamRe = regexp.MustCompile(`[?&]h=\d+`)
	cLimitParamRe = regexp.MustCompile(`[?&]c_limit`)
	cFillParamRe  = regexp.MustCompile(`[?&]c_fill`)
)

// BaseKey derives the deduplication identity for an image URL. Substack
// CDN URLs embed a content identifier next to a WIDTHxHEIGHT suffix; that
// identifier is the key, so the same image fetched at different sizes
// collapses to one entry. Other URLs are stripped of size and crop query
// parameters.
func BaseKey(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	if strings.Contains(rawURL, "substackcdn.com") {
		if m := imageIDRe.FindStringSubmatch(rawURL); m != nil {
			return "image_id_" + m[1]
		}
		if m := uniqueRe.FindStringSubmatch(rawURL); m != nil {
			return "unique_" + m[1]
		}
	}
	s := widthParamRe.ReplaceAllString(rawURL, "")
	s = heightParamRe.ReplaceAllString(s, "")
	s = cLimitParamRe.ReplaceAllString(s, "")
	s = cFillParamRe.ReplaceAllString(s, "")
	return s
}

var fetchTargetRe = regexp.MustCompile(`https://substackcdn\.com/image/fetch/[^/]+/(https://.+)`)

var idDimsRe = regexp.MustCompile(`([a-f0-9-]+)_(\d+x\d+)\.(?:png|jpg|jpeg)`)

// tokenRepairer fixes transform tokens mangled by markdown escaping.
var tokenRepairer = strings.NewReplacer("$s!", "$s_!", "fauto", "f_auto", "qauto", "q_auto")

// cdnPresets are the transform presets tried when reconstructing a CDN URL
// from an embedded image identifier, largest first.
var cdnPresets = []string{
	"w_1456,c_limit,f_auto,q_auto:good,fl_progressive:steep",
	"w_520,h_272,c_fill,f_auto,q_auto:good,fl_progressive:steep,g_auto",
	"w_800,c_limit,f_auto,q_auto:good,fl_progressive:steep",
}

// CandidateURLs returns the ordered list of URLs to try when downloading an
// image. The first entry is always the original URL; for Substack CDN URLs
// it is followed by repair attempts for that host's delivery quirks:
// extracting the embedded fetch target, the token-repaired variant of the
// same, and reconstructed CDN URLs from the embedded image identifier.
func CandidateURLs(rawURL string) []string {
	out := []string{rawURL}
	if !strings.Contains(rawURL, "substackcdn.com") {
		return out
	}
	seen := map[string]bool{rawURL: true}
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}
	if m := fetchTargetRe.FindStringSubmatch(rawURL); m != nil {
		add(m[1])
	}
	if m := fetchTargetRe.FindStringSubmatch(tokenRepairer.Replace(rawURL)); m != nil {
		add(m[1])
	}
	if m := idDimsRe.FindStringSubmatch(rawURL); m != nil {
		for _, preset := range cdnPresets {
			add(fmt.Sprintf(
				"https://substackcdn.com/image/fetch/%s/https://substack-post-media.s3.amazonaws.com/public/images/%s_%s.png",
				preset, m[1], m[2]))
		}
	}
	return out
}
