package weread

import (
	"regexp"
	"strings"
)

// UserVIDCookie is the cookie that carries the numeric WeRead user id.
const UserVIDCookie = "wr_vid"

// CookieValue extracts key from a raw Cookie header string. It is tolerant of
// missing spaces after separators and returns "" when the key is absent.
func CookieValue(cookie, key string) string {
	re := regexp.MustCompile(`(?:^|;\s*)` + regexp.QuoteMeta(key) + `=([^;]+)`)
	m := re.FindStringSubmatch(cookie)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// UserVIDFromCookie returns the wr_vid value embedded in the cookie string.
func UserVIDFromCookie(cookie string) string {
	return CookieValue(cookie, UserVIDCookie)
}

// BookURL is the canonical reader URL used as the Readwise source_url.
func BookURL(webURL, bookID string) string {
	if webURL == "" {
		webURL = DefaultWebURL
	}
	return strings.TrimRight(webURL, "/") + "/web/reader/" + bookID
}
