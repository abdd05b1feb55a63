package ezauth

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// Roles forwarded to the forbidden page must match this pattern. Anything
// else is dropped so that role strings can't be used for query injection.
var rolePattern = regexp.MustCompile(`^[A-Za-z0-9_ -]+$`)

// ValidRole reports whether role may be included in a forbidden URL.
func ValidRole(role string) bool {
	return rolePattern.MatchString(role)
}

// ValidURL reports whether s is an absolute URL with a scheme and host, and
// no whitespace or control characters.
func ValidURL(s string) bool {
	if s == "" || strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Hostname() != ""
}

// LoginURL returns the authority's login page. The user is sent back to
// returnTo after logging in, provided it is a valid URL.
func LoginURL(authority, returnTo string) string {
	u := authorityPath(authority, "login")
	if !ValidURL(returnTo) {
		return u
	}
	return u + "?" + url.Values{"redirectTo": {returnTo}}.Encode()
}

// LogoutURL returns the authority's logout page.
func LogoutURL(authority string) string {
	return authorityPath(authority, "logout")
}

// ForbiddenURL returns the authority's access denied page, listing the roles
// that would have been accepted. Invalid roles and an invalid returnTo are
// left out.
func ForbiddenURL(authority string, roles []string, returnTo string) string {
	q := url.Values{}
	for _, r := range roles {
		if ValidRole(r) {
			q.Add("roles", r)
		}
	}
	if ValidURL(returnTo) {
		q.Set("redirectTo", returnTo)
	}

	u := authorityPath(authority, "forbidden")
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}

// CurrentURL builds the URL of the current request from its host and request
// target. The scheme is always https. Returns false if either part is missing
// or the result isn't a valid URL.
func CurrentURL(host, requestURI string) (string, bool) {
	if host == "" || !strings.HasPrefix(requestURI, "/") {
		return "", false
	}
	u := "https://" + host + requestURI
	if !ValidURL(u) {
		return "", false
	}
	return u, true
}

func authorityPath(authority, page string) string {
	return strings.TrimRight(authority, "/") + "/" + page
}
