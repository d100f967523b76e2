// Package payment interprets the redirect the online payment provider sends the client back with.
package payment

import (
	"net/url"
	"strings"
)

// Succeeded reports whether a provider redirect URL carries resultCode=0.
// The check is a plain substring match when the URL cannot be parsed.
func Succeeded(redirectURL string) bool {
	if redirectURL == "" {
		return false
	}
	if u, err := url.Parse(redirectURL); err == nil {
		if codes, ok := u.Query()["resultCode"]; ok {
			for _, c := range codes {
				if c == "0" {
					return true
				}
			}
			return false
		}
	}
	return strings.Contains(redirectURL, "resultCode=0")
}
