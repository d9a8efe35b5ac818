package utils

import (
	"net/url"
	"strings"
)

const redactedURL = "<redacted-url>"

// RedactURL reduces an RPC URL to scheme and host. Userinfo, path and query often carry
// provider API keys and are dropped.
func RedactURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return redactedURL
	}
	return u.Scheme + "://" + u.Host
}

// RedactURLs applies RedactURL to every item.
func RedactURLs(raws []string) []string {
	out := make([]string, 0, len(raws))
	for _, r := range raws {
		out = append(out, RedactURL(r))
	}
	return out
}

// RedactError replaces every spelling of endpoint in err's message with its redacted form.
// errors.Is and errors.As still see the original chain.
func RedactError(err error, endpoint string) error {
	if err == nil || endpoint == "" {
		return err
	}
	msg := err.Error()
	redacted := RedactURL(endpoint)
	for _, form := range urlForms(endpoint) {
		msg = strings.ReplaceAll(msg, form, redacted)
	}
	if msg == err.Error() {
		return err
	}
	return &redactedError{msg: msg, err: err}
}

// urlForms lists the ways endpoint can appear in an error message, longest first.
func urlForms(endpoint string) []string {
	forms := []string{endpoint}
	u, err := url.Parse(endpoint)
	if err != nil {
		return forms
	}
	if u.User != nil {
		// net/http masks passwords as "***" in *url.Error.
		if _, ok := u.User.Password(); ok {
			forms = append(forms, strings.Replace(u.String(), u.User.String()+"@", u.User.Username()+":***@", 1))
		}
		forms = append(forms, u.Redacted())
	}
	if u.Scheme != "" && u.Host != "" && (u.Path != "" || u.RawQuery != "") {
		// Bare path and query, for messages that print them without the host.
		tail := u.EscapedPath()
		if u.RawQuery != "" {
			tail += "?" + u.RawQuery
		}
		if tail != "/" {
			forms = append(forms, tail)
		}
	}
	return forms
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
