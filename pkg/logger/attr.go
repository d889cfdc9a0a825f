package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}

// Domain records a domain name under the key "domain".
func Domain(domain string) slog.Attr {
	return slog.String("domain", domain)
}

// Provider records a registry or generation provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}
