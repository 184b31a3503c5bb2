package logger

import (
	"log/slog"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// ClientIP records a client IP address under the key "client_ip".
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// Tier records a tier name under the key "tier".
func Tier(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("tier", name)
}

// Month records a YYYY-MM month key under the key "month".
func Month(monthYear string) slog.Attr {
	if monthYear == "" {
		return slog.Attr{}
	}
	return slog.String("month", monthYear)
}

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}
