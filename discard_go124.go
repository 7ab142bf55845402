//go:build go1.24

package okapi

import "log/slog"

var discardHandler slog.Handler = slog.DiscardHandler
