package sheets

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// FallbackTransport sends each call to primary and repeats it on secondary
// when primary reports that the Sheets API is disabled for the project.
// Any other primary error is returned as is.
type FallbackTransport struct {
	primary   Transport
	secondary Transport
	logger    *slog.Logger
}

func NewFallbackTransport(primary, secondary Transport, logger *slog.Logger) *FallbackTransport {
	return &FallbackTransport{primary: primary, secondary: secondary, logger: logger}
}

func (t *FallbackTransport) Get(ctx context.Context, rng string) ([][]string, error) {
	rows, err := t.primary.Get(ctx, rng)
	if t.shouldFallBack(ctx, "read", err) {
		return t.secondary.Get(ctx, rng)
	}
	return rows, err
}

func (t *FallbackTransport) Append(ctx context.Context, rng string, row []any) error {
	err := t.primary.Append(ctx, rng, row)
	if t.shouldFallBack(ctx, "append", err) {
		return t.secondary.Append(ctx, rng, row)
	}
	return err
}

func (t *FallbackTransport) Update(ctx context.Context, rng string, rows [][]any) error {
	err := t.primary.Update(ctx, rng, rows)
	if t.shouldFallBack(ctx, "update", err) {
		return t.secondary.Update(ctx, rng, rows)
	}
	return err
}

func (t *FallbackTransport) Clear(ctx context.Context, rng string) error {
	err := t.primary.Clear(ctx, rng)
	if t.shouldFallBack(ctx, "clear", err) {
		return t.secondary.Clear(ctx, rng)
	}
	return err
}

func (t *FallbackTransport) shouldFallBack(ctx context.Context, op string, err error) bool {
	if err == nil || !IsAPIDisabled(err) {
		return false
	}
	t.logger.WarnContext(ctx, "sheets api disabled, using apps script", "operation", op, "error", err)
	return true
}

// IsAPIDisabled reports whether err is the Sheets API refusing calls because
// the API is not enabled for the calling project.
func IsAPIDisabled(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if item.Reason == "accessNotConfigured" {
			return true
		}
	}
	for _, d := range gerr.Details {
		if m, ok := d.(map[string]interface{}); ok && m["reason"] == "SERVICE_DISABLED" {
			return true
		}
	}
	return strings.Contains(gerr.Message, "SERVICE_DISABLED") ||
		strings.Contains(gerr.Message, "has not been used in project") ||
		strings.Contains(gerr.Message, "it is disabled")
}
