package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/colinruark1/ocean-cleaning/internal/repo"
)

// Options configures the spreadsheet backend.
type Options struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
	APIKey          string
	AppsScriptURL   string
	UsersSheet      string
	EventsSheet     string
	PostsSheet      string
	Timeout         time.Duration
	// ClientOptions are appended to the Sheets API client options.
	ClientOptions []option.ClientOption
}

func (o Options) hasAPI() bool {
	return o.CredentialsFile != "" || o.CredentialsJSON != "" || o.APIKey != "" || len(o.ClientOptions) > 0
}

func (o Options) clientOptions() []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case o.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(o.CredentialsJSON)))
	case o.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	case o.APIKey != "":
		opts = append(opts, option.WithAPIKey(o.APIKey))
	}
	return append(opts, o.ClientOptions...)
}

// NewTransport builds the transport chain for o: the Sheets API, the Apps
// Script web app, or the API falling back to the script.
func NewTransport(ctx context.Context, o Options, logger *slog.Logger) (Transport, error) {
	var api, script Transport
	if o.hasAPI() {
		srv, err := sheets.NewService(ctx, o.clientOptions()...)
		if err != nil {
			return nil, fmt.Errorf("sheets client: %w", err)
		}
		api = NewAPITransport(srv, o.SpreadsheetID)
	}
	if o.AppsScriptURL != "" {
		script = NewScriptTransport(o.AppsScriptURL, &http.Client{Timeout: o.Timeout})
	}

	switch {
	case api != nil && script != nil:
		return NewFallbackTransport(api, script, logger), nil
	case api != nil:
		return api, nil
	case script != nil:
		return script, nil
	}
	return nil, errors.New("sheets backend needs API credentials, an API key or an Apps Script URL")
}

// Open connects to the spreadsheet, writes missing headers and returns a Store over it.
func Open(ctx context.Context, o Options, logger *slog.Logger) (*repo.Store, error) {
	tr, err := NewTransport(ctx, o, logger)
	if err != nil {
		return nil, err
	}
	c := newClient(tr, o)
	if err := c.ensureHeaders(ctx); err != nil {
		return nil, fmt.Errorf("sheets headers: %w", err)
	}
	return c.store(), nil
}

// client holds the tables of one spreadsheet. mu serializes read-modify-write
// sequences, which the spreadsheet cannot do atomically.
type client struct {
	mu      sync.Mutex
	timeout time.Duration
	users   *table
	events  *table
	posts   *table
}

func newClient(tr Transport, o Options) *client {
	if o.UsersSheet == "" {
		o.UsersSheet = "Users"
	}
	if o.EventsSheet == "" {
		o.EventsSheet = "Events"
	}
	if o.PostsSheet == "" {
		o.PostsSheet = "Posts"
	}
	return &client{
		timeout: o.Timeout,
		users:   newTable(tr, o.UsersSheet, userHeader),
		events:  newTable(tr, o.EventsSheet, eventHeader),
		posts:   newTable(tr, o.PostsSheet, postHeader),
	}
}

func (c *client) store() *repo.Store {
	return repo.NewStore(&UserRepo{c: c}, &EventRepo{c: c}, &PostRepo{c: c}, nil)
}

func (c *client) ensureHeaders(ctx context.Context) error {
	for _, t := range []*table{c.users, c.events, c.posts} {
		if err := t.ensureHeader(ctx); err != nil {
			return err
		}
	}
	return nil
}

// begin locks the client and bounds ctx by the configured timeout.
// The returned func releases both.
func (c *client) begin(ctx context.Context) (context.Context, func()) {
	c.mu.Lock()
	if c.timeout <= 0 {
		return ctx, c.mu.Unlock
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	return ctx, func() {
		cancel()
		c.mu.Unlock()
	}
}
