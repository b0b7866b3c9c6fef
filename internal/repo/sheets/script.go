package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ScriptTransport talks to a Google Apps Script web app bound to the
// spreadsheet. The script accepts a JSON POST
//
//	{"action": "read"|"append"|"update"|"clear", "range": "Posts!A:J", "values": [[...]]}
//
// and answers {"success": true, "values": [[...]]} or {"success": false, "error": "..."}.
type ScriptTransport struct {
	url    string
	client *http.Client
}

// NewScriptTransport returns a ScriptTransport posting to url. A nil client means http.DefaultClient.
func NewScriptTransport(url string, client *http.Client) *ScriptTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &ScriptTransport{url: url, client: client}
}

type scriptRequest struct {
	Action string  `json:"action"`
	Range  string  `json:"range"`
	Values [][]any `json:"values,omitempty"`
}

type scriptResponse struct {
	Success bool    `json:"success"`
	Values  [][]any `json:"values"`
	Error   string  `json:"error"`
}

func (t *ScriptTransport) Get(ctx context.Context, rng string) ([][]string, error) {
	resp, err := t.call(ctx, scriptRequest{Action: "read", Range: rng})
	if err != nil {
		return nil, err
	}
	return toStrings(resp.Values), nil
}

func (t *ScriptTransport) Append(ctx context.Context, rng string, row []any) error {
	_, err := t.call(ctx, scriptRequest{Action: "append", Range: rng, Values: [][]any{row}})
	return err
}

func (t *ScriptTransport) Update(ctx context.Context, rng string, rows [][]any) error {
	_, err := t.call(ctx, scriptRequest{Action: "update", Range: rng, Values: rows})
	return err
}

func (t *ScriptTransport) Clear(ctx context.Context, rng string) error {
	_, err := t.call(ctx, scriptRequest{Action: "clear", Range: rng})
	return err
}

func (t *ScriptTransport) call(ctx context.Context, in scriptRequest) (*scriptResponse, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("apps script %s: %w", in.Action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apps script %s: %w", in.Action, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("apps script %s: read body: %w", in.Action, err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("apps script %s: unexpected status %d", in.Action, res.StatusCode)
	}

	var out scriptResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("apps script %s: decode response: %w", in.Action, err)
	}
	if !out.Success {
		return nil, fmt.Errorf("apps script %s %s: %s", in.Action, in.Range, out.Error)
	}
	return &out, nil
}
