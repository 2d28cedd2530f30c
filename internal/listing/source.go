package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Getter is the slice of the backend client the sources need.
type Getter interface {
	GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error
}

// listEnvelope holds the raw response; items live under "data" or under a
// key named after the resource.
type listEnvelope map[string]json.RawMessage

// DecodeList extracts items, pagination and total from a list response.
func DecodeList[T any](body []byte, key string) (ListResult[T], error) {
	var res ListResult[T]
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return res, fmt.Errorf("decode list envelope: %w", err)
	}

	raw, ok := env["data"]
	if key != "" {
		if byKey, found := env[key]; found {
			raw, ok = byKey, true
		}
	}
	if ok && len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &res.Items); err != nil {
			return res, fmt.Errorf("decode %s items: %w", key, err)
		}
	}
	if res.Items == nil {
		res.Items = []T{}
	}

	if p, found := env["pagination"]; found && string(p) != "null" {
		var rp RawPagination
		if err := json.Unmarshal(p, &rp); err != nil {
			return res, fmt.Errorf("decode pagination: %w", err)
		}
		res.Pagination = &rp
	}
	if t, found := env["total"]; found {
		var total int
		if err := json.Unmarshal(t, &total); err == nil {
			res.Total = &total
		}
	}
	return res, nil
}

// DecodeStats accepts the snapshot bare or wrapped in "data" or "stats".
func DecodeStats[S any](body []byte) (S, error) {
	var s S
	var env listEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return s, fmt.Errorf("decode stats: %w", err)
	}
	for _, k := range []string{"data", "stats"} {
		if raw, ok := env[k]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &s); err != nil {
				return s, fmt.Errorf("decode stats %s: %w", k, err)
			}
			return s, nil
		}
	}
	if err := json.Unmarshal(body, &s); err != nil {
		return s, fmt.Errorf("decode stats: %w", err)
	}
	return s, nil
}

// HTTPList binds a ListFunc to a GET endpoint.
func HTTPList[T any](client Getter, path, key string) ListFunc[T] {
	return func(ctx context.Context, q Query) (ListResult[T], error) {
		var body json.RawMessage
		if err := client.GetJSON(ctx, path, q.Values(), &body); err != nil {
			return ListResult[T]{}, err
		}
		return DecodeList[T](body, key)
	}
}

// HTTPStats binds a StatsFunc to a GET endpoint.
func HTTPStats[S any](client Getter, path string) StatsFunc[S] {
	return func(ctx context.Context, q Query) (S, error) {
		var body json.RawMessage
		if err := client.GetJSON(ctx, path, q.StatsValues(), &body); err != nil {
			var zero S
			return zero, err
		}
		return DecodeStats[S](body)
	}
}
