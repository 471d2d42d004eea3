package main

import (
	"context"
	"fmt"

	"github.com/itchyny/gojq"
)

// recordFilter runs a jq program over each record value. A record may come
// out as zero, one or many values.
type recordFilter struct {
	code *gojq.Code
}

// newRecordFilter compiles expr. An empty expression yields a nil filter,
// which passes every value through.
func newRecordFilter(expr string) (*recordFilter, error) {
	if expr == "" {
		return nil, nil
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return &recordFilter{code: code}, nil
}

func (f *recordFilter) Apply(ctx context.Context, v any) ([]any, error) {
	if f == nil {
		return []any{v}, nil
	}

	var out []any
	iter := f.code.RunWithContext(ctx, v)
	for {
		result, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := result.(error); ok {
			return nil, fmt.Errorf("filter failed: %w", err)
		}
		out = append(out, result)
	}
	return out, nil
}
