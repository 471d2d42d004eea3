package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFilter_NilPassesThrough(t *testing.T) {
	f, err := newRecordFilter("")
	require.NoError(t, err)
	assert.Nil(t, f)

	out, err := f.Apply(context.Background(), []any{"a"})
	require.NoError(t, err)
	assert.Equal(t, []any{[]any{"a"}}, out)
}

func TestRecordFilter_Apply(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		expr string
		in   any
		want []any
	}{
		{"select match", `select(.[0] == "a")`, []any{"a", "b"}, []any{[]any{"a", "b"}}},
		{"select miss", `select(.[0] == "a")`, []any{"x"}, nil},
		{"many outputs", `.[]`, []any{"a", "b"}, []any{"a", "b"}},
		{"object field", `.name | ascii_upcase`, map[string]any{"name": "ann"}, []any{"ANN"}},
		{"reshape", `{id: .[0], rest: .[1:]}`, []any{"x", "42"}, []any{map[string]any{"id": "x", "rest": []any{"42"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := newRecordFilter(tt.expr)
			require.NoError(t, err)

			out, err := f.Apply(ctx, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRecordFilter_Errors(t *testing.T) {
	_, err := newRecordFilter(`select(`)
	assert.ErrorContains(t, err, "invalid filter")

	_, err = newRecordFilter(`$undefined`)
	assert.ErrorContains(t, err, "invalid filter")

	f, err := newRecordFilter(`error("bad record")`)
	require.NoError(t, err)
	_, err = f.Apply(context.Background(), []any{"a"})
	assert.ErrorContains(t, err, "filter failed")
}
