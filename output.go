package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/YLivay/delimited/reader"
	"github.com/YLivay/delimited/utils"
)

const (
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTable = "table"
	formatCSV   = "csv"
	formatTSV   = "tsv"
)

// Cells wider than this are truncated in table output.
const maxCellWidth = 40

// recordWriter writes parsed records, after filtering, in one output format.
// Values are what recordValue produces or what a filter made of it.
type recordWriter interface {
	Write(v any) error
	Flush() error
}

// newRecordWriter returns a writer for format. header holds the column names
// when the input has a header row, and is nil otherwise.
func newRecordWriter(format string, w io.Writer, header []string) (recordWriter, error) {
	switch format {
	case formatJSON:
		return &jsonWriter{w: w, header: header}, nil
	case formatYAML:
		return &yamlWriter{enc: yaml.NewEncoder(w), header: header}, nil
	case formatCSV:
		return newDelimitedWriter(w, reader.CSV(), header), nil
	case formatTSV:
		return newDelimitedWriter(w, reader.TSV(), header), nil
	case formatTable:
		return &tableWriter{w: w, header: header}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// columnNames names the first n columns after the header row. Missing or empty
// names become c1, c2, ... and repeated names get a numeric suffix, so every
// name can serve as an object key or a table column.
func columnNames(header []string, n int) []string {
	names := make([]string, n)
	seen := make(map[string]int, n)
	for i := range names {
		name := ""
		if i < len(header) {
			name = strings.TrimSpace(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("c%d", i+1)
		}

		seen[name]++
		if count := seen[name]; count > 1 {
			name = fmt.Sprintf("%s_%d", name, count)
		}
		names[i] = name
	}
	return names
}

// recordValue turns a record's fields into a JSON-like value: an array of
// strings, or an object keyed by column name when there is a header.
func recordValue(fields []string, names []string) any {
	if names == nil {
		v := make([]any, len(fields))
		for i, f := range fields {
			v[i] = f
		}
		return v
	}

	if len(fields) > len(names) {
		names = columnNames(names, len(fields))
	}
	v := make(map[string]any, len(fields))
	for i, f := range fields {
		v[names[i]] = f
	}
	return v
}

// orderedKeys returns the keys of v with the header columns first, in column
// order, followed by any other keys sorted.
func orderedKeys(v map[string]any, header []string) []string {
	keys := make([]string, 0, len(v))
	for _, name := range header {
		if _, ok := v[name]; ok {
			keys = append(keys, name)
		}
	}
	var extra []string
	for k := range v {
		if !slices.Contains(header, k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// cellsOf flattens a value back into a row of cells.
func cellsOf(v any, header []string) []string {
	switch v := v.(type) {
	case []any:
		cells := make([]string, len(v))
		for i, e := range v {
			cells[i] = stringify(e)
		}
		return cells
	case map[string]any:
		keys := orderedKeys(v, header)
		cells := make([]string, len(keys))
		for i, k := range keys {
			cells[i] = stringify(v[k])
		}
		return cells
	default:
		return []string{stringify(v)}
	}
}

func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// jsonWriter writes one JSON value per line. Objects keep their keys in
// column order, which encoding/json would sort.
type jsonWriter struct {
	w      io.Writer
	header []string
	buf    bytes.Buffer
}

func (j *jsonWriter) Write(v any) error {
	j.buf.Reset()
	if err := j.encode(v); err != nil {
		return err
	}
	j.buf.WriteByte('\n')
	_, err := j.w.Write(j.buf.Bytes())
	return err
}

func (j *jsonWriter) encode(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return j.encodeValue(v)
	}

	j.buf.WriteByte('{')
	for i, k := range orderedKeys(m, j.header) {
		if i > 0 {
			j.buf.WriteByte(',')
		}
		if err := j.encodeValue(k); err != nil {
			return err
		}
		j.buf.WriteByte(':')
		if err := j.encodeValue(m[k]); err != nil {
			return err
		}
	}
	j.buf.WriteByte('}')
	return nil
}

func (j *jsonWriter) encodeValue(v any) error {
	enc := json.NewEncoder(&j.buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode ends every value with a newline.
	j.buf.Truncate(j.buf.Len() - 1)
	return nil
}

func (j *jsonWriter) Flush() error {
	return nil
}

// yamlWriter writes one YAML document per record. Mappings keep their keys in
// column order.
type yamlWriter struct {
	enc    *yaml.Encoder
	header []string
}

func (y *yamlWriter) Write(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return y.enc.Encode(v)
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range orderedKeys(m, y.header) {
		var key, value yaml.Node
		if err := key.Encode(k); err != nil {
			return err
		}
		if err := value.Encode(m[k]); err != nil {
			return err
		}
		node.Content = append(node.Content, &key, &value)
	}
	return y.enc.Encode(node)
}

func (y *yamlWriter) Flush() error {
	return y.enc.Close()
}

// delimitedWriter writes records back out as delimited text that the reader
// package parses into the same fields.
type delimitedWriter struct {
	w           *bufio.Writer
	dialect     reader.Dialect
	header      []string
	wroteHeader bool
	quote       string
	escaped     string
	special     string
}

func newDelimitedWriter(w io.Writer, d reader.Dialect, header []string) *delimitedWriter {
	quote := string(d.Quote)
	return &delimitedWriter{
		w:       bufio.NewWriter(w),
		dialect: d,
		header:  header,
		quote:   quote,
		escaped: quote + quote,
		special: string([]rune{d.Delimiter, d.Quote, '\r', '\n'}),
	}
}

func (d *delimitedWriter) Write(v any) error {
	if err := d.writeHeader(); err != nil {
		return err
	}
	return d.writeRow(cellsOf(v, d.header))
}

func (d *delimitedWriter) Flush() error {
	if err := d.writeHeader(); err != nil {
		return err
	}
	return d.w.Flush()
}

func (d *delimitedWriter) writeHeader() error {
	if d.wroteHeader || d.header == nil {
		return nil
	}
	d.wroteHeader = true
	return d.writeRow(d.header)
}

func (d *delimitedWriter) writeRow(cells []string) error {
	for i, cell := range cells {
		if i > 0 {
			if _, err := d.w.WriteRune(d.dialect.Delimiter); err != nil {
				return err
			}
		}
		if strings.ContainsAny(cell, d.special) {
			cell = d.quote + strings.ReplaceAll(cell, d.quote, d.escaped) + d.quote
		}
		if _, err := d.w.WriteString(cell); err != nil {
			return err
		}
	}
	return d.w.WriteByte('\n')
}

// tableWriter lines records up in columns. Column widths depend on every row,
// so rows are held until Flush.
type tableWriter struct {
	w      io.Writer
	header []string
	rows   [][]string
}

func (t *tableWriter) Write(v any) error {
	t.rows = append(t.rows, cellsOf(v, t.header))
	return nil
}

func (t *tableWriter) Flush() error {
	rows := t.rows
	if t.header != nil {
		rows = append([][]string{slices.Clone(t.header)}, rows...)
	}

	var widths []int
	for i, row := range rows {
		for j, cell := range row {
			cell = utils.Truncate(utils.Cell(cell), maxCellWidth)
			rows[i][j] = cell
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], utils.Width(cell))
		}
	}

	bw := bufio.NewWriter(t.w)
	for i, row := range rows {
		for j, cell := range row {
			if j > 0 {
				bw.WriteString("  ")
			}
			if j < len(row)-1 {
				cell = utils.PadRight(cell, widths[j])
			}
			bw.WriteString(cell)
		}
		bw.WriteByte('\n')

		if i == 0 && t.header != nil {
			for j, w := range widths {
				if j > 0 {
					bw.WriteString("  ")
				}
				bw.WriteString(strings.Repeat("-", w))
			}
			bw.WriteByte('\n')
		}
	}

	t.rows = nil
	return bw.Flush()
}
