// Package tabular parses the comma-delimited text exported by a published
// spreadsheet tab.
//
// The dialect is lenient: a double-quoted span is one value and may contain
// commas, a doubled quote inside it is a literal quote, surrounding quotes and
// whitespace are stripped, and missing trailing values become empty strings.
// A quoted value left open at the end of a line continues on the next line;
// such a value must then close right before a delimiter or the end of a line,
// otherwise the row is rejected instead of absorbing the rows after it.
package tabular

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/naka-gawa/portfolio-api/internal/domain"
)

const delimiter = ','

var (
	errUnterminated = errors.New("unterminated quoted value")
	errStrayText    = errors.New("unterminated quoted value: text after closing quote")
)

// Options controls how text is turned into records.
type Options struct {
	// HasHeader makes the first line supply the field names. Without it
	// fields are named by position: "0", "1", ... and every record carries
	// every position, empty where its line was shorter.
	HasHeader bool
	// KeyField, when set, also indexes records by that field's value.
	// Later rows replace earlier rows with the same key.
	KeyField string
}

// Record maps a field name to its value.
type Record map[string]string

// Table is the result of Parse.
type Table struct {
	Fields  []string
	Records []Record
	// Keyed and Keys are only populated when Options.KeyField is set.
	// Keys lists each distinct key once, in order of first appearance.
	Keyed map[string]Record
	Keys  []string
}

// HasField reports whether name is one of the table's fields.
func (t *Table) HasField(name string) bool {
	for _, f := range t.Fields {
		if f == name {
			return true
		}
	}
	return false
}

// Parse converts text into one record per non-blank data line, in line order.
// A line whose quoted value is still open continues on the next line.
func Parse(text string, opts Options) (*Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")

	t := &Table{}
	start := 0
	if opts.HasHeader {
		for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
			start++
		}
		if start == len(lines) {
			return nil, &domain.ParseError{Msg: "missing header line"}
		}
		fields, _, err := splitLine(lines[start])
		if err != nil {
			return nil, &domain.ParseError{Line: start + 1, Msg: err.Error()}
		}
		seen := make(map[string]bool, len(fields))
		for _, f := range fields {
			if f == "" {
				continue
			}
			if seen[f] {
				return nil, &domain.ParseError{Line: start + 1, Msg: fmt.Sprintf("duplicate field %q", f)}
			}
			seen[f] = true
		}
		t.Fields = fields
		start++
	}

	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		lineNo, line := i+1, lines[i]
		values, _, err := splitLine(line)
		// A quoted value may span lines.
		for errors.Is(err, errUnterminated) && i+1 < len(lines) {
			i++
			line += "\n" + lines[i]
			var stray bool
			values, stray, err = splitLine(line)
			if err == nil && stray {
				err = errStrayText
			}
		}
		if err != nil {
			return nil, &domain.ParseError{Line: lineNo, Msg: err.Error()}
		}
		if blank(values) {
			continue
		}
		if !opts.HasHeader {
			for len(t.Fields) < len(values) {
				t.Fields = append(t.Fields, strconv.Itoa(len(t.Fields)))
			}
		}
		rec := make(Record, len(t.Fields))
		for j, f := range t.Fields {
			if f == "" {
				continue
			}
			if j < len(values) {
				rec[f] = values[j]
			} else {
				rec[f] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}
	if !opts.HasHeader {
		for _, rec := range t.Records {
			for _, f := range t.Fields {
				if _, ok := rec[f]; !ok {
					rec[f] = ""
				}
			}
		}
	}

	if opts.KeyField != "" {
		if !t.HasField(opts.KeyField) {
			return nil, &domain.ParseError{Msg: fmt.Sprintf("key field %q not found in header", opts.KeyField)}
		}
		t.Keyed = make(map[string]Record, len(t.Records))
		for _, rec := range t.Records {
			key := rec[opts.KeyField]
			if _, ok := t.Keyed[key]; !ok {
				t.Keys = append(t.Keys, key)
			}
			t.Keyed[key] = rec
		}
	}
	return t, nil
}

// splitLine tokenizes one line into trimmed values. stray reports text other
// than whitespace between a closing quote and the next delimiter.
func splitLine(line string) (values []string, stray bool, err error) {
	var (
		b          strings.Builder
		inQuotes   bool
		afterQuote bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes && c == '"':
			if i+1 < len(line) && line[i+1] == '"' {
				b.WriteByte('"')
				i++
				continue
			}
			inQuotes = false
			afterQuote = true
		case inQuotes:
			b.WriteByte(c)
		case c == '"' && strings.TrimSpace(b.String()) == "":
			b.Reset()
			inQuotes = true
		case c == delimiter:
			values = append(values, strings.TrimSpace(b.String()))
			b.Reset()
			afterQuote = false
		default:
			if afterQuote && c != ' ' && c != '\t' {
				stray = true
			}
			b.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, stray, errUnterminated
	}
	return append(values, strings.TrimSpace(b.String())), stray, nil
}

func blank(values []string) bool {
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}
