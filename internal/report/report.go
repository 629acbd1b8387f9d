// Package report turns roll results into records and writes them as text,
// JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/rollkit/internal/dice"
)

// OutcomeRecord describes one dice atom of a roll.
type OutcomeRecord struct {
	Notation string `json:"notation" yaml:"notation"`
	Values   []int  `json:"values" yaml:"values,flow"`
	Kept     []int  `json:"kept" yaml:"kept,flow"`
	Dropped  []int  `json:"dropped,omitempty" yaml:"dropped,flow,omitempty"`
	Subtotal int    `json:"subtotal" yaml:"subtotal"`
}

// ModifierRecord describes one applied modifier.
type ModifierRecord struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Value int    `json:"value" yaml:"value"`
}

// Record is the serialisable form of one roll.
type Record struct {
	ID          string           `json:"id" yaml:"id"`
	Expression  string           `json:"expression" yaml:"expression"`
	Result      int              `json:"result" yaml:"result"`
	Subtotal    int              `json:"subtotal" yaml:"subtotal"`
	Description string           `json:"description" yaml:"description"`
	Outcomes    []OutcomeRecord  `json:"outcomes" yaml:"outcomes"`
	Modifiers   []ModifierRecord `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Trace       []string         `json:"trace,omitempty" yaml:"trace,omitempty"`
}

// NewRecord builds a Record from a result, assigning it a fresh ID.
// trace may be nil.
//
// Precondition: result must be non-nil.
func NewRecord(result *dice.ResultSet, trace []string) Record {
	rec := Record{
		ID:          uuid.NewString(),
		Expression:  result.Expression,
		Result:      result.Total(),
		Subtotal:    result.Subtotal(),
		Description: result.String(),
		Outcomes:    []OutcomeRecord{},
		Trace:       trace,
	}
	for _, out := range result.Outcomes() {
		entry := OutcomeRecord{
			Notation: out.Spec.Notation(),
			Values:   out.Values,
			Kept:     out.Kept,
			Subtotal: out.Subtotal(),
		}
		if len(out.Dropped) > 0 {
			entry.Dropped = out.Dropped
		}
		rec.Outcomes = append(rec.Outcomes, entry)
	}
	for _, m := range result.Modifiers() {
		rec.Modifiers = append(rec.Modifiers, ModifierRecord{Label: m.Label, Value: m.Value})
	}
	return rec
}

// WriteJSON writes a single record as an object and several as an array.
func WriteJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	var err error
	if len(records) == 1 {
		err = enc.Encode(records[0])
	} else {
		err = enc.Encode(records)
	}
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteYAML writes a single record as a mapping and several as a sequence.
func WriteYAML(w io.Writer, records []Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	var err error
	if len(records) == 1 {
		err = enc.Encode(records[0])
	} else {
		err = enc.Encode(records)
	}
	if err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// TextWriter renders records the way a terminal user reads them.
type TextWriter struct {
	out    io.Writer
	total  *color.Color
	header *color.Color
	trace  *color.Color
	err    *color.Color
}

// NewTextWriter returns a TextWriter writing to out. Colour is applied only
// when colored is set.
func NewTextWriter(out io.Writer, colored bool) *TextWriter {
	tw := &TextWriter{
		out:    out,
		total:  color.New(color.FgGreen, color.Bold),
		header: color.New(color.FgCyan),
		trace:  color.New(color.Faint),
		err:    color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{tw.total, tw.header, tw.trace, tw.err} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return tw
}

// Write prints each record. Several records get "--- Roll i ---" headers.
func (tw *TextWriter) Write(records []Record) error {
	var b strings.Builder
	for i, rec := range records {
		if len(records) > 1 {
			b.WriteString("\n" + tw.header.Sprintf("--- Roll %d ---", i+1) + "\n")
		}
		total, rest, _ := strings.Cut(rec.Description, " = ")
		b.WriteString(tw.total.Sprint(total) + " = " + rest + "\n")
		for _, line := range rec.Trace {
			b.WriteString(tw.trace.Sprint("  "+line) + "\n")
		}
	}
	_, err := io.WriteString(tw.out, b.String())
	return err
}

// WriteError prints "Dice Error: <msg>".
func (tw *TextWriter) WriteError(err error) error {
	_, werr := fmt.Fprintln(tw.out, tw.err.Sprint("Dice Error:")+" "+err.Error())
	return werr
}
