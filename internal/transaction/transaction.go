// Package transaction builds the XML document the MoneyWorks import endpoint
// accepts for creating invoices, orders, payments and journals.
//
// Values are formatted when they are added, so a Transaction only ever holds
// wire text or the work-it-out marker. ToXML emits fields in the order the
// server's form layer expects: fields with a value first, ascending by value,
// then work-it-out fields in insertion order. The trailing gross element is
// always appended for the server to compute.
package transaction

import (
	"encoding/xml"
	"io"
	"sort"
	"strings"
)

const (
	detailSubfile = "Detail"
	workItOut     = ` work-it-out="true" />`
	header        = `<?xml version="1.0"?><table count="1" found="1" name="Transaction" start="0"><transaction>`
	footer        = `<gross` + workItOut + `</transaction></table>`
)

// Field is one key/value pair in serialization order.
type Field struct {
	Key   string
	Value Value
}

// properties is an insertion-ordered map. Overwriting a key keeps its
// original position.
type properties struct {
	keys   []string
	values map[string]Value
}

func (p *properties) set(key string, v Value) {
	if p.values == nil {
		p.values = make(map[string]Value)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v
}

func (p *properties) get(key string) (Value, bool) {
	v, ok := p.values[key]
	return v, ok
}

// ordered returns the fields with values sorted ascending by text, followed
// by the null fields. Both groups keep insertion order among equals.
func (p *properties) ordered() []Field {
	valued := make([]Field, 0, len(p.keys))
	var nulls []Field
	for _, k := range p.keys {
		v := p.values[k]
		if v.IsNull() {
			nulls = append(nulls, Field{Key: k, Value: v})
			continue
		}
		valued = append(valued, Field{Key: k, Value: v})
	}
	sort.SliceStable(valued, func(i, j int) bool {
		return valued[i].Value.text < valued[j].Value.text
	})
	return append(valued, nulls...)
}

// Transaction is a header record plus its detail lines.
type Transaction struct {
	props properties
	lines []*Line
}

// Line is a single detail row of a Transaction.
type Line struct {
	props properties
}

// New returns an empty transaction.
func New() *Transaction {
	return &Transaction{}
}

// Add stores v under key, replacing any previous value.
func (t *Transaction) Add(key string, v Value) *Transaction {
	t.props.set(key, v)
	return t
}

// AddNull marks key for the server to work out.
func (t *Transaction) AddNull(key string) *Transaction {
	return t.Add(key, Null())
}

// AddAny formats v with ValueOf and stores it. Unsupported types are
// rejected with *mwerror.InvalidArgumentError and leave t unchanged.
func (t *Transaction) AddAny(key string, v any) error {
	val, err := ValueOf(key, v)
	if err != nil {
		return err
	}
	t.props.set(key, val)
	return nil
}

// Get returns the stored value for key.
func (t *Transaction) Get(key string) (Value, bool) {
	return t.props.get(key)
}

// Len is the number of header fields, not counting the synthetic gross.
func (t *Transaction) Len() int {
	return len(t.props.keys)
}

// Fields returns the header fields in serialization order.
func (t *Transaction) Fields() []Field {
	return t.props.ordered()
}

// AddLine appends a new detail line and returns it for population.
func (t *Transaction) AddLine() *Line {
	l := &Line{}
	t.lines = append(t.lines, l)
	return l
}

// Lines returns the detail lines in the order they were added.
func (t *Transaction) Lines() []*Line {
	return append([]*Line(nil), t.lines...)
}

func (l *Line) Add(key string, v Value) *Line {
	l.props.set(key, v)
	return l
}

func (l *Line) AddNull(key string) *Line {
	return l.Add(key, Null())
}

func (l *Line) AddAny(key string, v any) error {
	val, err := ValueOf(key, v)
	if err != nil {
		return err
	}
	l.props.set(key, val)
	return nil
}

func (l *Line) Get(key string) (Value, bool) {
	return l.props.get(key)
}

func (l *Line) Fields() []Field {
	return l.props.ordered()
}

// ToXML renders the import document. Calling it repeatedly on the same state
// yields the same string.
func (t *Transaction) ToXML() (string, error) {
	var sb strings.Builder
	if _, err := t.WriteTo(&sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteTo streams the import document to w.
func (t *Transaction) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}

	cw.writeString(header)
	writeFields(cw, t.props.ordered())

	if len(t.lines) > 0 {
		cw.writeString(`<subfile name="` + detailSubfile + `">`)
		for _, l := range t.lines {
			cw.writeString("<detail>")
			writeFields(cw, l.props.ordered())
			cw.writeString("</detail>")
		}
		cw.writeString("</subfile>")
	}

	cw.writeString(footer)
	return cw.n, cw.err
}

func writeFields(cw *countingWriter, fields []Field) {
	for _, f := range fields {
		if f.Value.IsNull() {
			cw.writeString("<" + f.Key + workItOut)
			continue
		}
		cw.writeString("<" + f.Key + ">")
		if cw.err == nil {
			cw.err = xml.EscapeText(cw, []byte(f.Value.text))
		}
		cw.writeString("</" + f.Key + ">")
	}
}

// countingWriter remembers the first error so the serializer can write
// unconditionally and check once at the end.
type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countingWriter) writeString(s string) {
	_, _ = io.WriteString(c, s)
}
