// Package decoder turns MoneyWorks verbose XML exports into typed records.
//
// Each record element becomes a Record keyed by child element name. Values are
// inferred from the field name and text: names ending in "date" hold
// YYYYMMDD dates, names ending in "time" hold YYYYMMDDHHMMSS timestamps, and
// everything else is tried as an integer, then a float, then kept as text.
// Nested <subfile name="X"> collections decode into []Record under "Xs".
package decoder

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"ari/moneyworks-cli/internal/dateutils"
	"ari/moneyworks-cli/internal/mwerror"
	"ari/moneyworks-cli/internal/xmlutils"

	"golang.org/x/net/html/charset"
)

const subfileTag = "subfile"

// Table is a decoded export together with its <table> header.
type Table struct {
	Info    xmlutils.TableInfo
	Records []Record
}

// element is the minimal tree the decoder needs: the name, attributes, the
// element's own character data and its child elements.
type element struct {
	name     string
	attrs    []xml.Attr
	text     strings.Builder
	children []*element
}

func (e *element) attr(name string) string {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// Decode parses xmlText and decodes every direct child of the root element
// named recordTag. A document with no matching records yields an empty slice.
func Decode(xmlText, recordTag string) ([]Record, error) {
	root, err := parseTree(strings.NewReader(xmlText))
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(root.children))
	for _, child := range root.children {
		if child.name != recordTag {
			continue
		}
		r, err := decodeRecord(child)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// DecodeTable is Decode plus the table header (name, count, found, start).
func DecodeTable(xmlText, recordTag string) (*Table, error) {
	records, err := Decode(xmlText, recordTag)
	if err != nil {
		return nil, err
	}

	node, err := xmlutils.Parse([]byte(xmlText))
	if err != nil {
		return nil, &mwerror.DecodeError{Err: err}
	}
	info, err := xmlutils.ReadTableInfo(node)
	if err != nil {
		return nil, &mwerror.DecodeError{Err: err}
	}
	return &Table{Info: info, Records: records}, nil
}

func parseTree(r io.Reader) (*element, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel

	var root *element
	var stack []*element
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &mwerror.DecodeError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, &mwerror.DecodeError{Err: errors.New("multiple root elements")}
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, &mwerror.DecodeError{Err: errors.New("empty document")}
	}
	return root, nil
}

func decodeRecord(el *element) (Record, error) {
	r := make(Record, len(el.children))
	for _, field := range el.children {
		if field.name == subfileTag {
			rows := make([]Record, 0, len(field.children))
			for _, sub := range field.children {
				row, err := decodeRecord(sub)
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
			r[field.attr("name")+"s"] = rows
			continue
		}

		v, err := decodeValue(field.name, field.text.String())
		if err != nil {
			return nil, err
		}
		r[field.name] = v
	}
	return r, nil
}

// decodeValue applies the type inference rules to one field.
func decodeValue(name, text string) (any, error) {
	if text == "" {
		return "", nil
	}

	switch {
	case dateutils.IsDateField(name):
		t, err := dateutils.ParseDate(text)
		if err != nil {
			return nil, &mwerror.DecodeError{Field: name, Value: text, Err: err}
		}
		return t, nil
	case dateutils.IsTimeField(name):
		t, err := dateutils.ParseTimestamp(text)
		if err != nil {
			return nil, &mwerror.DecodeError{Field: name, Value: text, Err: err}
		}
		return t, nil
	}

	for _, parse := range coercions {
		if v, ok := parse(text); ok {
			return v, nil
		}
	}
	return text, nil
}

// coercions are tried in order; the first that accepts the text wins.
// Integers may group digits with single underscores ("1_000"). Hexadecimal
// floats ("0x1p3") stay text. "nan" and "inf" in any case are floats.
// Integers beyond int64 fall through to float64 and lose precision.
var coercions = []func(string) (any, bool){
	parseInt,
	parseFloat,
}

func parseInt(s string) (any, bool) {
	if strings.Contains(s, "_") {
		if !underscoresBetweenDigits(s) {
			return nil, false
		}
		s = strings.ReplaceAll(s, "_", "")
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, false
	}
	return i, true
}

func parseFloat(s string) (any, bool) {
	if strings.ContainsAny(s, "xX") {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// underscoresBetweenDigits reports whether s is an optionally signed run of
// decimal digits where every underscore sits between two digits.
func underscoresBetweenDigits(s string) bool {
	s = strings.TrimLeft(s, "+-")
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c == '_':
			if i == 0 || i == len(s)-1 || s[i-1] == '_' {
				return false
			}
		default:
			return false
		}
	}
	return true
}
