// Package xmlutils reads the envelope of MoneyWorks verbose XML exports.
package xmlutils

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
	"gopkg.in/xmlpath.v2"
)

// TableInfo is the header the server puts on the <table> root of an export:
// the table name, how many records are in this page, how many matched the
// search in total and the offset of the first one.
type TableInfo struct {
	Name  string
	Count int
	Found int
	Start int
}

var (
	tableName  = xmlpath.MustCompile("/table/@name")
	tableCount = xmlpath.MustCompile("/table/@count")
	tableFound = xmlpath.MustCompile("/table/@found")
	tableStart = xmlpath.MustCompile("/table/@start")
	tableRoot  = xmlpath.MustCompile("/table")
)

// Parse loads an XML document for xpath queries. Documents declaring a
// non-UTF-8 encoding are transcoded.
func Parse(data []byte) (*xmlpath.Node, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	root, err := xmlpath.ParseDecoder(d)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// ReadTableInfo extracts the <table> header. Missing attributes read as zero;
// a document without a <table> root is an error.
func ReadTableInfo(root *xmlpath.Node) (TableInfo, error) {
	if !tableRoot.Exists(root) {
		return TableInfo{}, fmt.Errorf("document has no <table> root")
	}

	var info TableInfo
	info.Name, _ = tableName.String(root)

	var err error
	if info.Count, err = intAttr(root, tableCount); err != nil {
		return TableInfo{}, fmt.Errorf("count: %w", err)
	}
	if info.Found, err = intAttr(root, tableFound); err != nil {
		return TableInfo{}, fmt.Errorf("found: %w", err)
	}
	if info.Start, err = intAttr(root, tableStart); err != nil {
		return TableInfo{}, fmt.Errorf("start: %w", err)
	}
	return info, nil
}

func intAttr(root *xmlpath.Node, path *xmlpath.Path) (int, error) {
	s, ok := path.String(root)
	if !ok || strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(s))
}
