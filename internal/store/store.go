// Package store loads transaction drafts from YAML documents.
//
// A draft looks like:
//
//	fields:
//	  type: DI
//	  transdate: 2024-01-31
//	  namecode: ISHTEST
//	  duedate: ~
//	lines:
//	  - account: "4000"
//	    net: !decimal 12.50
//
// Field order follows the document. A null scalar becomes a work-it-out
// field, unquoted dates become dates and !decimal scalars are parsed as
// money amounts ("1'250.00", "CHF 12,50").
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ari/moneyworks-cli/internal/currencyutils"
	"ari/moneyworks-cli/internal/fileutils"
	"ari/moneyworks-cli/internal/logging"
	"ari/moneyworks-cli/internal/mwerror"
	"ari/moneyworks-cli/internal/transaction"

	"gopkg.in/yaml.v3"
)

const (
	decimalTag   = "!decimal"
	timestampTag = "!!timestamp"
	nullTag      = "!!null"
)

// DraftStore resolves and loads transaction drafts.
type DraftStore struct {
	// Dir is searched for relative names that do not exist as given.
	Dir string
	log logging.Logger
}

// NewDraftStore creates a store rooted at dir.
func NewDraftStore(dir string, logger logging.Logger) *DraftStore {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DraftStore{Dir: dir, log: logger}
}

// FindFile looks for a draft as given, then under Dir, then under
// ~/.config/mwcli/drafts.
func (s *DraftStore) FindFile(name string) (string, error) {
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err != nil {
			return "", err
		}
		return name, nil
	}

	locations := []string{name}
	if s.Dir != "" {
		locations = append(locations, filepath.Join(s.Dir, name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "mwcli", "drafts", name))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", fmt.Errorf("draft %s: %w", name, os.ErrNotExist)
}

// Load resolves name and parses the draft it points to.
func (s *DraftStore) Load(name string) (*transaction.Transaction, error) {
	path, err := s.FindFile(name)
	if err != nil {
		return nil, err
	}
	tx, err := LoadTransaction(path)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Loaded transaction draft",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(tx.Lines())))
	return tx, nil
}

// LoadTransaction reads a draft file.
func LoadTransaction(path string) (*transaction.Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading draft: %w", err)
	}
	tx, err := ParseTransaction(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tx, nil
}

// ParseTransaction builds a transaction from a YAML draft document.
func ParseTransaction(data []byte) (*transaction.Transaction, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &mwerror.InvalidArgumentError{Key: "document", Reason: "empty draft"}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing draft: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, &mwerror.InvalidArgumentError{Key: "document", Reason: "expected a mapping with fields and lines"}
	}

	tx := transaction.New()
	root := doc.Content[0]
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, root.Content[i+1]
		switch key {
		case "fields":
			if err := eachField(key, val, tx.AddAny); err != nil {
				return nil, err
			}
		case "lines":
			if err := addLines(tx, val); err != nil {
				return nil, err
			}
		default:
			return nil, &mwerror.InvalidArgumentError{Key: key, Reason: "unknown section"}
		}
	}
	return tx, nil
}

func addLines(tx *transaction.Transaction, node *yaml.Node) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		return &mwerror.InvalidArgumentError{Key: "lines", Reason: "expected a list of mappings"}
	}
	for i, item := range node.Content {
		line := tx.AddLine()
		if err := eachField(fmt.Sprintf("lines[%d]", i), item, line.AddAny); err != nil {
			return err
		}
	}
	return nil
}

func eachField(section string, node *yaml.Node, add func(string, any) error) error {
	if isNull(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return &mwerror.InvalidArgumentError{Key: section, Reason: "expected a mapping"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		v, err := scalarValue(key, node.Content[i+1])
		if err != nil {
			return err
		}
		if err := add(key, v); err != nil {
			return err
		}
	}
	return nil
}

// scalarValue converts a YAML scalar into a value transaction.ValueOf accepts.
// yaml.v3 decodes timestamps into interface{} as strings, so dates are
// decoded explicitly.
func scalarValue(key string, node *yaml.Node) (any, error) {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return nil, &mwerror.InvalidArgumentError{Key: key, Reason: "nested values are not supported"}
	}

	switch node.ShortTag() {
	case nullTag:
		return nil, nil
	case timestampTag:
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return nil, &mwerror.InvalidArgumentError{Key: key, Reason: err.Error()}
		}
		return t, nil
	case decimalTag:
		d, err := currencyutils.ParseAmount(node.Value)
		if err != nil {
			return nil, &mwerror.InvalidArgumentError{Key: key, Reason: err.Error()}
		}
		return d, nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, &mwerror.InvalidArgumentError{Key: key, Reason: err.Error()}
	}
	return v, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag
}
