package loader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/publication-allocator/pkg/core/model"
)

// Variable names of the evaluation input format
const (
	VarEmployees                = "A"
	VarN0                       = "N0"
	VarN1                       = "N1"
	VarN2                       = "N2"
	VarPublications             = "P"
	VarAuthorIDs                = "authorIdList"
	VarPublicationIDs           = "publicationIdList"
	VarIsMonograph              = "monografia"
	VarContribution             = "udzial"
	VarIsPhDStudent             = "doktorant"
	VarIsEmployee               = "pracownik"
	VarIsInN                    = "czyN"
	VarPoints                   = "w"
	VarPublicationContributions = "u"
)

var (
	// ErrMissingVariable is returned when a required statement is absent
	ErrMissingVariable = errors.New("variable not found")

	// ErrInvalidValue is returned when a statement's value cannot be decoded into the expected shape
	ErrInvalidValue = errors.New("invalid value")
)

// statementPattern matches `name = value;` where value runs up to the next semicolon
var statementPattern = regexp.MustCompile(`(?s)([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*?);`)

// Statements holds the raw value text of every `name = value;` statement in a document.
// Later statements override earlier ones with the same name.
type Statements map[string]string

// ParseStatements extracts every statement from a document
func ParseStatements(data string) Statements {
	statements := Statements{}
	for _, match := range statementPattern.FindAllStringSubmatch(data, -1) {
		statements[match[1]] = strings.TrimSpace(match[2])
	}
	return statements
}

// Has reports whether a statement exists
func (s Statements) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the statement names matching prefix, sorted
func (s Statements) Names(prefix string) []string {
	names := []string{}
	for name := range s {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Decode decodes a statement's value as a YAML flow literal into out
func (s Statements) Decode(name string, out any) error {
	raw, ok := s[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingVariable, name)
	}
	if err := yaml.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %s = %s: %v", ErrInvalidValue, name, truncate(raw), err)
	}
	return nil
}

// Int decodes a numeric statement that must hold a whole number
func (s Statements) Int(name string) (int, error) {
	var value float64
	if err := s.Decode(name, &value); err != nil {
		return 0, err
	}
	if value != float64(int(value)) {
		return 0, fmt.Errorf("%w: %s = %v is not a whole number", ErrInvalidValue, name, value)
	}
	return int(value), nil
}

// Float decodes a numeric statement
func (s Statements) Float(name string) (float64, error) {
	var value float64
	if err := s.Decode(name, &value); err != nil {
		return 0, err
	}
	return value, nil
}

// Flags decodes a list of 0/1 values into booleans
func (s Statements) Flags(name string) ([]bool, error) {
	var values []float64
	if err := s.Decode(name, &values); err != nil {
		return nil, err
	}
	flags := make([]bool, len(values))
	for i, v := range values {
		flags[i] = v != 0
	}
	return flags, nil
}

// LoadFile reads and parses an input file
func LoadFile(path string) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	dataset, err := Load(f)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return dataset, nil
}

// Load parses an input document into a dataset and validates its shape
func Load(r io.Reader) (model.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("failed to read input: %w", err)
	}

	statements := ParseStatements(string(data))
	var dataset model.Dataset

	counts := []struct {
		name   string
		target *int
	}{
		{VarEmployees, &dataset.Employees},
		{VarN0, &dataset.N0},
		{VarN1, &dataset.N1},
		{VarN2, &dataset.N2},
		{VarPublications, &dataset.PublicationCount},
	}
	for _, c := range counts {
		if *c.target, err = statements.Int(c.name); err != nil {
			return model.Dataset{}, err
		}
	}

	if err := statements.Decode(VarAuthorIDs, &dataset.AuthorIDs); err != nil {
		return model.Dataset{}, err
	}
	if err := statements.Decode(VarPublicationIDs, &dataset.PublicationIDs); err != nil {
		return model.Dataset{}, err
	}
	if err := statements.Decode(VarContribution, &dataset.Contributions); err != nil {
		return model.Dataset{}, err
	}

	flags := []struct {
		name   string
		target *[]bool
	}{
		{VarIsPhDStudent, &dataset.IsPhDStudent},
		{VarIsEmployee, &dataset.IsEmployee},
		{VarIsInN, &dataset.IsInN},
		{VarIsMonograph, &dataset.IsMonograph},
	}
	for _, f := range flags {
		if *f.target, err = statements.Flags(f.name); err != nil {
			return model.Dataset{}, err
		}
	}

	if err := statements.Decode(VarPoints, &dataset.Points); err != nil {
		return model.Dataset{}, err
	}
	if err := statements.Decode(VarPublicationContributions, &dataset.PublicationContributions); err != nil {
		return model.Dataset{}, err
	}

	if err := dataset.Validate(); err != nil {
		return model.Dataset{}, err
	}

	return dataset, nil
}

func truncate(raw string) string {
	if len(raw) <= 40 {
		return raw
	}
	return raw[:40] + "..."
}
