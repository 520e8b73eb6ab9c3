package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ftsearch/internal/fulltext"
	"github.com/roach88/ftsearch/internal/queryir"
)

// RequestFile is a YAML file of searches for the run command.
//
//	setup:
//	  - CREATE VIRTUAL TABLE docs USING fts5(Title, Body)
//	  - INSERT INTO docs (rowid, Title, Body) VALUES (1, 'The quick brown fox', '')
//	searches:
//	  - name: fox-in-title
//	    table: docs
//	    columns: [rowid, Title]
//	    order_by: rowid
//	    select: Title
//	    mode: contains
//	    predicate: fox
type RequestFile struct {
	Setup    []string        `yaml:"setup"`
	Searches []SearchRequest `yaml:"searches"`
}

// SearchRequest describes one full-text search.
//
// Predicate is a pointer so that a request without one reaches the
// predicate builder as missing rather than empty.
type SearchRequest struct {
	Name      string   `yaml:"name" json:"name"`
	Table     string   `yaml:"table" json:"table"`
	Columns   []string `yaml:"columns" json:"columns,omitempty"`
	OrderBy   string   `yaml:"order_by" json:"order_by,omitempty"`
	Select    string   `yaml:"select" json:"select"`
	Mode      string   `yaml:"mode" json:"mode"`
	Predicate *string  `yaml:"predicate" json:"predicate,omitempty"`
}

// LoadError represents an error that occurred while loading or building
// a request.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadRequests reads and decodes a request file.
// Unknown keys are rejected so that typos do not silently drop fields.
func LoadRequests(path string) (*RequestFile, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("request file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing request file: %v", err)}
	}
	defer f.Close()

	var file RequestFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parse %s: %v", path, err)}
	}

	if len(file.Searches) == 0 {
		return nil, &LoadError{Code: ErrCodeInvalidRequest, Message: fmt.Sprintf("no searches found in %s", path)}
	}

	for i := range file.Searches {
		if file.Searches[i].Name == "" {
			file.Searches[i].Name = fmt.Sprintf("search-%d", i+1)
		}
	}

	return &file, nil
}

// Build turns the request into a filtered select.
// Builder rejections come back as *fulltext.ArgumentError.
func (r SearchRequest) Build() (queryir.Select, error) {
	if r.Table == "" {
		return queryir.Select{}, &LoadError{Code: ErrCodeInvalidRequest, Message: fmt.Sprintf("%s: table is required", r.Name)}
	}

	mode := fulltext.ModeContains
	if r.Mode != "" {
		m, err := fulltext.ParseMode(r.Mode)
		if err != nil {
			return queryir.Select{}, &LoadError{Code: ErrCodeInvalidRequest, Message: fmt.Sprintf("%s: %v", r.Name, err)}
		}
		mode = m
	}

	selector := r.Select
	if strings.TrimSpace(selector) == "" {
		selector = fulltext.WildcardMarker
	}

	source := queryir.Select{
		From:    r.Table,
		Columns: r.Columns,
		OrderBy: r.OrderBy,
	}

	return fulltext.Search(source, mode, fulltext.ParseSelector(selector), r.Predicate)
}
