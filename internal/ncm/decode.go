package ncm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ErrEmptyTable means the raw table resolved to zero entries.
var ErrEmptyTable = errors.New("no entries found in nomenclature table")

// UnsupportedFormatError names a file extension the table boundary does
// not understand.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported table format: %s", e.Ext)
}

// rawTable covers the wrapper shapes the table shows up in. Decoding is
// case-insensitive, so "nomenclaturas" binds here as well.
type rawTable struct {
	Nomenclaturas []RawEntry `json:"Nomenclaturas"`
	Produtos      []RawEntry `json:"produtos"`
	Data          []RawEntry `json:"data"`
}

func (t rawTable) entries() []RawEntry {
	if len(t.Nomenclaturas) > 0 {
		return t.Nomenclaturas
	}
	if len(t.Produtos) > 0 {
		return t.Produtos
	}
	return t.Data
}

// DecodeTable parses a JSON raw table, either a bare array of entries or
// a wrapper object exposing the list under one of the known keys.
func DecodeTable(content []byte) ([]RawEntry, error) {
	var entries []RawEntry
	if err := json.Unmarshal(content, &entries); err == nil {
		if len(entries) == 0 {
			return nil, ErrEmptyTable
		}
		return entries, nil
	}

	var table rawTable
	if err := json.Unmarshal(content, &table); err != nil {
		return nil, fmt.Errorf("invalid table JSON: %w", err)
	}

	entries = table.entries()
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	return entries, nil
}

// ParseFile reads a raw nomenclature table from an uploaded file,
// dispatching on the file extension. Government CSV exports are often
// Latin-1 encoded; latin1 selects that decoding for the CSV path.
func ParseFile(filename string, r io.Reader, latin1 bool) ([]RawEntry, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		return DecodeTable(content)
	case ".csv":
		if latin1 {
			r = charmap.ISO8859_1.NewDecoder().Reader(r)
		}
		return parseCSV(r)
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}
