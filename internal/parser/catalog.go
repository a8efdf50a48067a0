// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kcar/core/internal/models"
)

var ErrMissingHeader = errors.New("missing header row")

// ParseAPICatalog reads an API catalog CSV. The first row is a header that
// must contain a Name column; every following row is
// name, primary category, comma-separated secondary categories.
func ParseAPICatalog(r io.Reader) ([]models.APIRecord, error) {
	cr := newCSVReader(r)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("api catalog: %w", ErrMissingHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("api catalog: %w", err)
	}
	if !hasColumn(header, "Name") {
		return nil, fmt.Errorf("api catalog: %w: first row is %q", ErrMissingHeader, header)
	}

	var records []models.APIRecord
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("api catalog: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(fields) < 2 {
			return nil, fmt.Errorf("api catalog line %d: expected at least 2 fields, got %d", line, len(fields))
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			return nil, fmt.Errorf("api catalog line %d: empty API name", line)
		}

		record := models.APIRecord{
			Name:            name,
			PrimaryCategory: strings.TrimSpace(fields[1]),
		}
		if len(fields) > 2 {
			record.SecondaryCategories = splitLabels(fields[2])
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseMashups reads a mashup CSV of (mashup name, API name) rows after a
// header row and groups the APIs per mashup. Groups keep first-seen order
// and list each API once.
func ParseMashups(r io.Reader) ([]models.MashupGroup, error) {
	cr := newCSVReader(r)

	if _, err := cr.Read(); err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("mashups: %w", err)
	}

	var groups []models.MashupGroup
	byName := make(map[string]int)
	members := make(map[string]map[string]struct{})

	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mashups: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(fields) < 2 {
			return nil, fmt.Errorf("mashups line %d: expected 2 fields, got %d", line, len(fields))
		}
		mashup, api := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		if mashup == "" || api == "" {
			continue
		}

		i, ok := byName[mashup]
		if !ok {
			i = len(groups)
			byName[mashup] = i
			groups = append(groups, models.MashupGroup{Name: mashup})
			members[mashup] = make(map[string]struct{})
		}
		if _, dup := members[mashup][api]; dup {
			continue
		}
		members[mashup][api] = struct{}{}
		groups[i].APIs = append(groups[i].APIs, api)
	}
	return groups, nil
}

// LoadDataset reads the API catalog at apisPath and, when mashupsPath is
// not empty, the mashup file.
func LoadDataset(apisPath, mashupsPath string) (*models.Dataset, error) {
	apis, err := parseFile(apisPath, ParseAPICatalog)
	if err != nil {
		return nil, err
	}
	ds := &models.Dataset{APIs: apis}

	if mashupsPath != "" {
		if ds.Mashups, err = parseFile(mashupsPath, ParseMashups); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func parseFile[T any](path string, parse func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	v, err := parse(f)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if strings.Contains(h, name) {
			return true
		}
	}
	return false
}

func splitLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
