// Package parser provides utilities for parsing and transforming input data.
// It handles data normalization, validation, and conversion between formats.
package parser

import (
	"encoding/json"
	"fmt"

	"github.com/kcar/core/internal/models"
)

func ParseDataset(data []byte) (*models.Dataset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty dataset")
	}

	var ds models.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}

	if err := validateDataset(&ds); err != nil {
		return nil, err
	}

	return &ds, nil
}

func ParseQuery(data []byte) (*models.QueryRequest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty query")
	}

	var req models.QueryRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query: %w", err)
	}

	if len(req.Keywords) == 0 {
		return nil, fmt.Errorf("invalid query: missing keywords field")
	}

	if req.Dataset != nil {
		if err := validateDataset(req.Dataset); err != nil {
			return nil, err
		}
	}

	return &req, nil
}

func validateDataset(ds *models.Dataset) error {
	if len(ds.APIs) == 0 {
		return fmt.Errorf("invalid dataset: missing apis field")
	}
	for i, api := range ds.APIs {
		if api.Name == "" {
			return fmt.Errorf("invalid dataset: api %d has no name", i)
		}
	}
	return nil
}
