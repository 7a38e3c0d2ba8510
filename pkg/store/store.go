// Package store keeps records partitioned by category. Two engines are provided,
// Files with one JSON document per record and SQLite with one row per record.
// Both address a record by category and id.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/umputun/perspectives/pkg/domain"
)

// ErrNotFound is returned when a record doesn't exist in the partition
var ErrNotFound = errors.New("record not found")

// checkKey validates partition and id before they become part of a path or row key
func checkKey(cat domain.Category, id string) error {
	if !cat.Valid() {
		return fmt.Errorf("invalid category %q", cat)
	}
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\?#`) {
		return fmt.Errorf("invalid record id %q", id)
	}
	return nil
}
