package usecase

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"tago-service/internal/domain/entity"
)

// Fields maintained by the system rather than edited by users
var auditSkippedFields = map[string]bool{
	"id":            true,
	"dateCreated":   true,
	"dateOfferSent": true,
	"originalSize":  true,
	"version":       true,
}

// DiffReservations lists the fields that differ between two versions of a
// reservation. Missing, null and empty values are equivalent and values are
// compared by their trimmed text, so whitespace-only edits are not changes.
func DiffReservations(before, after *entity.Reservation) ([]entity.FieldChange, error) {
	oldFields, err := toFieldMap(before)
	if err != nil {
		return nil, err
	}
	newFields, err := toFieldMap(after)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(oldFields)+len(newFields))
	for name := range oldFields {
		names[name] = struct{}{}
	}
	for name := range newFields {
		names[name] = struct{}{}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		if !auditSkippedFields[name] {
			sorted = append(sorted, name)
		}
	}
	sort.Strings(sorted)

	changes := make([]entity.FieldChange, 0)
	for _, name := range sorted {
		oldValue, newValue := oldFields[name], newFields[name]
		if normalize(oldValue) == normalize(newValue) {
			continue
		}
		changes = append(changes, entity.FieldChange{
			Field:    name,
			OldValue: displayValue(oldValue),
			NewValue: displayValue(newValue),
		})
	}
	return changes, nil
}

func toFieldMap(r *entity.Reservation) (map[string]interface{}, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reservation: %w", err)
	}
	fields := make(map[string]interface{})
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode reservation: %w", err)
	}
	return fields, nil
}

func normalize(v interface{}) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func displayValue(v interface{}) interface{} {
	if v == nil {
		return "-"
	}
	return v
}
