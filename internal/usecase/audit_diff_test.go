package usecase

import (
	"testing"

	"tago-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffReservations(t *testing.T) {
	before := &entity.Reservation{ID: "1", PNR: "ABC123", Status: entity.StatusPNRCreated, Remarks: "", Version: 1}
	after := &entity.Reservation{ID: "1", PNR: "ABC123", Status: entity.StatusOfferSent, Remarks: "  ", Version: 2, RetDate: "2024-05-10"}

	changes, err := DiffReservations(before, after)

	require.NoError(t, err)
	assert.Equal(t, []entity.FieldChange{
		{Field: "retDate", OldValue: "-", NewValue: "2024-05-10"},
		{Field: "status", OldValue: string(entity.StatusPNRCreated), NewValue: string(entity.StatusOfferSent)},
	}, changes)
}

func TestDiffReservations_IgnoresSystemFields(t *testing.T) {
	size := 20
	before := &entity.Reservation{ID: "1", DateCreated: "a", Version: 1}
	after := &entity.Reservation{ID: "2", DateCreated: "b", Version: 2, OriginalSize: &size, DateOfferSent: "c"}

	changes, err := DiffReservations(before, after)

	require.NoError(t, err)
	assert.Empty(t, changes)
}
