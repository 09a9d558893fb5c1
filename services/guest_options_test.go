package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeGuestOptionsDirectoryWins(t *testing.T) {
	identity := []GuestOption{
		{ID: 1, Email: "a@x", Label: GuestOptionLabel("Alt", "a@x")},
	}
	directory := []GuestOption{
		{ID: 2, Email: "a@x", Label: GuestOptionLabel("Real", "a@x")},
	}

	got := MergeGuestOptions(directory, identity)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
	assert.Equal(t, "Real (a@x)", got[0].Label)
}

func TestMergeGuestOptionsKeepsFirstSeenOrder(t *testing.T) {
	identity := []GuestOption{
		{ID: 10, Email: "first@x", Label: "First (first@x)"},
		{ID: 11, Email: "second@x", Label: "Second (second@x)"},
	}
	directory := []GuestOption{
		{ID: 20, Email: "second@x", Label: "Second Directory (second@x)"},
		{ID: 21, Email: "third@x", Label: "Third (third@x)"},
	}

	got := MergeGuestOptions(directory, identity)
	require.Len(t, got, 3)
	// second@x keeps its identity-list position but carries the directory entry.
	assert.Equal(t, []uint{10, 20, 21}, []uint{got[0].ID, got[1].ID, got[2].ID})
}

func TestMergeGuestOptionsEmailKeyIsNormalized(t *testing.T) {
	identity := []GuestOption{
		{ID: 1, Email: " A@X ", Label: "Alt (A@X)"},
	}
	directory := []GuestOption{
		{ID: 2, Email: "a@x", Label: "Real (a@x)"},
	}

	got := MergeGuestOptions(directory, identity)
	require.Len(t, got, 1)
	assert.Equal(t, uint(2), got[0].ID)
}

func TestMergeGuestOptionsEmptyInputs(t *testing.T) {
	assert.Empty(t, MergeGuestOptions(nil, nil))

	directory := []GuestOption{{ID: 1, Email: "a@x", Label: "A (a@x)"}}
	assert.Equal(t, directory, MergeGuestOptions(directory, nil))

	identity := []GuestOption{{ID: 2, Email: "b@x", Label: "B (b@x)"}}
	assert.Equal(t, identity, MergeGuestOptions(nil, identity))
}

func TestMergeGuestOptionsIdempotent(t *testing.T) {
	identity := []GuestOption{
		{ID: 1, Email: "a@x", Label: "Alt (a@x)"},
		{ID: 3, Email: "c@x", Label: "C (c@x)"},
	}
	directory := []GuestOption{
		{ID: 2, Email: "a@x", Label: "Real (a@x)"},
	}

	once := MergeGuestOptions(directory, identity)
	twice := MergeGuestOptions(once, identity)
	assert.Equal(t, once, twice)
}

func TestGuestOptionLabel(t *testing.T) {
	assert.Equal(t, "Jonas (jonas@x)", GuestOptionLabel("Jonas", "jonas@x"))
	assert.Equal(t, "jonas@x (jonas@x)", GuestOptionLabel("  ", "jonas@x"))
}
