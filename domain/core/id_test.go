package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseID tests identifier parsing
func TestParseID(t *testing.T) {
	valid := NewID()

	tests := []struct {
		input    string
		expected ID
		hasError bool
	}{
		{valid.String(), valid, false},
		{"  " + valid.String() + " ", valid, false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, test := range tests {
		result, err := ParseID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestNewHash(t *testing.T) {
	a := NewHash([]byte("a,b\n1,2\n"))
	b := NewHash([]byte("a,b\n1,2\n"))
	c := NewHash([]byte("a,b\n1,3\n"))

	if a != b {
		t.Errorf("Expected identical content to hash equally")
	}
	if a == c {
		t.Errorf("Expected different content to hash differently")
	}
	if len(a.Short()) != 12 {
		t.Errorf("Expected 12-character short hash, got %q", a.Short())
	}
}

func TestNotFoundErrors(t *testing.T) {
	err := NewNotFoundError("profile", "abc")
	if !IsNotFoundError(err) {
		t.Errorf("Expected %v to match ErrNotFound", err)
	}
	if !IsNotFoundError(ErrProfileNotFound) {
		t.Errorf("Expected ErrProfileNotFound to match ErrNotFound")
	}
}
