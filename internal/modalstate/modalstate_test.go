package modalstate

import "testing"

func TestRegistry(t *testing.T) {
	r := New()

	if r.IsShown("edit-doctor") {
		t.Error("untouched key should be hidden")
	}

	r.Show("edit-doctor")
	if !r.IsShown("edit-doctor") {
		t.Error("Show did not take effect")
	}

	// Idempotent
	r.Show("edit-doctor")
	if !r.IsShown("edit-doctor") {
		t.Error("repeated Show changed state")
	}

	r.Hide("edit-doctor")
	if r.IsShown("edit-doctor") {
		t.Error("Hide did not take effect")
	}
	r.Hide("edit-doctor")
	if r.IsShown("edit-doctor") {
		t.Error("repeated Hide changed state")
	}
}

func TestRegistryIndependentKeys(t *testing.T) {
	r := New()
	r.Show("add-category")
	r.Show("add-doctor")

	if !r.IsShown("add-category") || !r.IsShown("add-doctor") {
		t.Error("modals should be independently visible")
	}

	r.Hide("add-category")
	if r.IsShown("add-category") {
		t.Error("add-category should be hidden")
	}
	if !r.IsShown("add-doctor") {
		t.Error("hiding one modal must not affect another")
	}
}
