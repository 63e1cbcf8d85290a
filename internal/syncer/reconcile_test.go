package syncer

import (
	"reflect"
	"testing"
)

func TestReconcile(t *testing.T) {
	stored := []int64{1, 2, 3, 4}
	fresh := []int64{2, 4, 5}

	deleted := Reconcile(stored, fresh)
	want := []int64{1, 3}
	if !reflect.DeepEqual(deleted, want) {
		t.Errorf("Expected delete-set %v, got %v", want, deleted)
	}
}

func TestReconcile_PreservesStoredOrder(t *testing.T) {
	stored := []int64{40, 10, 30, 20}
	fresh := []int64{10}

	deleted := Reconcile(stored, fresh)
	want := []int64{40, 30, 20}
	if !reflect.DeepEqual(deleted, want) {
		t.Errorf("Expected delete-set %v, got %v", want, deleted)
	}
}

func TestReconcile_DuplicateFreshKeysCollapse(t *testing.T) {
	stored := []int64{1, 2}
	fresh := []int64{2, 2, 2}

	deleted := Reconcile(stored, fresh)
	want := []int64{1}
	if !reflect.DeepEqual(deleted, want) {
		t.Errorf("Expected delete-set %v, got %v", want, deleted)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	stored := []int64{1, 2, 3, 4}
	fresh := []int64{2, 4}

	deleted := Reconcile(stored, fresh)

	// the keys that survived the first reconciliation
	survivors := Reconcile(stored, deleted)
	second := Reconcile(survivors, fresh)
	if len(second) != 0 {
		t.Errorf("Expected no further deletions, got %v", second)
	}
}

func TestReconcile_EmptyInputs(t *testing.T) {
	if deleted := Reconcile(nil, []int64{1}); len(deleted) != 0 {
		t.Errorf("Expected empty delete-set for empty stored, got %v", deleted)
	}

	deleted := Reconcile([]int64{1, 2}, nil)
	want := []int64{1, 2}
	if !reflect.DeepEqual(deleted, want) {
		t.Errorf("Expected everything deleted for empty fresh, got %v", deleted)
	}
}

func TestReconcile_StringKeys(t *testing.T) {
	deleted := Reconcile([]string{"a", "b", "c"}, []string{"b"})
	want := []string{"a", "c"}
	if !reflect.DeepEqual(deleted, want) {
		t.Errorf("Expected %v, got %v", want, deleted)
	}
}
