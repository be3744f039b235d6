package tracking

import (
	"reflect"
	"testing"
)

func TestChangeTracker_Changed(t *testing.T) {
	tests := []struct {
		name     string
		original map[string]any
		current  map[string]any
		field    string
		want     bool
	}{
		{
			name:     "unchanged field",
			original: map[string]any{"field": "value"},
			current:  map[string]any{"field": "value"},
			field:    "field",
			want:     false,
		},
		{
			name:     "changed string field",
			original: map[string]any{"field": "old"},
			current:  map[string]any{"field": "new"},
			field:    "field",
			want:     true,
		},
		{
			name:     "number types normalize",
			original: map[string]any{"count": float64(3)},
			current:  map[string]any{"count": 3},
			field:    "count",
			want:     false,
		},
		{
			name:     "list order is ignored",
			original: map[string]any{"tags": []any{"a", "b"}},
			current:  map[string]any{"tags": []string{"b", "a"}},
			field:    "tags",
			want:     false,
		},
		{
			name:     "list element added",
			original: map[string]any{"tags": []any{"a"}},
			current:  map[string]any{"tags": []any{"a", "b"}},
			field:    "tags",
			want:     true,
		},
		{
			name:     "nested object changed",
			original: map[string]any{"meta": map[string]any{"x": 1}},
			current:  map[string]any{"meta": map[string]any{"x": 2}},
			field:    "meta",
			want:     true,
		},
		{
			name:     "new field",
			original: nil,
			current:  map[string]any{"title": "hello"},
			field:    "title",
			want:     true,
		},
		{
			name:     "unset field never saved",
			original: nil,
			current:  map[string]any{"title": nil},
			field:    "title",
			want:     false,
		},
		{
			name:     "empty list never saved",
			original: nil,
			current:  map[string]any{"tags": []any{}},
			field:    "tags",
			want:     false,
		},
		{
			name:     "field cleared",
			original: map[string]any{"title": "hello"},
			current:  map[string]any{"title": nil},
			field:    "title",
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := NewChangeTracker(tt.original, tt.current)
			if got := ct.Changed(tt.field); got != tt.want {
				t.Errorf("Changed(%q) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestChangeTracker_GetChangedData(t *testing.T) {
	ct := NewChangeTracker(
		map[string]any{"id": "x", "title": "old"},
		map[string]any{"id": "x", "title": "new", "count": 2},
	)

	want := map[string]any{"title": "new", "count": float64(2)}
	if got := ct.GetChangedData(); !reflect.DeepEqual(got, want) {
		t.Errorf("GetChangedData() = %v, want %v", got, want)
	}
	if got := ct.ChangedFields(); !reflect.DeepEqual(got, []string{"count", "title"}) {
		t.Errorf("ChangedFields() = %v", got)
	}
	if change := ct.GetChange("title"); change == nil || change.OldValue != "old" {
		t.Errorf("GetChange(title) = %+v", change)
	}

	ct.Reset()
	if ct.HasChanges() {
		t.Error("Expected no changes after Reset")
	}
}
