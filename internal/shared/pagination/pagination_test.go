package pagination

import "testing"

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		pageRaw      string
		sizeRaw      string
		expectedPage int
		expectedSize int
	}{
		{"defaults when empty", "", "", 1, DefaultPageSize},
		{"explicit values", "3", "50", 3, 50},
		{"garbage falls back", "abc", "xyz", 1, DefaultPageSize},
		{"zero page clamps to one", "0", "10", 1, 10},
		{"negative page clamps to one", "-5", "10", 1, 10},
		{"size clamped to max", "1", "9999", 1, MaxPageSize},
		{"zero size clamps to one", "1", "0", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Parse(tt.pageRaw, tt.sizeRaw)

			if p.Page != tt.expectedPage {
				t.Errorf("expected page %d, got %d", tt.expectedPage, p.Page)
			}
			if p.PageSize != tt.expectedSize {
				t.Errorf("expected size %d, got %d", tt.expectedSize, p.PageSize)
			}
		})
	}
}

func TestParams_Offset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   Params
		expected int
	}{
		{"first page", Params{Page: 1, PageSize: 25}, 0},
		{"second page", Params{Page: 2, PageSize: 25}, 25},
		{"large page", Params{Page: 11, PageSize: 200}, 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.params.Offset(); got != tt.expected {
				t.Errorf("expected offset %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestNewPage_NormalizesNil(t *testing.T) {
	t.Parallel()

	page := NewPage[string](nil, 0, Params{Page: 1, PageSize: 25})

	if page.Items == nil {
		t.Error("expected items to be an empty slice, got nil")
	}
	if len(page.Items) != 0 {
		t.Errorf("expected no items, got %d", len(page.Items))
	}
	if page.Total != 0 {
		t.Errorf("expected total 0, got %d", page.Total)
	}
}
