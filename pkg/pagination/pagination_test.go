package pagination

import "testing"

func TestPages(t *testing.T) {
	cases := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{15, 10, 2},
		{15, 5, 3},
		{100, 100, 1},
		{101, 100, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := Pages(tc.total, tc.perPage); got != tc.want {
			t.Errorf("Pages(%d, %d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}

func TestNewEnvelope(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	env := NewEnvelope(items, 2, 5, 15)

	if env.Pagination.Page != 2 {
		t.Errorf("page = %d, want 2", env.Pagination.Page)
	}
	if env.Pagination.PerPage != 5 {
		t.Errorf("per_page = %d, want 5", env.Pagination.PerPage)
	}
	if env.Pagination.Total != 15 {
		t.Errorf("total = %d, want 15", env.Pagination.Total)
	}
	if env.Pagination.Pages != 3 {
		t.Errorf("pages = %d, want 3", env.Pagination.Pages)
	}
	data, ok := env.Data.([]string)
	if !ok || len(data) != 5 {
		t.Fatalf("data = %#v, want the 5 items back", env.Data)
	}
}
