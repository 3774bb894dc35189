package services

import (
	"errors"
	"math"
	"testing"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginateCoversEveryItemOnce(t *testing.T) {
	for _, tc := range []struct {
		total, size int
	}{
		{0, 10}, {1, 1}, {9, 10}, {10, 10}, {11, 10}, {250, 100}, {1000, 500},
	} {
		items := seq(tc.total)
		_, first, err := Paginate(items, 1, tc.size)
		if err != nil {
			t.Fatalf("total=%d size=%d: %v", tc.total, tc.size, err)
		}
		wantPages := (tc.total + tc.size - 1) / tc.size
		if first.TotalPages != wantPages {
			t.Fatalf("total=%d size=%d: expected %d pages, got %d", tc.total, tc.size, wantPages, first.TotalPages)
		}

		var seen []int
		for page := 1; page <= first.TotalPages; page++ {
			got, pg, err := Paginate(items, page, tc.size)
			if err != nil {
				t.Fatalf("page %d: %v", page, err)
			}
			if pg.EndIndex-pg.StartIndex+1 != len(got) {
				t.Fatalf("page %d: indices %d..%d disagree with %d items", page, pg.StartIndex, pg.EndIndex, len(got))
			}
			if len(seen) > 0 && pg.StartIndex != len(seen)+1 {
				t.Fatalf("page %d: startIndex %d not contiguous", page, pg.StartIndex)
			}
			if pg.HasNextPage != (page < first.TotalPages) || pg.HasPreviousPage != (page > 1) {
				t.Fatalf("page %d: wrong next/prev flags %+v", page, pg)
			}
			seen = append(seen, got...)
		}
		if len(seen) != tc.total {
			t.Fatalf("total=%d size=%d: pages held %d items", tc.total, tc.size, len(seen))
		}
		for i, v := range seen {
			if v != i {
				t.Fatalf("item %d out of order: %d", i, v)
			}
		}
	}
}

func TestPaginateLastAndBeyond(t *testing.T) {
	items := seq(250)
	got, pg, err := Paginate(items, 3, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 50 || pg.StartIndex != 201 || pg.EndIndex != 250 {
		t.Fatalf("unexpected last page: len=%d %+v", len(got), pg)
	}
	if pg.HasNextPage || !pg.HasPreviousPage {
		t.Fatalf("unexpected flags on last page: %+v", pg)
	}

	got, pg, err = Paginate(items, 4, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %d items", len(got))
	}
	if pg.StartIndex != 251 || pg.EndIndex != 250 || pg.TotalItems != 250 || pg.HasNextPage {
		t.Fatalf("unexpected pagination past the end: %+v", pg)
	}

	for _, page := range []int{36893488147419104, 18446744073709552, math.MaxInt} {
		got, pg, err := Paginate(seq(10), page, MaxPageSize)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if len(got) != 0 || pg.StartIndex != 11 || pg.EndIndex != 10 || pg.CurrentPage != page || !pg.HasPreviousPage {
			t.Fatalf("page %d: unexpected huge page %+v", page, pg)
		}
	}
}

func TestPaginateEmptyList(t *testing.T) {
	got, pg, err := Paginate([]string{}, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || pg.TotalPages != 0 || pg.StartIndex != 1 || pg.EndIndex != 0 || pg.HasNextPage {
		t.Fatalf("unexpected empty pagination: %+v", pg)
	}
}

func TestPaginateRejectsBadInput(t *testing.T) {
	items := seq(5)
	if _, _, err := Paginate(items, 0, 10); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
	if _, _, err := Paginate(items, -3, 10); !errors.Is(err, ErrInvalidPage) {
		t.Fatalf("expected ErrInvalidPage, got %v", err)
	}
	if _, _, err := Paginate(items, 1, 0); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, _, err := Paginate(items, 1, MaxPageSize+1); !errors.Is(err, ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if _, _, err := Paginate(items, 1, MaxPageSize); err != nil {
		t.Fatalf("limit %d must be accepted: %v", MaxPageSize, err)
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := seq(3)
	got, _, _ := Paginate(items, 1, 2)
	got[0] = 99
	if items[0] != 0 {
		t.Fatalf("page shares backing array with input")
	}
}

func TestSinglePage(t *testing.T) {
	pg := SinglePage([]int{4, 5, 6})
	if pg.CurrentPage != 1 || pg.TotalPages != 1 || pg.Limit != 3 || pg.StartIndex != 1 || pg.EndIndex != 3 {
		t.Fatalf("unexpected single page: %+v", pg)
	}
	if pg.HasNextPage || pg.HasPreviousPage {
		t.Fatalf("single page must not have neighbours: %+v", pg)
	}
}
