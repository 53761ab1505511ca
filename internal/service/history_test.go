package service

import (
	"errors"
	"fmt"
	"testing"

	"attendance-bot/internal/models"
)

// fakeHistoryAPI раздает total записей страницами по limit.
type fakeHistoryAPI struct {
	total        int
	withMeta     bool
	calls        []int
	lastFilters  models.HistoryFilters
	responseErr  error
}

func (f *fakeHistoryAPI) History(token, userID string, page, limit int, filters models.HistoryFilters) (*models.HistoryResponse, error) {
	f.calls = append(f.calls, page)
	f.lastFilters = filters

	if f.responseErr != nil {
		return nil, f.responseErr
	}

	start := (page - 1) * limit
	var records []models.AttendanceRecord
	for i := start; i < start+limit && i < f.total; i++ {
		records = append(records, models.AttendanceRecord{
			Date:   fmt.Sprintf("2026-01-%02d", i+1),
			Status: "present",
		})
	}

	resp := &models.HistoryResponse{History: records}
	if f.withMeta {
		hasMore := start+limit < f.total
		resp.Pagination = &models.Pagination{TotalRecords: f.total, HasMore: &hasMore}
	}
	return resp, nil
}

func TestSequentialLoadsAccumulate(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 12, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	for page := 1; page <= 3; page++ {
		if err := pager.LoadPage("T", "u1", page); err != nil {
			t.Fatalf("LoadPage(%d): %v", page, err)
		}
	}

	all := pager.All()
	if len(all) != 12 {
		t.Fatalf("cache length = %d, want concatenation of all pages", len(all))
	}
	for i, record := range all {
		want := fmt.Sprintf("2026-01-%02d", i+1)
		if record.Date != want {
			t.Errorf("cache[%d].Date = %q, want %q", i, record.Date, want)
		}
	}

	// видимый срез = cache[(k-1)*size : k*size]
	current := pager.Current()
	if len(current) != 2 || current[0].Date != "2026-01-11" {
		t.Errorf("current slice = %+v", current)
	}
	if pager.Page() != 3 {
		t.Errorf("page = %d", pager.Page())
	}
}

func TestFilterChangeResetsCache(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 12, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)
	pager.LoadPage("T", "u1", 2)
	if len(pager.All()) != 10 {
		t.Fatalf("precondition: cache = %d", len(pager.All()))
	}

	filters := models.HistoryFilters{Status: "present"}
	if err := pager.SetFilters("T", "u1", filters); err != nil {
		t.Fatalf("SetFilters: %v", err)
	}

	if pager.Page() != 1 {
		t.Errorf("page after filter change = %d, want 1", pager.Page())
	}
	if len(pager.All()) != 5 {
		t.Errorf("cache after filter change = %d records, want one fresh page", len(pager.All()))
	}
	if historyAPI.lastFilters.Status != "present" {
		t.Errorf("filters not passed through: %+v", historyAPI.lastFilters)
	}

	// повторное применение того же фильтра дает тот же сброс
	if err := pager.SetFilters("T", "u1", filters); err != nil {
		t.Fatalf("SetFilters again: %v", err)
	}
	if pager.Page() != 1 || len(pager.All()) != 5 {
		t.Error("reapplying the same filter must reset identically")
	}
}

func TestPreviousPageNeverFetches(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 12, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)
	pager.LoadPage("T", "u1", 2)
	callsBefore := len(historyAPI.calls)

	if !pager.PreviousPage() {
		t.Fatal("PreviousPage returned false with page=2")
	}
	if pager.Page() != 1 {
		t.Errorf("page = %d", pager.Page())
	}
	if pager.PreviousPage() {
		t.Error("PreviousPage must be a no-op at page 1")
	}

	if len(historyAPI.calls) != callsBefore {
		t.Error("PreviousPage must never issue a network call")
	}
}

func TestNextPageServesFromCache(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 12, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)
	pager.LoadPage("T", "u1", 2)
	pager.PreviousPage() // назад на 1
	callsBefore := len(historyAPI.calls)

	if err := pager.NextPage("T", "u1"); err != nil {
		t.Fatalf("NextPage: %v", err)
	}

	if len(historyAPI.calls) != callsBefore {
		t.Error("NextPage over a cached page must not fetch")
	}
	if pager.Page() != 2 {
		t.Errorf("page = %d", pager.Page())
	}
}

func TestNextPageFetchesWhenBeyondCache(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 12, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)

	if err := pager.NextPage("T", "u1"); err != nil {
		t.Fatalf("NextPage: %v", err)
	}

	if got := historyAPI.calls[len(historyAPI.calls)-1]; got != 2 {
		t.Errorf("last fetched page = %d, want 2", got)
	}
	if len(pager.All()) != 10 {
		t.Errorf("cache = %d records after append", len(pager.All()))
	}
}

func TestNextPageExhausted(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 7, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)
	pager.LoadPage("T", "u1", 2) // 2 записи, hasMore=false
	callsBefore := len(historyAPI.calls)

	err := pager.NextPage("T", "u1")
	if !errors.Is(err, ErrNoMoreRecords) {
		t.Fatalf("err = %v, want ErrNoMoreRecords", err)
	}
	if len(historyAPI.calls) != callsBefore {
		t.Error("exhausted NextPage must not fetch")
	}
	if pager.Page() != 2 {
		t.Error("exhausted NextPage must not mutate the cursor")
	}
}

func TestHasMoreInferredWithoutMetadata(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 5, withMeta: false}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)
	if !pager.HasMore() {
		t.Error("full page without metadata must infer hasMore=true")
	}

	pager.LoadPage("T", "u1", 2) // пустая страница
	if pager.HasMore() {
		t.Error("short page without metadata must infer hasMore=false")
	}
}

func TestLoadPageErrorKeepsCache(t *testing.T) {
	historyAPI := &fakeHistoryAPI{total: 12, withMeta: true}
	pager := NewHistoryPager(historyAPI, 5)

	pager.LoadPage("T", "u1", 1)
	historyAPI.responseErr = errors.New("backend down")

	if err := pager.LoadPage("T", "u1", 2); err == nil {
		t.Fatal("expected error")
	}

	if len(pager.All()) != 5 || pager.Page() != 1 {
		t.Error("failed load must leave cache and cursor untouched")
	}
}
