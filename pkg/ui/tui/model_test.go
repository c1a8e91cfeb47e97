package tui

import (
	"testing"

	"xscraper/pkg/models"
)

func int64Ptr(n int64) *int64 {
	return &n
}

func TestModel(t *testing.T) {
	model := NewModel()

	// Test starting a fetch
	model.StartFetch(1, 3, "https://x.com/alice/status/1")
	if len(model.fetches) != 1 {
		t.Errorf("Expected 1 fetch, got %d", len(model.fetches))
	}
	if model.totalURLs != 3 {
		t.Errorf("Expected total of 3, got %d", model.totalURLs)
	}

	active := model.GetActiveFetch()
	if active == nil || active.URL != "https://x.com/alice/status/1" {
		t.Errorf("Expected the started URL to be active, got %+v", active)
	}

	// Test finishing with metrics
	model.FinishFetch("https://x.com/alice/status/1", models.ScrapeResult{
		URL:    "https://x.com/alice/status/1",
		Status: models.StatusOK,
		Views:  int64Ptr(1500),
	})
	if model.okCount != 1 {
		t.Errorf("Expected 1 ok, got %d", model.okCount)
	}
	if model.viewsSeen != 1500 {
		t.Errorf("Expected 1500 views seen, got %d", model.viewsSeen)
	}
	if model.GetActiveFetch() != nil {
		t.Error("Expected no active fetch after finish")
	}

	// Test finishing with a failure
	model.StartFetch(2, 3, "https://x.com/bob/status/2")
	model.FinishFetch("https://x.com/bob/status/2", models.ScrapeResult{
		URL:    "https://x.com/bob/status/2",
		Status: models.StatusError,
		Error:  "navigation: timed out",
	})
	if model.errorCount != 1 {
		t.Errorf("Expected 1 error, got %d", model.errorCount)
	}

	// Test finishing without counts
	model.StartFetch(3, 3, "https://x.com/carol/status/3")
	model.FinishFetch("https://x.com/carol/status/3", models.ScrapeResult{
		URL:    "https://x.com/carol/status/3",
		Status: models.StatusNoCountsFound,
	})
	if model.noCountsCount != 1 {
		t.Errorf("Expected 1 no-counts, got %d", model.noCountsCount)
	}

	if model.DoneCount() != 3 {
		t.Errorf("Expected 3 done, got %d", model.DoneCount())
	}

	// Test recent results keep loop order
	recent := model.GetRecentResults(2)
	if len(recent) != 2 {
		t.Fatalf("Expected 2 recent results, got %d", len(recent))
	}
	if recent[0].URL != "https://x.com/bob/status/2" || recent[1].URL != "https://x.com/carol/status/3" {
		t.Errorf("Unexpected recent order: %s, %s", recent[0].URL, recent[1].URL)
	}

	// Test finishing an unknown URL is a no-op
	model.FinishFetch("https://x.com/nobody/status/9", models.ScrapeResult{Status: models.StatusOK})
	if model.DoneCount() != 3 {
		t.Errorf("Expected done count unchanged, got %d", model.DoneCount())
	}

	// Test log messages
	model.AddLogMessage("INFO", "Test message")
	if len(model.logMessages) == 0 {
		t.Error("Expected log messages to be recorded")
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		count    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{1_000_000, "1.0M"},
		{2_500_000, "2.5M"},
		{1_200_000_000, "1.2B"},
	}

	for _, test := range tests {
		result := FormatCount(test.count)
		if result != test.expected {
			t.Errorf("FormatCount(%d) = %s, expected %s", test.count, result, test.expected)
		}
	}
}
