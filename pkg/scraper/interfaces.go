package scraper

import "context"

// PostPage is the single browser tab the scheduler drives through one
// post's load cycle. The scheduler owns all pacing and retry decisions;
// implementations only navigate and report.
type PostPage interface {
	// Navigate loads url and waits for the initial document.
	Navigate(ctx context.Context, url string) error

	// DismissBanner clicks through a consent dialog when one is shown
	// and reports whether anything was clicked.
	DismissBanner(ctx context.Context) bool

	// WaitPostRoot waits for the post container and reports whether it
	// appeared before the stabilize timeout.
	WaitPostRoot(ctx context.Context) bool

	// Refresh forces the page past a stuck load.
	Refresh(ctx context.Context) error

	// HTML returns the page's rendered markup.
	HTML(ctx context.Context) (string, error)

	// CurrentURL reports where the tab actually ended up.
	CurrentURL() string
}
