// Package twitter holds the platform-specific logic for reading public
// post metrics off rendered status pages.
//
// This package includes:
//   - URL normalization onto the mobile mirror host
//   - A compact-count parser for values like "1.2K" and "361,942"
//   - The metric extraction heuristics that read a rendered document
//   - A reconciliation pass that recovers view counts from composite labels
//   - The login state machine that signs a browser session in
//
// Everything here is pure with respect to the browser: extraction works on
// an HTML snapshot and the login flow drives an injected LoginPage, so the
// whole package tests without a browser.
//
// Example usage:
//
//	url := twitter.NormalizeURL("x.com/someone/status/123")
//
//	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
//	if err != nil {
//	    // Handle parse error
//	}
//
//	h := twitter.DefaultHeuristics()
//	m := twitter.Extract(doc, h)
//	twitter.ReconcileViews(doc, h, &m)
//	if m.Views != nil {
//	    fmt.Println("views:", *m.Views)
//	}
package twitter
