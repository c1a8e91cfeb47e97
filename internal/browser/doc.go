// Package browser owns the real browser: launching and disguising it,
// carrying session cookies, and exposing the two page surfaces the rest
// of the program drives (post pages for scraping, the login page for
// authentication). Nothing outside this package touches the browser
// protocol directly.
package browser
