// Package ratelimit paces browser navigation for the scraper.
//
// Status pages tolerate far less traffic than an API: fetching them too
// quickly trips bot detection and gets a session rate limited or locked.
// The fetch loop therefore spaces navigations a minimum interval apart.
//
// Interface:
//
// Limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed right now
//   - Wait(ctx) error - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// The Pacer implementation fronts a golang.org/x/time/rate token bucket
// with a single-token burst: the first request goes through immediately,
// every later one waits out the configured interval.
//
// Usage:
//
//	// One navigation per second at most
//	limiter := ratelimit.NewPacer(time.Second)
//
//	if err := limiter.Wait(ctx); err != nil {
//	    // The run was canceled while waiting
//	}
//	// Proceed with the navigation
package ratelimit
