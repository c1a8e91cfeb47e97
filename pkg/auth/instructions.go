package auth

import (
	"fmt"
	"strings"
)

// ShowCookieExtractionGuide displays step-by-step instructions for extracting cookies
func ShowCookieExtractionGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 X/TWITTER COOKIE EXTRACTION GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool can reuse your existing browser session instead of logging in.")
	fmt.Println("Follow these steps to extract the session cookies from your browser:")
	fmt.Println()

	// Browser selection
	fmt.Println("🌐 STEP 1: Open X in your browser")
	fmt.Println("   - Go to https://x.com")
	fmt.Println("   - Log in with your account")
	fmt.Println("   - Make sure you can see your home timeline")
	fmt.Println()

	// Developer tools
	fmt.Println("🔧 STEP 2: Open Developer Tools")
	fmt.Println("   • Chrome/Edge/Brave: Press F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   • Firefox: Press F12 or Ctrl+Shift+I (Cmd+Option+I on Mac)")
	fmt.Println("   • Safari: Enable Developer menu in Preferences, then Cmd+Option+I")
	fmt.Println()

	// Network tab
	fmt.Println("📡 STEP 3: Go to the Network tab")
	fmt.Println("   - Click on the 'Network' tab in Developer Tools")
	fmt.Println("   - If it's empty, refresh the page (F5)")
	fmt.Println()

	// Find cookies
	fmt.Println("🍪 STEP 4: Find your cookies")
	fmt.Println("   METHOD A - From Network tab:")
	fmt.Println("   1. Look for any request to 'x.com'")
	fmt.Println("   2. Click on it")
	fmt.Println("   3. Go to 'Headers' section")
	fmt.Println("   4. Scroll to 'Request Headers'")
	fmt.Println("   5. Copy the entire 'Cookie:' line")
	fmt.Println()
	fmt.Println("   METHOD B - From Application/Storage tab:")
	fmt.Println("   1. Go to 'Application' tab (Chrome) or 'Storage' tab (Firefox)")
	fmt.Println("   2. In the left sidebar, expand 'Cookies'")
	fmt.Println("   3. Click on 'https://x.com'")
	fmt.Println("   4. Look for these cookies in the list:")
	fmt.Println()

	// Cookie details
	fmt.Println("🔑 STEP 5: Copy these specific values:")
	fmt.Println("   ┌─────────────┬──────────────────────────────────────────────┐")
	fmt.Println("   │ Cookie Name │ What it looks like                           │")
	fmt.Println("   ├─────────────┼──────────────────────────────────────────────┤")
	fmt.Println("   │ auth_token  │ 40-character hex string                      │")
	fmt.Println("   │             │ Example: 5a1b2c3d4e5f6a7b8c9d0e1f...         │")
	fmt.Println("   ├─────────────┼──────────────────────────────────────────────┤")
	fmt.Println("   │ ct0         │ Long hex string (CSRF token)                 │")
	fmt.Println("   │             │ Example: 8f14e45fceea167a5a36dedd4bea25...   │")
	fmt.Println("   └─────────────┴──────────────────────────────────────────────┘")
	fmt.Println()

	// Import
	fmt.Println("📥 STEP 6: Import them")
	fmt.Println("   xscraper auth import-cookies --cookie 'auth_token=...; ct0=...'")
	fmt.Println("   or save the header to a file and run:")
	fmt.Println("   xscraper auth import-cookies --cookie-file cookies.txt")
	fmt.Println()

	// Tips
	fmt.Println("💡 TIPS:")
	fmt.Println("   • Copy the ENTIRE value (everything after the = sign)")
	fmt.Println("   • Don't include quotes; semicolons separate the pairs")
	fmt.Println("   • These cookies expire, so you may need to refresh them periodically")
	fmt.Println("   • Use a secondary account for scraping to avoid issues with your main account")
	fmt.Println()

	// Security warning
	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • These cookies give FULL access to your X account")
	fmt.Println("   • NEVER share them with anyone")
	fmt.Println("   • The state file is written with owner-only permissions")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickExtractGuide shows a condensed version for experienced users
func ShowQuickExtractGuide() {
	fmt.Println("\n🍪 Quick Guide: F12 → Network tab → Refresh → Click any x.com request → Headers → Cookie")
	fmt.Println("   Need: auth_token=... and ct0=...")
	fmt.Println("   Run 'xscraper auth import-cookies --help' for detailed instructions")
}
