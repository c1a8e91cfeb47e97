// Package ui provides terminal UI components for the scraper
// This file demonstrates example usage of the UI components
package ui

/*
Example usage of the UI components:

// Terminal colors and output
ui.PrintLogo()                                   // Print ASCII logo
ui.PrintInfo("Input", "urls.txt")                // Cyan label with yellow value
ui.PrintSuccess("Run completed!")                // Green success message
ui.PrintError("Failed to scrape: %v", err)       // Red error message
ui.PrintWarning("Continuing unauthenticated")    // Yellow warning message
ui.PrintHighlight("[SCRAPING]")                  // Magenta highlight message

// Outcome tracking
tracker := ui.NewStatusTracker()
tracker.Record(models.StatusOK)                  // Count one outcome
tracker.PrintProgress()                          // Print the counters line

// Quiet mode for scripted runs
ui.SetQuietMode(true)                            // Suppress informational output

// Notifications (cross-platform)
notifier := ui.NewNotifier()
notifier.SendNotification("Run finished", "48/50 posts scraped")
notifier.SendError("Error", "Browser session lost")
notifier.SendSuccess("Success", "All posts scraped")

// Direct color usage
fmt.Printf("%s: %s\n", ui.Cyan("Account"), ui.Yellow("newsroom"))
fmt.Println(ui.Green("✓ ok"))
fmt.Println(ui.Red("✗ failed"))
*/
