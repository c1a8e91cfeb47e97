package config

// Example usage of the configuration system:
//
// 1. Load configuration with all sources:
//
//     config, err := config.Load("", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 2. Load with custom config file:
//
//     config, err := config.Load("/path/to/config.yaml", nil)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 3. Load with command line flags:
//
//     flags := map[string]interface{}{
//         "email":        "user@example.com",
//         "output":       "./results.csv",
//         "retries":      3,
//         "min-interval": 1.5,
//         "log-level":    "debug",
//     }
//     config, err := config.Load("", flags)
//     if err != nil {
//         log.Fatal(err)
//     }
//
// 4. Programmatic configuration:
//
//     config := config.DefaultConfig()
//     config.Twitter.Email = "user@example.com"
//     config.Twitter.Password = "secret"
//     config.Browser.Headless = false
//
//     if err := config.Validate(); err != nil {
//         log.Fatal(err)
//     }
//
// 5. Save configuration to file:
//
//     if err := config.Save(".xscraper.yaml"); err != nil {
//         log.Fatal(err)
//     }
//
// 6. Environment variables:
//
//     export XSCRAPER_EMAIL="user@example.com"
//     export XSCRAPER_PASSWORD="secret"
//     export XSCRAPER_STATE_FILE="./tw_state.json"
//     export XSCRAPER_RETRIES="3"
//     export XSCRAPER_MIN_INTERVAL="1.5"
//     export XSCRAPER_LOG_LEVEL="debug"
//
//     The drop-in names TW_EMAIL, TW_USERNAME / TWITTER_USERNAME,
//     TW_PASSWORD / TWITTER_PASSWORD, TW_STATE, TW_COOKIE and
//     TW_COOKIE_FILE are also honored.
//
// 7. Using configuration in your application:
//
//     // Space navigations per the configured interval
//     limiter := ratelimit.NewPacer(config.Scrape.MinInterval())
//
//     // Bound page waits
//     page := session.Page().Timeout(config.Browser.NavTimeout())
