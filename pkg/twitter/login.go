package twitter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"xscraper/pkg/errors"
	"xscraper/pkg/logger"
)

// LoginURL is the interactive login flow entry point.
const LoginURL = "https://x.com/i/flow/login"

// LoginState names a step of the login state machine.
type LoginState string

const (
	StateStart           LoginState = "start"
	StateEnterIdentifier LoginState = "enter_identifier"
	StateChallenge       LoginState = "challenge"
	StateEnterPassword   LoginState = "enter_password"
	StateSubmit          LoginState = "submit"
	StateSuccess         LoginState = "success"
	StateFailure         LoginState = "failure"
)

// Platform markup the flow matches against. The login page is served from
// a handful of known shapes; these cover the current ones.
var (
	identifierSelectors = []string{
		`input[name="text"]`,
		`input[autocomplete="username"]`,
		`[data-testid="ocfEnterTextTextInput"] input`,
	}
	passwordSelectors = []string{`input[name="password"]`}
	loggedInSelectors = []string{
		`[data-testid="SideNav_AccountSwitcher_Button"]`,
		`[data-testid="tweetTextarea_0"]`,
	}
	nextLabels   = []string{"Next", "Continue"}
	submitLabels = []string{"Log in", "Login", "Sign in"}

	// challengePhrases mark the intermediate "confirm it is you" screen
	// that asks for the username after an email identifier.
	challengePhrases = []string{
		"enter your phone number or username",
		"unusual login activity",
	}

	// failurePhrases are scanned when the flow ends without the page
	// surfacing an explicit alert.
	failurePhrases = []string{
		"Wrong password",
		"couldn't confirm your identity",
		"Try again later",
		"locked",
		"suspicious",
		"rate limit",
		"Too many attempts",
		"Enter your phone number or username",
		"unusual login activity",
		"verification",
	}

	loggedInURLRe = regexp.MustCompile(`^https://x\.com/(home|notifications|explore)`)
)

// LoginPage is the browser surface the flow drives. Implementations probe
// and act but never wait; all timing lives in the flow so it can run
// against a fake page and clock.
type LoginPage interface {
	// Navigate loads the given URL and waits for the initial document.
	Navigate(url string) error

	// URL returns the page's current address.
	URL() string

	// DismissConsent clicks the first visible button carrying one of the
	// labels and reports whether anything was clicked.
	DismissConsent(labels []string) bool

	// FindVisible reports whether any selector has a visible match.
	FindVisible(selectors ...string) bool

	// HasAny reports whether any selector has a match, visible or not.
	HasAny(selectors ...string) bool

	// Fill types value into the first visible match among selectors with
	// the given per-key delay.
	Fill(selectors []string, value string, delay time.Duration) error

	// FillByScript sets the field value directly through script
	// injection, for inputs that reject synthetic typing.
	FillByScript(selectors []string, value string) error

	// ClickButton clicks the first button whose accessible name or
	// visible text matches one of the labels.
	ClickButton(labels ...string) bool

	// PressEnter sends the Enter key to the focused element.
	PressEnter() error

	// BodyContains reports whether the page text contains the phrase,
	// case-insensitively.
	BodyContains(phrase string) bool

	// AlertTexts returns the texts of visible alert and status elements.
	AlertTexts() []string
}

// Credentials identifies the account the flow signs in.
type Credentials struct {
	Email    string
	Username string
	Password string
}

// Identifier returns the value typed into the first login field.
func (c Credentials) Identifier() string {
	if c.Email != "" {
		return c.Email
	}
	return c.Username
}

// ChallengeAnswer returns the value typed into the identity challenge,
// which asks for the username when the identifier was an email.
func (c Credentials) ChallengeAnswer() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Email
}

// FlowConfig bounds every wait in the flow.
type FlowConfig struct {
	LoginURL        string
	ConsentLabels   []string
	IdentifierWait  time.Duration
	PasswordWait    time.Duration
	ChallengeWindow time.Duration
	ChallengePause  time.Duration
	SuccessWait     time.Duration
	PollInterval    time.Duration
	TypingDelay     time.Duration
}

// DefaultFlowConfig returns the bounds tuned against the live login page.
func DefaultFlowConfig() FlowConfig {
	return FlowConfig{
		LoginURL:        LoginURL,
		ConsentLabels:   DefaultHeuristics().ConsentLabels,
		IdentifierWait:  20 * time.Second,
		PasswordWait:    25 * time.Second,
		ChallengeWindow: 40 * time.Second,
		ChallengePause:  800 * time.Millisecond,
		SuccessWait:     30 * time.Second,
		PollInterval:    500 * time.Millisecond,
		TypingDelay:     50 * time.Millisecond,
	}
}

// Flow drives the login state machine over a LoginPage. A Flow never
// panics out and never leaves the run in an intermediate state: every
// outcome is success or a failure with a reason.
type Flow struct {
	page  LoginPage
	clock Clock
	cfg   FlowConfig
	log   logger.Logger
}

// NewFlow builds a Flow. A nil clock means real time; a nil logger
// silences the flow.
func NewFlow(page LoginPage, clock Clock, cfg FlowConfig, log logger.Logger) *Flow {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	return &Flow{page: page, clock: clock, cfg: cfg, log: log}
}

// Run executes the state machine until it reaches success or failure.
// It returns nil on success and an auth error carrying the failure
// reason otherwise.
func (f *Flow) Run(creds Credentials) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewAuth(fmt.Sprintf("login flow fault: %v", r), nil)
		}
	}()

	state := StateStart
	var stepErr error
	for {
		f.log.DebugWithFields("Login flow state", map[string]interface{}{
			"state": string(state),
		})

		var next LoginState
		switch state {
		case StateStart:
			next, stepErr = f.start()
		case StateEnterIdentifier:
			next, stepErr = f.enterIdentifier(creds)
		case StateChallenge:
			next, stepErr = f.challenge(creds)
		case StateEnterPassword:
			next, stepErr = f.enterPassword(creds)
		case StateSubmit:
			next, stepErr = f.submit()
		case StateSuccess:
			f.log.Info("Login succeeded")
			return nil
		case StateFailure:
			if stepErr != nil {
				return errors.NewAuth("login failed", stepErr)
			}
			return errors.NewAuth(f.failureReason(), nil)
		default:
			return errors.NewAuth(fmt.Sprintf("login flow reached unknown state %q", state), nil)
		}
		state = next
	}
}

func (f *Flow) start() (LoginState, error) {
	if err := f.page.Navigate(f.cfg.LoginURL); err != nil {
		return StateFailure, err
	}
	if f.page.DismissConsent(f.cfg.ConsentLabels) {
		f.log.Debug("Dismissed consent banner on login page")
	}
	if !f.waitVisible(f.cfg.IdentifierWait, identifierSelectors...) {
		return StateFailure, fmt.Errorf("identifier field did not appear within %s", f.cfg.IdentifierWait)
	}
	return StateEnterIdentifier, nil
}

func (f *Flow) enterIdentifier(creds Credentials) (LoginState, error) {
	identifier := creds.Identifier()
	if identifier == "" {
		return StateFailure, fmt.Errorf("no email or username to log in with")
	}
	if err := f.fillField(identifierSelectors, identifier); err != nil {
		return StateFailure, err
	}
	f.advance(nextLabels)
	return StateChallenge, nil
}

// challenge watches the screen after the identifier is submitted. The
// page either moves straight to the password prompt or interposes an
// identity challenge that wants the username; both can appear more than
// once within the window.
func (f *Flow) challenge(creds Credentials) (LoginState, error) {
	deadline := f.clock.Now().Add(f.cfg.ChallengeWindow)
	for {
		if f.page.FindVisible(passwordSelectors...) {
			return StateEnterPassword, nil
		}
		if f.challengeShown() {
			answer := creds.ChallengeAnswer()
			if answer == "" {
				return StateFailure, fmt.Errorf("identity challenge shown but no username or email to answer it")
			}
			f.log.InfoWithFields("Answering identity challenge", map[string]interface{}{
				"answer_kind": answerKind(creds),
			})
			if err := f.fillField(identifierSelectors, answer); err != nil {
				return StateFailure, err
			}
			f.advance(nextLabels)
			f.clock.Sleep(f.cfg.ChallengePause)
		}
		if f.clock.Now().After(deadline) {
			return StateFailure, fmt.Errorf("password field did not appear within %s", f.cfg.ChallengeWindow)
		}
		f.clock.Sleep(f.cfg.PollInterval)
	}
}

func (f *Flow) enterPassword(creds Credentials) (LoginState, error) {
	if creds.Password == "" {
		return StateFailure, fmt.Errorf("no password to log in with")
	}
	if !f.waitVisible(f.cfg.PasswordWait, passwordSelectors...) {
		return StateFailure, fmt.Errorf("password field did not appear within %s", f.cfg.PasswordWait)
	}
	if err := f.fillField(passwordSelectors, creds.Password); err != nil {
		return StateFailure, err
	}
	return StateSubmit, nil
}

func (f *Flow) submit() (LoginState, error) {
	f.advance(submitLabels)

	deadline := f.clock.Now().Add(f.cfg.SuccessWait)
	for {
		if f.loggedIn() {
			return StateSuccess, nil
		}
		if f.clock.Now().After(deadline) {
			return StateFailure, nil
		}
		f.clock.Sleep(f.cfg.PollInterval)
	}
}

// fillField types the value, falling back to script injection when the
// input rejects synthetic keystrokes.
func (f *Flow) fillField(selectors []string, value string) error {
	typeErr := f.page.Fill(selectors, value, f.cfg.TypingDelay)
	if typeErr == nil {
		return nil
	}
	if scriptErr := f.page.FillByScript(selectors, value); scriptErr == nil {
		return nil
	}
	return typeErr
}

// advance clicks the first matching button, or presses Enter when no
// button is found.
func (f *Flow) advance(labels []string) {
	if f.page.ClickButton(labels...) {
		return
	}
	_ = f.page.PressEnter()
}

func (f *Flow) waitVisible(timeout time.Duration, selectors ...string) bool {
	deadline := f.clock.Now().Add(timeout)
	for {
		if f.page.FindVisible(selectors...) {
			return true
		}
		if f.clock.Now().After(deadline) {
			return false
		}
		f.clock.Sleep(f.cfg.PollInterval)
	}
}

func (f *Flow) challengeShown() bool {
	for _, phrase := range challengePhrases {
		if f.page.BodyContains(phrase) {
			return f.page.FindVisible(identifierSelectors...)
		}
	}
	return false
}

func (f *Flow) loggedIn() bool {
	if loggedInURLRe.MatchString(f.page.URL()) {
		return true
	}
	return f.page.HasAny(loggedInSelectors...)
}

// failureReason derives a human-readable reason from the page: explicit
// alerts first, then known failure phrases, then a generic fallback.
func (f *Flow) failureReason() string {
	var parts []string
	for _, t := range f.page.AlertTexts() {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " | ")
	}
	for _, phrase := range failurePhrases {
		if f.page.BodyContains(phrase) {
			return phrase
		}
	}
	return "Unknown login error"
}

func answerKind(creds Credentials) string {
	if creds.Username != "" {
		return "username"
	}
	return "email"
}
