package services

import "fmt"

// ErrCredentialsNotFound indicates no credentials are configured for the
// requested user index. Reported before any session is opened.
type ErrCredentialsNotFound struct {
	Index int
}

func (e ErrCredentialsNotFound) Error() string {
	return fmt.Sprintf("user %d credentials not found", e.Index)
}

// ErrLoginFailed indicates the site rejected the handshake.
type ErrLoginFailed struct {
	Reason string
}

func (e ErrLoginFailed) Error() string {
	return e.Reason
}

// ErrExtractionFailed indicates the problem list could not be extracted,
// including the wholly-empty-result sanity check.
type ErrExtractionFailed struct {
	Err error
}

func (e ErrExtractionFailed) Error() string {
	return fmt.Sprintf("scraping error: %v", e.Err)
}

func (e ErrExtractionFailed) Unwrap() error {
	return e.Err
}

// ErrSessionFailed indicates the browser session could not be opened.
type ErrSessionFailed struct {
	Err error
}

func (e ErrSessionFailed) Error() string {
	return fmt.Sprintf("browser session error: %v", e.Err)
}

func (e ErrSessionFailed) Unwrap() error {
	return e.Err
}
