package cses

import (
	"fmt"
	"strings"
	"time"

	"cses-tracker/utils"
)

const (
	usernameField = `input[name="nick"]`
	passwordField = `input[name="pass"]`
	submitButton  = `input[type="submit"]`
)

// Login drives the CSES login form: navigate, type credentials with
// randomized pacing, submit, then inspect the resulting title. Every
// failure is converted into an (ok=false, message) result — the handshake
// never surfaces an error to the caller.
func Login(d Driver, pacer utils.Pacer, username, password string) (bool, string) {
	if err := d.Navigate(loginURL); err != nil {
		return false, fmt.Sprintf("Login error: %v", err)
	}
	pacer.Pause(2*time.Second, 4*time.Second)

	if err := typeField(d, usernameField, username); err != nil {
		return false, fmt.Sprintf("Login error: %v", err)
	}
	pacer.Pause(1*time.Second, 2*time.Second)

	if err := typeField(d, passwordField, password); err != nil {
		return false, fmt.Sprintf("Login error: %v", err)
	}
	pacer.Pause(1*time.Second, 2*time.Second)

	if err := d.Click(submitButton); err != nil {
		return false, fmt.Sprintf("Login error: %v", err)
	}
	pacer.Pause(3*time.Second, 5*time.Second)

	title, err := d.Title()
	if err != nil {
		return false, fmt.Sprintf("Login error: %v", err)
	}
	// The login page keeps "Login" in its title; anything else means the
	// site accepted the credentials.
	if strings.Contains(title, "Login") {
		return false, "Login failed. Please check credentials."
	}
	return true, "Login successful"
}

func typeField(d Driver, sel, text string) error {
	if err := d.WaitVisible(sel); err != nil {
		return err
	}
	if err := d.Clear(sel); err != nil {
		return err
	}
	return d.SendKeys(sel, text)
}
