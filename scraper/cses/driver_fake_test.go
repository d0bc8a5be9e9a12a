package cses

import "errors"

// fakeDriver is a synthetic Driver for exercising the login and
// extraction flows without a browser.
type fakeDriver struct {
	title string
	html  string

	navErr   error
	waitErr  error
	clickErr error
	titleErr error
	htmlErr  error

	navigated []string
	typed     map[string]string
	cleared   []string
	clicked   []string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{typed: make(map[string]string)}
}

func (f *fakeDriver) Navigate(url string) error {
	f.navigated = append(f.navigated, url)
	return f.navErr
}

func (f *fakeDriver) WaitVisible(sel string) error { return f.waitErr }

func (f *fakeDriver) Clear(sel string) error {
	f.cleared = append(f.cleared, sel)
	f.typed[sel] = ""
	return nil
}

func (f *fakeDriver) SendKeys(sel, text string) error {
	f.typed[sel] += text
	return nil
}

func (f *fakeDriver) Click(sel string) error {
	f.clicked = append(f.clicked, sel)
	return f.clickErr
}

func (f *fakeDriver) Title() (string, error) { return f.title, f.titleErr }

func (f *fakeDriver) PageHTML() (string, error) { return f.html, f.htmlErr }

var errBoom = errors.New("boom")
