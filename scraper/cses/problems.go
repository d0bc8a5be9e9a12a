package cses

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cses-tracker/models"
	"cses-tracker/utils"
)

// ErrNoProblems is returned when the problem list renders but yields no
// records at all — a sanity check against silently persisting an empty
// snapshot.
var ErrNoProblems = errors.New("no problems found on the page")

// ExtractProblems renders the problem list page in the given session and
// parses it into solved/unsolved records grouped by section.
func ExtractProblems(d Driver, pacer utils.Pacer, logger *utils.Logger) (*models.ProblemSet, error) {
	if err := d.Navigate(problemListURL); err != nil {
		return nil, fmt.Errorf("open problem list: %w", err)
	}
	pacer.Pause(3*time.Second, 5*time.Second)

	if err := d.WaitVisible(".task-list"); err != nil {
		return nil, fmt.Errorf("problem list never rendered: %w", err)
	}

	html, err := d.PageHTML()
	if err != nil {
		return nil, fmt.Errorf("capture problem list: %w", err)
	}

	set, err := ParseProblemList(html, logger)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, ErrNoProblems
	}
	return set, nil
}

// ParseProblemList parses rendered problem-list markup. One malformed
// section or entry is logged and skipped; it never aborts the remaining
// extraction.
func ParseProblemList(html string, logger *utils.Logger) (*models.ProblemSet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse problem list: %w", err)
	}

	set := &models.ProblemSet{}

	doc.Find(".task-list").Each(func(i int, list *goquery.Selection) {
		heading := list.Find("h2")
		if heading.Length() == 0 {
			logger.Warn("Skipping task list %d: no section heading", i)
			return
		}
		section := strings.TrimSpace(heading.First().Text())

		list.Find(".task").Each(func(j int, task *goquery.Selection) {
			anchor := task.Find("a").First()
			if anchor.Length() == 0 {
				logger.Warn("Skipping entry %d in %q: no anchor", j, section)
				return
			}

			href, _ := anchor.Attr("href")
			record := &models.ProblemRecord{
				Name:    strings.TrimSpace(anchor.Text()),
				Link:    absoluteLink(href),
				Section: section,
				Solved:  isSolved(task),
			}

			if record.Solved {
				set.Solved = append(set.Solved, record)
			} else {
				set.Unsolved = append(set.Unsolved, record)
			}
		})
	})

	return set, nil
}

// isSolved reports whether the entry's class attribute carries a "full"
// marker token, which is how CSES flags a fully solved problem.
func isSolved(task *goquery.Selection) bool {
	cls, _ := task.Attr("class")
	for _, token := range strings.Fields(cls) {
		if strings.Contains(token, "full") {
			return true
		}
	}
	return false
}

// absoluteLink resolves site-relative hrefs the way a browser address bar
// would, so persisted links work outside the scrape session.
func absoluteLink(href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		return siteBase + "/" + href
	}
	return siteBase + href
}
