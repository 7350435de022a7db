package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// fieldStrategy attempts one way of reading a field from the document.
type fieldStrategy func(doc *goquery.Document) (string, bool)

// firstOf tries strategies in order until one yields a non-empty value.
func firstOf(doc *goquery.Document, strategies ...fieldStrategy) (string, error) {
	for _, strategy := range strategies {
		if value, ok := strategy(doc); ok && value != "" {
			return value, nil
		}
	}
	return "", ErrElementNotFound
}

// ParseProfile extracts contact/identity fields from a rendered profile
// page. Each field has its own fallback chain; a missing field degrades to
// its default and never blocks the others, so partial results are valid.
func ParseProfile(html, profileURL, region string) models.BrokerProfile {
	profile := models.BrokerProfile{
		Name:       "Unknown",
		Company:    "Unknown",
		JobTitle:   "Unknown",
		Phone:      "Not Found",
		ProfileURL: profileURL,
		Region:     region,
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return profile
	}

	if name, err := firstOf(doc, headingName); err == nil {
		profile.Name = name
		profile.FirstName, profile.LastName = SplitName(name)
	}

	if company, title, ok := extractPosition(doc); ok {
		profile.Company = company
		profile.JobTitle = title
	}

	if email, err := firstOf(doc, mailtoEmail); err == nil {
		profile.BusinessEmail = email
	}

	if phone, err := firstOf(doc, phoneButton); err == nil {
		profile.Phone = phone
	}

	return profile
}

// ParseJobTitle reads the job title shown directly under the profile
// heading. Returns "" when absent.
func ParseJobTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	title, err := firstOf(doc, func(doc *goquery.Document) (string, bool) {
		text := strings.TrimSpace(doc.Find(jobTitleSelector).First().Text())
		return text, text != ""
	})
	if err != nil {
		return ""
	}
	return stripAtSuffix(title)
}

// SplitName splits a display name on whitespace: first token is the first
// name, last token the last name. Single-token names get an empty last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	first = parts[0]
	if len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return first, last
}

func headingName(doc *goquery.Document) (string, bool) {
	name := strings.TrimSpace(doc.Find("h1").First().Text())
	return name, name != ""
}

// extractPosition reads company and job title from the position caption.
// The primary pattern is an element labelled "position in"; the fallback is
// the caption's strong tag. The company is subtracted textually from the
// full caption to recover the title, dropping a trailing "at" connector.
func extractPosition(doc *goquery.Document) (company, title string, ok bool) {
	strategies := []func(doc *goquery.Document) (string, string, bool){
		func(doc *goquery.Document) (string, string, bool) {
			sel := doc.Find(positionSelector).First()
			if sel.Length() == 0 {
				return "", "", false
			}
			company := strings.TrimSpace(sel.Find("strong").First().Text())
			if company == "" {
				return "", "", false
			}
			return company, titleFromCaption(sel.Text(), company), true
		},
		func(doc *goquery.Document) (string, string, bool) {
			strong := doc.Find(captionFallbackSelector).First()
			if strong.Length() == 0 {
				return "", "", false
			}
			company := strings.TrimSpace(strong.Text())
			if company == "" {
				return "", "", false
			}
			return company, titleFromCaption(strong.Parent().Text(), company), true
		},
	}

	for _, strategy := range strategies {
		if company, title, ok := strategy(doc); ok {
			return company, title, true
		}
	}
	return "", "", false
}

func titleFromCaption(caption, company string) string {
	title := strings.TrimSpace(strings.Replace(caption, company, "", 1))
	return stripAtSuffix(title)
}

// stripAtSuffix removes the dangling "at" connector left behind when the
// company name is cut out of "Managing Director at Acme".
func stripAtSuffix(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(strings.ToLower(s), " at") {
		s = strings.TrimSpace(s[:len(s)-3])
	}
	return s
}

func mailtoEmail(doc *goquery.Document) (string, bool) {
	href, exists := doc.Find(mailtoSelector).First().Attr("href")
	if !exists {
		return "", false
	}
	email := strings.TrimPrefix(href, "mailto:")
	if i := strings.Index(email, "?"); i >= 0 {
		email = email[:i]
	}
	return email, email != ""
}

func phoneButton(doc *goquery.Document) (string, bool) {
	icon := doc.Find(phoneIconSelector).First()
	if icon.Length() == 0 {
		return "", false
	}
	button := icon.ParentsFiltered("button").First()
	if button.Length() == 0 {
		return "", false
	}
	phone := strings.TrimSpace(button.Text())
	return phone, phone != ""
}
