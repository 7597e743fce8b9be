package imdb

import (
	"strings"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/castcrawl/internal/markup"
	"github.com/nao1215/castcrawl/internal/model"
)

const (
	// DefaultBaseURL is the origin performer links are resolved against.
	DefaultBaseURL = "https://imdb.com"

	// DefaultSeedURL is the title the imdb_spider starts from.
	DefaultSeedURL = "https://www.imdb.com/title/tt0106145/"

	// CreditsSuffix is appended to a title URL to reach its cast and crew page.
	CreditsSuffix = "fullcredits"

	// ActorCategory is the filmography row category for acting credits.
	ActorCategory = "actor"

	// categorySeparator splits a row id such as "actor-tt0106145".
	categorySeparator = "-"
)

// Selectors used on IMDb pages.
const (
	castLinkSelector    = "td.primary_photo a"
	filmoRowSelector    = "div.filmo-row"
	filmoTitleSelector  = "b a"
	filmoTitleFallback  = ".//b"
	nameOverviewSection = "#name-overview-widget"
)

// nameSelectors are tried in order under the name overview section.
var nameSelectors = []string{
	"h1 span.itemprop",
	"h1 span",
}

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// CreditsURL returns the full-credits URL for a title page URL.
// The suffix is appended verbatim; the title URL is expected to end in "/".
func CreditsURL(titleURL string) string {
	return titleURL + CreditsSuffix
}

// CastLinks returns the absolute performer page URL of every cast entry on a
// full-credits page, in document order. Relative hrefs are resolved against
// baseURL. A page without cast entries yields an empty slice.
func CastLinks(doc *markup.Document, baseURL string) []string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	anchors := doc.All(castLinkSelector)
	links := make([]string, 0, len(anchors))
	for _, a := range anchors {
		href, ok := a.Attr("href")
		if !ok {
			continue
		}
		href = strings.TrimSpace(href)
		if href == "" {
			continue
		}
		u, err := urlParser.ParseRef(baseURL, href)
		if err != nil {
			continue
		}
		links = append(links, u.Href(false))
	}
	return links
}

// Filmography extracts the performer name and acting-credit titles from a
// performer page. Rows are kept when the first segment of their id matches
// one of categories; nil or empty categories means ActorCategory.
func Filmography(doc *markup.Document, pageURL string, categories []string) model.Performer {
	if len(categories) == 0 {
		categories = []string{ActorCategory}
	}

	p := model.Performer{
		Name: PerformerName(doc, pageURL),
		URL:  pageURL,
	}

	for _, row := range doc.All(filmoRowSelector) {
		if !isCredited(row, categories) {
			continue
		}
		title, ok := rowTitle(row)
		if !ok {
			continue
		}
		p.Works = append(p.Works, title)
	}
	return p
}

// PerformerName returns the display name from the name overview section,
// or pageURL when the page has none.
func PerformerName(doc *markup.Document, pageURL string) string {
	section, ok := doc.First(nameOverviewSection)
	if !ok {
		return pageURL
	}
	for _, sel := range nameSelectors {
		n, ok := section.First(sel)
		if !ok {
			continue
		}
		if name, ok := n.Text(); ok {
			return clean(name)
		}
	}
	return pageURL
}

// RowCategory returns the credit category of a filmography row id,
// e.g. "actor" for "actor-tt0106145". ok is false for an empty id.
func RowCategory(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	category, _, _ := strings.Cut(id, categorySeparator)
	if category == "" {
		return "", false
	}
	return category, true
}

func isCredited(row markup.Node, categories []string) bool {
	id, ok := row.Attr("id")
	if !ok {
		return false
	}
	category, ok := RowCategory(id)
	if !ok {
		return false
	}
	for _, c := range categories {
		if category == c {
			return true
		}
	}
	return false
}

func rowTitle(row markup.Node) (string, bool) {
	if a, ok := row.First(filmoTitleSelector); ok {
		if title, ok := a.Text(); ok {
			return clean(title), true
		}
	}
	if b, ok := row.XPathFirst(filmoTitleFallback); ok {
		if title, ok := b.Text(); ok {
			return clean(title), true
		}
	}
	return "", false
}

func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
