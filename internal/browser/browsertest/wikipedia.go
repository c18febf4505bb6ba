package browsertest

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	HomeURL          = "https://wikipedia.org"
	MainPageURL      = "https://en.wikipedia.org/wiki/Main_Page"
	CurrentEventsURL = "https://en.wikipedia.org/wiki/Portal:Current_events"

	archivePrefix = "https://en.wikipedia.org/wiki/Portal:Current_events/"
	articlePrefix = "https://en.wikipedia.org/wiki/"
)

// WikiArticle is an article served by the Wikipedia fixture.
type WikiArticle struct {
	Title    string
	Infobox  [][2]string
	Sections []string
}

// WikiArticles are the articles the fixture knows, reachable by search or by URL.
var WikiArticles = []WikiArticle{
	{
		Title:    "Buster Keaton",
		Infobox:  [][2]string{{"Born", "Joseph Frank Keaton October 4, 1895"}, {"Occupation", "Actor, comedian, filmmaker"}},
		Sections: []string{"Early life", "Film career", "Legacy"},
	},
	{
		Title:    "Disneyland",
		Infobox:  [][2]string{{"Location", "Anaheim, California"}, {"Opened", "July 17, 1955"}},
		Sections: []string{"History", "Attractions"},
	},
	{
		Title:    "Peru",
		Infobox:  [][2]string{{"Capital and largest city", "Lima 12°2.6′S 77°1.7′W"}, {"Official languages", "Spanish"}, {"Currency", "Sol (PEN)"}},
		Sections: []string{"Etymology", "History", "Geography"},
	},
	{
		Title:    "Oxygen",
		Infobox:  [][2]string{{"Phase at STP", "gas"}, {"Standard atomic weight Ar°(O)", "[15.99903, 15.99977] 15.999±0.001 (abridged)"}},
		Sections: []string{"History of study", "Characteristics"},
	},
	{
		Title:    "Charlie Chaplin",
		Infobox:  [][2]string{{"Born", "Charles Spencer Chaplin 16 April 1889 London, England"}, {"Relatives", "Chaplin family"}},
		Sections: []string{"Biography", "Filmmaking"},
	},
	{
		Title:    "North by Northwest",
		Infobox:  [][2]string{{"Directed by", "Alfred Hitchcock"}, {"Starring", "Cary Grant Eva Marie Saint James Mason"}},
		Sections: []string{"Plot", "Cast"},
	},
	{
		Title:    "April Fools' Day",
		Infobox:  [][2]string{{"Significance", "Practical jokes, hoaxes, pranks"}, {"Frequency", "Annual"}},
		Sections: []string{"Origins", "Long-standing customs"},
	},
	{
		Title:    "Rocky Raccoon",
		Infobox:  [][2]string{{"Recorded", "15 August 1968"}, {"Songwriter(s)", "Lennon–McCartney"}},
		Sections: []string{"Background", "Personnel"},
	},
	{
		Title:    "Douglas Adams",
		Infobox:  [][2]string{{"Born", "Douglas Noel Adams 11 March 1952"}},
		Sections: []string{"Early life", "Career", "Personal beliefs and activism", "Death and legacy", "References"},
	},
}

// searchAliases are redirects the search box resolves besides case-insensitive titles.
var searchAliases = map[string]string{
	"april fool's day": "April Fools' Day",
}

type wikiSuggestion struct {
	title   string
	summary string
}

var wikiSuggestions = []wikiSuggestion{
	{"Bust", "Sculpture of the upper body"},
	{"Buster Keaton", "American actor and filmmaker (1895–1966)"},
	{"Busta Rhymes", "American rapper"},
	{"Buster Posey", "American baseball player"},
	{"Bustamante", "Topics referred to by the same term"},
	{"Doubt", "Mental state"},
	{"Doug Ford", "Premier of Ontario"},
	{"Douglas Adams", "English author (1952–2001)"},
	{"Douglas MacArthur", "American general (1880–1964)"},
	{"Douglas fir", "Species of conifer"},
	{"Disneyland", "Theme park in Anaheim, California"},
	{"Peru", "Country in South America"},
	{"Oxygen", "Chemical element with atomic number 8"},
	{"Charlie Chaplin", "English comic actor (1889–1977)"},
	{"North by Northwest", "1959 film by Alfred Hitchcock"},
	{"Rocky Raccoon", "1968 song by the Beatles"},
}

const maxSuggestions = 6

type wikiEdition struct {
	url      string
	language string
	title    string
	body     string
}

var wikiEditions = []wikiEdition{
	{"https://en.wikipedia.org/", "English — Wikipedia — The Free Encyclopedia", "Wikipedia, the free encyclopedia",
		`<div id="mp-welcome">Welcome to Wikipedia,</div><div id="articlecount">the free encyclopedia that anyone can edit.</div>`},
	{"https://fr.wikipedia.org/", "Français — Wikipédia — L’encyclopédie libre", "Wikipédia, l'encyclopédie libre",
		`<div>Bienvenue sur Wikipédia</div><div>L'encyclopédie libre que chacun peut améliorer.</div>`},
	{"https://de.wikipedia.org/", "Deutsch — Wikipedia — Die freie Enzyklopädie", "Wikipedia – Die freie Enzyklopädie",
		`<p>Wikipedia ist ein Projekt zum Aufbau einer Enzyklopädie aus freien Inhalten, zu dem du mit deinem Wissen beitragen kannst.</p>`},
	{"https://es.wikipedia.org/", "Español — Wikipedia — La enciclopedia libre", "Wikipedia, la enciclopedia libre",
		`<div>Bienvenidos a Wikipedia,</div><div>la enciclopedia de contenido libre</div><div>que todos pueden editar.</div>`},
}

// NewWikipedia builds a Site mimicking the parts of Wikipedia the suite visits, with
// the current events portal and its archives laid out as of now.
func NewWikipedia(now time.Time) *Site {
	site := NewSite()

	site.Add(HomeURL, homePage())
	site.Add(MainPageURL, mainPage())
	site.Add(CurrentEventsURL, currentEventsPage(now))

	for _, e := range wikiEditions {
		if e.url == "https://en.wikipedia.org/" {
			site.Add(e.url, mainPage())

			continue
		}

		site.Add(e.url, &Page{Title: e.title, HTML: document(e.title, `<div id="content">`+e.body+`</div>`)})
	}

	for _, a := range WikiArticles {
		site.Add(ArticleURL(a.Title), articlePage(a))
	}

	site.Fallback = func(rawURL string) *Page {
		return archivePage(rawURL, now)
	}

	return site
}

func ArticleURL(title string) string {
	return articlePrefix + strings.ReplaceAll(title, " ", "_")
}

func resolveSearch(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if alias, ok := searchAliases[q]; ok {
		return ArticleURL(alias)
	}

	for _, a := range WikiArticles {
		if strings.ToLower(a.Title) == q {
			return ArticleURL(a.Title)
		}
	}

	return ""
}

func matchingSuggestions(prefix string) []wikiSuggestion {
	p := strings.ToLower(prefix)

	var out []wikiSuggestion

	for _, s := range wikiSuggestions {
		if strings.HasPrefix(strings.ToLower(s.title), p) {
			out = append(out, s)
		}

		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}

func document(title, body string) string {
	return "<!DOCTYPE html><html><head><title>" + html.EscapeString(title) + "</title></head><body>" + body + "</body></html>"
}

func homePage() *Page {
	var b strings.Builder

	b.WriteString(`<div class="central-textlogo"><h1>Wikipedia</h1><strong>The Free Encyclopedia</strong></div>`)
	b.WriteString(`<nav data-el-section="primary links">`)

	for _, e := range wikiEditions {
		host := strings.TrimPrefix(e.url, "https:")
		fmt.Fprintf(&b, `<div class="central-featured-lang"><a href="%s" title="%s"><strong>%s</strong></a></div>`,
			host, html.EscapeString(e.language), html.EscapeString(strings.SplitN(e.language, " ", 2)[0]))
	}

	b.WriteString(`</nav>`)
	b.WriteString(`<form id="search-form" action="//www.wikipedia.org/search-redirect.php">`)
	b.WriteString(`<input id="searchInput" name="search" type="search" autocomplete="off">`)
	b.WriteString(`<div id="typeahead-suggestions"></div>`)
	b.WriteString(`<button class="pure-button" type="submit">Search</button>`)
	b.WriteString(`</form>`)

	return &Page{
		Title:      "Wikipedia",
		HTML:       document("Wikipedia", b.String()),
		OnInput:    homeTypeahead,
		InputDelay: 20 * time.Millisecond,
		OnSubmit:   submitSearch,
	}
}

func homeTypeahead(value string) (string, string) {
	var b strings.Builder

	b.WriteString(`<div class="suggestions-dropdown">`)

	for _, s := range matchingSuggestions(value) {
		fmt.Fprintf(&b, `<a class="suggestion-link" href="%s"><div class="suggestion-text"><h3 class="suggestion-title">%s</h3><p class="suggestion-description">%s</p></div></a>`,
			ArticleURL(s.title), html.EscapeString(s.title), html.EscapeString(s.summary))
	}

	b.WriteString(`</div>`)

	return "#typeahead-suggestions", b.String()
}

func headerSuggestions(value string) (string, string) {
	var b strings.Builder

	for _, s := range matchingSuggestions(value) {
		rest := s.title[min(len(value), len(s.title)):]
		fmt.Fprintf(&b, `<a href="%s" title="%s" class="mw-searchSuggest-link"><div class="suggestions-result"><span class="highlight">%s</span>%s</div></a>`,
			ArticleURL(s.title), html.EscapeString(s.title), html.EscapeString(s.title[:len(s.title)-len(rest)]), html.EscapeString(rest))
	}

	return ".suggestions-results", b.String()
}

func submitSearch(values url.Values) string {
	return resolveSearch(values.Get("search"))
}

// layout is the sidebar and header shared by every en.wikipedia.org page.
func layout(content string) string {
	return `<div id="mw-head"><form id="searchform" action="/w/index.php">` +
		`<input type="search" name="search" id="searchInput" autocomplete="off">` +
		`<input type="hidden" name="title" value="Special:Search">` +
		`<input type="submit" name="go" value="Go" id="searchButton">` +
		`</form></div>` +
		`<div id="mw-panel"><ul>` +
		`<li><a href="/wiki/Main_Page" title="Visit the main page">Main page</a></li>` +
		`<li><a href="/wiki/Portal:Current_events" title="Articles related to current events">Current events</a></li>` +
		`<li><a href="/wiki/Special:Random" title="Visit a randomly selected article">Random article</a></li>` +
		`</ul></div>` +
		`<div id="content">` + content + `</div>` +
		`<div class="suggestions"><div class="suggestions-results"></div></div>`
}

func enPage(title, content string) *Page {
	return &Page{
		Title:      title,
		HTML:       document(title, layout(content)),
		OnInput:    headerSuggestions,
		InputDelay: 20 * time.Millisecond,
		OnSubmit:   submitSearch,
	}
}

func mainPage() *Page {
	return enPage("Wikipedia, the free encyclopedia",
		`<div id="mp-topbanner"><div id="mp-welcome">Welcome to <a href="/wiki/Wikipedia">Wikipedia</a>,</div>`+
			`<div id="mp-free">the free encyclopedia that anyone can edit.</div>`+
			`<div id="articlecount">6,800,000 articles in English</div></div>`)
}

func articlePage(a WikiArticle) *Page {
	var b strings.Builder

	fmt.Fprintf(&b, `<h1 id="firstHeading" class="firstHeading">%s</h1>`, html.EscapeString(a.Title))
	fmt.Fprintf(&b, `<table class="infobox"><tbody><tr><th colspan="2" class="infobox-above">%s</th></tr>`, html.EscapeString(a.Title))
	fmt.Fprintf(&b, `<tr><td colspan="2" class="infobox-image">%s</td></tr>`, html.EscapeString(a.Title))

	for _, row := range a.Infobox {
		fmt.Fprintf(&b, `<tr><th scope="row" class="infobox-label">%s</th><td class="infobox-data">%s</td></tr>`,
			html.EscapeString(row[0]), html.EscapeString(row[1]))
	}

	b.WriteString(`</tbody></table>`)
	b.WriteString(`<div id="toc" class="toc"><div class="toctitle"><h2>Contents</h2></div><ul>`)

	for i, s := range a.Sections {
		fmt.Fprintf(&b, `<li class="toclevel-1"><a href="#%s"><span class="tocnumber">%d</span> <span class="toctext">%s</span></a></li>`,
			anchor(s), i+1, html.EscapeString(s))
	}

	b.WriteString(`</ul></div>`)

	for _, s := range a.Sections {
		fmt.Fprintf(&b, `<h2><span class="mw-headline" id="%s">%s</span></h2><p>Text about %s.</p>`,
			anchor(s), html.EscapeString(s), html.EscapeString(strings.ToLower(s)))
	}

	return enPage(a.Title+" - Wikipedia", b.String())
}

func anchor(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

func dayHeader(t time.Time) string {
	return fmt.Sprintf(`<div class="current-events-heading" role="heading"><span class="summary">%s %d, %d (%s) (%s)</span></div>`+
		`<div class="current-events-content"><p>Events of the day.</p></div>`,
		t.Month(), t.Day(), t.Year(), t.Format(time.DateOnly), t.Weekday())
}

func currentEventsPage(now time.Time) *Page {
	var b strings.Builder

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for d := today; d.Month() == today.Month() && today.Sub(d) < 7*24*time.Hour; d = d.AddDate(0, 0, -1) {
		b.WriteString(dayHeader(d))
	}

	b.WriteString(archiveBox(now))

	return enPage("Portal:Current events - Wikipedia", b.String())
}

func archiveBox(now time.Time) string {
	var b strings.Builder

	b.WriteString(`<div role="navigation" aria-labelledby="Events_by_month"><h2 id="Events_by_month">Events by month</h2><div class="hlist">`)

	for year := now.Year(); year >= 1994; year-- {
		first, last := time.January, time.December
		if year == 1994 {
			first = time.July
		}

		if year == now.Year() {
			last = now.Month()
		}

		y := strconv.Itoa(year)
		fmt.Fprintf(&b, `<dl><dt><a href="/wiki/%s" title="%s">%s</a></dt><dd><ul>`, y, y, y)

		for m := first; m <= last; m++ {
			fmt.Fprintf(&b, `<li><a href="/wiki/Portal:Current_events/%s_%s" title="Portal:Current events/%s %s">%s</a></li>`,
				m, y, m, y, m)
		}

		b.WriteString(`</ul></dd></dl>`)
	}

	b.WriteString(`</div></div>`)

	return b.String()
}

// archivePage serves Portal:Current_events/<Month>_<Year> with days in ascending order.
func archivePage(rawURL string, now time.Time) *Page {
	name, ok := strings.CutPrefix(rawURL, archivePrefix)
	if !ok {
		return nil
	}

	monthName, yearText, ok := strings.Cut(name, "_")
	if !ok {
		return nil
	}

	year, err := strconv.Atoi(yearText)
	if err != nil {
		return nil
	}

	parsed, err := time.Parse("January 2006", monthName+" "+yearText)
	if err != nil {
		return nil
	}

	first := time.Date(year, parsed.Month(), 1, 0, 0, 0, 0, time.UTC)
	if first.After(now) || first.Before(time.Date(1994, time.July, 1, 0, 0, 0, 0, time.UTC)) {
		return nil
	}

	var b strings.Builder

	for d := first; d.Month() == first.Month() && !d.After(now); d = d.AddDate(0, 0, 1) {
		b.WriteString(dayHeader(d))
	}

	b.WriteString(archiveBox(now))

	title := fmt.Sprintf("Portal:Current events/%s %d - Wikipedia", parsed.Month(), year)

	return enPage(title, b.String())
}
