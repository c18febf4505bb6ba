// Package browsertest provides an in-memory browser for exercising page objects
// without launching a real engine. Pages are static HTML parsed with goquery; links,
// form submissions and typed input can change the document, optionally after a delay,
// and elements read across such a change fail with stale_element errors just like a
// real WebDriver session.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/extract"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/pkg/apperr"

	"github.com/PuerkitoBio/goquery"
)

// Page is one document served by a Site.
type Page struct {
	Title string
	HTML  string

	// OnInput runs after keys are typed into an input. It returns a selector and the
	// new inner HTML for the matched nodes; an empty selector leaves the page alone.
	OnInput func(value string) (selector, html string)
	// InputDelay postpones the OnInput update, like an autosuggest round trip.
	InputDelay time.Duration

	// OnSubmit maps a submitted form to the URL to load next.
	OnSubmit func(values url.Values) string
}

type Site struct {
	mu    sync.Mutex
	pages map[string]*Page

	// NavigationDelay postpones page loads triggered by clicks and submits.
	NavigationDelay time.Duration
	// Fallback serves URLs that were not added explicitly; nil means no page.
	Fallback func(rawURL string) *Page
}

func NewSite() *Site {
	return &Site{pages: make(map[string]*Page)}
}

func (s *Site) Add(rawURL string, page *Page) *Site {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages[rawURL] = page

	return s
}

func (s *Site) page(rawURL string) (*Page, bool) {
	s.mu.Lock()
	p, ok := s.pages[rawURL]
	fallback := s.Fallback
	s.mu.Unlock()

	if !ok && fallback != nil {
		p = fallback(rawURL)
		ok = p != nil
	}

	return p, ok
}

// Factory hands out sessions on a Site; it satisfies ports.SessionFactory.
type Factory struct {
	Site *Site

	mu       sync.Mutex
	ready    bool
	sessions []*Session
}

func (f *Factory) Launch(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ready = true

	return nil
}

func (f *Factory) NewSession(context.Context) (ports.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.ready {
		return nil, apperr.WrapErrorWithReason("NewSession", apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	s := NewSession(f.Site)
	f.sessions = append(f.sessions, s)

	return s, nil
}

func (f *Factory) Close(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ready = false

	return nil
}

func (f *Factory) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ready
}

// Sessions returns every session created so far.
func (f *Factory) Sessions() []*Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*Session(nil), f.sessions...)
}

type Session struct {
	site *Site

	mu     sync.Mutex
	url    *url.URL
	page   *Page
	doc    *goquery.Document
	closed bool
	timers []*time.Timer
}

func NewSession(site *Site) *Session {
	return &Session{site: site}
}

func (s *Session) Navigate(_ context.Context, rawURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadLocked(rawURL)
}

func (s *Session) loadLocked(rawURL string) error {
	const op = "Navigate"

	if s.closed {
		return apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "session_closed")
	}

	page, ok := s.site.page(rawURL)
	if !ok {
		return apperr.Wrap(op, apperr.CodeActionFailed, fmt.Errorf("no page at %s", rawURL), map[string]any{
			apperr.MetaURL: rawURL,
		})
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return apperr.InvalidReqError(op, "url", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, nil)
	}

	s.url, s.page, s.doc = u, page, doc

	return nil
}

// later runs fn under the session lock after d, or immediately when d is zero.
func (s *Session) laterLocked(d time.Duration, fn func()) {
	if d <= 0 {
		fn()

		return
	}

	s.timers = append(s.timers, time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if !s.closed {
			fn()
		}
	}))
}

func (s *Session) navigateLaterLocked(rawURL string) {
	s.laterLocked(s.site.NavigationDelay, func() {
		_ = s.loadLocked(rawURL)
	})
}

func (s *Session) Find(ctx context.Context, locator entity.Locator) (ports.Element, error) {
	els, err := s.FindAll(ctx, locator)
	if err != nil {
		return nil, err
	}

	if len(els) == 0 {
		return nil, apperr.NotFoundError("Find", fmt.Errorf("%w: %s", apperr.ErrNotFound, locator))
	}

	return els[0], nil
}

func (s *Session) FindAll(_ context.Context, locator entity.Locator) ([]ports.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, nil
	}

	return s.findLocked(s.doc.Selection, locator)
}

func (s *Session) findLocked(root *goquery.Selection, locator entity.Locator) ([]ports.Element, error) {
	css, err := cssFor(locator)
	if err != nil {
		return nil, err
	}

	var els []ports.Element

	root.Find(css).Each(func(_ int, sel *goquery.Selection) {
		els = append(els, &Element{session: s, sel: sel, locator: locator})
	})

	return els, nil
}

func (s *Session) CurrentURL(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.url == nil {
		return "about:blank", nil
	}

	return s.url.String(), nil
}

func (s *Session) Title(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page == nil {
		return "", nil
	}

	return s.page.Title, nil
}

func (s *Session) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	for _, t := range s.timers {
		t.Stop()
	}

	return nil
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

func cssFor(l entity.Locator) (string, error) {
	switch l.By {
	case entity.ByID:
		return "[id=" + strconv.Quote(l.Value) + "]", nil
	case entity.ByCSS, entity.ByTagName:
		return l.Value, nil
	case entity.ByClassName:
		return "." + l.Value, nil
	case entity.ByPartialLinkText:
		return "a:contains(" + strconv.Quote(l.Value) + ")", nil
	default:
		return "", apperr.Wrap("browsertest", apperr.CodeUnsupported, fmt.Errorf("locator %s is not supported", l), nil)
	}
}

// Element is a node of the session's current document.
type Element struct {
	session *Session
	sel     *goquery.Selection
	locator entity.Locator
}

// attachedLocked reports whether the node still hangs off the live document root.
func (e *Element) attachedLocked() bool {
	if e.session.doc == nil || len(e.sel.Nodes) == 0 || e.session.closed {
		return false
	}

	root := e.session.doc.Nodes[0]

	for n := e.sel.Nodes[0]; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}

	return false
}

func (e *Element) checkLocked(op string) error {
	if !e.attachedLocked() {
		return apperr.StaleError(op, fmt.Errorf("%w: %s", apperr.ErrStaleElement, e.locator))
	}

	return nil
}

func (e *Element) Text(context.Context) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.Text"); err != nil {
		return "", err
	}

	return extract.RenderText(e.sel), nil
}

// Attribute resolves href and src against the page URL, as the DOM properties do.
func (e *Element) Attribute(_ context.Context, name string) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.Attribute"); err != nil {
		return "", err
	}

	if name == "value" {
		v, _ := e.sel.Attr("value")

		return v, nil
	}

	v, ok := e.sel.Attr(name)
	if !ok {
		return "", nil
	}

	if (name == "href" || name == "src") && e.session.url != nil {
		if ref, err := url.Parse(v); err == nil {
			return e.session.url.ResolveReference(ref).String(), nil
		}
	}

	return v, nil
}

func (e *Element) HTML(context.Context) (string, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.HTML"); err != nil {
		return "", err
	}

	return goquery.OuterHtml(e.sel)
}

func (e *Element) Click(context.Context) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.Click"); err != nil {
		return err
	}

	if href, ok := e.sel.Closest("a").Attr("href"); ok {
		ref, err := url.Parse(href)
		if err != nil {
			return apperr.Wrap("element.Click", apperr.CodeActionFailed, err, nil)
		}

		e.session.navigateLaterLocked(e.session.url.ResolveReference(ref).String())

		return nil
	}

	if t, _ := e.sel.Attr("type"); goquery.NodeName(e.sel) == "button" && (t == "" || t == "submit") {
		return e.submitLocked()
	}

	return nil
}

func (e *Element) Submit(context.Context) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.Submit"); err != nil {
		return err
	}

	return e.submitLocked()
}

func (e *Element) submitLocked() error {
	form := e.sel.Closest("form")
	if form.Length() == 0 {
		return apperr.Wrap("element.Submit", apperr.CodeActionFailed, fmt.Errorf("%s is not inside a form", e.locator), nil)
	}

	page := e.session.page
	if page.OnSubmit == nil {
		return nil
	}

	values := url.Values{}

	form.Find("input[name]").Each(func(_ int, in *goquery.Selection) {
		name, _ := in.Attr("name")
		v, _ := in.Attr("value")
		values.Add(name, v)
	})

	if next := page.OnSubmit(values); next != "" {
		e.session.navigateLaterLocked(next)
	}

	return nil
}

func (e *Element) SendKeys(_ context.Context, text string) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.SendKeys"); err != nil {
		return err
	}

	typed := strings.NewReplacer(entity.KeyReturn, "", entity.KeyEnter, "").Replace(text)
	submit := typed != text

	value, _ := e.sel.Attr("value")
	value += typed
	e.sel.SetAttr("value", value)

	if page := e.session.page; page.OnInput != nil && typed != "" {
		e.session.laterLocked(page.InputDelay, func() {
			if selector, inner := page.OnInput(value); selector != "" && e.session.page == page {
				e.session.doc.Find(selector).SetHtml(inner)
			}
		})
	}

	if submit {
		return e.submitLocked()
	}

	return nil
}

func (e *Element) Hover(context.Context) error {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	return e.checkLocked("element.Hover")
}

func (e *Element) Find(ctx context.Context, locator entity.Locator) (ports.Element, error) {
	els, err := e.FindAll(ctx, locator)
	if err != nil {
		return nil, err
	}

	if len(els) == 0 {
		return nil, apperr.NotFoundError("element.Find", fmt.Errorf("%w: %s within %s", apperr.ErrNotFound, locator, e.locator))
	}

	return els[0], nil
}

func (e *Element) FindAll(_ context.Context, locator entity.Locator) ([]ports.Element, error) {
	e.session.mu.Lock()
	defer e.session.mu.Unlock()

	if err := e.checkLocked("element.FindAll"); err != nil {
		return nil, err
	}

	return e.session.findLocked(e.sel, locator)
}
