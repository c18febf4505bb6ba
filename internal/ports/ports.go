package ports

import (
	"context"
	"wiki-ui-suite/internal/entity"
)

// Driver is the browser capability set page objects are written against.
// Find returns an apperr not_found error when the locator matches nothing.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Find(ctx context.Context, locator entity.Locator) (Element, error)
	FindAll(ctx context.Context, locator entity.Locator) ([]Element, error)
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
}

// Element is a handle to a located DOM node. Any method may fail with an apperr
// stale_element error once the node has been replaced.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	HTML(ctx context.Context) (string, error)
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	Submit(ctx context.Context) error
	Hover(ctx context.Context) error
	Find(ctx context.Context, locator entity.Locator) (Element, error)
	FindAll(ctx context.Context, locator entity.Locator) ([]Element, error)
}

// Session is one browser window owned by a single test case.
type Session interface {
	Driver
	Close(ctx context.Context) error
}

type SessionFactory interface {
	Launch(ctx context.Context) error
	NewSession(ctx context.Context) (Session, error)
	Close(ctx context.Context) error
	IsReady() bool
}
