package pages

import (
	"context"
	"fmt"
	"net/url"
	"time"
	"wiki-ui-suite/internal/dates"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/internal/extract"
	"wiki-ui-suite/internal/ports"
	"wiki-ui-suite/pkg/apperr"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var (
	dateHeader       = entity.CSS("[role='heading'] [class='summary']")
	eventsByMonthBox = entity.CSS("[aria-labelledby='Events_by_month']")
	yearArchives     = entity.CSS("[aria-labelledby='Events_by_month'] .hlist dl")
)

// CurrentEvents is the current events portal, one section per day plus the monthly
// archive links at the bottom.
type CurrentEvents struct {
	*Base
}

func NewCurrentEvents(env Env) *CurrentEvents {
	return &CurrentEvents{Base: newBase(env, "CurrentEventsPage")}
}

func (c *CurrentEvents) FirstArchivedYear() int {
	return dates.FirstArchivedYear
}

func (c *CurrentEvents) FirstArchivedMonth() time.Month {
	return dates.FirstArchivedMonth
}

// ArchiveLinksByYear returns one element per archived year, newest first.
func (c *CurrentEvents) ArchiveLinksByYear(ctx context.Context) ([]ports.Element, error) {
	return c.driver.FindAll(ctx, yearArchives)
}

// ParseArchiveLinks lists the anchors inside one year block with absolute hrefs.
func (c *CurrentEvents) ParseArchiveLinks(ctx context.Context, year ports.Element) ([]entity.ArchiveLink, error) {
	html, err := year.HTML(ctx)
	if err != nil {
		return nil, err
	}

	current, err := c.driver.CurrentURL(ctx)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(current)
	if err != nil {
		return nil, apperr.InvalidReqError("ParseArchiveLinks", "current_url", err)
	}

	return extract.ArchiveLinks(html, base)
}

// ClickArchivedMonth opens the archive of month (full English name) in year through
// the links at the bottom of the page.
func (c *CurrentEvents) ClickArchivedMonth(ctx context.Context, month string, year int) (err error) {
	ctx, step, logger := c.start(ctx, "ClickArchivedMonth", attribute.String("month", month), attribute.Int("year", year))
	defer func() {
		step.End(err)
	}()

	box, err := c.driver.Find(ctx, eventsByMonthBox)
	if err != nil {
		return err
	}

	link, err := box.Find(ctx, entity.CSS(fmt.Sprintf("a[href*='%s_%d']", month, year)))
	if err != nil {
		return err
	}

	if err := link.Hover(ctx); err != nil {
		return err
	}

	logger.Debug("Opening archived month", zap.String("month", month), zap.Int("year", year))

	return c.ClickLink(ctx, link)
}

// DateHeaders returns the text of every day heading in page order.
func (c *CurrentEvents) DateHeaders(ctx context.Context) ([]string, error) {
	els, err := c.driver.FindAll(ctx, dateHeader)
	if err != nil {
		return nil, err
	}

	return texts(ctx, els)
}

func (c *CurrentEvents) ParseDateHeader(text string) (entity.ParsedDate, error) {
	return dates.ParseHeader(text)
}
