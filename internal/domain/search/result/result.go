package result

import (
	"github.com/kailas-cloud/talentdex/internal/domain/record"
	"github.com/kailas-cloud/talentdex/internal/domain/search/tier"
)

// Page is one page of search results.
type Page struct {
	items    []record.Ranked
	total    int
	page     int
	pageSize int
	tier     tier.Tier
	degraded bool
}

// New creates a result page.
func New(items []record.Ranked, total, page, pageSize int, t tier.Tier) Page {
	return Page{items: items, total: total, page: page, pageSize: pageSize, tier: t}
}

// Empty creates a page with no results.
func Empty(page, pageSize int, t tier.Tier) Page {
	return Page{items: []record.Ranked{}, page: page, pageSize: pageSize, tier: t}
}

// Degrade returns a copy flagged as degraded (e.g. the request timed out).
func (p Page) Degrade() Page {
	p.degraded = true
	return p
}

// Items returns the ranked records on this page.
func (p *Page) Items() []record.Ranked { return p.items }

// Total returns the number of matching records across all pages.
func (p *Page) Total() int { return p.total }

// Page returns the 1-based page number.
func (p *Page) Page() int { return p.page }

// PageSize returns the page size.
func (p *Page) PageSize() int { return p.pageSize }

// TotalPages returns ceil(total / pageSize).
func (p *Page) TotalPages() int {
	if p.pageSize <= 0 || p.total <= 0 {
		return 0
	}
	return (p.total + p.pageSize - 1) / p.pageSize
}

// Tier returns the strategy that produced the page.
func (p *Page) Tier() tier.Tier { return p.tier }

// Degraded reports whether the page is a fallback after a failure.
func (p *Page) Degraded() bool { return p.degraded }
