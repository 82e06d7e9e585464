package pagination

import (
	"net/url"
	"strconv"

	"deskwise.io/infra/dwerr"
)

// DefaultPerPage is the default number of records requested per page
const DefaultPerPage = 30

// MaxPerPage is the upstream API's hard per-page ceiling
const MaxPerPage = 100

// DefaultMaxPages is the default safety ceiling on a sweep
const DefaultMaxPages = 20

// Paginator represents a configured paginator, based on a set of Options and
// defaults derived from those options. The upstream ITSM API pages by number,
// so the paginator tracks a current page rather than a cursor.
type Paginator struct {
	page     int      // current page, starting at 1
	perPage  int      // set via PerPage option or defaulted to DefaultPerPage
	maxPages int      // set via MaxPages option or defaulted to DefaultMaxPages
	options  []Option // collection of options used to produce the Paginator
}

// ApplyOptions initializes and validates a Paginator from a series of Option objects
func ApplyOptions(options ...Option) (*Paginator, error) {
	p := Paginator{
		page:    1,
		options: options,
	}

	for _, option := range options {
		option.apply(&p)
	}

	if p.perPage == 0 {
		p.perPage = DefaultPerPage
	}
	if p.maxPages == 0 {
		p.maxPages = DefaultMaxPages
	}

	if err := p.Validate(); err != nil {
		return nil, dwerr.Wrap(err)
	}

	return &p, nil
}

// AdvancePage moves the paginator to the next page number. True is returned
// if the new page is still within the configured ceiling.
func (p *Paginator) AdvancePage() bool {
	p.page++
	return p.page <= p.maxPages
}

// GetPage returns the current page number
func (p Paginator) GetPage() int {
	return p.page
}

// GetPerPage returns the configured page size
func (p Paginator) GetPerPage() int {
	return p.perPage
}

// GetMaxPages returns the configured page ceiling
func (p Paginator) GetMaxPages() int {
	return p.maxPages
}

// GetOptions returns the underlying options used to initialize the paginator
func (p Paginator) GetOptions() []Option {
	return p.options
}

// Query converts the paginator settings into HTTP GET query parameters.
func (p Paginator) Query() url.Values {
	query := url.Values{}

	query.Add("page", strconv.Itoa(p.page))
	query.Add("per_page", strconv.Itoa(p.perPage))

	return query
}

// Validate implements the Validatable interface for the Paginator type
func (p Paginator) Validate() error {
	if p.page <= 0 {
		return dwerr.Errorf("page '%d' must be greater than zero", p.page)
	}

	if p.perPage <= 0 {
		return dwerr.Errorf("per_page '%d' must be greater than zero", p.perPage)
	}

	if p.perPage > MaxPerPage {
		return dwerr.Errorf("per_page '%d' cannot be greater than '%d'", p.perPage, MaxPerPage)
	}

	if p.maxPages <= 0 {
		return dwerr.Errorf("max pages '%d' must be greater than zero", p.maxPages)
	}

	return nil
}
