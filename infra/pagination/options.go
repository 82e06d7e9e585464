package pagination

// Option defines a method of passing optional args to paginated List APIs
type Option interface {
	apply(*Paginator)
}

type optFunc func(*Paginator)

func (o optFunc) apply(p *Paginator) {
	o(p)
}

// Page allows the caller to begin a sweep at a specific page number
func Page(page int) Option {
	return optFunc(func(p *Paginator) {
		p.page = page
	})
}

// PerPage allows the caller to specify the number of records requested per page
func PerPage(perPage int) Option {
	return optFunc(func(p *Paginator) {
		p.perPage = perPage
	})
}

// MaxPages allows the caller to bound how many pages a sweep may request
func MaxPages(maxPages int) Option {
	return optFunc(func(p *Paginator) {
		p.maxPages = maxPages
	})
}
