// Package paginator splits an ordered record set into fixed-size pages.
//
// Out-of-range page numbers are clamped to the nearest valid page instead of
// being reported as errors, and an empty record set still has one page.
package paginator

import (
	"strconv"
	"strings"
)

const DefaultPerPage = 10

type Paginator struct {
	PerPage int
}

func New(perPage int) *Paginator {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &Paginator{PerPage: perPage}
}

type Page struct {
	Number             int  `json:"number"`
	NumPages           int  `json:"numPages"`
	Count              int  `json:"count"`
	PerPage            int  `json:"perPage"`
	HasNext            bool `json:"hasNext"`
	HasPrevious        bool `json:"hasPrevious"`
	NextPageNumber     int  `json:"nextPageNumber,omitempty"`
	PreviousPageNumber int  `json:"previousPageNumber,omitempty"`
}

// Page resolves the raw "page" query value against count records.
func (p *Paginator) Page(count int, raw string) Page {
	if count < 0 {
		count = 0
	}

	numPages := (count + p.PerPage - 1) / p.PerPage
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	page := Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		PerPage:     p.PerPage,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
	if page.HasNext {
		page.NextPageNumber = number + 1
	}
	if page.HasPrevious {
		page.PreviousPageNumber = number - 1
	}

	return page
}

func (pg Page) Offset() int {
	return (pg.Number - 1) * pg.PerPage
}

func (pg Page) Limit() int {
	return pg.PerPage
}

// Len is the number of records that fall on this page.
func (pg Page) Len() int {
	rest := pg.Count - pg.Offset()
	if rest < 0 {
		return 0
	}
	if rest > pg.PerPage {
		return pg.PerPage
	}
	return rest
}
