// Package navigation provides utilities for managing navigation state and breadcrumbs.
package navigation

import (
	"net/url"
)

// Sections of the site.
const (
	SectionPublic = "public"
	SectionAdmin  = "admin"
)

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	PageTitle     string
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Public starts the navigation of a public page below the home page.
func Public(pageTitle, activePage string) *Context {
	return NewContext(pageTitle, SectionPublic, activePage).
		AddBreadcrumb("Accueil", "/", false)
}

// Admin starts the navigation of a back-office page.
func Admin(pageTitle, activePage string) *Context {
	return NewContext(pageTitle, SectionAdmin, activePage).
		AddBreadcrumb("Administration", "/admin", false)
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}

// IsAdmin reports whether the page belongs to the back-office.
func (c *Context) IsAdmin() bool {
	return c.ActiveSection == SectionAdmin
}

// SortURL links base sorted by field of table in dir.
func SortURL(base, field, dir, table string) string {
	v := url.Values{}
	v.Set("champ", field)
	v.Set("ordre", dir)

	if table != "" {
		v.Set("table", table)
	}

	return base + "?" + v.Encode()
}

// SearchSortURL links base filtered on recherche in field of table, the
// matches ordered by sort in dir.
func SearchSortURL(base, recherche, field, table, sort, dir string) string {
	v := url.Values{}
	v.Set("recherche", recherche)
	v.Set("champ", field)
	v.Set("tri", sort)
	v.Set("ordre", dir)

	if table != "" {
		v.Set("table", table)
	}

	return base + "?" + v.Encode()
}
