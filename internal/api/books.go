package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bookblitz/storefront/types"
)

// Catalog sort keys, serialized as "field:direction" on the wire.
const (
	SortNewest    = "publishedDate:asc"
	SortOldest    = "publishedDate:desc"
	SortPriceLow  = "price:asc"
	SortPriceHigh = "price:desc"
)

// BookQuery holds the catalog filter and pagination parameters. Zero
// values are omitted from the query string.
type BookQuery struct {
	Skip       int
	Limit      int
	Sort       string
	MaxPrice   float64
	Categories []string
}

func (q BookQuery) values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(q.Skip))
	limit := q.Limit
	if limit <= 0 {
		limit = 12
	}
	v.Set("limit", strconv.Itoa(limit))
	sort := q.Sort
	if sort == "" {
		sort = SortOldest
	}
	v.Set("sort", sort)
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatFloat(q.MaxPrice, 'f', -1, 64))
	}
	if len(q.Categories) > 0 {
		v.Set("categories", strings.Join(q.Categories, ","))
	}
	return v
}

// ListBooks fetches one page of the published catalog.
func (c *Client) ListBooks(ctx context.Context, query BookQuery) (types.BookPage, error) {
	var page types.BookPage
	err := c.do(ctx, http.MethodGet, "/books", query.values(), nil, &page)
	return page, err
}

// LatestBooks fetches the homepage "latest arrivals" strip.
func (c *Client) LatestBooks(ctx context.Context) ([]types.Book, error) {
	var books []types.Book
	err := c.do(ctx, http.MethodGet, "/books", url.Values{"latest": {"true"}}, nil, &books)
	return books, err
}

// GetBook fetches a single book by ISBN.
func (c *Client) GetBook(ctx context.Context, isbn string) (types.Book, error) {
	var book types.Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(isbn), nil, nil, &book)
	return book, err
}

// SearchBooks runs a free-text title search.
func (c *Client) SearchBooks(ctx context.Context, query string) ([]types.Book, error) {
	var books []types.Book
	err := c.do(ctx, http.MethodGet, "/books/search", url.Values{"query": {query}}, nil, &books)
	return books, err
}

// BannerSlider fetches the homepage slider entries.
func (c *Client) BannerSlider(ctx context.Context) ([]types.Banner, error) {
	var banners []types.Banner
	err := c.do(ctx, http.MethodGet, "/banner-slider", nil, nil, &banners)
	return banners, err
}

// RequestBook submits a request for a title the store does not carry.
func (c *Client) RequestBook(ctx context.Context, req types.BookRequest) error {
	return c.do(ctx, http.MethodPost, "/request-book", nil, req, nil)
}

// CreateBook adds a new listing owned by the calling librarian.
func (c *Client) CreateBook(ctx context.Context, book types.Book) error {
	return c.do(ctx, http.MethodPost, "/librarian/books", nil, book, nil)
}

// UpdateBook replaces a listing's content wholesale.
func (c *Client) UpdateBook(ctx context.Context, id string, book types.Book) (types.ModifyAck, error) {
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPut, "/librarian/books/"+url.PathEscape(id), nil, book, &ack)
	return ack, err
}

// SetBookStatusLibrarian toggles publish status via the librarian route.
func (c *Client) SetBookStatusLibrarian(ctx context.Context, id, status string) (types.ModifyAck, error) {
	if status != types.BookStatusPublished && status != types.BookStatusUnpublished {
		return types.ModifyAck{}, fmt.Errorf("invalid book status %q", status)
	}
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPatch, "/librarian/books/"+url.PathEscape(id), nil,
		map[string]string{"status": status}, &ack)
	return ack, err
}

// SetBookStatus toggles publish status via the admin route.
func (c *Client) SetBookStatus(ctx context.Context, id, status string) (types.ModifyAck, error) {
	if status != types.BookStatusPublished && status != types.BookStatusUnpublished {
		return types.ModifyAck{}, fmt.Errorf("invalid book status %q", status)
	}
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPatch, "/books/"+url.PathEscape(id), nil,
		map[string]string{"status": status}, &ack)
	return ack, err
}

// DeleteBook removes a listing entirely. Admin only.
func (c *Client) DeleteBook(ctx context.Context, id string) (types.DeleteAck, error) {
	var ack types.DeleteAck
	err := c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil, &ack)
	return ack, err
}

// LibrarianBooks lists the listings owned by the given librarian.
func (c *Client) LibrarianBooks(ctx context.Context, email string) ([]types.Book, error) {
	var books []types.Book
	err := c.do(ctx, http.MethodGet, "/librarian/books", url.Values{"email": {email}}, nil, &books)
	return books, err
}
