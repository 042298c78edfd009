package types

// Book publish states as stored by the backend.
const (
	BookStatusPublished   = "PUBLISHED"
	BookStatusUnpublished = "UNPUBLISHED"
)

// Book represents a catalog entry in the BookBlitz backend.
// The backend owns the record; clients hold transient copies that are
// refreshed by re-fetching.
type Book struct {
	// ID is the backend's opaque document identifier.
	ID string `json:"_id"`

	// Title is the display title of the book.
	Title string `json:"title"`

	// ISBN is the natural key used for detail lookups.
	ISBN string `json:"isbn"`

	// Authors is the ordered list of author names.
	Authors []string `json:"authors"`

	// Categories are the genre labels used for catalog filtering.
	Categories []string `json:"categories"`

	// Price is the sale price in the store currency.
	Price float64 `json:"price"`

	// PageCount is the number of pages.
	PageCount int `json:"pageCount"`

	// PublishedDate is the publication date in RFC 3339 form.
	PublishedDate string `json:"publishedDate"`

	// ThumbnailURL points at the cover image on the image host.
	ThumbnailURL string `json:"thumbnailUrl"`

	// ShortDescription is the card-sized blurb.
	ShortDescription string `json:"shortDescription"`

	// LongDescription is the full detail-page description.
	LongDescription string `json:"longDescription"`

	// Status is either BookStatusPublished or BookStatusUnpublished.
	// Only published books are visible to visitors.
	Status string `json:"status"`

	// LibrarianEmail identifies the librarian who owns the listing.
	LibrarianEmail string `json:"librarianEmail"`
}

// Published reports whether the book is visible to visitors.
func (b Book) Published() bool {
	return b.Status == BookStatusPublished
}

// BookPage is one page of a paginated catalog listing. NextSkip is nil
// when there are no further pages.
type BookPage struct {
	Books    []Book `json:"books"`
	NextSkip *int   `json:"nextSkip"`
}

// Banner is a homepage slider entry.
type Banner struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	ImageURL string `json:"imageUrl"`
	Link     string `json:"link"`
}

// BookRequest is a visitor-submitted request for a title the store does
// not carry yet.
type BookRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Note   string `json:"note"`
}
