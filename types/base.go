// Package types holds Graph API resource types. Each exported field carries a
// `facebook:"key"` tag naming the JSON member it is mapped from.
package types

// FacebookType is the minimal shape every Graph object has.
type FacebookType struct {
	ID       string    `facebook:"id"`
	Type     string    `facebook:"type"`
	Metadata *Metadata `facebook:"metadata"`
}

// NamedFacebookType is an object with a display name.
type NamedFacebookType struct {
	FacebookType
	Name string `facebook:"name"`
}

// CategorizedFacebookType is a named object with a category, for example a
// page posting as "from".
type CategorizedFacebookType struct {
	NamedFacebookType
	Category string `facebook:"category"`
}

// Metadata is returned when an object is requested with metadata=1.
type Metadata struct {
	Type        string            `facebook:"type"`
	Connections map[string]string `facebook:"connections"`
	Fields      []MetadataField   `facebook:"fields"`
}

type MetadataField struct {
	Name        string `facebook:"name"`
	Description string `facebook:"description"`
	Type        string `facebook:"type"`
}

// Paging holds the navigation links of a connection page.
type Paging struct {
	Previous string   `facebook:"previous"`
	Next     string   `facebook:"next"`
	Cursors  *Cursors `facebook:"cursors"`
}

type Cursors struct {
	Before string `facebook:"before"`
	After  string `facebook:"after"`
}

// Summary is the aggregate block attached to connections requested with
// summary=true.
type Summary struct {
	TotalCount     int64  `facebook:"total_count"`
	Order          string `facebook:"order"`
	CanComment     bool   `facebook:"can_comment"`
	CanLike        bool   `facebook:"can_like"`
	HasLiked       bool   `facebook:"has_liked"`
	ViewerReaction string `facebook:"viewer_reaction"`
}

// Connection is one page of a Graph connection such as /me/feed.
type Connection[T any] struct {
	Data    []T      `facebook:"data"`
	Paging  *Paging  `facebook:"paging"`
	Summary *Summary `facebook:"summary"`
}

// HasNext reports whether another page can be fetched.
func (c *Connection[T]) HasNext() bool { return c.NextURL() != "" }

// NextURL returns the absolute URL of the next page, or "".
func (c *Connection[T]) NextURL() string {
	if c == nil || c.Paging == nil {
		return ""
	}
	return c.Paging.Next
}

// HasPrevious reports whether a previous page exists.
func (c *Connection[T]) HasPrevious() bool {
	return c != nil && c.Paging != nil && c.Paging.Previous != ""
}

// TotalCount returns the summary total, or the page size without a summary.
func (c *Connection[T]) TotalCount() int64 {
	if c == nil {
		return 0
	}
	if c.Summary != nil {
		return c.Summary.TotalCount
	}
	return int64(len(c.Data))
}
