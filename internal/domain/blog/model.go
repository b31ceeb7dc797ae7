package blog

import (
	"errors"
	"time"
)

// Post is a blog article authored on the admin blog page and rendered on
// the member-facing blog list. Content is markdown; the cover image is an
// upload forwarded to the backend as multipart form data.
type Post struct {
	ID        string
	Title     string
	Content   string // markdown
	CoverURL  string // backend-hosted cover image, may be empty
	Author    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var (
	ErrMissingTitle   = errors.New("blog title is required")
	ErrMissingContent = errors.New("blog content is required")
)

// Validate checks the create/update form fields.
// PRE: Post struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (p *Post) Validate() error {
	if p.Title == "" {
		return ErrMissingTitle
	}
	if p.Content == "" {
		return ErrMissingContent
	}
	return nil
}
