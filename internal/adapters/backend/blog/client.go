package blog

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"

	"gymportal/internal/adapters/backend"
	domain "gymportal/internal/domain/blog"
)

// Upload carries an optional cover image from the blog form.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// Client is the blog surface of the backend.
type Client interface {
	List(ctx context.Context, token string) ([]domain.Post, error)
	// Create posts multipart form data; cover may be nil.
	Create(ctx context.Context, token string, p domain.Post, cover *Upload) (domain.Post, error)
	// Update uses the backend's POST /blogs/{id}?_method=PUT convention —
	// its framework cannot parse multipart bodies on real PUT requests.
	Update(ctx context.Context, token, id string, p domain.Post, cover *Upload) (domain.Post, error)
	Delete(ctx context.Context, token, id string) error
}

// RESTClient implements Client against the gym backend.
type RESTClient struct {
	api *backend.Client
}

// NewRESTClient creates a new blog client.
func NewRESTClient(api *backend.Client) *RESTClient {
	return &RESTClient{api: api}
}

type wirePost struct {
	ID         any    `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Body       string `json:"body"`
	CoverURL   string `json:"cover_url"`
	CoverImage string `json:"cover_image"`
	Author     string `json:"author"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

func (w wirePost) normalize() domain.Post {
	p := domain.Post{
		ID:        backend.StringID(w.ID),
		Title:     w.Title,
		Content:   w.Content,
		CoverURL:  w.CoverURL,
		Author:    w.Author,
		CreatedAt: backend.ParseTime(w.CreatedAt),
		UpdatedAt: backend.ParseTime(w.UpdatedAt),
	}
	if p.Content == "" {
		p.Content = w.Body
	}
	if p.CoverURL == "" {
		p.CoverURL = w.CoverImage
	}
	return p
}

func (c *RESTClient) List(ctx context.Context, token string) ([]domain.Post, error) {
	var wires []wirePost
	if err := c.api.Get(ctx, token, "/blogs", &wires); err != nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(wires))
	for _, w := range wires {
		posts = append(posts, w.normalize())
	}
	return posts, nil
}

func (c *RESTClient) Create(ctx context.Context, token string, p domain.Post, cover *Upload) (domain.Post, error) {
	return c.submit(ctx, token, "/blogs", p, cover)
}

func (c *RESTClient) Update(ctx context.Context, token, id string, p domain.Post, cover *Upload) (domain.Post, error) {
	return c.submit(ctx, token, "/blogs/"+id+"?_method=PUT", p, cover)
}

func (c *RESTClient) Delete(ctx context.Context, token, id string) error {
	return c.api.Delete(ctx, token, "/blogs/"+id)
}

func (c *RESTClient) submit(ctx context.Context, token, path string, p domain.Post, cover *Upload) (domain.Post, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", p.Title); err != nil {
		return domain.Post{}, err
	}
	if err := mw.WriteField("content", p.Content); err != nil {
		return domain.Post{}, err
	}
	if cover != nil {
		fw, err := mw.CreateFormFile("cover_image", cover.Filename)
		if err != nil {
			return domain.Post{}, err
		}
		if _, err := io.Copy(fw, cover.Reader); err != nil {
			return domain.Post{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return domain.Post{}, err
	}

	var w wirePost
	if err := c.api.PostMultipart(ctx, token, path, &buf, mw.FormDataContentType(), &w); err != nil {
		return domain.Post{}, err
	}
	return w.normalize(), nil
}
