package menuclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/shinyyama/cafe-menu/internal/model"
	"github.com/shinyyama/cafe-menu/internal/service"
)

// Default failure messages, used when the server does not send one.
const (
	MsgFetchItems = "failed to fetch menu items"
	MsgFetchItem  = "failed to fetch menu item"
	MsgAddItem    = "failed to add menu item"
	MsgUpdateItem = "failed to update menu item"
	MsgDeleteItem = "failed to delete menu item"
	MsgUpload     = "failed to upload image"
	MsgFetchMenu  = "failed to fetch menu"
	MsgFetchStats = "failed to fetch stats"
)

// Error is returned for every non-2xx response and for transport failures
// (Status 0). Message is the server's message when it sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// MenuItemFields is the body of create and update calls. Nil fields are not
// sent.
type MenuItemFields struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	IsAvailable *bool    `json:"isAvailable,omitempty"`
	ImageURL    *string  `json:"imageUrl,omitempty"`
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

// WithToken sends token as a bearer credential on every call.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) GetMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu-items", nil, "", &items, MsgFetchItems); err != nil {
		return nil, err
	}
	return items, nil
}

// FindMenuItems is GetMenuItems narrowed server-side by a name/description
// query and a category. Empty arguments match everything.
func (c *Client) FindMenuItems(ctx context.Context, query, category string) ([]model.MenuItem, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	if category != "" {
		q.Set("category", category)
	}
	path := "/api/menu-items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var items []model.MenuItem
	if err := c.do(ctx, http.MethodGet, path, nil, "", &items, MsgFetchItems); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := c.do(ctx, http.MethodGet, "/api/menu-items/"+url.PathEscape(id), nil, "", &item, MsgFetchItem); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) AddMenuItem(ctx context.Context, fields MenuItemFields) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/menu-items", bytes.NewReader(body), "application/json", &resp, MsgAddItem); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) UpdateMenuItem(ctx context.Context, id string, fields MenuItemFields) error {
	body, err := json.Marshal(struct {
		ID string `json:"id"`
		MenuItemFields
	}{ID: id, MenuItemFields: fields})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/api/menu-items", bytes.NewReader(body), "application/json", nil, MsgUpdateItem)
}

func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	body, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/api/menu-items", bytes.NewReader(body), "application/json", nil, MsgDeleteItem)
}

// UploadImage sends data as the multipart "file" part together with path and
// returns the public URL of the stored object.
func (c *Client) UploadImage(ctx context.Context, path, filename, contentType string, data io.Reader) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("path", path); err != nil {
		return "", err
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/upload-image", &buf, w.FormDataContentType(), &resp, MsgUpload); err != nil {
		return "", err
	}
	return resp.URL, nil
}

func (c *Client) GetPublicMenu(ctx context.Context, query string) (*service.PublicMenu, error) {
	path := "/api/menu"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}
	var menu service.PublicMenu
	if err := c.do(ctx, http.MethodGet, path, nil, "", &menu, MsgFetchMenu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (c *Client) GetStats(ctx context.Context) (*service.DashboardStats, error) {
	var stats service.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/admin/stats", nil, "", &stats, MsgFetchStats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// do performs one request. There are no retries.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}, failMsg string) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: failMsg}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("%s: %v", failMsg, err)}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: serverMessage(raw, failMsg)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: failMsg + ": malformed response"}
	}
	return nil
}

// serverMessage extracts {"error":{"message":...}}, the older
// {"error":"..."} and {"message":"..."} shapes, falling back to def.
func serverMessage(raw []byte, def string) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &nested) == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}
	var flat struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &flat) == nil {
		if flat.Error != "" {
			return flat.Error
		}
		if flat.Message != "" {
			return flat.Message
		}
	}
	return def
}
