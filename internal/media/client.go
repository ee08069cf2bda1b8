// Package media talks to the external image host. Uploads are
// request-defining; deletes are best-effort cleanup and callers are
// expected to log failures rather than surface them.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"
)

// Image is a hosted image descriptor: the serving URL plus the
// external id used for lifecycle cleanup.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Client is the narrow media-host interface the catalog depends on.
type Client interface {
	Upload(ctx context.Context, data []byte, filename string) (*Image, error)
	BulkDelete(ctx context.Context, publicIDs []string) error
}

// HTTPClient is the HTTP implementation of Client.
type HTTPClient struct {
	baseURL string
	apiKey  string
	folder  string
	client  *http.Client
}

// NewHTTPClient creates a media host client.
func NewHTTPClient(baseURL, apiKey, folder string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		folder:  folder,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload pushes one image to the host and returns its descriptor. The
// public id is derived from the upload folder, a timestamp and the
// original file name, mirroring how the host namespaces assets.
func (c *HTTPClient) Upload(ctx context.Context, data []byte, filename string) (*Image, error) {
	publicID := c.publicID(filename)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("folder", c.folder); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.WriteField("public_id", publicID); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("media host rejected upload: %s: %s", resp.Status, msg)
	}

	var image Image
	if err := json.NewDecoder(resp.Body).Decode(&image); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &image, nil
}

// BulkDelete removes hosted images by their external ids.
func (c *HTTPClient) BulkDelete(ctx context.Context, publicIDs []string) error {
	if len(publicIDs) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string][]string{"public_ids": publicIDs})
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/resources/delete", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("media host rejected delete: %s: %s", resp.Status, msg)
	}

	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *HTTPClient) publicID(filename string) string {
	name := strings.TrimSuffix(filename, path.Ext(filename))
	return fmt.Sprintf("%s/%d-%s", c.folder, time.Now().UnixMilli(), name)
}
