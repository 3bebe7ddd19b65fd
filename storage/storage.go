// Package storage keeps uploaded files in a Google Cloud Storage bucket
// through its JSON API.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const DefaultBaseURL = "https://storage.googleapis.com"

// StoredObject describes a file after upload.
type StoredObject struct {
	Filename    string    `json:"filename"`
	Key         string    `json:"storageKey"`
	URL         string    `json:"downloadURL"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type ObjectStore interface {
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
}

type Client struct {
	http    *resty.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

func NewClient(baseURL, bucket, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetRetryCount(2)
	if token != "" {
		httpClient.SetAuthToken(token)
	}

	return &Client{http: httpClient, bucket: bucket, baseURL: baseURL, now: time.Now}
}

// ObjectKey builds the storage key <folder>/<unix millis>_<name>, with
// whitespace in the name replaced by underscores.
func ObjectKey(folder, filename string, at time.Time) string {
	return fmt.Sprintf("%s/%d_%s", folder, at.UnixMilli(), strings.Join(strings.Fields(filename), "_"))
}

func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, key)
}

func (c *Client) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (*StoredObject, error) {
	uploadedAt := c.now().UTC()
	key := ObjectKey(folder, filename, uploadedAt)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetQueryParams(map[string]string{
			"uploadType":    "media",
			"name":          key,
			"predefinedAcl": "publicRead",
		}).
		SetBody(data).
		Post(fmt.Sprintf("/upload/storage/v1/b/%s/o", url.PathEscape(c.bucket)))
	if err != nil {
		return nil, errors.Wrapf(err, "upload %s", key)
	}
	if resp.IsError() {
		return nil, errors.Errorf("upload %s: status %d: %s", key, resp.StatusCode(), resp.String())
	}

	return &StoredObject{
		Filename:    filename,
		Key:         key,
		URL:         c.PublicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadedAt:  uploadedAt,
	}, nil
}

// Delete removes the object. Missing objects are not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/storage/v1/b/%s/o/%s", url.PathEscape(c.bucket), url.PathEscape(key)))
	if err != nil {
		return errors.Wrapf(err, "delete %s", key)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return errors.Errorf("delete %s: status %d: %s", key, resp.StatusCode(), resp.String())
	}
	return nil
}
