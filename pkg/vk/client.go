package vk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vkgallery/pkg/config"
	errs "vkgallery/pkg/errors"
	"vkgallery/pkg/logger"
	"vkgallery/pkg/ratelimit"
)

// Client calls the photos.get method of the VK API
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	apiURL     string
	apiVersion string
	limiter    ratelimit.Limiter
	logger     logger.Logger
}

// NewClient creates a client with the default endpoint. limiter may be nil.
func NewClient(timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	logger.LogComponentStart(log, "vk", map[string]interface{}{
		"timeout":      timeout,
		"rate_limited": limiter != nil,
	})

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent": "vkgallery/1.0",
			"Accept":     "application/json",
		},
		apiURL:  DefaultAPIURL,
		limiter: limiter,
		logger:  log.WithField("component", "vk"),
	}
}

// NewClientFromConfig creates a client from the vk configuration section
func NewClientFromConfig(cfg *config.VKConfig, log logger.Logger) *Client {
	c := NewClient(cfg.Timeout, ratelimit.PerSecond(cfg.RequestsPerSecond), log)
	if cfg.APIURL != "" {
		c.apiURL = cfg.APIURL
	}
	c.apiVersion = cfg.APIVersion
	if cfg.UserAgent != "" {
		c.SetHeader("User-Agent", cfg.UserAgent)
	}
	return c
}

// SetHeader sets a header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetAPIURL points the client at another photos.get endpoint
func (c *Client) SetAPIURL(apiURL string) {
	c.apiURL = apiURL
}

// FetchAlbumPhotos issues one photos.get call for the album. It does not
// retry or paginate.
func (c *Client) FetchAlbumPhotos(ctx context.Context, req PhotosRequest) (*PhotosResponse, error) {
	if req.Version == "" {
		req.Version = c.apiVersion
	}

	endpoint, err := PhotosURL(c.apiURL, req)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, 0, "failed to build request URL", err)
	}

	c.logger.DebugWithFields("fetching album photos", map[string]interface{}{
		"owner_id": req.OwnerID,
		"album_id": req.AlbumID,
		"rev":      req.Rev,
	})

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	resp, err := decodePhotos(body)
	if err != nil {
		c.logger.WithError(err).WarnWithFields("photos.get returned no usable response", map[string]interface{}{
			"owner_id":     req.OwnerID,
			"album_id":     req.AlbumID,
			"body_preview": preview(body),
		})
		return nil, err
	}

	c.logger.DebugWithFields("fetched album photos", map[string]interface{}{
		"owner_id": req.OwnerID,
		"album_id": req.AlbumID,
		"photos":   len(resp.Photos),
		"skipped":  resp.Skipped,
	})
	return resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errs.Wrap(errs.ErrorTypeNetwork, 0, "cancelled while rate limited", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, 0, "failed to create request", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponseStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeNetwork, resp.StatusCode, "failed to read response body", err)
	}
	return body, nil
}

func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, 0, "request failed", err)
	}

	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, float64(duration.Microseconds())/1000)
	return resp, nil
}

func checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return errs.New(errs.TypeForStatus(resp.StatusCode), resp.StatusCode,
		fmt.Sprintf("unexpected status %d", resp.StatusCode))
}

// decodePhotos reads the response envelope. The service wraps results as
// {"response": [...]}; newer API versions use {"response": {"items": [...]}}.
// Individual records that fail to decode are skipped.
func decodePhotos(body []byte) (*PhotosResponse, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeParsing, 0, "failed to parse response", err)
	}

	if env.Error != nil {
		return nil, errs.New(errs.ErrorTypeAPI, env.Error.Code, env.Error.Message)
	}

	raw := bytes.TrimSpace(env.Response)
	result := &PhotosResponse{Photos: []Photo{}}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return result, nil
	}

	var records []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, errs.Wrap(errs.ErrorTypeParsing, 0, "failed to parse photo list", err)
		}
	case '{':
		var page itemsPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, errs.Wrap(errs.ErrorTypeParsing, 0, "failed to parse photo page", err)
		}
		records = page.Items
	default:
		return nil, errs.New(errs.ErrorTypeParsing, 0, "response is neither a list nor a page")
	}

	for _, record := range records {
		var photo Photo
		if err := json.Unmarshal(record, &photo); err != nil {
			// an empty photo keeps later records at their response index
			result.Skipped++
			photo = Photo{}
		}
		result.Photos = append(result.Photos, photo)
	}
	return result, nil
}

func preview(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
