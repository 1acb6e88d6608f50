package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/kbukum/diarsplit/api"
	"github.com/kbukum/diarsplit/archive"
	"github.com/kbukum/diarsplit/resilience"
)

// Client calls the diarsplit HTTP API.
type Client struct {
	httpClient *http.Client
	config     Config
}

// New creates a client. cfg is defaulted and validated.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	tlsCfg, err := cfg.TLS.Build()
	if err != nil {
		return nil, err
	}
	if tlsCfg != nil {
		transport.TLSClientConfig = tlsCfg
	}
	return &Client{
		httpClient: &http.Client{Transport: transport, Timeout: cfg.Timeout},
		config:     cfg,
	}, nil
}

// SplitRequest is one batch to run remotely. Empty Profile and Backend
// leave the choice to the server.
type SplitRequest struct {
	Media       File
	Diarization File
	Profile     string
	Backend     string
}

// SplitResult is a finished remote batch.
type SplitResult struct {
	BatchID        string
	TotalRows      int
	ProcessedCount int
	// StopRow is the index of the row that ended the batch early, -1 if none.
	StopRow       int
	Speakers      int
	MediaDuration float64
	Digest        string
	FileName      string
	Archive       []byte
}

// Stopped reports whether the batch ended before the last row.
func (r *SplitResult) Stopped() bool { return r.StopRow >= 0 }

// ProfilesResult lists what the server can produce.
type ProfilesResult struct {
	Profiles []struct {
		Name      string `json:"name"`
		Extension string `json:"extension"`
		Video     bool   `json:"video"`
	} `json:"profiles"`
	Backends        []string `json:"backends"`
	DefaultProfile  string   `json:"default_profile"`
	DefaultBackend  string   `json:"default_backend"`
	MediaExtensions []string `json:"media_extensions"`
}

type response struct {
	header http.Header
	body   []byte
}

// Split uploads the media and diarization table and returns the archive.
// The archive digest is checked against the server's header.
func (c *Client) Split(ctx context.Context, req SplitRequest) (*SplitResult, error) {
	body, contentType, err := encodeMultipart(
		map[string]string{api.FieldProfile: req.Profile, api.FieldBackend: req.Backend},
		formPart{api.FieldMedia, req.Media},
		formPart{api.FieldDiarization, req.Diarization},
	)
	if err != nil {
		return nil, fmt.Errorf("client: encode upload: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/split", body, contentType)
	if err != nil {
		return nil, err
	}

	res := &SplitResult{
		BatchID:  resp.header.Get(api.HeaderBatchID),
		Digest:   resp.header.Get(api.HeaderArchiveDigest),
		FileName: attachmentName(resp.header.Get("Content-Disposition")),
		Archive:  resp.body,
		StopRow:  -1,
	}
	res.TotalRows, _ = strconv.Atoi(resp.header.Get(api.HeaderTotalRows))
	res.ProcessedCount, _ = strconv.Atoi(resp.header.Get(api.HeaderProcessedCount))
	res.Speakers, _ = strconv.Atoi(resp.header.Get(api.HeaderSpeakers))
	res.MediaDuration, _ = strconv.ParseFloat(resp.header.Get(api.HeaderMediaDuration), 64)
	if v := resp.header.Get(api.HeaderStopRow); v != "" {
		if row, err := strconv.Atoi(v); err == nil {
			res.StopRow = row
		}
	}
	if res.Digest != "" && archive.Digest(res.Archive) != res.Digest {
		return nil, fmt.Errorf("client: archive digest mismatch for batch %s", res.BatchID)
	}
	return res, nil
}

// Preview validates a diarization table on the server.
func (c *Client) Preview(ctx context.Context, diarization File) (*api.PreviewResponse, error) {
	body, contentType, err := encodeMultipart(nil, formPart{api.FieldDiarization, diarization})
	if err != nil {
		return nil, fmt.Errorf("client: encode upload: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/preview", body, contentType)
	if err != nil {
		return nil, err
	}
	var out api.PreviewResponse
	if err := decodeData(resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profiles returns the server's output profiles and media backends.
func (c *Client) Profiles(ctx context.Context) (*ProfilesResult, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/profiles", nil, "")
	if err != nil {
		return nil, err
	}
	var out ProfilesResult
	if err := decodeData(resp.body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string) (*response, error) {
	if c.config.Retry != nil {
		return resilience.Retry(ctx, *c.config.Retry, func() (*response, error) {
			return c.doOnce(ctx, method, path, body, contentType)
		})
	}
	return c.doOnce(ctx, method, path, body, contentType)
}

func (c *Client) doOnce(ctx context.Context, method, path string, body []byte, contentType string) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	url := strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Err: fmt.Errorf("read response body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp, data)
	}
	return &response{header: resp.Header, body: data}, nil
}

func decodeData(body []byte, out any) error {
	env := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func attachmentName(disposition string) string {
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
