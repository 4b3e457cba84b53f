package uploads

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CloudinaryClient talks to the Cloudinary upload API over HTTP. Requests
// carry a SHA-1 signature of the sorted parameters plus the API secret.
type CloudinaryClient struct {
	CloudName string
	APIKey    string
	APISecret string
	BaseURL   string // defaults to https://api.cloudinary.com; override in tests
	Client    *http.Client
}

// SignParams computes the request signature: parameters sorted by key, joined
// as key=value pairs with "&", then SHA-1 hex of that string with the API
// secret appended.
func (c *CloudinaryClient) SignParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + c.APISecret))
	return hex.EncodeToString(sum[:])
}

type destroyResponse struct {
	Result string `json:"result"`
}

// DeleteAsset destroys one image by public id. A "not found" result is
// treated as success: the asset is already gone on the remote side.
func (c *CloudinaryClient) DeleteAsset(ctx context.Context, publicID string) error {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("cloudinary: credentials are not set")
	}
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = "https://api.cloudinary.com"
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.APIKey)
	form.Set("signature", c.SignParams(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}))

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", base, c.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("cloudinary request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("cloudinary error: status %d body: %s", resp.StatusCode, string(respBody))
	}

	var data destroyResponse
	if err := json.Unmarshal(respBody, &data); err != nil {
		return fmt.Errorf("cloudinary response decode: %w", err)
	}
	if data.Result != "ok" && data.Result != "not found" {
		return fmt.Errorf("cloudinary destroy failed: %s", data.Result)
	}
	return nil
}

// Service encapsulates upload signing and asset deletion.
type Service struct {
	Client *CloudinaryClient
	Folder string
}

// SignatureResult is the capability a browser needs to upload one file
// directly to the asset store.
type SignatureResult struct {
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
	Folder    string `json:"folder"`
	APIKey    string `json:"apiKey"`
	CloudName string `json:"cloudName"`
}

// GetUploadSignature returns signed-upload credentials scoped to the
// configured folder. Signing is local; no network call is made.
func (s *Service) GetUploadSignature() *SignatureResult {
	timestamp := time.Now().Unix()
	signature := s.Client.SignParams(map[string]string{
		"folder":    s.Folder,
		"timestamp": strconv.FormatInt(timestamp, 10),
	})
	return &SignatureResult{
		Timestamp: timestamp,
		Signature: signature,
		Folder:    s.Folder,
		APIKey:    s.Client.APIKey,
		CloudName: s.Client.CloudName,
	}
}

// DeleteAsset removes one asset from the remote store.
func (s *Service) DeleteAsset(ctx context.Context, publicID string) error {
	return s.Client.DeleteAsset(ctx, publicID)
}
