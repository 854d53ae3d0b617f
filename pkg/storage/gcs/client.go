package gcs

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/backoffice-api/pkg/config"
	"github.com/angelmondragon/backoffice-api/pkg/logger"
)

const (
	tokenEndpoint     = "https://oauth2.googleapis.com/token"
	scope             = "https://www.googleapis.com/auth/devstorage.read_write"
	pingTimeout       = 5 * time.Second
	metadataToken     = "http://metadata.google.internal/computeMetadata/v1/instance/service-accounts/default/token"
	defaultAPIBase    = "https://storage.googleapis.com/storage/v1"
	defaultUploadBase = "https://storage.googleapis.com/upload/storage/v1"
	defaultPublicBase = "https://storage.googleapis.com"
)

// ErrObjectNotFound is returned by DeleteObject when the key does not exist.
var ErrObjectNotFound = errors.New("gcs object not found")

// Client talks to the GCS JSON API for a single bucket.
type Client struct {
	httpClient  *http.Client
	bucket      string
	publicBase  string
	apiBase     string
	uploadBase  string
	tokenSource *tokenSource
}

type Pinger interface {
	Ping(ctx context.Context) error
}

func closeBody(body io.Closer) {
	if body != nil {
		_ = body.Close()
	}
}

func NewClient(ctx context.Context, cfg config.StorageConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, errors.New("storage bucket name is required")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	var ts *tokenSource
	var err error
	switch {
	case gcp.CredentialsJSON != "":
		ts, err = newServiceAccountTokenSource(httpClient, gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		raw, readErr := os.ReadFile(gcp.ApplicationCredentials)
		if readErr != nil {
			return nil, fmt.Errorf("reading credentials file: %w", readErr)
		}
		ts, err = newServiceAccountTokenSource(httpClient, string(raw))
	default:
		ts = newMetadataTokenSource(httpClient)
	}
	if err != nil {
		return nil, err
	}

	client := newClient(httpClient, cfg, ts)
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "bucket", client.bucket), "gcs client initialized")
	}
	return client, nil
}

func newClient(httpClient *http.Client, cfg config.StorageConfig, ts *tokenSource) *Client {
	public := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if public == "" {
		public = defaultPublicBase + "/" + cfg.Bucket
	}
	return &Client{
		httpClient:  httpClient,
		bucket:      cfg.Bucket,
		publicBase:  public,
		apiBase:     defaultAPIBase,
		uploadBase:  defaultUploadBase,
		tokenSource: ts,
	}
}

func (c *Client) Bucket() string {
	if c == nil {
		return ""
	}
	return c.bucket
}

func (c *Client) Close() error {
	return nil
}

// PublicURL returns the URL clients use to fetch key.
func (c *Client) PublicURL(key string) string {
	return c.publicBase + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL extracts the object key from a URL produced by PublicURL.
// URLs that point elsewhere report false.
func (c *Client) KeyFromURL(raw string) (string, bool) {
	if c == nil {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	key, ok := strings.CutPrefix(raw, c.publicBase+"/")
	if !ok || key == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, true
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/b/%s/o?maxResults=1", c.apiBase, url.PathEscape(c.bucket))
	resp, err := c.do(ctx, http.MethodGet, u, nil, "")
	if err != nil {
		return err
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// UploadObject stores body under key with a simple media upload.
func (c *Client) UploadObject(ctx context.Context, key, contentType string, body io.Reader) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if key == "" {
		return errors.New("object key is required")
	}

	q := url.Values{}
	q.Set("uploadType", "media")
	q.Set("name", key)
	u := fmt.Sprintf("%s/b/%s/o?%s", c.uploadBase, url.PathEscape(c.bucket), q.Encode())

	resp, err := c.do(ctx, http.MethodPost, u, body, contentType)
	if err != nil {
		return err
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs upload failed", resp)
	}
	return nil
}

// DeleteObject removes key from the bucket.
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if key == "" {
		return errors.New("object key is required")
	}

	u := fmt.Sprintf("%s/b/%s/o/%s", c.apiBase, url.PathEscape(c.bucket), url.PathEscape(key))
	resp, err := c.do(ctx, http.MethodDelete, u, nil, "")
	if err != nil {
		return err
	}
	defer closeBody(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrObjectNotFound
	default:
		return statusError("gcs delete failed", resp)
	}
}

func (c *Client) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.httpClient.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if msg := strings.TrimSpace(string(b)); msg != "" {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, msg)
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}

type tokenSource struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
	fetch  func(context.Context) (string, time.Time, error)
}

func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.token != "" && time.Until(t.expiry) > time.Minute {
		return t.token, nil
	}

	token, expiry, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	t.token = token
	t.expiry = expiry
	return token, nil
}

func newServiceAccountTokenSource(client *http.Client, jsonCreds string) (*tokenSource, error) {
	var creds struct {
		ClientEmail string `json:"client_email"`
		PrivateKey  string `json:"private_key"`
		TokenURI    string `json:"token_uri"`
	}
	if err := json.Unmarshal([]byte(jsonCreds), &creds); err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return nil, errors.New("invalid service account credentials")
	}
	tokenURI := creds.TokenURI
	if tokenURI == "" {
		tokenURI = tokenEndpoint
	}
	priv, err := parsePrivateKey(creds.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &tokenSource{
		fetch: func(ctx context.Context) (string, time.Time, error) {
			return fetchServiceAccountToken(ctx, client, creds.ClientEmail, priv, tokenURI)
		},
	}, nil
}

func newMetadataTokenSource(client *http.Client) *tokenSource {
	return &tokenSource{
		fetch: func(ctx context.Context) (string, time.Time, error) {
			return fetchMetadataToken(ctx, client)
		},
	}
}

func fetchServiceAccountToken(ctx context.Context, client *http.Client, email string, key *rsa.PrivateKey, tokenURI string) (string, time.Time, error) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	now := time.Now()
	claims := map[string]any{
		"iss":   email,
		"scope": scope,
		"aud":   tokenURI,
		"exp":   now.Add(time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	payloadBytes, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	unsigned := strings.Join([]string{header, payload}, ".")
	signature, err := signJWT(unsigned, key)
	if err != nil {
		return "", time.Time{}, err
	}
	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", unsigned+"."+signature)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, err
	}

	return tokenResp.AccessToken, time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second), nil
}

func fetchMetadataToken(ctx context.Context, client *http.Client) (string, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataToken, nil)
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Metadata-Flavor", "Google")
	resp, err := client.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}

	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("metadata token request returned %s", resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", time.Time{}, err
	}

	return tokenResp.AccessToken, time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second), nil
}

func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, errors.New("invalid private key")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err == nil {
		if priv, ok := key.(*rsa.PrivateKey); ok {
			return priv, nil
		}
	}
	priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.New("unsupported private key format")
	}
	return priv, nil
}

func signJWT(unsigned string, key *rsa.PrivateKey) (string, error) {
	hash := sha256.Sum256([]byte(unsigned))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, hash[:])
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(signature), nil
}
