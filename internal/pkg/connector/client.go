package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/yigit/schoolconnector/internal/pkg/logger"
	"github.com/yigit/schoolconnector/internal/pkg/metrics"
)

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks Client

// Client is the subset of the connector REST API used by the school module.
type Client interface {
	GetIdentityInfo(ctx context.Context) (IdentityInfo, error)

	CreateOwnTemplate(ctx context.Context, req CreateTemplateRequest) (RelationshipTemplate, error)
	GetTemplate(ctx context.Context, id string) (RelationshipTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error

	GetRelationship(ctx context.Context, id string) (Relationship, error)
	AcceptRelationship(ctx context.Context, id string) (Relationship, error)
	RejectRelationship(ctx context.Context, id string) (Relationship, error)
	TerminateRelationship(ctx context.Context, id string) (Relationship, error)
	DecomposeRelationship(ctx context.Context, id string) error

	GetMails(ctx context.Context, peer string) ([]Message, error)
	SendMessage(ctx context.Context, req SendMessageRequest) (Message, error)

	CreateOutgoingRequest(ctx context.Context, req CreateOutgoingRequest) (LocalRequest, error)
	GetOutgoingRequests(ctx context.Context, peer string) ([]LocalRequest, error)

	UploadOwnFile(ctx context.Context, req UploadFileRequest) (File, error)
	GetOrLoadFile(ctx context.Context, reference string) (File, error)

	GetRepositoryAttributes(ctx context.Context, valueType string) ([]LocalAttribute, error)
	CreateRepositoryAttribute(ctx context.Context, value AttributeValue) (LocalAttribute, error)
	GetPeerAttributes(ctx context.Context, peer string) ([]LocalAttribute, error)
}

// Options configures an HTTPClient.
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	Metrics   *metrics.Metrics
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// HTTPClient talks to a connector over its REST API.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	metrics *metrics.Metrics
	log     zerolog.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a connector client. A zero RateLimit disables throttling.
func NewHTTPClient(opts Options) *HTTPClient {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := opts.RateBurst
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
		if burst <= 0 {
			burst = 1
		}
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		metrics: opts.Metrics,
		log:     logger.Component("connector"),
	}
}

type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
}

// do performs one call and decodes the result envelope into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveConnectorCall(op, "transport_error", time.Since(start))
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveConnectorCall(op, "transport_error", time.Since(start))
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode >= 300 {
		c.metrics.ObserveConnectorCall(op, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))
		apiErr := &APIError{Status: resp.StatusCode}
		var env envelope
		if json.Unmarshal(raw, &env) == nil && env.Error != nil {
			apiErr = env.Error
			apiErr.Status = resp.StatusCode
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.log.Debug().Str("operation", op).Int("status", resp.StatusCode).Str("code", apiErr.Code).Msg("connector call failed")
		return fmt.Errorf("%s: %w", op, apiErr)
	}
	c.metrics.ObserveConnectorCall(op, "ok", time.Since(start))

	if out == nil || len(raw) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s: decode envelope: %w", op, err)
	}
	if len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", op, err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	if in == nil {
		return c.do(ctx, op, method, path, query, nil, "", out)
	}
	buf, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode body: %w", op, err)
	}
	return c.do(ctx, op, method, path, query, bytes.NewReader(buf), "application/json", out)
}

func (c *HTTPClient) GetIdentityInfo(ctx context.Context) (IdentityInfo, error) {
	var info IdentityInfo
	err := c.doJSON(ctx, "getIdentityInfo", http.MethodGet, "/api/v2/Account/IdentityInfo", nil, nil, &info)
	return info, err
}

func (c *HTTPClient) CreateOwnTemplate(ctx context.Context, req CreateTemplateRequest) (RelationshipTemplate, error) {
	var tpl RelationshipTemplate
	err := c.doJSON(ctx, "createOwnTemplate", http.MethodPost, "/api/v2/RelationshipTemplates/Own", nil, req, &tpl)
	return tpl, err
}

func (c *HTTPClient) GetTemplate(ctx context.Context, id string) (RelationshipTemplate, error) {
	var tpl RelationshipTemplate
	err := c.doJSON(ctx, "getTemplate", http.MethodGet, "/api/v2/RelationshipTemplates/"+url.PathEscape(id), nil, nil, &tpl)
	return tpl, err
}

func (c *HTTPClient) DeleteTemplate(ctx context.Context, id string) error {
	return c.doJSON(ctx, "deleteTemplate", http.MethodDelete, "/api/v2/RelationshipTemplates/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) GetRelationship(ctx context.Context, id string) (Relationship, error) {
	var rel Relationship
	err := c.doJSON(ctx, "getRelationship", http.MethodGet, "/api/v2/Relationships/"+url.PathEscape(id), nil, nil, &rel)
	return rel, err
}

func (c *HTTPClient) changeRelationship(ctx context.Context, op, id, action string) (Relationship, error) {
	var rel Relationship
	err := c.doJSON(ctx, op, http.MethodPut, "/api/v2/Relationships/"+url.PathEscape(id)+"/"+action, nil, struct{}{}, &rel)
	return rel, err
}

func (c *HTTPClient) AcceptRelationship(ctx context.Context, id string) (Relationship, error) {
	return c.changeRelationship(ctx, "acceptRelationship", id, "Accept")
}

func (c *HTTPClient) RejectRelationship(ctx context.Context, id string) (Relationship, error) {
	return c.changeRelationship(ctx, "rejectRelationship", id, "Reject")
}

func (c *HTTPClient) TerminateRelationship(ctx context.Context, id string) (Relationship, error) {
	return c.changeRelationship(ctx, "terminateRelationship", id, "Terminate")
}

func (c *HTTPClient) DecomposeRelationship(ctx context.Context, id string) error {
	return c.doJSON(ctx, "decomposeRelationship", http.MethodDelete, "/api/v2/Relationships/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) GetMails(ctx context.Context, peer string) ([]Message, error) {
	q := url.Values{}
	q.Set("participant", peer)
	q.Set("content.@type", TypeMail)
	var msgs []Message
	err := c.doJSON(ctx, "getMails", http.MethodGet, "/api/v2/Messages", q, nil, &msgs)
	return msgs, err
}

func (c *HTTPClient) SendMessage(ctx context.Context, req SendMessageRequest) (Message, error) {
	var msg Message
	err := c.doJSON(ctx, "sendMessage", http.MethodPost, "/api/v2/Messages", nil, req, &msg)
	return msg, err
}

func (c *HTTPClient) CreateOutgoingRequest(ctx context.Context, req CreateOutgoingRequest) (LocalRequest, error) {
	var lr LocalRequest
	err := c.doJSON(ctx, "createOutgoingRequest", http.MethodPost, "/api/v2/Requests/Outgoing", nil, req, &lr)
	return lr, err
}

func (c *HTTPClient) GetOutgoingRequests(ctx context.Context, peer string) ([]LocalRequest, error) {
	q := url.Values{}
	q.Set("peer", peer)
	var reqs []LocalRequest
	err := c.doJSON(ctx, "getOutgoingRequests", http.MethodGet, "/api/v2/Requests/Outgoing", q, nil, &reqs)
	return reqs, err
}

func (c *HTTPClient) UploadOwnFile(ctx context.Context, req UploadFileRequest) (File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return File{}, fmt.Errorf("uploadOwnFile: %w", err)
	}
	if _, err := part.Write(req.Content); err != nil {
		return File{}, fmt.Errorf("uploadOwnFile: %w", err)
	}

	fields := map[string]string{
		"filename": req.Filename,
		"mimetype": req.Mimetype,
		"title":    req.Title,
	}
	if !req.ExpiresAt.IsZero() {
		fields["expiresAt"] = req.ExpiresAt.UTC().Format(time.RFC3339)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return File{}, fmt.Errorf("uploadOwnFile: %w", err)
		}
	}
	for _, tag := range req.Tags {
		if err := mw.WriteField("tags[]", tag); err != nil {
			return File{}, fmt.Errorf("uploadOwnFile: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return File{}, fmt.Errorf("uploadOwnFile: %w", err)
	}

	var f File
	err = c.do(ctx, "uploadOwnFile", http.MethodPost, "/api/v2/Files/Own", nil, &buf, mw.FormDataContentType(), &f)
	return f, err
}

func (c *HTTPClient) GetOrLoadFile(ctx context.Context, reference string) (File, error) {
	var f File
	body := map[string]string{"reference": reference}
	err := c.doJSON(ctx, "getOrLoadFile", http.MethodPost, "/api/v2/Files/Peer", nil, body, &f)
	return f, err
}

func (c *HTTPClient) GetRepositoryAttributes(ctx context.Context, valueType string) ([]LocalAttribute, error) {
	info, err := c.GetIdentityInfo(ctx)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("content.owner", info.Address)
	q.Set("content.@type", "IdentityAttribute")
	q.Set("content.value.@type", valueType)
	q.Set("shareInfo", "!")
	var attrs []LocalAttribute
	err = c.doJSON(ctx, "getRepositoryAttributes", http.MethodGet, "/api/v2/Attributes", q, nil, &attrs)
	return attrs, err
}

func (c *HTTPClient) CreateRepositoryAttribute(ctx context.Context, value AttributeValue) (LocalAttribute, error) {
	body := map[string]interface{}{
		"content": map[string]interface{}{"value": value},
	}
	var attr LocalAttribute
	err := c.doJSON(ctx, "createRepositoryAttribute", http.MethodPost, "/api/v2/Attributes", nil, body, &attr)
	return attr, err
}

func (c *HTTPClient) GetPeerAttributes(ctx context.Context, peer string) ([]LocalAttribute, error) {
	q := url.Values{}
	q.Set("content.owner", peer)
	q.Set("content.@type", "IdentityAttribute")
	var attrs []LocalAttribute
	err := c.doJSON(ctx, "getPeerAttributes", http.MethodGet, "/api/v2/Attributes", q, nil, &attrs)
	return attrs, err
}
