// Package submit is the client side of the pipeline execution service: it
// authenticates, posts a compiled pipeline definition, and reports the job
// handle the service assigned. It never retries; a failed submission is
// surfaced to the caller as-is.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/quarry-ml/quarry-go/internal/platform/requestid"
)

const submitTimeout = 30 * time.Second

type Client struct {
	apiRoot    string
	httpClient *http.Client
}

// NewClient builds a client from a verified profile. Client-credentials
// profiles fetch tokens lazily through the oauth2 token source.
func NewClient(ctx context.Context, p Profile) (*Client, error) {
	if err := p.Verify(); err != nil {
		return nil, err
	}

	var httpClient *http.Client
	switch {
	case p.Auth.hasStaticToken():
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(p.Auth.Token)})
		httpClient = oauth2.NewClient(ctx, src)
	case p.Auth.hasClientCredentials():
		cfg := clientcredentials.Config{
			TokenURL:     strings.TrimSpace(p.Auth.TokenURL),
			ClientID:     strings.TrimSpace(p.Auth.ClientID),
			ClientSecret: strings.TrimSpace(p.Auth.ClientSecret),
		}
		httpClient = cfg.Client(ctx)
	default:
		httpClient = &http.Client{}
	}
	httpClient.Timeout = submitTimeout

	return &Client{
		apiRoot:    strings.TrimRight(strings.TrimSpace(p.APIRoot), "/"),
		httpClient: httpClient,
	}, nil
}

// SubmitRequest carries one pipeline job submission.
type SubmitRequest struct {
	PipelineName  string
	JobID         string
	PipelineRoot  string
	Region        string
	Definition    json.RawMessage
	EnableCaching bool
}

func (r SubmitRequest) Validate() error {
	if strings.TrimSpace(r.PipelineName) == "" {
		return fmt.Errorf("pipeline name is required")
	}
	if strings.TrimSpace(r.JobID) == "" {
		return fmt.Errorf("job id is required")
	}
	if strings.TrimSpace(r.PipelineRoot) == "" {
		return fmt.Errorf("pipeline root is required")
	}
	if strings.TrimSpace(r.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if len(r.Definition) == 0 {
		return fmt.Errorf("compiled definition is required")
	}
	return nil
}

// JobHandle identifies a submitted pipeline job on the execution service.
type JobHandle struct {
	Name  string
	State string
}

// SubmitJob posts the compiled definition for execution and returns the job
// handle. Any non-2xx response is an error carrying the status and a snippet
// of the body.
func (c *Client) SubmitJob(ctx context.Context, req SubmitRequest) (JobHandle, error) {
	if c == nil || c.httpClient == nil {
		return JobHandle{}, fmt.Errorf("submit client not initialized")
	}
	if err := req.Validate(); err != nil {
		return JobHandle{}, err
	}

	body, err := json.Marshal(submitPayload{
		PipelineName:  req.PipelineName,
		JobID:         req.JobID,
		PipelineRoot:  req.PipelineRoot,
		Region:        req.Region,
		EnableCaching: req.EnableCaching,
		Definition:    req.Definition,
	})
	if err != nil {
		return JobHandle{}, fmt.Errorf("encode submission: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiRoot+"/v1/pipeline-jobs", bytes.NewReader(body))
	if err != nil {
		return JobHandle{}, fmt.Errorf("build submission request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", requestid.New())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return JobHandle{}, fmt.Errorf("submit pipeline job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return JobHandle{}, fmt.Errorf("submit pipeline job: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload jobHandlePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return JobHandle{}, fmt.Errorf("decode job handle: %w", err)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return JobHandle{}, fmt.Errorf("job handle has no name")
	}
	return JobHandle{Name: payload.Name, State: payload.State}, nil
}

type submitPayload struct {
	PipelineName  string          `json:"pipelineName"`
	JobID         string          `json:"jobId"`
	PipelineRoot  string          `json:"pipelineRoot"`
	Region        string          `json:"region"`
	EnableCaching bool            `json:"enableCaching"`
	Definition    json.RawMessage `json:"definition"`
}

type jobHandlePayload struct {
	Name  string `json:"name"`
	State string `json:"state"`
}
