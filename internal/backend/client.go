// Package backend is the HTTP client for the tutoring backend: problem
// catalog, student progress and attempt recording.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/abhisek/mutabayinat/internal/problem"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Client talks to the backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// NewWithHTTPClient creates a Client that sends requests through hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// SectionProblems lists the problems of a section in backend order.
func (c *Client) SectionProblems(ctx context.Context, sectionID string) ([]problem.Summary, error) {
	var out []problem.Summary
	path := "/api/problems/section/" + url.PathEscape(sectionID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

// Problem fetches one problem. The payload is validated before decoding so
// a malformed problem never reaches the evaluators.
func (c *Client) Problem(ctx context.Context, problemID string) (*problem.Problem, error) {
	var out problem.Problem
	path := "/api/problems/" + url.PathEscape(problemID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, validateProblem); err != nil {
		return nil, err
	}
	return &out, nil
}

// Progress fetches a student's progress envelope.
func (c *Client) Progress(ctx context.Context, username string) (*problem.StudentProgress, error) {
	var out problem.StudentProgress
	path := "/api/students/" + url.PathEscape(username) + "/progress"
	if err := c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
		return nil, err
	}
	if out.Progress == nil {
		out.Progress = problem.Progress{}
	}
	return &out, nil
}

// SubmitAttempt records a completed attempt.
func (c *Client) SubmitAttempt(ctx context.Context, username string, a problem.Attempt) (*problem.AttemptResult, error) {
	var out problem.AttemptResult
	path := "/api/students/" + url.PathEscape(username) + "/attempt"
	if err := c.do(ctx, http.MethodPost, path, a, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

type loginRequest struct {
	Username  string `json:"username"`
	ClassName string `json:"class_name"`
}

// Login identifies a student by username and class.
func (c *Client) Login(ctx context.Context, username, className string) (*problem.Student, error) {
	var out problem.Student
	body := loginRequest{Username: username, ClassName: className}
	if err := c.do(ctx, http.MethodPost, "/api/auth/student-login", body, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// do sends one request and decodes a JSON response into out. validate, when
// set, sees the raw body before decoding.
func (c *Client) do(ctx context.Context, method, path string, body, out any, validate func([]byte) error) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := raw
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	if validate != nil {
		if err := validate(raw); err != nil {
			return &TransportError{Method: method, Path: path, Err: err}
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
