package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/nzlosh/stackstorm-packagecloud/internal/ports"
	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// PackagecloudAdapter talks to the packagecloud HTTP API. The API token
// travels in the URL userinfo (https://TOKEN:@host/...), matching the
// upstream auth scheme.
type PackagecloudAdapter struct {
	BaseURL    string
	APIToken   string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

const defaultBaseURL = "https://packagecloud.io"
const apiVersion = "v1"
const defaultPerPage = 200
const defaultRetries = 3
const defaultRetryDelay = time.Second
const defaultTimeout = 60 * time.Second

// maxPageNumber bounds the pagination loop. The Total header is not
// guaranteed to be present or consistent, and an unbounded loop would
// hang on a malformed response.
const maxPageNumber = 100

func NewPackagecloudAdapter(baseURL string, apiToken string, timeoutSec int, retries int, retryDelayMs int) PackagecloudAdapter {
	baseURL = strings.TrimSpace(baseURL)
	switch {
	case baseURL == "":
		baseURL = defaultBaseURL
	case !strings.Contains(baseURL, "://"):
		// A bare hostname would parse as a path and build broken URLs.
		baseURL = "https://" + baseURL
	}
	return PackagecloudAdapter{
		BaseURL:    baseURL,
		APIToken:   apiToken,
		Timeout:    normalizeTimeout(timeoutSec),
		Retries:    normalizeRetries(retries),
		RetryDelay: normalizeRetryDelay(retryDelayMs),
	}
}

// ListPackages fetches every page of the repository's package listing.
// Pages are requested sequentially starting at 1; collection stops once
// the accumulated count reaches the Total response header (a missing or
// unparseable header reads as zero) or the page bound is hit. Records
// are returned in page-fetch order.
func (a PackagecloudAdapter) ListPackages(ctx context.Context, repo string, perPage int) ([]types.Package, error) {
	if strings.TrimSpace(repo) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository is empty")
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	var packages []types.Package
	page := 1
	for page < maxPageNumber {
		query := url.Values{}
		query.Set("page", strconv.Itoa(page))
		query.Set("per_page", strconv.Itoa(perPage))
		pageURL, err := a.resourceURL(fmt.Sprintf("/api/%s/repos/%s/packages.json", apiVersion, repo), query)
		if err != nil {
			return nil, err
		}
		resp, body, err := a.do(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		var batch []types.Package
		if err := decodeJSON(body, &batch); err != nil {
			return nil, err
		}
		packages = append(packages, batch...)
		total, _ := strconv.Atoi(resp.Header.Get("Total"))
		log.Debug().
			Int("page", page).
			Int("records", len(batch)).
			Int("total", total).
			Str("per_page", resp.Header.Get("Per-Page")).
			Msg("packages page fetched")
		if len(packages) >= total {
			break
		}
		page++
	}
	log.Debug().Int("pages", page).Msg("packages listing complete")
	return packages, nil
}

// ListMasterTokens lists all master tokens in the repository.
func (a PackagecloudAdapter) ListMasterTokens(ctx context.Context, repo string) ([]types.MasterToken, error) {
	if strings.TrimSpace(repo) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository is empty")
	}
	listURL, err := a.resourceURL(fmt.Sprintf("/api/%s/repos/%s/master_tokens", apiVersion, repo), nil)
	if err != nil {
		return nil, err
	}
	_, body, err := a.do(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	var tokens []types.MasterToken
	if err := decodeJSON(body, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// CreateMasterToken creates a named master token in the repository.
func (a PackagecloudAdapter) CreateMasterToken(ctx context.Context, repo string, name string) (types.MasterToken, error) {
	if strings.TrimSpace(repo) == "" {
		return types.MasterToken{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("repository is empty")
	}
	createURL, err := a.resourceURL(fmt.Sprintf("/api/%s/repos/%s/master_tokens", apiVersion, repo), nil)
	if err != nil {
		return types.MasterToken{}, err
	}
	form := url.Values{}
	form.Set("master_token[name]", name)
	_, body, err := a.do(ctx, http.MethodPost, createURL, form)
	if err != nil {
		return types.MasterToken{}, err
	}
	var token types.MasterToken
	if err := decodeJSON(body, &token); err != nil {
		return types.MasterToken{}, err
	}
	return token, nil
}

// DestroyToken deletes the token addressed by the paths.self value
// returned from a prior listing. The API signals success with 204.
func (a PackagecloudAdapter) DestroyToken(ctx context.Context, selfPath string) error {
	if strings.TrimSpace(selfPath) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("token self path is empty")
	}
	deleteURL, err := a.resourceURL(selfPath, nil)
	if err != nil {
		return err
	}
	resp, body, err := a.do(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("destroying token failed").
			WithCause(fmt.Errorf("status=%d response=%s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}

// ListReadTokens lists the read tokens minted under the master token
// addressed by masterSelfPath.
func (a PackagecloudAdapter) ListReadTokens(ctx context.Context, masterSelfPath string) ([]types.ReadToken, error) {
	if strings.TrimSpace(masterSelfPath) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("master token self path is empty")
	}
	listURL, err := a.resourceURL(masterSelfPath+"/read_tokens.json", nil)
	if err != nil {
		return nil, err
	}
	_, body, err := a.do(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	var listing struct {
		ReadTokens []types.ReadToken `json:"read_tokens"`
	}
	if err := decodeJSON(body, &listing); err != nil {
		return nil, err
	}
	return listing.ReadTokens, nil
}

// CreateReadToken creates a named read token under the master token
// addressed by masterSelfPath.
func (a PackagecloudAdapter) CreateReadToken(ctx context.Context, masterSelfPath string, name string) (types.ReadToken, error) {
	if strings.TrimSpace(masterSelfPath) == "" {
		return types.ReadToken{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("master token self path is empty")
	}
	createURL, err := a.resourceURL(masterSelfPath+"/read_tokens.json", nil)
	if err != nil {
		return types.ReadToken{}, err
	}
	form := url.Values{}
	form.Set("read_token[name]", name)
	_, body, err := a.do(ctx, http.MethodPost, createURL, form)
	if err != nil {
		return types.ReadToken{}, err
	}
	var token types.ReadToken
	if err := decodeJSON(body, &token); err != nil {
		return types.ReadToken{}, err
	}
	return token, nil
}

// DestroyReadToken deletes a read token by id under the master token
// addressed by masterSelfPath. The API signals success with 204.
func (a PackagecloudAdapter) DestroyReadToken(ctx context.Context, masterSelfPath string, id int64) error {
	if strings.TrimSpace(masterSelfPath) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("master token self path is empty")
	}
	deleteURL, err := a.resourceURL(fmt.Sprintf("%s/read_tokens/%d", masterSelfPath, id), nil)
	if err != nil {
		return err
	}
	resp, body, err := a.do(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("destroying read token failed").
			WithCause(fmt.Errorf("status=%d response=%s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return nil
}

// do performs a single API request with bounded retries. Connection
// errors, timeouts and non-2xx responses are retried with a fixed delay
// until the attempt cap; request construction failures and context
// cancellation fail immediately. The response body is fully read and
// returned alongside the response.
func (a PackagecloudAdapter) do(ctx context.Context, method string, rawURL string, form url.Values) (*http.Response, []byte, error) {
	client := &http.Client{Timeout: a.Timeout}
	var lastErr error
	for attempt := 1; attempt <= a.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("packagecloud request cancelled").
				WithCause(err)
		}
		var payload io.Reader
		if form != nil {
			payload = strings.NewReader(form.Encode())
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, payload)
		if err != nil {
			return nil, nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create packagecloud request").
				WithCause(err)
		}
		if form != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
		log.Debug().
			Str("method", method).
			Str("url", redactURL(rawURL)).
			Int("attempt", attempt).
			Msg("packagecloud request")
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("packagecloud request cancelled").
					WithCause(ctx.Err())
			}
			lastErr = errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("packagecloud request failed").
				WithCause(fmt.Errorf("url=%s: %w", redactURL(rawURL), err))
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("packagecloud response read failed").
					WithCause(readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, body, nil
			} else {
				lastErr = errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("packagecloud request failed").
					WithCause(fmt.Errorf("status=%d url=%s response=%s", resp.StatusCode, redactURL(rawURL), strings.TrimSpace(string(body))))
			}
		}
		if attempt < a.Retries {
			time.Sleep(a.RetryDelay)
		}
	}
	return nil, nil, lastErr
}

// resourceURL builds an absolute URL for an API resource path, embedding
// the API token as userinfo. The path may be a paths.self value returned
// by the API.
func (a PackagecloudAdapter) resourceURL(path string, query url.Values) (string, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(a.BaseURL), "/"))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid packagecloud base URL").
			WithCause(err)
	}
	base.User = url.User(a.APIToken)
	base.Path = path
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return base.String(), nil
}

func decodeJSON(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("unexpected response from packagecloud API").
			WithCause(err)
	}
	return nil
}

// redactURL strips the userinfo credential from a URL for logging.
func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.User = nil
	return parsed.String()
}

func normalizeTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultTimeout
	}
	return timeout
}

func normalizeRetries(value int) int {
	if value <= 0 {
		return defaultRetries
	}
	return value
}

func normalizeRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultRetryDelay
	}
	return delay
}

var _ ports.PackagecloudPort = PackagecloudAdapter{}
