package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/kovetskiy/gopencils"
	"github.com/kovetskiy/lorg"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
)

const (
	// DefaultBaseURL is the public Notion API endpoint.
	DefaultBaseURL = "https://api.notion.com"

	// apiVersion is sent as the Notion-Version header on every request.
	apiVersion = "2022-06-28"

	// pageSize is the maximum the blocks endpoint accepts per request.
	pageSize = "100"
)

// API is the concrete Client backed by the Notion REST API.
type API struct {
	rest    *gopencils.Resource
	http    *http.Client
	BaseURL string
}

type tracer struct {
	prefix string
}

func (tracer *tracer) Printf(format string, args ...interface{}) {
	log.Tracef(nil, tracer.prefix+" "+format, args...)
}

func NewAPI(baseURL string, token string) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rest := gopencils.Api(strings.TrimSuffix(baseURL, "/") + "/v1")
	if rest.Headers == nil {
		rest.Headers = http.Header{}
	}
	rest.SetHeader("Authorization", "Bearer "+token)
	rest.SetHeader("Notion-Version", apiVersion)

	if log.GetLevel() == lorg.LevelTrace {
		rest.Logger = &tracer{"rest:"}
	}

	return &API{
		rest:    rest,
		http:    http.DefaultClient,
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// GetBlockChildren lists one page of direct children of the given block.
// Transport failures are reported as transient, unexpected statuses are
// classified by code.
//
// gopencils carries no per-request context, so ctx guards queueing and
// retries in the layers above; an in-flight call runs to completion.
func (api *API) GetBlockChildren(
	ctx context.Context,
	blockID string,
	cursor string,
) (*ChildrenPage, error) {
	payload := map[string]string{
		"page_size": pageSize,
	}

	if cursor != "" {
		payload["start_cursor"] = cursor
	}

	request, err := api.rest.Res(
		"blocks/"+blockID+"/children", &ChildrenPage{},
	).Get(payload)
	if err != nil {
		return nil, karma.Format(
			transientError("%s", err),
			"unable to list children of block %q",
			blockID,
		)
	}

	if request.Raw.StatusCode != http.StatusOK {
		return nil, karma.Format(
			statusError(request.Raw.StatusCode),
			"unable to list children of block %q",
			blockID,
		)
	}

	return request.Response.(*ChildrenPage), nil
}

// GetPageTitle retrieves the title of a page by joining the plain text of
// its title property. As with GetBlockChildren, ctx cannot abort the
// in-flight REST call.
func (api *API) GetPageTitle(ctx context.Context, pageID string) (string, error) {
	var page struct {
		Properties map[string]struct {
			Type  string     `json:"type"`
			Title []RichText `json:"title"`
		} `json:"properties"`
	}

	request, err := api.rest.Res(
		"pages/"+pageID, &json.RawMessage{},
	).Get()
	if err != nil {
		return "", karma.Format(
			transientError("%s", err),
			"unable to retrieve page %q",
			pageID,
		)
	}

	if request.Raw.StatusCode != http.StatusOK {
		return "", karma.Format(
			statusError(request.Raw.StatusCode),
			"unable to retrieve page %q",
			pageID,
		)
	}

	raw := request.Response.(*json.RawMessage)
	if err := json.Unmarshal(*raw, &page); err != nil {
		return "", karma.Format(
			&FetchError{Message: err.Error()},
			"unable to decode page %q",
			pageID,
		)
	}

	for _, property := range page.Properties {
		if property.Type == "title" {
			return PlainText(property.Title), nil
		}
	}

	return "", nil
}

// GetBinary downloads raw bytes from the given URL, used for inlining
// images. Image URLs are pre-signed by Notion, no auth header is sent.
func (api *API) GetBinary(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, karma.Format(
			&FetchError{Message: err.Error()},
			"unable to build request for %q",
			url,
		)
	}

	response, err := api.http.Do(request)
	if err != nil {
		return nil, karma.Format(
			transientError("%s", err),
			"unable to download %q",
			url,
		)
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return nil, karma.Format(
			statusError(response.StatusCode),
			"unable to download %q",
			url,
		)
	}

	return io.ReadAll(response.Body)
}
