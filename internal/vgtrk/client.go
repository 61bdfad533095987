package vgtrk

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var brandIncludes = []string{
	"id", "title", "body", "titleOrig", "hasManySeries", "sortBy",
	"ageRestrictions", "countFullVideos", "countVideos", "seriesIsOver",
	"dateRec", "pictures", "countries", "tags", "personTypes",
	"productionYearStart", "anons", "rank",
}

var videoIncludes = []string{
	"id", "title", "anons", "episodeId", "brandId", "series", "duration",
	"sources", "pictures", "episodeTitle", "dateRec", "brandTitle", "videoType",
}

// Options configure the upstream client. Zero values fall back to the
// public VGTRK endpoints.
type Options struct {
	APIURL    string
	PlayerURL string
	Channel   string
	SID       string
	UserAgent string
	Timeout   time.Duration
}

func (o *Options) withDefaults() {
	if o.APIURL == "" {
		o.APIURL = "https://api.vgtrk.com/api/v1"
	}
	if o.PlayerURL == "" {
		o.PlayerURL = "https://player.vgtrk.com"
	}
	if o.Channel == "" {
		o.Channel = "1"
	}
	if o.SID == "" {
		o.SID = "russiatv"
	}
	if o.UserAgent == "" {
		o.UserAgent = "mobile-russitv1-android"
	}
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
}

// Client is a typed gateway to the VGTRK VOD API. Every call is a single
// fire-and-raise GET; there is no retry policy.
type Client struct {
	opts   Options
	httpc  *http.Client
	logger zerolog.Logger
}

func NewClient(opts Options, logger zerolog.Logger) *Client {
	opts.withDefaults()
	return &Client{
		opts:   opts,
		httpc:  &http.Client{Timeout: opts.Timeout},
		logger: logger,
	}
}

type metadata struct {
	Code         int    `json:"code"`
	ErrorMessage string `json:"errorMessage"`
	ErrorType    string `json:"errorType"`
}

type envelope struct {
	Data       json.RawMessage `json:"data"`
	Pagination *PageInfo       `json:"pagination"`
	Metadata   *metadata       `json:"metadata"`
	Status     *int            `json:"status"`
	Errors     json.RawMessage `json:"errors"`
}

// get performs one GET request and unwraps the response envelope into out.
// A non-200 metadata.code or status field is an upstream failure regardless
// of the HTTP status line.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values, out any) (*PageInfo, error) {
	u := rawURL
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Cache-Control", "no-cache")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.logger.Debug().
		Str("url", rawURL).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream request")

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &UpstreamError{Message: "malformed response: " + err.Error()}
	}

	if env.Metadata != nil && env.Metadata.Code != 0 && env.Metadata.Code != http.StatusOK {
		msg := env.Metadata.ErrorMessage
		if msg == "" {
			msg = env.Metadata.ErrorType
		}
		return nil, &UpstreamError{Message: msg}
	}
	if env.Status != nil && *env.Status != http.StatusOK {
		return nil, &UpstreamError{Message: rawErrors(env.Errors)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &UpstreamError{Message: resp.Status}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &UpstreamError{Message: "malformed data: " + err.Error()}
		}
	}
	return env.Pagination, nil
}

func pageOrZero(page *PageInfo) PageInfo {
	if page == nil {
		return PageInfo{}
	}
	return *page
}

func rawErrors(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Menu fetches the top-level category tags. Zero limit/offset request the
// API defaults.
func (c *Client) Menu(ctx context.Context, limit, offset int) (*MenuPage, error) {
	params := url.Values{}
	params.Set("channels", c.opts.Channel)
	params.Set("includes", "id:title:tags")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var items []MenuItem
	page, err := c.get(ctx, c.opts.APIURL+"/menu/", params, &items)
	if err != nil {
		return nil, err
	}
	return &MenuPage{Items: items, Page: pageOrZero(page)}, nil
}

// Brands lists brands carrying full videos, filtered by tag set.
func (c *Client) Brands(ctx context.Context, tags []string, limit, offset int) (*BrandPage, error) {
	params := url.Values{}
	params.Set("channels", c.opts.Channel)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("includes", strings.Join(brandIncludes, ":"))
	params.Set("hasFullVideos", "true")
	params.Set("tags", strings.Join(tags, ":"))

	var items []Brand
	page, err := c.get(ctx, c.opts.APIURL+"/brands/", params, &items)
	if err != nil {
		return nil, err
	}
	return &BrandPage{Items: items, Page: pageOrZero(page)}, nil
}

// SearchBrands runs the title-suggest search. The keyword is sanitized the
// way the API expects before it is sent.
func (c *Client) SearchBrands(ctx context.Context, keyword string, limit, offset int) (*BrandPage, error) {
	params := url.Values{}
	params.Set("channels", c.opts.Channel)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("includes", strings.Join(brandIncludes, ":"))
	params.Set("hasFullVideos", "true")
	params.Set("titleSuggest", SanitizeKeyword(keyword))

	var items []Brand
	page, err := c.get(ctx, c.opts.APIURL+"/brands/", params, &items)
	if err != nil {
		return nil, err
	}
	return &BrandPage{Items: items, Page: pageOrZero(page)}, nil
}

// SanitizeKeyword strips characters the upstream search chokes on.
func SanitizeKeyword(keyword string) string {
	r := strings.NewReplacer(
		"+", " ",
		`\`, " ",
		"/", " ",
		"!", "",
		":", "",
	)
	return r.Replace(keyword)
}

// Brand fetches a single brand record.
func (c *Client) Brand(ctx context.Context, id int64) (*Brand, error) {
	params := url.Values{}
	params.Set("includes", strings.Join(brandIncludes, ":"))

	var brand Brand
	if _, err := c.get(ctx, c.opts.APIURL+"/brands/"+strconv.FormatInt(id, 10)+"/", params, &brand); err != nil {
		return nil, err
	}
	if brand.ID == 0 {
		return nil, &NotFoundError{Message: "brand not found"}
	}
	return &brand, nil
}

// VideoQuery selects one page of a brand's videos.
type VideoQuery struct {
	BrandID  int64
	Sort     string
	Limit    int
	Offset   int
	Type     int
	Includes []string
}

// Videos lists videos of a brand. Zero Limit and Type default to 1 (a
// single full video), matching the upstream defaults the catalog relies on.
func (c *Client) Videos(ctx context.Context, q VideoQuery) (*VideoPage, error) {
	if q.Limit <= 0 {
		q.Limit = 1
	}
	if q.Type <= 0 {
		q.Type = VideoTypeFull
	}
	includes := q.Includes
	if includes == nil {
		includes = videoIncludes
	}

	params := url.Values{}
	params.Set("brands", strconv.FormatInt(q.BrandID, 10))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("type", strconv.Itoa(q.Type))
	params.Set("hasEpisode", "1")
	params.Set("hasEpisodes", "1")
	params.Set("includes", strings.Join(includes, ":"))
	params.Set("sort", q.Sort)
	params.Set("sortOrder", "asc")

	var items []Video
	page, err := c.get(ctx, c.opts.APIURL+"/videos/", params, &items)
	if err != nil {
		return nil, err
	}
	return &VideoPage{Items: items, Page: pageOrZero(page)}, nil
}

// Video fetches a single video record, including its sources map.
func (c *Client) Video(ctx context.Context, id int64) (*Video, error) {
	params := url.Values{}
	params.Set("includes", strings.Join(videoIncludes, ":"))

	var video Video
	if _, err := c.get(ctx, c.opts.APIURL+"/videos/"+strconv.FormatInt(id, 10)+"/", params, &video); err != nil {
		return nil, err
	}
	if video.ID == 0 {
		return nil, &NotFoundError{Message: "video not found"}
	}
	return &video, nil
}

type accessPlaylist struct {
	Playlist struct {
		Medialist []struct {
			ID     int64  `json:"id"`
			Errors string `json:"errors"`
		} `json:"medialist"`
	} `json:"playlist"`
}

// CheckAccess asks the player endpoint whether a video is playable. A
// non-empty errors string for the matching id is a hard not-playable signal.
func (c *Client) CheckAccess(ctx context.Context, videoID int64) error {
	params := url.Values{}
	params.Set("id", strconv.FormatInt(videoID, 10))
	params.Set("sid", c.opts.SID)

	var data accessPlaylist
	if _, err := c.get(ctx, c.opts.PlayerURL+"/iframe/datavideo/", params, &data); err != nil {
		return err
	}

	for _, item := range data.Playlist.Medialist {
		if item.ID == videoID && item.Errors != "" {
			return &NotFoundError{Message: item.Errors}
		}
	}
	return nil
}
