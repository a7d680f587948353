// Package resolver contains the external resolver service chain
package resolver

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/Conte777/TikFlow/internal/domain/download/entities"
	dlerrors "github.com/Conte777/TikFlow/internal/domain/download/errors"
)

// Descriptor describes one external resolution service. Descriptors are
// immutable and tried in declared order; the first usable result wins.
type Descriptor struct {
	Name string

	// Method is the HTTP method of the resolution call
	Method string

	// BuildRequest maps the source URL to the service endpoint. For GET
	// services the source URL is encoded into the query string and body is
	// nil; for POST services body carries it URL-form-encoded.
	BuildRequest func(sourceURL string) (endpoint string, body url.Values)

	// Parse normalizes the raw JSON response into a ResolvedMedia. The
	// returned media must carry a non-empty URL.
	Parse func(data []byte) (*entities.ResolvedMedia, error)
}

// DefaultDescriptors is the production resolver chain, ordered by observed
// reliability
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:   "tikwm",
			Method: "POST",
			BuildRequest: func(sourceURL string) (string, url.Values) {
				return "https://tikwm.com/api/", url.Values{
					"url": {sourceURL},
					"hd":  {"1"},
				}
			},
			Parse: parseTikwm,
		},
		{
			Name:   "tiklydown",
			Method: "GET",
			BuildRequest: func(sourceURL string) (string, url.Values) {
				return "https://api.tiklydown.eu.org/api/download?url=" + url.QueryEscape(sourceURL), nil
			},
			Parse: parseFlat,
		},
		{
			Name:   "tikdown",
			Method: "GET",
			BuildRequest: func(sourceURL string) (string, url.Values) {
				return "https://www.tikdown.org/api?url=" + url.QueryEscape(sourceURL), nil
			},
			Parse: parseFlat,
		},
	}
}

// tikwmResponse is the nested-data response family
type tikwmResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Play      string `json:"play"`
		HDPlay    string `json:"hdplay"`
		Title     string `json:"title"`
		Cover     string `json:"cover"`
		Duration  int    `json:"duration"`
		PlayCount int64  `json:"play_count"`
		Author    struct {
			UniqueID string `json:"unique_id"`
			Nickname string `json:"nickname"`
		} `json:"author"`
	} `json:"data"`
}

func parseTikwm(data []byte) (*entities.ResolvedMedia, error) {
	var resp tikwmResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal tikwm response: %w", err)
	}

	if resp.Code != 0 {
		return nil, fmt.Errorf("tikwm returned code %d: %s", resp.Code, resp.Msg)
	}

	// Prefer the HD variant when both are present
	mediaURL := resp.Data.HDPlay
	if mediaURL == "" {
		mediaURL = resp.Data.Play
	}
	if mediaURL == "" {
		return nil, dlerrors.ErrNoMediaURL
	}

	author := resp.Data.Author.UniqueID
	if author == "" {
		author = resp.Data.Author.Nickname
	}

	return &entities.ResolvedMedia{
		URL:          mediaURL,
		Title:        resp.Data.Title,
		Author:       author,
		ThumbnailURL: resp.Data.Cover,
		Duration:     resp.Data.Duration,
		PlayCount:    resp.Data.PlayCount,
	}, nil
}

// flatResponse is the flat-field response family
type flatResponse struct {
	URL       string `json:"url"`
	HDURL     string `json:"hd_url"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Thumbnail string `json:"thumbnail"`
	Duration  int    `json:"duration"`
}

func parseFlat(data []byte) (*entities.ResolvedMedia, error) {
	var resp flatResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal resolver response: %w", err)
	}

	// Prefer the HD variant when both are present
	mediaURL := resp.HDURL
	if mediaURL == "" {
		mediaURL = resp.URL
	}
	if mediaURL == "" {
		return nil, dlerrors.ErrNoMediaURL
	}

	return &entities.ResolvedMedia{
		URL:          mediaURL,
		Title:        resp.Title,
		Author:       resp.Author,
		ThumbnailURL: resp.Thumbnail,
		Duration:     resp.Duration,
	}, nil
}
