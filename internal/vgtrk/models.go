package vgtrk

import (
	"bytes"
	"strconv"
	"strings"
)

// Named is an upstream reference entity (country, tag, menu tag).
type Named struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// PictureSize is one rendition of an image set, identified by preset name.
type PictureSize struct {
	Preset string `json:"preset"`
	URL    string `json:"url"`
}

type PictureSet struct {
	Sizes []PictureSize `json:"sizes"`
}

// Preset returns the URL for the named preset, or "" when absent.
func (p PictureSet) Preset(name string) string {
	for _, size := range p.Sizes {
		if size.Preset == name {
			return size.URL
		}
	}
	return ""
}

// LaxBool accepts JSON true/false as well as the string forms "true"/"false"
// that some VGTRK endpoints emit for the same fields.
type LaxBool bool

func (b *LaxBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	*b = LaxBool(s == "true" || s == "1")
	return nil
}

// AgeRating holds the ageRestrictions field, which arrives either as an
// empty string (no restriction) or as a number of years.
type AgeRating struct {
	Years int
	IsSet bool
}

func (a *AgeRating) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		a.Years, a.IsSet = 0, false
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Unknown marker, kept as a set-but-unmapped rating.
		a.Years, a.IsSet = -1, true
		return nil
	}
	a.Years, a.IsSet = n, true
	return nil
}

// Brand is the upstream show/movie record.
type Brand struct {
	ID                  int64        `json:"id"`
	Title               string       `json:"title"`
	TitleOrig           string       `json:"titleOrig"`
	Anons               string       `json:"anons"`
	Body                string       `json:"body"`
	DateRec             string       `json:"dateRec"`
	ProductionYearStart int          `json:"productionYearStart"`
	AgeRestrictions     AgeRating    `json:"ageRestrictions"`
	Countries           []Named      `json:"countries"`
	Tags                []Named      `json:"tags"`
	CountFullVideos     int          `json:"countFullVideos"`
	CountVideos         int          `json:"countVideos"`
	HasManySeries       LaxBool      `json:"hasManySeries"`
	SeriesIsOver        LaxBool      `json:"seriesIsOver"`
	Pictures            []PictureSet `json:"pictures"`
	SortBy              string       `json:"sortBy"`
	Rank                float64      `json:"rank"`
}

// Video types as reported in videoType.
const (
	VideoTypeFull    = 1
	VideoTypeExtra   = 2
	VideoTypeTrailer = 3
)

// Sources is the nested quality map of a video: container -> tier -> URL.
type Sources struct {
	M3U8 map[string]string `json:"m3u8"`
	MP4  map[string]string `json:"mp4"`
}

// Video is the upstream record of one playable asset.
type Video struct {
	ID           int64      `json:"id"`
	BrandID      int64      `json:"brandId"`
	Title        string     `json:"title"`
	BrandTitle   string     `json:"brandTitle"`
	EpisodeTitle string     `json:"episodeTitle"`
	Anons        string     `json:"anons"`
	Series       int        `json:"series"`
	Duration     int        `json:"duration"`
	DateRec      string     `json:"dateRec"`
	VideoType    int        `json:"videoType"`
	Pictures     PictureSet `json:"pictures"`
	Sources      Sources    `json:"sources"`
	Tags         []Named    `json:"tags"`
}

// MenuItem is one top-level category with its tag set.
type MenuItem struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Tags  []Named `json:"tags"`
}

// PageInfo is the upstream pagination envelope.
type PageInfo struct {
	TotalCount int `json:"totalCount"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
	Pages      int `json:"pages"`
}

// MenuPage, BrandPage and VideoPage pair one page of records with the
// upstream pagination counters.
type MenuPage struct {
	Items []MenuItem
	Page  PageInfo
}

type BrandPage struct {
	Items []Brand
	Page  PageInfo
}

type VideoPage struct {
	Items []Video
	Page  PageInfo
}
