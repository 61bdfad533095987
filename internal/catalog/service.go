package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/webtor-io/lazymap"

	"vgtrkvod/internal/vgtrk"
)

// Upstream is the slice of the VGTRK client the assembler depends on.
type Upstream interface {
	Menu(ctx context.Context, limit, offset int) (*vgtrk.MenuPage, error)
	Brands(ctx context.Context, tags []string, limit, offset int) (*vgtrk.BrandPage, error)
	SearchBrands(ctx context.Context, keyword string, limit, offset int) (*vgtrk.BrandPage, error)
	Brand(ctx context.Context, id int64) (*vgtrk.Brand, error)
	Videos(ctx context.Context, q vgtrk.VideoQuery) (*vgtrk.VideoPage, error)
	Video(ctx context.Context, id int64) (*vgtrk.Video, error)
	CheckAccess(ctx context.Context, videoID int64) error
}

// Settings hold the per-installation catalog policy.
type Settings struct {
	PageLimit     int
	SeasonLimit   int
	Quality       int
	OriginalNames bool
	CacheTTL      time.Duration
}

func (s *Settings) withDefaults() {
	if s.PageLimit <= 0 {
		s.PageLimit = 20
	}
	if s.SeasonLimit <= 0 {
		s.SeasonLimit = 20
	}
	if s.CacheTTL <= 0 {
		s.CacheTTL = 180 * time.Second
	}
}

// Category is one top-level menu entry with its upstream tag filter.
type Category struct {
	ID    int64    `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Page is one assembled listing page. A failed build yields no page at all;
// partial results are never returned.
type Page struct {
	Entries       []Entry     `json:"entries"`
	Category      string      `json:"category,omitempty"`
	Content       string      `json:"content,omitempty"`
	Pagination    *Pagination `json:"pagination,omitempty"`
	UpdateListing bool        `json:"update_listing,omitempty"`
}

// Playback is a resolved stream for one video.
type Playback struct {
	Entry     *Entry `json:"entry"`
	URL       string `json:"url"`
	IsTrailer bool   `json:"is_trailer"`
}

// ListOptions carry the per-request listing parameters.
type ListOptions struct {
	Offset        int
	Limit         int
	Sort          string
	OriginalNames bool
}

type movieVideo struct {
	ID       int64 `json:"id"`
	Duration int   `json:"duration"`
}

// Service assembles catalog pages from upstream records. Menu categories,
// trailer ids and movie representative videos are memoized with a short TTL
// to bound latency of repeated page builds.
type Service struct {
	api    Upstream
	set    Settings
	logger zerolog.Logger

	menus     *lazymap.LazyMap[[]Category]
	trailers  *lazymap.LazyMap[int64]
	durations *lazymap.LazyMap[movieVideo]
}

func NewService(api Upstream, set Settings, logger zerolog.Logger) *Service {
	set.withDefaults()
	memo := &lazymap.Config{
		Expire:      set.CacheTTL,
		ErrorExpire: 10 * time.Second,
	}
	return &Service{
		api:       api,
		set:       set,
		logger:    logger,
		menus:     lazymap.New[[]Category](memo),
		trailers:  lazymap.New[int64](memo),
		durations: lazymap.New[movieVideo](memo),
	}
}

func (s *Service) normalizer(opts ListOptions) *Normalizer {
	return &Normalizer{OriginalNames: s.set.OriginalNames || opts.OriginalNames}
}

// Menu returns the top-level categories. The API paginates its own menu, so
// a second fetch is issued only when the reported total exceeds the first
// page's limit.
func (s *Service) Menu(ctx context.Context) ([]Category, error) {
	return s.menus.Get("menu", func() ([]Category, error) {
		page, err := s.api.Menu(ctx, 0, 0)
		if err != nil {
			return nil, err
		}
		items := page.Items

		if page.Page.TotalCount > page.Page.Limit {
			offset := page.Page.Limit
			rest, err := s.api.Menu(ctx, page.Page.TotalCount-offset, offset)
			if err != nil {
				return nil, err
			}
			items = append(items, rest.Items...)
		}

		categories := make([]Category, 0, len(items))
		for _, item := range items {
			tags := make([]string, 0, len(item.Tags))
			for _, tag := range item.Tags {
				tags = append(tags, fmt.Sprintf("%d", tag.ID))
			}
			categories = append(categories, Category{
				ID:    item.ID,
				Title: item.Title,
				Tags:  tags,
			})
		}
		return categories, nil
	})
}

func (s *Service) category(ctx context.Context, menuID int64) (*Category, error) {
	categories, err := s.Menu(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].ID == menuID {
			return &categories[i], nil
		}
	}
	return nil, &vgtrk.NotFoundError{Message: "menu category not found"}
}

// Category builds one page of a menu category's brand listing.
func (s *Service) Category(ctx context.Context, menuID int64, opts ListOptions) (*Page, error) {
	if opts.Limit <= 0 {
		opts.Limit = s.set.PageLimit
	}
	if err := validatePage(opts); err != nil {
		return nil, err
	}

	menu, err := s.category(ctx, menuID)
	if err != nil {
		return nil, err
	}

	brands, err := s.api.Brands(ctx, menu.Tags, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	entries, err := s.brandEntries(ctx, brands.Items, "", opts)
	if err != nil {
		return nil, err
	}

	pagination, err := Paginate(opts.Offset, opts.Limit, brands.Page.TotalCount)
	if err != nil {
		return nil, err
	}

	return &Page{
		Entries:       entries,
		Category:      fmt.Sprintf("%s / Page %d", menu.Title, opts.Offset+1),
		Content:       "movies",
		Pagination:    pagination,
		UpdateListing: opts.Offset > 0,
	}, nil
}

// Search builds one page of search results. With all=false (quick search)
// brands whose titles do not contain the keyword as a case-insensitive
// substring are dropped, narrowing the upstream's fuzzy match down to the
// literal keyword.
func (s *Service) Search(ctx context.Context, keyword string, all bool, opts ListOptions) (*Page, error) {
	if opts.Limit <= 0 {
		opts.Limit = s.set.PageLimit
	}
	if err := validatePage(opts); err != nil {
		return nil, err
	}

	brands, err := s.api.SearchBrands(ctx, keyword, opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}

	filter := ""
	if !all {
		filter = keyword
	}
	entries, err := s.brandEntries(ctx, brands.Items, filter, opts)
	if err != nil {
		return nil, err
	}

	pagination, err := Paginate(opts.Offset, opts.Limit, brands.Page.TotalCount)
	if err != nil {
		return nil, err
	}

	return &Page{
		Entries:       entries,
		Category:      fmt.Sprintf("Search / %s / Page %d", keyword, opts.Offset+1),
		Content:       "movies",
		Pagination:    pagination,
		UpdateListing: opts.Offset > 0,
	}, nil
}

// brandEntries normalizes one page of brand records. Movie brands get their
// representative video looked up for the playback target and duration, and
// brands with extra videos get a trailer id; both lookups are memoized.
func (s *Service) brandEntries(ctx context.Context, brands []vgtrk.Brand, filter string, opts ListOptions) ([]Entry, error) {
	norm := s.normalizer(opts)

	entries := make([]Entry, 0, len(brands))
	for i := range brands {
		brand := &brands[i]
		if filter != "" && !matchesKeyword(brand, filter) {
			continue
		}

		entry := norm.Brand(brand)

		if entry.Kind == KindMovie {
			mv, err := s.movieVideo(ctx, brand.ID, brand.SortBy)
			if err != nil {
				return nil, err
			}
			entry.Target.VideoID = mv.ID
			entry.Duration = mv.Duration
		}

		if brand.CountVideos > brand.CountFullVideos {
			trailerID, err := s.trailerID(ctx, brand.ID)
			if err != nil {
				return nil, err
			}
			entry.TrailerVideoID = trailerID
		}

		entries = append(entries, *entry)
	}
	return entries, nil
}

// matchesKeyword reports whether the keyword is a case-insensitive
// substring of the brand's display or original title.
func matchesKeyword(brand *vgtrk.Brand, keyword string) bool {
	kw := strings.ToLower(keyword)
	title := strings.ToLower(CleanTitle(brand.Title))
	orig := title
	if brand.TitleOrig != "" {
		orig = strings.ToLower(CleanTitle(brand.TitleOrig))
	}
	return strings.Contains(title, kw) || strings.Contains(orig, kw)
}

func (s *Service) movieVideo(ctx context.Context, brandID int64, sortBy string) (movieVideo, error) {
	key := fmt.Sprintf("%d:%s", brandID, sortBy)
	return s.durations.Get(key, func() (movieVideo, error) {
		videos, err := s.api.Videos(ctx, vgtrk.VideoQuery{
			BrandID:  brandID,
			Sort:     sortBy,
			Includes: []string{"id", "duration"},
		})
		if err != nil {
			return movieVideo{}, err
		}
		if len(videos.Items) == 0 {
			return movieVideo{}, nil
		}
		return movieVideo{ID: videos.Items[0].ID, Duration: videos.Items[0].Duration}, nil
	})
}

func (s *Service) trailerID(ctx context.Context, brandID int64) (int64, error) {
	key := fmt.Sprintf("%d", brandID)
	return s.trailers.Get(key, func() (int64, error) {
		videos, err := s.api.Videos(ctx, vgtrk.VideoQuery{
			BrandID:  brandID,
			Sort:     "date",
			Type:     vgtrk.VideoTypeTrailer,
			Includes: []string{"id"},
		})
		if err != nil {
			return 0, err
		}
		if videos.Page.TotalCount == 0 || len(videos.Items) == 0 {
			return 0, nil
		}
		return videos.Items[0].ID, nil
	})
}

// Seasons synthesizes one listing entry per season-page of a brand, letting
// the UI drill into chunks of episodes sized by the season limit.
func (s *Service) Seasons(ctx context.Context, brandID int64) (*Page, error) {
	brand, err := s.api.Brand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	videos, err := s.api.Videos(ctx, vgtrk.VideoQuery{
		BrandID:  brandID,
		Sort:     brand.SortBy,
		Includes: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	total := videos.Page.TotalCount
	limit := s.set.SeasonLimit

	pagination, err := Paginate(0, limit, total)
	if err != nil {
		return nil, err
	}

	norm := s.normalizer(ListOptions{})
	entries := make([]Entry, 0, pagination.TotalPages)
	for offset := 0; offset < pagination.TotalPages; offset++ {
		entries = append(entries, *norm.Season(brand, offset, limit, total))
	}

	return &Page{
		Entries:  entries,
		Category: CleanTitle(brand.Title),
		Content:  "seasons",
	}, nil
}

// Episodes builds one page of a brand's episode listing. With sort mode
// "date" episodes are stably re-sorted by air date, ties keeping upstream
// order. The running episode index is seeded from offset*limit so
// unnumbered episodes stay numbered across pages.
func (s *Service) Episodes(ctx context.Context, brandID int64, opts ListOptions) (*Page, error) {
	if opts.Limit <= 0 {
		opts.Limit = s.set.SeasonLimit
	}
	if err := validatePage(opts); err != nil {
		return nil, err
	}

	brand, err := s.api.Brand(ctx, brandID)
	if err != nil {
		return nil, err
	}

	sortBy := opts.Sort
	if sortBy == "" {
		sortBy = brand.SortBy
	}

	videos, err := s.api.Videos(ctx, vgtrk.VideoQuery{
		BrandID: brandID,
		Sort:    sortBy,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
	})
	if err != nil {
		return nil, err
	}

	items := videos.Items
	if sortBy == "date" {
		sort.SliceStable(items, func(i, j int) bool {
			return airDateKey(items[i].DateRec) < airDateKey(items[j].DateRec)
		})
	}

	norm := s.normalizer(opts)
	running := opts.Offset * opts.Limit
	entries := make([]Entry, 0, len(items))
	for i := range items {
		video := &items[i]
		if video.Series == 0 && video.VideoType != vgtrk.VideoTypeFull {
			continue
		}
		running++
		entries = append(entries, *norm.Episode(brand, video, running))
	}

	pagination, err := Paginate(opts.Offset, opts.Limit, videos.Page.TotalCount)
	if err != nil {
		return nil, err
	}

	first := opts.Offset*opts.Limit + 1
	last := opts.Offset*opts.Limit + len(items)

	return &Page{
		Entries:    entries,
		Category:   fmt.Sprintf("%s / Episodes %d-%d", CleanTitle(brand.Title), first, last),
		Content:    "episodes",
		Pagination: pagination,
	}, nil
}

// airDateKey turns "DD.MM.YYYY HH:MM" into a sortable "YYYYMMDDHHMM" key.
// Unparseable dates sort first.
func airDateKey(dateRec string) string {
	t, ok := parseDateRec(dateRec)
	if !ok {
		return ""
	}
	return t.Format("200601021504")
}

// Play resolves a playable stream for a video: access check, detail fetch,
// normalization and quality selection. An empty selection is a resolution
// failure, never an empty success.
func (s *Service) Play(ctx context.Context, videoID int64, quality *int) (*Playback, error) {
	if videoID == 0 {
		return nil, &vgtrk.NotFoundError{Message: "video not found"}
	}

	if err := s.api.CheckAccess(ctx, videoID); err != nil {
		return nil, err
	}

	video, err := s.api.Video(ctx, videoID)
	if err != nil {
		return nil, err
	}

	brand, err := s.api.Brand(ctx, video.BrandID)
	if err != nil {
		return nil, err
	}

	// Playback entries always carry plain display titles.
	norm := &Normalizer{}
	var entry *Entry
	if Classify(brand, video) == KindEpisode {
		entry = norm.Episode(brand, video, video.Series)
	} else {
		entry = norm.Brand(brand)
		entry.Target.VideoID = video.ID
		entry.Duration = video.Duration
	}

	ceiling := s.set.Quality
	if quality != nil {
		ceiling = *quality
	}

	url := SelectStream(video.Sources, ceiling)
	if url == "" {
		s.logger.Warn().Int64("video_id", videoID).Msg("no playable source")
		return nil, &vgtrk.NotFoundError{Message: "no playable source"}
	}

	return &Playback{
		Entry:     entry,
		URL:       url,
		IsTrailer: video.VideoType == vgtrk.VideoTypeTrailer,
	}, nil
}

func validatePage(opts ListOptions) error {
	if _, err := Paginate(opts.Offset, opts.Limit, 0); err != nil {
		return err
	}
	return nil
}
