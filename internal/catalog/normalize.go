package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vgtrkvod/internal/vgtrk"
)

// Images holds the preset renditions picked for a listing entry.
type Images struct {
	Poster string `json:"poster,omitempty"`
	Banner string `json:"banner,omitempty"`
	Thumb  string `json:"thumb,omitempty"`
	Fanart string `json:"fanart,omitempty"`
}

// Target is the navigation destination of an entry: playback of a video,
// a brand's video listing, or one season-page of it.
type Target struct {
	Kind    string `json:"kind"`
	BrandID int64  `json:"brand_id,omitempty"`
	VideoID int64  `json:"video_id,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

const (
	TargetPlay   = "play"
	TargetBrand  = "brand"
	TargetSeason = "season"
)

// Entry is one normalized listing unit, constructed fresh per request and
// never mutated after handoff.
type Entry struct {
	Kind           MediaKind `json:"kind"`
	Label          string    `json:"label"`
	Title          string    `json:"title,omitempty"`
	OriginalTitle  string    `json:"original_title,omitempty"`
	ShowTitle      string    `json:"show_title,omitempty"`
	Year           int       `json:"year,omitempty"`
	Season         int       `json:"season,omitempty"`
	Episode        int       `json:"episode,omitempty"`
	EpisodeCount   int       `json:"episode_count,omitempty"`
	Date           string    `json:"date,omitempty"`
	Aired          string    `json:"aired,omitempty"`
	Rating         string    `json:"mpaa,omitempty"`
	Rank           float64   `json:"rank,omitempty"`
	Plot           string    `json:"plot,omitempty"`
	PlotOutline    string    `json:"plot_outline,omitempty"`
	Duration       int       `json:"duration,omitempty"`
	Status         string    `json:"status,omitempty"`
	Cast           []string  `json:"cast,omitempty"`
	Director       []string  `json:"director,omitempty"`
	Writer         []string  `json:"writer,omitempty"`
	Countries      []string  `json:"countries,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	Images         Images    `json:"images"`
	Target         Target    `json:"target"`
	TrailerVideoID int64     `json:"trailer_video_id,omitempty"`
}

// Normalizer derives listing entries from raw brand/video records. With
// OriginalNames set, display labels are composed from original titles and
// the plain title field is left out to avoid duplicate UI labels.
type Normalizer struct {
	OriginalNames bool
}

// titleSuffixes are known upstream artifacts marking feature films.
var titleSuffixes = []string{". Х/ф", " Х/ф"}

// CleanTitle strips the trailing feature-film marker from a brand title.
func CleanTitle(title string) string {
	for _, suffix := range titleSuffixes {
		title = strings.TrimSuffix(title, suffix)
	}
	return title
}

// SeasonFromTitle reads the season number off a raw brand title ending in a
// hyphen-digit group ("Сериал-3" is season 3); anything else is season 1.
func SeasonFromTitle(title string) int {
	parts := strings.Split(title, "-")
	if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil && n >= 0 {
		return n
	}
	return 1
}

var dateRecLayouts = []string{"02.01.2006 15:04", "02.01.2006"}

func parseDateRec(raw string) (time.Time, bool) {
	for _, layout := range dateRecLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// mpaaRating maps the upstream age restriction to an MPAA-equivalent label.
// Unknown values map to an empty rating.
func mpaaRating(age vgtrk.AgeRating) string {
	if !age.IsSet {
		return "G"
	}
	switch age.Years {
	case 6:
		return "PG"
	case 12:
		return "PG-13"
	case 16:
		return "R"
	case 18:
		return "NC-17"
	default:
		return ""
	}
}

func namedTitles(items []vgtrk.Named) []string {
	if len(items) == 0 {
		return nil
	}
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	return titles
}

// brandBase fills the fields every entry kind shares with its owning brand.
func (n *Normalizer) brandBase(brand *vgtrk.Brand) Entry {
	body := parseBody(brand.Body)

	entry := Entry{
		Year:        brand.ProductionYearStart,
		Rating:      mpaaRating(brand.AgeRestrictions),
		Rank:        brand.Rank,
		Plot:        body.Plot,
		PlotOutline: stripHTML(brand.Anons),
		Cast:        body.Cast,
		Director:    body.Director,
		Writer:      body.Writer,
		Countries:   namedTitles(brand.Countries),
		Tags:        namedTitles(brand.Tags),
	}

	if t, ok := parseDateRec(brand.DateRec); ok {
		entry.Date = t.Format("02.01.2006")
	}

	if len(brand.Pictures) > 0 {
		entry.Images.Banner = brand.Pictures[0].Preset("prm")
		entry.Images.Poster = brand.Pictures[0].Preset("bq")
		thumbSet := brand.Pictures[0]
		if len(brand.Pictures) > 1 {
			thumbSet = brand.Pictures[1]
		}
		entry.Images.Thumb = thumbSet.Preset("hdr")
		entry.Images.Fanart = entry.Images.Thumb
	}

	return entry
}

// Brand normalizes a brand record into a movie or tvshow entry. Movie
// entries leave the playback video id to the assembler, which looks up the
// brand's representative video separately.
func (n *Normalizer) Brand(brand *vgtrk.Brand) *Entry {
	entry := n.brandBase(brand)
	entry.Kind = Classify(brand, nil)

	title := CleanTitle(brand.Title)
	orig := title
	if brand.TitleOrig != "" {
		orig = CleanTitle(brand.TitleOrig)
	}
	entry.OriginalTitle = orig

	switch entry.Kind {
	case KindTVShow:
		entry.ShowTitle = brand.Title
		entry.Season = 1
		entry.EpisodeCount = brand.CountFullVideos
		entry.Target = Target{Kind: TargetBrand, BrandID: brand.ID}
		if brand.HasManySeries {
			if brand.SeriesIsOver {
				entry.Status = "Ended"
			} else {
				entry.Status = "Continuing"
			}
		}
	default:
		entry.Target = Target{Kind: TargetPlay, BrandID: brand.ID}
	}

	if n.OriginalNames {
		entry.Label = n.atlBrandTitle(entry.Kind, title, orig, entry.Year)
	} else {
		entry.Label = title
		entry.Title = title
	}

	return &entry
}

func (n *Normalizer) atlBrandTitle(kind MediaKind, title, orig string, year int) string {
	if kind != KindMovie {
		return title
	}
	parts := []string{orig}
	if year != 0 {
		parts = append(parts, fmt.Sprintf("(%d)", year))
	}
	return strings.Join(parts, ".")
}

// Season synthesizes one season-page entry of a tvshow brand: a drill-down
// into the chunk of episodes sized by the page limit.
func (n *Normalizer) Season(brand *vgtrk.Brand, offset, limit, totalEpisodes int) *Entry {
	entry := n.brandBase(brand)
	entry.Kind = KindSeason
	entry.ShowTitle = brand.Title
	entry.Season = 1

	first := offset*limit + 1
	last := (offset + 1) * limit
	if last > totalEpisodes {
		last = totalEpisodes
	}
	entry.Label = fmt.Sprintf("Episodes %d-%d", first, last)
	entry.Title = entry.Label
	entry.EpisodeCount = last - first + 1

	title := CleanTitle(brand.Title)
	entry.OriginalTitle = title
	if brand.TitleOrig != "" {
		entry.OriginalTitle = CleanTitle(brand.TitleOrig)
	}

	entry.Target = Target{
		Kind:    TargetSeason,
		BrandID: brand.ID,
		Offset:  offset,
		Limit:   limit,
	}

	return &entry
}

// Episode normalizes a video record into an episode (or movie) entry.
// running is the caller-supplied 1-based position of the video within the
// requested page, offset by page start; it numbers unnumbered episodes.
func (n *Normalizer) Episode(brand *vgtrk.Brand, video *vgtrk.Video, running int) *Entry {
	entry := n.brandBase(brand)
	entry.Kind = Classify(brand, video)
	entry.ShowTitle = brand.Title
	entry.Duration = video.Duration
	entry.Plot = video.Anons
	entry.PlotOutline = video.Anons
	if len(video.Tags) > 0 {
		entry.Tags = namedTitles(video.Tags)
	}

	episode := video.Series
	if episode == 0 {
		episode = running
	}
	season := SeasonFromTitle(brand.Title)
	if episode == 0 {
		// Ordering unknown, signalled to the UI layer as season 0.
		season = 0
	}
	entry.Season = season
	entry.Episode = episode

	if t, ok := parseDateRec(video.DateRec); ok {
		entry.Date = t.Format("02.01.2006")
		entry.Aired = t.Format("2006-01-02")
	}

	showOrig := CleanTitle(brand.Title)
	if brand.TitleOrig != "" {
		showOrig = CleanTitle(brand.TitleOrig)
	}

	title := n.episodeTitle(video, episode)

	if n.OriginalNames {
		parts := []string{showOrig, fmt.Sprintf("s%02de%02d", season, episode)}
		if video.EpisodeTitle != "" {
			parts = append(parts, CleanTitle(video.EpisodeTitle))
		}
		entry.Label = strings.Join(parts, ".")
		entry.OriginalTitle = entry.Label
	} else {
		entry.Label = title
		entry.Title = title
		entry.OriginalTitle = title
	}

	entry.Images.Thumb = video.Pictures.Preset("lw")
	if entry.Images.Thumb == "" {
		entry.Images.Thumb = video.Pictures.Preset("hdr")
	}
	if poster := video.Pictures.Preset("bq"); poster != "" {
		entry.Images.Poster = poster
	}

	entry.Target = Target{Kind: TargetPlay, BrandID: video.BrandID, VideoID: video.ID}

	return &entry
}

// episodeTitle resolves the display title of an episode: the per-episode
// title when present, the video title with a leading "{brandTitle}. "
// stripped, or a synthesized "Episode {n}".
func (n *Normalizer) episodeTitle(video *vgtrk.Video, episode int) string {
	if video.EpisodeTitle != "" {
		return CleanTitle(video.EpisodeTitle)
	}
	if video.BrandTitle != "" {
		prefix := video.BrandTitle + ". "
		if strings.HasPrefix(video.Title, prefix) {
			return video.Title[len(prefix):]
		}
	}
	return fmt.Sprintf("Episode %d", episode)
}
