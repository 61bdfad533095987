package catalog

import "vgtrkvod/internal/vgtrk"

// MediaKind is the derived kind of a listing entry.
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindTVShow  MediaKind = "tvshow"
	KindSeason  MediaKind = "season"
	KindEpisode MediaKind = "episode"
)

// Classify derives the media kind of a brand, or of one of its videos when
// video is non-nil. A brand is a series when it has more than one full video
// or is flagged as such; a single video under a non-series brand is the
// movie asset itself.
func Classify(brand *vgtrk.Brand, video *vgtrk.Video) MediaKind {
	series := brand.CountFullVideos > 1 || bool(brand.HasManySeries)
	if video != nil {
		if series {
			return KindEpisode
		}
		return KindMovie
	}
	if series {
		return KindTVShow
	}
	return KindMovie
}
