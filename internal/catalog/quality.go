package catalog

import "vgtrkvod/internal/vgtrk"

// Quality bands a viewer may cap playback at, worst to best. Each band
// covers a pair of upstream encoding tiers (plain and -wide).
const (
	QualityLow = iota
	QualityMedium
	QualityHigh
	QualityHD
	QualityFHD
)

// mp4 tiers in ascending quality order with the band that gates each one.
// Within the high band the -wide variant is the lesser tier.
var qualityTiers = []struct {
	band int
	tier string
}{
	{QualityLow, "low"},
	{QualityLow, "low-wide"},
	{QualityMedium, "medium"},
	{QualityMedium, "medium-wide"},
	{QualityHigh, "high-wide"},
	{QualityHigh, "high"},
	{QualityHD, "hd"},
	{QualityHD, "hd-wide"},
	{QualityFHD, "fhd"},
	{QualityFHD, "fhd-wide"},
}

// SelectStream walks the tier list from lowest upwards, overwriting the
// running selection at every tier that has a URL and is within the ceiling,
// so the best available tier at or under the ceiling wins. A tier above the
// ceiling is still taken when nothing lower was found. The m3u8 auto tier is
// probed first as tier 0; an absent mp4 container ends the walk there.
// An empty result means no playable source.
func SelectStream(sources vgtrk.Sources, ceiling int) string {
	path := sources.M3U8["auto"]

	if sources.MP4 == nil {
		return path
	}

	for _, t := range qualityTiers {
		if url := sources.MP4[t.tier]; url != "" && (path == "" || ceiling >= t.band) {
			path = url
		}
	}

	return path
}
