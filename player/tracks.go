package player

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
	"github.com/ythdp/ythdp/quality"
)

// track is one entry of mpv's track-list property.
type track struct {
	ID       int     `json:"id"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Selected bool    `json:"selected"`
	Albumart bool    `json:"albumart"`
	Codec    string  `json:"codec"`
	Width    int     `json:"demux-w"`
	Height   int     `json:"demux-h"`
	FPS      float64 `json:"demux-fps"`
}

// decodeTracks converts the loosely typed IPC payload of track-list.
func decodeTracks(data interface{}) ([]track, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: empty track-list", ErrNotReady)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("track-list: %w", err)
	}

	var tracks []track
	if err := json.Unmarshal(raw, &tracks); err != nil {
		return nil, fmt.Errorf("track-list: %w", err)
	}

	return tracks, nil
}

// videoTracks keeps real video streams, tallest first. Equal heights keep mpv's order.
func videoTracks(tracks []track) []track {
	videos := lo.Filter(tracks, func(t track, _ int) bool {
		return t.Type == "video" && !t.Albumart && t.Height > 0
	})

	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].Height > videos[j].Height
	})

	return videos
}

func (t track) tier() quality.ID {
	return quality.ForSize(t.Width, t.Height)
}

// label mirrors the player's "1080p60 Premium" style when mpv has no title.
func (t track) label() string {
	if t.Title != "" {
		return t.Title
	}

	label := fmt.Sprintf("%dp", t.Height)
	if t.FPS > 30 {
		label += strconv.Itoa(int(t.FPS + 0.5))
	}
	return label
}

func (t track) offer() QualityOffer {
	return NewQualityOffer(t.tier(), t.label(), t.Codec != "", strconv.Itoa(t.ID))
}

// offersFromTracks lists every video variant as an offer.
func offersFromTracks(tracks []track) []QualityOffer {
	return lo.Map(videoTracks(tracks), func(t track, _ int) QualityOffer {
		return t.offer()
	})
}

// tiersFromOffers lists each playable tier once, highest first. Auto is left out: it would
// always satisfy the resolver and release the pin before the real tiers had a chance.
func tiersFromOffers(offers []QualityOffer) []quality.ID {
	playable := lo.Filter(offers, func(o QualityOffer, _ int) bool {
		return o.Playable
	})

	return lo.Uniq(lo.Map(playable, func(o QualityOffer, _ int) quality.ID {
		return o.ID
	}))
}

// selectedVideo returns the video track mpv is currently decoding.
func selectedVideo(tracks []track) (track, bool) {
	return lo.Find(videoTracks(tracks), func(t track) bool {
		return t.Selected
	})
}
