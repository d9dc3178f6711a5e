package media

import (
	"fmt"
	"strings"
)

const (
	videoWidth  = 560
	videoHeight = 315

	// Albums, playlists and shows get the tall player with a track list.
	audioTallHeight    = 352
	audioCompactHeight = 152
)

// AudioHeight returns the player height for a "{kind}/{id}" path or a bare kind.
func AudioHeight(path string) int {
	kind := path
	if i := strings.IndexByte(path, '/'); i >= 0 {
		kind = path[:i]
	}
	switch kind {
	case "album", "playlist", "show":
		return audioTallHeight
	default:
		return audioCompactHeight
	}
}

// HTML renders the player markup for the embed. Ids are restricted to word
// characters and dashes by the detector, so they are safe inside src.
func (e Embed) HTML() string {
	switch e.Kind {
	case KindVideo:
		return fmt.Sprintf(`<div class="youtube-embed"><iframe width="%d" height="%d" src="https://www.youtube.com/embed/%s" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" allowfullscreen></iframe></div>`,
			videoWidth, videoHeight, e.ID)
	case KindAudio:
		return fmt.Sprintf(`<div class="spotify-embed"><iframe style="border-radius:12px" src="https://open.spotify.com/embed/%s" width="100%%" height="%d" frameborder="0" allowfullscreen="" allow="autoplay; clipboard-write; encrypted-media; fullscreen; picture-in-picture" loading="lazy"></iframe></div>`,
			e.ID, AudioHeight(e.ID))
	default:
		return ""
	}
}
