package media

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind classifies an embeddable link.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
)

// Tags added to a post for each media kind.
const (
	VideoTag = "youtube"
	AudioTag = "spotify"
)

const (
	youtubeShortHost = "youtu.be"
	spotifyHost      = "open.spotify.com"
)

var (
	youtubeHosts = map[string]bool{
		"youtube.com":     true,
		"www.youtube.com": true,
		"m.youtube.com":   true,
	}

	spotifyKinds = map[string]bool{
		"album":    true,
		"track":    true,
		"episode":  true,
		"show":     true,
		"playlist": true,
	}

	idPattern = regexp.MustCompile(`^[\w-]+`)
)

// Embed is a recognised media link.
type Embed struct {
	Kind Kind
	// ID is the video id for KindVideo and "{kind}/{id}" for KindAudio.
	ID string
}

// Detect classifies link. Video links are checked before audio links. A link
// that fails to parse is simply not media.
func Detect(link string) (Embed, bool) {
	if id, ok := YouTubeID(link); ok {
		return Embed{Kind: KindVideo, ID: id}, true
	}
	if path, ok := SpotifyPath(link); ok {
		return Embed{Kind: KindAudio, ID: path}, true
	}
	return Embed{}, false
}

// Tag returns the post tag for the embed kind.
func (e Embed) Tag() string {
	switch e.Kind {
	case KindVideo:
		return VideoTag
	case KindAudio:
		return AudioTag
	default:
		return ""
	}
}

// YouTubeID extracts a video id. Rules, first match wins:
// youtu.be/{id}, /watch?v={id}, /shorts/{id}, /embed/{id}.
func YouTubeID(link string) (string, bool) {
	u, ok := parse(link)
	if !ok {
		return "", false
	}

	host := u.Hostname()
	switch {
	case host == youtubeShortHost:
		return cleanID(firstSegment(u.Path))
	case youtubeHosts[host]:
		if u.Path == "/watch" {
			return cleanID(u.Query().Get("v"))
		}
		if id, ok := segmentAfter(u.Path, "shorts"); ok {
			return cleanID(id)
		}
		if id, ok := segmentAfter(u.Path, "embed"); ok {
			return cleanID(id)
		}
	}
	return "", false
}

// SpotifyPath extracts "{kind}/{id}" from open.spotify.com/{kind}/{id}.
func SpotifyPath(link string) (string, bool) {
	u, ok := parse(link)
	if !ok || u.Hostname() != spotifyHost {
		return "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || !spotifyKinds[parts[0]] {
		return "", false
	}
	id, ok := cleanID(parts[1])
	if !ok || id != parts[1] {
		return "", false
	}
	return parts[0] + "/" + id, true
}

func parse(link string) (*url.URL, bool) {
	if strings.TrimSpace(link) == "" {
		return nil, false
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil, false
	}
	return u, true
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

// segmentAfter returns the segment following /{prefix}/ at the start of path.
func segmentAfter(path, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/"+prefix+"/")
	if !ok {
		return "", false
	}
	return firstSegment(rest), true
}

// cleanID truncates at the first "&" and keeps the leading run of word
// characters and dashes.
func cleanID(raw string) (string, bool) {
	if i := strings.IndexByte(raw, '&'); i >= 0 {
		raw = raw[:i]
	}
	id := idPattern.FindString(raw)
	return id, id != ""
}
