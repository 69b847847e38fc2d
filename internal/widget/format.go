package widget

import (
	"regexp"
	"strings"
)

// DefaultAssetsBaseURL hosts the flag and circuit images referenced by views.
const DefaultAssetsBaseURL = "https://raw.githubusercontent.com/obegley95/Scriptable/refs/heads/main/_data"

const (
	fallbackTitle   = "GRAND PRIX"
	fallbackCircuit = "f1"
)

var (
	grandPrix  = regexp.MustCompile(`(?i)grand prix`)
	yearSuffix = regexp.MustCompile(`\s*\d{4}$`)
)

// ShortTitle turns "Formula 1: Bahrain Grand Prix 2025" into "BAHRAIN GP".
func ShortTitle(name string) string {
	_, after, ok := strings.Cut(name, ":")
	if !ok {
		return fallbackTitle
	}
	t := strings.TrimSpace(after)
	if loc := grandPrix.FindStringIndex(t); loc != nil {
		t = t[:loc[0]] + "GP" + t[loc[1]:]
	}
	t = yearSuffix.ReplaceAllString(strings.ToUpper(t), "")
	if t == "" {
		return fallbackTitle
	}
	return t
}

// FullTitle upper-cases the part after the first colon, or the whole name without one.
func FullTitle(name string) string {
	t := name
	if _, after, ok := strings.Cut(name, ":"); ok {
		t = after
	}
	t = strings.ToUpper(strings.TrimSpace(t))
	if t == "" {
		return fallbackTitle
	}
	return t
}

// PadRound left-pads a round number to two digits.
func PadRound(round string) string {
	round = strings.TrimSpace(round)
	if len(round) < 2 {
		return strings.Repeat("0", 2-len(round)) + round
	}
	return round
}

// Assets builds image URLs under a base URL.
type Assets struct {
	BaseURL string
}

func (a Assets) base() string {
	if a.BaseURL == "" {
		return DefaultAssetsBaseURL
	}
	return strings.TrimRight(a.BaseURL, "/")
}

func (a Assets) FlagURL(code string) string {
	return a.base() + "/flags/" + code + ".png"
}

// TrackURL returns the circuit image. An empty id yields the generic image.
func (a Assets) TrackURL(circuitID string) string {
	if circuitID == "" {
		circuitID = fallbackCircuit
	}
	return a.base() + "/circuits/" + circuitID + ".png"
}

func (a Assets) FallbackTrackURL() string {
	return a.TrackURL("")
}
