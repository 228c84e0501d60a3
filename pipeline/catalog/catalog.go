// Package catalog holds the fixed content configuration tables: supported
// content types, styles, lengths, channels, and the per-channel length
// guides injected into writer prompts. All accessors return copies so the
// tables stay immutable.
package catalog

const DefaultTemperature = 0.6

var contentTypes = []string{
	"post",       // short-form (social media, WhatsApp)
	"blog",       // blog article
	"tutorial",   // teaching/how-to
	"listicle",   // list-based ("10 Tips...")
	"newsletter", // email format
	"story",      // narrative content
}

// Styles ordered factual to creative; the temperature tracks that order.
var styleTemperatures = map[string]float64{
	"technical":     0.3,
	"educational":   0.5,
	"professional":  0.6,
	"friendly":      0.75,
	"inspirational": 0.8,
	"storytelling":  0.9,
}

var styles = []string{
	"technical",
	"educational",
	"professional",
	"friendly",
	"inspirational",
	"storytelling",
}

var lengths = []string{"short", "medium", "long"}

var channels = []string{"instagram", "whatsapp", "linkedin", "email", "blog"}

// Word-count guidance per channel and length.
var channelLengthGuides = map[string]map[string]string{
	"instagram": {
		"short":  "50-100 words",
		"medium": "100-150 words",
		"long":   "150-200 words",
	},
	"whatsapp": {
		"short":  "100-200 words",
		"medium": "200-400 words",
		"long":   "400-600 words",
	},
	"linkedin": {
		"short":  "150-300 words",
		"medium": "300-600 words",
		"long":   "600-1000 words",
	},
	"email": {
		"short":  "200-400 words",
		"medium": "400-800 words",
		"long":   "800-1200 words",
	},
	"blog": {
		"short":  "300-500 words",
		"medium": "600-1000 words",
		"long":   "1200-1800 words",
	},
}

func ContentTypes() []string {
	return append([]string(nil), contentTypes...)
}

func Styles() []string {
	return append([]string(nil), styles...)
}

func Lengths() []string {
	return append([]string(nil), lengths...)
}

func Channels() []string {
	return append([]string(nil), channels...)
}

// TemperatureForStyle maps a writing style to the generation temperature.
// Unrecognized styles get DefaultTemperature.
func TemperatureForStyle(style string) float64 {
	if t, ok := styleTemperatures[style]; ok {
		return t
	}
	return DefaultTemperature
}

// LengthGuide returns the word-count guidance for a channel/length pair,
// falling back to the blog guides for unknown channels and to the medium
// guide for unknown lengths.
func LengthGuide(channel, length string) string {
	guides, ok := channelLengthGuides[channel]
	if !ok {
		guides = channelLengthGuides["blog"]
	}
	if guide, ok := guides[length]; ok {
		return guide
	}
	return guides["medium"]
}

func IsSupportedStyle(style string) bool {
	_, ok := styleTemperatures[style]
	return ok
}

func IsSupportedChannel(channel string) bool {
	_, ok := channelLengthGuides[channel]
	return ok
}
