package render

import "strings"

// Message is an empty-state notice shown in place of news cards. Text is
// Markdown.
type Message struct {
	Kind string
	Text string
}

// Message kinds
const (
	KindLoading         = "loading"
	KindLoadFailed      = "load-failed"
	KindNoFilterResults = "no-filter-results"
	KindNoSearchResults = "no-search-results"
)

var (
	// Loading is shown until the data source has been read.
	Loading = Message{
		Kind: KindLoading,
		Text: "समाचार लोड हो रहे हैं...",
	}

	// LoadFailed replaces the news list when the data source could not be read.
	LoadFailed = Message{
		Kind: KindLoadFailed,
		Text: "क्षमा करें, समाचार लोड नहीं हो सका। कृपया अपनी **data.json** फ़ाइल की जाँच करें।",
	}

	// NoFilterResults is shown when a subject/state combination matches nothing.
	NoFilterResults = Message{
		Kind: KindNoFilterResults,
		Text: "इस फ़िल्टर संयोजन से संबंधित कोई समाचार उपलब्ध नहीं है। कृपया फ़िल्टर बदलें।",
	}
)

// SubscribeConfirmation is flashed after the subscribe form is submitted.
const SubscribeConfirmation = "धन्यवाद! सदस्यता अनुरोध सफलतापूर्वक भेजा गया।"

// NoSearchResults is shown when query matches nothing.
func NoSearchResults(query string) Message {
	return Message{
		Kind: KindNoSearchResults,
		Text: "**'" + escapeMarkdown(query) + "'** से संबंधित कोई परिणाम नहीं मिला।",
	}
}

// escapeMarkdown backslash-escapes ASCII punctuation so user text cannot
// change the formatting of a message.
func escapeMarkdown(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r < 0x80 && strings.ContainsRune("\\`*_{}[]()<>#+-.!|~'\"&", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
