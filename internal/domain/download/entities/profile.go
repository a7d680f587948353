// Package entities contains domain entities
package entities

// ProfileKind enumerates the descending delivery strategies. Later profiles
// drop information progressively to raise the odds of success on a
// constrained transport.
type ProfileKind int

const (
	// ProfileRichFull sends rich media with the full caption
	ProfileRichFull ProfileKind = iota
	// ProfileDocument sends the asset as a generic document with the full caption
	ProfileDocument
	// ProfileRichTruncated sends rich media with a truncated caption
	ProfileRichTruncated
	// ProfileRichBare sends rich media with no caption
	ProfileRichBare
)

// String returns a human-readable profile name
func (k ProfileKind) String() string {
	switch k {
	case ProfileRichFull:
		return "rich media with full caption"
	case ProfileDocument:
		return "document with full caption"
	case ProfileRichTruncated:
		return "rich media with truncated caption"
	case ProfileRichBare:
		return "rich media without caption"
	default:
		return "unknown profile"
	}
}

// TruncatedCaptionLimit bounds the caption length of ProfileRichTruncated
const TruncatedCaptionLimit = 100

// SendOptions is the pure data description of one outbound transport call
type SendOptions struct {
	AsDocument bool
	Caption    string
}

// DeliveryProfiles is the fixed strategy order tried by the delivery chain
var DeliveryProfiles = []ProfileKind{
	ProfileRichFull,
	ProfileDocument,
	ProfileRichTruncated,
	ProfileRichBare,
}

// Options builds the transport call description for this profile
func (k ProfileKind) Options(caption string) SendOptions {
	switch k {
	case ProfileDocument:
		return SendOptions{AsDocument: true, Caption: caption}
	case ProfileRichTruncated:
		return SendOptions{Caption: truncate(caption, TruncatedCaptionLimit)}
	case ProfileRichBare:
		return SendOptions{}
	default:
		return SendOptions{Caption: caption}
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit-3]) + "..."
}
