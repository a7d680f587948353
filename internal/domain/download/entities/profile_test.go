package entities

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestDeliveryProfiles_Order(t *testing.T) {
	require.Equal(t, []ProfileKind{
		ProfileRichFull,
		ProfileDocument,
		ProfileRichTruncated,
		ProfileRichBare,
	}, DeliveryProfiles)
}

func TestProfileKind_Options(t *testing.T) {
	caption := "🎬 <b>Some video</b>"

	tests := []struct {
		name string
		kind ProfileKind
		want SendOptions
	}{
		{"rich full keeps caption", ProfileRichFull, SendOptions{Caption: caption}},
		{"document keeps caption", ProfileDocument, SendOptions{AsDocument: true, Caption: caption}},
		{"bare drops caption", ProfileRichBare, SendOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.kind.Options(caption))
		})
	}
}

func TestProfileKind_Options_TruncatesLongCaption(t *testing.T) {
	long := strings.Repeat("a", 300)

	opts := ProfileRichTruncated.Options(long)

	require.False(t, opts.AsDocument)
	require.Len(t, opts.Caption, TruncatedCaptionLimit)
	require.True(t, strings.HasSuffix(opts.Caption, "..."))
}

func TestProfileKind_Options_TruncationIsRuneSafe(t *testing.T) {
	long := strings.Repeat("é", 300)

	opts := ProfileRichTruncated.Options(long)

	require.True(t, utf8.ValidString(opts.Caption))
	require.True(t, strings.HasSuffix(opts.Caption, "..."))
}

func TestProfileKind_Options_ShortCaptionNotTruncated(t *testing.T) {
	opts := ProfileRichTruncated.Options("short")

	require.Equal(t, "short", opts.Caption)
}

func TestProfileKind_String(t *testing.T) {
	for _, kind := range DeliveryProfiles {
		require.NotEqual(t, "unknown profile", kind.String())
	}
	require.Equal(t, "unknown profile", ProfileKind(99).String())
}
