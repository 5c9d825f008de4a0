package sniffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectHead(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		head []byte
		typ  MediaType
		mime string
	}{
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0}, TypeJPEG, "image/jpeg"},
		{"png", []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0}, TypePNG, "image/png"},
		{"gif", []byte("GIF89a...."), TypeGIF, "image/gif"},
		{"webp", []byte("RIFF....WEBPVP8 "), TypeWEBP, "image/webp"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := DetectHead(tc.head)
			require.NoError(t, err)
			require.Equal(t, tc.typ, result.Type)
			require.Equal(t, tc.mime, result.MIME)
		})
	}
}

func TestDetectHead_Unknown(t *testing.T) {
	t.Parallel()

	_, err := DetectHead([]byte("<svg xmlns=...>"))
	require.ErrorIs(t, err, ErrUnknownType)

	_, err = DetectHead(nil)
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestExt(t *testing.T) {
	t.Parallel()

	require.Equal(t, "jpg", Result{Type: TypeJPEG}.Ext())
	require.Equal(t, "png", Result{Type: TypePNG}.Ext())
}
