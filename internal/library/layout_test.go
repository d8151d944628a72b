package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "clean name untouched", input: "Xtal", want: "Xtal"},
		{name: "colon and slash", input: "My Song: Pt. 1/2", want: "My Song_ Pt. 1_2"},
		{name: "all illegal characters", input: `a<b>c:d"e/f\g|h?i*j`, want: "a_b_c_d_e_f_g_h_i_j"},
		{name: "surrounding whitespace trimmed", input: "  spaced out  ", want: "spaced out"},
		{name: "question marks", input: "Are You Experienced?", want: "Are You Experienced_"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeName(tc.input))
		})
	}
}

func TestLayoutTrackPath(t *testing.T) {
	l := NewLayout("/dest")

	got := l.TrackPath(filepath.Join("/dest", "Album"), "03", "My Song: Pt. 1/2")
	assert.Equal(t, filepath.Join("/dest", "Album", "03 - My Song_ Pt. 1_2.opus"), got)
}

func TestLayoutDestPath(t *testing.T) {
	l := NewLayout("/dest")

	assert.Equal(t,
		filepath.Join("/dest", "music", "Album", "song.opus"),
		l.DestPath(filepath.Join("music", "Album", "song.flac")))
}

func TestLayoutAlbumDir(t *testing.T) {
	l := NewLayout("/dest")

	assert.Equal(t,
		filepath.Join("/dest", "music", "Album"),
		l.AlbumDir(filepath.Join("music", "Album")))
}
