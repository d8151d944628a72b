package domain

// CueTrack represents a single track inside a cue sheet.
//
// Numbers are carried as zero-padded strings exactly as emitted by the
// cue parser ("01", "02", ...). Start is the offset into the source
// file in seconds; a nil Duration means the track runs to the end of
// the source.
type CueTrack struct {
	Number   string   `json:"number"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist,omitempty"`
	Start    float64  `json:"start"`
	Duration *float64 `json:"duration,omitempty"`
}

// CueAlbum is the structured result of parsing a cue sheet.
type CueAlbum struct {
	Album string `json:"album,omitempty"`
	Date  string `json:"date,omitempty"`
	Genre string `json:"genre,omitempty"`
	Disc  string `json:"disc,omitempty"`

	// SingleFile reports whether all tracks live back-to-back in one
	// referenced audio file.
	SingleFile bool `json:"single_file"`

	// Files lists the audio filenames referenced by the cue sheet,
	// relative to the cue sheet's directory.
	Files []string `json:"files"`

	Tracks []CueTrack `json:"tracks"`
}
