package record

// RawRecord is the provider-native shape produced by the raw collectors.
// It is a tagged union: Provider identifies the originating service and
// the optional fields carry whatever that provider knows. RawRecords are
// converted to AlbumRecords by the Normalizer and never travel further.
type RawRecord struct {
	// Provider tags the native schema ("spotify", "musicbrainz",
	// "discogs", ...). Used with Kind and NativeID to mint the
	// provider-qualified record ID.
	Provider string `json:"provider"`

	// Kind is the provider's object kind ("album", "release", ...).
	Kind string `json:"kind"`

	// NativeID is the provider's own identifier for the record.
	NativeID string `json:"nativeId"`

	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Released   string `json:"released,omitempty"`
	TrackCount int    `json:"trackCount,omitempty"`
	ArtworkURL string `json:"artworkUrl,omitempty"`

	// Genres and Tags hold any provider-native genre signal.
	Genres []string `json:"genres,omitempty"`
	Tags   []string `json:"tags,omitempty"`

	// Country and Locale hold any provider-native geography signal.
	// Country is a name or ISO code; Locale is a hint such as "en-JP".
	Country string `json:"country,omitempty"`
	Locale  string `json:"locale,omitempty"`

	Popularity float64 `json:"popularity,omitempty"`
}

// RecordID mints the stable opaque id for the raw record.
func (r *RawRecord) RecordID() string {
	return r.Provider + ":" + r.Kind + ":" + r.NativeID
}
