package engine

// Model identifiers the standard engines are deployed with.
const (
	// FourStemModel separates vocals, drums, bass and other.
	FourStemModel = "htdemucs"

	// SixStemModel additionally separates guitar and piano.
	SixStemModel = "htdemucs_6s"

	// KaraokeModel separates lead vocals from backing vocals.
	KaraokeModel = "mel_band_roformer_karaoke_becruily.ckpt"
)

// Marker roles used to resolve demucs track dirs. The marker must be a stem
// the model always emits.
const (
	FourStemMarkerRole = "vocals"
	SixStemMarkerRole  = "guitar"
)
