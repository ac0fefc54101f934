package emotion

// ProsodyOffsets is the rate/pitch/volume/range delta contributed by one
// emotion at full intensity. Callers scale by Profile.Intensity.
type ProsodyOffsets struct {
	RateMultiplier   float64
	PitchPercent     float64
	VolumeMultiplier float64
	RangePercent     float64
}

// prosodyTable is the fixed emotion -> prosody offset mapping, embedded
// verbatim (e.g. happy: rate *1+0.2*i, pitch +15*i%, range
// +25*i%). It is the single source both the SSML emitter (markup) and
// non-emotion providers (numeric collapse) scale from, so the two never
// drift apart.
var prosodyTable = map[Kind]ProsodyOffsets{
	KindHappy:     {RateMultiplier: 0.2, PitchPercent: 15, RangePercent: 25},
	KindSad:       {RateMultiplier: -0.3, PitchPercent: -20, RangePercent: -15},
	KindAngry:     {RateMultiplier: 0.15, PitchPercent: 10, RangePercent: 30, VolumeMultiplier: 0.2},
	KindExcited:   {RateMultiplier: 0.25, PitchPercent: 20, RangePercent: 35},
	KindCalm:      {RateMultiplier: -0.15, PitchPercent: -5, RangePercent: -10},
	KindFearful:   {RateMultiplier: 0.1, PitchPercent: 12, RangePercent: 20, VolumeMultiplier: -0.1},
	KindSurprised: {RateMultiplier: 0.1, PitchPercent: 18, RangePercent: 28},
	KindNeutral:   {},
}

// Prosody scales prosodyTable's per-unit coefficients by p's intensity.
func Prosody(p Profile) ProsodyOffsets {
	base := prosodyTable[p.Kind]
	return ProsodyOffsets{
		RateMultiplier:   base.RateMultiplier * p.Intensity,
		PitchPercent:     base.PitchPercent * p.Intensity,
		VolumeMultiplier: base.VolumeMultiplier * p.Intensity,
		RangePercent:     base.RangePercent * p.Intensity,
	}
}

// Add combines two offset sets additively (pace/style/emotion compose).
func (o ProsodyOffsets) Add(other ProsodyOffsets) ProsodyOffsets {
	return ProsodyOffsets{
		RateMultiplier:   o.RateMultiplier + other.RateMultiplier,
		PitchPercent:     o.PitchPercent + other.PitchPercent,
		VolumeMultiplier: o.VolumeMultiplier + other.VolumeMultiplier,
		RangePercent:     o.RangePercent + other.RangePercent,
	}
}
