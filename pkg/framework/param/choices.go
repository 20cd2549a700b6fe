package param

// Option lists for common enumerated parameters. Indices are stable and
// are what gets persisted, so only ever append.

// Filter type indices
const (
	FilterTypeLowpass = iota
	FilterTypeHighpass
	FilterTypeBandpass
	FilterTypeNotch
	FilterTypeAllpass
	FilterTypePeaking
	FilterTypeLowShelf
	FilterTypeHighShelf
)

// FilterTypeOptions names the filter types.
var FilterTypeOptions = []ChoiceOption{
	{Name: "Lowpass", Aliases: []string{"low pass", "lpf", "lp"}},
	{Name: "Highpass", Aliases: []string{"high pass", "hpf", "hp"}},
	{Name: "Bandpass", Aliases: []string{"band pass", "bpf", "bp"}},
	{Name: "Notch", Aliases: []string{"band reject", "band stop", "br", "bs"}},
	{Name: "Allpass", Aliases: []string{"all pass", "apf", "ap"}},
	{Name: "Peaking EQ", Aliases: []string{"peaking", "peak", "bell", "parametric"}},
	{Name: "Low Shelf", Aliases: []string{"lowshelf", "ls", "bass"}},
	{Name: "High Shelf", Aliases: []string{"highshelf", "hs", "treble"}},
}

// Distortion type indices
const (
	DistortionTypeWaveshaper = iota
	DistortionTypeTube
	DistortionTypeTape
	DistortionTypeBitCrusher
)

// DistortionTypeOptions names the distortion types.
var DistortionTypeOptions = []ChoiceOption{
	{Name: "Waveshaper", Aliases: []string{"wave shaper", "ws"}},
	{Name: "Tube", Aliases: []string{"valve"}},
	{Name: "Tape", Aliases: []string{"analog"}},
	{Name: "BitCrusher", Aliases: []string{"bit crusher", "lofi", "lo-fi"}},
}

// Waveshaper curve indices
const (
	WaveshaperCurveHardClip = iota
	WaveshaperCurveSoftClip
	WaveshaperCurveSaturate
	WaveshaperCurveFoldback
	WaveshaperCurveAsymmetric
	WaveshaperCurveSine
	WaveshaperCurveExponential
)

// WaveshaperCurveOptions names the waveshaper curves.
var WaveshaperCurveOptions = []ChoiceOption{
	{Name: "Hard Clip", Aliases: []string{"hardclip", "hard"}},
	{Name: "Soft Clip", Aliases: []string{"softclip", "soft"}},
	{Name: "Saturate", Aliases: []string{"saturation"}},
	{Name: "Foldback", Aliases: []string{"fold"}},
	{Name: "Asymmetric", Aliases: []string{"asym"}},
	{Name: "Sine", Aliases: []string{"sin"}},
	{Name: "Exponential", Aliases: []string{"exp"}},
}

// FilterTypeParameter creates a filter type selector
func FilterTypeParameter(id ID, name string) *Builder[int, *EnumParameter] {
	return Choice(id, name, FilterTypeOptions)
}

// DistortionTypeParameter creates a distortion type selector
func DistortionTypeParameter(id ID, name string) *Builder[int, *EnumParameter] {
	return Choice(id, name, DistortionTypeOptions)
}

// WaveshaperCurveParameter creates a waveshaper curve selector
func WaveshaperCurveParameter(id ID, name string) *Builder[int, *EnumParameter] {
	return Choice(id, name, WaveshaperCurveOptions)
}
