package param

import (
	"math"
	"strconv"
	"strings"
)

// Formatter converts plain values to and from display text. ValueToString
// must be stable: the same value always yields the same string. StringToValue
// reports false on any malformed input and must never panic.
type Formatter[T any] interface {
	ValueToString(value T) string
	StringToValue(text string) (T, bool)
}

// FormatterFuncs adapts a pair of functions to Formatter. A nil Parse
// rejects all text.
type FormatterFuncs[T any] struct {
	Format func(T) string
	Parse  func(string) (T, bool)
}

func (f FormatterFuncs[T]) ValueToString(value T) string {
	return f.Format(value)
}

func (f FormatterFuncs[T]) StringToValue(text string) (T, bool) {
	if f.Parse == nil {
		var zero T
		return zero, false
	}
	return f.Parse(text)
}

// IntFormatter prints integers followed by a unit suffix.
type IntFormatter struct {
	unit string
}

// NewIntFormatter creates an integer formatter. The unit is appended verbatim,
// so include a leading space if one is wanted.
func NewIntFormatter(unit string) *IntFormatter {
	return &IntFormatter{unit: unit}
}

func (f *IntFormatter) ValueToString(value int64) string {
	return strconv.FormatInt(value, 10) + f.unit
}

func (f *IntFormatter) StringToValue(text string) (int64, bool) {
	v, err := strconv.ParseInt(stripUnit(text, f.unit), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FloatFormatter prints floats with a fixed precision followed by a unit.
// A negative precision prints the shortest text that parses back exactly.
type FloatFormatter struct {
	precision int
	unit      string
}

// NewFloatFormatter creates a float formatter.
func NewFloatFormatter(precision int, unit string) *FloatFormatter {
	return &FloatFormatter{precision: precision, unit: unit}
}

func (f *FloatFormatter) ValueToString(value float64) string {
	return formatFloat(value, f.precision) + f.unit
}

func (f *FloatFormatter) StringToValue(text string) (float64, bool) {
	return parseFinite(stripUnit(text, f.unit))
}

// BoolFormatter prints a pair of labels, "On"/"Off" by default.
type BoolFormatter struct {
	on  string
	off string
}

// NewBoolFormatter creates a formatter with custom labels.
func NewBoolFormatter(on, off string) *BoolFormatter {
	return &BoolFormatter{on: on, off: off}
}

func (f *BoolFormatter) labels() (string, string) {
	on, off := f.on, f.off
	if on == "" {
		on = "On"
	}
	if off == "" {
		off = "Off"
	}
	return on, off
}

func (f *BoolFormatter) ValueToString(value bool) string {
	on, off := f.labels()
	if value {
		return on
	}
	return off
}

func (f *BoolFormatter) StringToValue(text string) (bool, bool) {
	on, off := f.labels()
	s := strings.TrimSpace(text)
	switch {
	case strings.EqualFold(s, on):
		return true, true
	case strings.EqualFold(s, off):
		return false, true
	}
	switch strings.ToLower(s) {
	case "on", "yes", "true", "1":
		return true, true
	case "off", "no", "false", "0":
		return false, true
	}
	return false, false
}

// ChoiceOption is one entry of an enumerated parameter.
type ChoiceOption struct {
	Name    string
	Aliases []string
}

// EnumFormatter prints option names and parses names or aliases,
// ignoring case.
type EnumFormatter struct {
	options []ChoiceOption
}

// NewEnumFormatter creates a formatter over options. The slice is copied.
func NewEnumFormatter(options []ChoiceOption) *EnumFormatter {
	return &EnumFormatter{options: append([]ChoiceOption(nil), options...)}
}

// Names returns the option names in index order.
func (f *EnumFormatter) Names() []string {
	names := make([]string, len(f.options))
	for i, opt := range f.options {
		names[i] = opt.Name
	}
	return names
}

func (f *EnumFormatter) ValueToString(value int) string {
	if value >= 0 && value < len(f.options) {
		return f.options[value].Name
	}
	return strconv.Itoa(value)
}

func (f *EnumFormatter) StringToValue(text string) (int, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	for i, opt := range f.options {
		if strings.EqualFold(s, opt.Name) {
			return i, true
		}
		for _, alias := range opt.Aliases {
			if strings.EqualFold(s, alias) {
				return i, true
			}
		}
	}
	return 0, false
}

// FrequencyFormatter formats frequency values with Hz/kHz
type FrequencyFormatter struct{}

func (FrequencyFormatter) ValueToString(hz float64) string {
	if hz >= 1000 {
		return formatFloat(hz/1000, 2) + " kHz"
	}
	return formatFloat(hz, 1) + " Hz"
}

func (FrequencyFormatter) StringToValue(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if hasSuffixFold(s, "khz") {
		v, ok := parseFinite(s[:len(s)-3])
		return v * 1000, ok
	}
	if hasSuffixFold(s, "hz") {
		s = s[:len(s)-2]
	}
	return parseFinite(s)
}

// DecibelFormatter formats dB values. Values at or below Floor print as -∞.
type DecibelFormatter struct {
	Floor float64
}

func (f DecibelFormatter) ValueToString(db float64) string {
	if f.Floor != 0 && db <= f.Floor {
		return "-∞ dB"
	}
	return formatFloat(db, 1) + " dB"
}

func (f DecibelFormatter) StringToValue(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if strings.Contains(s, "∞") || strings.Contains(strings.ToLower(s), "inf") {
		if f.Floor == 0 {
			return 0, false
		}
		return f.Floor, true
	}
	return parseFinite(stripUnit(s, "dB"))
}

// PercentFormatter formats percentage values
type PercentFormatter struct{}

func (PercentFormatter) ValueToString(value float64) string {
	return formatFloat(value, 0) + "%"
}

func (PercentFormatter) StringToValue(text string) (float64, bool) {
	return parseFinite(stripUnit(text, "%"))
}

// TimeFormatter formats millisecond values, switching to seconds above 1000 ms.
type TimeFormatter struct{}

func (TimeFormatter) ValueToString(ms float64) string {
	if ms >= 1000 {
		return formatFloat(ms/1000, 2) + " s"
	}
	return formatFloat(ms, 1) + " ms"
}

func (TimeFormatter) StringToValue(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasSuffix(s, "µs"):
		v, ok := parseFinite(strings.TrimSuffix(s, "µs"))
		return v / 1000, ok
	case hasSuffixFold(s, "us"):
		v, ok := parseFinite(s[:len(s)-2])
		return v / 1000, ok
	case hasSuffixFold(s, "ms"):
		return parseFinite(s[:len(s)-2])
	case hasSuffixFold(s, "s"):
		v, ok := parseFinite(s[:len(s)-1])
		return v * 1000, ok
	}
	return parseFinite(s)
}

// RatioFormatter formats ratio values
type RatioFormatter struct{}

func (RatioFormatter) ValueToString(value float64) string {
	return formatFloat(value, 1) + ":1"
}

func (RatioFormatter) StringToValue(text string) (float64, bool) {
	return parseFinite(stripUnit(text, ":1"))
}

// PanFormatter formats pan positions in [-100, 100] as L/C/R.
type PanFormatter struct{}

func (PanFormatter) ValueToString(pan float64) string {
	switch {
	case math.Abs(pan) < 0.5:
		return "C"
	case pan < 0:
		return formatFloat(-pan, 0) + "L"
	}
	return formatFloat(pan, 0) + "R"
}

func (PanFormatter) StringToValue(text string) (float64, bool) {
	s := strings.ToUpper(strings.TrimSpace(text))
	switch {
	case s == "C" || s == "CENTER":
		return 0, true
	case strings.HasSuffix(s, "L"):
		v, ok := parseFinite(strings.TrimSuffix(strings.TrimSuffix(s, "L"), "%"))
		return -v, ok
	case strings.HasSuffix(s, "R"):
		return parseFinite(strings.TrimSuffix(strings.TrimSuffix(s, "R"), "%"))
	}
	return parseFinite(strings.TrimSuffix(s, "%"))
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var noteOffsets = map[string]int64{
	"C": 0, "B#": 0,
	"C#": 1, "DB": 1,
	"D": 2,
	"D#": 3, "EB": 3,
	"E": 4, "FB": 4,
	"F": 5, "E#": 5,
	"F#": 6, "GB": 6,
	"G": 7,
	"G#": 8, "AB": 8,
	"A": 9,
	"A#": 10, "BB": 10,
	"B": 11, "CB": 11,
}

// NoteFormatter formats MIDI note numbers as note names (60 is C4).
type NoteFormatter struct{}

func (NoteFormatter) ValueToString(note int64) string {
	octave := note/12 - 1
	idx := note % 12
	if idx < 0 {
		idx += 12
		octave--
	}
	return noteNames[idx] + strconv.FormatInt(octave, 10)
}

func (NoteFormatter) StringToValue(text string) (int64, bool) {
	s := strings.ToUpper(strings.TrimSpace(text))
	octaveStart := strings.IndexAny(s, "-0123456789")
	if octaveStart <= 0 {
		return 0, false
	}
	offset, ok := noteOffsets[s[:octaveStart]]
	if !ok {
		return 0, false
	}
	octave, err := strconv.ParseInt(s[octaveStart:], 10, 64)
	if err != nil || octave < -2 || octave > 20 {
		return 0, false
	}
	return (octave+1)*12 + offset, true
}

func formatFloat(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if s == "-0" || strings.HasPrefix(s, "-0.") && strings.Trim(s[3:], "0") == "" {
		// Avoid printing negative zero.
		s = s[1:]
	}
	return s
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func stripUnit(text, unit string) string {
	s := strings.TrimSpace(text)
	u := strings.TrimSpace(unit)
	if u != "" && hasSuffixFold(s, u) {
		s = strings.TrimSpace(s[:len(s)-len(u)])
	}
	return s
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}
