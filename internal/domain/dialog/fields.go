package dialog

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Well-known field keys
const (
	FieldModifier     = "modifier"
	FieldSuccessLevel = "successLevel"
	FieldDifficulty   = "difficulty"
	FieldState        = "state"
	FieldRollMode     = "rollMode"
)

// Difficulty is the named difficulty of a test
type Difficulty string

const (
	DifficultyVeryEasy    Difficulty = "veryEasy"
	DifficultyEasy        Difficulty = "easy"
	DifficultyRoutine     Difficulty = "routine"
	DifficultyChallenging Difficulty = "challenging"
	DifficultyDifficult   Difficulty = "difficult"
	DifficultyHard        Difficulty = "hard"
	DifficultyVeryHard    Difficulty = "veryHard"
)

// DefaultDifficulty is used when neither the caller nor the user picks one
const DefaultDifficulty = DifficultyChallenging

// DifficultyInfo describes a difficulty for display
type DifficultyInfo struct {
	Key      Difficulty
	Name     string
	Modifier int
}

// Difficulties lists the known difficulties from easiest to hardest
var Difficulties = []DifficultyInfo{
	{Key: DifficultyVeryEasy, Name: "Very Easy", Modifier: 60},
	{Key: DifficultyEasy, Name: "Easy", Modifier: 40},
	{Key: DifficultyRoutine, Name: "Routine", Modifier: 20},
	{Key: DifficultyChallenging, Name: "Challenging", Modifier: 0},
	{Key: DifficultyDifficult, Name: "Difficult", Modifier: -10},
	{Key: DifficultyHard, Name: "Hard", Modifier: -20},
	{Key: DifficultyVeryHard, Name: "Very Hard", Modifier: -30},
}

// Info returns the display info for the difficulty
func (d Difficulty) Info() (DifficultyInfo, bool) {
	for _, info := range Difficulties {
		if info.Key == d {
			return info, true
		}
	}
	return DifficultyInfo{}, false
}

// RollMode controls who sees the roll
type RollMode string

const (
	RollModePublic RollMode = "publicroll"
	RollModeGM     RollMode = "gmroll"
	RollModeBlind  RollMode = "blindroll"
	RollModeSelf   RollMode = "selfroll"
)

// DefaultRollMode is used when no roll mode is configured
const DefaultRollMode = RollModePublic

// RollModes lists the known roll modes
var RollModes = []RollMode{RollModePublic, RollModeGM, RollModeBlind, RollModeSelf}

// Fields maps a field name to its value. Values are int, string or bool.
type Fields map[string]any

// DefaultFields returns the hard defaults every pass starts from
func DefaultFields(rollMode RollMode) Fields {
	if rollMode == "" {
		rollMode = DefaultRollMode
	}
	return Fields{
		FieldModifier:     0,
		FieldSuccessLevel: 0,
		FieldDifficulty:   string(DefaultDifficulty),
		FieldState:        string(StateNone),
		FieldRollMode:     string(rollMode),
	}
}

// Clone returns a shallow copy of the fields
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Keys returns the field names in sorted order
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Int returns the numeric value of a field, or 0
func (f Fields) Int(key string) int {
	if v, ok := f[key].(int); ok {
		return v
	}
	return 0
}

// String returns the string value of a field, or ""
func (f Fields) String(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the boolean value of a field, or false
func (f Fields) Bool(key string) bool {
	if v, ok := f[key].(bool); ok {
		return v
	}
	return false
}

// Merge copies every value of other onto f, replacing existing values
func (f Fields) Merge(other Fields) {
	for k, v := range other {
		if n, ok := Normalize(v); ok {
			f[k] = n
			continue
		}
		f[k] = v
	}
}

// ApplyEntry merges a single user entry onto f. Strings and booleans replace
// the field, numbers are added to it. An entry whose type differs from a
// numeric field is ignored. It reports whether the entry was used.
func (f Fields) ApplyEntry(key string, value any) bool {
	n, ok := Normalize(value)
	if !ok {
		return false
	}

	switch v := n.(type) {
	case string, bool:
		if _, isInt := f[key].(int); isInt {
			return false
		}
		f[key] = v
	case int:
		current, exists := f[key]
		if !exists {
			f[key] = v
			return true
		}
		ci, isInt := current.(int)
		if !isInt {
			return false
		}
		f[key] = ci + v
	}
	return true
}

// Normalize converts a value into one of the supported field types.
// Every Go numeric type becomes int; fractions and values outside the int
// range are rejected.
func Normalize(value any) (any, bool) {
	switch v := value.(type) {
	case string, bool, int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return nil, false
		}
		return int(v), true
	case uint:
		return unsignedToInt(uint64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return unsignedToInt(uint64(v))
	case uint64:
		return unsignedToInt(v)
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	default:
		return nil, false
	}
}

func unsignedToInt(u uint64) (any, bool) {
	if u > math.MaxInt {
		return nil, false
	}
	return int(u), true
}

func floatToInt(f float64) (any, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which no int can hold
	if f < math.MinInt || f >= math.MaxInt {
		return nil, false
	}
	return int(f), true
}

// NormalizeFields returns a copy of f with every value normalized. Values
// that cannot be normalized are dropped.
func NormalizeFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if n, ok := Normalize(v); ok {
			out[k] = n
		}
	}
	return out
}

// ParseInput converts raw form input into a field value: text holding a
// whole number that fits an int becomes an int, everything else stays a
// string.
func ParseInput(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return raw
	}
	if i, err := strconv.Atoi(trimmed); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		if n, ok := floatToInt(f); ok {
			return n
		}
	}
	return raw
}
