package bloodsugar

// Band is the clinical severity class of a single glucose value.
type Band string

const (
	BandLow      Band = "low"
	BandNormal   Band = "normal"
	BandHigh     Band = "high"
	BandVeryHigh Band = "very-high"
)

// Bands lists every band from lowest to highest.
var Bands = []Band{BandLow, BandNormal, BandHigh, BandVeryHigh}

// Glucose thresholds in mg/dL.
const (
	ThresholdLow      = 70
	ThresholdHigh     = 180
	ThresholdVeryHigh = 250
)

// ColorToken names a semantic color. Themes map tokens to concrete colors.
type ColorToken string

const (
	TokenInfo    ColorToken = "info"
	TokenSuccess ColorToken = "success"
	TokenWarning ColorToken = "warning"
	TokenDanger  ColorToken = "danger"
)

// Classify determines the band for a glucose value.
func Classify(mgdl int) Band {
	if mgdl < ThresholdLow {
		return BandLow
	}
	if mgdl <= ThresholdHigh {
		return BandNormal
	}
	if mgdl <= ThresholdVeryHigh {
		return BandHigh
	}
	return BandVeryHigh
}

// Tag returns the short machine tag of the band.
func (b Band) Tag() string {
	return string(b)
}

// Label returns the human label of the band.
func (b Band) Label() string {
	switch b {
	case BandLow:
		return "Low"
	case BandNormal:
		return "Normal"
	case BandHigh:
		return "High"
	case BandVeryHigh:
		return "Very High"
	default:
		return string(b)
	}
}

// Color returns the color token associated with the band.
func (b Band) Color() ColorToken {
	switch b {
	case BandLow:
		return TokenInfo
	case BandNormal:
		return TokenSuccess
	case BandHigh:
		return TokenWarning
	default:
		return TokenDanger
	}
}

// ParseBand parses a band tag. The second return is false for unknown tags.
func ParseBand(tag string) (Band, bool) {
	for _, b := range Bands {
		if string(b) == tag {
			return b, true
		}
	}
	return "", false
}

// Control is the qualitative rating of a mean glucose value.
// It is a separate scale from Band.
type Control string

const (
	ControlExcellent        Control = "excellent"
	ControlGood             Control = "good"
	ControlRegular          Control = "regular"
	ControlNeedsImprovement Control = "needs-improvement"
)

// ControlLevel rates a mean glucose value.
func ControlLevel(mean float64) Control {
	switch {
	case mean < 100:
		return ControlExcellent
	case mean < 130:
		return ControlGood
	case mean < 150:
		return ControlRegular
	default:
		return ControlNeedsImprovement
	}
}

// Label returns the human label of the control rating.
func (c Control) Label() string {
	switch c {
	case ControlExcellent:
		return "Excellent glycemic control"
	case ControlGood:
		return "Good glycemic control"
	case ControlRegular:
		return "Regular glycemic control"
	case ControlNeedsImprovement:
		return "Glycemic control needs improvement"
	default:
		return string(c)
	}
}

// MgdlToMmol converts mg/dL to mmol/L.
func MgdlToMmol(mgdl int) float64 {
	return float64(int(float64(mgdl)/18.0182*10+0.5)) / 10.0
}
