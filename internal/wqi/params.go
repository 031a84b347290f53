package wqi

// Variant identifies a scoring scheme
type Variant string

const (
	// VariantWPI is the Water Pollution Index: 0 = clean, 1 = heavily polluted
	VariantWPI Variant = "wpi"
	// VariantWQI is the Water Quality Index: 100 = clean, 0 = heavily polluted
	VariantWQI Variant = "wqi"
)

// ParameterSpec describes one water-quality parameter within a variant.
// Name, Unit and the Input* fields are display hints for forms; scoring only
// reads Key, Weight and Rule.
type ParameterSpec struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Weight float64 `json:"weight,omitempty"`
	Rule   Rule    `json:"-"`

	InputMin     float64 `json:"input_min"`
	InputMax     float64 `json:"input_max"`
	InputDefault float64 `json:"input_default"`
}

// Normalize returns the parameter's score for a raw measurement
func (p ParameterSpec) Normalize(raw float64) float64 {
	return p.Rule.Score(raw)
}

// VariantSpec is the static configuration of one scoring variant
type VariantSpec struct {
	Variant     Variant
	Title       string
	Parameters  []ParameterSpec
	Aggregation Aggregation
	Bands       []Band
	// Declared score range. HigherIsWorse flips the polarity: WPI treats
	// ScoreMax as worst, WQI treats it as best.
	ScoreMin      float64
	ScoreMax      float64
	HigherIsWorse bool
}

// WPISpec returns the Water Pollution Index configuration (Kepmen LH No. 115/2003 weights)
func WPISpec() VariantSpec {
	return VariantSpec{
		Variant:     VariantWPI,
		Title:       "Water Pollution Index",
		Aggregation: WeightedSum,
		Parameters: []ParameterSpec{
			{Key: "TDS", Name: "Total Dissolved Solids", Unit: "mg/L", Weight: 0.17,
				Rule: RangeRule{Low: 400, High: 1000}, InputMin: 0, InputMax: 2000, InputDefault: 500},
			{Key: "pH", Name: "pH", Unit: "-", Weight: 0.11,
				Rule: DeviationRule{Center: 7.0, Span: 2.5}, InputMin: 0, InputMax: 14, InputDefault: 7.0},
			{Key: "DO", Name: "Dissolved Oxygen", Unit: "mg/L", Weight: 0.17,
				Rule: InverseRule{Divisor: 8.0}, InputMin: 0, InputMax: 15, InputDefault: 6.0},
			{Key: "BOD", Name: "Biochemical Oxygen Demand", Unit: "mg/L", Weight: 0.22,
				Rule: RangeRule{Low: 3, High: 12}, InputMin: 0, InputMax: 50, InputDefault: 5.0},
			{Key: "COD", Name: "Chemical Oxygen Demand", Unit: "mg/L", Weight: 0.19,
				Rule: RangeRule{Low: 10, High: 40}, InputMin: 0, InputMax: 100, InputDefault: 15.0},
			{Key: "Nitrat", Name: "Nitrate (NO3-)", Unit: "mg/L", Weight: 0.14,
				Rule: RangeRule{Low: 5, High: 20}, InputMin: 0, InputMax: 50, InputDefault: 10.0},
		},
		Bands: []Band{
			{Level: 1, Label: "Very good", Color: "#2ECC71", Lower: 0},
			{Level: 2, Label: "Good", Color: "#3498DB", Lower: 0.25},
			{Level: 3, Label: "Mild pollution", Color: "#F1C40F", Lower: 0.5},
			{Level: 4, Label: "Heavy pollution", Color: "#E74C3C", Lower: 0.75},
		},
		ScoreMin:      0,
		ScoreMax:      1,
		HigherIsWorse: true,
	}
}

// WQISpec returns the Water Quality Index configuration (ideal value / tolerance bound)
func WQISpec() VariantSpec {
	return VariantSpec{
		Variant:     VariantWQI,
		Title:       "Water Quality Index",
		Aggregation: Mean,
		Parameters: []ParameterSpec{
			{Key: "pH", Name: "pH", Unit: "-",
				Rule: IdealRule{Ideal: 7.0, MaxDeviation: 9.0}, InputMin: 0, InputMax: 14, InputDefault: 7.0},
			{Key: "DO", Name: "Dissolved Oxygen", Unit: "mg/L",
				Rule: IdealRule{Ideal: 7.0, MaxDeviation: 0.0}, InputMin: 0, InputMax: 15, InputDefault: 7.0},
			{Key: "BOD", Name: "Biochemical Oxygen Demand", Unit: "mg/L",
				Rule: IdealRule{Ideal: 1.0, MaxDeviation: 10.0}, InputMin: 0, InputMax: 50, InputDefault: 1.0},
			{Key: "COD", Name: "Chemical Oxygen Demand", Unit: "mg/L",
				Rule: IdealRule{Ideal: 10.0, MaxDeviation: 80.0}, InputMin: 0, InputMax: 200, InputDefault: 10.0},
			{Key: "TSS", Name: "Total Suspended Solids", Unit: "mg/L",
				Rule: IdealRule{Ideal: 10.0, MaxDeviation: 200.0}, InputMin: 0, InputMax: 500, InputDefault: 10.0},
			{Key: "Nitrat", Name: "Nitrate (NO3-)", Unit: "mg/L",
				Rule: IdealRule{Ideal: 0.5, MaxDeviation: 10.0}, InputMin: 0, InputMax: 50, InputDefault: 0.5},
			{Key: "Fosfat", Name: "Phosphate (PO4)", Unit: "mg/L",
				Rule: IdealRule{Ideal: 0.1, MaxDeviation: 5.0}, InputMin: 0, InputMax: 10, InputDefault: 0.1},
		},
		Bands: []Band{
			{Level: 1, Label: "Very good", Color: "#2ECC71", Lower: 80},
			{Level: 2, Label: "Good", Color: "#3498DB", Lower: 65},
			{Level: 3, Label: "Mildly polluted", Color: "#F1C40F", Lower: 45},
			{Level: 4, Label: "Moderately polluted", Color: "#E67E22", Lower: 25},
			{Level: 5, Label: "Heavily polluted", Color: "#E74C3C", Lower: 0},
		},
		ScoreMin:      0,
		ScoreMax:      100,
		HigherIsWorse: false,
	}
}

// Keys returns the parameter keys in declaration order
func (s VariantSpec) Keys() []string {
	keys := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		keys[i] = p.Key
	}
	return keys
}
