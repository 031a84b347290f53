package models

// ReferenceRow is one parameter's limits across the water classes
type ReferenceRow struct {
	Parameter string   `json:"parameter"`
	Unit      string   `json:"unit"`
	Limits    []string `json:"limits"`
}

// ReferenceTable is the clean-water quality standard shown next to results
type ReferenceTable struct {
	Title   string         `json:"title"`
	Classes []string       `json:"classes"`
	Rows    []ReferenceRow `json:"rows"`
}

// WaterClassReference returns the Kepmen LH No. 115/2003 class limits
func WaterClassReference() ReferenceTable {
	return ReferenceTable{
		Title:   "Clean water quality standard (Kepmen LH No. 115/2003)",
		Classes: []string{"Class I (Drinking water)", "Class II (Agriculture)", "Class III (Fisheries)"},
		Rows: []ReferenceRow{
			{Parameter: "TDS", Unit: "mg/L", Limits: []string{"500", "1000", "1000"}},
			{Parameter: "pH", Unit: "-", Limits: []string{"6-9", "6-9", "6-9"}},
			{Parameter: "DO", Unit: "mg/L", Limits: []string{"6", "4", "4"}},
			{Parameter: "BOD", Unit: "mg/L", Limits: []string{"2", "6", "3"}},
			{Parameter: "COD", Unit: "mg/L", Limits: []string{"10", "25", "20"}},
			{Parameter: "Nitrat", Unit: "mg/L", Limits: []string{"10", "20", "10"}},
		},
	}
}
