package model

import "math"

// MaxDependentSlots is the number of dependent-age columns in the input table.
const MaxDependentSlots = 11

// ComponentImpact holds one reform component's pre-computed effect on a
// household: the post-reform tax liabilities and the net-income delta
// attributable to that component alone.
type ComponentImpact struct {
	FederalTaxAfter float64
	StateTaxAfter   float64
	NetIncomeDelta  float64
}

// Household is one row of the microsimulation output. Numeric fields that
// were blank in the source are NaN, not zero; ranking and filtering exclude
// NaN rows instead of treating them as zeros.
type Household struct {
	ID            string
	State         string
	AgeOfHead     float64
	IsMarried     bool
	AgeOfSpouse   float64
	NumDependents float64

	// DependentSlots[i] holds the "Age of Dependent i+1" column. NaN or a
	// non-positive value means no dependent occupies the slot.
	DependentSlots [MaxDependentSlots]float64

	EmploymentIncome     float64
	SelfEmploymentIncome float64
	TipIncome            float64
	OvertimeIncome       float64
	CapitalGains         float64

	Weight             float64
	BaselineFederalTax float64
	BaselineNetIncome  float64
	StateIncomeTax     float64
	PropertyTaxes      float64

	// Impacts is aligned with the catalog the record was loaded against:
	// Impacts[i] belongs to catalog component i.
	Impacts []ComponentImpact

	TotalFederalTaxChange float64
	PctFederalTaxChange   float64
	TotalNetIncomeChange  float64
	PctNetIncomeChange    float64
	TotalStateTaxChange   float64
	PctStateTaxChange     float64
}

// DependentAges returns the ages of present dependents in slot order,
// skipping vacant slots.
func (h *Household) DependentAges() []float64 {
	var ages []float64
	for _, age := range h.DependentSlots {
		if !math.IsNaN(age) && age > 0 {
			ages = append(ages, age)
		}
	}
	return ages
}

// IncomeSource is a named income amount.
type IncomeSource struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// IncomeSources returns the household's income sources in display order,
// including zero and missing amounts. Callers that only want sources the
// household actually has filter to Amount > 0.
func (h *Household) IncomeSources() []IncomeSource {
	return []IncomeSource{
		{Name: "Employment Income", Amount: h.EmploymentIncome},
		{Name: "Self-Employment Income", Amount: h.SelfEmploymentIncome},
		{Name: "Tip Income", Amount: h.TipIncome},
		{Name: "Overtime Income", Amount: h.OvertimeIncome},
		{Name: "Capital Gains", Amount: h.CapitalGains},
	}
}
