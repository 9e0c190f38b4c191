package query

import "github.com/paradoxgg/eu4save/model"

// InheritanceInput collects the raw game-state values the inheritance
// formula combines (§4.6.6).
type InheritanceInput struct {
	NationID            uint32
	EmperorRulerID      uint32
	CuriaNationID       uint32
	OwnRulerID          uint32
	PreviousRulersIDSum uint64
	CapitalProvince     model.ProvinceId
	ProvinceCount       int
	IsCatholic          bool
	CurrentYear         int
}

// NewInheritanceInput builds an InheritanceInput for co, resolving the
// current HRE emperor and Curia controller through gs.
func NewInheritanceInput(co *model.Country, gs *model.GameState, emperor, curiaController model.CountryTag, currentYear int) InheritanceInput {
	in := InheritanceInput{
		NationID:            co.ObjID.ID,
		OwnRulerID:          co.RulerID.ID,
		PreviousRulersIDSum: co.PreviousRulersIDSum,
		CapitalProvince:     co.Capital,
		ProvinceCount:       co.ProvinceCount,
		IsCatholic:          co.Religion == "catholic",
		CurrentYear:         currentYear,
	}

	if emperorCo, ok := gs.CountryByTag(emperor); ok {
		in.EmperorRulerID = emperorCo.RulerID.ID
	}
	if curiaCo, ok := gs.CountryByTag(curiaController); ok {
		in.CuriaNationID = curiaCo.ObjID.ID
	}

	return in
}

// InheritanceResult is the computed T-value, inheritance value, and the
// three forward-looking year windows (§4.6.6).
type InheritanceResult struct {
	TValue  int
	Value   int
	Windows [3][2]int // one [startYear, endYear] window per residue 0, 75, 80
}

// inheritanceResidues are the three century-residues windows are computed
// against (§4.6.6).
var inheritanceResidues = [3]int{0, 75, 80}

// ComputeInheritance applies the deterministic residue formula (§4.6.6): a
// subtotal of identifying ids plus the current year, reduced mod 100 for
// the T-value; the inheritance value further subtracts the Curia
// controller's nation id for a Catholic country.
func ComputeInheritance(in InheritanceInput) InheritanceResult {
	subtotal := int64(in.NationID) + int64(in.EmperorRulerID) + int64(in.CuriaNationID) +
		int64(in.OwnRulerID) + int64(in.PreviousRulersIDSum) + int64(in.CapitalProvince) + int64(in.ProvinceCount)

	tValue := int((subtotal + int64(in.CurrentYear)) % 100)
	if tValue < 0 {
		tValue += 100
	}

	value := tValue
	if in.IsCatholic {
		value -= int(in.CuriaNationID)
	}

	var windows [3][2]int
	for i, residue := range inheritanceResidues {
		year := inheritanceWindowYear(residue, in.CurrentYear)
		windows[i] = [2]int{year, year}
	}

	return InheritanceResult{TValue: tValue, Value: value, Windows: windows}
}

// inheritanceWindowYear finds the year, nearest to and not before
// currentYear, whose value mod 100 equals residue (§4.6.6 "adjusted by the
// sign of year + offset - current_year to keep them forward-looking within
// a century").
func inheritanceWindowYear(residue, currentYear int) int {
	base := (currentYear/100)*100 + residue
	if base < currentYear {
		base += 100
	}

	return base
}
