package query

import "github.com/paradoxgg/eu4save/model"

// manaShiftVersion is the savegame_version.second at or above which the
// post-1.31 index layout applies (§4.6.5).
const manaShiftVersion = 31

// manaShiftThreshold is the last index left untouched by the 1.31 shift;
// every index strictly greater than this one moves by one slot (§4.6.5, §9
// "applied only for indices ≥ 26").
const manaShiftThreshold = 25

// shiftedIndex maps a stable, version-independent field index to its raw
// array offset, applying the single-slot shift introduced at savegame
// version 1.31 for indices past manaShiftThreshold.
func shiftedIndex(idx, savegameMinor int) int {
	if savegameMinor >= manaShiftVersion && idx > manaShiftThreshold {
		return idx + 1
	}

	return idx
}

// IncomeAt reads one positional entry from a country's raw income ledger
// array, applying the version-dependent index shift (§4.6.5).
func IncomeAt(co *model.Country, idx, savegameMinor int) float64 {
	return atShiftedIndex(co.Income, idx, savegameMinor)
}

// ExpenseAt reads one positional entry from a country's raw expense ledger
// array, applying the version-dependent index shift (§4.6.5).
func ExpenseAt(co *model.Country, idx, savegameMinor int) float64 {
	return atShiftedIndex(co.Expense, idx, savegameMinor)
}

// ManaSpentAt sums the ADM/DIP/MIL raw spend arrays at one positional
// category index, applying the version-dependent index shift (§4.6.5).
func ManaSpentAt(co *model.Country, idx, savegameMinor int) float64 {
	var sum float64
	for _, arr := range co.ManaSpent {
		sum += atShiftedIndex(arr, idx, savegameMinor)
	}

	return sum
}

func atShiftedIndex(arr []float64, idx, savegameMinor int) float64 {
	shifted := shiftedIndex(idx, savegameMinor)
	if shifted < 0 || shifted >= len(arr) {
		return 0
	}

	return arr[shifted]
}
