package query

import "github.com/paradoxgg/eu4save/model"

// LedgerEntry is one (tag, year, value) datum of a computed annual series
// (§4.6.4).
type LedgerEntry struct {
	Tag   model.CountryTag
	Year  int
	Value float64
}

// ChainSegment is one tag's tenure within a nation-chain, as years
// [StartYear, EndYear] inclusive.
type ChainSegment struct {
	Tag                model.CountryTag
	StartYear, EndYear int
}

// BuildChainSegments splits a nation-chain's lifetime into per-tag year
// ranges, one segment per tag it was stored under, bounded by start and end
// (§4.6.4 "Build per nation-chain").
func BuildChainSegments(ne *NationEvents, start, end model.Date) []ChainSegment {
	if ne == nil {
		return nil
	}

	tag := ne.Initial
	curStart := int(start.Year)

	var segs []ChainSegment
	for _, ev := range ne.Events {
		if ev.Kind != NationEventTagSwitch {
			continue
		}
		switchYear := int(ev.Date.Year)
		segs = append(segs, ChainSegment{Tag: tag, StartYear: curStart, EndYear: switchYear})
		tag = ev.Tag
		curStart = switchYear
	}
	segs = append(segs, ChainSegment{Tag: tag, StartYear: curStart, EndYear: int(end.Year)})

	return segs
}

// annualizedChannels are the ledger channels whose raw values are monthly
// and must be divided by 12 to produce an annual figure (§4.6.4).
var annualizedChannels = map[string]bool{"income": true}

// ComputeLedgerSeries builds one nation-chain's annual series for channel,
// clipping each chain segment's tag-datum to the segment's year range and
// zero-padding years the raw datum doesn't carry (§4.6.4).
func ComputeLedgerSeries(gs *model.GameState, ne *NationEvents, channel string, start, end model.Date) []LedgerEntry {
	perTag := gs.Ledger[channel]
	segments := BuildChainSegments(ne, start, end)
	annualize := annualizedChannels[channel]

	var out []LedgerEntry
	for _, seg := range segments {
		datum, ok := perTag[seg.Tag]
		if !ok {
			continue
		}

		byYear := make(map[int]float64, len(datum.Years))
		for i, yr := range datum.Years {
			if i < len(datum.Values) {
				byYear[yr] = datum.Values[i]
			}
		}

		for yr := seg.StartYear; yr <= seg.EndYear; yr++ {
			v := byYear[yr]
			if annualize {
				v /= 12
			}
			out = append(out, LedgerEntry{Tag: seg.Tag, Year: yr, Value: v})
		}
	}

	return out
}
