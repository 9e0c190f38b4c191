package query

import (
	"sort"

	"github.com/paradoxgg/eu4save/model"
)

// BuildingAction tags whether a BuildingEvent constructed or destroyed the
// named building.
type BuildingAction uint8

const (
	BuildingConstructed BuildingAction = iota + 1
	BuildingDestroyed
)

// BuildingEvent is one dated change to a province's building set (§4.6.7).
type BuildingEvent struct {
	Building string
	Date     model.Date
	Action   BuildingAction
}

// ProvinceBuildingHistory unions a province's initial buildings (present
// with no date, emitted first) with its dated Constructed/Destroyed events,
// sorted stably by date (§4.6.7).
func ProvinceBuildingHistory(p *model.Province) []BuildingEvent {
	out := make([]BuildingEvent, 0, len(p.History.InitialBuildings)+len(p.History.Events))

	names := make([]string, 0, len(p.History.InitialBuildings))
	for name := range p.History.InitialBuildings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, BuildingEvent{Building: name, Action: BuildingConstructed})
	}

	for _, de := range p.History.Events {
		switch de.Event.Kind {
		case model.ProvinceEventBuildingConstructed:
			out = append(out, BuildingEvent{Building: de.Event.Building, Date: de.Date, Action: BuildingConstructed})
		case model.ProvinceEventBuildingDestroyed:
			out = append(out, BuildingEvent{Building: de.Event.Building, Date: de.Date, Action: BuildingDestroyed})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Compare(out[j].Date) < 0 })

	return out
}
