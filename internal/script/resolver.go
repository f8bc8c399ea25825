package script

import "starops-sim/internal/mission"

// Resolve expands a subject group into the concrete set of craft it
// currently references. Explicit names resolve directly, squads expand to
// every instantiated member, teams to every craft currently on the team.
// Resolution is recomputed on every call since team membership changes at
// runtime. Destroyed and away craft are included; conditions and actions
// apply their own liveness rules. An empty group yields an empty set.
func Resolve(g mission.SubjectGroup, w World) []Craft {
	var out []Craft
	seen := make(map[string]bool)
	add := func(c Craft) {
		if c == nil || seen[c.Name()] {
			return
		}
		seen[c.Name()] = true
		out = append(out, c)
	}

	for _, name := range g.Spacecraft {
		if c, ok := w.CraftByName(name); ok {
			add(c)
		}
	}
	for _, squad := range g.Squads {
		for _, c := range w.SquadCraft(squad) {
			add(c)
		}
	}
	for _, team := range g.Teams {
		for _, c := range w.TeamCraft(team) {
			add(c)
		}
	}
	return out
}

// resolveNameSet resolves a group to a membership set keyed by craft name.
func resolveNameSet(g mission.SubjectGroup, w World) map[string]bool {
	craft := Resolve(g, w)
	set := make(map[string]bool, len(craft))
	for _, c := range craft {
		set[c.Name()] = true
	}
	return set
}
