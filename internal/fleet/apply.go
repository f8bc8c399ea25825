package fleet

import (
	"time"

	"starops-sim/internal/mission"
	"starops-sim/internal/script"
)

// ApplyAction applies a dispatched scripting action to the resolved
// subjects. Effects are visible immediately, before the next Step consumes
// them. Unknown or already-destroyed subjects are skipped.
func (w *World) ApplyAction(a *mission.Action, subjects []script.Craft, now time.Duration) {
	for _, ref := range subjects {
		s, ok := w.byName[ref.Name()]
		if !ok || s.IsDestroyed {
			continue
		}
		switch a.Kind {
		case mission.ActionCommand:
			w.applyCommand(s, a.Command, now)
		case mission.ActionSetProperties:
			w.applyProperties(s, a.Properties)
		case mission.ActionRepair:
			w.applyDelta(s, a.Properties, 1)
		case mission.ActionDamage:
			w.applyDelta(s, a.Properties, -1)
		}
	}
}

func (w *World) applyCommand(s *Spacecraft, p *mission.CommandParams, now time.Duration) {
	switch p.Command {
	case mission.CommandJump:
		if !s.jumping && !s.IsAway {
			s.jumping = true
			s.jumpDueMS = now.Milliseconds() + jumpWindupMS
		}
	case mission.CommandTarget:
		if t := w.nearestOf(s, p.Target); t != "" {
			w.setTarget(s, t)
		}
	case mission.CommandReachDistance:
		if t := w.nearestOf(s, p.Target); t != "" {
			s.standing = order{kind: orderReachDistance, target: t, distance: p.Distance}
		}
	}
}

// nearestOf picks the closest live member of a subject group.
func (w *World) nearestOf(s *Spacecraft, g mission.SubjectGroup) string {
	best := ""
	bestDist := -1.0
	for _, ref := range script.Resolve(g, w) {
		c, ok := w.byName[ref.Name()]
		if !ok || !c.Alive() || c.CraftName == s.CraftName {
			continue
		}
		d := Dist(s.Pos, c.Pos)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = c.CraftName
		}
	}
	return best
}

func (w *World) applyProperties(s *Spacecraft, p *mission.PropertyParams) {
	if p.Hull != nil {
		s.HullPct = clampPct(*p.Hull)
		if s.HullPct <= 0 {
			s.IsDestroyed = true
			s.TargetName = ""
		}
	}
	if p.Shield != nil {
		s.ShieldPct = clampPct(*p.Shield)
	}
	if p.Team != nil {
		s.TeamName = *p.Team
	}
	if p.FiringEnabled != nil {
		s.FiringEnabled = *p.FiringEnabled
	}
}

// applyDelta applies a relative repair (+1) or damage (-1) to hull and
// shield percentages.
func (w *World) applyDelta(s *Spacecraft, p *mission.PropertyParams, sign float64) {
	if p.Shield != nil {
		s.ShieldPct = clampPct(s.ShieldPct + sign**p.Shield)
	}
	if p.Hull != nil {
		s.HullPct = clampPct(s.HullPct + sign**p.Hull)
		if s.HullPct <= 0 {
			s.IsDestroyed = true
			s.TargetName = ""
		}
	}
}
