package fleet

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"starops-sim/internal/mission"
	"starops-sim/internal/script"
)

// Combat tuning. The battle model is deliberately simple: just enough
// behavior to exercise every scripted condition and command.
const (
	weaponRange       = 600.0
	weaponDamage      = 8.0
	collisionRadius   = 25.0
	jumpWindupMS      = 2000
	defaultSpeed      = 40.0
	squadSpreadRadius = 120.0
)

// World is the live craft registry. It implements script.World.
type World struct {
	craft   []*Spacecraft
	byName  map[string]*Spacecraft
	bySquad map[string][]*Spacecraft
	events  []script.CombatEvent
	rng     *rand.Rand
	nowMS   int64
}

// NewWorld instantiates every spacecraft spec of the mission. Squad specs
// spawn Count craft named "<Squad> 1".."<Squad> N" in a ring around the
// spec position.
func NewWorld(m *mission.Mission, seed int64) *World {
	w := &World{
		byName:  make(map[string]*Spacecraft),
		bySquad: make(map[string][]*Spacecraft),
		rng:     rand.New(rand.NewSource(seed)),
	}
	for _, spec := range m.Spacecraft {
		if spec.Name != "" {
			w.spawn(spec, spec.Name, Vec2{spec.Position.X, spec.Position.Y})
			continue
		}
		step := 2 * math.Pi / float64(spec.Count)
		for i := 1; i <= spec.Count; i++ {
			angle := float64(i-1) * step
			pos := Vec2{
				X: spec.Position.X + squadSpreadRadius*math.Cos(angle),
				Y: spec.Position.Y + squadSpreadRadius*math.Sin(angle),
			}
			w.spawn(spec, mission.SquadMemberName(spec.Squad, i), pos)
		}
	}
	return w
}

func (w *World) spawn(spec mission.SpacecraftSpec, name string, pos Vec2) {
	hull := spec.Hull
	if hull <= 0 {
		hull = 100
	}
	shield := spec.Shield
	if shield < 0 {
		shield = 0
	} else if spec.Shield == 0 {
		shield = 100
	}
	s := &Spacecraft{
		ID:            uuid.New().String(),
		CraftName:     name,
		SquadName:     spec.Squad,
		Class:         spec.Class,
		TeamName:      spec.Team,
		AI:            spec.AI,
		HullPct:       hull,
		ShieldPct:     shield,
		Pos:           pos,
		Heading:       spec.Heading,
		Speed:         defaultSpeed,
		FiringEnabled: true,
	}
	w.craft = append(w.craft, s)
	w.byName[name] = s
	if spec.Squad != "" {
		w.bySquad[spec.Squad] = append(w.bySquad[spec.Squad], s)
	}
}

// CraftByName implements script.World.
func (w *World) CraftByName(name string) (script.Craft, bool) {
	s, ok := w.byName[name]
	return s, ok
}

// SquadCraft implements script.World.
func (w *World) SquadCraft(squad string) []script.Craft {
	members := w.bySquad[squad]
	out := make([]script.Craft, 0, len(members))
	for _, s := range members {
		out = append(out, s)
	}
	return out
}

// TeamCraft implements script.World.
func (w *World) TeamCraft(team string) []script.Craft {
	var out []script.Craft
	for _, s := range w.craft {
		if s.TeamName == team {
			out = append(out, s)
		}
	}
	return out
}

// CombatEvents implements script.World. The slice is valid for the current
// tick only.
func (w *World) CombatEvents() []script.CombatEvent {
	return w.events
}

// Craft returns all spacecraft, in spawn order.
func (w *World) Craft() []*Spacecraft {
	return w.craft
}

// Lookup returns the named craft for mutation by the host.
func (w *World) Lookup(name string) (*Spacecraft, bool) {
	s, ok := w.byName[name]
	return s, ok
}

// AliveCount returns the number of craft still present and intact.
func (w *World) AliveCount() int {
	n := 0
	for _, s := range w.craft {
		if s.Alive() {
			n++
		}
	}
	return n
}

func (w *World) record(kind script.CombatEventKind, subject, other string) {
	w.events = append(w.events, script.CombatEvent{Kind: kind, Subject: subject, Other: other})
}

// Step advances the battle by dt at mission time now: jump completion,
// AI target selection, movement, weapon fire, and collision detection.
// Combat events recorded here are visible to the scripting engine for this
// tick only.
func (w *World) Step(now, dt time.Duration) {
	w.events = w.events[:0]
	w.nowMS = now.Milliseconds()

	for _, s := range w.craft {
		if !s.Alive() {
			continue
		}
		if s.jumping && w.nowMS >= s.jumpDueMS {
			s.jumping = false
			s.IsAway = true
			continue
		}
		w.selectTarget(s)
		w.move(s, dt.Seconds())
	}
	for _, s := range w.craft {
		if s.Alive() {
			w.fire(s)
		}
	}
	w.detectCollisions()
	w.recordTargeting()
}

// selectTarget picks the nearest live enemy for AI craft that have no
// usable target. Scripted targets set via a command are kept until they
// die or jump out.
func (w *World) selectTarget(s *Spacecraft) {
	if t, ok := w.byName[s.TargetName]; ok && t.Alive() {
		return
	}
	s.TargetName = ""
	if !s.AI || !s.FiringEnabled {
		return
	}
	best := ""
	bestDist := math.MaxFloat64
	for _, c := range w.craft {
		if !c.Alive() || c.TeamName == s.TeamName {
			continue
		}
		if d := Dist(s.Pos, c.Pos); d < bestDist {
			bestDist = d
			best = c.CraftName
		}
	}
	if best != "" {
		w.setTarget(s, best)
	}
}

func (w *World) setTarget(s *Spacecraft, target string) {
	if s.TargetName == target {
		return
	}
	s.TargetName = target
	w.record(script.EventTargetAcquired, target, s.CraftName)
}

// move steers toward a reach-distance order if one stands, otherwise
// closes on the current target to weapon range.
func (w *World) move(s *Spacecraft, dt float64) {
	var dest Vec2
	var want float64
	switch {
	case s.standing.kind == orderReachDistance:
		ref, ok := w.byName[s.standing.target]
		if !ok || ref.IsAway {
			s.standing = order{}
			return
		}
		dest = ref.Pos
		want = s.standing.distance
	case s.TargetName != "":
		t, ok := w.byName[s.TargetName]
		if !ok {
			return
		}
		dest = t.Pos
		want = weaponRange * 0.8
	default:
		return
	}
	delta := dest.Sub(s.Pos)
	gap := delta.Len() - want
	if math.Abs(gap) < 1 {
		return
	}
	dir := delta.Norm()
	if gap < 0 {
		dir = dir.Scale(-1)
		gap = -gap
	}
	stepLen := math.Min(s.Speed*dt, gap)
	s.Pos = s.Pos.Add(dir.Scale(stepLen))
	s.Heading = math.Atan2(dir.Y, dir.X)
}

// fire applies weapon damage to the current target when in range. Shields
// absorb before hull; hull reaching zero destroys the craft.
func (w *World) fire(s *Spacecraft) {
	if !s.FiringEnabled || s.TargetName == "" {
		return
	}
	t, ok := w.byName[s.TargetName]
	if !ok || !t.Alive() || Dist(s.Pos, t.Pos) > weaponRange {
		return
	}
	w.record(script.EventHit, t.CraftName, s.CraftName)
	w.applyDamage(t, weaponDamage, weaponDamage)
}

func (w *World) applyDamage(t *Spacecraft, shieldDmg, hullDmg float64) {
	if t.ShieldPct > 0 {
		t.ShieldPct = clampPct(t.ShieldPct - shieldDmg)
		return
	}
	t.HullPct = clampPct(t.HullPct - hullDmg)
	if t.HullPct <= 0 {
		t.IsDestroyed = true
		t.TargetName = ""
	}
}

func (w *World) detectCollisions() {
	for i, a := range w.craft {
		if !a.Alive() {
			continue
		}
		for _, b := range w.craft[i+1:] {
			if !b.Alive() {
				continue
			}
			if Dist(a.Pos, b.Pos) <= collisionRadius {
				w.record(script.EventCollision, a.CraftName, b.CraftName)
			}
		}
	}
}

func (w *World) recordTargeting() {
	for _, s := range w.craft {
		if !s.Alive() || s.TargetName == "" {
			continue
		}
		w.record(script.EventTargeted, s.TargetName, s.CraftName)
	}
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
