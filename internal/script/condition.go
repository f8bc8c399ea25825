package script

import (
	"math"
	"time"

	"starops-sim/internal/mission"
)

// conditionState is per-condition persistent memory, owned by the trigger
// runtime that contains the condition. Only repeat timers need it today.
type conditionState struct {
	started bool
	base    time.Duration
	dueAt   time.Duration
	fires   int
}

func millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// evalCondition evaluates one condition against the current tick. The
// mission is validated at load, so kind params are assumed present.
func (e *Engine) evalCondition(c *mission.Condition, cs *conditionState) bool {
	switch c.Kind {
	case mission.ConditionDestroyed:
		subjects := Resolve(c.Subjects, e.world)
		// every referenced subject already gone counts as destroyed
		if len(subjects) == 0 {
			return true
		}
		return quantify(c.Which, subjects, func(c Craft) bool { return c.Destroyed() })

	case mission.ConditionCount:
		live := 0
		for _, s := range Resolve(c.Subjects, e.world) {
			if !s.Destroyed() && !s.Away() {
				live++
			}
		}
		return compareCount(c.Count.Relation, live, c.Count.Count)

	case mission.ConditionTime:
		return e.evalTime(c.Time, cs)

	case mission.ConditionHullIntegrity:
		return e.evalIntegrity(c, func(s Craft) float64 { return s.Hull() })

	case mission.ConditionShieldIntegrity:
		return e.evalIntegrity(c, func(s Craft) float64 { return s.Shield() })

	case mission.ConditionDistance:
		return e.evalDistance(c)

	case mission.ConditionHit:
		return e.matchCombat(c, EventHit, false)

	case mission.ConditionCollision:
		return e.matchCombat(c, EventCollision, true)

	case mission.ConditionGetsTargeted:
		return e.matchCombat(c, EventTargetAcquired, false)

	case mission.ConditionIsTargeted:
		return e.matchCombat(c, EventTargeted, false)

	case mission.ConditionAway:
		subjects := Resolve(c.Subjects, e.world)
		if len(subjects) == 0 {
			return false
		}
		want := c.Away.Away
		return quantify(c.Which, subjects, func(s Craft) bool { return s.Away() == want })

	case mission.ConditionOnTeam:
		subjects := Resolve(c.Subjects, e.world)
		if len(subjects) == 0 {
			return false
		}
		team := c.OnTeam.Team
		return quantify(c.Which, subjects, func(s Craft) bool { return s.Team() == team })

	case mission.ConditionMissionState:
		for _, s := range c.MissionState.States {
			if s == e.state {
				return true
			}
		}
		return false
	}
	return false
}

// quantify folds a predicate over subjects with ALL or ANY semantics.
func quantify(which mission.Quantifier, subjects []Craft, pred func(Craft) bool) bool {
	if which == mission.QuantifierAny {
		for _, s := range subjects {
			if pred(s) {
				return true
			}
		}
		return false
	}
	for _, s := range subjects {
		if !pred(s) {
			return false
		}
	}
	return true
}

func compareCount(rel mission.CountRelation, live, threshold int) bool {
	switch rel {
	case mission.RelationEquals:
		return live == threshold
	case mission.RelationBelow:
		return live < threshold
	case mission.RelationAbove:
		return live > threshold
	case mission.RelationAtMost:
		return live <= threshold
	case mission.RelationAtLeast:
		return live >= threshold
	}
	return false
}

// evalTime handles both one-shot and repeating time conditions. Repeating
// conditions pulse: they are true only on the activation tick, advance
// their due time past the current elapsed time (so an oversized tick never
// produces a backlog of activations), and go permanently false once
// MaxCount activations occurred. A start event that has not fired yet
// leaves the condition false.
func (e *Engine) evalTime(p *mission.TimeParams, cs *conditionState) bool {
	base := time.Duration(0)
	if p.Start != "" {
		t, ok := e.firedAt[p.Start]
		if !ok {
			return false
		}
		base = t
	}
	elapsed := e.now - base

	if p.When == mission.TimeMissionStart {
		return elapsed >= millis(p.TimeMS)
	}

	period := millis(p.TimeMS)
	if !cs.started || cs.base != base {
		cs.started = true
		cs.base = base
		cs.fires = 0
		if p.StartValue > 0 {
			cs.dueAt = millis(p.StartValue)
		} else {
			cs.dueAt = period
		}
	}
	if p.MaxCount > 0 && cs.fires >= p.MaxCount {
		return false
	}
	if elapsed < cs.dueAt {
		return false
	}
	for cs.dueAt <= elapsed {
		cs.dueAt += period
	}
	cs.fires++
	return true
}

// evalIntegrity checks hull or shield percentages against the configured
// bounds. Destroyed craft are excluded; with no survivors the condition is
// false.
func (e *Engine) evalIntegrity(c *mission.Condition, value func(Craft) float64) bool {
	var subjects []Craft
	for _, s := range Resolve(c.Subjects, e.world) {
		if !s.Destroyed() {
			subjects = append(subjects, s)
		}
	}
	if len(subjects) == 0 {
		return false
	}
	p := c.Integrity
	return quantify(c.Which, subjects, func(s Craft) bool {
		return withinBounds(value(s), p.Min, p.Max)
	})
}

func withinBounds(v float64, min, max *float64) bool {
	if min != nil && v < *min {
		return false
	}
	if max != nil && v > *max {
		return false
	}
	return true
}

// evalDistance checks each subject's distance to the nearest target craft.
// Away craft have no meaningful position and are excluded on both sides;
// destroyed craft keep their last-known position and stay in.
func (e *Engine) evalDistance(c *mission.Condition) bool {
	p := c.Distance
	var targets []Craft
	for _, t := range Resolve(p.Target, e.world) {
		if !t.Away() {
			targets = append(targets, t)
		}
	}
	var subjects []Craft
	for _, s := range Resolve(c.Subjects, e.world) {
		if !s.Away() {
			subjects = append(subjects, s)
		}
	}
	if len(subjects) == 0 || len(targets) == 0 {
		return false
	}
	return quantify(c.Which, subjects, func(s Craft) bool {
		d := nearestDistance(s, targets)
		if d < 0 {
			return false
		}
		return withinBounds(d, p.Min, p.Max)
	})
}

func nearestDistance(s Craft, targets []Craft) float64 {
	sx, sy := s.Position()
	best := -1.0
	for _, t := range targets {
		if t.Name() == s.Name() {
			continue
		}
		tx, ty := t.Position()
		dx, dy := tx-sx, ty-sy
		d2 := dx*dx + dy*dy
		if best < 0 || d2 < best {
			best = d2
		}
	}
	if best < 0 {
		return -1
	}
	return math.Sqrt(best)
}

// matchCombat reports whether a combat event of the given kind occurred
// this tick between a resolved subject and a member of the by-group. An
// absent by-group matches any counterpart. Collisions are symmetric, so
// both orientations of the pair are checked.
func (e *Engine) matchCombat(c *mission.Condition, kind CombatEventKind, symmetric bool) bool {
	subjects := resolveNameSet(c.Subjects, e.world)
	if len(subjects) == 0 {
		return false
	}
	var by map[string]bool
	if c.By != nil && !c.By.By.Empty() {
		by = resolveNameSet(c.By.By, e.world)
	}
	for _, ev := range e.world.CombatEvents() {
		if ev.Kind != kind {
			continue
		}
		if matchPair(subjects, by, ev.Subject, ev.Other) {
			return true
		}
		if symmetric && matchPair(subjects, by, ev.Other, ev.Subject) {
			return true
		}
	}
	return false
}

func matchPair(subjects, by map[string]bool, subject, other string) bool {
	if !subjects[subject] {
		return false
	}
	return by == nil || by[other]
}
