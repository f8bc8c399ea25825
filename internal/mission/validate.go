package mission

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate checks the mission document for definition errors, fills in
// derived defaults (trigger combinator, edge kind, once flag, quantifiers),
// and builds the event name index. A mission that fails validation must not
// be started.
func (m *Mission) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("mission name is required")
	}
	names, err := m.collectNames()
	if err != nil {
		return err
	}

	m.eventIndex = make(map[string]*Event, len(m.Events))
	for _, ev := range m.Events {
		if ev.Name == "" {
			continue
		}
		if _, dup := m.eventIndex[ev.Name]; dup {
			return fmt.Errorf("duplicate event name %q", ev.Name)
		}
		m.eventIndex[ev.Name] = ev
	}

	for i, ev := range m.Events {
		if err := m.validateEvent(ev, names); err != nil {
			return fmt.Errorf("event %s: %w", eventLabel(ev, i), err)
		}
	}
	return nil
}

// nameTable holds every referencable identifier declared by the spacecraft
// specs and team list.
type nameTable struct {
	craft  map[string]bool
	squads map[string]bool
	teams  map[string]bool
}

func (m *Mission) collectNames() (*nameTable, error) {
	n := &nameTable{
		craft:  make(map[string]bool),
		squads: make(map[string]bool),
		teams:  make(map[string]bool),
	}
	for _, t := range m.Teams {
		if t.Name == "" {
			return nil, fmt.Errorf("team with empty name")
		}
		if n.teams[t.Name] {
			return nil, fmt.Errorf("duplicate team %q", t.Name)
		}
		n.teams[t.Name] = true
	}
	for i, spec := range m.Spacecraft {
		switch {
		case spec.Name != "" && spec.Squad != "":
			return nil, fmt.Errorf("spacecraft %d: name and squad are mutually exclusive", i)
		case spec.Name != "":
			if n.craft[spec.Name] {
				return nil, fmt.Errorf("duplicate spacecraft name %q", spec.Name)
			}
			n.craft[spec.Name] = true
		case spec.Squad != "":
			if spec.Count <= 0 {
				return nil, fmt.Errorf("spacecraft %d: squad %q requires a positive count", i, spec.Squad)
			}
			if n.squads[spec.Squad] {
				return nil, fmt.Errorf("duplicate squad %q", spec.Squad)
			}
			n.squads[spec.Squad] = true
			for k := 1; k <= spec.Count; k++ {
				n.craft[SquadMemberName(spec.Squad, k)] = true
			}
		default:
			return nil, fmt.Errorf("spacecraft %d: name or squad is required", i)
		}
		if spec.Team != "" && !n.teams[spec.Team] {
			return nil, fmt.Errorf("spacecraft %d: unknown team %q", i, spec.Team)
		}
	}
	return n, nil
}

// SquadMemberName builds the ordinal name of the nth craft of a squad,
// e.g. ("Alpha", 3) -> "Alpha 3".
func SquadMemberName(squad string, ordinal int) string {
	return squad + " " + strconv.Itoa(ordinal)
}

func eventLabel(ev *Event, idx int) string {
	if ev.Name != "" {
		return fmt.Sprintf("%q", ev.Name)
	}
	return "#" + strconv.Itoa(idx)
}

func (m *Mission) validateEvent(ev *Event, names *nameTable) error {
	if len(ev.Actions) == 0 {
		return fmt.Errorf("at least one action is required")
	}
	if err := m.validateTrigger(&ev.Trigger, names); err != nil {
		return err
	}
	for i := range ev.Actions {
		if err := validateAction(&ev.Actions[i], names); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}

func (m *Mission) validateTrigger(t *Trigger, names *nameTable) error {
	if t.Combine == "" {
		t.Combine = CombineAll
	}
	if t.Combine != CombineAll && t.Combine != CombineAny {
		return fmt.Errorf("unknown combinator %q", t.Combine)
	}
	if t.When == "" {
		t.When = BecomesTrue
	}
	if t.When != BecomesTrue && t.When != BecomesFalse {
		return fmt.Errorf("unknown edge kind %q", t.When)
	}
	if t.DelayMS < 0 {
		return fmt.Errorf("trigger delay must be non-negative")
	}
	for i := range t.Conditions {
		if err := m.validateCondition(&t.Conditions[i], names); err != nil {
			return fmt.Errorf("condition %d: %w", i, err)
		}
	}
	if t.Once != nil {
		t.ResolvedOnce = *t.Once
	} else {
		t.ResolvedOnce = deriveOnce(t.Conditions)
	}
	if !t.ResolvedOnce && t.DelayMS > 0 {
		return fmt.Errorf("a repeatable trigger cannot carry a fire delay")
	}
	return nil
}

// deriveOnce computes the default once flag: one-shot unless some condition
// can change truth value more than once over the mission.
func deriveOnce(conds []Condition) bool {
	for i := range conds {
		if conditionMutable(&conds[i]) {
			return false
		}
	}
	return true
}

// conditionMutable reports whether the condition's truth value can flip
// more than once. Destroyed is monotonic and mission_start time flips at
// most once; everything else can oscillate.
func conditionMutable(c *Condition) bool {
	switch c.Kind {
	case ConditionDestroyed:
		return false
	case ConditionTime:
		return c.Time != nil && c.Time.When == TimeRepeat
	default:
		return true
	}
}

// subjectlessKinds are the condition kinds that do not reference craft and
// therefore carry no subject group.
var subjectlessKinds = map[ConditionKind]bool{
	ConditionTime:         true,
	ConditionMissionState: true,
}

func (m *Mission) validateCondition(c *Condition, names *nameTable) error {
	if !subjectlessKinds[c.Kind] {
		if c.Subjects.Empty() {
			return fmt.Errorf("%s condition requires subjects", c.Kind)
		}
		if err := validateGroup(c.Subjects, names); err != nil {
			return err
		}
	}
	if c.Which == "" {
		c.Which = QuantifierAll
	}
	if c.Which != QuantifierAll && c.Which != QuantifierAny {
		return fmt.Errorf("unknown quantifier %q", c.Which)
	}

	switch c.Kind {
	case ConditionDestroyed, ConditionAway, ConditionGetsTargeted, ConditionIsTargeted:
		// quantifier plus subjects is enough; away needs its flag
		if c.Kind == ConditionAway && c.Away == nil {
			return fmt.Errorf("away condition requires away params")
		}
		if (c.Kind == ConditionGetsTargeted || c.Kind == ConditionIsTargeted) && c.By != nil {
			if err := validateGroup(c.By.By, names); err != nil {
				return err
			}
		}
	case ConditionCount:
		if c.Count == nil {
			return fmt.Errorf("count condition requires count params")
		}
		switch c.Count.Relation {
		case RelationEquals, RelationBelow, RelationAbove, RelationAtMost, RelationAtLeast:
		default:
			return fmt.Errorf("unknown count relation %q", c.Count.Relation)
		}
		if c.Count.Count < 0 {
			return fmt.Errorf("count threshold must be non-negative")
		}
	case ConditionTime:
		if c.Time == nil {
			return fmt.Errorf("time condition requires time params")
		}
		if c.Time.When != TimeMissionStart && c.Time.When != TimeRepeat {
			return fmt.Errorf("unknown time mode %q", c.Time.When)
		}
		if c.Time.TimeMS <= 0 {
			return fmt.Errorf("time condition requires a positive time")
		}
		if c.Time.Start != "" {
			if _, ok := m.eventIndex[c.Time.Start]; !ok {
				return fmt.Errorf("time condition references unknown event %q", c.Time.Start)
			}
		}
		if c.Time.MaxCount < 0 || c.Time.StartValue < 0 {
			return fmt.Errorf("time condition bounds must be non-negative")
		}
	case ConditionHullIntegrity, ConditionShieldIntegrity:
		if c.Integrity == nil {
			return fmt.Errorf("%s condition requires integrity params", c.Kind)
		}
		if c.Integrity.Min == nil && c.Integrity.Max == nil {
			return fmt.Errorf("%s condition requires at least one bound", c.Kind)
		}
		if c.Integrity.Min != nil && c.Integrity.Max != nil && *c.Integrity.Min > *c.Integrity.Max {
			return fmt.Errorf("%s condition min exceeds max", c.Kind)
		}
	case ConditionDistance:
		if c.Distance == nil {
			return fmt.Errorf("distance condition requires distance params")
		}
		if c.Distance.Target.Empty() {
			return fmt.Errorf("distance condition requires a target group")
		}
		if err := validateGroup(c.Distance.Target, names); err != nil {
			return err
		}
		if c.Distance.Min == nil && c.Distance.Max == nil {
			return fmt.Errorf("distance condition requires at least one bound")
		}
	case ConditionHit, ConditionCollision:
		if c.By != nil {
			if err := validateGroup(c.By.By, names); err != nil {
				return err
			}
		}
	case ConditionOnTeam:
		if c.OnTeam == nil || c.OnTeam.Team == "" {
			return fmt.Errorf("on_team condition requires a team")
		}
		if !names.teams[c.OnTeam.Team] {
			return fmt.Errorf("on_team condition references unknown team %q", c.OnTeam.Team)
		}
	case ConditionMissionState:
		if c.MissionState == nil || len(c.MissionState.States) == 0 {
			return fmt.Errorf("mission_state condition requires at least one state")
		}
		for _, s := range c.MissionState.States {
			switch s {
			case StateInProgress, StateCompleted, StateFailed:
			default:
				return fmt.Errorf("unknown mission state %q", s)
			}
		}
	default:
		return fmt.Errorf("unknown condition kind %q", c.Kind)
	}
	return nil
}

func validateAction(a *Action, names *nameTable) error {
	if a.DelayMS < 0 {
		return fmt.Errorf("action delay must be non-negative")
	}
	switch a.Kind {
	case ActionMessage:
		if a.Message == nil || (a.Message.Text == "" && a.Message.Key == "") {
			return fmt.Errorf("message action requires text or a localization key")
		}
	case ActionCommand:
		if a.Command == nil {
			return fmt.Errorf("command action requires command params")
		}
		switch a.Command.Command {
		case CommandJump:
		case CommandTarget, CommandReachDistance:
			if a.Command.Target.Empty() {
				return fmt.Errorf("%s command requires a target group", a.Command.Command)
			}
			if err := validateGroup(a.Command.Target, names); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown command %q", a.Command.Command)
		}
		if a.Subjects.Empty() {
			return fmt.Errorf("command action requires subjects")
		}
	case ActionSetProperties, ActionRepair, ActionDamage:
		if a.Properties == nil {
			return fmt.Errorf("%s action requires property params", a.Kind)
		}
		if a.Subjects.Empty() {
			return fmt.Errorf("%s action requires subjects", a.Kind)
		}
		if (a.Kind == ActionRepair || a.Kind == ActionDamage) &&
			(a.Properties.Team != nil || a.Properties.FiringEnabled != nil) {
			return fmt.Errorf("%s action only accepts hull and shield values", a.Kind)
		}
	case ActionHud:
		if a.Hud == nil || a.Hud.Section == "" {
			return fmt.Errorf("hud action requires a section name")
		}
	case ActionWin, ActionLose:
		// no params
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	if !a.Subjects.Empty() {
		if err := validateGroup(a.Subjects, names); err != nil {
			return err
		}
	}
	return nil
}

func validateGroup(g SubjectGroup, names *nameTable) error {
	var unknown []string
	for _, name := range g.Spacecraft {
		if !names.craft[name] {
			unknown = append(unknown, "spacecraft "+strconv.Quote(name))
		}
	}
	for _, squad := range g.Squads {
		if !names.squads[squad] {
			unknown = append(unknown, "squad "+strconv.Quote(squad))
		}
	}
	for _, team := range g.Teams {
		if !names.teams[team] {
			unknown = append(unknown, "team "+strconv.Quote(team))
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("subject group references unknown %s", strings.Join(unknown, ", "))
	}
	return nil
}
