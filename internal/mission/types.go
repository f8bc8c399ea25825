// Mission definition model: teams, spacecraft specs, and scripted events.
package mission

// State is the overall mission outcome state.
type State string

// Mission outcome states. A mission starts InProgress and is terminal once
// Completed or Failed.
const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Terminal reports whether s is a final outcome.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Team declares a faction taking part in the battle.
type Team struct {
	Name    string `yaml:"name"`
	Faction string `yaml:"faction,omitempty"`
	Color   string `yaml:"color,omitempty"`
}

// Position is an initial 2D placement for a spacecraft spec.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// SpacecraftSpec declares one craft or a squad of craft to instantiate at
// battle start. Either Name is set (single craft) or Squad plus Count
// (craft named "<Squad> 1".."<Squad> N").
type SpacecraftSpec struct {
	Name     string   `yaml:"name,omitempty"`
	Squad    string   `yaml:"squad,omitempty"`
	Count    int      `yaml:"count,omitempty"`
	Class    string   `yaml:"class"`
	Team     string   `yaml:"team"`
	AI       bool     `yaml:"ai,omitempty"`
	Loadout  []string `yaml:"loadout,omitempty"`
	Hull     float64  `yaml:"hull,omitempty"`
	Shield   float64  `yaml:"shield,omitempty"`
	Position Position `yaml:"position,omitempty"`
	Heading  float64  `yaml:"heading,omitempty"`
}

// SubjectGroup is a declarative reference to a set of spacecraft, by
// explicit name, squad, or team. An empty group is valid and resolves to
// no craft.
type SubjectGroup struct {
	Spacecraft []string `yaml:"spacecraft,omitempty"`
	Squads     []string `yaml:"squads,omitempty"`
	Teams      []string `yaml:"teams,omitempty"`
}

// Empty reports whether the group references nothing.
func (g SubjectGroup) Empty() bool {
	return len(g.Spacecraft) == 0 && len(g.Squads) == 0 && len(g.Teams) == 0
}

// Quantifier selects how a multi-subject condition aggregates its subjects.
type Quantifier string

const (
	QuantifierAll Quantifier = "all"
	QuantifierAny Quantifier = "any"
)

// ConditionKind discriminates the Condition variants.
type ConditionKind string

const (
	ConditionDestroyed       ConditionKind = "destroyed"
	ConditionCount           ConditionKind = "count"
	ConditionTime            ConditionKind = "time"
	ConditionHullIntegrity   ConditionKind = "hull_integrity"
	ConditionShieldIntegrity ConditionKind = "shield_integrity"
	ConditionDistance        ConditionKind = "distance"
	ConditionHit             ConditionKind = "hit"
	ConditionCollision       ConditionKind = "collision"
	ConditionAway            ConditionKind = "away"
	ConditionOnTeam          ConditionKind = "on_team"
	ConditionMissionState    ConditionKind = "mission_state"
	ConditionGetsTargeted    ConditionKind = "gets_targeted"
	ConditionIsTargeted      ConditionKind = "is_targeted"
)

// CountRelation compares a live-subject count against a threshold.
type CountRelation string

const (
	RelationEquals  CountRelation = "equals"
	RelationBelow   CountRelation = "below"
	RelationAbove   CountRelation = "above"
	RelationAtMost  CountRelation = "at_most"
	RelationAtLeast CountRelation = "at_least"
)

// TimeWhen selects one-shot versus repeating time conditions.
type TimeWhen string

const (
	TimeMissionStart TimeWhen = "mission_start"
	TimeRepeat       TimeWhen = "repeat"
)

// CountParams parameterizes a count condition.
type CountParams struct {
	Relation CountRelation `yaml:"relation"`
	Count    int           `yaml:"count"`
}

// TimeParams parameterizes a time condition. Start optionally names another
// mission event; elapsed time is then measured from that event's last fire
// instead of mission start. MaxCount caps repeat activations (0 = no cap).
type TimeParams struct {
	When       TimeWhen `yaml:"when"`
	TimeMS     int64    `yaml:"time_ms"`
	Start      string   `yaml:"start,omitempty"`
	MaxCount   int      `yaml:"max_count,omitempty"`
	StartValue int64    `yaml:"start_value_ms,omitempty"`
}

// IntegrityParams bounds a hull or shield integrity percentage. A nil bound
// is open.
type IntegrityParams struct {
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`
}

// DistanceParams bounds the distance between each subject and the nearest
// member of Target. A nil bound is open.
type DistanceParams struct {
	Target SubjectGroup `yaml:"target"`
	Min    *float64     `yaml:"min,omitempty"`
	Max    *float64     `yaml:"max,omitempty"`
}

// ByParams names the counterpart group for hit, collision, and targeting
// conditions. An empty group matches any counterpart.
type ByParams struct {
	By SubjectGroup `yaml:"by,omitempty"`
}

// AwayParams requests a presence state: true matches craft that have jumped
// out, false matches craft still present.
type AwayParams struct {
	Away bool `yaml:"away"`
}

// OnTeamParams names the team the subjects must currently be on.
type OnTeamParams struct {
	Team string `yaml:"team"`
}

// MissionStateParams lists the mission states the condition is true in.
type MissionStateParams struct {
	States []State `yaml:"states"`
}

// Condition is a tagged variant: Kind selects which single params field is
// populated. Required params per kind are enforced at load, never at
// evaluation time.
type Condition struct {
	Kind     ConditionKind `yaml:"kind"`
	Subjects SubjectGroup  `yaml:"subjects,omitempty"`
	Which    Quantifier    `yaml:"which,omitempty"`

	Count        *CountParams        `yaml:"count_params,omitempty"`
	Time         *TimeParams         `yaml:"time_params,omitempty"`
	Integrity    *IntegrityParams    `yaml:"integrity_params,omitempty"`
	Distance     *DistanceParams     `yaml:"distance_params,omitempty"`
	By           *ByParams           `yaml:"by_params,omitempty"`
	Away         *AwayParams         `yaml:"away_params,omitempty"`
	OnTeam       *OnTeamParams       `yaml:"on_team_params,omitempty"`
	MissionState *MissionStateParams `yaml:"mission_state_params,omitempty"`
}

// EdgeKind selects which boolean transition arms a trigger.
type EdgeKind string

const (
	BecomesTrue  EdgeKind = "becomes_true"
	BecomesFalse EdgeKind = "becomes_false"
)

// Combinator joins a trigger's conditions.
type Combinator string

const (
	CombineAll Combinator = "all"
	CombineAny Combinator = "any"
)

// Trigger watches one or more conditions for an edge. Once and the
// combinator default at load: Once derives from condition mutability
// (see deriveOnce), Combine defaults to all. A trigger with no conditions
// is permanently true from mission start.
type Trigger struct {
	Conditions []Condition `yaml:"conditions,omitempty"`
	Combine    Combinator  `yaml:"combine,omitempty"`
	When       EdgeKind    `yaml:"when,omitempty"`
	Once       *bool       `yaml:"once,omitempty"`
	DelayMS    int64       `yaml:"delay_ms,omitempty"`

	// derived at validation, not serialized
	ResolvedOnce bool `yaml:"-"`
}

// ActionKind discriminates the Action variants.
type ActionKind string

const (
	ActionMessage       ActionKind = "message"
	ActionCommand       ActionKind = "command"
	ActionSetProperties ActionKind = "set_properties"
	ActionRepair        ActionKind = "repair"
	ActionDamage        ActionKind = "damage"
	ActionHud           ActionKind = "hud"
	ActionWin           ActionKind = "win"
	ActionLose          ActionKind = "lose"
)

// CommandKind names the AI/player commands an action can issue.
type CommandKind string

const (
	CommandJump          CommandKind = "jump"
	CommandTarget        CommandKind = "target"
	CommandReachDistance CommandKind = "reach_distance"
)

// MessageParams carries a HUD/chat message. Either Text or Key (a
// localization key) is set.
type MessageParams struct {
	Text       string `yaml:"text,omitempty"`
	Key        string `yaml:"key,omitempty"`
	Sender     string `yaml:"sender,omitempty"`
	DurationMS int64  `yaml:"duration_ms,omitempty"`
	Permanent  bool   `yaml:"permanent,omitempty"`
	Urgent     bool   `yaml:"urgent,omitempty"`
	Style      string `yaml:"style,omitempty"`
}

// CommandParams parameterizes a command action.
type CommandParams struct {
	Command  CommandKind  `yaml:"command"`
	Target   SubjectGroup `yaml:"target,omitempty"`
	Distance float64      `yaml:"distance,omitempty"`
}

// PropertyParams carries property deltas or absolutes for set_properties,
// repair, and damage actions. Nil fields are untouched. For repair/damage
// the hull and shield values are magnitudes; the sign is baked into the
// action kind.
type PropertyParams struct {
	Hull          *float64 `yaml:"hull,omitempty"`
	Shield        *float64 `yaml:"shield,omitempty"`
	Team          *string  `yaml:"team,omitempty"`
	FiringEnabled *bool    `yaml:"firing_enabled,omitempty"`
}

// HudParams toggles a named HUD section.
type HudParams struct {
	Section string `yaml:"section"`
	Visible bool   `yaml:"visible"`
}

// Action is a tagged variant dispatched when its event's trigger fires,
// delayed by DelayMS relative to the fire moment.
type Action struct {
	Kind     ActionKind   `yaml:"kind"`
	DelayMS  int64        `yaml:"delay_ms,omitempty"`
	Subjects SubjectGroup `yaml:"subjects,omitempty"`

	Message    *MessageParams  `yaml:"message_params,omitempty"`
	Command    *CommandParams  `yaml:"command_params,omitempty"`
	Properties *PropertyParams `yaml:"property_params,omitempty"`
	Hud        *HudParams      `yaml:"hud_params,omitempty"`
}

// Event couples a trigger to an ordered, non-empty list of actions.
type Event struct {
	Name    string   `yaml:"name,omitempty"`
	Trigger Trigger  `yaml:"trigger"`
	Actions []Action `yaml:"actions"`
}

// Mission is the root mission document.
type Mission struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Environment string           `yaml:"environment,omitempty"`
	Teams       []Team           `yaml:"teams"`
	Spacecraft  []SpacecraftSpec `yaml:"spacecraft"`
	Events      []*Event         `yaml:"events,omitempty"`

	eventIndex map[string]*Event
}

// EventByName returns the named event. The index is built during Validate.
func (m *Mission) EventByName(name string) (*Event, bool) {
	ev, ok := m.eventIndex[name]
	return ev, ok
}
