package types

import "strings"

// Level is the granularity of a decision.
type Level string

// Level constants
const (
	LevelStrategic   Level = "strategic"
	LevelTactical    Level = "tactical"
	LevelOperational Level = "operational"
)

// Kind is the epistemic category of a decision.
type Kind string

// Kind constants
const (
	KindPrinciple  Kind = "principle"
	KindConstraint Kind = "constraint"
	KindAssumption Kind = "assumption"
	KindChoice     Kind = "choice"
	KindRule       Kind = "rule"
	KindGoal       Kind = "goal"
)

// Weight is the normative force of a decision.
type Weight string

// Weight constants
const (
	WeightMust   Weight = "must"
	WeightShould Weight = "should"
	WeightMay    Weight = "may"
)

// Status is the lifecycle state of a decision.
type Status string

// Status constants
const (
	StatusActive     Status = "active"
	StatusSuperseded Status = "superseded"
	StatusDeprecated Status = "deprecated"
	StatusDraft      Status = "draft"
)

// LinkKind categorizes a relationship between two decisions.
type LinkKind string

// LinkKind constants
const (
	LinkRefines    LinkKind = "refines" // source is a more specific instance of target
	LinkSupports   LinkKind = "supports"
	LinkSupersedes LinkKind = "supersedes"
	LinkConflicts  LinkKind = "conflicts"
	LinkRequires   LinkKind = "requires"
	LinkEntails    LinkKind = "entails"
	LinkExcludes   LinkKind = "excludes"
)

// enumSet declares the accepted values of one closed enumeration. Every
// parse, validation and accepted-value listing goes through one of these, so
// storage, interchange and the CLI share a single declaration.
type enumSet[T ~string] struct {
	field    string
	values   []T
	sentinel error
}

func (e enumSet[T]) contains(v T) bool {
	for _, candidate := range e.values {
		if candidate == v {
			return true
		}
	}
	return false
}

// parse is case-insensitive and ignores surrounding whitespace.
func (e enumSet[T]) parse(s string) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if e.contains(v) {
		return v, nil
	}
	var zero T
	return zero, invalid(e, s)
}

func (e enumSet[T]) accepted() []string {
	out := make([]string, len(e.values))
	for i, v := range e.values {
		out[i] = string(v)
	}
	return out
}

var (
	levelSet = enumSet[Level]{
		field:    "level",
		values:   []Level{LevelStrategic, LevelTactical, LevelOperational},
		sentinel: ErrInvalidLevel,
	}
	kindSet = enumSet[Kind]{
		field:    "kind",
		values:   []Kind{KindPrinciple, KindConstraint, KindAssumption, KindChoice, KindRule, KindGoal},
		sentinel: ErrInvalidKind,
	}
	weightSet = enumSet[Weight]{
		field:    "weight",
		values:   []Weight{WeightMust, WeightShould, WeightMay},
		sentinel: ErrInvalidWeight,
	}
	statusSet = enumSet[Status]{
		field:    "status",
		values:   []Status{StatusActive, StatusSuperseded, StatusDeprecated, StatusDraft},
		sentinel: ErrInvalidStatus,
	}
	linkKindSet = enumSet[LinkKind]{
		field:    "link kind",
		values:   []LinkKind{LinkRefines, LinkSupports, LinkSupersedes, LinkConflicts, LinkRequires, LinkEntails, LinkExcludes},
		sentinel: ErrInvalidLinkKind,
	}
)

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) { return levelSet.parse(s) }

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) { return kindSet.parse(s) }

// ParseWeight parses a weight name.
func ParseWeight(s string) (Weight, error) { return weightSet.parse(s) }

// ParseStatus parses a status name.
func ParseStatus(s string) (Status, error) { return statusSet.parse(s) }

// ParseLinkKind parses a link kind name.
func ParseLinkKind(s string) (LinkKind, error) { return linkKindSet.parse(s) }

// Levels returns the accepted level names in declaration order.
func Levels() []string { return levelSet.accepted() }

// Kinds returns the accepted kind names in declaration order.
func Kinds() []string { return kindSet.accepted() }

// Weights returns the accepted weight names in declaration order.
func Weights() []string { return weightSet.accepted() }

// Statuses returns the accepted status names in declaration order.
func Statuses() []string { return statusSet.accepted() }

// LinkKinds returns the accepted link kind names in declaration order.
func LinkKinds() []string { return linkKindSet.accepted() }

// AllLevels returns every level in display order (broadest first).
func AllLevels() []Level { return append([]Level(nil), levelSet.values...) }

// AllLinkKinds returns every link kind.
func AllLinkKinds() []LinkKind { return append([]LinkKind(nil), linkKindSet.values...) }

// IsValid checks if the level value is valid
func (l Level) IsValid() bool { return levelSet.contains(l) }

// IsValid checks if the kind value is valid
func (k Kind) IsValid() bool { return kindSet.contains(k) }

// IsValid checks if the weight value is valid
func (w Weight) IsValid() bool { return weightSet.contains(w) }

// IsValid checks if the status value is valid
func (s Status) IsValid() bool { return statusSet.contains(s) }

// IsValid checks if the link kind value is valid
func (k LinkKind) IsValid() bool { return linkKindSet.contains(k) }

func (l Level) String() string    { return string(l) }
func (k Kind) String() string     { return string(k) }
func (w Weight) String() string   { return string(w) }
func (s Status) String() string   { return string(s) }
func (k LinkKind) String() string { return string(k) }

// UnmarshalText makes JSON and flag decoding reject unknown names.

func (l *Level) UnmarshalText(b []byte) error { return unmarshalEnum(levelSet, b, l) }

func (k *Kind) UnmarshalText(b []byte) error { return unmarshalEnum(kindSet, b, k) }

func (w *Weight) UnmarshalText(b []byte) error { return unmarshalEnum(weightSet, b, w) }

func (s *Status) UnmarshalText(b []byte) error { return unmarshalEnum(statusSet, b, s) }

func (k *LinkKind) UnmarshalText(b []byte) error { return unmarshalEnum(linkKindSet, b, k) }

func unmarshalEnum[T ~string](set enumSet[T], b []byte, dst *T) error {
	v, err := set.parse(string(b))
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
