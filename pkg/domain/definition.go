package domain

// Rule is one row of a transition table: in State reading Read, write Write,
// move the head and enter Next.
type Rule struct {
	State string   `json:"state" yaml:"state" mapstructure:"state"`
	Read  string   `json:"read" yaml:"read" mapstructure:"read"`
	Write string   `json:"write" yaml:"write" mapstructure:"write"`
	Move  Movement `json:"move" yaml:"move" mapstructure:"move"`
	Next  string   `json:"next" yaml:"next" mapstructure:"next"`
}

// Definition is the declarative form of a machine whose states and symbols are strings.
// It is what YAML/JSON files, the DSL builder and persisted sessions carry.
type Definition struct {
	Name    string   `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	States  []string `json:"states" yaml:"states" mapstructure:"states"`
	Symbols []string `json:"symbols" yaml:"symbols" mapstructure:"symbols"`
	Blank   string   `json:"blank" yaml:"blank" mapstructure:"blank"`
	Initial string   `json:"initial" yaml:"initial" mapstructure:"initial"`
	Final   []string `json:"final,omitempty" yaml:"final,omitempty" mapstructure:"final"`
	Rules   []Rule   `json:"rules" yaml:"rules" mapstructure:"rules"`

	// Tape is the initial tape content. Empty means a single blank cell.
	Tape []string `json:"tape,omitempty" yaml:"tape,omitempty" mapstructure:"tape"`
}
