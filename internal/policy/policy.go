// Package policy defines the strongly-typed domain objects that a validated
// configuration tree is built into: retry limits, backoff timing, restart
// strategies, redirect rules, and the process/dispatcher/cluster declarations
// that reference them. The supervising runtime consumes these objects; the
// resolver produces them.
//
// Object is a sealed sum type: every concrete kind lives in this package and
// implements the unexported marker method, so consumers can switch over the
// concrete types exhaustively instead of runtime type-probing an opaque any.
package policy

import "time"

// Object is the closed interface implemented by every constructed domain
// object.
type Object interface {
	isPolicyObject()
}

// DirectiveRef is a by-name reference to a directive defined elsewhere in
// the configuration, e.g. `to = "forward-to-self"`. The supervising runtime
// resolves the name when it wires policies together.
type DirectiveRef string

func (DirectiveRef) isPolicyObject() {}

// RestartMode names the sibling-handling discipline of a restart strategy.
type RestartMode string

const (
	OneForOne  RestartMode = "one-for-one"
	OneForAll  RestartMode = "one-for-all"
	RestForOne RestartMode = "rest-for-one"
)

// Retry bounds how many times a failing process is restarted before the
// failure escalates. A zero Within means the count never resets.
type Retry struct {
	Count  int64         `mapstructure:"count"`
	Within time.Duration `mapstructure:"within"`
}

func (*Retry) isPolicyObject() {}

// FixedBackoff waits the same interval before every restart.
type FixedBackoff struct {
	Duration time.Duration `mapstructure:"duration"`
}

func (*FixedBackoff) isPolicyObject() {}

// RampBackoff grows the wait from Min toward Max by Step per attempt.
type RampBackoff struct {
	Min  time.Duration `mapstructure:"min"`
	Max  time.Duration `mapstructure:"max"`
	Step time.Duration `mapstructure:"step"`
}

func (*RampBackoff) isPolicyObject() {}

// StepBackoff walks an explicit list of waits, clamping at the last entry.
type StepBackoff struct {
	Steps []time.Duration `mapstructure:"steps"`
}

func (*StepBackoff) isPolicyObject() {}

// Restart selects which siblings are affected when one worker fails, with an
// optional intensity window (at most Intensity restarts within Period).
type Restart struct {
	Mode      RestartMode
	Intensity int64         `mapstructure:"intensity"`
	Period    time.Duration `mapstructure:"period"`
}

func (*Restart) isPolicyObject() {}

// Redirect rewrites one failure directive into another: when the runtime
// would apply the directive named When, it applies To instead.
type Redirect struct {
	When string
	To   Object
}

func (*Redirect) isPolicyObject() {}

// Strategy is the complete supervision policy for a group of workers.
// Restart is always present; the remaining parts are optional refinements.
type Strategy struct {
	Restart   *Restart
	Retry     *Retry
	Backoff   Object // *FixedBackoff, *RampBackoff, or *StepBackoff; nil if unset.
	Redirects map[string]*Redirect
}

func (*Strategy) isPolicyObject() {}

// Process declares a supervised worker and the strategy governing it.
// Strategy is either an inline *Strategy or a DirectiveRef naming one.
type Process struct {
	Name     string `mapstructure:"name"`
	Strategy Object
	Flags    []string `mapstructure:"flags"`
}

func (*Process) isPolicyObject() {}

// Dispatcher configures the executor a process group is scheduled on.
type Dispatcher struct {
	Type       string `mapstructure:"type"`
	Throughput int64  `mapstructure:"throughput"`
}

func (*Dispatcher) isPolicyObject() {}

// Cluster groups processes under a shared name for collective supervision.
type Cluster struct {
	Name      string   `mapstructure:"name"`
	Processes []string `mapstructure:"processes"`
}

func (*Cluster) isPolicyObject() {}
