package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Options are the settings a Builder consults while constructing constraints.
type Options struct {
	// EnableBitcode turns on the bitcode level and relation-graph coupling.
	// Mutually exclusive with UseGCFG.
	EnableBitcode bool `yaml:"enable-bitcode"`

	// UseGCFG selects the GCFG orchestration phases in place of the plain
	// function-reachability ones.
	UseGCFG bool `yaml:"use-gcfg"`

	// PredicatedCalls is an architectural flag: when true, a call site's
	// instruction may fire without any of its call edges firing (the
	// inequality is kept as-is). When false, the model emits the call-site
	// bound as an equality instead, since every non-predicated call
	// instruction that fires must dispatch to exactly one callee.
	PredicatedCalls bool `yaml:"predicated-calls"`

	// InstructionTiming turns edge costs on; when false, Build never calls
	// ilp.Facade.AddCost.
	InstructionTiming bool `yaml:"instruction-timing"`

	// LogLevel controls LogGroup verbosity; see the LogLevel constants.
	LogLevel int `yaml:"log-level"`

	// AcceptRelationGraph gates which reachable machine function's relation
	// graph is used for bitcode coupling. A nil value accepts every relation
	// graph.
	AcceptRelationGraph func(machineFunctionQName string) bool `yaml:"-"`
}

// NewDefault returns the default Options: no bitcode, no GCFG, calls treated
// as non-predicated, timing enabled, Info-level logging.
func NewDefault() *Options {
	return &Options{
		EnableBitcode:       false,
		UseGCFG:             false,
		PredicatedCalls:     false,
		InstructionTiming:   true,
		LogLevel:            int(InfoLevel),
		AcceptRelationGraph: nil,
	}
}

// Load reads Options from a YAML file. AcceptRelationGraph is never
// populated from YAML (it is a caller-supplied function) and keeps its
// NewDefault value.
func Load(filename string) (*Options, error) {
	o := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, o); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %w", err)
	}
	if o.LogLevel == 0 {
		o.LogLevel = int(InfoLevel)
	}
	return o, nil
}

// Accepts reports whether the relation graph for machineFunctionQName should
// be used, per AcceptRelationGraph.
func (o *Options) Accepts(machineFunctionQName string) bool {
	if o.AcceptRelationGraph == nil {
		return true
	}
	return o.AcceptRelationGraph(machineFunctionQName)
}

// Verbose reports whether the configured verbosity is Debug or above.
func (o *Options) Verbose() bool {
	return o.LogLevel >= int(DebugLevel)
}
