package restfb

import (
	eng "github.com/restfb/restfb-sub000/internal/engine"
	"github.com/restfb/restfb-sub000/mapper"
)

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Warn or Error (duplicate JSON keys).
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// PresenceOpt configures presence collection for WithMeta-style parsing.
// Include and Exclude are JSON Pointer prefixes.
type PresenceOpt struct {
	Include []string
	Exclude []string
	Intern  bool // share key strings across results
}

// ParseOpt bundles parsing options. The zero value parses leniently: duplicate
// keys are resolved last-wins, no size cap, the default depth limit and
// unknown keys dropped.
type ParseOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 uses jsonvalue.DefaultMaxDepth
	MaxBytes   int64 // 0 means unlimited
	Unknown    mapper.UnknownPolicy
	Presence   PresenceOpt
	// Mapper overrides the mapper used to populate targets. Unknown still
	// applies on top of it.
	Mapper *mapper.Mapper
}

func lastOpt(opts []ParseOpt) ParseOpt {
	if len(opts) == 0 {
		return ParseOpt{}
	}
	return opts[len(opts)-1]
}

func (o ParseOpt) resolveMapper() *mapper.Mapper {
	m := o.Mapper
	if m == nil {
		m = mapper.Default()
	}
	if o.Unknown != mapper.UnknownStrip {
		m = m.With(mapper.WithUnknownPolicy(o.Unknown))
	}
	return m
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}
