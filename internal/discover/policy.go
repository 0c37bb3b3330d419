package discover

import "path"

// Decision is the outcome of evaluating a single candidate file.
type Decision struct {
	Included bool
	Reason   SkipReason
}

// Policy applies exclude patterns, include patterns and the default
// allow-lists to candidate files.
type Policy struct {
	include PatternSet
	exclude PatternSet
	tables  Tables
}

// NewPolicy compiles include and exclude patterns against the provided tables.
func NewPolicy(includePatterns []string, excludePatterns []string, tables Tables) *Policy {
	return &Policy{
		include: CompilePatterns(includePatterns),
		exclude: CompilePatterns(excludePatterns),
		tables:  tables,
	}
}

// NewDefaultPolicy is NewPolicy with DefaultTables.
func NewDefaultPolicy(includePatterns []string, excludePatterns []string) *Policy {
	return NewPolicy(includePatterns, excludePatterns, DefaultTables())
}

// Tables exposes the policy's allow-lists and skip-directory set.
func (policy *Policy) Tables() Tables {
	return policy.tables
}

// ShouldInclude reports whether the file at relativePath is packaged.
func (policy *Policy) ShouldInclude(relativePath string) bool {
	return policy.Decide(relativePath).Included
}

// Decide evaluates relativePath in order: exclude patterns always win, explicit
// include patterns replace the defaults, otherwise the default allow-lists apply.
func (policy *Policy) Decide(relativePath string) Decision {
	if !policy.exclude.Empty() && policy.exclude.MatchAny(relativePath) {
		return Decision{Reason: SkipReasonExcluded}
	}
	if !policy.include.Empty() {
		if policy.include.MatchAny(relativePath) {
			return Decision{Included: true}
		}
		return Decision{Reason: SkipReasonNotIncluded}
	}
	if policy.tables.allowsByDefault(path.Base(relativePath)) {
		return Decision{Included: true}
	}
	return Decision{Reason: SkipReasonNotDefault}
}
