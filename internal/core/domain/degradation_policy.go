package domain

import "strings"

// DegradationPolicyMode selects how session resolution behaves when the
// credential revocation store cannot be reached.
type DegradationPolicyMode string

const (
	// DegradationPolicyModeStrict fails resolution whenever revocation status is unknown.
	DegradationPolicyModeStrict DegradationPolicyMode = "strict"
	// DegradationPolicyModeLenient treats an unreachable revocation store as "not revoked".
	DegradationPolicyModeLenient DegradationPolicyMode = "lenient"
)

// DegradationReason names the degraded dependency being evaluated.
type DegradationReason string

const (
	DegradationReasonRevocationStoreUnavailable DegradationReason = "revocation_store_unavailable"
)

// DegradationPolicy decides whether a degraded dependency may be bypassed.
// The zero value is strict.
type DegradationPolicy struct {
	mode DegradationPolicyMode
}

// NewDegradationPolicy constructs a policy, defaulting to strict for unknown modes.
func NewDegradationPolicy(mode DegradationPolicyMode) DegradationPolicy {
	if mode != DegradationPolicyModeLenient {
		mode = DegradationPolicyModeStrict
	}
	return DegradationPolicy{mode: mode}
}

// ParseDegradationPolicyMode normalises configuration input.
func ParseDegradationPolicyMode(value string) DegradationPolicyMode {
	if strings.EqualFold(strings.TrimSpace(value), string(DegradationPolicyModeLenient)) {
		return DegradationPolicyModeLenient
	}
	return DegradationPolicyModeStrict
}

func (p DegradationPolicy) Mode() DegradationPolicyMode {
	if p.mode == "" {
		return DegradationPolicyModeStrict
	}
	return p.mode
}

// AllowsFallback reports whether resolution may continue despite reason.
func (p DegradationPolicy) AllowsFallback(reason DegradationReason) bool {
	return p.mode == DegradationPolicyModeLenient && reason == DegradationReasonRevocationStoreUnavailable
}
