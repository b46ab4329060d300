package versions

// Readiness is the result of the export gate.
//
// The gate deliberately distinguishes "version not found" from "version not
// approved" instead of collapsing both into a bare false: handlers still deny
// export in every non-ready state, but callers and the audit trail get a
// precise reason.
type Readiness struct {
	Ready  bool   `json:"ready"`
	Reason Reason `json:"reason,omitempty"`

	// MissingLocales lists requested locales without an approval.
	// Only set when Reason is ReasonMissingApprovals.
	MissingLocales []string `json:"missing_locales,omitempty"`
}

type Reason string

const (
	ReasonVersionNotFound   Reason = "version_not_found"
	ReasonStatusNotApproved Reason = "status_not_approved"
	ReasonMissingApprovals  Reason = "missing_approvals"
)

// EvaluateReadiness is the pure core of the gate: given the version (nil when
// absent), its approvals and the requested locales, decide exportability.
// Side-effect free; the status transition to exported happens only after a
// successful export, never here.
func EvaluateReadiness(v *Version, approvals []Approval, targetLocales []string) Readiness {
	if v == nil {
		return Readiness{Reason: ReasonVersionNotFound}
	}
	// exported counts as approved: re-export of the same version is allowed.
	if v.Status != StatusApproved && v.Status != StatusExported {
		return Readiness{Reason: ReasonStatusNotApproved}
	}

	approved := make(map[string]struct{}, len(approvals))
	for _, a := range approvals {
		approved[a.Locale] = struct{}{}
	}

	var missing []string
	for _, loc := range targetLocales {
		if _, ok := approved[loc]; !ok {
			missing = append(missing, loc)
		}
	}
	if len(missing) > 0 {
		return Readiness{Reason: ReasonMissingApprovals, MissingLocales: missing}
	}
	return Readiness{Ready: true}
}
