package audit

// PhaseID names one step of the progressive-trust sequence.
type PhaseID string

const (
	PhaseLocate     PhaseID = "locate"
	PhaseStructure  PhaseID = "structure"  // Wholeness
	PhaseSignature  PhaseID = "signature"  // Proofs
	PhaseIdentity   PhaseID = "identity"   // References
	PhaseCompliance PhaseID = "compliance" // Requirements
)

// Title returns the phase's human-facing name.
func (p PhaseID) Title() string {
	switch p {
	case PhaseLocate:
		return "Locate repository"
	case PhaseStructure:
		return "Wholeness (structure)"
	case PhaseSignature:
		return "Proofs (signature)"
	case PhaseIdentity:
		return "References (identity)"
	case PhaseCompliance:
		return "Requirements (platform standards)"
	}
	return string(p)
}

// Outcome is the result of one phase.
type Outcome string

const (
	OutcomePass    Outcome = "pass"
	OutcomeFail    Outcome = "fail"
	OutcomeWarn    Outcome = "warn"
	OutcomeSkipped Outcome = "skipped"
)

// PhaseResult is one entry of the Trust Assessment Record.
type PhaseResult struct {
	Phase   PhaseID `json:"phase" yaml:"phase"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Detail  string  `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Verdict is the aggregated pass/fail answer for the whole audit.
type Verdict string

const (
	VerdictSuccess Verdict = "success"
	VerdictFailure Verdict = "failure"
)

// ExitClass is the process-level outcome signal consumed by automation.
type ExitClass string

const (
	ExitSuccess           ExitClass = "success"
	ExitUsageError        ExitClass = "usage_error"
	ExitIOError           ExitClass = "io_error"
	ExitRepositoryError   ExitClass = "repository_error"
	ExitConfigError       ExitClass = "config_error"
	ExitDependencyMissing ExitClass = "dependency_missing"
)

// Record is the Trust Assessment Record: the ordered phase outcomes of one
// audit run plus the derived verdict. It is built fresh per invocation and
// never persisted; re-running against an unchanged repository yields an
// identical record.
type Record struct {
	Path          string        `json:"path" yaml:"path"`
	InceptionHash string        `json:"inception_hash,omitempty" yaml:"inception_hash,omitempty"`
	DID           string        `json:"did,omitempty" yaml:"did,omitempty"`
	Fingerprint   string        `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Phases        []PhaseResult `json:"phases" yaml:"phases"`
	Verdict       Verdict       `json:"verdict" yaml:"verdict"`
	ExitClass     ExitClass     `json:"exit_class" yaml:"exit_class"`
}

// Phase returns the result for one phase, or nil if it was never reached.
func (r *Record) Phase(id PhaseID) *PhaseResult {
	for i := range r.Phases {
		if r.Phases[i].Phase == id {
			return &r.Phases[i]
		}
	}
	return nil
}

func (r *Record) append(id PhaseID, outcome Outcome, detail string) {
	r.Phases = append(r.Phases, PhaseResult{Phase: id, Outcome: outcome, Detail: detail})
}
