package pipeline

import (
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/classify"
	"github.com/veedubyou/stem-splitter-be/src/worker/internal/separation/engine"
)

const (
	RoleVocals  = "vocals"
	RoleDrums   = "drums"
	RoleBass    = "bass"
	RoleOther   = "other"
	RoleGuitar  = "guitar"
	RolePiano   = "piano"
	RoleLead    = classify.LeadRole
	RoleBacking = classify.BackingRole
)

// Plan describes one pipeline variant: which engine runs the primary pass,
// which roles the run must deliver, and which optional passes apply.
type Plan struct {
	Name string

	// Roles is the configured role set; completeness-fill guarantees a file
	// for each or reports it missing.
	Roles []string

	Primary engine.Engine

	// ClassifyPrimary routes the primary pass's output files through the
	// lead/backing classifier instead of picking them up by role file name.
	ClassifyPrimary bool

	Refine  *RefinePlan
	Cleanup *CleanupPlan
}

// RefinePlan runs a second separation over the donor stem, extracting the
// target-like component that bled into it, then folds that component back
// into the target and cancels it out of the donor.
type RefinePlan struct {
	Engine     engine.Engine
	TargetRole string
	DonorRole  string
}

// CleanupPlan runs a third separation over the (possibly refined) target
// stem and attenuates the leaked components found in it.
type CleanupPlan struct {
	Engine     engine.Engine
	TargetRole string
	LeakRoles  [2]string
}

// EngineSet is every engine the standard plans draw from.
type EngineSet struct {
	// FourStem is a demucs vocals/drums/bass/other model.
	FourStem engine.Engine

	// SixStem is a demucs model that additionally extracts guitar and piano.
	SixStem engine.Engine

	// Karaoke is a lead/backing vocal separation model.
	Karaoke engine.Engine
}

// FourStemPlan is the plain split: one primary pass, no refinement.
func FourStemPlan(engines EngineSet) Plan {
	return Plan{
		Name:    "4stems",
		Roles:   []string{RoleVocals, RoleDrums, RoleBass, RoleOther},
		Primary: engines.FourStem,
	}
}

// MelodyPlan extracts guitar and piano from a melody stem. Guitar bleeds
// into the six-stem model's "other" output, so a refinement pass re-separates
// the other stem and folds the recovered guitar back; the optional cleanup
// pass then attenuates piano/other leakage inside the guitar stem itself.
func MelodyPlan(engines EngineSet) Plan {
	return Plan{
		Name:    "melodies",
		Roles:   []string{RoleGuitar, RolePiano, RoleOther},
		Primary: engines.SixStem,
		Refine: &RefinePlan{
			Engine:     engines.SixStem,
			TargetRole: RoleGuitar,
			DonorRole:  RoleOther,
		},
		Cleanup: &CleanupPlan{
			Engine:     engines.SixStem,
			TargetRole: RoleGuitar,
			LeakRoles:  [2]string{RolePiano, RoleOther},
		},
	}
}

// VocalsPlan splits an isolated vocal stem into lead and backing parts.
func VocalsPlan(engines EngineSet) Plan {
	return Plan{
		Name:            "vocals",
		Roles:           []string{RoleLead, RoleBacking},
		Primary:         engines.Karaoke,
		ClassifyPrimary: true,
	}
}
