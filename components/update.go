package components

// BranchUpdate is the update record of line and generic_branch.
type BranchUpdate struct {
	Base
	FromStatus int8 `pgm:"from_status"`
	ToStatus   int8 `pgm:"to_status"`
}

// SourceUpdate is the update record of a voltage source.
type SourceUpdate struct {
	Base
	Status    int8    `pgm:"status"`
	URef      float64 `pgm:"u_ref"`
	URefAngle float64 `pgm:"u_ref_angle"`
}

// SymLoadUpdate is the update record of a symmetric load.
type SymLoadUpdate struct {
	Base
	Status     int8    `pgm:"status"`
	PSpecified float64 `pgm:"p_specified"`
	QSpecified float64 `pgm:"q_specified"`
}
