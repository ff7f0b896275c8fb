package components

// Sym is the symmetric phase representation.
type Sym = float64

// Asym is the three-phase representation.
type Asym = [3]float64

// Phase constrains output records to Sym or Asym.
type Phase interface {
	~float64 | ~[3]float64
}

// BaseOutput carries the fields shared by every output record.
type BaseOutput struct {
	Base
	Energized int8 `pgm:"energized"`
}

// NodeOutput is the power-flow output of a node.
type NodeOutput[V Phase] struct {
	BaseOutput
	UPu    V `pgm:"u_pu"`
	U      V `pgm:"u"`
	UAngle V `pgm:"u_angle"`
	P      V `pgm:"p"`
	Q      V `pgm:"q"`
}

// BranchOutput is the power-flow output of line and generic_branch.
type BranchOutput[V Phase] struct {
	BaseOutput
	Loading float64 `pgm:"loading"`
	PFrom   V       `pgm:"p_from"`
	QFrom   V       `pgm:"q_from"`
	IFrom   V       `pgm:"i_from"`
	SFrom   V       `pgm:"s_from"`
	PTo     V       `pgm:"p_to"`
	QTo     V       `pgm:"q_to"`
	ITo     V       `pgm:"i_to"`
	STo     V       `pgm:"s_to"`
}

// ApplianceOutput is the power-flow output of source and sym_load.
type ApplianceOutput[V Phase] struct {
	BaseOutput
	P  V `pgm:"p"`
	Q  V `pgm:"q"`
	I  V `pgm:"i"`
	S  V `pgm:"s"`
	PF V `pgm:"pf"`
}

// ScNodeOutput is the short-circuit output of a node.
type ScNodeOutput struct {
	BaseOutput
	UPu    Asym `pgm:"u_pu"`
	U      Asym `pgm:"u"`
	UAngle Asym `pgm:"u_angle"`
}

// ScBranchOutput is the short-circuit output of line and generic_branch.
type ScBranchOutput struct {
	BaseOutput
	IFrom      Asym `pgm:"i_from"`
	IFromAngle Asym `pgm:"i_from_angle"`
	ITo        Asym `pgm:"i_to"`
	IToAngle   Asym `pgm:"i_to_angle"`
}

// ScApplianceOutput is the short-circuit output of source and sym_load.
type ScApplianceOutput struct {
	BaseOutput
	I      Asym `pgm:"i"`
	IAngle Asym `pgm:"i_angle"`
}
