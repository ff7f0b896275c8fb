package components

// ID identifies a component instance across datasets.
type ID = int32

// Status values for the *_status attributes.
const (
	StatusOff int8 = 0
	StatusOn  int8 = 1
)

// LoadGenType enumerates sym_load "type" values.
const (
	LoadConstPower     int8 = 0
	LoadConstImpedance int8 = 1
	LoadConstCurrent   int8 = 2
)

// Base carries the identifier shared by every record.
type Base struct {
	ID ID `pgm:"id"`
}

// BranchInput carries the connectivity shared by two-terminal branches.
type BranchInput struct {
	Base
	FromNode   ID   `pgm:"from_node"`
	ToNode     ID   `pgm:"to_node"`
	FromStatus int8 `pgm:"from_status"`
	ToStatus   int8 `pgm:"to_status"`
}

// ApplianceInput carries the connectivity shared by one-terminal appliances.
type ApplianceInput struct {
	Base
	Node   ID   `pgm:"node"`
	Status int8 `pgm:"status"`
}

// NodeInput is the input record of a node.
type NodeInput struct {
	Base
	URated float64 `pgm:"u_rated"`
}

// LineInput is the input record of a line.
type LineInput struct {
	BranchInput
	R1   float64 `pgm:"r1"`
	X1   float64 `pgm:"x1"`
	C1   float64 `pgm:"c1"`
	Tan1 float64 `pgm:"tan1"`
	R0   float64 `pgm:"r0"`
	X0   float64 `pgm:"x0"`
	C0   float64 `pgm:"c0"`
	Tan0 float64 `pgm:"tan0"`
	IN   float64 `pgm:"i_n"`
}

// GenericBranchInput is the input record of a generic branch given by its
// per-unit admittance, off-nominal ratio and phase shift.
type GenericBranchInput struct {
	BranchInput
	R1    float64 `pgm:"r1"`
	X1    float64 `pgm:"x1"`
	G1    float64 `pgm:"g1"`
	B1    float64 `pgm:"b1"`
	K     float64 `pgm:"k"`
	Theta float64 `pgm:"theta"`
	Sn    float64 `pgm:"sn"`
}

// SourceInput is the input record of a voltage source.
type SourceInput struct {
	ApplianceInput
	URef      float64 `pgm:"u_ref"`
	URefAngle float64 `pgm:"u_ref_angle"`
	Sk        float64 `pgm:"sk"`
	RxRatio   float64 `pgm:"rx_ratio"`
	Z01Ratio  float64 `pgm:"z01_ratio"`
}

// SymLoadInput is the input record of a symmetric load or generator.
type SymLoadInput struct {
	ApplianceInput
	Type       int8    `pgm:"type"`
	PSpecified float64 `pgm:"p_specified"`
	QSpecified float64 `pgm:"q_specified"`
}
