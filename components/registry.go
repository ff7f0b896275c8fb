package components

import (
	"github.com/hupe1980/gridbuf/meta"
)

// Dataset kind names.
const (
	Input      = "input"
	Update     = "update"
	SymOutput  = "sym_output"
	AsymOutput = "asym_output"
	ScOutput   = "sc_output"
)

// Component names.
const (
	Node          = "node"
	Line          = "line"
	GenericBranch = "generic_branch"
	Source        = "source"
	SymLoad       = "sym_load"
)

type builder struct {
	err error
}

func (b *builder) dataset(name string, comps ...meta.Component) meta.Dataset {
	if b.err != nil {
		return meta.Dataset{}
	}
	d, err := meta.NewDataset(name, comps...)
	b.err = err
	return d
}

func component[T any](b *builder, name string) meta.Component {
	if b.err != nil {
		return meta.Component{}
	}
	c, err := meta.NewComponent[T](name)
	b.err = err
	return c
}

func output[V Phase](b *builder, name string) meta.Dataset {
	return b.dataset(name,
		component[NodeOutput[V]](b, Node),
		component[BranchOutput[V]](b, Line),
		component[BranchOutput[V]](b, GenericBranch),
		component[ApplianceOutput[V]](b, Source),
		component[ApplianceOutput[V]](b, SymLoad),
	)
}

// NewMetaData builds the registry of every built-in dataset kind.
func NewMetaData() (*meta.MetaData, error) {
	b := &builder{}
	datasets := []meta.Dataset{
		b.dataset(Input,
			component[NodeInput](b, Node),
			component[LineInput](b, Line),
			component[GenericBranchInput](b, GenericBranch),
			component[SourceInput](b, Source),
			component[SymLoadInput](b, SymLoad),
		),
		b.dataset(Update,
			component[BranchUpdate](b, Line),
			component[BranchUpdate](b, GenericBranch),
			component[SourceUpdate](b, Source),
			component[SymLoadUpdate](b, SymLoad),
		),
		output[Sym](b, SymOutput),
		output[Asym](b, AsymOutput),
		b.dataset(ScOutput,
			component[ScNodeOutput](b, Node),
			component[ScBranchOutput](b, Line),
			component[ScBranchOutput](b, GenericBranch),
			component[ScApplianceOutput](b, Source),
			component[ScApplianceOutput](b, SymLoad),
		),
	}
	if b.err != nil {
		return nil, b.err
	}
	return meta.New(datasets...)
}

// MustMetaData is like NewMetaData but panics on error.
func MustMetaData() *meta.MetaData {
	md, err := NewMetaData()
	if err != nil {
		panic(err)
	}
	return md
}
