package components

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/hupe1980/gridbuf/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetaData(t *testing.T) {
	md, err := NewMetaData()
	require.NoError(t, err)

	for _, name := range []string{Input, Update, SymOutput, AsymOutput, ScOutput} {
		_, err := md.Dataset(name)
		assert.NoError(t, err, name)
	}

	input, err := md.Dataset(Input)
	require.NoError(t, err)
	assert.Len(t, input.Components, 5)

	gb, err := input.Component(GenericBranch)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[GenericBranchInput](), gb.Type())
	for _, name := range []string{"id", "from_node", "to_node", "from_status", "to_status", "r1", "x1", "g1", "b1", "k", "theta", "sn"} {
		assert.GreaterOrEqual(t, gb.FindAttribute(name), 0, name)
	}

	theta, err := gb.Attribute("theta")
	require.NoError(t, err)
	assert.Equal(t, unsafe.Offsetof(GenericBranchInput{}.Theta), theta.Offset)

	update, err := md.Dataset(Update)
	require.NoError(t, err)
	_, err = update.Component(Node)
	assert.ErrorIs(t, err, meta.ErrSchema)
}

func TestOutputPhases(t *testing.T) {
	md := MustMetaData()

	sym, err := md.Dataset(SymOutput)
	require.NoError(t, err)
	asym, err := md.Dataset(AsymOutput)
	require.NoError(t, err)

	symNode, err := sym.Component(Node)
	require.NoError(t, err)
	asymNode, err := asym.Component(Node)
	require.NoError(t, err)

	u, err := symNode.Attribute("u_pu")
	require.NoError(t, err)
	assert.Equal(t, meta.CTypeDouble, u.CType)

	u, err = asymNode.Attribute("u_pu")
	require.NoError(t, err)
	assert.Equal(t, meta.CTypeDouble3, u.CType)

	assert.Equal(t, unsafe.Sizeof(NodeOutput[Asym]{}), asymNode.Size)

	line, err := asym.Component(Line)
	require.NoError(t, err)
	loading, err := line.Attribute("loading")
	require.NoError(t, err)
	assert.Equal(t, meta.CTypeDouble, loading.CType)

	sc, err := md.Dataset(ScOutput)
	require.NoError(t, err)
	src, err := sc.Component(Source)
	require.NoError(t, err)
	i, err := src.Attribute("i_angle")
	require.NoError(t, err)
	assert.Equal(t, meta.CTypeDouble3, i.CType)
}
