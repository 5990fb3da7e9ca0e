package tools

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrossReference(t *testing.T) {
	src := `
start:
  li a0 3
loop:
  addi a0 a0 -1
  bnez a0 loop
  j start
  beq a0 x0 missing
`
	xrefs := CrossReference(src)
	require.Len(t, xrefs, 3)

	byName := map[string]LabelXref{}
	for _, x := range xrefs {
		byName[x.Name] = x
	}

	loop := byName["loop"]
	assert.Equal(t, 4, loop.DefLine)
	assert.Equal(t, []int{6}, loop.RefLines)

	start := byName["start"]
	assert.Equal(t, 2, start.DefLine)
	assert.Equal(t, []int{7}, start.RefLines)

	missing := byName["missing"]
	assert.Equal(t, 0, missing.DefLine)
	assert.Equal(t, []int{8}, missing.RefLines)
}

func TestCrossReference_SortedByName(t *testing.T) {
	xrefs := CrossReference("b:\nnop\na:\nnop\n")
	require.Len(t, xrefs, 2)
	assert.Equal(t, "a", xrefs[0].Name)
	assert.Equal(t, "b", xrefs[1].Name)
}

func TestWriteXref(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXref(&buf, []LabelXref{
		{Name: "loop", DefLine: 4, RefLines: []int{6, 9}},
		{Name: "missing", RefLines: []int{8}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "loop")
	assert.Contains(t, out, "defined line 4")
	assert.Contains(t, out, "referenced 6, 9")
	assert.Contains(t, out, "undefined")
}
