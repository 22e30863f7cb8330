package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistory_KeepsLastLinesInOrder(t *testing.T) {
	h := New(DefaultCapacity)

	var all []string
	for i := 1; i <= 450; i++ {
		line := fmt.Sprintf("event %d", i)
		all = append(all, line)
		h.Append(line)
	}

	require.Equal(t, DefaultCapacity, h.Len())
	require.Equal(t, all[len(all)-DefaultCapacity:], h.Lines())
}

func TestHistory_UnderCapacityKeepsEverything(t *testing.T) {
	h := New(5)
	h.Append("a")
	h.Append("b")

	require.Equal(t, []string{"a", "b"}, h.Lines())
	require.Equal(t, 5, h.Cap())
}

func TestHistory_NonPositiveCapacityUsesDefault(t *testing.T) {
	require.Equal(t, DefaultCapacity, New(0).Cap())
	require.Equal(t, DefaultCapacity, New(-3).Cap())
}

func TestHistory_LinesReturnsCopy(t *testing.T) {
	h := New(3)
	h.Append("a")

	lines := h.Lines()
	lines[0] = "mutated"

	require.Equal(t, []string{"a"}, h.Lines())
}

func TestHistory_EmptyReturnsNil(t *testing.T) {
	require.Nil(t, New(3).Lines())
}

func TestHistory_DuplicatesAreKept(t *testing.T) {
	h := New(3)
	for range 4 {
		h.Append("same")
	}
	require.Equal(t, []string{"same", "same", "same"}, h.Lines())
}
