package jobshop

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instanceDirectory = "../../instances/"

func TestLoadFile(t *testing.T) {
	inst, err := LoadFile(instanceDirectory + "ft06")
	require.NoError(t, err)

	assert.Equal(t, "ft06", inst.Name)
	assert.Equal(t, 6, inst.Jobs)
	assert.Equal(t, 6, inst.Machines)
	assert.Equal(t, 6, inst.Tasks)
	assert.Equal(t, 2, inst.Machine(0, 0))
	assert.Equal(t, 1, inst.Duration(0, 0))
	assert.Equal(t, 2, inst.Machine(5, 5))
	assert.Equal(t, 1, inst.Duration(5, 5))
	assert.Equal(t, 10, inst.Duration(1, 4))
	for m := 0; m < inst.Machines; m++ {
		assert.Equal(t, 6, inst.MachineLoad(m))
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"only comments":  "# nothing\n\n",
		"bad header":     "2\n",
		"not an integer": "1 2\n0 x 1 2\n",
		"missing job":    "2 1\n0 3\n",
		"short job line": "1 2\n0 3\n",
		"trailing data":  "1 1\n0 3\n0 3\n",
		"bad machine":    "1 1\n4 3\n",
		"zero duration":  "1 1\n0 0\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(text), name)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseSkipsComments(t *testing.T) {
	text := "# header comment\n2 3\n\n0 3 1 2 2 2\n# between jobs\n1 2 0 1 2 4\n"
	inst, err := Parse(strings.NewReader(text), "small")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 1, 0, 2}, inst.MachineOf)
	assert.Equal(t, []int{3, 2, 2, 2, 1, 4}, inst.Durations)
	assert.Equal(t, 7, inst.RemainingWork(1, 0))
	assert.Equal(t, 5, inst.RemainingWork(1, 1))
	assert.Equal(t, Task{Job: 1, Task: 2}, inst.TaskAt(inst.OpIndex(Task{Job: 1, Task: 2})))
}
