package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParameterTable_Lines(t *testing.T) {
	table := &ParameterTable{
		Columns: []ParameterColumn{{Title: "Name", Width: 4}, {Title: "Address"}, {Title: "Comment", Width: 7}},
		Rows:    [][]string{{"x", "", "first\nsecond"}, {"y"}},
	}

	assert.Equal(t, []string{
		"Name  Comment",
		"x     first",
		"      second",
		"y",
	}, table.Lines())
}
