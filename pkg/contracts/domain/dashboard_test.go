package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFatalityPivot_Cell(t *testing.T) {
	age := 31.5
	p := FatalityPivot{
		Fatality: []string{"N", "Y"},
		Sex:      []string{"F", "M"},
		Cells:    [][]*float64{{nil, &age}, {nil, nil}},
	}

	got, ok := p.Cell("N", "M")
	assert.True(t, ok)
	assert.Equal(t, 31.5, got)

	_, ok = p.Cell("N", "F")
	assert.False(t, ok)

	_, ok = p.Cell("X", "M")
	assert.False(t, ok)

	assert.False(t, p.Empty())
	assert.True(t, FatalityPivot{}.Empty())
}

func TestPageReport_Empty(t *testing.T) {
	assert.True(t, (&PageReport{Status: ReportStatusEmpty}).Empty())
	assert.False(t, (&PageReport{Status: ReportStatusOK}).Empty())
}
