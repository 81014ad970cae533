package util

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		want   float64
		wantOK bool
	}{
		{name: "float", in: 3.5, want: 3.5, wantOK: true},
		{name: "int", in: 4, want: 4, wantOK: true},
		{name: "numeric string", in: " 2 ", want: 2, wantOK: true},
		{name: "json number", in: json.Number("5"), want: 5, wantOK: true},
		{name: "empty string", in: "", wantOK: false},
		{name: "text", in: "abc", wantOK: false},
		{name: "infinite string", in: "Inf", wantOK: false},
		{name: "nil", in: nil, wantOK: false},
		{name: "bool", in: true, wantOK: false},
		{name: "NaN", in: math.NaN(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestToNumberOrNaN(t *testing.T) {
	assert.Equal(t, 7.0, ToNumberOrNaN("7"))
	assert.True(t, math.IsNaN(ToNumberOrNaN("siete")))
}

func TestToID(t *testing.T) {
	id, ok := ToID(float64(12))
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	id, ok = ToID("3")
	assert.True(t, ok)
	assert.Equal(t, uint(3), id)

	for _, bad := range []interface{}{0.0, -1.0, 1.5, "x", nil} {
		_, ok := ToID(bad)
		assert.False(t, ok, "%v", bad)
	}
}
