package flow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zclconf/go-cty/cty"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func TestCount(t *testing.T) {
	var nilSlice []string
	var nilPtr *Message

	cases := []struct {
		name    string
		payload any
		want    int
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"string", "hello", 1},
		{"int", 3, 3},
		{"int64", int64(2), 2},
		{"uint", uint(4), 4},
		{"integral float", 5.0, 5},
		{"fractional float", 1.5, 1},
		{"slice", []string{"a", "b"}, 2},
		{"nil slice", nilSlice, 0},
		{"map", map[string]int{"a": 1}, 1},
		{"array", [3]int{}, 3},
		{"nil pointer", nilPtr, 0},
		{"pointer", &Message{}, 1},
		{"struct", struct{}{}, 1},
		{"counter", fixedCounter(7), 7},
		{"bool", true, 1},
		{"cty list", cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}), 2},
		{"cty number", cty.NumberIntVal(4), 4},
		{"cty null", cty.NullVal(cty.String), 0},
		{"cty empty string", cty.StringVal(""), 0},
		{"negative int", -3, 0},
		{"min int64", int64(math.MinInt64), 0},
		{"max uint64", uint64(math.MaxUint64), math.MaxInt},
		{"negative float", -2.0, 0},
		{"huge float", 1e300, math.MaxInt},
		{"infinity", math.Inf(1), 1},
		{"nan", math.NaN(), 1},
		{"negative counter", fixedCounter(-1), 0},
		{"cty negative number", cty.NumberIntVal(-4), 0},
		{"cty huge number", cty.MustParseNumberVal("1e40"), math.MaxInt},
		{"cty object", cty.ObjectVal(map[string]cty.Value{"a": cty.True}), 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Count(tc.payload))
		})
	}
}

func TestMessage_WithPayloadKeepsIDAndCopiesProperties(t *testing.T) {
	props := map[string]any{"a": 1}
	msg := NewMessage("in", props)
	props["a"] = 2

	out := msg.WithPayload("out")
	out.Properties["b"] = true

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, msg.ID, out.ID)
	assert.Equal(t, "out", out.Payload)
	assert.Equal(t, 1, msg.Properties["a"])
	_, ok := msg.Property("b")
	assert.False(t, ok)
}
