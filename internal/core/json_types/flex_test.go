package json_types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlexList_UnmarshalArray(t *testing.T) {
	var list FlexList[string]
	err := json.Unmarshal([]byte(`["a","b","c"]`), &list)

	assert.NoError(t, err)
	assert.Equal(t, FlexList[string]{"a", "b", "c"}, list)
}

func TestFlexList_UnmarshalSingleObject(t *testing.T) {
	type item struct {
		Code string `json:"code"`
	}

	var list FlexList[item]
	err := json.Unmarshal([]byte(`{"code":"TSH"}`), &list)

	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "TSH", list[0].Code)
}

func TestFlexList_UnmarshalNull(t *testing.T) {
	var list FlexList[string]
	err := json.Unmarshal([]byte(`null`), &list)

	assert.NoError(t, err)
	assert.Nil(t, list)
}

func TestFlexList_MarshalAlwaysArray(t *testing.T) {
	list := FlexList[int]{7}
	data, err := json.Marshal(list)

	assert.NoError(t, err)
	assert.JSONEq(t, `[7]`, string(data))
}

func TestFlexBool_Unmarshal(t *testing.T) {
	cases := []struct {
		input    string
		expected bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"TRUE"`, true},
		{`"1"`, true},
		{`"0"`, false},
		{`"s"`, true},
		{`"Sim"`, true},
		{`"n"`, false},
		{`""`, false},
		{`null`, false},
	}

	for _, tc := range cases {
		var b FlexBool
		err := json.Unmarshal([]byte(tc.input), &b)

		assert.NoError(t, err, "input %s", tc.input)
		assert.Equal(t, tc.expected, b.Bool(), "input %s", tc.input)
	}
}

func TestFlexInt_Unmarshal(t *testing.T) {
	cases := []struct {
		input    string
		expected int
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`" 7 "`, 7},
		{`""`, 0},
		{`null`, 0},
	}

	for _, tc := range cases {
		var i FlexInt
		err := json.Unmarshal([]byte(tc.input), &i)

		assert.NoError(t, err, "input %s", tc.input)
		assert.Equal(t, tc.expected, i.Int(), "input %s", tc.input)
	}
}

func TestFlexInt_UnmarshalRejectsGarbage(t *testing.T) {
	var i FlexInt
	err := json.Unmarshal([]byte(`"abc"`), &i)

	assert.Error(t, err)
}

func TestFlexString_KeepsNumbersAsText(t *testing.T) {
	var s FlexString
	err := json.Unmarshal([]byte(`12.5`), &s)

	assert.NoError(t, err)
	assert.Equal(t, "12.5", s.String())
}

func TestStatusCode_OK(t *testing.T) {
	var numeric StatusCode
	assert.NoError(t, json.Unmarshal([]byte(`0`), &numeric))
	assert.True(t, numeric.OK())

	var quoted StatusCode
	assert.NoError(t, json.Unmarshal([]byte(`"0"`), &quoted))
	assert.True(t, quoted.OK())

	var failure StatusCode
	assert.NoError(t, json.Unmarshal([]byte(`"104"`), &failure))
	assert.False(t, failure.OK())
	assert.Equal(t, "104", failure.String())
}
