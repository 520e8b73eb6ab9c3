package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRValueSealed(t *testing.T) {
	// Verify all types implement IRValue (compile-time check via assignment)
	var _ IRValue = IRNull{}
	var _ IRValue = IRString("test")
	var _ IRValue = IRInt(42)
	var _ IRValue = IRBool(true)
}

func TestToParam(t *testing.T) {
	tests := []struct {
		name  string
		value IRValue
		want  any
	}{
		{"string", IRString("fox"), "fox"},
		{"int", IRInt(7), int64(7)},
		{"bool", IRBool(true), true},
		{"null", IRNull{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToParam(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToParam_Nil(t *testing.T) {
	_, err := ToParam(nil)
	assert.Error(t, err)
}

func TestFromColumn(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  IRValue
	}{
		{"nil", nil, IRNull{}},
		{"string", "quick fox", IRString("quick fox")},
		{"bytes", []byte("lazy dog"), IRString("lazy dog")},
		{"int64", int64(3), IRInt(3)},
		{"int", 4, IRInt(4)},
		{"bool", false, IRBool(false)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromColumn(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromColumn_RejectsFloats(t *testing.T) {
	_, err := FromColumn(1.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats")
}

func TestRowMarshalJSON_SortedKeys(t *testing.T) {
	row := Row{
		"Title": IRString("The quick brown fox"),
		"Id":    IRInt(1),
		"Draft": IRBool(false),
		"Notes": IRNull{},
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)

	assert.Equal(t, `{"Draft":false,"Id":1,"Notes":null,"Title":"The quick brown fox"}`, string(data))
}

func TestRowSortedKeys_Empty(t *testing.T) {
	assert.Empty(t, Row{}.SortedKeys())
}
