package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcreteZeroNormalisesToZero(t *testing.T) {
	assert.Equal(t, Zero, Concrete(0))
	assert.Equal(t, NumberZero, Concrete(0).Kind())
	assert.False(t, Concrete(0).IsConcrete())
}

func TestParseClueNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    ClueNumber
		wantErr bool
	}{
		{"2", Concrete(2), false},
		{" 9 ", Concrete(9), false},
		{"0", Zero, false},
		{"unlimited", Unlimited, false},
		{"UNLIMITED", Unlimited, false},
		{"-1", ClueNumber{}, true},
		{"two", ClueNumber{}, true},
		{"", ClueNumber{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClueNumber(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClueNumber_Valid(t *testing.T) {
	assert.True(t, Concrete(1).Valid())
	assert.True(t, Zero.Valid())
	assert.True(t, Unlimited.Valid())
	assert.False(t, Concrete(-3).Valid())
	assert.False(t, ClueNumber{}.Valid())
}

func TestClueNumber_String(t *testing.T) {
	assert.Equal(t, "3", Concrete(3).String())
	assert.Equal(t, "0", Zero.String())
	assert.Equal(t, "unlimited", Unlimited.String())
}

func TestClueNumber_JSON(t *testing.T) {
	data, err := json.Marshal(Clue{Text: "OCEAN", Number: Unlimited})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"OCEAN","number":"unlimited"}`, string(data))

	var c Clue
	require.NoError(t, json.Unmarshal([]byte(`{"text":"RIVER","number":"0"}`), &c))
	assert.Equal(t, Zero, c.Number)
}

func TestBudgetFor(t *testing.T) {
	tests := []struct {
		name string
		n    ClueNumber
		want Budget
	}{
		{"one", Concrete(1), Budget{Max: 2}},
		{"three", Concrete(3), Budget{Max: 4}},
		{"zero", Zero, Budget{Unbounded: true, Min: 1}},
		{"concrete zero", Concrete(0), Budget{Unbounded: true, Min: 1}},
		{"unlimited", Unlimited, Budget{Unbounded: true, Min: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetFor(tt.n))
		})
	}
}

func TestBudget_Accounting(t *testing.T) {
	b := BudgetFor(Concrete(2))
	assert.Equal(t, 3, b.Remaining(0))
	assert.Equal(t, 1, b.Remaining(2))
	assert.False(t, b.Exhausted(2))
	assert.True(t, b.Exhausted(3))
	assert.Equal(t, 0, b.Remaining(4))
	assert.True(t, b.MinMet(0))

	u := BudgetFor(Unlimited)
	assert.Equal(t, -1, u.Remaining(10))
	assert.False(t, u.Exhausted(100))
	assert.False(t, u.MinMet(0))
	assert.True(t, u.MinMet(1))
}
