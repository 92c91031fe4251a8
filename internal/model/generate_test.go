package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRange(t *testing.T) {
	got, err := GenerateRange("第", "回", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []ChecklistItem{
		{ID: 1, Label: "第1回"},
		{ID: 2, Label: "第2回"},
		{ID: 3, Label: "第3回"},
	}, got)

	t.Run("single item", func(t *testing.T) {
		got, err := GenerateRange("p.", "", 42, 42)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "p.42", got[0].Label)
	})

	t.Run("ids start at one for offset ranges", func(t *testing.T) {
		got, err := GenerateRange("", "", 5, 7)
		require.NoError(t, err)
		assert.Equal(t, 1, got[0].ID)
		assert.Equal(t, "5", got[0].Label)
	})

	t.Run("reversed", func(t *testing.T) {
		_, err := GenerateRange("", "", 5, 1)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("too large", func(t *testing.T) {
		_, err := GenerateRange("", "", 1, MaxGeneratedItems+1)
		assert.True(t, IsValidation(err))
	})

	t.Run("largest allowed", func(t *testing.T) {
		got, err := GenerateRange("", "", 1, MaxGeneratedItems)
		require.NoError(t, err)
		assert.Len(t, got, MaxGeneratedItems)
	})

	t.Run("extreme bounds", func(t *testing.T) {
		bounds := [][2]int{
			{-2, math.MaxInt},
			{math.MinInt, math.MaxInt},
			{math.MinInt, 0},
		}
		for _, b := range bounds {
			got, err := GenerateRange("第", "回", b[0], b[1])
			require.Error(t, err, "%d..%d", b[0], b[1])
			assert.True(t, IsValidation(err))
			assert.Nil(t, got)
		}
	})

	t.Run("extreme single item", func(t *testing.T) {
		got, err := GenerateRange("", "", math.MaxInt, math.MaxInt)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})
}

func TestGenerateManual(t *testing.T) {
	got := GenerateManual([]string{"Intro", "  ", "", "Chapter 2"})
	assert.Equal(t, []ChecklistItem{
		{ID: 1, Label: "Intro"},
		{ID: 2, Label: "Chapter 2"},
	}, got)

	assert.Empty(t, GenerateManual(nil))
}

func TestGenerateItems(t *testing.T) {
	t.Run("empty mode means range", func(t *testing.T) {
		got, err := GenerateItems(NewTask{Range: RangeSpec{Start: 1, End: 2}})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("manual", func(t *testing.T) {
		got, err := GenerateItems(NewTask{Mode: GenerateManualMode, ManualLabels: []string{"a"}})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := GenerateItems(NewTask{Mode: "spiral"})
		assert.True(t, IsValidation(err))
	})
}

func TestNormalizeItems(t *testing.T) {
	in := []ChecklistItem{
		{ID: 4, Label: " kept ", Done: true},
		{Label: "new one"},
		{ID: 2, Label: "two"},
		{Label: "new two"},
	}

	got, err := NormalizeItems(in)
	require.NoError(t, err)
	assert.Equal(t, []ChecklistItem{
		{ID: 4, Label: "kept", Done: true},
		{ID: 5, Label: "new one"},
		{ID: 2, Label: "two"},
		{ID: 6, Label: "new two"},
	}, got)
	assert.Equal(t, " kept ", in[0].Label)
	assert.Zero(t, in[1].ID)

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := NormalizeItems([]ChecklistItem{{ID: 1, Label: "a"}, {ID: 1, Label: "b"}})
		assert.True(t, IsValidation(err))
	})

	t.Run("blank label", func(t *testing.T) {
		_, err := NormalizeItems([]ChecklistItem{{ID: 1, Label: " "}})
		assert.True(t, IsValidation(err))
	})
}

func TestNextItemID(t *testing.T) {
	assert.Equal(t, 1, NextItemID(nil))
	assert.Equal(t, 8, NextItemID([]ChecklistItem{{ID: 3}, {ID: 7}, {ID: 1}}))
}

func TestGenerateDefaultRange(t *testing.T) {
	r := DefaultRangeSpec()
	got, err := GenerateRange(r.Prefix, r.Suffix, r.Start, r.End)
	require.NoError(t, err)
	require.Len(t, got, 10)
	for i, it := range got {
		assert.Equal(t, i+1, it.ID)
		assert.False(t, it.Done)
	}
	assert.Equal(t, "第1回", got[0].Label)
	assert.Equal(t, "第10回", got[9].Label)
}

func TestGenerateManualKeepsOrder(t *testing.T) {
	got := GenerateManual([]string{"", "A", "  ", "B"})
	assert.Equal(t, []ChecklistItem{{ID: 1, Label: "A"}, {ID: 2, Label: "B"}}, got)
}
