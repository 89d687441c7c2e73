package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestContainerValidation(t *testing.T) {
	container := Container{Name: "Bowl A", EmptyWeight: 200}
	assert.True(t, container.IsValid())
	assert.Empty(t, container.ValidationErrors())

	cases := []struct {
		name      string
		container Container
	}{
		{"empty name", Container{Name: "   ", EmptyWeight: 200}},
		{"name too long", Container{Name: strings.Repeat("a", 21), EmptyWeight: 200}},
		{"control character in name", Container{Name: "Bowl\x00A", EmptyWeight: 200}},
		{"negative empty weight", Container{Name: "Bowl A", EmptyWeight: -1}},
		{"empty weight too large", Container{Name: "Bowl A", EmptyWeight: 10001}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, tc.container.IsValid())
			assert.NotEmpty(t, tc.container.ValidationErrors())
		})
	}
}

func TestContainerValidationBoundaries(t *testing.T) {
	// 20 runes, not bytes; multibyte names must count per character
	container := Container{Name: strings.Repeat("水", 20), EmptyWeight: 10000}
	assert.True(t, container.IsValid())

	container.Name = strings.Repeat("水", 21)
	assert.False(t, container.IsValid())

	container = Container{Name: "Bowl A", EmptyWeight: 0}
	assert.True(t, container.IsValid())
}

func TestWaterRecordValidation(t *testing.T) {
	record := WaterRecord{
		StartTime:   time.Now(),
		StartWeight: 300,
		CatCount:    2,
	}
	assert.True(t, record.IsValid(), "unfinished record with valid fields")

	record.EndWeight = floatPtr(250)
	record.EndTime = timePtr(time.Now())
	assert.True(t, record.IsValid())

	// end weight must stay strictly below start weight
	record.EndWeight = floatPtr(300)
	assert.False(t, record.IsValid())
	record.EndWeight = floatPtr(301)
	assert.False(t, record.IsValid())
	record.EndWeight = floatPtr(-1)
	assert.False(t, record.IsValid())

	record.EndWeight = floatPtr(0)
	assert.True(t, record.IsValid())
}

func TestWaterRecordValidation_EdgeCases(t *testing.T) {
	base := WaterRecord{StartTime: time.Now(), StartWeight: 300, CatCount: 2}

	zeroStart := base
	zeroStart.StartWeight = 0
	assert.False(t, zeroStart.IsValid())

	heavyStart := base
	heavyStart.StartWeight = 10001
	assert.False(t, heavyStart.IsValid())

	noCats := base
	noCats.CatCount = 0
	assert.False(t, noCats.IsValid())

	tooManyCats := base
	tooManyCats.CatCount = 100
	assert.False(t, tooManyCats.IsValid())

	cold := base
	cold.Temperature = floatPtr(-51)
	assert.False(t, cold.IsValid())

	hot := base
	hot.Temperature = floatPtr(70)
	assert.True(t, hot.IsValid())
	hot.Temperature = floatPtr(70.5)
	assert.False(t, hot.IsValid())

	longNote := base
	longNote.Note = strPtr(strings.Repeat("x", 51))
	assert.False(t, longNote.IsValid())
	longNote.Note = strPtr(strings.Repeat("x", 50))
	assert.True(t, longNote.IsValid())
}

func TestWaterRecordNoteWithRemainingAmountPrefix(t *testing.T) {
	base := WaterRecord{StartTime: time.Now(), StartWeight: 300, CatCount: 2}

	// the composed remaining-amount line does not count against the note
	// bound, so a finished record's note round-trips through validation
	composed := base
	composed.Note = strPtr("残量: 250g\n" + strings.Repeat("x", 50))
	assert.True(t, composed.IsValid())

	prefixOnly := base
	prefixOnly.Note = strPtr("残量: 250g")
	assert.True(t, prefixOnly.IsValid())

	overlong := base
	overlong.Note = strPtr("残量: 250g\n" + strings.Repeat("x", 51))
	assert.False(t, overlong.IsValid())

	// a user note that merely mentions 残量 mid-text is not a prefix
	midText := base
	midText.Note = strPtr(strings.Repeat("x", 43) + "\n残量: 250g")
	assert.False(t, midText.IsValid())
}

func TestTrimRemainingAmount(t *testing.T) {
	assert.Equal(t, "memo", TrimRemainingAmount("残量: 250g\nmemo"))
	assert.Equal(t, "", TrimRemainingAmount("残量: 250g"))
	assert.Equal(t, "memo", TrimRemainingAmount("memo"))
	assert.Equal(t, "残量: soon\nmemo", TrimRemainingAmount("残量: soon\nmemo"))
}

func TestWaterRecordAmount(t *testing.T) {
	record := WaterRecord{StartWeight: 300, CatCount: 2}

	assert.Nil(t, record.Amount(), "unfinished record has no amount")
	assert.Nil(t, record.PerCatAmount())

	record.EndWeight = floatPtr(250)
	if assert.NotNil(t, record.Amount()) {
		assert.Equal(t, 50.0, *record.Amount())
	}
	if assert.NotNil(t, record.PerCatAmount()) {
		assert.Equal(t, 25.0, *record.PerCatAmount())
	}
}

func TestWaterRecordIsOwnRecord(t *testing.T) {
	record := WaterRecord{StartWeight: 300, CatCount: 1}

	assert.True(t, record.IsOwnRecord("device-a"), "legacy record without device id")

	record.CreatedByDeviceID = strPtr("")
	assert.True(t, record.IsOwnRecord("device-a"))

	record.CreatedByDeviceID = strPtr("device-a")
	assert.True(t, record.IsOwnRecord("device-a"))

	record.CreatedByDeviceID = strPtr("device-b")
	assert.False(t, record.IsOwnRecord("device-a"))
}
