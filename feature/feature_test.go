package feature

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name string
		want Attribute
	}{
		{"gender", Gender},
		{"deviceType", DeviceType},
		{"device_type", DeviceType},
		{"AdPosition", AdPosition},
		{"browsingHistory", BrowsingHistory},
		{"time_of_day", TimeOfDay},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAttribute(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestParseAttribute_Unknown(t *testing.T) {
	_, err := ParseAttribute("age")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAttribute))
}

func TestParseAttributes(t *testing.T) {
	attrs, err := ParseAttributes([]string{"timeOfDay", "gender", "adPosition"})
	require.NoError(t, err)
	assert.Equal(t, []Attribute{TimeOfDay, Gender, AdPosition}, attrs)

	_, err = ParseAttributes([]string{"gender", "colour"})
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	_, err = ParseAttributes([]string{"gender", "Gender"})
	assert.ErrorIs(t, err, ErrDuplicateAttribute)
}

func TestAttributeNamesRoundTrip(t *testing.T) {
	for _, a := range Attributes() {
		parsed, err := ParseAttribute(a.Name())
		require.NoError(t, err)
		assert.Equal(t, a, parsed)
	}
}

func TestValueOf(t *testing.T) {
	r := Record{
		Age:             25,
		Gender:          "Male",
		DeviceType:      "Desktop",
		AdPosition:      "Bottom",
		BrowsingHistory: "News",
		TimeOfDay:       "Morning",
		Click:           Click,
	}
	assert.Equal(t, "Male", Gender.ValueOf(r))
	assert.Equal(t, "Desktop", DeviceType.ValueOf(r))
	assert.Equal(t, "Bottom", AdPosition.ValueOf(r))
	assert.Equal(t, "News", r.ValueFor(BrowsingHistory))
	assert.Equal(t, "Morning", r.ValueFor(TimeOfDay))
	assert.Equal(t, "", Attribute(42).ValueOf(r))
}

func TestWithReturnsCopy(t *testing.T) {
	r := Record{AdPosition: "Top", Gender: "Female"}
	modified := r.With(AdPosition, "Side")
	assert.Equal(t, "Side", modified.AdPosition)
	assert.Equal(t, "Female", modified.Gender)
	assert.Equal(t, "Top", r.AdPosition)
}

func TestCriterion(t *testing.T) {
	c := NewCriterion(DeviceType, "Mobile")
	assert.True(t, c.SatisfiedBy(Record{DeviceType: "Mobile"}))
	assert.False(t, c.SatisfiedBy(Record{DeviceType: "mobile"}))
	assert.Equal(t, "deviceType is Mobile", c.String())
}

func TestLabel(t *testing.T) {
	assert.True(t, Click.Valid())
	assert.True(t, NoClick.Valid())
	assert.False(t, Unknown.Valid())
	assert.Equal(t, "?", Unknown.String())
}
