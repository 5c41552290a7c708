package validator

import (
	"errors"
	"testing"
	"time"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	"github.com/Badsnus/campus-hub/internal/domain/dto"
	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructRegistrationForm(t *testing.T) {
	ok := dto.RegistrationForm{FullName: "Ada Lovelace", RollNumber: "CS101", Branch: "CS", Section: "A"}
	require.NoError(t, Struct(ok))

	bad := ok
	bad.RollNumber = "C1"
	err := Struct(bad)
	require.Error(t, err)

	var v *errorz.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "roll_number", v.Field)
	assert.Equal(t, "Roll number is required.", v.Message)

	bad = ok
	bad.Section = ""
	err = Struct(bad)
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "section", v.Field)
}

func TestStructEventFormGenericMessage(t *testing.T) {
	form := dto.EventForm{
		Title:       "Hack Night",
		Description: "All night hacking session",
		Date:        "2025-13-40",
		Time:        "18:00",
		Venue:       "Lab 3",
		Category:    entity.CategoryTech,
	}
	err := Struct(form)
	var v *errorz.ValidationError
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "date", v.Field)
	assert.Contains(t, v.Message, "datetime")
}

func TestTagDescription(t *testing.T) {
	assert.False(t, TagDescription("nineteen characters", nil))
	assert.True(t, TagDescription("twenty characters!!!", nil))
	assert.False(t, TagDescription("   short with spaces     ", nil))
}

func TestEventStart(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, EventStart("2025-06-02", map[string]interface{}{"time": "10:00", "now": now}))
	assert.False(t, EventStart("2025-05-31", map[string]interface{}{"time": "10:00", "now": now}))
	assert.False(t, EventStart("garbage", map[string]interface{}{"now": now}))
}

func TestEmailDomains(t *testing.T) {
	t.Cleanup(func() { viper.Set("settings.auth.valid-email-domains", nil) })

	assert.True(t, Email("student@anything.org", nil))
	viper.Set("settings.auth.valid-email-domains", []string{"@campus.edu"})
	assert.True(t, Email("student@campus.edu", nil))
	assert.False(t, Email("student@gmail.com", nil))
	assert.False(t, Email("not an email", nil))
}
