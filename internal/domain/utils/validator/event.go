package validator

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Badsnus/campus-hub/internal/domain/entity"
	"github.com/Badsnus/campus-hub/internal/domain/utils/timefmt"
)

// MinTagDescription is the shortest description sent for tag suggestion.
const MinTagDescription = 20

func EventCategory(category string, _ map[string]interface{}) bool {
	return entity.Category(category).Valid()
}

// EventStart requires the date plus params["time"] to be in the future.
func EventStart(date string, params map[string]interface{}) bool {
	clock, _ := params["time"].(string)
	start, err := timefmt.Combine(date, clock)
	if err != nil {
		return false
	}
	now, ok := params["now"].(time.Time)
	if !ok {
		now = time.Now()
	}
	return start.After(now)
}

func TagDescription(description string, _ map[string]interface{}) bool {
	return utf8.RuneCountInString(strings.TrimSpace(description)) >= MinTagDescription
}

func CommentContent(content string, _ map[string]interface{}) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	return n >= 1 && n <= 2000
}
