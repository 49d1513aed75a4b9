package window

import (
	"fmt"
	"time"
)

// DateRangeLabel renders a window range, e.g. "2024 Feb 15 - Mar 15" or
// "2023 Dec 15 - 2024Jan 15" (the upper year is glued to the month).
// Year windows render only the upper year.
func DateRangeLabel(lower, upper time.Time, unit TimeFrame) string {
	if unit == Year {
		return upper.Format("2006")
	}
	if lower.Year() != upper.Year() {
		return fmt.Sprintf("%s - %s", lower.Format("2006 Jan 2"), upper.Format("2006Jan 2"))
	}
	return fmt.Sprintf("%s - %s", lower.Format("2006 Jan 2"), upper.Format("Jan 2"))
}
