/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"fmt"
	"math"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDateOrZero returns a parsed time or zero if input is empty or "null".
func ParseDateOrZero(s string) (time.Time, error) {
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	return dateparse.ParseAny(s)
}

// ScoreToString renders a match point total with the conventional half
// point glyph, e.g. 2.5 becomes "2½" and 0.5 becomes "½".
func ScoreToString(score float64) string {
	whole := math.Floor(score)
	frac := score - whole

	var sb string
	if whole > 0 || frac == 0 {
		sb = fmt.Sprintf("%v", int(whole))
	}
	if frac >= 0.25 && frac < 0.75 {
		sb += "½"
	}

	return sb
}
