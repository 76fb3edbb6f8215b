package induction

import (
	"fmt"

	"github.com/aretw0/planfsa/pkg/domain"
	"github.com/aretw0/planfsa/pkg/token"
)

// Classify infers how the middle block repeats from the minimal and maximal
// pivot occurrence counts across a plan set.
//
//	uniform count < 2 -> "0" no middle block
//	uniform count 2   -> "1" middle block exactly once
//	uniform count > 2 -> "+"
//	min < 2 < max     -> "*" middle block may be absent
//	2 <= min < max    -> "+"
func Classify(minCount, maxCount int) (string, error) {
	if minCount < 0 || maxCount < minCount {
		return "", fmt.Errorf("min %d, max %d: %w", minCount, maxCount, domain.ErrInvalidRepetition)
	}

	if minCount == maxCount {
		switch {
		case minCount < 2:
			return token.Absent, nil
		case minCount == 2:
			return token.Once, nil
		default:
			return token.OneOrMore, nil
		}
	}
	if minCount < 2 {
		return token.ZeroOrMore, nil
	}
	return token.OneOrMore, nil
}
