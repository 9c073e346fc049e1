// Package points converts a race finishing order into point awards.
package points

import "fmt"

// Table holds the points awarded per finishing rank (1..10).
var Table = [10]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// MaxScoredRanks is the number of finishing ranks that earn points.
const MaxScoredRanks = len(Table)

// ScoreOrder maps a submitted finishing order to point awards per driver.
// order[i] is the driver finishing at rank i+1; an empty entry means the
// rank was left unfilled and is skipped without compacting the ranks below
// it (an unfilled rank 3 still leaves rank 4 worth 12 points). Entries past
// rank 10 earn nothing and produce no entry. A driver listed twice is an
// error.
func ScoreOrder(order []string) (map[string]int, error) {
	awards := make(map[string]int)
	for i, driverID := range order {
		if i >= MaxScoredRanks {
			break
		}
		if driverID == "" {
			continue
		}
		if _, dup := awards[driverID]; dup {
			return nil, fmt.Errorf("driver %s listed more than once", driverID)
		}
		awards[driverID] = Table[i]
	}
	return awards, nil
}
