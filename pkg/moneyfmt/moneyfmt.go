// Package moneyfmt renders raw copper amounts as the familiar
// gold/silver/copper string. Pure formatting, no rounding beyond the
// integer bases.
package moneyfmt

import "fmt"

const (
	copperPerGold   = 10000
	copperPerSilver = 100
)

// Copper formats a copper amount as "12g 34s 56c".
func Copper(amount int64) string {
	gold := amount / copperPerGold
	silver := (amount % copperPerGold) / copperPerSilver
	copper := amount % copperPerSilver

	return fmt.Sprintf("%dg %ds %dc", gold, silver, copper)
}

// Gold converts whole gold into copper, the unit every price in the system
// is stored in.
func Gold(amount int64) int64 {
	return amount * copperPerGold
}
