package tonrail

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const nanoDigits = 9

// ToNano converts a TON amount to nanoTON, dropping anything below one nanoTON.
func ToNano(amount decimal.Decimal) *big.Int {
	return amount.Shift(nanoDigits).Floor().BigInt()
}

// FromNano converts nanoTON to TON.
func FromNano(nano *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(nano, -nanoDigits)
}
