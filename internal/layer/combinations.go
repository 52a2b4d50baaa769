package layer

import "math/big"

// TotalCombinations returns the number of distinct trait sets the layers can
// produce: the product of every layer's trait count, sentinel included.
// Linked layers are counted at face value, so the figure is an upper bound.
func TotalCombinations(layers []Layer) *big.Int {
	total := big.NewInt(1)
	for _, l := range layers {
		total.Mul(total, big.NewInt(int64(len(l.Traits))))
	}
	return total
}
