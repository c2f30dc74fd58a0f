package bignum

// Add returns a + b.
func Add(a, b Nat) (Nat, error) {
	x, y := a.words(), b.words()
	if len(y) > len(x) {
		x, y = y, x
	}

	out := make([]uint32, len(x)+1)
	var carry uint64
	for i := range y {
		sum := uint64(x[i]) + uint64(y[i]) + carry
		out[i] = uint32(sum) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
		carry = sum >> 32
	}
	for i := len(y); i < len(x); i++ {
		sum := uint64(x[i]) + carry
		out[i] = uint32(sum) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
		carry = sum >> 32
	}
	out[len(x)] = uint32(carry) //nolint:gosec // G115: carry is 0 or 1.

	res := makeNat(out)
	if err := checkSize(res.limbs); err != nil {
		return Nat{}, err
	}
	return res, nil
}
