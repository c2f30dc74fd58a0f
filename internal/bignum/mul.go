package bignum

// Mul returns a * b using schoolbook long multiplication.
func Mul(a, b Nat) (Nat, error) {
	x, y := a.words(), b.words()
	switch {
	case isZero(x) || isZero(y):
		return Zero(), nil
	case isOne(x):
		return Copy(b), nil
	case isOne(y):
		return Copy(a), nil
	}
	// The product has at least len(x)+len(y)-1 limbs.
	if len(x)+len(y)-1 > MaxLimbs {
		return Nat{}, ErrSizeLimit
	}

	out := make([]uint32, len(x)+len(y))
	for i, xi := range x {
		if xi == 0 {
			continue
		}
		ai := uint64(xi)
		var carry uint64
		for j, yj := range y {
			// (2^32-1) + (2^32-1)^2 + (2^32-1) == 2^64-1, so this never overflows.
			t := uint64(out[i+j]) + ai*uint64(yj) + carry
			out[i+j] = uint32(t) //nolint:gosec // G115: truncation is intentional (limb arithmetic).
			carry = t >> 32
		}
		out[i+len(y)] = uint32(carry) //nolint:gosec // G115: carry fits in one limb.
	}

	res := makeNat(out)
	if err := checkSize(res.limbs); err != nil {
		return Nat{}, err
	}
	return res, nil
}

// Sqr returns x * x.
func Sqr(x Nat) (Nat, error) {
	return Mul(x, x)
}
