package bignum

// Pow returns base^exp. The exponent must fit in one limb.
func Pow(base, exp Nat) (Nat, error) {
	b, e := base.words(), exp.words()
	switch {
	case isZero(b):
		if isZero(e) {
			return Nat{}, ErrUndefined
		}
		return Zero(), nil
	case isZero(e) || isOne(b):
		return One(), nil
	}
	if len(e) > 1 {
		return Nat{}, ErrExponentTooLarge
	}
	return PowUint32(base, e[0])
}

// PowUint32 returns base^e.
func PowUint32(base Nat, e uint32) (Nat, error) {
	b := base.words()
	switch {
	case isZero(b):
		if e == 0 {
			return Nat{}, ErrUndefined
		}
		return Zero(), nil
	case e == 0 || isOne(b):
		return One(), nil
	}

	// base >= 2 here, so the result has at least (bitlen-1)*e+1 bits.
	minBits := uint64(base.BitLen()-1)*uint64(e) + 1 //nolint:gosec // G115: BitLen is positive.
	if minBits > uint64(MaxLimbs)*32 {
		return Nat{}, ErrSizeLimit
	}

	switch e {
	case 1:
		return Copy(base), nil
	case 2:
		return Sqr(base)
	case 3:
		sq, err := Sqr(base)
		if err != nil {
			return Nat{}, err
		}
		return Mul(base, sq)
	case 4:
		sq, err := Sqr(base)
		if err != nil {
			return Nat{}, err
		}
		return Sqr(sq)
	}

	result := One()
	term := base
	for e > 0 {
		var err error
		if e&1 == 1 {
			result, err = Mul(result, term)
			if err != nil {
				return Nat{}, err
			}
		}
		e >>= 1
		if e == 0 {
			break
		}
		term, err = Sqr(term)
		if err != nil {
			return Nat{}, err
		}
	}
	return result, nil
}
