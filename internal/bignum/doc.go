// Package bignum implements arbitrary-precision non-negative integers over
// 32-bit limbs: addition, schoolbook multiplication, Knuth division with
// remainder, exponentiation by squaring and base 2..16 text conversion.
//
// Every operation is a pure function of its operands. Values never change
// after construction; ZERO and ONE are shared and may appear in many results.
package bignum
