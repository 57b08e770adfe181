package signature

import (
	"errors"
	"math/bits"
)

// MaxMacros is the number of macro slots of a Signature, one bit of the mask per slot.
const MaxMacros = 32

var (
	// ErrMacroOverflow is returned when more than MaxMacros macros need a signature slot.
	ErrMacroOverflow = errors.New("too many macro bindings")

	// ErrMacroOutOfRange is returned in strict mode when an integer macro is outside [min, max].
	ErrMacroOutOfRange = errors.New("integer macro out of range")
)

// Signature identifies the conditional-compilation state of a program variant: a mask with one bit
// per defined macro slot and the integer values of integer macros. A Signature is a value type and
// is never modified after Build returns it.
type Signature struct {
	mask   uint32
	values [MaxMacros]int
}

// Mask returns the bitmask of defined macro slots.
//
// Returns:
//   - uint32: the mask
func (s Signature) Mask() uint32 {
	return s.mask
}

// Value returns the integer value of a macro slot. Slots not in the mask hold meaningless values.
//
// Parameters:
//   - slot: the slot index in [0, MaxMacros)
//
// Returns:
//   - int: the slot value
func (s Signature) Value(slot int) int {
	return s.values[slot]
}

// Values returns a copy of every slot value.
//
// Returns:
//   - [MaxMacros]int: the slot values
func (s Signature) Values() [MaxMacros]int {
	return s.values
}

// Len returns the number of defined macro slots.
//
// Returns:
//   - int: the number of bits set in the mask
func (s Signature) Len() int {
	return bits.OnesCount32(s.mask)
}

// Equal reports whether two signatures select the same variant: the masks match and every slot in
// the mask holds the same value. Slots outside the mask are ignored.
//
// Parameters:
//   - o: the signature to compare with
//
// Returns:
//   - bool: true if the signatures are equal
func (s Signature) Equal(o Signature) bool {
	if s.mask != o.mask {
		return false
	}
	for m := s.mask; m != 0; m &= m - 1 {
		i := bits.TrailingZeros32(m)
		if s.values[i] != o.values[i] {
			return false
		}
	}
	return true
}

func (s *Signature) set(slot, value int) {
	s.mask |= 1 << uint(slot)
	s.values[slot] = value
}
