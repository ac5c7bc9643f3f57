package reedsolomon

import (
	"sync"

	qrcore "github.com/ericlevine/qrcore"
)

// Encoder computes Reed-Solomon error-correction codewords. It is safe for
// concurrent use.
type Encoder struct {
	field *GenericGF

	mu               sync.Mutex
	cachedGenerators []*GenericGFPoly
}

// NewEncoder creates a new Encoder for the given field.
func NewEncoder(field *GenericGF) *Encoder {
	return &Encoder{
		field:            field,
		cachedGenerators: []*GenericGFPoly{field.One()},
	}
}

func (e *Encoder) buildGenerator(degree int) *GenericGFPoly {
	e.mu.Lock()
	defer e.mu.Unlock()
	if degree < len(e.cachedGenerators) {
		return e.cachedGenerators[degree]
	}
	lastGenerator := e.cachedGenerators[len(e.cachedGenerators)-1]
	for d := len(e.cachedGenerators); d <= degree; d++ {
		nextGenerator := lastGenerator.multiply(
			newGenericGFPoly(e.field, []int{1, e.field.Exp(d - 1 + e.field.GeneratorBase())}))
		e.cachedGenerators = append(e.cachedGenerators, nextGenerator)
		lastGenerator = nextGenerator
	}
	return e.cachedGenerators[degree]
}

// Encode fills the last ecBytes entries of toEncode with error-correction
// codewords for the data held in the entries before them.
func (e *Encoder) Encode(toEncode []int, ecBytes int) error {
	if ecBytes <= 0 {
		return &qrcore.Error{Kind: qrcore.KindArithmetic, Op: "Encode", Got: ecBytes}
	}
	dataBytes := len(toEncode) - ecBytes
	if dataBytes <= 0 {
		return &qrcore.Error{Kind: qrcore.KindArithmetic, Op: "Encode", Want: ecBytes + 1, Got: len(toEncode)}
	}
	generator := e.buildGenerator(ecBytes)
	info, err := NewGenericGFPoly(e.field, toEncode[:dataBytes])
	if err != nil {
		return err
	}
	info = info.multiplyByMonomial(ecBytes, 1)
	_, remainder, err := info.Divide(generator)
	if err != nil {
		return err
	}
	coefficients := remainder.coefficients
	numZero := ecBytes - len(coefficients)
	for i := 0; i < numZero; i++ {
		toEncode[dataBytes+i] = 0
	}
	copy(toEncode[dataBytes+numZero:], coefficients)
	return nil
}
