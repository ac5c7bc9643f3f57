package reedsolomon

import (
	qrcore "github.com/ericlevine/qrcore"
)

func errReedSolomon(op string) error {
	return &qrcore.Error{Kind: qrcore.KindChecksum, Op: op}
}

// Decoder performs Reed-Solomon error correction decoding.
type Decoder struct {
	field *GenericGF
}

// NewDecoder creates a new Decoder for the given field.
func NewDecoder(field *GenericGF) *Decoder {
	return &Decoder{field: field}
}

// Decode corrects errors in received in-place and returns the number of
// errors corrected. twoS is the number of error-correction codewords.
func (d *Decoder) Decode(received []int, twoS int) (int, error) {
	poly, err := NewGenericGFPoly(d.field, received)
	if err != nil {
		return 0, err
	}
	syndromeCoefficients := make([]int, twoS)
	noError := true
	for i := 0; i < twoS; i++ {
		eval := poly.EvaluateAt(d.field.Exp(i + d.field.GeneratorBase()))
		syndromeCoefficients[twoS-1-i] = eval
		if eval != 0 {
			noError = false
		}
	}
	if noError {
		return 0, nil
	}

	syndrome := newGenericGFPoly(d.field, syndromeCoefficients)
	monomial, err := d.field.BuildMonomial(twoS, 1)
	if err != nil {
		return 0, err
	}
	sigma, omega, err := d.runEuclideanAlgorithm(monomial, syndrome, twoS)
	if err != nil {
		return 0, err
	}
	errorLocations, err := d.findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	errorMagnitudes, err := d.findErrorMagnitudes(omega, errorLocations)
	if err != nil {
		return 0, err
	}
	for i, location := range errorLocations {
		log, err := d.field.Log(location)
		if err != nil {
			return 0, err
		}
		position := len(received) - 1 - log
		if position < 0 {
			return 0, errReedSolomon("Decode")
		}
		received[position] = AddOrSubtract(received[position], errorMagnitudes[i])
	}
	return len(errorLocations), nil
}

// runEuclideanAlgorithm returns the error locator (sigma) and error
// evaluator (omega) polynomials.
func (d *Decoder) runEuclideanAlgorithm(a, b *GenericGFPoly, R int) (sigma, omega *GenericGFPoly, err error) {
	if a.Degree() < b.Degree() {
		a, b = b, a
	}

	rLast := a
	r := b
	tLast := d.field.Zero()
	t := d.field.One()

	for 2*r.Degree() >= R {
		rLastLast := rLast
		tLastLast := tLast
		rLast = r
		tLast = t

		if rLast.IsZero() {
			return nil, nil, errReedSolomon("runEuclideanAlgorithm")
		}
		var q *GenericGFPoly
		q, r, err = rLastLast.Divide(rLast)
		if err != nil {
			return nil, nil, err
		}

		t = q.multiply(tLast).addOrSubtract(tLastLast)

		if r.Degree() >= rLast.Degree() {
			return nil, nil, errReedSolomon("runEuclideanAlgorithm")
		}
	}

	sigmaTildeAtZero := t.Coefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, errReedSolomon("runEuclideanAlgorithm")
	}

	inverse, err := d.field.Inverse(sigmaTildeAtZero)
	if err != nil {
		return nil, nil, err
	}
	return t.MultiplyScalar(inverse), r.MultiplyScalar(inverse), nil
}

func (d *Decoder) findErrorLocations(errorLocator *GenericGFPoly) ([]int, error) {
	numErrors := errorLocator.Degree()
	if numErrors == 1 {
		return []int{errorLocator.Coefficient(1)}, nil
	}
	result := make([]int, 0, numErrors)
	for i := 1; i < d.field.Size() && len(result) < numErrors; i++ {
		if errorLocator.EvaluateAt(i) == 0 {
			inv, err := d.field.Inverse(i)
			if err != nil {
				return nil, err
			}
			result = append(result, inv)
		}
	}
	if len(result) != numErrors {
		return nil, errReedSolomon("findErrorLocations")
	}
	return result, nil
}

func (d *Decoder) findErrorMagnitudes(errorEvaluator *GenericGFPoly, errorLocations []int) ([]int, error) {
	s := len(errorLocations)
	result := make([]int, s)
	for i := 0; i < s; i++ {
		xiInverse, err := d.field.Inverse(errorLocations[i])
		if err != nil {
			return nil, errReedSolomon("findErrorMagnitudes")
		}
		denominator := 1
		for j := 0; j < s; j++ {
			if i != j {
				// 1 + x_j/x_i, with addition as XOR on the low bit.
				term := d.field.Multiply(errorLocations[j], xiInverse)
				termPlus1 := term | 1
				if term&1 != 0 {
					termPlus1 = term &^ 1
				}
				denominator = d.field.Multiply(denominator, termPlus1)
			}
		}
		inverseDenominator, err := d.field.Inverse(denominator)
		if err != nil {
			return nil, errReedSolomon("findErrorMagnitudes")
		}
		result[i] = d.field.Multiply(errorEvaluator.EvaluateAt(xiInverse), inverseDenominator)
		if d.field.GeneratorBase() != 0 {
			result[i] = d.field.Multiply(result[i], xiInverse)
		}
	}
	return result, nil
}
