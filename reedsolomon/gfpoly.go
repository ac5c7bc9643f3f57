package reedsolomon

import (
	"strconv"
	"strings"

	qrcore "github.com/ericlevine/qrcore"
)

// GenericGFPoly represents a polynomial whose coefficients are elements of a GF.
// Instances are immutable: every operation returns a new polynomial (or one
// of its operands unchanged).
type GenericGFPoly struct {
	field        *GenericGF
	coefficients []int
}

// NewGenericGFPoly creates a polynomial from coefficients ordered from
// highest-degree to lowest-degree. Leading zeros are stripped, so the result
// has a non-zero leading coefficient unless it is the zero polynomial.
func NewGenericGFPoly(field *GenericGF, coefficients []int) (*GenericGFPoly, error) {
	if len(coefficients) == 0 {
		return nil, &qrcore.Error{Kind: qrcore.KindArithmetic, Op: "NewGenericGFPoly"}
	}
	owned := make([]int, len(coefficients))
	copy(owned, coefficients)
	return newGenericGFPoly(field, owned), nil
}

// newGenericGFPoly takes ownership of a non-empty coefficient slice.
func newGenericGFPoly(field *GenericGF, coefficients []int) *GenericGFPoly {
	if len(coefficients) > 1 && coefficients[0] == 0 {
		firstNonZero := 1
		for firstNonZero < len(coefficients) && coefficients[firstNonZero] == 0 {
			firstNonZero++
		}
		if firstNonZero == len(coefficients) {
			return field.zero
		}
		coefficients = coefficients[firstNonZero:]
	}
	return &GenericGFPoly{field: field, coefficients: coefficients}
}

// Field returns the field the coefficients belong to.
func (p *GenericGFPoly) Field() *GenericGF { return p.field }

// Coefficients returns a copy of the coefficients, highest degree first.
func (p *GenericGFPoly) Coefficients() []int {
	c := make([]int, len(p.coefficients))
	copy(c, p.coefficients)
	return c
}

// Degree returns the degree of this polynomial.
func (p *GenericGFPoly) Degree() int {
	return len(p.coefficients) - 1
}

// IsZero returns true if this is the zero polynomial.
func (p *GenericGFPoly) IsZero() bool {
	return p.coefficients[0] == 0
}

// Coefficient returns the coefficient of x^degree.
func (p *GenericGFPoly) Coefficient(degree int) int {
	return p.coefficients[len(p.coefficients)-1-degree]
}

// EvaluateAt evaluates this polynomial at a.
func (p *GenericGFPoly) EvaluateAt(a int) int {
	if a == 0 {
		return p.Coefficient(0)
	}
	if a == 1 {
		result := 0
		for _, c := range p.coefficients {
			result = AddOrSubtract(result, c)
		}
		return result
	}
	result := p.coefficients[0]
	for i := 1; i < len(p.coefficients); i++ {
		result = AddOrSubtract(p.field.Multiply(a, result), p.coefficients[i])
	}
	return result
}

func (p *GenericGFPoly) checkField(op string, other *GenericGFPoly) error {
	if p.field != other.field {
		return &qrcore.Error{Kind: qrcore.KindFieldMismatch, Op: op}
	}
	return nil
}

// AddOrSubtract adds (or, equivalently, subtracts) another polynomial.
func (p *GenericGFPoly) AddOrSubtract(other *GenericGFPoly) (*GenericGFPoly, error) {
	if err := p.checkField("AddOrSubtract", other); err != nil {
		return nil, err
	}
	return p.addOrSubtract(other), nil
}

func (p *GenericGFPoly) addOrSubtract(other *GenericGFPoly) *GenericGFPoly {
	if p.IsZero() {
		return other
	}
	if other.IsZero() {
		return p
	}

	smallerCoeff := p.coefficients
	largerCoeff := other.coefficients
	if len(smallerCoeff) > len(largerCoeff) {
		smallerCoeff, largerCoeff = largerCoeff, smallerCoeff
	}

	sumDiff := make([]int, len(largerCoeff))
	lengthDiff := len(largerCoeff) - len(smallerCoeff)
	copy(sumDiff, largerCoeff[:lengthDiff])

	for i := lengthDiff; i < len(largerCoeff); i++ {
		sumDiff[i] = AddOrSubtract(smallerCoeff[i-lengthDiff], largerCoeff[i])
	}

	return newGenericGFPoly(p.field, sumDiff)
}

// Multiply multiplies by another polynomial.
func (p *GenericGFPoly) Multiply(other *GenericGFPoly) (*GenericGFPoly, error) {
	if err := p.checkField("Multiply", other); err != nil {
		return nil, err
	}
	return p.multiply(other), nil
}

func (p *GenericGFPoly) multiply(other *GenericGFPoly) *GenericGFPoly {
	if p.IsZero() || other.IsZero() {
		return p.field.zero
	}
	aCoeff := p.coefficients
	bCoeff := other.coefficients
	product := make([]int, len(aCoeff)+len(bCoeff)-1)
	for i, ac := range aCoeff {
		for j, bc := range bCoeff {
			product[i+j] = AddOrSubtract(product[i+j], p.field.Multiply(ac, bc))
		}
	}
	return newGenericGFPoly(p.field, product)
}

// MultiplyScalar multiplies every coefficient by scalar.
func (p *GenericGFPoly) MultiplyScalar(scalar int) *GenericGFPoly {
	if scalar == 0 {
		return p.field.zero
	}
	if scalar == 1 {
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, scalar)
	}
	return newGenericGFPoly(p.field, product)
}

// MultiplyByMonomial multiplies by coefficient * x^degree.
func (p *GenericGFPoly) MultiplyByMonomial(degree, coefficient int) (*GenericGFPoly, error) {
	if degree < 0 {
		return nil, &qrcore.Error{Kind: qrcore.KindArithmetic, Op: "MultiplyByMonomial", Got: degree}
	}
	return p.multiplyByMonomial(degree, coefficient), nil
}

func (p *GenericGFPoly) multiplyByMonomial(degree, coefficient int) *GenericGFPoly {
	if coefficient == 0 {
		return p.field.zero
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, coefficient)
	}
	return newGenericGFPoly(p.field, product)
}

// Divide divides by another polynomial, returning quotient and remainder such
// that p = quotient*other + remainder with deg(remainder) < deg(other).
func (p *GenericGFPoly) Divide(other *GenericGFPoly) (quotient, remainder *GenericGFPoly, err error) {
	if err := p.checkField("Divide", other); err != nil {
		return nil, nil, err
	}
	if other.IsZero() {
		return nil, nil, &qrcore.Error{Kind: qrcore.KindArithmetic, Op: "Divide"}
	}

	quotient = p.field.zero
	remainder = p

	inverseDLT, err := p.field.Inverse(other.Coefficient(other.Degree()))
	if err != nil {
		return nil, nil, err
	}

	for remainder.Degree() >= other.Degree() && !remainder.IsZero() {
		degreeDiff := remainder.Degree() - other.Degree()
		scale := p.field.Multiply(remainder.Coefficient(remainder.Degree()), inverseDLT)
		term := other.multiplyByMonomial(degreeDiff, scale)
		quotient = quotient.addOrSubtract(p.field.buildMonomial(degreeDiff, scale))
		remainder = remainder.addOrSubtract(term)
	}

	return quotient, remainder, nil
}

// Equal reports whether p and other are the same polynomial over the same field.
func (p *GenericGFPoly) Equal(other *GenericGFPoly) bool {
	if p.field != other.field || len(p.coefficients) != len(other.coefficients) {
		return false
	}
	for i, c := range p.coefficients {
		if other.coefficients[i] != c {
			return false
		}
	}
	return true
}

// String renders the polynomial as a sum of a^k x^d terms.
func (p *GenericGFPoly) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	for degree := p.Degree(); degree >= 0; degree-- {
		coefficient := p.Coefficient(degree)
		if coefficient == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" + ")
		}
		if degree == 0 || coefficient != 1 {
			alphaPower, _ := p.field.Log(coefficient)
			switch alphaPower {
			case 0:
				sb.WriteByte('1')
			case 1:
				sb.WriteByte('a')
			default:
				sb.WriteString("a^")
				sb.WriteString(strconv.Itoa(alphaPower))
			}
		}
		if degree == 1 {
			sb.WriteByte('x')
		} else if degree > 1 {
			sb.WriteString("x^")
			sb.WriteString(strconv.Itoa(degree))
		}
	}
	return sb.String()
}
