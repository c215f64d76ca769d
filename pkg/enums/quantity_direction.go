package enums

import "fmt"

// QuantityDirection is the step applied to a cart line's quantity.
type QuantityDirection string

const (
	QuantityIncrement QuantityDirection = "increment"
	QuantityDecrement QuantityDirection = "decrement"
)

var validQuantityDirections = []QuantityDirection{
	QuantityIncrement,
	QuantityDecrement,
}

func (d QuantityDirection) String() string {
	return string(d)
}

func (d QuantityDirection) IsValid() bool {
	for _, candidate := range validQuantityDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseQuantityDirection converts raw input into a QuantityDirection.
func ParseQuantityDirection(value string) (QuantityDirection, error) {
	for _, candidate := range validQuantityDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quantity direction %q", value)
}
