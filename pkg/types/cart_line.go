package types

import "strings"

// CartLine is one product in a storefront cart or purchase set.
type CartLine struct {
	ID        string `json:"id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	UnitPrice Money  `json:"unitPrice"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

// ProductIDs returns the line ids in order.
func ProductIDs(lines []CartLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}
	return ids
}

// NormalizeLine trims identifiers and labels.
func NormalizeLine(line CartLine) CartLine {
	line.ID = strings.TrimSpace(line.ID)
	line.Name = strings.TrimSpace(line.Name)
	line.Image = strings.TrimSpace(line.Image)
	return line
}
