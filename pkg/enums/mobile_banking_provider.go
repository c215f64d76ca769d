package enums

import "fmt"

// MobileBankingProvider is the wallet a buyer picks for mobile banking.
type MobileBankingProvider string

const (
	MobileBankingBikash MobileBankingProvider = "bikash"
	MobileBankingNogod  MobileBankingProvider = "nogod"
	MobileBankingUpay   MobileBankingProvider = "upay"
)

var validMobileBankingProviders = []MobileBankingProvider{
	MobileBankingBikash,
	MobileBankingNogod,
	MobileBankingUpay,
}

func (m MobileBankingProvider) String() string {
	return string(m)
}

func (m MobileBankingProvider) IsValid() bool {
	for _, candidate := range validMobileBankingProviders {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMobileBankingProvider converts raw input into a MobileBankingProvider.
func ParseMobileBankingProvider(value string) (MobileBankingProvider, error) {
	for _, candidate := range validMobileBankingProviders {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid mobile banking provider %q", value)
}
