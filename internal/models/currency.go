package models

// Currency is an ISO-4217 style currency code ("NGN", "USD").
type Currency string

// Valid reports whether the code is three uppercase ASCII letters.
func (c Currency) Valid() bool {
	if len(c) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if c[i] < 'A' || c[i] > 'Z' {
			return false
		}
	}
	return true
}

func (c Currency) String() string {
	return string(c)
}
