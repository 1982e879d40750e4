package namebank

import (
	_ "embed"
	"fmt"
)

//go:embed names.yaml
var defaultNames []byte

// Default returns the built-in name bank.
func Default() *Bank {
	b, err := Parse(defaultNames)
	if err != nil {
		panic(fmt.Sprintf("namebank: built-in names are invalid: %v", err))
	}
	return b
}
