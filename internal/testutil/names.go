package testutil

// Names is a fixed 25-name board used across tests, in board order.
var Names = []string{
	"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO",
	"FOXTROT", "GOLF", "HOTEL", "INDIA", "JULIET",
	"KILO", "LIMA", "MIKE", "NOVEMBER", "OSCAR",
	"PAPA", "QUEBEC", "ROMEO", "SIERRA", "TANGO",
	"UNIFORM", "VICTOR", "WHISKEY", "XRAY", "YANKEE",
}

// Fixed layout for Names with red starting: identity name by board name.
var (
	RedAllies  = []string{"ALPHA", "BRAVO", "CHARLIE", "ECHO", "FOXTROT", "GOLF", "HOTEL", "INDIA", "JULIET"}
	BlueAllies = []string{"KILO", "LIMA", "MIKE", "NOVEMBER", "OSCAR", "PAPA", "QUEBEC", "ROMEO"}
	Civilians  = []string{"DELTA", "SIERRA", "TANGO", "UNIFORM", "VICTOR", "WHISKEY", "XRAY"}
	Illegal    = "YANKEE"
)

// RedStartLayout maps every name in Names to its identity string
// ("red_ally", "blue_ally", "civilian", "illegal") for the fixed layout.
func RedStartLayout() map[string]string {
	layout := make(map[string]string, len(Names))
	for _, n := range RedAllies {
		layout[n] = "red_ally"
	}
	for _, n := range BlueAllies {
		layout[n] = "blue_ally"
	}
	for _, n := range Civilians {
		layout[n] = "civilian"
	}
	layout[Illegal] = "illegal"
	return layout
}

// ManyNames returns n distinct synthetic names ("NAME-001", ...), for name
// bank and sampling tests.
func ManyNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = syntheticName(i + 1)
	}
	return names
}

func syntheticName(i int) string {
	const digits = "0123456789"
	b := []byte("NAME-000")
	b[5] = digits[(i/100)%10]
	b[6] = digits[(i/10)%10]
	b[7] = digits[i%10]
	return string(b)
}
