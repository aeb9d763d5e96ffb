package match

// Canonical keys for the covered competitions. Providers map these onto
// their own vocabulary; everything above the provider layer speaks only
// these keys.
var (
	sportKeys = []string{"soccer", "basketball"}
	gameKeys  = []string{"lol", "cs2", "valorant", "dota2"}
)

// Sports lists the canonical sport keys in display order.
func Sports() []string {
	out := make([]string, len(sportKeys))
	copy(out, sportKeys)
	return out
}

// Games lists the canonical videogame keys in display order.
func Games() []string {
	out := make([]string, len(gameKeys))
	copy(out, gameKeys)
	return out
}

func IsSport(key string) bool {
	for _, k := range sportKeys {
		if k == key {
			return true
		}
	}
	return false
}

func IsGame(key string) bool {
	for _, k := range gameKeys {
		if k == key {
			return true
		}
	}
	return false
}
