package extract

import "strings"

// Flag marks an ingredient from the watch-list found in a product's
// ingredients string. Derived on the fly, never persisted.
type Flag struct {
	Ingredient string `json:"ingredient"`
	Category   string `json:"flag"`
}

// watchList pairs an ingredient substring with the category it flags.
// "colour" also catches numbered colors like 160C.
var watchList = []Flag{
	{"palm oil", "unhealthy_fat"},
	{"palmolein", "unhealthy_fat"},
	{"hydrogenated", "trans_fat_risk"},
	{"maltodextrin", "hidden_sugar"},
	{"high fructose", "hidden_sugar"},
	{"aspartame", "artificial_sweetener"},
	{"sucralose", "artificial_sweetener"},
	{"msg", "flavor_enhancer"},
	{"monosodium glutamate", "flavor_enhancer"},
	{"yeast extract", "hidden_msg"},
	{"hydrolyzed", "hidden_msg"},
	{"artificial color", "artificial_additive"},
	{"colour", "artificial_additive"},
	{"tbhq", "preservative"},
	{"bht", "preservative"},
	{"sodium benzoate", "preservative"},
}

// FlagIngredients scans an ingredients string against the watch-list.
// Multiple flags may apply to one product.
func FlagIngredients(ingredients string) []Flag {
	if ingredients == "" {
		return nil
	}

	lower := strings.ToLower(ingredients)

	var flags []Flag
	for _, entry := range watchList {
		if strings.Contains(lower, entry.Ingredient) {
			flags = append(flags, entry)
		}
	}

	return flags
}
