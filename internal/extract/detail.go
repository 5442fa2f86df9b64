package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Detail is everything recovered from one product detail page.
// A fetch failure still produces a Detail, tagged with Err, so a batch
// is never aborted by one bad page.
type Detail struct {
	PVID         string             `json:"pvid"`
	Name         string             `json:"name"`
	Nutrition    map[string]float64 `json:"nutrition,omitempty"`
	Ingredients  string             `json:"ingredients,omitempty"`
	FSSAI        string             `json:"fssai,omitempty"`
	Flags        []Flag             `json:"flags,omitempty"`
	HasNutrition bool               `json:"has_nutrition"`
	NotFound     bool               `json:"is_404"`
	Err          string             `json:"error,omitempty"`
	ScrapedAt    time.Time          `json:"scraped_at"`
}

// Nutrition labels follow the FSSAI table format: "Energy (kcal) 724".
// One pattern per nutrient; an absent nutrient means "not reported",
// never zero.
var nutritionPatterns = []struct {
	pattern *regexp.Regexp
	key     string
}{
	{regexp.MustCompile(`Energy \(kcal\) ([0-9.]+)`), "energy_kcal"},
	{regexp.MustCompile(`Protein \(g\) ([0-9.]+)`), "protein_g"},
	{regexp.MustCompile(`Carbohydrate \(g\) ([0-9.]+)`), "carbs_g"},
	{regexp.MustCompile(`Total Fat \(g\) ([0-9.]+)`), "fat_g"},
	{regexp.MustCompile(`Total Sugars \(g\) ([0-9.]+)`), "sugar_g"},
	{regexp.MustCompile(`Added Sugars \(g\) ([0-9.]+)`), "added_sugar_g"},
	{regexp.MustCompile(`Dietary Fibre \(g\) ([0-9.]+)`), "fiber_g"},
	{regexp.MustCompile(`Sodium \(mg\) ([0-9.]+)`), "sodium_mg"},
	{regexp.MustCompile(`Saturated Fat \(g\) ([0-9.]+)`), "saturated_fat_g"},
	{regexp.MustCompile(`Trans Fat \(g\) ([0-9.]+)`), "trans_fat_g"},
}

// Ingredient and license labels vary between page revisions; patterns
// are tried in priority order, first match wins.
var ingredientsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"ingredients"\s*:\s*"([^"]{10,})"`),
	regexp.MustCompile(`"Ingredients"\s*:\s*"([^"]{10,})"`),
}

var fssaiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"fssaiLicense"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`"fssaiLicenseNo"\s*:\s*"([^"]+)"`),
	regexp.MustCompile(`(?i)FSSAI[^0-9]*([0-9]{12,14})`),
}

var notFoundMarkers = []string{
	"NEXT_HTTP_ERROR_FALLBACK;404",
	"page you're looking for",
}

// ExtractNutrition scans detail page text for the FSSAI nutrition table
func ExtractNutrition(text string) map[string]float64 {
	content := Unescape(text)

	nutrition := make(map[string]float64)
	for _, np := range nutritionPatterns {
		m := np.pattern.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		nutrition[np.key] = v
	}

	return nutrition
}

// ExtractIngredients returns the ingredients string, if present
func ExtractIngredients(text string) (string, bool) {
	content := Unescape(text)

	for _, pattern := range ingredientsPatterns {
		m := pattern.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(m[1], `\n`, " "), `\`, ""))
		return cleaned, true
	}

	return "", false
}

// ExtractFSSAI returns the FSSAI license number, if present
func ExtractFSSAI(text string) (string, bool) {
	content := Unescape(text)

	for _, pattern := range fssaiPatterns {
		m := pattern.FindStringSubmatch(content)
		if m != nil {
			return m[1], true
		}
	}

	return "", false
}

// ParseDetail combines all detail page extractors for one product.
// A page counts as not-found only when a not-found marker is present
// AND no content field was extracted; a real product without a
// nutrition table is not a 404.
func ParseDetail(name, pvid, text string) Detail {
	nutrition := ExtractNutrition(text)
	ingredients, hasIngredients := ExtractIngredients(text)
	fssai, _ := ExtractFSSAI(text)

	hasMarker := false
	content := Unescape(text)
	for _, marker := range notFoundMarkers {
		if strings.Contains(content, marker) {
			hasMarker = true
			break
		}
	}

	d := Detail{
		PVID:         pvid,
		Name:         name,
		Ingredients:  ingredients,
		FSSAI:        fssai,
		HasNutrition: len(nutrition) > 0,
		NotFound:     hasMarker && len(nutrition) == 0 && !hasIngredients,
		ScrapedAt:    time.Now(),
	}
	if len(nutrition) > 0 {
		d.Nutrition = nutrition
	}
	if hasIngredients {
		d.Flags = FlagIngredients(ingredients)
	}

	return d
}

// ErrorDetail tags a fetch failure as a record instead of aborting the
// batch
func ErrorDetail(name, pvid string, err error) Detail {
	return Detail{
		PVID:      pvid,
		Name:      name,
		Err:       err.Error(),
		ScrapedAt: time.Now(),
	}
}
