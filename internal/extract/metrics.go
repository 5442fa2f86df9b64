package extract

import "math"

// Metrics holds price-efficiency numbers computed from a product's
// price, pack weight and per-100g nutrition table.
type Metrics struct {
	PricePer100g       float64 `json:"price_per_100g"`
	PricePer10gProtein float64 `json:"price_per_10g_protein,omitempty"`
	PricePer1000Kcal   float64 `json:"price_per_1000kcal,omitempty"`
	ProteinDensity     float64 `json:"protein_density,omitempty"`
	SugarToFiberRatio  float64 `json:"sugar_to_fiber_ratio,omitempty"`
}

// ComputeMetrics derives price-efficiency metrics. Returns nil when
// price or weight is missing; individual ratios are omitted when their
// denominator is zero. Nutrition values are assumed per 100 g.
func ComputeMetrics(priceRupees, weightGrams float64, nutrition map[string]float64) *Metrics {
	if priceRupees <= 0 || weightGrams <= 0 || len(nutrition) == 0 {
		return nil
	}

	m := &Metrics{
		PricePer100g: round2(priceRupees / weightGrams * 100),
	}

	if protein := nutrition["protein_g"]; protein > 0 {
		totalProtein := protein * weightGrams / 100
		m.PricePer10gProtein = round2(priceRupees / totalProtein * 10)
	}

	if kcal := nutrition["energy_kcal"]; kcal > 0 {
		totalKcal := kcal * weightGrams / 100
		m.PricePer1000Kcal = round2(priceRupees / totalKcal * 1000)
		if protein := nutrition["protein_g"]; protein > 0 {
			m.ProteinDensity = round2(protein / kcal * 100)
		}
	}

	if fiber := nutrition["fiber_g"]; fiber > 0 {
		m.SugarToFiberRatio = round2(nutrition["sugar_g"] / fiber)
	}

	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
