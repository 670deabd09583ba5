package domain

// NutritionWidget is the raw nutrition summary returned by the provider.
// Values are magnitudes with units glued on, e.g. "543kcal" or "12g".
type NutritionWidget struct {
	Calories string `json:"calories"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Protein  string `json:"protein"`
}

// NutritionFacts is the parsed nutrition summary for a recipe.
// A nil field means the provider value was absent or unparseable.
type NutritionFacts struct {
	RecipeID string   `json:"recipe_id"`
	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
}

// Transcript is the result of a speech-to-text request
type Transcript struct {
	Text string `json:"text"`
}
