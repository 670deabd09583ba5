package domain

// RecipeSourceSpoonacular tags recipes that came from the Spoonacular provider
const RecipeSourceSpoonacular = "spoonacular"

// ProviderIngredient is an ingredient mention in a provider recipe
type ProviderIngredient struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// CandidateRecipe is a recipe returned by the ingredient-search provider,
// annotated with which requested ingredients it uses and misses
type CandidateRecipe struct {
	ID                int64                `json:"id"`
	Title             string               `json:"title"`
	Image             string               `json:"image,omitempty"`
	UsedIngredients   []ProviderIngredient `json:"usedIngredients"`
	MissedIngredients []ProviderIngredient `json:"missedIngredients"`
	ReadyInMinutes    *int                 `json:"readyInMinutes,omitempty"`
}

// ScoredRecipe is a candidate recipe with its computed match score
type ScoredRecipe struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Image              *string  `json:"image"`
	UsedIngredients    []string `json:"used_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
	MatchScore         float64  `json:"match_score"`
	ReadyInMinutes     *int     `json:"ready_in_minutes"`
	Source             string   `json:"source"`
}

// MatchResponse is the ranked result of a match request
type MatchResponse struct {
	Recipes []ScoredRecipe `json:"recipes"`
}
