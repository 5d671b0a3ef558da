package extract

import (
	"fmt"
	"strings"
)

// Lexicons holds the externally supplied term lists the filter and
// scorer consume. They are data, not code: swapping them never touches
// the algorithms.
type Lexicons struct {
	// Allow terms mark a phrase as food-relevant.
	Allow []string `yaml:"allow"`

	// Veto terms reject a phrase outright, even when it also matches
	// an allow term.
	Veto []string `yaml:"veto"`

	// Diet terms grant the diet-match scoring bonus.
	Diet []string `yaml:"diet"`

	// StopWords are stripped from phrases before similarity matching.
	StopWords []string `yaml:"stopwords"`
}

// FoodFilter is a binary relevance gate over normalized phrases.
// Closed-world: phrases matching neither lexicon are rejected, trading
// missed novel trends for a noise-free pipeline.
type FoodFilter struct {
	allow []string
	veto  []string
}

// NewFoodFilter builds a filter from the given lexicons. An empty
// allow lexicon is a configuration error: the filter would reject
// everything and the run would silently produce nothing.
func NewFoodFilter(lex Lexicons) (*FoodFilter, error) {
	if len(lex.Allow) == 0 {
		return nil, fmt.Errorf("food filter: allow lexicon is empty")
	}

	return &FoodFilter{
		allow: normalizeTerms(lex.Allow),
		veto:  normalizeTerms(lex.Veto),
	}, nil
}

// Relevant reports whether a phrase passes the food-intent gate.
// Veto takes precedence over allow.
func (f *FoodFilter) Relevant(phrase string) bool {
	norm := NormalizeForMatch(phrase)
	if norm == "" {
		return false
	}

	for _, v := range f.veto {
		if containsTerm(norm, v) {
			return false
		}
	}

	for _, a := range f.allow {
		if containsTerm(norm, a) {
			return true
		}
	}

	return false
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if n := NormalizeForMatch(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// containsTerm reports whether phrase contains term on word
// boundaries. Both arguments must already be in comparison form.
func containsTerm(phrase, term string) bool {
	idx := 0
	for {
		i := strings.Index(phrase[idx:], term)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(term)

		beforeOK := start == 0 || phrase[start-1] == ' '
		afterOK := end == len(phrase) || phrase[end] == ' '
		if beforeOK && afterOK {
			return true
		}

		idx = start + 1
		if idx >= len(phrase) {
			return false
		}
	}
}

// DefaultLexicons returns the curated lexicons the system ships with.
// Deployments override them via sources.yaml.
func DefaultLexicons() Lexicons {
	return Lexicons{
		Allow: []string{
			// proteins / dairy
			"chicken", "beef", "pork", "salmon", "tuna", "shrimp", "egg", "eggs",
			"tofu", "yoghurt", "yogurt", "cheese", "milk", "butter", "skyr", "kefir",
			// carbs & staples
			"bread", "rice", "pasta", "noodle", "noodles", "potato", "potatoes",
			"wrap", "tortilla", "pizza", "burger", "oats", "granola",
			// produce
			"avocado", "tomato", "tomatoes", "onion", "onions", "garlic",
			"banana", "bananas", "apple", "apples", "spinach", "broccoli", "lemon",
			// dishes / cuisines
			"soup", "salad", "curry", "stew", "taco", "ramen", "risotto",
			"lasagna", "lasagne", "paella", "dumpling", "dumplings", "jjigae",
			"air fryer",
			// ingredients that trend
			"miso", "matcha", "kimchi", "gochujang", "tahini", "hummus",
			// form factors
			"sauce", "broth", "paste", "powder", "dressing", "marinade", "dip",
			// generic food signals, multilingual recipe terms included
			"recipe", "recipes", "recept", "recepten", "rezept", "rezepte",
			"recette", "recettes", "snack", "dessert",
		},
		Veto: []string{
			"catrice", "maybelline", "loreal", "nyx", "sephora", "mascara",
			"lipstick", "serum", "moisturizer",
			"rolex", "nike", "adidas", "sneakers",
			"iphone", "samsung", "laptop", "android",
			"ibuprofen", "paracetamol", "vaccine",
		},
		Diet: []string{
			"vegan", "vegetarian", "keto", "paleo", "gluten-free", "gluten free",
			"dairy-free", "dairy free", "sugar-free", "sugar free",
			"low-carb", "low carb", "high-protein", "high protein",
			"plant-based", "plant based",
		},
		StopWords: []string{
			"near", "me", "best", "easy", "simple",
			"healthy", "healthier", "calories", "kcal",
			"wat", "was", "ist", "cest", "comment", "pourquoi",
			"how", "why", "what",
		},
	}
}
