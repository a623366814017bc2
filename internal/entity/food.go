package entity

import (
	"regexp"

	"github.com/hyperjump/erabu/internal/models"
)

const foodSource = "food"

var (
	foodItems = byLengthDesc([]string{
		"pizza", "pepperoni pizza", "margherita", "burger", "veg burger",
		"chicken burger", "sandwich", "club sandwich", "fries", "biryani",
		"veg biryani", "chicken biryani", "noodles", "fried rice", "pasta",
		"taco", "wrap", "salad", "idli", "dosa", "paratha", "paneer",
		"butter chicken", "paneer tikka",
	})
	foodBeverages = byLengthDesc([]string{
		"coffee", "tea", "coke", "pepsi", "sprite", "fanta", "juice",
		"lassi", "milkshake",
	})

	foodQtyRes = []*regexp.Regexp{
		regexp.MustCompile(`\b\d+(?:\s*(?:x|pcs|pieces|orders|plates))?\b`),
		regexp.MustCompile(`\bx\s*\d+\b`),
	}
	foodWordNumbers = []string{
		"one", "two", "three", "four", "five", "single", "double", "triple",
	}
	foodSizes = []string{"small", "medium", "large", "regular", "jumbo", "family"}
)

// FoodExtractor finds dishes and beverages from a fixed menu vocabulary plus
// quantity and size attributes.
type FoodExtractor struct{}

func (FoodExtractor) Name() string { return foodSource }

func (FoodExtractor) Extract(text string) []models.Span {
	rt := newRuleText(text)
	var out []models.Span

	for _, w := range foodItems {
		if s, e, ok := rt.findFirst(w); ok {
			out = append(out, rt.span("food_item", s, e, 0.99, foodSource))
		}
	}
	for _, w := range foodBeverages {
		if s, e, ok := rt.findFirst(w); ok {
			out = append(out, rt.span("beverage", s, e, 0.99, foodSource))
		}
	}

	for _, re := range foodQtyRes {
		for _, m := range rt.regexAll(re) {
			out = append(out, rt.span("quantity", m[0], m[1], 0.9, foodSource))
		}
	}
	for _, w := range foodWordNumbers {
		if s, e, ok := rt.findFirst(w); ok {
			out = append(out, rt.span("quantity", s, e, 0.9, foodSource))
		}
	}
	for _, w := range foodSizes {
		if s, e, ok := rt.findFirst(w); ok {
			out = append(out, rt.span("size", s, e, 0.95, foodSource))
		}
	}
	return out
}
