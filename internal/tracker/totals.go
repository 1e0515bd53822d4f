package tracker

import (
	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

// Totals are summed calories and macros, for a meal or a whole day.
type Totals struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

func (t *Totals) add(p api.MealProduct) {
	t.Calories += p.Calories
	t.Protein += p.Protein
	t.Carbs += p.Carbs
	t.Fat += p.Fat
}

// DayTotals sums every product of every meal of a day. A nil day (no
// record for the date) or a day without meals sums to zero. Pure; safe
// to call as often as a view needs it.
func DayTotals(day *DayView) Totals {
	var t Totals
	if day == nil {
		return t
	}
	for _, meal := range day.Meals {
		for _, p := range meal.MealProducts {
			t.add(p)
		}
	}
	return t
}

// MealTotals sums the products of a single meal.
func MealTotals(meal api.Meal) Totals {
	var t Totals
	for _, p := range meal.MealProducts {
		t.add(p)
	}
	return t
}
