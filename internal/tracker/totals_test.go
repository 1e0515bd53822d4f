package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

func TestDayTotalsAbsentDay(t *testing.T) {
	assert.Equal(t, Totals{}, DayTotals(nil))
	assert.Equal(t, Totals{}, DayTotals(&DayView{Date: "2025-03-02"}))
}

func TestDayTotalsSumsAllMeals(t *testing.T) {
	view := &DayView{
		Meals: []api.Meal{
			{ID: 10, MealProducts: []api.MealProduct{
				{ID: 1, Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
				{ID: 2, Calories: 70, Protein: 6, Carbs: 0.5, Fat: 5},
			}},
			{ID: 11, MealProducts: []api.MealProduct{
				{ID: 3, Calories: 200, Protein: 10, Carbs: 20, Fat: 8},
			}},
		},
	}
	want := Totals{Calories: 400, Protein: 18.7, Carbs: 48.5, Fat: 13.3}
	assert.InDelta(t, want.Calories, DayTotals(view).Calories, 1e-9)
	assert.InDelta(t, want.Protein, DayTotals(view).Protein, 1e-9)
	assert.InDelta(t, want.Carbs, DayTotals(view).Carbs, 1e-9)
	assert.InDelta(t, want.Fat, DayTotals(view).Fat, 1e-9)
}

func TestDayTotalsIdempotent(t *testing.T) {
	s := NewStore(testDays())
	view, _ := s.Day("2025-03-02")
	assert.Equal(t, DayTotals(&view), DayTotals(&view))
}

func TestMealTotals(t *testing.T) {
	meal := api.Meal{MealProducts: []api.MealProduct{
		{Calories: 100, Protein: 1, Carbs: 2, Fat: 3},
		{Calories: 50, Protein: 4, Carbs: 5, Fat: 6},
	}}
	assert.Equal(t, Totals{Calories: 150, Protein: 5, Carbs: 7, Fat: 9}, MealTotals(meal))
	assert.Equal(t, Totals{}, MealTotals(api.Meal{}))
}
