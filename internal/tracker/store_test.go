package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

func testDays() []api.Day {
	return []api.Day{
		{
			DayID: 1,
			Date:  "2025-03-02",
			Meals: []api.Meal{
				{ID: 10, Description: "breakfast"},
				{ID: 11, Description: "lunch", MealProducts: []api.MealProduct{
					{ID: 100, ProductID: 5, Name: "rice", Amount: 100, Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3},
				}},
			},
			Exercises: []api.Exercise{
				{ID: 200, Name: "squat", Sets: 3, Repetitions: 5, Weight: 100, Day: "2025-03-02"},
			},
		},
		{
			DayID: 2,
			Date:  "2025-03-03",
			Meals: []api.Meal{{ID: 12, Description: "breakfast"}},
			Exercises: []api.Exercise{
				{ID: 201, Name: "bench", Sets: 3, Repetitions: 8, Weight: 60, Day: "2025-03-03"},
			},
		},
	}
}

func TestNewStoreSkipsMalformedDates(t *testing.T) {
	s := NewStore([]api.Day{
		{DayID: 1, Date: "2025-03-02"},
		{DayID: 2, Date: "garbage"},
		{DayID: 3, Date: "2025-03-04"},
	})
	assert.Equal(t, 2, s.Len())
	_, ok := s.Day("2025-03-02")
	assert.True(t, ok)
	_, ok = s.Day("2025-03-04")
	assert.True(t, ok)
}

func TestDerivedViewsAgree(t *testing.T) {
	// The same day derived through Day() and through Days() must be
	// identical: there is only one underlying copy.
	s := NewStore(testDays())
	detail, ok := s.Day("2025-03-02")
	require.True(t, ok)
	var fromList DayView
	var found bool
	for _, v := range s.Days() {
		if v.Date == "2025-03-02" {
			fromList, found = v, true
			break
		}
	}
	require.True(t, found)
	assert.Equal(t, detail, fromList)
}

func TestViewsDoNotAliasStore(t *testing.T) {
	s := NewStore(testDays())
	view, ok := s.Day("2025-03-02")
	require.True(t, ok)
	view.Meals[1].MealProducts[0].Amount = 9999
	view.Exercises[0].Sets = 42

	fresh, _ := s.Day("2025-03-02")
	assert.Equal(t, 100.0, fresh.Meals[1].MealProducts[0].Amount)
	assert.Equal(t, 3, fresh.Exercises[0].Sets)
}

func TestReplaceMealAfterAdd(t *testing.T) {
	// Adding a product (mealId=10, productId=5, amount=150,
	// date=2025-03-02) makes the server return the whole refreshed
	// meal; both derived views must show exactly its contents.
	s := NewStore(testDays())
	refreshed := api.Meal{ID: 10, Description: "breakfast", MealProducts: []api.MealProduct{
		{ID: 101, ProductID: 5, Name: "rice", Amount: 150, Calories: 195, Protein: 4.05, Carbs: 42, Fat: 0.45},
	}}
	require.True(t, s.ReplaceMeal("2025-03-02", refreshed))

	detail, _ := s.Day("2025-03-02")
	require.Len(t, detail.Meals[0].MealProducts, 1)
	assert.Equal(t, refreshed.MealProducts[0], detail.Meals[0].MealProducts[0])

	for _, v := range s.Days() {
		if v.Date == "2025-03-02" {
			assert.Equal(t, detail.Meals, v.Meals, "bulk list day diverged from detail view")
		}
	}
}

func TestReplaceMealMismatch(t *testing.T) {
	s := NewStore(testDays())
	// No such date.
	assert.False(t, s.ReplaceMeal("2025-01-01", api.Meal{ID: 10}))
	// Date exists but the meal belongs to another day.
	assert.False(t, s.ReplaceMeal("2025-03-03", api.Meal{ID: 10}))
}

func TestReplaceMealProductNoDuplicates(t *testing.T) {
	// One meal with one 100 g product; updating to 150 g leaves exactly
	// one row with the new amount in every view.
	s := NewStore(testDays())
	updated := api.MealProduct{ID: 100, ProductID: 5, Name: "rice", Amount: 150, Calories: 195, Protein: 4.05, Carbs: 42, Fat: 0.45}
	require.True(t, s.ReplaceMealProduct("2025-03-02", 11, updated))

	detail, _ := s.Day("2025-03-02")
	require.Len(t, detail.Meals[1].MealProducts, 1)
	assert.Equal(t, updated, detail.Meals[1].MealProducts[0])

	for _, v := range s.Days() {
		if v.Date == "2025-03-02" {
			require.Len(t, v.Meals[1].MealProducts, 1)
			assert.Equal(t, updated, v.Meals[1].MealProducts[0])
		}
	}
}

func TestReplaceMealProductWrongMeal(t *testing.T) {
	s := NewStore(testDays())
	assert.False(t, s.ReplaceMealProduct("2025-03-02", 10, api.MealProduct{ID: 100}))
	assert.False(t, s.ReplaceMealProduct("2025-03-03", 11, api.MealProduct{ID: 100}))
}

func TestAddThenDeleteRestoresTotals(t *testing.T) {
	s := NewStore(testDays())
	day, _ := s.Day("2025-03-02")
	before := DayTotals(&day)

	added := api.MealProduct{ID: 102, ProductID: 7, Name: "oats", Amount: 50, Calories: 190, Protein: 6.5, Carbs: 33, Fat: 3.5}
	require.True(t, s.ReplaceMeal("2025-03-02", api.Meal{
		ID: 10, Description: "breakfast", MealProducts: []api.MealProduct{added},
	}))
	mid, _ := s.Day("2025-03-02")
	assert.Equal(t, before.Calories+190, DayTotals(&mid).Calories)

	require.True(t, s.RemoveMealProduct(102))
	after, _ := s.Day("2025-03-02")
	assert.Equal(t, before, DayTotals(&after))
}

func TestRemoveMealProductUnknown(t *testing.T) {
	s := NewStore(testDays())
	assert.False(t, s.RemoveMealProduct(9999))
}

func TestAppendExercise(t *testing.T) {
	s := NewStore(testDays())
	ex := api.Exercise{ID: 202, Name: "deadlift", Sets: 1, Repetitions: 5, Weight: 140, Day: "2025-03-03"}
	require.True(t, s.AppendExercise(ex))

	day, _ := s.Day("2025-03-03")
	require.Len(t, day.Exercises, 2)
	assert.Equal(t, ex, day.Exercises[1])

	// No day record for the date: nothing to attach to.
	assert.False(t, s.AppendExercise(api.Exercise{ID: 203, Day: "2025-06-01"}))
	assert.False(t, s.AppendExercise(api.Exercise{ID: 204, Day: "garbage"}))
}

func TestUpdateExerciseMerges(t *testing.T) {
	s := NewStore(testDays())
	require.True(t, s.UpdateExercise(200, api.ExerciseUpdate{Sets: 5, Repetitions: 3, Weight: 110}))

	day, _ := s.Day("2025-03-02")
	ex := day.Exercises[0]
	assert.Equal(t, 5, ex.Sets)
	assert.Equal(t, 3, ex.Repetitions)
	assert.Equal(t, 110.0, ex.Weight)
	// Identity fields survive the merge.
	assert.Equal(t, "squat", ex.Name)
	assert.Equal(t, int64(200), ex.ID)

	assert.False(t, s.UpdateExercise(9999, api.ExerciseUpdate{Sets: 1, Repetitions: 1}))
}

func TestRemoveExerciseByIDOnly(t *testing.T) {
	// Deletion is id-based and must not depend on knowing the day.
	s := NewStore(testDays())
	require.True(t, s.RemoveExercise(201))

	day2, _ := s.Day("2025-03-03")
	assert.Empty(t, day2.Exercises)
	day1, _ := s.Day("2025-03-02")
	assert.Len(t, day1.Exercises, 1, "other days keep their exercises")

	assert.False(t, s.RemoveExercise(201), "already gone")
}

func TestDaysSortedByDate(t *testing.T) {
	// Server ordering is not trusted; views come back date-ordered.
	s := NewStore([]api.Day{
		{DayID: 3, Date: "2025-03-05"},
		{DayID: 1, Date: "2025-03-01"},
		{DayID: 2, Date: "2025-03-03"},
	})
	views := s.Days()
	require.Len(t, views, 3)
	assert.Equal(t, "2025-03-01", views[0].Date)
	assert.Equal(t, "2025-03-03", views[1].Date)
	assert.Equal(t, "2025-03-05", views[2].Date)

	min, max, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, "2025-03-01", DateKey(min))
	assert.Equal(t, "2025-03-05", DateKey(max))
}
