package main

import (
	"fmt"
	"io"
	"time"

	"github.com/Maxirabon/shapebuilder-cli/internal/tracker"
)

var weekdayHeader = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// renderMonth prints the 7-column Monday-first grid. Each day cell
// shows the day number, a T marker on training days, and the day's
// calorie total when meals are logged.
func renderMonth(w io.Writer, year int, month time.Month, store *tracker.Store, kcalTarget float64) {
	fmt.Fprintf(w, "%s %d", month, year)
	if kcalTarget > 0 {
		fmt.Fprintf(w, "    (target %.0f kcal/day)", kcalTarget)
	}
	fmt.Fprintln(w)

	for _, wd := range weekdayHeader {
		fmt.Fprintf(w, "%-11s", wd)
	}
	fmt.Fprintln(w)

	cells := tracker.MonthGrid(year, month, store)
	for i, cell := range cells {
		fmt.Fprintf(w, "%-11s", cellText(cell))
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}
	if len(cells)%7 != 0 {
		fmt.Fprintln(w)
	}
}

func cellText(cell tracker.Cell) string {
	if cell.Pad {
		return ""
	}
	s := fmt.Sprintf("%2d", cell.Date.Day())
	if cell.Day == nil {
		return s
	}
	if len(cell.Day.Exercises) > 0 {
		s += " T"
	}
	if totals := tracker.DayTotals(cell.Day); totals.Calories > 0 {
		s += fmt.Sprintf(" %.0f", totals.Calories)
	}
	return s
}

// renderDayByDate prints the detail view for the day at the given date
// key, or a rest-day line when there is no record.
func renderDayByDate(w io.Writer, store *tracker.Store, date string) {
	view, ok := store.Day(date)
	if !ok {
		fmt.Fprintf(w, "%s: no entries\n", date)
		return
	}
	renderDay(w, &view)
}

func renderDay(w io.Writer, view *tracker.DayView) {
	fmt.Fprintf(w, "%s (day %d)\n", view.Date, view.ID)

	dayTotals := tracker.DayTotals(view)
	fmt.Fprintf(w, "  total: %.2f kcal | P %.2fg | C %.2fg | F %.2fg\n",
		dayTotals.Calories, dayTotals.Protein, dayTotals.Carbs, dayTotals.Fat)

	for _, meal := range view.Meals {
		fmt.Fprintf(w, "  %s (meal %d)\n", meal.Description, meal.ID)
		if len(meal.MealProducts) == 0 {
			fmt.Fprintf(w, "    (no products)\n")
			continue
		}
		for _, p := range meal.MealProducts {
			fmt.Fprintf(w, "    [%d] %s - %.0fg | %.2f kcal, P %.2fg, C %.2fg, F %.2fg\n",
				p.ID, p.Name, p.Amount, p.Calories, p.Protein, p.Carbs, p.Fat)
		}
		t := tracker.MealTotals(meal)
		fmt.Fprintf(w, "    subtotal: %.2f kcal | P %.2fg | C %.2fg | F %.2fg\n",
			t.Calories, t.Protein, t.Carbs, t.Fat)
	}

	if len(view.Exercises) == 0 {
		fmt.Fprintf(w, "  rest day\n")
		return
	}
	fmt.Fprintf(w, "  training:\n")
	for _, ex := range view.Exercises {
		fmt.Fprintf(w, "    [%d] %s: %d x %d @ %.1f kg\n",
			ex.ID, ex.Name, ex.Sets, ex.Repetitions, ex.Weight)
	}
}
