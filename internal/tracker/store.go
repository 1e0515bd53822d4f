package tracker

import (
	"log"
	"sort"
	"time"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

// Store is the normalized in-memory copy of the user's fetched days.
// Every entity (day, meal, meal product, exercise) lives in exactly one
// table keyed by its id, with days additionally indexed by canonical
// date key; anything shown to the user is derived on demand. This means
// there is a single source of truth for a day no matter how many views
// display it, so views cannot drift apart after a mutation.
//
// Mutations are applied only from confirmed server responses, always by
// id match, so when two in-flight requests race the last response wins
// per affected id.
type Store struct {
	days      map[int64]*dayRec
	dayByDate map[string]int64

	meals   map[int64]*mealRec
	mealDay map[int64]int64 // meal id -> day id

	products map[int64]api.MealProduct
	prodMeal map[int64]int64 // meal product id -> meal id

	exercises map[int64]api.Exercise
	exDay     map[int64]int64 // exercise id -> day id
}

type dayRec struct {
	id          int64
	key         string // canonical date key
	mealIDs     []int64
	exerciseIDs []int64
}

type mealRec struct {
	id          int64
	description string
	productIDs  []int64
}

// DayView is an assembled, self-contained snapshot of one day. The
// slices are freshly built on every derivation; callers may hold or
// mutate a view without affecting the store or other views.
type DayView struct {
	ID        int64
	Date      string // canonical date key
	Meals     []api.Meal
	Exercises []api.Exercise
}

// NewStore builds a store from a bulk getUserDays response. Records
// whose date cannot be parsed are skipped with a log line; everything
// else is indexed by canonical date key regardless of server order.
func NewStore(days []api.Day) *Store {
	s := &Store{
		days:      make(map[int64]*dayRec),
		dayByDate: make(map[string]int64),
		meals:     make(map[int64]*mealRec),
		mealDay:   make(map[int64]int64),
		products:  make(map[int64]api.MealProduct),
		prodMeal:  make(map[int64]int64),
		exercises: make(map[int64]api.Exercise),
		exDay:     make(map[int64]int64),
	}
	for _, d := range days {
		key, err := ServerDateKey(d.Date)
		if err != nil {
			log.Printf("Skipping day %d with malformed date %q", d.DayID, d.Date)
			continue
		}
		if prev, ok := s.dayByDate[key]; ok {
			// Date keys are unique per user; if the server ever sends a
			// duplicate, the later record wins.
			s.dropDay(prev)
		}
		rec := &dayRec{id: d.DayID, key: key}
		s.days[d.DayID] = rec
		s.dayByDate[key] = d.DayID
		for _, m := range d.Meals {
			rec.mealIDs = append(rec.mealIDs, m.ID)
			s.indexMeal(d.DayID, m)
		}
		for _, ex := range d.Exercises {
			rec.exerciseIDs = append(rec.exerciseIDs, ex.ID)
			s.exercises[ex.ID] = ex
			s.exDay[ex.ID] = d.DayID
		}
	}
	return s
}

func (s *Store) indexMeal(dayID int64, m api.Meal) {
	rec := &mealRec{id: m.ID, description: m.Description}
	for _, p := range m.MealProducts {
		rec.productIDs = append(rec.productIDs, p.ID)
		s.products[p.ID] = p
		s.prodMeal[p.ID] = m.ID
	}
	s.meals[m.ID] = rec
	s.mealDay[m.ID] = dayID
}

func (s *Store) dropMeal(mealID int64) {
	rec, ok := s.meals[mealID]
	if !ok {
		return
	}
	for _, pid := range rec.productIDs {
		delete(s.products, pid)
		delete(s.prodMeal, pid)
	}
	delete(s.meals, mealID)
	delete(s.mealDay, mealID)
}

func (s *Store) dropDay(dayID int64) {
	rec, ok := s.days[dayID]
	if !ok {
		return
	}
	for _, mid := range rec.mealIDs {
		s.dropMeal(mid)
	}
	for _, eid := range rec.exerciseIDs {
		delete(s.exercises, eid)
		delete(s.exDay, eid)
	}
	delete(s.days, dayID)
	delete(s.dayByDate, rec.key)
}

// Len reports the number of indexed days.
func (s *Store) Len() int { return len(s.days) }

// Day derives the view of the day stored under the given date key.
func (s *Store) Day(key string) (DayView, bool) {
	id, ok := s.dayByDate[key]
	if !ok {
		return DayView{}, false
	}
	return s.assemble(s.days[id]), true
}

// Days derives views of every indexed day, ordered by date.
func (s *Store) Days() []DayView {
	keys := make([]string, 0, len(s.dayByDate))
	for k := range s.dayByDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	views := make([]DayView, 0, len(keys))
	for _, k := range keys {
		views = append(views, s.assemble(s.days[s.dayByDate[k]]))
	}
	return views
}

// Bounds reports the earliest and latest indexed dates. ok is false
// when the store is empty.
func (s *Store) Bounds() (min, max time.Time, ok bool) {
	for key := range s.dayByDate {
		t, err := ParseDateKey(key)
		if err != nil {
			continue
		}
		if !ok || t.Before(min) {
			min = t
		}
		if !ok || t.After(max) {
			max = t
		}
		ok = true
	}
	return
}

func (s *Store) assemble(rec *dayRec) DayView {
	v := DayView{ID: rec.id, Date: rec.key}
	for _, mid := range rec.mealIDs {
		mrec, ok := s.meals[mid]
		if !ok {
			continue
		}
		meal := api.Meal{ID: mrec.id, Description: mrec.description}
		for _, pid := range mrec.productIDs {
			if p, ok := s.products[pid]; ok {
				meal.MealProducts = append(meal.MealProducts, p)
			}
		}
		v.Meals = append(v.Meals, meal)
	}
	for _, eid := range rec.exerciseIDs {
		if ex, ok := s.exercises[eid]; ok {
			v.Exercises = append(v.Exercises, ex)
		}
	}
	return v
}

// ReplaceMeal swaps in the server's refreshed copy of a meal on the day
// stored under dateKey. The whole product list is replaced; the server
// is the source of truth after an add. Reports whether anything matched.
func (s *Store) ReplaceMeal(dateKey string, m api.Meal) bool {
	dayID, ok := s.dayByDate[dateKey]
	if !ok {
		return false
	}
	rec := s.days[dayID]
	for _, mid := range rec.mealIDs {
		if mid != m.ID {
			continue
		}
		s.dropMeal(mid)
		s.indexMeal(dayID, m)
		return true
	}
	return false
}

// ReplaceMealProduct swaps in the server's refreshed copy of a single
// meal product inside the matching meal of the matching day.
func (s *Store) ReplaceMealProduct(dateKey string, mealID int64, p api.MealProduct) bool {
	dayID, ok := s.dayByDate[dateKey]
	if !ok || s.mealDay[mealID] != dayID {
		return false
	}
	if _, ok := s.prodMeal[p.ID]; !ok || s.prodMeal[p.ID] != mealID {
		return false
	}
	s.products[p.ID] = p
	return true
}

// RemoveMealProduct deletes a meal product by its server-confirmed id.
func (s *Store) RemoveMealProduct(id int64) bool {
	mealID, ok := s.prodMeal[id]
	if !ok {
		return false
	}
	rec := s.meals[mealID]
	rec.productIDs = removeID(rec.productIDs, id)
	delete(s.products, id)
	delete(s.prodMeal, id)
	return true
}

// AppendExercise attaches a freshly created exercise to the day its
// own date names (the submitted date, shift included).
func (s *Store) AppendExercise(ex api.Exercise) bool {
	key, err := ServerDateKey(ex.Day)
	if err != nil {
		log.Printf("Skipping exercise %d with malformed day %q", ex.ID, ex.Day)
		return false
	}
	dayID, ok := s.dayByDate[key]
	if !ok {
		return false
	}
	s.days[dayID].exerciseIDs = append(s.days[dayID].exerciseIDs, ex.ID)
	s.exercises[ex.ID] = ex
	s.exDay[ex.ID] = dayID
	return true
}

// UpdateExercise merges server-returned fields into the matching
// exercise. The day is located through the record itself, not a caller
// supplied date.
func (s *Store) UpdateExercise(id int64, upd api.ExerciseUpdate) bool {
	ex, ok := s.exercises[id]
	if !ok {
		return false
	}
	ex.Sets = upd.Sets
	ex.Repetitions = upd.Repetitions
	ex.Weight = upd.Weight
	s.exercises[id] = ex
	return true
}

// RemoveExercise deletes an exercise by id from whichever day holds it.
// No date correlation is required; a stale or missing day link only
// widens the scan to every day.
func (s *Store) RemoveExercise(id int64) bool {
	if _, ok := s.exercises[id]; !ok {
		return false
	}
	if dayID, ok := s.exDay[id]; ok {
		rec := s.days[dayID]
		rec.exerciseIDs = removeID(rec.exerciseIDs, id)
	} else {
		for _, rec := range s.days {
			rec.exerciseIDs = removeID(rec.exerciseIDs, id)
		}
	}
	delete(s.exercises, id)
	delete(s.exDay, id)
	return true
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}
