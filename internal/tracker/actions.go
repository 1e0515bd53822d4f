package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

// ErrCanceled is returned when a destructive action is refused at the
// confirmation prompt. Nothing was sent to the server.
var ErrCanceled = errors.New("canceled")

// Actions couples the API client with the local store: each method
// validates locally, performs one backend call, and applies the
// confirmed response to the store. On any failure the store is left
// untouched; there is no optimistic update to roll back.
type Actions struct {
	Client *api.Client
	Store  *Store
	Policy Policy

	// Confirm guards destructive actions. It receives a human prompt
	// and reports whether to proceed. A nil Confirm refuses everything,
	// so a caller cannot forget the guard.
	Confirm func(prompt string) bool
}

func (a *Actions) confirm(prompt string) bool {
	return a.Confirm != nil && a.Confirm(prompt)
}

// AddMealProduct adds amount grams of a product to a meal on the given
// day and swaps the server's refreshed meal into the store.
func (a *Actions) AddMealProduct(ctx context.Context, dateKey string, mealID, productID int64, amount float64) (api.Meal, error) {
	if amount <= 0 {
		return api.Meal{}, fmt.Errorf("amount must be a positive number of grams, got %v", amount)
	}
	if mealID == 0 || productID == 0 || dateKey == "" {
		return api.Meal{}, errors.New("meal, product and date are all required")
	}
	meal, err := a.Client.AddMealProduct(ctx, mealID, productID, amount)
	if err != nil {
		return api.Meal{}, err
	}
	if !a.Store.ReplaceMeal(dateKey, meal) {
		return meal, fmt.Errorf("server accepted the product but no local day %s has meal %d", dateKey, meal.ID)
	}
	return meal, nil
}

// UpdateMealProduct changes a meal product's amount; the server
// recomputes the macros and the single refreshed record replaces the
// stored one.
func (a *Actions) UpdateMealProduct(ctx context.Context, dateKey string, mealID, mealProductID, productID int64, amount float64) (api.MealProduct, error) {
	if amount <= 0 {
		return api.MealProduct{}, fmt.Errorf("amount must be a positive number of grams, got %v", amount)
	}
	p, err := a.Client.UpdateMealProduct(ctx, mealProductID, productID, amount)
	if err != nil {
		return api.MealProduct{}, err
	}
	if !a.Store.ReplaceMealProduct(dateKey, mealID, p) {
		return p, fmt.Errorf("server updated the product but no local day %s has meal %d with product %d", dateKey, mealID, p.ID)
	}
	return p, nil
}

// DeleteMealProduct removes one product row from a meal, after
// confirmation. Removal is keyed on the id the server confirms.
func (a *Actions) DeleteMealProduct(ctx context.Context, mealProductID int64) error {
	if mealProductID == 0 {
		return errors.New("cannot delete a meal product without an id")
	}
	if !a.confirm("Delete this product from the meal?") {
		return ErrCanceled
	}
	deleted, err := a.Client.DeleteMealProduct(ctx, mealProductID)
	if err != nil {
		return err
	}
	a.Store.RemoveMealProduct(deleted.ID)
	return nil
}

// AddExercise logs an exercise for the given day. When the policy's
// date shift is active the submitted date is the day after the selected
// one, and the created record lands on that submitted date.
func (a *Actions) AddExercise(ctx context.Context, dateKey string, templateID int64, sets, repetitions int, weight float64) (api.Exercise, error) {
	if sets <= 0 || repetitions <= 0 {
		return api.Exercise{}, errors.New("sets and repetitions must both be positive")
	}
	if weight < 0 {
		return api.Exercise{}, errors.New("weight cannot be negative")
	}
	submitted := dateKey
	if a.Policy.ShiftExerciseDate {
		t, err := ParseDateKey(dateKey)
		if err != nil {
			return api.Exercise{}, err
		}
		submitted = DateKey(t.AddDate(0, 0, 1))
	}
	ex, err := a.Client.AddExercise(ctx, submitted, templateID, sets, repetitions, weight)
	if err != nil {
		return api.Exercise{}, err
	}
	if ex.Day == "" {
		ex.Day = submitted
	}
	a.Store.AppendExercise(ex)
	return ex, nil
}

// UpdateExercise changes sets/repetitions/weight of an exercise. An
// unset id fails fast, before any network call.
func (a *Actions) UpdateExercise(ctx context.Context, exerciseID int64, sets, repetitions int, weight float64) error {
	if exerciseID == 0 {
		return errors.New("cannot update an exercise without an id")
	}
	if sets <= 0 || repetitions <= 0 {
		return errors.New("sets and repetitions must both be positive")
	}
	upd, err := a.Client.UpdateExercise(ctx, exerciseID, sets, repetitions, weight)
	if err != nil {
		return err
	}
	a.Store.UpdateExercise(exerciseID, upd)
	return nil
}

// DeleteExercise removes an exercise by id, after confirmation. An
// unset id fails fast, before any network call.
func (a *Actions) DeleteExercise(ctx context.Context, exerciseID int64) error {
	if exerciseID == 0 {
		return errors.New("cannot delete an exercise without an id")
	}
	if !a.confirm("Delete this exercise?") {
		return ErrCanceled
	}
	if err := a.Client.DeleteExercise(ctx, exerciseID); err != nil {
		return err
	}
	a.Store.RemoveExercise(exerciseID)
	return nil
}
