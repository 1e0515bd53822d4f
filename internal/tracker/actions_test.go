package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
)

// fakeBackend is just enough server to confirm mutations.
type fakeBackend struct {
	mux      *http.ServeMux
	requests int

	addExerciseDay string // day submitted by the last addExercise call
}

func newFakeBackend(t *testing.T) (*fakeBackend, *api.Client) {
	t.Helper()
	fb := &fakeBackend{mux: http.NewServeMux()}

	fb.mux.HandleFunc("/user/addMealProduct", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			MealID    int64   `json:"meal_id"`
			ProductID int64   `json:"product_id"`
			Amount    float64 `json:"amount"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		json.NewEncoder(w).Encode(api.Meal{
			ID:          in.MealID,
			Description: "breakfast",
			MealProducts: []api.MealProduct{
				{ID: 500, ProductID: in.ProductID, Name: "rice", Amount: in.Amount, Calories: in.Amount * 1.3},
			},
		})
	})
	fb.mux.HandleFunc("/user/updateMealProduct", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ID     int64   `json:"id"`
			Amount float64 `json:"amount"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		json.NewEncoder(w).Encode(api.MealProduct{ID: in.ID, ProductID: 5, Name: "rice", Amount: in.Amount, Calories: in.Amount * 1.3})
	})
	fb.mux.HandleFunc("/user/deleteMealProduct", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.MealProduct{ID: 100})
	})
	fb.mux.HandleFunc("/user/addExercise", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Day         string  `json:"day"`
			TemplateID  int64   `json:"exerciseTemplateId"`
			Sets        int     `json:"sets"`
			Repetitions int     `json:"repetitions"`
			Weight      float64 `json:"weight"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		fb.addExerciseDay = in.Day
		json.NewEncoder(w).Encode(api.Exercise{
			ID: 300, Name: "squat", Sets: in.Sets, Repetitions: in.Repetitions, Weight: in.Weight, Day: in.Day,
		})
	})
	fb.mux.HandleFunc("/user/updateExercise", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Sets        int     `json:"sets"`
			Repetitions int     `json:"repetitions"`
			Weight      float64 `json:"weight"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		json.NewEncoder(w).Encode(api.ExerciseUpdate{Sets: in.Sets, Repetitions: in.Repetitions, Weight: in.Weight})
	})
	fb.mux.HandleFunc("/user/deleteExercise", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.requests++
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return fb, api.NewClient(srv.URL)
}

func yes(string) bool { return true }
func no(string) bool  { return false }

func newActions(t *testing.T) (*fakeBackend, *Actions) {
	fb, client := newFakeBackend(t)
	return fb, &Actions{
		Client:  client,
		Store:   NewStore(testDays()),
		Policy:  DefaultPolicy,
		Confirm: yes,
	}
}

func TestAddMealProductValidatesBeforeNetwork(t *testing.T) {
	fb, a := newActions(t)
	for _, amount := range []float64{0, -10} {
		_, err := a.AddMealProduct(context.Background(), "2025-03-02", 10, 5, amount)
		assert.Error(t, err)
	}
	_, err := a.AddMealProduct(context.Background(), "2025-03-02", 0, 5, 100)
	assert.Error(t, err)
	assert.Zero(t, fb.requests, "invalid input must not reach the server")
}

func TestAddMealProductReconciles(t *testing.T) {
	fb, a := newActions(t)
	meal, err := a.AddMealProduct(context.Background(), "2025-03-02", 10, 5, 150)
	require.NoError(t, err)
	assert.Equal(t, 1, fb.requests)

	day, _ := a.Store.Day("2025-03-02")
	require.Len(t, day.Meals[0].MealProducts, 1)
	assert.Equal(t, meal.MealProducts[0], day.Meals[0].MealProducts[0])
	assert.Equal(t, 150.0, day.Meals[0].MealProducts[0].Amount)
}

func TestUpdateMealProductReconciles(t *testing.T) {
	_, a := newActions(t)
	p, err := a.UpdateMealProduct(context.Background(), "2025-03-02", 11, 100, 5, 150)
	require.NoError(t, err)
	assert.Equal(t, 150.0, p.Amount)

	day, _ := a.Store.Day("2025-03-02")
	require.Len(t, day.Meals[1].MealProducts, 1, "no duplicate rows")
	assert.Equal(t, 150.0, day.Meals[1].MealProducts[0].Amount)
}

func TestUpdateMealProductRejectsBadAmount(t *testing.T) {
	fb, a := newActions(t)
	_, err := a.UpdateMealProduct(context.Background(), "2025-03-02", 11, 100, 5, 0)
	assert.Error(t, err)
	assert.Zero(t, fb.requests)
}

func TestDeleteMealProductNeedsConfirmation(t *testing.T) {
	fb, a := newActions(t)
	a.Confirm = no
	err := a.DeleteMealProduct(context.Background(), 100)
	assert.Equal(t, ErrCanceled, err)
	assert.Zero(t, fb.requests)

	a.Confirm = nil // no prompt available counts as refused
	assert.Equal(t, ErrCanceled, a.DeleteMealProduct(context.Background(), 100))
	assert.Zero(t, fb.requests)

	day, _ := a.Store.Day("2025-03-02")
	assert.Len(t, day.Meals[1].MealProducts, 1, "store untouched on refusal")
}

func TestDeleteMealProductReconciles(t *testing.T) {
	_, a := newActions(t)
	require.NoError(t, a.DeleteMealProduct(context.Background(), 100))
	day, _ := a.Store.Day("2025-03-02")
	assert.Empty(t, day.Meals[1].MealProducts)
}

func TestAddExerciseDateShift(t *testing.T) {
	fb, a := newActions(t)
	ex, err := a.AddExercise(context.Background(), "2025-03-02", 7, 3, 5, 100)
	require.NoError(t, err)
	// The shift policy submits the day after the selected date, and the
	// created record lands on the submitted date.
	assert.Equal(t, "2025-03-03", fb.addExerciseDay)
	assert.Equal(t, "2025-03-03", ex.Day)

	day, _ := a.Store.Day("2025-03-03")
	require.Len(t, day.Exercises, 2)
	assert.Equal(t, int64(300), day.Exercises[1].ID)
}

func TestAddExerciseWithoutDateShift(t *testing.T) {
	fb, a := newActions(t)
	a.Policy.ShiftExerciseDate = false
	_, err := a.AddExercise(context.Background(), "2025-03-02", 7, 3, 5, 100)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", fb.addExerciseDay)

	day, _ := a.Store.Day("2025-03-02")
	require.Len(t, day.Exercises, 2)
}

func TestAddExerciseValidates(t *testing.T) {
	fb, a := newActions(t)
	_, err := a.AddExercise(context.Background(), "2025-03-02", 7, 0, 5, 100)
	assert.Error(t, err)
	_, err = a.AddExercise(context.Background(), "2025-03-02", 7, 3, 0, 100)
	assert.Error(t, err)
	_, err = a.AddExercise(context.Background(), "2025-03-02", 7, 3, 5, -1)
	assert.Error(t, err)
	assert.Zero(t, fb.requests)
}

func TestUpdateExerciseRequiresID(t *testing.T) {
	fb, a := newActions(t)
	assert.Error(t, a.UpdateExercise(context.Background(), 0, 5, 5, 100))
	assert.Zero(t, fb.requests)
}

func TestUpdateExerciseReconciles(t *testing.T) {
	_, a := newActions(t)
	require.NoError(t, a.UpdateExercise(context.Background(), 200, 5, 3, 110))
	day, _ := a.Store.Day("2025-03-02")
	assert.Equal(t, 5, day.Exercises[0].Sets)
	assert.Equal(t, 110.0, day.Exercises[0].Weight)
	assert.Equal(t, "squat", day.Exercises[0].Name)
}

func TestDeleteExerciseGuards(t *testing.T) {
	fb, a := newActions(t)
	assert.Error(t, a.DeleteExercise(context.Background(), 0), "missing id aborts before any network call")
	a.Confirm = no
	assert.Equal(t, ErrCanceled, a.DeleteExercise(context.Background(), 200))
	assert.Zero(t, fb.requests)
}

func TestDeleteExerciseReconciles(t *testing.T) {
	_, a := newActions(t)
	require.NoError(t, a.DeleteExercise(context.Background(), 200))
	day, _ := a.Store.Day("2025-03-02")
	assert.Empty(t, day.Exercises)
}

func TestFailedMutationLeavesStoreUnchanged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/addMealProduct", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "no such meal"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	a := &Actions{Client: api.NewClient(srv.URL), Store: NewStore(testDays()), Policy: DefaultPolicy, Confirm: yes}
	before, _ := a.Store.Day("2025-03-02")

	_, err := a.AddMealProduct(context.Background(), "2025-03-02", 10, 5, 150)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such meal", "server message is surfaced")

	after, _ := a.Store.Day("2025-03-02")
	assert.Equal(t, before, after)
}
