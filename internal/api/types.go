package api

// Day represents one calendar day entry from a /user/getUserDays fetch.
// The server creates these lazily; the client never deletes one directly.
type Day struct {
	DayID int64  `json:"dayId"`
	Date  string `json:"day"` // date-like string, e.g. "2025-03-02" or RFC 3339

	Meals     []Meal     `json:"meals"`
	Exercises []Exercise `json:"exercises"`

	// Other keys: "modification_date"
}

// Meal is a fixed slot within a day (breakfast, lunch, ...). The client
// never creates or deletes meals, only fills them with products.
type Meal struct {
	ID           int64         `json:"id"`
	Description  string        `json:"description"`
	MealProducts []MealProduct `json:"mealProducts"`
}

// MealProduct is one quantified addition of a product to a meal. The
// macro values are precomputed by the server for Amount grams, not per
// 100 g; a new amount means the server recomputes them.
type MealProduct struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"` // grams
	Calories  float64 `json:"calories"`
	Protein   float64 `json:"protein"`
	Carbs     float64 `json:"carbs"`
	Fat       float64 `json:"fat"`
}

// Product is a catalog or user-owned product with macros per 100 g.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Exercise is one logged exercise attached to a day.
type Exercise struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Sets        int     `json:"sets"`
	Repetitions int     `json:"repetitions"`
	Weight      float64 `json:"weight"` // kg
	Day         string  `json:"day"`    // owning date
}

// ExerciseUpdate represents the fields the server returns from a
// /user/updateExercise call. They are merged into the stored record.
type ExerciseUpdate struct {
	Sets        int     `json:"sets"`
	Repetitions int     `json:"repetitions"`
	Weight      float64 `json:"weight"`
}

// ExerciseTemplate is a catalog entry the user picks an exercise from.
type ExerciseTemplate struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserProfile represents the JSON response from /user/getUserInfo, and
// one element of the admin /admin/getAllUsersProfile listing.
type UserProfile struct {
	ID        int64   `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"` // "M" or "K"
	Age       int     `json:"age"`
	Weight    float64 `json:"weight"` // kg
	Height    float64 `json:"height"` // cm
	Activity  string  `json:"activity"`
	Role      string  `json:"role"` // e.g. "ROLE_USER", "ROLE_ADMIN"
}

// Registration is the payload for /auth/register.
type Registration struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Gender    string  `json:"gender"`
	Age       int     `json:"age"`
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	Activity  string  `json:"activity"` // BRAK, MALA, SREDNIA, DUZA, BARDZO_DUZA
}

// NutritionPoint is one element of a nutrition summary's chart series.
type NutritionPoint struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NutritionSummary represents the JSON response from the
// getDaySummary/getWeekSummary/getMonthSummary endpoints. Day summaries
// carry totals; week and month summaries carry averages. Only one of
// each avg/total pair is present in any given response.
type NutritionSummary struct {
	ChartData []NutritionPoint `json:"chartData"`

	AvgCalories   *float64 `json:"avgCalories"`
	AvgProtein    *float64 `json:"avgProtein"`
	AvgCarbs      *float64 `json:"avgCarbs"`
	AvgFat        *float64 `json:"avgFat"`
	TotalCalories *float64 `json:"totalCalories"`
	TotalProtein  *float64 `json:"totalProtein"`
	TotalCarbs    *float64 `json:"totalCarbs"`
	TotalFat      *float64 `json:"totalFat"`
}

// Calories reports the average when present, else the total, else zero.
func (s *NutritionSummary) Calories() float64 { return firstOf(s.AvgCalories, s.TotalCalories) }

// Protein reports the average when present, else the total, else zero.
func (s *NutritionSummary) Protein() float64 { return firstOf(s.AvgProtein, s.TotalProtein) }

// Carbs reports the average when present, else the total, else zero.
func (s *NutritionSummary) Carbs() float64 { return firstOf(s.AvgCarbs, s.TotalCarbs) }

// Fat reports the average when present, else the total, else zero.
func (s *NutritionSummary) Fat() float64 { return firstOf(s.AvgFat, s.TotalFat) }

// TrainingPoint is one element of a training summary's chart series.
type TrainingPoint struct {
	Date        string  `json:"date"`
	TotalVolume float64 `json:"totalVolume"` // sets * reps * weight, kg
	AvgWeight   float64 `json:"avgWeight"`
}

// TrainingSummary represents the JSON response from the exercise
// summary endpoints.
type TrainingSummary struct {
	ChartData []TrainingPoint `json:"chartData"`

	AvgVolume   *float64 `json:"avgVolume"`
	TotalVolume *float64 `json:"totalVolume"`
}

// Volumes reports the (total, average) training volume, zero when absent.
func (s *TrainingSummary) Volumes() (total, avg float64) {
	return firstOf(s.TotalVolume), firstOf(s.AvgVolume)
}

func firstOf(vs ...*float64) float64 {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return 0
}
