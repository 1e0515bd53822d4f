package api

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Register creates a new account and returns the server's message.
func (c *Client) Register(ctx context.Context, reg Registration) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UserDays fetches every calendar day record for the logged-in user.
// Server ordering is not guaranteed; callers index by date themselves.
func (c *Client) UserDays(ctx context.Context) ([]Day, error) {
	var days []Day
	if err := c.do(ctx, http.MethodGet, "/user/getUserDays", nil, nil, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// CaloricRequisition fetches the user's daily caloric target (kcal).
func (c *Client) CaloricRequisition(ctx context.Context) (float64, error) {
	var kcal float64
	if err := c.do(ctx, http.MethodGet, "/user/getCaloricRequisition", nil, nil, &kcal); err != nil {
		return 0, err
	}
	return kcal, nil
}

// AllProducts fetches the shared product catalog.
func (c *Client) AllProducts(ctx context.Context) ([]Product, error) {
	var ps []Product
	if err := c.do(ctx, http.MethodGet, "/user/getAllProducts", nil, nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// UserProducts fetches the user's own products.
func (c *Client) UserProducts(ctx context.Context) ([]Product, error) {
	var ps []Product
	if err := c.do(ctx, http.MethodGet, "/user/getUserProducts", nil, nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// AddMealProduct adds amount grams of a product to a meal. The server
// returns the entire refreshed meal, which is the source of truth for
// the meal's product list.
func (c *Client) AddMealProduct(ctx context.Context, mealID, productID int64, amount float64) (Meal, error) {
	in := struct {
		MealID    int64   `json:"meal_id"`
		ProductID int64   `json:"product_id"`
		Amount    float64 `json:"amount"`
	}{mealID, productID, amount}
	var meal Meal
	if err := c.do(ctx, http.MethodPost, "/user/addMealProduct", nil, in, &meal); err != nil {
		return Meal{}, err
	}
	return meal, nil
}

// UpdateMealProduct changes a meal product's amount. The server returns
// the single refreshed record with recomputed macros.
func (c *Client) UpdateMealProduct(ctx context.Context, mealProductID, productID int64, amount float64) (MealProduct, error) {
	in := struct {
		ID        int64   `json:"id"`
		ProductID int64   `json:"product_id"`
		Amount    float64 `json:"amount"`
	}{mealProductID, productID, amount}
	var p MealProduct
	if err := c.do(ctx, http.MethodPut, "/user/updateMealProduct", nil, in, &p); err != nil {
		return MealProduct{}, err
	}
	return p, nil
}

// DeleteMealProduct removes a meal product; the server confirms with
// the deleted record's identity.
func (c *Client) DeleteMealProduct(ctx context.Context, mealProductID int64) (MealProduct, error) {
	var p MealProduct
	if err := c.do(ctx, http.MethodDelete, "/user/deleteMealProduct", idQuery(mealProductID), nil, &p); err != nil {
		return MealProduct{}, err
	}
	return p, nil
}

// AddUserProduct creates a user-owned product (macros per 100 g).
func (c *Client) AddUserProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPost, "/user/addUserProduct", nil, p, &out); err != nil {
		return Product{}, err
	}
	return out, nil
}

// ModifyUserProduct updates a user-owned product by id.
func (c *Client) ModifyUserProduct(ctx context.Context, p Product) (Product, error) {
	var out Product
	if err := c.do(ctx, http.MethodPut, "/user/modifyUserProduct", nil, p, &out); err != nil {
		return Product{}, err
	}
	return out, nil
}

// DeleteUserProduct removes a user-owned product by id.
func (c *Client) DeleteUserProduct(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, "/user/deleteUserProduct", idQuery(productID), nil, nil)
}

// ExerciseTemplates fetches the exercise catalog.
func (c *Client) ExerciseTemplates(ctx context.Context) ([]ExerciseTemplate, error) {
	var ts []ExerciseTemplate
	if err := c.do(ctx, http.MethodGet, "/user/getAllExerciseTemplates", nil, nil, &ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// AddExercise logs an exercise on the given day (YYYY-MM-DD) and
// returns the created record.
func (c *Client) AddExercise(ctx context.Context, day string, templateID int64, sets, repetitions int, weight float64) (Exercise, error) {
	in := struct {
		Day         string  `json:"day"`
		TemplateID  int64   `json:"exerciseTemplateId"`
		Sets        int     `json:"sets"`
		Repetitions int     `json:"repetitions"`
		Weight      float64 `json:"weight"`
	}{day, templateID, sets, repetitions, weight}
	var ex Exercise
	if err := c.do(ctx, http.MethodPost, "/user/addExercise", nil, in, &ex); err != nil {
		return Exercise{}, err
	}
	return ex, nil
}

// UpdateExercise changes an exercise's sets/repetitions/weight and
// returns the updated fields.
func (c *Client) UpdateExercise(ctx context.Context, exerciseID int64, sets, repetitions int, weight float64) (ExerciseUpdate, error) {
	in := struct {
		ExerciseID  int64   `json:"exerciseId"`
		Sets        int     `json:"sets"`
		Repetitions int     `json:"repetitions"`
		Weight      float64 `json:"weight"`
	}{exerciseID, sets, repetitions, weight}
	var upd ExerciseUpdate
	if err := c.do(ctx, http.MethodPut, "/user/updateExercise", nil, in, &upd); err != nil {
		return ExerciseUpdate{}, err
	}
	return upd, nil
}

// DeleteExercise removes an exercise by id.
func (c *Client) DeleteExercise(ctx context.Context, exerciseID int64) error {
	return c.do(ctx, http.MethodDelete, "/user/deleteExercise", idQuery(exerciseID), nil, nil)
}

// DaySummary fetches nutrition totals for one day record.
func (c *Client) DaySummary(ctx context.Context, dayID int64) (NutritionSummary, error) {
	var s NutritionSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/getDaySummary/%d", dayID), nil, nil, &s)
	return s, err
}

// WeekSummary fetches nutrition averages for the current week.
func (c *Client) WeekSummary(ctx context.Context, userID int64) (NutritionSummary, error) {
	var s NutritionSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/getWeekSummary/%d", userID), nil, nil, &s)
	return s, err
}

// MonthSummary fetches nutrition averages for year/month (1-based).
func (c *Client) MonthSummary(ctx context.Context, userID int64, year, month int) (NutritionSummary, error) {
	var s NutritionSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/getMonthSummary/%d/%d/%d", userID, year, month), nil, nil, &s)
	return s, err
}

// DayExerciseSummary fetches training volume for one day record.
func (c *Client) DayExerciseSummary(ctx context.Context, dayID int64) (TrainingSummary, error) {
	var s TrainingSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/getDayExerciseSummary/%d", dayID), nil, nil, &s)
	return s, err
}

// WeekExerciseSummary fetches training volume for the current week.
func (c *Client) WeekExerciseSummary(ctx context.Context, userID int64) (TrainingSummary, error) {
	var s TrainingSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/getWeekExerciseSummary/%d", userID), nil, nil, &s)
	return s, err
}

// MonthExerciseSummary fetches training volume for year/month (1-based).
func (c *Client) MonthExerciseSummary(ctx context.Context, userID int64, year, month int) (TrainingSummary, error) {
	var s TrainingSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/user/getMonthExerciseSummary/%d/%d/%d", userID, year, month), nil, nil, &s)
	return s, err
}

// UserInfo fetches the logged-in user's full profile.
func (c *Client) UserInfo(ctx context.Context) (UserProfile, error) {
	var p UserProfile
	err := c.do(ctx, http.MethodGet, "/user/getUserInfo", nil, nil, &p)
	return p, err
}

// UpdateUserProfile updates age/weight/height/activity.
func (c *Client) UpdateUserProfile(ctx context.Context, age int, weight, height float64, activity string) error {
	in := struct {
		Age      int     `json:"age"`
		Weight   float64 `json:"weight"`
		Height   float64 `json:"height"`
		Activity string  `json:"activity"`
	}{age, weight, height, activity}
	return c.do(ctx, http.MethodPut, "/user/updateUserProfile", nil, in, nil)
}

// ChangePassword changes the logged-in user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	in := struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}{oldPassword, newPassword}
	return c.do(ctx, http.MethodPut, "/user/changeUserPassword", nil, in, nil)
}

// AllUsersProfile fetches every user's profile (admin only).
func (c *Client) AllUsersProfile(ctx context.Context) ([]UserProfile, error) {
	var ps []UserProfile
	if err := c.do(ctx, http.MethodGet, "/admin/getAllUsersProfile", nil, nil, &ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// ChangeUserRole switches a user between ROLE_USER and ROLE_ADMIN.
func (c *Client) ChangeUserRole(ctx context.Context, userID int64, role string) error {
	in := struct {
		UserID int64  `json:"userId"`
		Role   string `json:"role"`
	}{userID, role}
	return c.do(ctx, http.MethodPut, "/admin/changeUserRole", nil, in, nil)
}

// DeleteUser removes a user account (admin only).
func (c *Client) DeleteUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, "/admin/deleteUser", idQuery(userID), nil, nil)
}
