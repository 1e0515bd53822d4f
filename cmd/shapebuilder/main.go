// Command shapebuilder is a terminal client for the ShapeBuilder
// fitness/nutrition backend: it logs meals, exercises and products over
// a calendar and renders the aggregated summaries.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Maxirabon/shapebuilder-cli/internal/api"
	"github.com/Maxirabon/shapebuilder-cli/internal/config"
	"github.com/Maxirabon/shapebuilder-cli/internal/plot"
	"github.com/Maxirabon/shapebuilder-cli/internal/session"
	"github.com/Maxirabon/shapebuilder-cli/internal/tracker"
)

const usage = `
usage: shapebuilder [options] <command>

Commands:
	init				initialise the session database (specified by -db)
	register <profile.json>		create an account from a JSON profile file
	login				log in (using credentials from -creds)
	logout				forget the stored session
	whoami				show the logged-in user and daily caloric target

	cal [YYYY-MM|prev|next]		render the month calendar grid
	day <YYYY-MM-DD>		show one day's meals, totals and exercises

	products [search]		list the shared product catalog
	my-products [search]		list your own products
	add-my-product <name> <kcal> <protein> <carbs> <fat>
	update-my-product <id> <name> <kcal> <protein> <carbs> <fat>
	delete-my-product <id>

	add-product <date> <mealId> <productId> <amount>
	update-product <date> <mealId> <mealProductId> <productId> <amount>
	delete-product <mealProductId>

	exercises [search]		list the exercise catalog
	add-exercise <date> <templateId> <sets> <reps> [weight]
	update-exercise <id> <sets> <reps> [weight]
	delete-exercise <id>

	summary <nutrition|training> <day|week|month>	show totals; -plot writes a chart PNG
	profile				show your profile
	set-profile <age> <height> <weight> <activity>
	passwd				change password (reads old/new from stdin)

	admin users [search]		list all users (admin)
	admin set-role <id> <role>	change a user's role (admin)
	admin delete-user <id>		delete a user (admin)

Options:
`

func main() {
	cfg := config.Load()

	var (
		dbFlag      = flag.String("db", cfg.DBPath, "`filename` of SQLite3 session database file")
		apiFlag     = flag.String("api", cfg.APIBaseURL, "base `url` of the ShapeBuilder backend")
		credsFlag   = flag.String("creds", filepath.Join(home(), ".shapebuilderrc"), "`filename` containing login credentials")
		plotFlag    = flag.String("plot", "", "`filename` to write the summary chart PNG to")
		noShiftFlag = flag.Bool("no-date-shift", !cfg.ShiftExerciseDate, "submit new exercises on the selected day instead of the day after")
		noClampFlag = flag.Bool("no-clamp", !cfg.ClampMonthNav, "allow month navigation outside the fetched data range")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "%s", usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	db, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("Opening DB %s: %v", *dbFlag, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	ctx := context.Background()
	app := &app{
		db:     db,
		client: api.NewClient(*apiFlag),
		creds:  *credsFlag,
		policy: tracker.Policy{
			ClampToData:       !*noClampFlag,
			ShiftExerciseDate: !*noShiftFlag,
		},
		plotDst: *plotFlag,
	}

	switch cmd := flag.Arg(0); cmd {
	default:
		log.Fatalf("Unknown command %q", cmd)
	case "init":
		if err := session.Init(db); err != nil {
			log.Fatalf("Initialising DB: %v", err)
		}
		log.Printf("DB init OK")
	case "register":
		if flag.NArg() != 2 {
			flag.Usage()
			os.Exit(1)
		}
		app.register(ctx, flag.Arg(1))
	case "login":
		app.login(ctx)
	case "logout":
		if err := session.Clear(ctx, db, app.host()); err != nil {
			log.Fatalf("Logging out: %v", err)
		}
		log.Printf("Logged out OK")
	case "whoami":
		app.whoami(ctx)
	case "cal":
		app.calendar(ctx, flag.Arg(1))
	case "day":
		app.day(ctx, argAt(1))
	case "products":
		app.products(ctx, false, flag.Arg(1))
	case "my-products":
		app.products(ctx, true, flag.Arg(1))
	case "add-my-product":
		app.addMyProduct(ctx, args(1, 5))
	case "update-my-product":
		app.updateMyProduct(ctx, args(1, 6))
	case "delete-my-product":
		app.deleteMyProduct(ctx, parseID(argAt(1)))
	case "add-product":
		app.addProduct(ctx, args(1, 4))
	case "update-product":
		app.updateProduct(ctx, args(1, 5))
	case "delete-product":
		app.deleteProduct(ctx, parseID(argAt(1)))
	case "exercises":
		app.exerciseTemplates(ctx, flag.Arg(1))
	case "add-exercise":
		app.addExercise(ctx)
	case "update-exercise":
		app.updateExercise(ctx)
	case "delete-exercise":
		app.deleteExercise(ctx, parseID(argAt(1)))
	case "summary":
		app.summary(ctx, argAt(1), argAt(2))
	case "profile":
		app.profile(ctx)
	case "set-profile":
		app.setProfile(ctx, args(1, 4))
	case "passwd":
		app.passwd(ctx)
	case "admin":
		app.admin(ctx, argAt(1))
	}
}

// app carries the wiring every command needs. The session is loaded
// once per run and handed down; nothing reads ambient global state.
type app struct {
	db      *sql.DB
	client  *api.Client
	creds   string
	policy  tracker.Policy
	plotDst string

	sess *session.Session
}

func (a *app) host() string {
	u, err := url.Parse(a.client.BaseURL)
	if err != nil || u.Host == "" {
		return a.client.BaseURL
	}
	return u.Host
}

// authed loads the stored session and arms the client with its token.
func (a *app) authed(ctx context.Context) {
	sess, err := session.Load(ctx, a.db, a.host())
	if err == session.ErrNotLoggedIn {
		log.Fatalf("No session for %s; have you logged in?", a.host())
	} else if err != nil {
		log.Fatalf("Loading session: %v", err)
	}
	a.sess = sess
	a.client.Token = sess.Token
}

// loadDays pulls the user's full day list and indexes it.
func (a *app) loadDays(ctx context.Context) *tracker.Store {
	days, err := a.client.UserDays(ctx)
	if err != nil {
		log.Fatalf("Fetching days: %v", err)
	}
	return tracker.NewStore(days)
}

func (a *app) actions(store *tracker.Store) *tracker.Actions {
	return &tracker.Actions{
		Client:  a.client,
		Store:   store,
		Policy:  a.policy,
		Confirm: confirmPrompt,
	}
}

func (a *app) register(ctx context.Context, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Loading profile from %s: %v", path, err)
	}
	var reg api.Registration
	if err := json.Unmarshal(raw, &reg); err != nil {
		log.Fatalf("Parsing profile from %s: %v", path, err)
	}
	msg, err := a.client.Register(ctx, reg)
	if err != nil {
		log.Fatalf("Registering: %v", err)
	}
	log.Printf("Registered OK: %s", msg)
}

func (a *app) login(ctx context.Context) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	raw, err := os.ReadFile(a.creds)
	if err != nil {
		log.Fatalf("Loading creds from %s: %v", a.creds, err)
	}
	if err := json.Unmarshal(raw, &creds); err != nil {
		log.Fatalf("Parsing creds from %s: %v", a.creds, err)
	}

	token, err := a.client.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		log.Fatalf("Logging in: %v", err)
	}
	user, err := session.UserFromToken(token)
	if err != nil {
		log.Fatalf("Decoding token: %v", err)
	}
	sess := &session.Session{Host: a.host(), Token: token, User: user}
	if err := session.Save(ctx, a.db, sess); err != nil {
		log.Fatalf("Saving session: %v", err)
	}
	log.Printf("Logged in as %s %s (%s)", user.FirstName, user.LastName, user.Role)
}

func (a *app) whoami(ctx context.Context) {
	a.authed(ctx)
	fmt.Printf("%s %s (user %d, %s) @ %s\n",
		a.sess.User.FirstName, a.sess.User.LastName, a.sess.User.ID, a.sess.User.Role, a.host())
	kcal, err := a.client.CaloricRequisition(ctx)
	if err != nil {
		log.Printf("Fetching caloric requisition: %v", err)
		return
	}
	fmt.Printf("Daily caloric target: %.0f kcal\n", kcal)
}

func (a *app) calendar(ctx context.Context, monthArg string) {
	a.authed(ctx)
	store := a.loadDays(ctx)

	now := time.Now()
	year, month := now.Year(), now.Month()
	switch monthArg {
	case "":
	case "prev":
		var moved bool
		year, month, moved = a.policy.PrevMonth(year, month, store)
		if !moved {
			log.Printf("Already at the earliest month with data")
		}
	case "next":
		var moved bool
		year, month, moved = a.policy.NextMonth(year, month, store)
		if !moved {
			log.Printf("Already at the latest month with data")
		}
	default:
		t, err := time.ParseInLocation("2006-01", monthArg, time.Local)
		if err != nil {
			log.Fatalf("Bad month %q (want YYYY-MM, prev or next)", monthArg)
		}
		year, month = t.Year(), t.Month()
	}

	kcal, err := a.client.CaloricRequisition(ctx)
	if err != nil {
		log.Printf("Fetching caloric requisition: %v", err)
	}
	renderMonth(os.Stdout, year, month, store, kcal)
}

func (a *app) day(ctx context.Context, date string) {
	a.authed(ctx)
	store := a.loadDays(ctx)
	renderDayByDate(os.Stdout, store, date)
}

func (a *app) products(ctx context.Context, mine bool, search string) {
	a.authed(ctx)
	var (
		ps  []api.Product
		err error
	)
	if mine {
		ps, err = a.client.UserProducts(ctx)
	} else {
		ps, err = a.client.AllProducts(ctx)
	}
	if err != nil {
		log.Fatalf("Fetching products: %v", err)
	}
	for _, p := range ps {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		fmt.Printf("%6d  %-30s %7.1f kcal  P %5.1f  C %5.1f  F %5.1f  (per 100g)\n",
			p.ID, p.Name, p.Calories, p.Protein, p.Carbs, p.Fat)
	}
}

func (a *app) addMyProduct(ctx context.Context, args []string) {
	a.authed(ctx)
	p := api.Product{
		Name:     args[0],
		Calories: parseNum(args[1], "kcal"),
		Protein:  parseNum(args[2], "protein"),
		Carbs:    parseNum(args[3], "carbs"),
		Fat:      parseNum(args[4], "fat"),
	}
	created, err := a.client.AddUserProduct(ctx, p)
	if err != nil {
		log.Fatalf("Adding product: %v", err)
	}
	log.Printf("Added product %q (id %d)", created.Name, created.ID)
}

func (a *app) updateMyProduct(ctx context.Context, args []string) {
	a.authed(ctx)
	p := api.Product{
		ID:       parseID(args[0]),
		Name:     args[1],
		Calories: parseNum(args[2], "kcal"),
		Protein:  parseNum(args[3], "protein"),
		Carbs:    parseNum(args[4], "carbs"),
		Fat:      parseNum(args[5], "fat"),
	}
	if p.ID == 0 {
		log.Fatalf("Cannot modify a product without an id")
	}
	updated, err := a.client.ModifyUserProduct(ctx, p)
	if err != nil {
		log.Fatalf("Modifying product: %v", err)
	}
	log.Printf("Updated product %q (id %d)", updated.Name, updated.ID)
}

func (a *app) deleteMyProduct(ctx context.Context, id int64) {
	a.authed(ctx)
	if !confirmPrompt("Delete this product?") {
		log.Printf("Canceled")
		return
	}
	if err := a.client.DeleteUserProduct(ctx, id); err != nil {
		log.Fatalf("Deleting product: %v", err)
	}
	log.Printf("Deleted product %d", id)
}

func (a *app) addProduct(ctx context.Context, args []string) {
	a.authed(ctx)
	store := a.loadDays(ctx)
	date := args[0]
	_, err := a.actions(store).AddMealProduct(ctx, date,
		parseID(args[1]), parseID(args[2]), parseNum(args[3], "amount"))
	if err != nil {
		log.Fatalf("Adding product to meal: %v", err)
	}
	renderDayByDate(os.Stdout, store, date)
}

func (a *app) updateProduct(ctx context.Context, args []string) {
	a.authed(ctx)
	store := a.loadDays(ctx)
	date := args[0]
	_, err := a.actions(store).UpdateMealProduct(ctx, date,
		parseID(args[1]), parseID(args[2]), parseID(args[3]), parseNum(args[4], "amount"))
	if err != nil {
		log.Fatalf("Updating meal product: %v", err)
	}
	renderDayByDate(os.Stdout, store, date)
}

func (a *app) deleteProduct(ctx context.Context, id int64) {
	a.authed(ctx)
	store := a.loadDays(ctx)
	err := a.actions(store).DeleteMealProduct(ctx, id)
	if err == tracker.ErrCanceled {
		log.Printf("Canceled")
		return
	} else if err != nil {
		log.Fatalf("Deleting meal product: %v", err)
	}
	log.Printf("Deleted meal product %d", id)
}

func (a *app) exerciseTemplates(ctx context.Context, search string) {
	a.authed(ctx)
	ts, err := a.client.ExerciseTemplates(ctx)
	if err != nil {
		log.Fatalf("Fetching exercise templates: %v", err)
	}
	for _, t := range ts {
		if search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(search)) {
			continue
		}
		fmt.Printf("%6d  %s\n", t.ID, t.Name)
	}
}

func (a *app) addExercise(ctx context.Context) {
	if flag.NArg() < 5 {
		flag.Usage()
		os.Exit(1)
	}
	a.authed(ctx)
	store := a.loadDays(ctx)
	date := flag.Arg(1)
	weight := 0.0
	if flag.NArg() > 5 {
		weight = parseNum(flag.Arg(5), "weight")
	}
	ex, err := a.actions(store).AddExercise(ctx, date,
		parseID(flag.Arg(2)), int(parseID(flag.Arg(3))), int(parseID(flag.Arg(4))), weight)
	if err != nil {
		log.Fatalf("Adding exercise: %v", err)
	}
	log.Printf("Added exercise %q (id %d) on %s", ex.Name, ex.ID, ex.Day)
	renderDayByDate(os.Stdout, store, ex.Day)
}

func (a *app) updateExercise(ctx context.Context) {
	if flag.NArg() < 4 {
		flag.Usage()
		os.Exit(1)
	}
	a.authed(ctx)
	store := a.loadDays(ctx)
	weight := 0.0
	if flag.NArg() > 4 {
		weight = parseNum(flag.Arg(4), "weight")
	}
	err := a.actions(store).UpdateExercise(ctx,
		parseID(flag.Arg(1)), int(parseID(flag.Arg(2))), int(parseID(flag.Arg(3))), weight)
	if err != nil {
		log.Fatalf("Updating exercise: %v", err)
	}
	log.Printf("Updated exercise %s", flag.Arg(1))
}

func (a *app) deleteExercise(ctx context.Context, id int64) {
	a.authed(ctx)
	store := a.loadDays(ctx)
	err := a.actions(store).DeleteExercise(ctx, id)
	if err == tracker.ErrCanceled {
		log.Printf("Canceled")
		return
	} else if err != nil {
		log.Fatalf("Deleting exercise: %v", err)
	}
	log.Printf("Deleted exercise %d", id)
}

func (a *app) summary(ctx context.Context, tab, rng string) {
	a.authed(ctx)
	if tab != "nutrition" && tab != "training" {
		log.Fatalf("Bad summary type %q (want nutrition or training)", tab)
	}

	now := time.Now()
	var dayID int64
	if rng == "day" {
		// Day summaries are addressed by day record id, so resolve
		// today's record first.
		store := a.loadDays(ctx)
		view, ok := store.Day(tracker.DateKey(now))
		if !ok {
			log.Fatalf("No day record for today (%s)", tracker.DateKey(now))
		}
		dayID = view.ID
	}

	switch tab {
	case "nutrition":
		var (
			s   api.NutritionSummary
			err error
		)
		switch rng {
		case "day":
			s, err = a.client.DaySummary(ctx, dayID)
		case "week":
			s, err = a.client.WeekSummary(ctx, a.sess.User.ID)
		case "month":
			s, err = a.client.MonthSummary(ctx, a.sess.User.ID, now.Year(), int(now.Month()))
		default:
			log.Fatalf("Bad summary range %q (want day, week or month)", rng)
		}
		if err != nil {
			log.Fatalf("Fetching summary: %v", err)
		}
		fmt.Printf("calories %.1f kcal | protein %.1fg | carbs %.1fg | fat %.1fg\n",
			s.Calories(), s.Protein(), s.Carbs(), s.Fat())
		a.writeChart(plot.NutritionChart(fmt.Sprintf("Nutrition (%s)", rng), s))
	case "training":
		var (
			s   api.TrainingSummary
			err error
		)
		switch rng {
		case "day":
			s, err = a.client.DayExerciseSummary(ctx, dayID)
		case "week":
			s, err = a.client.WeekExerciseSummary(ctx, a.sess.User.ID)
		case "month":
			s, err = a.client.MonthExerciseSummary(ctx, a.sess.User.ID, now.Year(), int(now.Month()))
		default:
			log.Fatalf("Bad summary range %q (want day, week or month)", rng)
		}
		if err != nil {
			log.Fatalf("Fetching summary: %v", err)
		}
		total, avg := s.Volumes()
		fmt.Printf("volume %.1f kg | avg %.1f kg/day\n", total, avg)
		a.writeChart(plot.TrainingChart(fmt.Sprintf("Training (%s)", rng), s))
	}
}

func (a *app) writeChart(lc *plot.LineChart) {
	if a.plotDst == "" {
		return
	}
	data, err := lc.Render()
	if err != nil {
		log.Fatalf("Plotting data: %v", err)
	}
	if err := os.WriteFile(a.plotDst, data, 0644); err != nil {
		log.Fatalf("Writing plot to %s: %v", a.plotDst, err)
	}
	log.Printf("OK; wrote chart to %s (%d bytes)", a.plotDst, len(data))
}

func (a *app) profile(ctx context.Context) {
	a.authed(ctx)
	p, err := a.client.UserInfo(ctx)
	if err != nil {
		log.Fatalf("Fetching profile: %v", err)
	}
	fmt.Printf("%s %s <%s>\n", p.FirstName, p.LastName, p.Email)
	fmt.Printf("gender %s | age %d | height %.0f cm | weight %.1f kg | activity %s | %s\n",
		p.Gender, p.Age, p.Height, p.Weight, p.Activity, p.Role)
}

func (a *app) setProfile(ctx context.Context, args []string) {
	a.authed(ctx)
	age := int(parseID(args[0]))
	height := parseNum(args[1], "height")
	weight := parseNum(args[2], "weight")
	if age < 1 || height < 1 || weight < 1 {
		log.Fatalf("Age, height and weight must all be positive")
	}
	if err := a.client.UpdateUserProfile(ctx, age, weight, height, args[3]); err != nil {
		log.Fatalf("Updating profile: %v", err)
	}
	log.Printf("Profile updated OK")
}

func (a *app) passwd(ctx context.Context) {
	a.authed(ctx)
	in := bufio.NewReader(os.Stdin)
	old := readLine(in, "Old password: ")
	new1 := readLine(in, "New password: ")
	new2 := readLine(in, "Repeat new password: ")
	if new1 != new2 {
		log.Fatalf("New passwords do not match")
	}
	if err := a.client.ChangePassword(ctx, old, new1); err != nil {
		log.Fatalf("Changing password: %v", err)
	}
	log.Printf("Password changed OK")
}

func (a *app) admin(ctx context.Context, sub string) {
	a.authed(ctx)
	switch sub {
	default:
		flag.Usage()
		os.Exit(1)
	case "users":
		users, err := a.client.AllUsersProfile(ctx)
		if err != nil {
			log.Fatalf("Fetching users: %v", err)
		}
		search := strings.ToLower(flag.Arg(2))
		for _, u := range users {
			if search != "" && !strings.Contains(strings.ToLower(u.Email), search) {
				continue
			}
			fmt.Printf("%6d  %-30s %s %s  %s\n", u.ID, u.Email, u.FirstName, u.LastName, u.Role)
		}
	case "set-role":
		id, role := parseID(argAt(2)), argAt(3)
		if err := a.client.ChangeUserRole(ctx, id, role); err != nil {
			log.Fatalf("Changing role: %v", err)
		}
		log.Printf("User %d is now %s", id, role)
	case "delete-user":
		id := parseID(argAt(2))
		if !confirmPrompt("Delete this user and all their data?") {
			log.Printf("Canceled")
			return
		}
		if err := a.client.DeleteUser(ctx, id); err != nil {
			log.Fatalf("Deleting user: %v", err)
		}
		log.Printf("Deleted user %d", id)
	}
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

// argAt fetches a required positional argument.
func argAt(i int) string {
	if flag.NArg() <= i {
		flag.Usage()
		os.Exit(1)
	}
	return flag.Arg(i)
}

// args fetches exactly n positional arguments starting at from.
func args(from, n int) []string {
	if flag.NArg() != from+n {
		flag.Usage()
		os.Exit(1)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = flag.Arg(from + i)
	}
	return out
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Fatalf("Bad id %q", s)
	}
	return id
}

func parseNum(s, what string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Fatalf("Bad %s %q", what, s)
	}
	return v
}

func readLine(in *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		log.Fatalf("Reading input: %v", err)
	}
	return strings.TrimSpace(line)
}

// confirmPrompt guards destructive actions on the terminal.
func confirmPrompt(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
