// Package view renders the rental pages and their htmx fragments from
// embedded html/template files.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/utafrali/RentalGo/internal/domain"
	"github.com/utafrali/RentalGo/internal/service"
)

//go:embed templates
var templateFS embed.FS

// Page names.
const (
	PageHome     = "home"
	PageVehicles = "vehicles"
	PageDetails  = "details"
	PageBooking  = "booking"
	PageContact  = "contact"
	PageSignup   = "signup"
	PageLogin    = "login"
	PageError    = "error"
)

// Fragment names.
const (
	FragmentTeaser        = "teaser"
	FragmentGrid          = "grid"
	FragmentGridEmpty     = "grid_empty"
	FragmentStats         = "stats"
	FragmentVehicleDetail = "vehicle_detail"
	FragmentFormResult    = "form_result"
)

var pageNames = []string{
	PageHome, PageVehicles, PageDetails, PageBooking,
	PageContact, PageSignup, PageLogin, PageError,
}

// Page is the data of a full page render.
type Page struct {
	Title string
	// Nav marks the active navigation link.
	Nav  string
	User *domain.CurrentUser
	// Refresh, when set, is the content of a meta refresh tag.
	Refresh string
	Body    any
}

// HomeBody is the body of the home page.
type HomeBody struct {
	Vehicles []domain.DisplayVehicle
}

// VehiclesBody is the body of the vehicles page. Pickup and Drop echo the
// quick search that led to the page.
type VehiclesBody struct {
	Grid   service.GridPage
	Pickup string
	Drop   string
}

// FormResult is the outcome shown under a submitted form. ID is the element
// id htmx swaps.
type FormResult struct {
	ID      string
	OK      bool
	Message string
	Fields  map[string]string
}

// FormBody is the body of a form page.
type FormBody struct {
	VehicleID string
	Values    url.Values
	Result    FormResult
}

// ErrorBody is the body of the error page.
type ErrorBody struct {
	Status  int
	Message string
}

// Renderer executes the parsed templates.
type Renderer struct {
	pages     map[string]*template.Template
	fragments *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs()).ParseFS(templateFS,
		"templates/layout.html",
		"templates/fragments.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse base templates: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base for %s: %w", name, err)
		}
		if _, err := t.ParseFS(templateFS, "templates/pages/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}

	return &Renderer{pages: pages, fragments: base}, nil
}

// Page renders the named page inside the site layout.
func (r *Renderer) Page(w io.Writer, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := t.ExecuteTemplate(w, "layout", p); err != nil {
		return fmt.Errorf("render page %s: %w", name, err)
	}
	return nil
}

// Fragment renders one fragment on its own, as htmx requests expect.
func (r *Renderer) Fragment(w io.Writer, name string, data any) error {
	if err := r.fragments.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render fragment %s: %w", name, err)
	}
	return nil
}

// RefreshAfter formats a meta refresh value that loads target after d.
func RefreshAfter(d time.Duration, target string) string {
	return decimal.NewFromFloat(d.Seconds()).String() + ";url=" + target
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"rate":  dailyRate,
		"money": money,
		"year":  func() int { return time.Now().Year() },
	}
}

// dailyRate formats a daily rate rounded to whole rupees.
func dailyRate(price float64) string {
	return "₹" + decimal.NewFromFloat(price).Round(0).String() + "/day"
}

// money formats an amount with two decimals.
func money(amount float64) string {
	return "₹" + decimal.NewFromFloat(amount).StringFixed(2)
}
