package http

import (
	"net/http"
	"net/url"

	"github.com/utafrali/RentalGo/internal/service"
	"github.com/utafrali/RentalGo/internal/view"
	"github.com/utafrali/RentalGo/pkg/middleware"
	"github.com/utafrali/RentalGo/pkg/validator"
)

// Element ids of the form result blocks.
const (
	bookingResultID = "bookingResult"
	contactResultID = "contactResult"
	signupResultID  = "signupMsg"
	loginResultID   = "loginMsg"
)

type formPage struct {
	name  string
	title string
}

var (
	bookingPage = formPage{name: view.PageBooking, title: "Booking"}
	contactPage = formPage{name: view.PageContact, title: "Contact"}
	signupPage  = formPage{name: view.PageSignup, title: "Sign up"}
	loginPage   = formPage{name: view.PageLogin, title: "Log in"}
)

// respondForm answers a form post: the result fragment for htmx, otherwise
// the whole form page with the result under the form.
func (h *PageHandler) respondForm(w http.ResponseWriter, r *http.Request, status int, fp formPage, body view.FormBody, refresh string) {
	if isHTMX(r) {
		h.fragment(w, r, status, view.FragmentFormResult, body.Result)
		return
	}

	p := h.basePage(r, fp.title, fp.name)
	p.Refresh = refresh
	p.Body = body
	h.page(w, r, status, fp.name, p)
}

// parseForm parses the posted form, answering 400 when the body is malformed.
func (h *PageHandler) parseForm(w http.ResponseWriter, r *http.Request, fp formPage, resultID string) (url.Values, bool) {
	if err := r.ParseForm(); err != nil {
		h.respondForm(w, r, http.StatusBadRequest, fp, view.FormBody{
			Result: view.FormResult{ID: resultID, Message: "The form could not be read. Please try again."},
		}, "")
		return nil, false
	}
	return r.PostForm, true
}

// BookingForm handles GET /booking
func (h *PageHandler) BookingForm(w http.ResponseWriter, r *http.Request) {
	p := h.basePage(r, bookingPage.title, bookingPage.name)
	p.Body = view.FormBody{
		VehicleID: r.URL.Query().Get("vehicleId"),
		Result:    view.FormResult{ID: bookingResultID},
	}
	h.page(w, r, http.StatusOK, bookingPage.name, p)
}

// SubmitBooking handles POST /booking
func (h *PageHandler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r, bookingPage, bookingResultID)
	if !ok {
		return
	}

	in := service.BookingInput{
		VehicleID:  validator.FormValue(form, "vehicleId"),
		PickupDate: validator.FormValue(form, "pickupDate"),
		DropDate:   validator.FormValue(form, "dropDate"),
	}
	body := view.FormBody{VehicleID: in.VehicleID, Values: form}

	booking, err := h.bookings.Book(r.Context(), in)
	if err != nil {
		result, status := h.formFailure(r, bookingResultID, err)
		body.Result = result
		h.respondForm(w, r, status, bookingPage, body, "")
		return
	}

	body.Values = nil
	body.Result = view.FormResult{ID: bookingResultID, OK: true, Message: service.ConfirmationMessage(booking)}
	h.respondForm(w, r, http.StatusOK, bookingPage, body, "")
}

// ContactForm handles GET /contact
func (h *PageHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	p := h.basePage(r, contactPage.title, contactPage.name)
	p.Body = view.FormBody{Result: view.FormResult{ID: contactResultID}}
	h.page(w, r, http.StatusOK, contactPage.name, p)
}

// SubmitContact handles POST /contact
func (h *PageHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r, contactPage, contactResultID)
	if !ok {
		return
	}

	in := service.ContactInput{
		Name:    validator.FormValue(form, "name"),
		Email:   validator.FormValue(form, "email"),
		Message: validator.FormValue(form, "message"),
	}
	body := view.FormBody{Values: form}

	if err := validator.Validate(in); err != nil {
		result, status := h.formFailure(r, contactResultID, err)
		body.Result = result
		h.respondForm(w, r, status, contactPage, body, "")
		return
	}

	body.Values = nil
	body.Result = view.FormResult{ID: contactResultID, OK: true, Message: h.contact.Acknowledge(r.Context(), in)}
	h.respondForm(w, r, http.StatusOK, contactPage, body, "")
}

// SignupForm handles GET /signup
func (h *PageHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	p := h.basePage(r, signupPage.title, signupPage.name)
	p.Body = view.FormBody{Result: view.FormResult{ID: signupResultID}}
	h.page(w, r, http.StatusOK, signupPage.name, p)
}

// SubmitSignup handles POST /signup
func (h *PageHandler) SubmitSignup(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r, signupPage, signupResultID)
	if !ok {
		return
	}

	in := service.SignupInput{
		Name:     validator.FormValue(form, "name"),
		Email:    validator.FormValue(form, "email"),
		Password: form.Get("pass"),
	}
	body := view.FormBody{Values: form}

	if _, err := h.accounts.Signup(r.Context(), middleware.VisitorID(r), in); err != nil {
		result, status := h.formFailure(r, signupResultID, err)
		body.Result = result
		h.respondForm(w, r, status, signupPage, body, "")
		return
	}

	body.Values = nil
	body.Result = view.FormResult{ID: signupResultID, OK: true, Message: service.MsgAccountCreated}
	h.respondForm(w, r, http.StatusOK, signupPage, body, "")
}

// LoginForm handles GET /login
func (h *PageHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	p := h.basePage(r, loginPage.title, loginPage.name)
	p.Body = view.FormBody{Result: view.FormResult{ID: loginResultID}}
	h.page(w, r, http.StatusOK, loginPage.name, p)
}

// SubmitLogin handles POST /login. On success the page sends the browser
// home after the configured delay.
func (h *PageHandler) SubmitLogin(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r, loginPage, loginResultID)
	if !ok {
		return
	}

	in := service.LoginInput{
		Email:    validator.FormValue(form, "email"),
		Password: form.Get("pass"),
	}
	body := view.FormBody{Values: form}

	if _, err := h.accounts.Login(r.Context(), middleware.VisitorID(r), in); err != nil {
		result, status := h.formFailure(r, loginResultID, err)
		body.Result = result
		h.respondForm(w, r, status, loginPage, body, "")
		return
	}

	body.Result = view.FormResult{ID: loginResultID, OK: true, Message: service.MsgLoggedIn}
	h.respondForm(w, r, http.StatusOK, loginPage, body, view.RefreshAfter(h.loginRedirectDelay, "/"))
}

// QuickSearch handles POST /quick-search by redirecting to the vehicles page.
func (h *PageHandler) QuickSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "The form could not be read. Please try again.", http.StatusBadRequest)
		return
	}

	target := service.QuickSearch(r.PostForm.Get("pickup"), r.PostForm.Get("drop"))
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
