package web

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/userfeedback/internal/common"
	"github.com/dmitrijs2005/userfeedback/internal/server/models"
	"github.com/dmitrijs2005/userfeedback/internal/server/services"
	"github.com/dmitrijs2005/userfeedback/internal/server/session"
)

const (
	homePath     = "/"
	registerPath = "/register"

	flashNotUnique = "Username and email must be unique"
	flashMismatch  = "username and password don't match"
)

type UserService interface {
	Register(ctx context.Context, r services.Registration) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type FeedbackService interface {
	Create(ctx context.Context, title, content, owner string) (*models.Feedback, error)
	ListByOwner(ctx context.Context, owner string) ([]*models.Feedback, error)
	GetByID(ctx context.Context, id int64) (*models.Feedback, error)
	IsOwnedByOrAdmin(ctx context.Context, id int64, acting string) (bool, error)
	Update(ctx context.Context, id int64, title, content string) error
	Delete(ctx context.Context, id int64) error
}

// Handlers implements every route on top of the user and feedback services.
type Handlers struct {
	users    UserService
	feedback FeedbackService
}

func NewHandlers(us UserService, fs FeedbackService) *Handlers {
	return &Handlers{users: us, feedback: fs}
}

type ProfileData struct {
	User     *models.User
	Feedback []*models.Feedback
}

type AddFeedbackData struct {
	Username string
}

type UpdateFeedbackData struct {
	Feedback *models.Feedback
}

func profilePath(username string) string {
	return "/users/" + url.PathEscape(username)
}

func (h *Handlers) Home(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	return Redirect(registerPath), nil
}

func (h *Handlers) Register(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	if name, ok := id.Get(); ok {
		return Redirect(profilePath(name)), nil
	}
	if !req.IsPost() {
		return RenderForm(ViewRegister, NewFormState(), nil), nil
	}

	var form RegisterForm
	form.bind(req.Form)
	state := formStateFrom(req.Form)
	if !validateForm(&form, state) {
		return RenderForm(ViewRegister, state, nil), nil
	}

	_, err := h.users.Register(ctx, services.Registration{
		Username:  form.Username,
		Password:  form.Password,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		state.Flash(flashNotUnique)
		return RenderForm(ViewRegister, state, nil), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	// the session holds the first name, not the username
	id.Set(form.FirstName)
	return Redirect(profilePath(form.FirstName)), nil
}

func (h *Handlers) Login(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	if name, ok := id.Get(); ok {
		return Redirect(profilePath(name)), nil
	}
	if !req.IsPost() {
		return RenderForm(ViewLogin, NewFormState(), nil), nil
	}

	var form LoginForm
	form.bind(req.Form)
	state := formStateFrom(req.Form)
	if !validateForm(&form, state) {
		return RenderForm(ViewLogin, state, nil), nil
	}

	user, err := h.users.Authenticate(ctx, form.Username, form.Password)
	if errors.Is(err, common.ErrorUnauthorized) {
		state.Flash(flashMismatch)
		return RenderForm(ViewLogin, state, nil), nil
	}
	if err != nil {
		return Outcome{}, err
	}

	id.Set(user.Username)
	return Redirect(profilePath(user.Username)), nil
}

func (h *Handlers) Profile(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	username := req.Params["username"]
	if name, ok := id.Get(); !ok || name != username {
		return Redirect(registerPath), nil
	}

	user, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		return Outcome{}, err
	}
	items, err := h.feedback.ListByOwner(ctx, username)
	if err != nil {
		return Outcome{}, err
	}

	return RenderPage(ViewProfile, ProfileData{User: user, Feedback: items}), nil
}

// DeleteUser clears the session and deletes the user named in the path. The
// path user is not compared with the session identity.
func (h *Handlers) DeleteUser(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	if err := id.Clear(); err != nil {
		return Outcome{}, err
	}
	if err := h.users.Delete(ctx, req.Params["username"]); err != nil {
		return Outcome{}, err
	}
	return Redirect(homePath), nil
}

func (h *Handlers) AddFeedback(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	username := req.Params["username"]
	if name, ok := id.Get(); !ok || name != username {
		return Redirect(homePath), nil
	}

	data := AddFeedbackData{Username: username}
	if !req.IsPost() {
		return RenderForm(ViewAddFeedback, NewFormState(), data), nil
	}

	var form FeedbackForm
	form.bind(req.Form)
	state := formStateFrom(req.Form)
	if !validateForm(&form, state) {
		return RenderForm(ViewAddFeedback, state, data), nil
	}

	if _, err := h.feedback.Create(ctx, form.Title, form.Content, username); err != nil {
		return Outcome{}, err
	}
	return Redirect(homePath), nil
}

func (h *Handlers) UpdateFeedback(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	feedbackID, ok, err := h.authorizeFeedback(ctx, id, req)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Redirect(homePath), nil
	}

	var form FeedbackForm
	state := NewFormState()
	if req.IsPost() {
		form.bind(req.Form)
		state = formStateFrom(req.Form)
		if validateForm(&form, state) {
			if err := h.feedback.Update(ctx, feedbackID, form.Title, form.Content); err != nil {
				return Outcome{}, err
			}
			return Redirect(homePath), nil
		}
	}

	f, err := h.feedback.GetByID(ctx, feedbackID)
	if err != nil {
		return Outcome{}, err
	}
	if !req.IsPost() {
		state.Values["title"] = f.Title
		state.Values["content"] = f.Content
	}
	return RenderForm(ViewUpdateFeedback, state, UpdateFeedbackData{Feedback: f}), nil
}

func (h *Handlers) DeleteFeedback(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	feedbackID, ok, err := h.authorizeFeedback(ctx, id, req)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		return Redirect(homePath), nil
	}

	if err := h.feedback.Delete(ctx, feedbackID); err != nil {
		return Outcome{}, err
	}
	return Redirect(homePath), nil
}

func (h *Handlers) Logout(ctx context.Context, id *session.Identity, req Request) (Outcome, error) {
	if err := id.Clear(); err != nil {
		return Outcome{}, err
	}
	return Redirect(registerPath), nil
}

// authorizeFeedback parses the {id} path param and applies the
// owner-or-admin rule for the session identity. A malformed id or an empty
// session is simply not authorized.
func (h *Handlers) authorizeFeedback(ctx context.Context, id *session.Identity, req Request) (int64, bool, error) {
	feedbackID, err := strconv.ParseInt(req.Params["id"], 10, 64)
	if err != nil {
		return 0, false, nil
	}
	acting, ok := id.Get()
	if !ok {
		return 0, false, nil
	}

	allowed, err := h.feedback.IsOwnedByOrAdmin(ctx, feedbackID, acting)
	if err != nil {
		return 0, false, err
	}
	return feedbackID, allowed, nil
}
