package forms

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

// UserForm is the user create/update schema. ID empty means create. On
// update a blank password keeps the current one.
type UserForm struct {
	ID        string
	Name      string `validate:"required,min=2"`
	Email     string `validate:"required,email"`
	Username  string `validate:"required,min=3,username"`
	Password  string `validate:"omitempty,min=6"`
	Role      string `validate:"required,oneof=user manager admin"`
	Active    bool
	ManagerID string
}

var userMessages = map[string]string{
	"Name":     "Name must be at least 2 characters",
	"Email":    "Please enter a valid email address",
	"Username": "Username must be at least 3 characters using letters, numbers and underscores",
	"Password": "Password must be at least 6 characters",
	"Role":     "Role must be user, manager or admin",
}

// NewUserForm builds a form pre-filled from user, or a blank create form when
// user is nil. New users default to active, managed by the acting user.
func NewUserForm(user *models.User, actor *models.User) UserForm {
	if user == nil {
		form := UserForm{Role: models.RoleUser, Active: true}
		if actor != nil {
			form.ManagerID = actor.ID
		}
		return form
	}
	return UserForm{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Username:  user.Username,
		Role:      user.Role,
		Active:    user.Active,
		ManagerID: user.ManagerID,
	}
}

// Validate checks the form against the schema. The password is required on
// create only; that error reports alongside any other invalid fields.
func (f *UserForm) Validate() error {
	err := structErrors(validate.Struct(f), userMessages)
	if f.ID != "" || f.Password != "" {
		return err
	}

	fields, ok := err.(FieldErrors)
	if err != nil && !ok {
		return err
	}
	if fields == nil {
		fields = FieldErrors{}
	}
	fields["Password"] = userMessages["Password"]
	return fields
}

// Submit validates and then creates or updates the user. On success both user
// collections are invalidated: a change can move a user in or out of the
// managed scope.
func (f *UserForm) Submit(ctx context.Context, client *api.Client, c *cache.Cache) (*models.User, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	payload := api.UserPayload{
		Name:      f.Name,
		Email:     f.Email,
		Username:  f.Username,
		Password:  f.Password,
		Role:      f.Role,
		Active:    f.Active,
		ManagerID: f.ManagerID,
	}

	var (
		user *models.User
		err  error
	)
	if f.ID == "" {
		user, err = client.CreateUser(ctx, payload)
	} else {
		user, err = client.UpdateUser(ctx, f.ID, payload)
	}
	if err != nil {
		return nil, err
	}

	invalidateUsers(c)
	return user, nil
}

// DeleteUser deletes a user and invalidates the user collections. The
// destructive confirmation step is the caller's job.
func DeleteUser(ctx context.Context, client *api.Client, c *cache.Cache, id string) error {
	if err := client.DeleteUser(ctx, id); err != nil {
		return err
	}
	invalidateUsers(c)
	return nil
}

func invalidateUsers(c *cache.Cache) {
	c.InvalidateResource(cache.ResourceUsers)
	c.InvalidateResource(cache.ResourceManagedUsers)
}
