package forms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/cache"
	"github.com/taskdeck/taskdeck/internal/models"
)

func validUserForm() UserForm {
	return UserForm{
		Name:     "Carol Jones",
		Email:    "carol@example.com",
		Username: "carol_j",
		Password: "hunter22",
		Role:     models.RoleUser,
		Active:   true,
	}
}

func TestUserFormValidation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*UserForm)
		wantField string
	}{
		{"short name", func(f *UserForm) { f.Name = "C" }, "Name"},
		{"bad email", func(f *UserForm) { f.Email = "not-an-email" }, "Email"},
		{"short username", func(f *UserForm) { f.Username = "cj" }, "Username"},
		{"username with spaces", func(f *UserForm) { f.Username = "carol jones" }, "Username"},
		{"username with dash", func(f *UserForm) { f.Username = "carol-j" }, "Username"},
		{"short password", func(f *UserForm) { f.Password = "12345" }, "Password"},
		{"bad role", func(f *UserForm) { f.Role = "owner" }, "Role"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validUserForm()
			tt.mutate(&form)

			err := form.Validate()
			var fieldErrs FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			assert.Contains(t, fieldErrs, tt.wantField)
		})
	}
}

func TestUserFormPasswordRequiredOnCreateOnly(t *testing.T) {
	form := validUserForm()
	form.Password = ""

	err := form.Validate()
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "Password")

	// on update a blank password keeps the current one
	form.ID = "u7"
	assert.NoError(t, form.Validate())
}

func TestUserFormReportsAllErrorsOnFirstSubmit(t *testing.T) {
	form := validUserForm()
	form.Password = ""
	form.Email = "not-an-email"
	form.Username = "c j"

	err := form.Validate()
	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	// the missing password must not mask the other invalid fields
	assert.Contains(t, fieldErrs, "Password")
	assert.Contains(t, fieldErrs, "Email")
	assert.Contains(t, fieldErrs, "Username")
}

func TestUserFormSubmitRoutesCreateAndUpdate(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(models.User{ID: "u7", Name: "Carol Jones"})
	}))
	defer server.Close()
	client := api.NewClient(server.URL, func() string { return "t" })
	c := cache.New()

	form := validUserForm()
	user, err := form.Submit(context.Background(), client, c)
	require.NoError(t, err)
	assert.Equal(t, "u7", user.ID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/users", gotPath)

	form.ID = "u7"
	form.Password = ""
	_, err = form.Submit(context.Background(), client, c)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/users/u7", gotPath)
}

func TestUserFormSubmitInvalidatesBothUserCollections(t *testing.T) {
	client, _ := countingClient(t, http.StatusOK, models.User{ID: "u7"})
	c := cache.New()

	allFetches, managedFetches := 0, 0
	loadAll := func(ctx context.Context) ([]models.User, error) {
		allFetches++
		return nil, nil
	}
	loadManaged := func(ctx context.Context) ([]models.User, error) {
		managedFetches++
		return nil, nil
	}
	allKey := cache.Collection(cache.ResourceUsers)
	managedKey := cache.Collection(cache.ResourceManagedUsers)

	_, _ = cache.Fetch(context.Background(), c, allKey, loadAll)
	_, _ = cache.Fetch(context.Background(), c, managedKey, loadManaged)

	form := validUserForm()
	_, err := form.Submit(context.Background(), client, c)
	require.NoError(t, err)

	// a role or manager change can move a user between scopes
	_, _ = cache.Fetch(context.Background(), c, allKey, loadAll)
	_, _ = cache.Fetch(context.Background(), c, managedKey, loadManaged)
	assert.Equal(t, 2, allFetches)
	assert.Equal(t, 2, managedFetches)
}

func TestDeleteUserInvalidatesUserCollections(t *testing.T) {
	client, calls := countingClient(t, http.StatusNoContent, nil)
	c := cache.New()

	fetches := 0
	load := func(ctx context.Context) ([]models.User, error) {
		fetches++
		return nil, nil
	}
	key := cache.Collection(cache.ResourceUsers)
	_, _ = cache.Fetch(context.Background(), c, key, load)

	require.NoError(t, DeleteUser(context.Background(), client, c, "u7"))
	assert.Equal(t, 1, *calls)

	_, _ = cache.Fetch(context.Background(), c, key, load)
	assert.Equal(t, 2, fetches)
}

func TestNewUserFormDefaults(t *testing.T) {
	actor := &models.User{ID: "m1", Role: models.RoleManager}

	form := NewUserForm(nil, actor)
	assert.Equal(t, models.RoleUser, form.Role)
	assert.True(t, form.Active)
	assert.Equal(t, "m1", form.ManagerID, "new users default to the acting manager")

	existing := &models.User{
		ID: "u3", Name: "Dan", Email: "dan@example.com",
		Username: "dan", Role: models.RoleAdmin, Active: false, ManagerID: "m2",
	}
	form = NewUserForm(existing, actor)
	assert.Equal(t, "u3", form.ID)
	assert.Equal(t, models.RoleAdmin, form.Role)
	assert.False(t, form.Active)
	assert.Equal(t, "m2", form.ManagerID)
	assert.Empty(t, form.Password, "edit forms never carry a password")
}
