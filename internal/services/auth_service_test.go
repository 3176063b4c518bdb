package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ArowuTest/viral-lottery-backend/internal/models"
	"github.com/ArowuTest/viral-lottery-backend/pkg/jwt"
	"github.com/matryer/is"
)

func TestAuthRegisterAndLogin(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Maya", Email: "Maya@Example.com", Password: "secret1"})
	is.NoErr(err)
	is.Equal(res.Manager.Email, "maya@example.com")
	is.Equal(res.Manager.Role, models.RoleManager)
	is.True(res.Manager.PasswordHash != "secret1")

	claims, err := env.tokens.Parse(res.Token)
	is.NoErr(err)
	is.Equal(claims.Kind, jwt.KindManager)
	is.Equal(claims.Subject, res.Manager.ID)

	sent := env.mailer.Sent()
	is.Equal(len(sent), 1)
	is.Equal(sent[0].To, "boss@example.com")

	login, err := env.auth.Login(ctx, &models.LoginRequest{Email: "maya@example.com", Password: "secret1"})
	is.NoErr(err)
	is.Equal(login.Manager.ID, res.Manager.ID)

	_, err = env.auth.Login(ctx, &models.LoginRequest{Email: "maya@example.com", Password: "wrong"})
	is.True(errors.Is(err, ErrInvalidCredentials))
	_, err = env.auth.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	is.True(errors.Is(err, ErrInvalidCredentials))

	_, err = env.auth.Register(ctx, &models.RegisterRequest{DisplayName: "Again", Email: "maya@example.com", Password: "secret2"})
	is.True(errors.Is(err, ErrEmailTaken))

	me, err := env.auth.Me(ctx, res.Manager.ID)
	is.NoErr(err)
	is.Equal(me.DisplayName, "Maya")
}

func TestAuthSuperAdminEmailGetsRole(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)

	res, err := env.auth.Register(context.Background(), &models.RegisterRequest{DisplayName: "Boss", Email: "boss@example.com", Password: "secret1"})
	is.NoErr(err)
	is.Equal(res.Manager.Role, models.RoleSuperAdmin)
	is.Equal(len(env.mailer.Sent()), 0) // no mail to oneself
}

func TestAuthSignupSurvivesMailFailure(t *testing.T) {
	is := is.New(t)
	env := newTestEnv(t)
	env.mailer.Err = errStoreDown

	_, err := env.auth.Register(context.Background(), &models.RegisterRequest{DisplayName: "Maya", Email: "maya@example.com", Password: "secret1"})
	is.NoErr(err)
}
