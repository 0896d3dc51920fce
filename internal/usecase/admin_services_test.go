package usecase

import (
	"context"
	"testing"

	"tago-service/internal/domain/entity"
	repo "tago-service/internal/interface/repository"
	"tago-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.airlines, logger.NewNopLogger())
	ctx := context.Background()

	editorUser, err := svc.Create(ctx, admin(), NewUserInput{Username: "dana", Password: "pw", Role: "editor"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleEditor, editorUser.Role)
	assert.Equal(t, entity.DefaultAirlines, editorUser.AllowedAirlines)
	assert.NotEqual(t, "pw", editorUser.PasswordHash)

	viewerUser, err := svc.Create(ctx, admin(), NewUserInput{Username: "noa", Password: "pw", Role: entity.RoleViewer})
	require.NoError(t, err)
	assert.Empty(t, viewerUser.AllowedAirlines)

	_, err = svc.Create(ctx, admin(), NewUserInput{Username: "DANA", Password: "pw", Role: entity.RoleViewer})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.Create(ctx, admin(), NewUserInput{Username: "x", Password: "pw", Role: "OWNER"})
	assert.ErrorIs(t, err, ErrInvalidUser)

	_, err = svc.Create(ctx, editor("ET"), NewUserInput{Username: "y", Password: "pw", Role: entity.RoleViewer})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_SetAllowedAirlines(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.users, f.airlines, logger.NewNopLogger())
	ctx := context.Background()

	user, err := svc.Create(ctx, admin(), NewUserInput{Username: "noa", Password: "pw", Role: entity.RoleViewer})
	require.NoError(t, err)

	updated, err := svc.SetAllowedAirlines(ctx, admin(), user.ID, []string{"et", "UX", "ET"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ET", "UX"}, updated.AllowedAirlines)

	_, err = svc.SetAllowedAirlines(ctx, admin(), user.ID, []string{"ZZ"})
	assert.ErrorIs(t, err, ErrUnknownAirline)

	_, err = svc.SetAllowedAirlines(ctx, admin(), "missing", nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAirlineService_AddAndConfigure(t *testing.T) {
	f := newFixture(t)
	svc := NewAirlineService(f.airlines, f.configs, logger.NewNopLogger())
	ctx := context.Background()

	config, err := svc.Add(ctx, admin(), " ly ")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultAirlineConfig("LY"), *config)

	_, err = svc.Add(ctx, admin(), "LY")
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = svc.Add(ctx, admin(), "L-Y")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = svc.Add(ctx, editor("ET"), "W6")
	assert.ErrorIs(t, err, ErrForbidden)

	saved, err := svc.SaveConfig(ctx, admin(), "LY", entity.AirlineConfig{
		RecipientEmail: " groups@ly.example ",
		Currency:       entity.CurrencyILS,
		Reminders:      []entity.CustomReminder{{Label: "Ticketing", DaysBefore: 10, Active: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "LY", saved.AirlineCode)
	assert.Equal(t, "groups@ly.example", saved.RecipientEmail)
	assert.NotEmpty(t, saved.Reminders[0].ID)

	loaded, err := svc.GetConfig(ctx, admin(), "LY")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	_, err = svc.SaveConfig(ctx, admin(), "LY", entity.AirlineConfig{Currency: "JPY"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestAirlineService_ListAndDefaults(t *testing.T) {
	f := newFixture(t)
	svc := NewAirlineService(f.airlines, f.configs, logger.NewNopLogger())
	ctx := context.Background()

	codes, err := svc.List(ctx, viewerOf("UX", "A2"))
	require.NoError(t, err)
	assert.Equal(t, []string{"UX", "A2"}, codes)

	config, err := svc.GetConfig(ctx, viewerOf("A2"), "A2")
	require.NoError(t, err)
	assert.Equal(t, entity.CurrencyEUR, config.Currency)

	_, err = svc.GetConfig(ctx, viewerOf("A2"), "ET")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEmailService(t *testing.T) {
	f := newFixture(t)
	mailer := &mockMailer{}
	svc := NewEmailService(repo.NewKVEmailSettingsRepository(f.store), mailer, logger.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, svc.SaveSettings(ctx, admin(), entity.EmailSettings{GmailAddress: " ops@tago.example ", SenderName: "TAGO"}))
	settings, err := svc.GetSettings(ctx, admin())
	require.NoError(t, err)
	assert.Equal(t, "ops@tago.example", settings.GmailAddress)

	result, err := svc.Test(ctx, admin(), "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Empty(t, mailer.Sent())

	result, err = svc.Test(ctx, admin(), "me@tago.example")
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, mailer.Sent(), 1)
	assert.Equal(t, "me@tago.example", mailer.Sent()[0].To)

	_, err = svc.Test(ctx, editor("ET"), "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.GetSettings(ctx, viewerOf())
	assert.ErrorIs(t, err, ErrForbidden)
}
