// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/migration"
	"github.com/taibuivan/worldtravels/internal/platform/postgres"
	"github.com/taibuivan/worldtravels/internal/platform/redis"
	"github.com/taibuivan/worldtravels/internal/platform/sec"
	"github.com/taibuivan/worldtravels/internal/users/auth"
	"github.com/taibuivan/worldtravels/pkg/uuid"
)

const (
	envTestDatabaseURL = "WORLDTRAVELS_TEST_DATABASE_URL"
	envTestRedisURL    = "WORLDTRAVELS_TEST_REDIS_URL"
)

/*
TestPostgresAccountRepository_Lifecycle runs the paired-write contract against
a real database. Skipped unless WORLDTRAVELS_TEST_DATABASE_URL is set.
*/
func TestPostgresAccountRepository_Lifecycle(t *testing.T) {
	dsn := os.Getenv(envTestDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", envTestDatabaseURL)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, migration.RunUp(dsn, "../../../data/migrations", logger))
	pool, err := postgres.NewPool(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repository := auth.NewAccountRepository(pool)

	hash, err := sec.HashPassword("longpass1")
	require.NoError(t, err)

	suffix := uuid.New()
	email := "it-" + suffix + "@example.com"
	account := &auth.Account{ID: uuid.New()}
	profile := &auth.CompanyProfile{
		AccountID:   account.ID,
		Credentials: auth.Credentials{Email: email, PasswordHash: hash},
		Name:        "Integration Tours",
		TaxID:       "it-" + suffix,
	}
	auth.Mirror(account, profile)

	require.NoError(t, repository.Create(ctx, account, profile))
	t.Cleanup(func() { _ = repository.Delete(context.Background(), account.ID) })

	found, err := repository.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
	assert.Equal(t, sec.RoleCompany, found.Role)

	stored, err := repository.FindProfile(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, hash, stored.Credential().PasswordHash)

	// Same email again is rejected by the unique index.
	clone := &auth.Account{ID: uuid.New()}
	cloneProfile := *profile
	cloneProfile.AccountID = clone.ID
	cloneProfile.TaxID = "other-" + suffix
	auth.Mirror(clone, &cloneProfile)
	err = repository.Create(ctx, clone, &cloneProfile)
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateEmail))

	taken, err := repository.EmailTaken(ctx, email, account.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	blocked, err := repository.ToggleBlocked(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	// Updates never write the blocked flag back.
	view, err := repository.Update(ctx, account.ID, func(_ *auth.Account, profile auth.Profile) error {
		profile.(*auth.CompanyProfile).Name = "Integration Tours II"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, view.Account.IsBlocked)
	assert.Equal(t, "Integration Tours II", view.Account.Name)

	found, err = repository.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, found.IsBlocked)
	assert.Equal(t, "Integration Tours II", found.Name)

	require.NoError(t, repository.Delete(ctx, account.ID))
	_, err = repository.FindByID(ctx, account.ID)
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(repository.Delete(ctx, account.ID)))
}

/*
TestRedisStores_Integration exercises the denylist and single-use codes.
Skipped unless WORLDTRAVELS_TEST_REDIS_URL is set.
*/
func TestRedisStores_Integration(t *testing.T) {
	redisURL := os.Getenv(envTestRedisURL)
	if redisURL == "" {
		t.Skipf("%s not set", envTestRedisURL)
	}

	ctx := context.Background()
	client, err := redis.NewClient(ctx, redisURL, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	denylist := auth.NewTokenDenylist(client)
	tokenID := uuid.New()

	require.NoError(t, denylist.Add(ctx, tokenID, time.Minute))
	denied, err := denylist.Contains(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, denied)

	accountID := uuid.New()
	mark := time.Now().Truncate(time.Microsecond)
	require.NoError(t, denylist.RevokeSubject(ctx, accountID, mark, time.Minute))
	before, found, err := denylist.RevokedBefore(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, before.Equal(mark))

	codes := auth.NewVerificationCodeRepository(client)
	require.NoError(t, codes.Set(ctx, accountID, "ABC234", time.Minute))

	consumed, err := codes.Consume(ctx, accountID, "WRONG1")
	require.NoError(t, err)
	assert.False(t, consumed)

	consumed, err = codes.Consume(ctx, accountID, "ABC234")
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = codes.Consume(ctx, accountID, "ABC234")
	require.NoError(t, err)
	assert.False(t, consumed)
}
