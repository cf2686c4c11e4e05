// Package integration provides end-to-end tests of the account, vault and breach flows
// against both PostgreSQL and MySQL databases.
package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/passvault/internal/app"
	authDomain "github.com/allisson/passvault/internal/auth/domain"
	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	"github.com/allisson/passvault/internal/config"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	"github.com/allisson/passvault/internal/testutil"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container *app.Container
	db        *sql.DB
	provider  *httptest.Server
	dbDriver  string
}

// newBreachServer serves a fixed breach corpus in the HIBP v3 format.
func newBreachServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"Name":        "GitHub",
				"Title":       "GitHub",
				"Domain":      "github.com",
				"BreachDate":  "2020-05-01",
				"DataClasses": []string{"Email addresses", "Passwords"},
			},
			{
				"Name":        "Adobe",
				"Title":       "Adobe",
				"Domain":      "adobe.com",
				"BreachDate":  "2013-10-04",
				"DataClasses": []string{"Email addresses"},
			},
		})
	}))
}

// setupIntegrationTest migrates a clean database and builds a container pointed at it.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		testutil.SkipIfNoPostgres(t)
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		testutil.SkipIfNoMySQL(t)
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	provider := newBreachServer(t)

	cfg := &config.Config{
		DBDriver:                dbDriver,
		DBConnectionString:      dsn,
		DBMaxOpenConnections:    10,
		DBMaxIdleConnections:    2,
		DBConnMaxLifetime:       time.Minute,
		LogLevel:                "error",
		MetricsNamespace:        "passvault_integration",
		SessionIdleTimeout:      time.Hour,
		SessionSweepInterval:    time.Minute,
		SessionMaxActive:        100,
		BreachProviderURL:       provider.URL,
		BreachProviderUserAgent: "passvault-integration",
		BreachProviderTimeout:   5 * time.Second,
		BreachSyncInterval:      time.Hour,
		ScoreWeightCompromised:  40,
		ScoreWeightReused:       20,
		ScoreWeightMissing2FA:   8,
		ScoreWeightOldPassword:  5,
		ScoreWeakThreshold:      40,
		ScoreOldPasswordAge:     365 * 24 * time.Hour,
	}

	return &integrationTestContext{
		container: app.NewContainer(cfg),
		db:        db,
		provider:  provider,
		dbDriver:  dbDriver,
	}
}

// teardownIntegrationTest releases the container, the provider and the database.
func teardownIntegrationTest(t *testing.T, ctx *integrationTestContext) {
	t.Helper()

	ctx.provider.Close()
	if err := ctx.container.Shutdown(context.Background()); err != nil {
		t.Logf("container shutdown: %v", err)
	}
	if ctx.dbDriver == "postgres" {
		testutil.CleanupPostgresDB(t, ctx.db)
	} else {
		testutil.CleanupMySQLDB(t, ctx.db)
	}
	testutil.TeardownDB(t, ctx.db)
}

func TestIntegration_Vault_CompleteFlow(t *testing.T) {
	// Skip if short mode (integration tests can be slow)
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, dbDriver := range []string{"postgres", "mysql"} {
		t.Run(dbDriver, func(t *testing.T) {
			itc := setupIntegrationTest(t, dbDriver)
			defer teardownIntegrationTest(t, itc)

			ctx := context.Background()
			email := "alice@example.com"
			password := "correct horse 1"

			accounts, err := itc.container.AccountUseCase()
			require.NoError(t, err)
			credentials, err := itc.container.CredentialUseCase()
			require.NoError(t, err)
			totps, err := itc.container.TotpUseCase()
			require.NoError(t, err)
			scores, err := itc.container.ScoreUseCase()
			require.NoError(t, err)
			breaches, err := itc.container.BreachUseCase()
			require.NoError(t, err)

			// Signup and login unwrap the same vault key
			signup, err := accounts.Signup(ctx, &authDomain.SignupInput{Email: email, MasterPassword: password})
			require.NoError(t, err)
			require.NotEmpty(t, signup.RecoveryKey)

			_, err = accounts.Signup(ctx, &authDomain.SignupInput{Email: email, MasterPassword: password})
			assert.ErrorIs(t, err, authDomain.ErrUserAlreadyExists)

			login, err := accounts.Login(ctx, &authDomain.LoginInput{Email: email, MasterPassword: password})
			require.NoError(t, err)
			assert.Equal(t, signup.VaultKey, login.VaultKey)

			user, err := accounts.Authenticate(ctx, login.SessionToken)
			require.NoError(t, err)
			assert.Equal(t, signup.UserID, user.ID)

			// Identical payloads are flagged as reused
			strength := 85.0
			payload := vaultDomain.Payload{DataEnc: "aabbccdd", DataIV: "00112233445566778899aabb", DataAuthTag: "ffeeddccbbaa99887766554433221100"}
			github, err := credentials.Create(ctx, &vaultDomain.CreateCredentialInput{
				UserID:           signup.UserID,
				Title:            "GitHub",
				Type:             vaultDomain.CredentialTypeLogin,
				Payload:          payload,
				PasswordStrength: &strength,
			})
			require.NoError(t, err)
			assert.False(t, github.PasswordReused)

			gitlab, err := credentials.Create(ctx, &vaultDomain.CreateCredentialInput{
				UserID:           signup.UserID,
				Title:            "GitLab",
				Type:             vaultDomain.CredentialTypeLogin,
				Payload:          payload,
				PasswordStrength: &strength,
			})
			require.NoError(t, err)
			assert.True(t, gitlab.PasswordReused)

			github, err = credentials.Get(ctx, signup.UserID, github.ID)
			require.NoError(t, err)
			assert.True(t, github.PasswordReused)

			// TOTP seeds round-trip under the vault key and mark the credential as 2FA
			envelope, err := cryptoService.NewTotpCipher().Encrypt("JBSWY3DPEHPK3PXP", login.VaultKey)
			require.NoError(t, err)

			_, err = totps.Create(ctx, &vaultDomain.CreateTotpInput{
				UserID:          signup.UserID,
				CredentialID:    github.ID,
				EncryptedSecret: envelope.EncryptedSecret,
				SecretIV:        envelope.IV,
				SecretAuthTag:   envelope.AuthTag,
			})
			require.NoError(t, err)

			seed, err := totps.Reveal(ctx, signup.UserID, github.ID, login.VaultKey)
			require.NoError(t, err)
			assert.Equal(t, "JBSWY3DPEHPK3PXP", seed)

			github, err = credentials.Get(ctx, signup.UserID, github.ID)
			require.NoError(t, err)
			assert.True(t, github.Has2FA)

			// Breach sync is idempotent
			result, err := breaches.CheckUserBreaches(ctx, signup.UserID)
			require.NoError(t, err)
			assert.Equal(t, 1, result.NewBreaches)

			result, err = breaches.CheckUserBreaches(ctx, signup.UserID)
			require.NoError(t, err)
			assert.Equal(t, 0, result.NewBreaches)

			alerts, err := breaches.ListAlerts(ctx, signup.UserID)
			require.NoError(t, err)
			require.Len(t, alerts, 1)
			assert.Equal(t, "GitHub", alerts[0].BreachSource)

			alert, err := breaches.ToggleBreachResolved(ctx, signup.UserID, alerts[0].ID)
			require.NoError(t, err)
			assert.Equal(t, breachDomain.StatusResolved, alert.Status)

			alert, err = breaches.ToggleBreachResolved(ctx, signup.UserID, alerts[0].ID)
			require.NoError(t, err)
			assert.Equal(t, breachDomain.StatusPending, alert.Status)

			// Score reflects reuse and the missing 2FA on the second credential
			score, err := scores.ComputeSecurityScore(ctx, signup.UserID, itc.container.ScoreOptions())
			require.NoError(t, err)
			assert.Equal(t, 2, score.Total)
			assert.Equal(t, 2, score.Reused)
			assert.Equal(t, 1, score.Missing2FA)
			assert.GreaterOrEqual(t, score.Score, 0)
			assert.LessOrEqual(t, score.Score, 100)

			// Password change keeps the vault key
			newPassword := "battery staple 2"
			require.NoError(t, accounts.ChangePassword(ctx, &authDomain.ChangePasswordInput{
				UserID:          signup.UserID,
				CurrentPassword: password,
				NewPassword:     newPassword,
			}))

			_, err = accounts.Login(ctx, &authDomain.LoginInput{Email: email, MasterPassword: password})
			assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)

			login, err = accounts.Login(ctx, &authDomain.LoginInput{Email: email, MasterPassword: newPassword})
			require.NoError(t, err)
			assert.Equal(t, signup.VaultKey, login.VaultKey)

			// Recovery key reset restores access to the same vault key
			reset, err := accounts.ResetPasswordWithRecoveryKey(ctx, &authDomain.ResetPasswordInput{
				Email:       email,
				RecoveryKey: signup.RecoveryKey,
				NewPassword: "recovered pass 3",
			})
			require.NoError(t, err)
			assert.False(t, reset.VaultKeyReset)
			assert.Equal(t, signup.VaultKey, reset.VaultKey)
			assert.NotEqual(t, signup.RecoveryKey, reset.RecoveryKey)

			_, err = accounts.ResetPasswordWithRecoveryKey(ctx, &authDomain.ResetPasswordInput{
				Email:       email,
				RecoveryKey: signup.RecoveryKey,
				NewPassword: "recovered pass 4",
			})
			assert.Error(t, err)
		})
	}
}
