package config

import (
	"errors"
	"testing"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/password"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("UPLOAD_BACKEND", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, "local", cfg.Upload.Backend)
	assert.Equal(t, int64(10485760), cfg.Upload.MaxFileSize)
	assert.Equal(t, 15, cfg.JWT.AccessTokenMins)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Mail.Enabled())
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_ModePrefixes(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PROD_DB_HOST", "db.internal")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_IDEMPOTENCY_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 90*time.Minute, cfg.Redis.IdempotencyTTL)
}

func TestLoad_RejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"app mode":         {"APP_MODE": "staging"},
		"db driver":        {"APP_MODE": "dev", "DB_DRIVER": "oracle"},
		"upload backend":   {"APP_MODE": "dev", "UPLOAD_BACKEND": "s3"},
		"cloudinary creds": {"APP_MODE": "dev", "UPLOAD_BACKEND": "cloudinary", "CLOUDINARY_CLOUD_NAME": ""},
		"upload size":      {"APP_MODE": "dev", "UPLOAD_MAX_FILE_SIZE": "-1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestBuildDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "1", DBName: "db", SSLMode: "disable"}
	assert.Equal(t, "u:p@tcp(h:1)/db?charset=utf8mb4&parseTime=True&loc=UTC", buildMySQLDSN(d))
	assert.Equal(t, "host=h port=1 user=u password=p dbname=db sslmode=disable TimeZone=UTC", buildPostgresDSN(d))

	_, err := buildDialector(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpenWithDialector_Success(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()

	dial := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	gdb, err := OpenWithDialector(dial, nil)
	require.NoError(t, err)
	assert.NotNil(t, gdb)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenWithDialector_PingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("no ping"))

	dial := mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	})

	_, err = OpenWithDialector(dial, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func openSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestSeeder_CreatesAdminAndCatalogOnce(t *testing.T) {
	password.Cost = bcrypt.MinCost
	t.Cleanup(func() { password.Cost = password.DefaultCost })

	db := openSeedDB(t)
	seeder := NewSeeder(db, SeedConfig{AdminEmail: "Admin@Example.com", AdminPassword: "s3cret-pass", AdminName: "Admin"})

	require.NoError(t, seeder.Run())
	require.NoError(t, seeder.Run())

	var admins []models.User
	require.NoError(t, db.Where("role = ?", domain.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.True(t, password.Verify("s3cret-pass", admins[0].Password))

	var products int64
	require.NoError(t, db.Model(&models.LoanProduct{}).Count(&products).Error)
	assert.Equal(t, int64(4), products)
}

func TestSeeder_SkipsAdminWithoutCredentials(t *testing.T) {
	db := openSeedDB(t)
	require.NoError(t, NewSeeder(db, SeedConfig{}).Run())

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}
