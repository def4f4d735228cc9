package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	tests := []struct {
		name, in, user, pass, want string
	}{
		{"native passthrough", "u:p@tcp(db:3306)/warbler", "", "", "u:p@tcp(db:3306)/warbler"},
		{"url with defaults", "mysql://u:p@db:3306/warbler", "", "", "u:p@tcp(db:3306)/warbler?charset=utf8mb4&parseTime=true"},
		{"jdbc with overrides", "jdbc:mysql://db:3306/warbler?useSSL=false", "root", "pw", "root:pw@tcp(db:3306)/warbler?charset=utf8mb4&parseTime=true&tls=false"},
		{"empty", "  ", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeMySQLDSN(tt.in, tt.user, tt.pass))
		})
	}
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "u:****@tcp(db)/x", maskDSN("u:secret@tcp(db)/x"))
	assert.Equal(t, "nocreds", maskDSN("nocreds"))
}

func TestNewGorm_Sqlite(t *testing.T) {
	db, err := NewGorm(Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}
