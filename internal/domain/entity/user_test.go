package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name  string
		xp    int64
		level int
	}{
		{"нулевой опыт — первый уровень", 0, 1},
		{"до порога остаёмся на первом", 99, 1},
		{"ровно порог — второй уровень", 100, 2},
		{"середина третьего уровня", 250, 3},
		{"отрицательный опыт не ломает расчёт", -10, 1},
		{"большие значения", 10_000, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.level, LevelForXP(tt.xp))
		})
	}
}

func TestBeforeSave_HashesPlainPassword(t *testing.T) {
	user := &User{Email: "test@example.com", Password: "plain-password"}

	err := user.BeforeSave(nil)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "пароль должен стать bcrypt-хешем")
	assert.True(t, user.CheckPassword("plain-password"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestBeforeSave_DoesNotRehash(t *testing.T) {
	user := &User{Email: "test@example.com", Password: "plain-password"}
	require.NoError(t, user.BeforeSave(nil))
	firstHash := user.Password

	// Повторное сохранение не должно перехешировать уже захешированный пароль
	require.NoError(t, user.BeforeSave(nil))

	assert.Equal(t, firstHash, user.Password)
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.False(t, (&User{}).IsAdmin())
}
