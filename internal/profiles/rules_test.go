package profiles

import (
	"strings"
	"testing"
	"time"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestValidateNickname(t *testing.T) {
	valid := []string{"ab", strings.Repeat("a", 20), "김 철수", "Kim 2"}
	for _, nickname := range valid {
		assert.NoError(t, ValidateNickname(nickname), nickname)
	}

	invalid := map[string]string{
		"":                      "닉네임을 입력해주세요",
		"a":                     "닉네임은 2자 이상이어야 합니다",
		strings.Repeat("a", 21): "닉네임은 20자 이하여야 합니다",
		"a#b":                   "닉네임은 한글, 영문, 숫자, 공백만 사용할 수 있습니다",
		"a  b":                  "연속된 공백은 사용할 수 없습니다",
	}
	for nickname, message := range invalid {
		err := ValidateNickname(nickname)
		require.Error(t, err, nickname)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeBusinessRule, typed.Code())
		assert.Equal(t, message, typed.Message())
	}
}

func TestValidateCurrencyAndTimezone(t *testing.T) {
	assert.NoError(t, ValidateCurrency(enums.CurrencyJPY))
	assert.Error(t, ValidateCurrency("GBP"))

	for _, tz := range SupportedTimezones() {
		assert.NoError(t, ValidateTimezone(tz))
	}
	assert.Error(t, ValidateTimezone("Asia/Shanghai"))
}

func TestValidateAvatarURL(t *testing.T) {
	assert.NoError(t, ValidateAvatarURL(nil))
	assert.NoError(t, ValidateAvatarURL(strPtr("https://lh3.googleusercontent.com/a/photo.png")))
	assert.NoError(t, ValidateAvatarURL(strPtr("https://abc.supabase.co/storage/v1/object/avatar.jpg")))
	assert.NoError(t, ValidateAvatarURL(strPtr("https://gravatar.com/avatar/1")))

	for _, raw := range []string{
		"not a url",
		"ftp://gravatar.com/a.png",
		"https://example.com/a.png",
		"https://evil.com/?next=supabase.co",
		"https://supabase.co.evil.com/a.png",
	} {
		err := ValidateAvatarURL(strPtr(raw))
		require.Error(t, err, raw)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), raw)
	}
}

func TestCanDeleteAccount(t *testing.T) {
	_, err := CanDeleteAccount("user-1", 1, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))

	check, err := CanDeleteAccount("user-1", 0, 2)
	require.NoError(t, err)
	assert.True(t, check.CanDelete)
	assert.Equal(t, 2, check.SharedLedgerCount)
	assert.NotEmpty(t, check.Warning)

	check, err = CanDeleteAccount("user-1", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, check.Warning)
}

func TestValidateConfirmation(t *testing.T) {
	assert.NoError(t, ValidateConfirmation(nil))
	assert.NoError(t, ValidateConfirmation(strPtr(DeleteConfirmationPhrase)))
	assert.Error(t, ValidateConfirmation(strPtr("delete")))
}

func TestApplyUpdate(t *testing.T) {
	now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	avatar := "https://gravatar.com/avatar/1"
	existing := models.Profile{ID: "u1", Currency: enums.CurrencyKRW, Timezone: DefaultTimezone, AvatarURL: &avatar}

	usd := enums.CurrencyUSD
	updated, err := ApplyUpdate(existing, UpdateProfileInput{
		FullName:  strPtr(" 홍길동 "),
		AvatarURL: strPtr(""),
		Currency:  &usd,
		Timezone:  strPtr("America/New_York"),
	}, now)
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, "홍길동", *updated.FullName)
	assert.Nil(t, updated.AvatarURL)
	assert.Equal(t, enums.CurrencyUSD, updated.Currency)
	assert.Equal(t, "America/New_York", updated.Timezone)
	assert.Equal(t, now, updated.UpdatedAt)

	_, err = ApplyUpdate(existing, UpdateProfileInput{Timezone: strPtr("Mars/Base")}, now)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ApplyUpdate(existing, UpdateProfileInput{FullName: strPtr("a")}, now)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))
}
