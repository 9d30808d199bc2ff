package profiles

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bugie-app/bugie-backend/pkg/db/models"
	"github.com/bugie-app/bugie-backend/pkg/enums"
	pkgerrors "github.com/bugie-app/bugie-backend/pkg/errors"
)

const (
	MinNicknameLength = 2
	MaxNicknameLength = 20
	DefaultTimezone   = "Asia/Seoul"

	// DeleteConfirmationPhrase must be typed verbatim when a confirmation is sent.
	DeleteConfirmationPhrase = "계정을 삭제합니다"
)

var (
	nicknamePattern      = regexp.MustCompile(`^[가-힣a-zA-Z0-9\s]+$`)
	consecutiveSpaces    = regexp.MustCompile(`\s{2,}`)
	supportedTimezones   = []string{"Asia/Seoul", "Asia/Tokyo", "America/New_York", "America/Los_Angeles", "Europe/London", "Europe/Paris"}
	allowedAvatarDomains = []string{"supabase.co", "googleusercontent.com", "kakaocdn.net", "gravatar.com", "githubusercontent.com"}
)

// UpdateProfileInput carries optional profile changes. An empty AvatarURL clears it.
type UpdateProfileInput struct {
	FullName  *string         `json:"full_name,omitempty"`
	AvatarURL *string         `json:"avatar_url,omitempty"`
	Currency  *enums.Currency `json:"currency,omitempty"`
	Timezone  *string         `json:"timezone,omitempty"`
}

// DeleteAccountCheck is the outcome of CanDeleteAccount.
type DeleteAccountCheck struct {
	CanDelete         bool   `json:"can_delete"`
	SharedLedgerCount int    `json:"shared_ledger_count"`
	Warning           string `json:"warning,omitempty"`
}

// SupportedTimezones lists the selectable timezones.
func SupportedTimezones() []string {
	return append([]string(nil), supportedTimezones...)
}

// ValidateNickname enforces length and character rules on a display name.
func ValidateNickname(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	length := utf8.RuneCountInString(trimmed)
	switch {
	case trimmed == "":
		return pkgerrors.BusinessRule("닉네임을 입력해주세요")
	case length < MinNicknameLength:
		return pkgerrors.BusinessRule("닉네임은 2자 이상이어야 합니다")
	case length > MaxNicknameLength:
		return pkgerrors.BusinessRule("닉네임은 20자 이하여야 합니다")
	case !nicknamePattern.MatchString(trimmed):
		return pkgerrors.BusinessRule("닉네임은 한글, 영문, 숫자, 공백만 사용할 수 있습니다")
	case consecutiveSpaces.MatchString(trimmed):
		return pkgerrors.BusinessRule("연속된 공백은 사용할 수 없습니다")
	}
	return nil
}

// ValidateCurrency accepts the supported currency codes.
func ValidateCurrency(code enums.Currency) error {
	if !code.IsValid() {
		return pkgerrors.Validation("지원하지 않는 통화입니다")
	}
	return nil
}

// ValidateTimezone accepts the supported IANA zones.
func ValidateTimezone(tz string) error {
	for _, candidate := range supportedTimezones {
		if candidate == tz {
			return nil
		}
	}
	return pkgerrors.Validation("지원하지 않는 시간대입니다")
}

// ValidateAvatarURL accepts nil or an http(s) URL on an allowlisted image host.
func ValidateAvatarURL(raw *string) error {
	if raw == nil {
		return nil
	}
	parsed, err := url.Parse(strings.TrimSpace(*raw))
	if err != nil || parsed.Hostname() == "" || (parsed.Scheme != "https" && parsed.Scheme != "http") {
		return pkgerrors.Validation("올바른 이미지 URL이 아닙니다")
	}
	host := strings.ToLower(parsed.Hostname())
	for _, domain := range allowedAvatarDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return nil
		}
	}
	return pkgerrors.Validation("허용되지 않은 이미지 호스트입니다")
}

// ValidateConfirmation checks an optional confirmation phrase.
func ValidateConfirmation(phrase *string) error {
	if phrase == nil {
		return nil
	}
	if strings.TrimSpace(*phrase) != DeleteConfirmationPhrase {
		return pkgerrors.Validation(fmt.Sprintf("확인 문구 '%s'를 정확히 입력해주세요", DeleteConfirmationPhrase))
	}
	return nil
}

// CanDeleteAccount blocks deletion while the user owns a ledger other members
// still use. Shared ledgers only produce a warning.
func CanDeleteAccount(userID string, ownedLedgersWithOtherMembers, sharedLedgerCount int) (*DeleteAccountCheck, error) {
	if userID == "" {
		return nil, pkgerrors.Validation("사용자 정보가 없습니다")
	}
	if ownedLedgersWithOtherMembers > 0 {
		return nil, pkgerrors.BusinessRule(fmt.Sprintf(
			"다른 멤버가 있는 가계부 %d개를 소유하고 있습니다. 멤버를 내보내거나 가계부를 삭제한 후 다시 시도해주세요",
			ownedLedgersWithOtherMembers,
		))
	}
	check := &DeleteAccountCheck{CanDelete: true, SharedLedgerCount: sharedLedgerCount}
	if sharedLedgerCount > 0 {
		check.Warning = fmt.Sprintf("공유 가계부 %d개에서 자동으로 나가게 됩니다", sharedLedgerCount)
	}
	return check, nil
}

// ApplyUpdate validates every provided field and merges it into a copy of existing.
func ApplyUpdate(existing models.Profile, in UpdateProfileInput, now time.Time) (*models.Profile, error) {
	if existing.IsDeleted {
		return nil, pkgerrors.NotFound("프로필을 찾을 수 없습니다")
	}
	if in.FullName != nil {
		if err := ValidateNickname(*in.FullName); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*in.FullName)
		existing.FullName = &name
	}
	if in.AvatarURL != nil {
		if strings.TrimSpace(*in.AvatarURL) == "" {
			existing.AvatarURL = nil
		} else {
			if err := ValidateAvatarURL(in.AvatarURL); err != nil {
				return nil, err
			}
			avatar := strings.TrimSpace(*in.AvatarURL)
			existing.AvatarURL = &avatar
		}
	}
	if in.Currency != nil {
		if err := ValidateCurrency(*in.Currency); err != nil {
			return nil, err
		}
		existing.Currency = *in.Currency
	}
	if in.Timezone != nil {
		if err := ValidateTimezone(*in.Timezone); err != nil {
			return nil, err
		}
		existing.Timezone = *in.Timezone
	}
	existing.UpdatedAt = now.UTC()
	return &existing, nil
}
