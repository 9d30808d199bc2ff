package categories

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

var fixedNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestValidateName(t *testing.T) {
	require.Error(t, ValidateName(""))
	require.Error(t, ValidateName("  "))
	require.Error(t, ValidateName(strings.Repeat("가", 21)))
	require.NoError(t, ValidateName(strings.Repeat("가", 20)))

	err := ValidateName("")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNewCustomCategoryDefaults(t *testing.T) {
	cat, err := NewCustomCategory(CreateCategoryInput{
		LedgerID: "ledger-1",
		Name:     "  반려동물 ",
		Type:     enums.EntryTypeExpense,
	}, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "반려동물", cat.Name)
	assert.Equal(t, DefaultColor, cat.Color)
	assert.Equal(t, DefaultIcon, cat.Icon)
	assert.Equal(t, DefaultSortOrder, cat.SortOrder)
	assert.False(t, cat.IsTemplate)
	assert.True(t, cat.IsActive)
	assert.Nil(t, cat.TemplateID)
	assert.Equal(t, fixedNow, cat.CreatedAt)
}

func TestNewCustomCategoryValidation(t *testing.T) {
	_, err := NewCustomCategory(CreateCategoryInput{Name: "x", Type: "transfer"}, fixedNow)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = NewCustomCategory(CreateCategoryInput{Name: "x", Type: enums.EntryTypeIncome, Color: strPtr("red")}, fixedNow)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = NewCustomCategory(CreateCategoryInput{Name: "x", Type: enums.EntryTypeIncome, Icon: strPtr(" ")}, fixedNow)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	cat, err := NewCustomCategory(CreateCategoryInput{
		Name:      "보너스",
		Type:      enums.EntryTypeIncome,
		Color:     strPtr("#10b981"),
		Icon:      strPtr("gift"),
		SortOrder: intPtr(3),
	}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "#10b981", cat.Color)
	assert.Equal(t, "gift", cat.Icon)
	assert.Equal(t, 3, cat.SortOrder)
}

func TestFromTemplate(t *testing.T) {
	tpl := models.CategoryTemplate{ID: "tpl-expense-food", Name: "식비", Type: enums.EntryTypeExpense, Color: "#EF4444", Icon: "restaurant", SortOrder: 1}
	cat := FromTemplate("ledger-1", tpl, fixedNow)

	assert.Equal(t, "ledger-1", cat.LedgerID)
	assert.Equal(t, "식비", cat.Name)
	assert.True(t, cat.IsTemplate)
	assert.True(t, cat.IsActive)
	require.NotNil(t, cat.TemplateID)
	assert.Equal(t, "tpl-expense-food", *cat.TemplateID)
}

func TestApplyUpdate(t *testing.T) {
	custom := models.Category{ID: "c1", Name: "old", Color: DefaultColor, Icon: DefaultIcon, IsActive: true}
	updated, err := ApplyUpdate(custom, UpdateCategoryInput{Name: strPtr(" new "), SortOrder: intPtr(2)}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Name)
	assert.Equal(t, 2, updated.SortOrder)
	assert.Equal(t, "old", custom.Name)

	template := models.Category{ID: "c2", Name: "식비", IsTemplate: true, IsActive: true}
	_, err = ApplyUpdate(template, UpdateCategoryInput{Name: strPtr("밥")}, fixedNow)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))

	reordered, err := ApplyUpdate(template, UpdateCategoryInput{SortOrder: intPtr(7)}, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 7, reordered.SortOrder)

	inactive := models.Category{ID: "c3", Name: "gone"}
	_, err = ApplyUpdate(inactive, UpdateCategoryInput{SortOrder: intPtr(1)}, fixedNow)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeBusinessRule))
}
