package keyboards

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataRoundTrip(t *testing.T) {
	action, index, ok := ParseData(Data(CatalogEditData, 7))
	assert.True(t, ok)
	assert.Equal(t, CatalogEditData, action)
	assert.Equal(t, 7, index)

	action, _, ok = ParseData(MainMenuData)
	assert.False(t, ok)
	assert.Equal(t, MainMenuData, action)

	_, _, ok = ParseData("catalog_edit:x")
	assert.False(t, ok)
}

func TestIndexRowsWrap(t *testing.T) {
	rows := indexRows("❌", RemoveEntryData, 9)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[2], 1)
	assert.Equal(t, "remove_entry:8", *rows[2][0].CallbackData)
}

func TestSessionMenuHidesActionsWhenEmpty(t *testing.T) {
	assert.Len(t, SessionMenu(0).InlineKeyboard, 2)
	assert.Len(t, SessionMenu(2).InlineKeyboard, 5)
}
