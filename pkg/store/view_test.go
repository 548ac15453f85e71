package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewTabAndFilterResetPage(t *testing.T) {
	v := NewView()
	v.SetPage(4)

	assert.True(t, v.SetTab("flashcards"))
	assert.Equal(t, 1, v.Page)

	v.SetPage(3)
	// selecting the already-active tab is a no-op
	assert.False(t, v.SetTab("flashcards"))
	assert.Equal(t, 3, v.Page)

	assert.True(t, v.SetFilter("blocked"))
	assert.Equal(t, 1, v.Page)
	assert.False(t, v.SetFilter("blocked"))
}

func TestViewSetPageClamps(t *testing.T) {
	v := NewView()
	v.SetPage(0)
	assert.Equal(t, 1, v.Page)
	v.SetPage(-2)
	assert.Equal(t, 1, v.Page)
}

func TestViewMatches(t *testing.T) {
	v := NewView()
	assert.True(t, v.Matches("anything"), "empty query matches everything")

	v.SetSearch("EMMA")
	assert.True(t, v.Matches("emma.j@university.edu"))
	assert.True(t, v.Matches("Emma Johnson", "other"))
	assert.False(t, v.Matches("Michael Chen"))
}

func TestApplySearch(t *testing.T) {
	type row struct{ name, email string }
	rows := []row{
		{"Emma Johnson", "emma@uni.edu"},
		{"Michael Chen", "michael@uni.edu"},
	}
	fields := func(r row) []string { return []string{r.name, r.email} }

	v := NewView()
	assert.Len(t, ApplySearch(v, rows, fields), 2)

	v.SetSearch("chen")
	got := ApplySearch(v, rows, fields)
	assert.Len(t, got, 1)
	assert.Equal(t, "Michael Chen", got[0].name)
}
