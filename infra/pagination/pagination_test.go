package pagination_test

import (
	"testing"

	"deskwise.io/infra/assert"
	"deskwise.io/infra/pagination"
)

func TestApplyOptionsDefaults(t *testing.T) {
	p, err := pagination.ApplyOptions()
	assert.NoErr(t, err)
	assert.Equal(t, p.GetPage(), 1)
	assert.Equal(t, p.GetPerPage(), pagination.DefaultPerPage)
	assert.Equal(t, p.GetMaxPages(), pagination.DefaultMaxPages)
}

func TestApplyOptionsOverrides(t *testing.T) {
	p, err := pagination.ApplyOptions(pagination.Page(3), pagination.PerPage(50), pagination.MaxPages(10))
	assert.NoErr(t, err)
	assert.Equal(t, p.GetPage(), 3)
	assert.Equal(t, p.GetPerPage(), 50)
	assert.Equal(t, p.GetMaxPages(), 10)
}

func TestApplyOptionsValidation(t *testing.T) {
	_, err := pagination.ApplyOptions(pagination.Page(0))
	assert.NotNil(t, err)

	_, err = pagination.ApplyOptions(pagination.PerPage(-1))
	assert.NotNil(t, err)

	_, err = pagination.ApplyOptions(pagination.PerPage(pagination.MaxPerPage + 1))
	assert.NotNil(t, err)

	_, err = pagination.ApplyOptions(pagination.MaxPages(-5))
	assert.NotNil(t, err)
}

func TestAdvancePageCeiling(t *testing.T) {
	p, err := pagination.ApplyOptions(pagination.MaxPages(3))
	assert.NoErr(t, err)

	assert.True(t, p.AdvancePage())
	assert.Equal(t, p.GetPage(), 2)
	assert.True(t, p.AdvancePage())
	assert.False(t, p.AdvancePage(), assert.Errorf("page 4 is past the ceiling"))
}

func TestQueryEncoding(t *testing.T) {
	p, err := pagination.ApplyOptions(pagination.Page(2), pagination.PerPage(30))
	assert.NoErr(t, err)

	q := p.Query()
	assert.Equal(t, q.Get("page"), "2")
	assert.Equal(t, q.Get("per_page"), "30")
}
