package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	blank := "   "
	repo := " https://github.com/acme/ledger "
	p := Project{
		Title:        " Ledger ",
		Features:     []string{"Double entry", "", " Audit trail "},
		Technologies: []string{"Go", " "},
		ImageURL:     &blank,
		GithubURL:    &repo,
	}

	p.Normalize()

	assert.Equal(t, "Ledger", p.Title)
	assert.Equal(t, []string{"Double entry", "Audit trail"}, p.Features)
	assert.Equal(t, []string{"Go"}, p.Technologies)
	assert.Nil(t, p.ImageURL)
	assert.Nil(t, p.LiveURL)
	if assert.NotNil(t, p.GithubURL) {
		assert.Equal(t, "https://github.com/acme/ledger", *p.GithubURL)
	}
	assert.NoError(t, p.Validate())
}

func TestValidateRequiresTitle(t *testing.T) {
	p := Project{Title: ""}
	assert.Error(t, p.Validate())
}
