package goquery_test

import (
	"testing"

	"github.com/pagetab/pagetab"
	"github.com/pagetab/pagetab/flatten"
	pagegoquery "github.com/pagetab/pagetab/goquery"
	pagehtml "github.com/pagetab/pagetab/html"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reselectMarkup = `<html><body>
<div id="main" class="wrap">
	<p class="intro">hello</p>
	<p>plain one</p>
	<p>plain two</p>
</div>
</body></html>`

func TestReselect(t *testing.T) {
	t.Parallel()

	t.Run("unique path matches exactly once", func(t *testing.T) {
		t.Parallel()

		n, err := pagegoquery.Reselect(reselectMarkup, "html > body > div#main > p.intro")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("ambiguous path matches every candidate", func(t *testing.T) {
		t.Parallel()

		n, err := pagegoquery.Reselect(reselectMarkup, "html > body > div#main > p")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("empty selector is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := pagegoquery.Reselect(reselectMarkup, "")
		assert.Equal(t, pagetab.EINVALID, pagetab.ErrorCode(err))
	})
}

func TestReselect_RoundTripsFlattenedPaths(t *testing.T) {
	t.Parallel()

	// Every CSSPath produced by the flattener must select at least its own
	// element when fed back into a selector engine.
	doc, err := pagehtml.NewParser().Parse(reselectMarkup)
	require.NoError(t, err)
	records, err := flatten.Flatten(doc, "")
	require.NoError(t, err)

	for _, r := range records {
		n, err := pagegoquery.Reselect(reselectMarkup, r.CSSPath)
		require.NoError(t, err, "path %q", r.CSSPath)
		assert.GreaterOrEqual(t, n, 1, "path %q selected nothing", r.CSSPath)
	}
}

func TestUniqueID(t *testing.T) {
	t.Parallel()

	t.Run("unique id", func(t *testing.T) {
		t.Parallel()

		unique, err := pagegoquery.UniqueID(reselectMarkup, "main")
		require.NoError(t, err)
		assert.True(t, unique)
	})

	t.Run("duplicate id violates the uniqueness assumption", func(t *testing.T) {
		t.Parallel()

		markup := `<html><body><div id="dup"></div><span id="dup"></span></body></html>`
		unique, err := pagegoquery.UniqueID(markup, "dup")
		require.NoError(t, err)
		assert.False(t, unique)
	})

	t.Run("absent id", func(t *testing.T) {
		t.Parallel()

		unique, err := pagegoquery.UniqueID(reselectMarkup, "missing")
		require.NoError(t, err)
		assert.False(t, unique)
	})
}

func TestAmbiguousPaths(t *testing.T) {
	t.Parallel()

	doc, err := pagehtml.NewParser().Parse(reselectMarkup)
	require.NoError(t, err)
	records, err := flatten.Flatten(doc, "")
	require.NoError(t, err)

	ambiguous, err := pagegoquery.AmbiguousPaths(reselectMarkup, records)
	require.NoError(t, err)

	// The two unclassed <p> siblings share a path; everything else is unique.
	assert.Equal(t, []string{"html > body > div#main > p"}, ambiguous)
}
