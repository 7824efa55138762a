package opentype

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/text/language"
)

func TestLoadFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Go-Regular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	otf, err := LoadFont(path, 0)
	require.NoError(t, err)
	family, subfamily := FamilyName(otf)
	assert.Equal(t, "Go", family)
	assert.Equal(t, "Regular", subfamily)
	//
	_, err = LoadFont(path, 2)
	assert.ErrorIs(t, err, ot.ErrOutOfRange)
}

func TestFromBinary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	otf, err := FromBinary(goregular.TTF)
	require.NoError(t, err)
	assert.NotNil(t, otf.Head)
	_, err = FromBinary([]byte{0, 1, 0, 0})
	assert.Error(t, err)
	family, subfamily := FamilyName(nil)
	assert.Empty(t, family)
	assert.Empty(t, subfamily)
}

func TestScriptTag(t *testing.T) {
	assert.Equal(t, ot.T("latn"), ScriptTag(language.MustParseScript("Latn")))
	assert.Equal(t, ot.T("cyrl"), ScriptTag(language.MustParseScript("Cyrl")))
	assert.Equal(t, ot.T("kana"), ScriptTag(language.MustParseScript("Hira")))
	assert.Equal(t, ot.T("lao "), ScriptTag(language.MustParseScript("Laoo")))
	assert.Equal(t, ot.DFLT, ScriptTag(language.MustParseScript("Zyyy")))
}

func TestSupportsScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	otf, err := FromBinary(goregular.TTF)
	require.NoError(t, err)
	scr, lang := SupportsScript(otf, language.MustParseScript("Cher"), language.German)
	assert.Equal(t, ot.DFLT, scr)
	assert.Equal(t, ot.DFLT, lang)
}
