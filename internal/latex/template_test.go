package latex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateSource = "\\documentclass[11pt]{article}\n\\usepackage{hyperref}\n\\begin{document}\nTEMPLATE BODY\n\\end{document}"

func TestLoadTemplate_BacktickWrapped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.ltx")
	require.NoError(t, os.WriteFile(path, []byte("export const tpl = `"+templateSource+"`;\n"), 0o644))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	require.NotNil(t, tpl)
	assert.Equal(t, templateSource, tpl.Source)
}

func TestLoadTemplate_Raw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.ltx")
	require.NoError(t, os.WriteFile(path, []byte(templateSource), 0o644))

	tpl, err := LoadTemplate(path)
	require.NoError(t, err)
	assert.Equal(t, templateSource, tpl.Text())
}

func TestLoadTemplate_Missing(t *testing.T) {
	tpl, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.ltx"))
	require.NoError(t, err)
	assert.Nil(t, tpl)
	assert.Equal(t, "", tpl.Text())

	tpl, err = LoadTemplate("")
	require.NoError(t, err)
	assert.Nil(t, tpl)
}

func TestApplyPreamble(t *testing.T) {
	tpl := ParseTemplate(templateSource)
	generated := "% lead\n\\documentclass{report}\n\\usepackage{fancy}\n\\begin{document}\nBody\n\\end{document}"

	out := tpl.ApplyPreamble(generated)

	assert.Equal(t, "% lead\n\\documentclass[11pt]{article}\n\\usepackage{hyperref}\n\\begin{document}\nBody\n\\end{document}", out)
}

func TestApplyPreamble_NoOps(t *testing.T) {
	tpl := ParseTemplate(templateSource)

	noBegin := "\\documentclass{report}\nBody without begin"
	assert.Equal(t, noBegin, tpl.ApplyPreamble(noBegin))

	reversed := "\\begin{document}\n\\documentclass{report}"
	assert.Equal(t, reversed, tpl.ApplyPreamble(reversed))

	var nilTpl *Template
	generated := "\\documentclass{report}\n\\begin{document}\n"
	assert.Equal(t, generated, nilTpl.ApplyPreamble(generated))

	noPreamble := ParseTemplate("just text")
	assert.Equal(t, generated, noPreamble.ApplyPreamble(generated))
}
