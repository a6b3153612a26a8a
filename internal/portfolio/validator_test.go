package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerpilot/internal/types"
)

const validApp = `import React from 'react'
import { Github, Mail } from 'lucide-react'

function App() {
  return (
    <div className="min-h-screen bg-white">
      <Github />
      <Mail />
    </div>
  )
}

export default App
`

func validFileSet() []types.GeneratedFile {
	return []types.GeneratedFile{
		{Filename: "package.json", Filepath: "package.json", Content: `{"name": "portfolio"}`, ComponentType: "config"},
		{Filename: "index.html", Filepath: "index.html", Content: `<!doctype html><div id="root"></div>`, ComponentType: "page"},
		{Filename: "App.jsx", Filepath: "src/App.jsx", Content: validApp, ComponentType: "component"},
	}
}

func TestStaticValidatePasses(t *testing.T) {
	report := staticValidate(validFileSet())

	assert.True(t, report.Valid)
	assert.Empty(t, report.Errors)
}

func TestStaticValidateMissingRequiredFile(t *testing.T) {
	files := validFileSet()[1:] // drop package.json

	report := staticValidate(files)
	require.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "package.json", report.Errors[0].File)
	assert.Equal(t, "missing-file", report.Errors[0].Rule)
}

func TestStaticValidateEmptyFile(t *testing.T) {
	files := append(validFileSet(), types.GeneratedFile{
		Filename: "Hero.jsx", Filepath: "src/components/Hero.jsx", Content: "   \n",
	})

	report := staticValidate(files)
	require.False(t, report.Valid)
	assert.Equal(t, "empty-file", report.Errors[0].Rule)
}

func TestStaticValidateMissingExport(t *testing.T) {
	files := validFileSet()
	files[2].Content = `function App() { return (<div>hello</div>) }`

	report := staticValidate(files)
	require.False(t, report.Valid)
	found := false
	for _, issue := range report.Errors {
		if issue.Rule == "missing-export" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStaticValidateUnbalancedBraces(t *testing.T) {
	files := append(validFileSet(), types.GeneratedFile{
		Filename: "Nav.jsx",
		Filepath: "src/components/Nav.jsx",
		Content:  "export default function Nav() { return (<nav></nav>)\n", // missing closing brace
	})

	report := staticValidate(files)
	require.False(t, report.Valid)
	found := false
	for _, issue := range report.Errors {
		if issue.Rule == "unbalanced-delimiters" && issue.File == "src/components/Nav.jsx" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStaticValidateWarnsOnEmptyClassName(t *testing.T) {
	files := validFileSet()
	files[2].Content = "export default function App() { return (<div className=\"\">x</div>) }\n"

	report := staticValidate(files)
	assert.True(t, report.Valid, "style lints must not block assembly")
	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, "tailwind", report.Warnings[0].Rule)
}

func TestStaticValidateWarnsOnMissingIconImport(t *testing.T) {
	files := validFileSet()
	files[2].Content = "export default function App() { return (<Github />) }\n"

	report := staticValidate(files)
	assert.True(t, report.Valid)
	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, "missing-import", report.Warnings[0].Rule)
	assert.Contains(t, report.Warnings[0].Message, "Github")
}

func TestImportedNames(t *testing.T) {
	names := importedNames("import React from 'react'\nimport { Github, Mail } from 'lucide-react'\n")

	assert.Contains(t, names, "React")
	assert.Contains(t, names, "Github")
	assert.Contains(t, names, "Mail")
}
