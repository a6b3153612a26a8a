package portfolio

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"careerpilot/internal/errors"
	"careerpilot/internal/types"
)

// Assembler writes a generated file set to disk and zips it for download
type Assembler struct {
	outputDir string
	logger    *errors.Logger
}

func NewAssembler(outputDir string, logger *errors.Logger) *Assembler {
	return &Assembler{outputDir: outputDir, logger: logger}
}

// ProjectPath returns the on-disk directory for a project id
func (a *Assembler) ProjectPath(projectID string) string {
	return filepath.Join(a.outputDir, projectID)
}

// ZipPath returns the on-disk archive path for a project id
func (a *Assembler) ZipPath(projectID string) string {
	return filepath.Join(a.outputDir, projectID+".zip")
}

// Assemble completes the file set with scaffolding, writes the project tree
// and creates the download archive. It returns the project and zip paths.
func (a *Assembler) Assemble(projectID string, files []types.GeneratedFile, resume types.ResumeData, plan types.SitePlan) (string, string, error) {
	files = withScaffolding(files, resume, plan)

	projectPath := a.ProjectPath(projectID)
	if err := os.MkdirAll(projectPath, 0750); err != nil {
		return "", "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot create project directory %s", projectPath), err)
	}

	for _, file := range files {
		relPath, err := safeRelPath(file.Filepath, file.Filename)
		if err != nil {
			return "", "", err
		}
		fullPath := filepath.Join(projectPath, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
			return "", "", errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot create directory for %s", relPath), err)
		}
		if err := os.WriteFile(fullPath, []byte(file.Content), 0640); err != nil {
			return "", "", errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot write %s", relPath), err)
		}
	}

	zipPath := a.ZipPath(projectID)
	if err := writeZip(zipPath, projectID, files); err != nil {
		return "", "", err
	}

	a.logger.Info("Portfolio assembled",
		"project_id", projectID,
		"files", len(files),
		"output", projectPath,
		"zip", zipPath)
	return projectPath, zipPath, nil
}

// Cleanup removes a project's directory and archive
func (a *Assembler) Cleanup(projectID string) error {
	if err := os.RemoveAll(a.ProjectPath(projectID)); err != nil {
		return err
	}
	if err := os.Remove(a.ZipPath(projectID)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// safeRelPath keeps generated paths inside the project directory
func safeRelPath(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	cleaned := filepath.Clean(filepath.FromSlash(path))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("generated file path %q escapes the project directory", path), nil)
	}
	return cleaned, nil
}

func writeZip(zipPath, projectID string, files []types.GeneratedFile) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot create archive %s", zipPath), err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	for _, file := range files {
		relPath, err := safeRelPath(file.Filepath, file.Filename)
		if err != nil {
			return err
		}
		entry, err := writer.Create(projectID + "/" + filepath.ToSlash(relPath))
		if err != nil {
			return errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot add %s to archive", relPath), err)
		}
		if _, err := entry.Write([]byte(file.Content)); err != nil {
			return errors.NewIOError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("cannot write %s to archive", relPath), err)
		}
	}
	if err := writer.Close(); err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "cannot finalize archive", err)
	}
	return nil
}

// withScaffolding fills in any project files the code generator did not
// emit: build configs, entry points, README and .gitignore.
func withScaffolding(files []types.GeneratedFile, resume types.ResumeData, plan types.SitePlan) []types.GeneratedFile {
	present := make(map[string]struct{}, len(files))
	for _, file := range files {
		present[file.Filepath] = struct{}{}
	}

	add := func(path, content, componentType string) {
		if _, ok := present[path]; ok {
			return
		}
		files = append(files, types.GeneratedFile{
			Filename:      filepath.Base(path),
			Filepath:      path,
			Content:       content,
			ComponentType: componentType,
		})
		present[path] = struct{}{}
	}

	add("package.json", packageJSON(resume), "config")
	add("vite.config.js", viteConfig, "config")
	add("tailwind.config.js", tailwindConfig, "config")
	add("postcss.config.js", postcssConfig, "config")
	add("index.html", indexHTML(resume), "page")
	add("src/main.jsx", mainJSX, "component")
	add("src/index.css", indexCSS, "style")
	add("README.md", readme(resume, plan), "other")
	add(".gitignore", gitignore, "config")
	return files
}

func packageJSON(resume types.ResumeData) string {
	name := "portfolio"
	if resume.Name != "" {
		name = strings.ToLower(strings.ReplaceAll(resume.Name, " ", "-")) + "-portfolio"
	}
	return fmt.Sprintf(`{
  "name": %q,
  "private": true,
  "version": "1.0.0",
  "type": "module",
  "scripts": {
    "dev": "vite",
    "build": "vite build",
    "preview": "vite preview"
  },
  "dependencies": {
    "lucide-react": "^0.462.0",
    "react": "^18.3.1",
    "react-dom": "^18.3.1"
  },
  "devDependencies": {
    "@vitejs/plugin-react": "^4.3.4",
    "autoprefixer": "^10.4.20",
    "postcss": "^8.4.49",
    "tailwindcss": "^3.4.15",
    "vite": "^6.0.1"
  }
}
`, name)
}

const viteConfig = `import { defineConfig } from 'vite'
import react from '@vitejs/plugin-react'

export default defineConfig({
  plugins: [react()],
})
`

const tailwindConfig = `/** @type {import('tailwindcss').Config} */
export default {
  content: ['./index.html', './src/**/*.{js,jsx,ts,tsx}'],
  theme: {
    extend: {},
  },
  plugins: [],
}
`

const postcssConfig = `export default {
  plugins: {
    tailwindcss: {},
    autoprefixer: {},
  },
}
`

func indexHTML(resume types.ResumeData) string {
	title := "Portfolio"
	if resume.Name != "" {
		title = resume.Name + " | Portfolio"
	}
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>%s</title>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.jsx"></script>
  </body>
</html>
`, title)
}

const mainJSX = `import React from 'react'
import ReactDOM from 'react-dom/client'
import App from './App.jsx'
import './index.css'

ReactDOM.createRoot(document.getElementById('root')).render(
  <React.StrictMode>
    <App />
  </React.StrictMode>,
)
`

const indexCSS = `@tailwind base;
@tailwind components;
@tailwind utilities;
`

func readme(resume types.ResumeData, plan types.SitePlan) string {
	name := resume.Name
	if name == "" {
		name = "Developer"
	}
	stack := plan.TechStack
	if len(stack) == 0 {
		stack = []string{"react", "tailwind", "vite"}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — Portfolio\n\n", name)
	b.WriteString("Personal portfolio site generated from a resume.\n\n## Tech Stack\n\n")
	for _, tech := range stack {
		fmt.Fprintf(&b, "- %s\n", tech)
	}
	b.WriteString("\n## Getting Started\n\n```\nnpm install\nnpm run dev\n```\n\nBuild for production with `npm run build`.\n")
	return b.String()
}

const gitignore = `# Dependencies
node_modules/

# Build outputs
dist/
build/

# Environment
.env
.env.local

# IDE
.idea/
.vscode/

# OS
.DS_Store

# Logs
npm-debug.log*
yarn-error.log*
`
