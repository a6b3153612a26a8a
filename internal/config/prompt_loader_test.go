package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePromptFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	systemPath := writePromptFile(t, dir, "parse_system.txt", "  You extract structured resume data.  \n")
	userPath := writePromptFile(t, dir, "parse_user.txt", "Resume:\n{{.ResumeText}}")

	cfg := &Config{AI: AIConfig{Operations: map[string]OperationAIConfig{
		OpParseResume: {Prompts: PromptConfig{SystemFile: systemPath, UserFile: userPath}},
	}}}

	require.NoError(t, cfg.loadPromptsFromFiles())

	loaded := LoadedPromptsFor(OpParseResume)
	assert.Equal(t, "You extract structured resume data.", loaded.System, "file content should be trimmed")
	assert.Equal(t, "Resume:\n{{.ResumeText}}", loaded.User)

	// Operations without prompt files stay empty
	assert.Empty(t, LoadedPromptsFor(OpCodegen).System)
}

func TestLoadPromptsFromFilesMissingFile(t *testing.T) {
	cfg := &Config{AI: AIConfig{Operations: map[string]OperationAIConfig{
		OpPlanSite: {Prompts: PromptConfig{SystemFile: filepath.Join(t.TempDir(), "missing.txt")}},
	}}}

	err := cfg.loadPromptsFromFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read system plan prompt file")
}

func TestLoadPromptsFromFilesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	emptyPath := writePromptFile(t, dir, "empty.txt", "   \n\t ")

	cfg := &Config{AI: AIConfig{Operations: map[string]OperationAIConfig{
		OpQuestions: {Prompts: PromptConfig{UserFile: emptyPath}},
	}}}

	err := cfg.loadPromptsFromFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestOperationConfigAppliesGlobalFallbacks(t *testing.T) {
	cfg := &Config{AI: AIConfig{
		Provider:    "gemini",
		Model:       "gemini-2.0-flash",
		APIKey:      "global-key",
		MaxRetries:  3,
		Temperature: 0.7,
		Operations: map[string]OperationAIConfig{
			OpCodegen: {Model: "gemini-2.5-pro"},
		},
	}}

	codegen := cfg.OperationConfig(OpCodegen)
	assert.Equal(t, "gemini", codegen.Provider, "provider falls back to global")
	assert.Equal(t, "gemini-2.5-pro", codegen.Model, "explicit model wins")
	assert.Equal(t, "global-key", codegen.APIKey)
	require.NotNil(t, codegen.MaxRetries)
	assert.Equal(t, 3, *codegen.MaxRetries)

	// An operation with no overrides gets the global values
	parse := cfg.OperationConfig(OpParseResume)
	assert.Equal(t, "gemini-2.0-flash", parse.Model)
	require.NotNil(t, parse.Temperature)
	assert.InDelta(t, 0.7, float64(*parse.Temperature), 0.0001)
}
